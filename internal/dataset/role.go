package dataset

import "fmt"

// Role identifies one of the five fixed input datasets.
type Role string

const (
	RoleSalesHistory     Role = "sales_history"
	RoleProductsMaster   Role = "products_master"
	RoleProductLifecycle Role = "product_lifecycle"
	RoleSalesForecast    Role = "sales_forecast"
	RoleLeadtimeHistory  Role = "leadtime_history"
)

// Roles lists all dataset roles in their canonical order.
var Roles = []Role{
	RoleSalesHistory,
	RoleProductsMaster,
	RoleProductLifecycle,
	RoleSalesForecast,
	RoleLeadtimeHistory,
}

// BaselineFiles maps each role to the baseline CSV file name expected
// in the data directory.
var BaselineFiles = map[Role]string{
	RoleSalesHistory:     "sales_history_24m_piacenza_enhanced.csv",
	RoleProductsMaster:   "products_master_enhanced.csv",
	RoleProductLifecycle: "product_lifecycle.csv",
	RoleSalesForecast:    "sales_forecast_12m_piacenza.csv",
	RoleLeadtimeHistory:  "leadtime_history_24m_piacenza.csv",
}

// ParseRole validates a role string coming from the API or CLI.
func ParseRole(s string) (Role, error) {
	for _, r := range Roles {
		if string(r) == s {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown dataset role %q", s)
}
