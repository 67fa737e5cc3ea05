package safetystock

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingJoinKey is returned when none of the accepted join key
// aliases is present in the sales history header. This is fatal for
// the run; no partial join is attempted.
var ErrMissingJoinKey = errors.New("no join key column found")

// JoinKeyAliases is the fixed, ordered list of accepted join key
// column names. Matching is case-sensitive and exact; the first alias
// present wins. Datasets using a different naming convention entirely
// halt the pipeline rather than being guessed at.
var JoinKeyAliases = []string{
	"material_shop",
	"Material_Shop",
	"materialShop",
	"SKU_Shop",
}

// ResolveJoinKey picks the join key from the sales history columns.
func ResolveJoinKey(columns []string) (string, error) {
	present := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		present[c] = struct{}{}
	}
	for _, alias := range JoinKeyAliases {
		if _, ok := present[alias]; ok {
			return alias, nil
		}
	}
	return "", fmt.Errorf("%w: expected one of %s", ErrMissingJoinKey, strings.Join(JoinKeyAliases, ", "))
}
