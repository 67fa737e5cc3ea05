package safetystock

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/shopspring/decimal"
)

// exportdecimals is the rounding applied to exported quantities.
const exportDecimals = 4

// FilterResults returns the results whose key contains keySubstring
// (case-insensitive, empty matches all) and whose ss_optimal is at
// least minSS. Both predicates are ANDed; input order is preserved and
// the returned slice is independent of the input.
func FilterResults(results []Result, keySubstring string, minSS float64) []Result {
	needle := strings.ToLower(keySubstring)
	out := make([]Result, 0, len(results))
	for _, r := range results {
		if needle != "" && !strings.Contains(strings.ToLower(r.Key), needle) {
			continue
		}
		if r.SSOptimal < minSS {
			continue
		}
		out = append(out, r)
	}
	return out
}

// WriteCSV serializes results as a UTF-8 comma-separated table, header
// included, carrying the join key and the statistic columns. The
// encoding matches the dataset loader, so exports round-trip.
func WriteCSV(w io.Writer, keyName string, results []Result) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	header := []string{
		keyName,
		ColAvgMonthlyDemand,
		ColDemandStd,
		ColAvgLeadTime,
		ColLeadTimeStd,
		"risk_index",
		"ss_raw",
		"ss_optimal",
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, r := range results {
		record := []string{
			r.Key,
			formatQty(r.AvgMonthlyDemand),
			formatQty(r.DemandStd),
			formatQty(r.AvgLeadTime),
			formatQty(r.LeadTimeStd),
			formatQty(r.RiskIndex),
			formatQty(r.SSRaw),
			formatQty(r.SSOptimal),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func formatQty(v float64) string {
	return decimal.NewFromFloat(v).Round(exportDecimals).String()
}
