package safetystock

import (
	"github.com/meio-shop/backend-go/internal/dataset"
)

// JoinSource is one auxiliary table to be left-joined onto the working
// table, with the suffix applied to its colliding column names.
type JoinSource struct {
	Role   dataset.Role
	Table  *dataset.Table
	Suffix string
}

// Sources returns the auxiliary tables of a registry in the fixed merge
// order. The order matters: suffix collisions downstream depend on it.
func Sources(tables map[dataset.Role]*dataset.Table) []JoinSource {
	return []JoinSource{
		{Role: dataset.RoleSalesForecast, Table: tables[dataset.RoleSalesForecast], Suffix: "_fcst"},
		{Role: dataset.RoleProductsMaster, Table: tables[dataset.RoleProductsMaster], Suffix: "_pm"},
		{Role: dataset.RoleProductLifecycle, Table: tables[dataset.RoleProductLifecycle], Suffix: "_pl"},
		{Role: dataset.RoleLeadtimeHistory, Table: tables[dataset.RoleLeadtimeHistory], Suffix: "_lt"},
	}
}

// Join left-joins each source onto base in order, on the key column.
// Every base row appears exactly once in the output: the first right
// row per key wins, unmatched keys fill the right-side columns with the
// missing marker. Column names already present in the accumulated table
// are renamed in the source with its suffix, so no input column is
// silently discarded.
func Join(base *dataset.Table, sources []JoinSource, key string) *dataset.Table {
	acc := base.Clone()
	for _, src := range sources {
		if src.Table == nil {
			continue
		}
		acc = leftJoin(acc, src.Table, key, src.Suffix)
	}
	return acc
}

func leftJoin(left, right *dataset.Table, key, suffix string) *dataset.Table {
	leftKey := left.ColumnIndex(key)
	rightKey := right.ColumnIndex(key)

	// Ordered rename map for the right columns, built once per merge.
	taken := make(map[string]struct{}, len(left.Columns))
	for _, c := range left.Columns {
		taken[c] = struct{}{}
	}
	rightCols := make([]int, 0, len(right.Columns))
	renamed := make([]string, 0, len(right.Columns))
	for i, c := range right.Columns {
		if i == rightKey {
			continue
		}
		name := c
		if _, collides := taken[c]; collides {
			name = c + suffix
		}
		rightCols = append(rightCols, i)
		renamed = append(renamed, name)
	}

	// First occurrence per key wins, keeping left cardinality intact
	// even when the right table carries duplicate keys.
	index := make(map[string]int, right.Len())
	if rightKey >= 0 {
		for i := range right.Rows {
			k := right.Cell(i, rightKey)
			if _, ok := index[k]; !ok {
				index[k] = i
			}
		}
	}

	out := &dataset.Table{
		Columns: append(append([]string(nil), left.Columns...), renamed...),
		Rows:    make([][]string, left.Len()),
	}
	for i := range left.Rows {
		row := make([]string, 0, len(out.Columns))
		row = append(row, left.Rows[i]...)
		rightRow := -1
		if leftKey >= 0 {
			if idx, ok := index[left.Cell(i, leftKey)]; ok {
				rightRow = idx
			}
		}
		for _, rc := range rightCols {
			if rightRow >= 0 {
				row = append(row, right.Cell(rightRow, rc))
			} else {
				row = append(row, dataset.Missing)
			}
		}
		out.Rows[i] = row
	}
	return out
}
