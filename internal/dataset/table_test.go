package dataset

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTablePadsShortRows(t *testing.T) {
	table := NewTable([]string{"a", "b", "c"}, [][]string{
		{"1", "2", "3"},
		{"4"},
	})

	require.Equal(t, 2, table.Len())
	assert.Equal(t, "4", table.Cell(1, 0))
	assert.Equal(t, Missing, table.Cell(1, 1))
	assert.Equal(t, Missing, table.Cell(1, 2))
}

func TestColumnLookupIsCaseSensitive(t *testing.T) {
	table := NewTable([]string{"Material_Shop", "units"}, nil)

	assert.Equal(t, 0, table.ColumnIndex("Material_Shop"))
	assert.Equal(t, -1, table.ColumnIndex("material_shop"))
	assert.True(t, table.HasColumn("units"))
}

func TestFirstNumericColumn(t *testing.T) {
	table := NewTable([]string{"material_shop", "units_sold", "price"}, [][]string{
		{"A1_Shop1", "10", "2.5"},
		{"A2_Shop1", "-3", "1.0"},
	})

	// The key column is not numeric, units_sold is the first that is.
	assert.Equal(t, 1, table.FirstNumericColumn())
}

func TestFirstNumericColumnIgnoresMissingCells(t *testing.T) {
	table := NewTable([]string{"k", "v"}, [][]string{
		{"A", ""},
		{"B", "7"},
	})

	assert.Equal(t, 1, table.FirstNumericColumn())
}

func TestFirstNumericColumnNoneQualifies(t *testing.T) {
	table := NewTable([]string{"k", "v"}, [][]string{
		{"A", "x"},
		{"B", ""},
	})

	assert.Equal(t, -1, table.FirstNumericColumn())

	// An entirely missing column is not numeric either.
	empty := NewTable([]string{"k"}, [][]string{{""}})
	assert.Equal(t, -1, empty.FirstNumericColumn())
}

func TestCloneIsIndependent(t *testing.T) {
	table := NewTable([]string{"k"}, [][]string{{"A"}})
	clone := table.Clone()
	clone.Rows[0][0] = "B"
	clone.Columns[0] = "renamed"

	assert.Equal(t, "A", table.Cell(0, 0))
	assert.Equal(t, "k", table.Columns[0])
}

func TestPreviewBounds(t *testing.T) {
	table := NewTable([]string{"k"}, [][]string{{"A"}, {"B"}, {"C"}})

	assert.Equal(t, 2, table.Preview(2).Len())
	assert.Equal(t, 3, table.Preview(100).Len())
	assert.Equal(t, 0, table.Preview(-1).Len())
}

func TestReadTableRoundTrip(t *testing.T) {
	in := "material_shop,units\nA1_Shop1,10\nA2_Shop1,20\n"
	table, err := ReadTable(strings.NewReader(in))
	require.NoError(t, err)
	require.Equal(t, []string{"material_shop", "units"}, table.Columns)
	require.Equal(t, 2, table.Len())

	var buf strings.Builder
	require.NoError(t, WriteTable(&buf, table))
	assert.Equal(t, in, buf.String())
}

func TestWriteTableQuotesSpecialCells(t *testing.T) {
	table := NewTable([]string{"material_shop", "note"}, [][]string{
		{"A1_Shop1", "slow, seasonal"},
		{"A2_Shop1", `tagged "promo"`},
	})

	var buf strings.Builder
	require.NoError(t, WriteTable(&buf, table))
	assert.Equal(t, "material_shop,note\nA1_Shop1,\"slow, seasonal\"\nA2_Shop1,\"tagged \"\"promo\"\"\"\n", buf.String())

	back, err := ReadTable(strings.NewReader(buf.String()))
	require.NoError(t, err)
	assert.Equal(t, table.Rows, back.Rows)
}

func TestReadTableEmptySource(t *testing.T) {
	_, err := ReadTable(strings.NewReader(""))
	assert.Error(t, err)
}
