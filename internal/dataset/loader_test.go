package dataset

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadBaselineDir(t *testing.T) {
	dir := t.TempDir()
	write := func(role Role, content string) {
		path := filepath.Join(dir, BaselineFiles[role])
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	write(RoleSalesHistory, "material_shop,units\nA1_Shop1,10\n")
	write(RoleProductsMaster, "material_shop,category\nA1_Shop1,beauty\n")

	registry, err := LoadBaselineDir(context.Background(), dir)
	require.NoError(t, err)

	require.NotNil(t, registry.Get(RoleSalesHistory))
	assert.Equal(t, 1, registry.Get(RoleSalesHistory).Len())
	require.NotNil(t, registry.Get(RoleProductsMaster))

	// Absent files leave their roles unpopulated rather than failing.
	assert.Nil(t, registry.Get(RoleSalesForecast))
	assert.ErrorIs(t, registry.Ready(), ErrIncompleteDatasets)
}

func TestLoadBaselineDirFailsOnUnparseableFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, BaselineFiles[RoleSalesHistory])
	require.NoError(t, os.WriteFile(path, []byte(""), 0o644))

	_, err := LoadBaselineDir(context.Background(), dir)
	assert.Error(t, err)
}
