package postgres

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_EmbeddedMigrationsAreSequential(t *testing.T) {
	m := NewMigrator(nil)

	migrations, err := m.Load()
	require.NoError(t, err)
	require.Len(t, migrations, 5)

	assert.Equal(t, "create users", migrations[0].Name)
	assert.Equal(t, "create signals", migrations[4].Name)
	for _, mig := range migrations {
		assert.Len(t, mig.Checksum, 64)
		assert.NotEqual(t, "No description", mig.Description)
	}
}

func TestLoad_GapIsRejected(t *testing.T) {
	m := &Migrator{source: fstest.MapFS{
		"migrations/001_a.sql": {Data: []byte("SELECT 1;")},
		"migrations/003_c.sql": {Data: []byte("SELECT 3;")},
	}}

	_, err := m.Load()
	assert.Error(t, err)
}

func TestParseMigrationFilename(t *testing.T) {
	id, name, err := parseMigrationFilename("012_add_index.sql")
	require.NoError(t, err)
	assert.Equal(t, 12, id)
	assert.Equal(t, "add index", name)

	_, _, err = parseMigrationFilename("broken.sql")
	assert.Error(t, err)
}
