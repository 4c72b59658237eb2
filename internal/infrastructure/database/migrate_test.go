package database

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationFiles_Paired(t *testing.T) {
	entries, err := fs.ReadDir(migrationFiles, "migrations")
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	ups, downs := 0, 0
	for _, e := range entries {
		switch {
		case strings.HasSuffix(e.Name(), ".up.sql"):
			ups++
		case strings.HasSuffix(e.Name(), ".down.sql"):
			downs++
		}
	}
	assert.Equal(t, ups, downs)
}

func TestMigrationFiles_SpatialSchema(t *testing.T) {
	raw, err := fs.ReadFile(migrationFiles, "migrations/000001_init_schema.up.sql")
	require.NoError(t, err)
	sql := string(raw)

	assert.Contains(t, sql, "CREATE EXTENSION IF NOT EXISTS postgis")
	assert.Contains(t, sql, "location         geometry(Point, 4326)")
	assert.Contains(t, sql, "USING GIST (location)")
	assert.Contains(t, sql, "providers_email_key")
	assert.Contains(t, sql, "specialties_name_key")
	assert.Contains(t, sql, "ratings_provider_patient_key")
}
