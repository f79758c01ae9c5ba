package migrations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/cloud-console/internal/testutil"
)

func TestRunMigrations(t *testing.T) {
	db := testutil.OpenDB(t, testutil.PostgresDSN(t))
	path := testutil.MigrationsPath(t)

	require.NoError(t, Run(db, path))

	for _, table := range []string{
		"instance_configuration", "workspaces", "cloud_workspaces",
		"program_status", "feature_flags", "analytics_events",
	} {
		var exists bool
		err := db.QueryRow(`SELECT EXISTS (
			SELECT FROM information_schema.tables WHERE table_name = $1
		)`, table).Scan(&exists)
		require.NoError(t, err)
		assert.True(t, exists, "table %s should exist", table)
	}

	var complete bool
	require.NoError(t, db.QueryRow(`SELECT initial_setup_complete FROM instance_configuration WHERE id = 1`).Scan(&complete))
	assert.False(t, complete)

	// повторный запуск не меняет схему
	require.NoError(t, Run(db, path))
}

func TestRunMigrations_InvalidPath(t *testing.T) {
	db := testutil.OpenDB(t, testutil.PostgresDSN(t))

	err := Run(db, "/nonexistent/migrations")
	require.Error(t, err)
}
