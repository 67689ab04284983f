package migrations

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMigrationFiles_HaveGooseSections(t *testing.T) {
	names, err := fs.Glob(FS, "*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, names)

	for _, name := range names {
		b, err := fs.ReadFile(FS, name)
		require.NoError(t, err)
		body := string(b)
		require.Contains(t, body, "-- +goose Up", name)
		require.Contains(t, body, "-- +goose Down", name)
		require.Less(t, strings.Index(body, "-- +goose Up"), strings.Index(body, "-- +goose Down"), name)
	}
}

func TestBaseline_DefinesTrackerTables(t *testing.T) {
	b, err := fs.ReadFile(FS, "00001_tracker_baseline.sql")
	require.NoError(t, err)
	for _, table := range []string{"users", "vendors", "categories", "action_items", "status_history", "notes"} {
		require.Contains(t, string(b), "CREATE TABLE IF NOT EXISTS "+table+" (")
	}
	require.Contains(t, string(b), "UNIQUE (vendor_id, name)")
	require.Contains(t, string(b), "id BIGSERIAL PRIMARY KEY")
}
