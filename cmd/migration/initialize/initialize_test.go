package initialize

import (
	"strings"
	"testing"

	migrate "github.com/rubenv/sql-migrate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsCreateEverySchemaTable(t *testing.T) {
	source := &migrate.EmbedFileSystemMigrationSource{
		FileSystem: migrationFiles,
		Root:       "migrations",
	}

	migrations, err := source.FindMigrations()
	require.NoError(t, err)
	require.NotEmpty(t, migrations)

	var up strings.Builder
	for _, m := range migrations {
		require.NotEmpty(t, m.Up, "migration %s has no up statements", m.Id)
		require.NotEmpty(t, m.Down, "migration %s has no down statements", m.Id)
		for _, stmt := range m.Up {
			up.WriteString(stmt)
		}
	}

	tables := []string{
		"users",
		"trucks",
		"diagnostic_sessions",
		"maintenance_records",
		"service_locations",
		"chat_conversations",
		"chat_messages",
		"repair_guides",
	}
	for _, table := range tables {
		assert.Contains(t, up.String(), "CREATE TABLE "+table+" ", "missing table %s", table)
	}

	assert.Contains(t, up.String(), "REFERENCES trucks (id) ON DELETE CASCADE")
	assert.Contains(t, up.String(), "REFERENCES chat_conversations (id) ON DELETE CASCADE")
}
