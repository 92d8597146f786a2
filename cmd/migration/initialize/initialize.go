package initialize

import (
	"database/sql"
	"embed"

	"github.com/Margarita215729/truck-repair-assistant-sub001/internal/logger"

	migrate "github.com/rubenv/sql-migrate"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migrate brings the relational schema up to date and returns the number
// of migrations applied.
func Migrate(db *sql.DB, log logger.Logger) (int, error) {
	log = log.Function("Migrate")

	source := &migrate.EmbedFileSystemMigrationSource{
		FileSystem: migrationFiles,
		Root:       "migrations",
	}

	applied, err := migrate.Exec(db, "postgres", source, migrate.Up)
	if err != nil {
		return 0, log.Err("failed to apply migrations", err)
	}

	log.Info("Migrations applied", "count", applied)
	return applied, nil
}
