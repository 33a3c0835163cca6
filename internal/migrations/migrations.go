package migrations

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

//go:embed sql/*.sql
var embedMigrations embed.FS

func RunMigrations(db *sql.DB, logger *zap.SugaredLogger) error {
	goose.SetBaseFS(embedMigrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("migrations dialect: %w", err)
	}
	if err := goose.Up(db, "sql"); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	logger.Info("Database migrations applied successfully!")
	return nil
}
