package migrations

import (
	"embed"
	"fmt"
	"log/slog"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed sql/*.sql
var files embed.FS

// Up применяет все миграции из бинарника.
func Up(dsn string, log *slog.Logger) error {
	sqlDB, err := goose.OpenDBWithDriver("pgx", dsn)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer func() { _ = sqlDB.Close() }()

	goose.SetBaseFS(files)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	if err := goose.Up(sqlDB, "sql"); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}

	ver, err := goose.GetDBVersion(sqlDB)
	if err == nil {
		log.Info("migrations applied", "version", ver)
	}
	return nil
}

// Files отдаёт встроенные миграции (для тестов и утилит).
func Files() embed.FS { return files }
