package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/golang-migrate/migrate/v4"
	"github.com/joho/godotenv"

	"github.com/kirei/backend/internal/config"
	"github.com/kirei/backend/internal/database"
	"github.com/kirei/backend/internal/logging"
)

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: migrate [command]

Commands:
  (default)   全マイグレーションを適用
  down        直前のマイグレーションを1つ取り消す
  version     現在のマイグレーションバージョンを表示`)
	os.Exit(1)
}

func main() {
	_ = godotenv.Load()
	_ = godotenv.Load("../.env")
	logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("failed to load config", "error", err)
	}

	cmd := ""
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "":
		if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
			logging.Fatal("migration failed", "error", err)
		}
		slog.Info("migrations completed")
	case "down":
		m, err := database.NewMigrator(cfg.DatabaseURL)
		if err != nil {
			logging.Fatal("migrator init failed", "error", err)
		}
		defer m.Close()
		if err := m.Steps(-1); err != nil && err != migrate.ErrNoChange {
			logging.Fatal("down migration failed", "error", err)
		}
		slog.Info("rolled back one migration")
	case "version":
		m, err := database.NewMigrator(cfg.DatabaseURL)
		if err != nil {
			logging.Fatal("migrator init failed", "error", err)
		}
		defer m.Close()
		version, dirty, err := m.Version()
		if err != nil && err != migrate.ErrNilVersion {
			logging.Fatal("version lookup failed", "error", err)
		}
		slog.Info("migration version", "version", version, "dirty", dirty)
	default:
		usage()
	}
}
