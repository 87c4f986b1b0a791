package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/ruleflow/ruleflow/internal/logger"
)

func main() {
	var databaseURL string
	var migrationsPath string
	var command string

	flag.StringVar(&databaseURL, "database", "", "Database URL (required)")
	flag.StringVar(&migrationsPath, "path", "migrations", "Path to migrations directory")
	flag.StringVar(&command, "command", "up", "Migration command: up, down, version, force")
	flag.Parse()

	logger.Init()
	log := logger.Logger

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		log.Error("database URL is required; use -database flag or DATABASE_URL environment variable")
		os.Exit(1)
	}

	log.Info("connecting to database", "migrations", migrationsPath)

	m, err := migrate.New(
		fmt.Sprintf("file://%s", migrationsPath),
		databaseURL,
	)
	if err != nil {
		log.Error("failed to create migration instance", "error", err)
		os.Exit(1)
	}
	defer m.Close()

	switch command {
	case "up":
		err = m.Up()
		if err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info("no migrations to run, database is up to date")
		} else {
			log.Info("migrations completed")
		}

	case "down":
		if err := m.Steps(-1); err != nil {
			log.Error("failed to roll back migration", "error", err)
			os.Exit(1)
		}
		log.Info("rolled back one migration")

	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			log.Error("failed to read migration version", "error", err)
			os.Exit(1)
		}
		log.Info("migration state", "version", version, "dirty", dirty)

	case "force":
		if flag.NArg() < 1 {
			log.Error("force requires a version argument")
			os.Exit(1)
		}
		version, err := strconv.Atoi(flag.Arg(0))
		if err != nil {
			log.Error("invalid version argument", "error", err)
			os.Exit(1)
		}
		if err := m.Force(version); err != nil {
			log.Error("failed to force version", "error", err)
			os.Exit(1)
		}
		log.Info("forced migration version", "version", version)

	default:
		log.Error("unknown command", "command", command)
		os.Exit(1)
	}
}
