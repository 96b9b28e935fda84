package main

import (
	"errors"
	"os"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/roamly/experiences-backend/internal/config"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	if len(os.Args) < 2 {
		logger.Fatal("Migration direction (up/down/drop/step-up) is required")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	mig, err := migrate.New("file://migrations", cfg.Database.URL)
	if err != nil {
		logger.Fatalf("Failed to create migrate instance: %v", err)
	}
	defer mig.Close()

	switch os.Args[1] {
	case "up":
		err = mig.Up()
	case "down":
		err = mig.Steps(-1)
	case "step-up":
		err = mig.Steps(1)
	case "drop":
		err = mig.Down()
	default:
		logger.Fatal("Invalid direction. Use 'up', 'down', 'drop' or 'step-up'")
	}

	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		logger.Fatalf("Migration failed: %v", err)
	}

	logger.Info("Database migrations completed successfully")
}
