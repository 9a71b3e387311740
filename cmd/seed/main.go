// Seeds the database with sample listings, bookings and reviews.
package main

import (
	"context"

	"travelapp/config"
	repository "travelapp/internal/database/postgres"
	"travelapp/internal/seed"
	"travelapp/pkg/postgres"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	logrus.SetFormatter(new(logrus.JSONFormatter))

	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file found, relying on environment")
	}

	viperInstance, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Cannot load config. Error: {%s}", err.Error())
	}

	cfg, err := config.ParseConfig(viperInstance)
	if err != nil {
		logrus.Fatalf("Cannot parse config. Error: {%s}", err.Error())
	}

	db, err := postgres.NewPostgresDB(&cfg.Database)
	if err != nil {
		logrus.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := postgres.RunMigrations(db); err != nil {
		logrus.Fatalf("Failed to run migrations: %v", err)
	}

	seeder := seed.NewSeeder(
		repository.NewListingRepository(db),
		repository.NewBookingRepository(db),
		repository.NewReviewRepository(db),
		repository.NewUserRepository(db),
		logrus.StandardLogger(),
	)

	if err := seeder.Run(context.Background()); err != nil {
		logrus.Fatalf("Seeding failed: %v", err)
	}
}
