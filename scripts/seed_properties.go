// Создаёт таблицу properties и заполняет её демонстрационными объявлениями.
// Запуск: DATABASE_URL=... go run scripts/seed_properties.go

package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"rentnova/internal/domain"
	"rentnova/internal/lib/logger/sl"
	"rentnova/internal/repository/property_repository"

	"github.com/jackc/pgx/v5/pgxpool"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS properties (
		property_id        UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		title              TEXT        NOT NULL,
		price              BIGINT      NOT NULL,
		property_type      TEXT        NOT NULL,
		bedroom_count      INT         NOT NULL DEFAULT 0,
		address            TEXT        NOT NULL DEFAULT '',
		city               TEXT        NOT NULL DEFAULT '',
		state              TEXT        NOT NULL DEFAULT '',
		country            TEXT        NOT NULL DEFAULT '',
		building_amenities TEXT[]      NOT NULL DEFAULT '{}',
		utilities          TEXT[]      NOT NULL DEFAULT '{}',
		furnishings        TEXT[]      NOT NULL DEFAULT '{}',
		status             TEXT        NOT NULL DEFAULT 'available',
		created_at         TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	"CREATE INDEX IF NOT EXISTS idx_properties_status ON properties(status)",
	"CREATE INDEX IF NOT EXISTS idx_properties_city ON properties(LOWER(city))",
}

var seed = []domain.Property{
	{
		Title: "Sunny loft near Lady Bird Lake", Price: 1850, PropertyType: domain.PropertyTypeApartment, BedroomCount: 1,
		Address: "200 Congress Ave", City: "Austin", State: "Texas", Country: "USA",
		BuildingAmenities: []string{"Rooftop pool", "Gym"}, Utilities: []string{"High-speed WiFi"},
	},
	{
		Title: "Family house with backyard", Price: 2900, PropertyType: domain.PropertyTypeHouse, BedroomCount: 4,
		Address: "12 Oak Lane", City: "Round Rock", State: "Texas", Country: "USA",
		BuildingAmenities: []string{"Garage", "Garden"}, Furnishings: []string{"Washer", "Dryer"},
	},
	{
		Title: "Minimalist studio downtown", Price: 1200, PropertyType: domain.PropertyTypeStudio, BedroomCount: 0,
		Address: "88 5th St", City: "Austin", State: "Texas", Country: "USA",
		Utilities: []string{"Water", "Electricity"},
	},
	{
		Title: "Skyline penthouse", Price: 7400, PropertyType: domain.PropertyTypePenthouse, BedroomCount: 3,
		Address: "1 Main St", City: "Dallas", State: "Texas", Country: "USA",
		BuildingAmenities: []string{"Concierge", "Private elevator", "Pool"},
	},
	{
		Title: "Duplex by the park", Price: 2300, PropertyType: domain.PropertyTypeDuplex, BedroomCount: 3,
		Address: "450 Elm St", City: "Houston", State: "Texas", Country: "USA",
		BuildingAmenities: []string{"Parking"}, Utilities: []string{"Gas"},
	},
	{
		Title: "Modern condo with balcony", Price: 2100, PropertyType: domain.PropertyTypeCondo, BedroomCount: 2,
		Address: "77 Pine Ave", City: "San Antonio", State: "Texas", Country: "USA",
		BuildingAmenities: []string{"Balcony", "Gym"}, Furnishings: []string{"Dishwasher"},
	},
}

func main() {
	log := slog.New(slog.NewTextHandler(os.Stdout, nil))

	connStr := os.Getenv("DATABASE_URL")
	if connStr == "" {
		log.Error("DATABASE_URL is not set")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		log.Error("failed to connect", sl.Err(err))
		os.Exit(1)
	}
	defer pool.Close()

	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			log.Error("failed to apply schema", sl.Err(err))
			os.Exit(1)
		}
	}

	repo := property_repository.NewPropertyRepository(pool, log)
	for _, p := range seed {
		id, err := repo.CreateProperty(ctx, p)
		if err != nil {
			log.Error("failed to insert property", slog.String("title", p.Title), sl.Err(err))
			os.Exit(1)
		}
		log.Info("property created", slog.String("property_id", id.String()), slog.String("title", p.Title))
	}

	log.Info("seed completed", slog.Int("count", len(seed)))
}
