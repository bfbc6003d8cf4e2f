package main

import (
	"context"
	"log"
	"os"

	"github.com/menshealthfinder/clinicfinder/internal/adapters/database"
	"github.com/menshealthfinder/clinicfinder/internal/adapters/search"
	"github.com/menshealthfinder/clinicfinder/internal/application/services"
	"github.com/menshealthfinder/clinicfinder/internal/domain/entities"
	"github.com/menshealthfinder/clinicfinder/internal/domain/repositories"
	"github.com/menshealthfinder/clinicfinder/internal/infrastructure/clients/postgres"
	"github.com/menshealthfinder/clinicfinder/internal/infrastructure/clients/typesense"
	"github.com/menshealthfinder/clinicfinder/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer pgClient.Close()

	ctx := context.Background()

	var searchRepo repositories.ClinicSearchRepository
	if tsClient, err := typesense.NewClient(&cfg.Typesense); err == nil {
		if err := tsClient.InitSchema(ctx); err != nil {
			log.Printf("Failed to init search schema: %v", err)
		} else {
			searchRepo = search.NewTypesenseAdapter(tsClient)
		}
	}

	clinicRepo := database.NewClinicAdapter(pgClient)
	clinicService := services.NewClinicService(clinicRepo, searchRepo)

	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, truncating tables before seeding")
		_, err := pgClient.DB().ExecContext(ctx, `
			TRUNCATE TABLE
				search_events,
				clinics
			RESTART IDENTITY CASCADE
		`)
		if err != nil {
			log.Fatalf("Failed to reset tables: %v", err)
		}
	}

	clinics := []entities.Clinic{
		{
			Name:        "Austin Men's Health Center",
			Address:     entities.Address{Street: "1200 S Lamar Blvd", City: "Austin", State: "Texas", ZipCode: "78704"},
			Location:    entities.Location{Latitude: 30.2541, Longitude: -97.7663},
			PhoneNumber: "+1-512-555-0142",
			Website:     "https://austinmenshealth.example.com",
			Description: "Full-service men's health clinic offering hormone optimization and sexual health treatments.",
			Tier:        "advanced",
			Services:    []string{"TRT", "ED Treatment", "Peptide Therapy", "BPC-157"},
			Tags:        []string{"telehealth", "walk-in"},
			Verified:    true,
			IsActive:    true,
		},
		{
			Name:        "Lone Star TRT",
			Address:     entities.Address{Street: "4500 Main St", City: "Dallas", State: "Texas", ZipCode: "75201"},
			Location:    entities.Location{Latitude: 32.7767, Longitude: -96.797},
			PhoneNumber: "+1-214-555-0187",
			Website:     "https://lonestartrt.example.com",
			Tier:        "standard",
			Services:    []string{"TRT", "Hormone Optimization"},
			Verified:    true,
			IsActive:    true,
		},
		{
			Name:        "Desert Vitality Clinic",
			Address:     entities.Address{Street: "2200 E Camelback Rd", City: "Phoenix", State: "Arizona", ZipCode: "85016"},
			Location:    entities.Location{Latitude: 33.5091, Longitude: -112.0326},
			Tier:        "standard",
			Services:    []string{"TRT", "Weight Loss", "IV Therapy"},
			Verified:    false,
			IsActive:    true,
		},
		{
			Name:        "Windy City Men's Wellness",
			Address:     entities.Address{Street: "875 N Michigan Ave", City: "Chicago", State: "Illinois", ZipCode: "60611"},
			Location:    entities.Location{Latitude: 41.8988, Longitude: -87.6229},
			Tier:        "free",
			Services:    []string{"ED Treatment", "Hair Loss Treatment"},
			Verified:    false,
			IsActive:    true,
		},
		{
			Name:        "Gotham Peptide Institute",
			Address:     entities.Address{Street: "350 5th Ave", City: "New York", State: "New York", ZipCode: "10118"},
			Location:    entities.Location{Latitude: 40.7484, Longitude: -73.9857},
			Tier:        "advanced",
			Services:    []string{"Peptide Therapy", "Sermorelin", "HGH Therapy"},
			Verified:    true,
			IsActive:    true,
		},
		{
			// No coordinates on purpose: exercises the telehealth-only path.
			Name:     "Everywhere Telehealth",
			Address:  entities.Address{City: "Remote", State: "Nationwide"},
			Tier:     "free",
			Services: []string{"TRT", "Enclomiphene", "Sexual Health"},
			Tags:     []string{"telehealth"},
			Verified: false,
			IsActive: true,
		},
	}

	seeded := 0
	for i := range clinics {
		if err := clinicService.Create(ctx, &clinics[i]); err != nil {
			log.Printf("Failed to create clinic %s: %v", clinics[i].Name, err)
			continue
		}
		seeded++
	}

	log.Printf("Seeding complete: %d of %d clinics created", seeded, len(clinics))
}
