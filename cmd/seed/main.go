// Command seed populates the database with demo users and travel diaries.
package main

import (
	"flag"
	"log"

	"wayfare/internal/config"
	"wayfare/internal/database"
	"wayfare/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 20, "Number of users to create")
	numTravels := flag.Int("travels", 100, "Number of travels to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	log.Println("Database Seeder")
	log.Printf("Target: %d users, %d travels, clean=%v\n", *numUsers, *numTravels, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	s := seed.NewSeeder(db)
	if err := s.Run(seed.Options{
		NumUsers:    *numUsers,
		NumTravels:  *numTravels,
		ShouldClean: *shouldClean,
	}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
}
