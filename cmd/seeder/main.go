package main

import (
	"log"

	"github.com/urlcut/urlcut-backend/internal/config"
	"github.com/urlcut/urlcut-backend/internal/database"
	"github.com/urlcut/urlcut-backend/internal/models"
	"github.com/urlcut/urlcut-backend/internal/seeds"
)

func main() {
	config.LoadConfig()
	database.Connect()

	log.Println("🔄 Running migrations (just in case)...")
	if err := database.DB.AutoMigrate(&models.User{}, &models.Mapping{}); err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}

	user, err := seeds.GetOrCreateDemoUser()
	if err != nil {
		log.Fatalf("❌ Failed to seed demo user: %v", err)
	}

	if err := seeds.SeedMappings(user); err != nil {
		log.Fatalf("❌ Failed to seed mappings: %v", err)
	}

	log.Println("✅ Seeding complete")
}
