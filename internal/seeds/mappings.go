package seeds

import (
	"log"
	"time"

	"github.com/urlcut/urlcut-backend/internal/config"
	"github.com/urlcut/urlcut-backend/internal/database"
	"github.com/urlcut/urlcut-backend/internal/models"
	"github.com/urlcut/urlcut-backend/internal/store"
)

// SeedMappings creates a few sample mappings for the demo user: one
// permanent, one expiring soon, and one already expired so the cleanup job
// has something to chew on.
func SeedMappings(owner models.User) error {
	log.Println("🔗 Seeding sample mappings...")

	var count int64
	database.DB.Model(&models.Mapping{}).Where("user_id = ?", owner.ID).Count(&count)
	if count > 0 {
		log.Println("   ✅ Mappings already present, skipping")
		return nil
	}

	s := store.NewMappingStore(database.DB, config.AppConfig.KeyLength)

	soon := time.Now().Add(48 * time.Hour)
	past := time.Now().Add(-time.Hour)

	samples := []models.Mapping{
		{Target: "https://go.dev/doc/effective_go", UserID: &owner.ID},
		{Target: "https://example.com/campaign", UserID: &owner.ID, ExpiryDate: &soon},
		{Target: "https://example.com/old-promo", UserID: &owner.ID, ExpiryDate: &past},
	}

	for i := range samples {
		if err := s.Insert(&samples[i]); err != nil {
			return err
		}
		log.Printf("   ✅ %s -> %s", samples[i].Key, samples[i].Target)
	}

	return nil
}
