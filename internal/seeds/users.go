package seeds

import (
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/urlcut/urlcut-backend/internal/database"
	"github.com/urlcut/urlcut-backend/internal/models"
	"github.com/urlcut/urlcut-backend/pkg/utils"
)

// GetOrCreateDemoUser ensures a local development account exists.
func GetOrCreateDemoUser() (models.User, error) {
	log.Println("👤 Checking demo user...")

	email := "demo@urlcut.com"

	var user models.User
	if err := database.DB.Where("email = ?", email).First(&user).Error; err == nil {
		log.Printf("   ✅ Demo user found: %s", user.Email)
		return user, nil
	}

	hash, _ := bcrypt.GenerateFromPassword([]byte("demopass123"), bcrypt.DefaultCost)

	user = models.User{
		ID:        utils.GenerateID(),
		Name:      "Demo User",
		Email:     email,
		Password:  string(hash),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := database.DB.Create(&user).Error; err != nil {
		return models.User{}, err
	}

	log.Printf("   ✅ Demo user created: %s", user.Email)
	return user, nil
}
