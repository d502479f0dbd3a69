package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/urlcut/urlcut-backend/internal/config"
	"github.com/urlcut/urlcut-backend/internal/database"
	"github.com/urlcut/urlcut-backend/internal/handlers"
	"github.com/urlcut/urlcut-backend/internal/models"
	"github.com/urlcut/urlcut-backend/internal/routes"
	"github.com/urlcut/urlcut-backend/internal/services"
	"github.com/urlcut/urlcut-backend/internal/store"
	"github.com/urlcut/urlcut-backend/pkg/logger"
)

const integrationBaseURL = "http://short.test"

// setupTestDB wires the whole stack against an in-memory SQLite database
// and overrides the global database.DB the handlers use.
func setupTestDB(t *testing.T) *gorm.DB {
	config.AppConfig = &config.Config{
		JWTSecret: "test_secret_key_12345",
		BaseURL:   integrationBaseURL,
	}
	logger.Init("test")

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test DB: %v", err)
	}

	db.Migrator().DropTable(&models.Mapping{}, &models.User{})
	if err := db.AutoMigrate(&models.User{}, &models.Mapping{}); err != nil {
		t.Fatalf("Failed to migrate test DB: %v", err)
	}

	database.DB = db
	return db
}

// setupRouter builds the same route layout as cmd/server, minus the
// rate limiters that would get in the way of rapid test requests.
func setupRouter(db *gorm.DB) (*gin.Engine, *services.MappingService) {
	gin.SetMode(gin.TestMode)

	mappingStore := store.NewMappingStore(db, 10)
	svc := services.NewMappingService(mappingStore, 24*time.Hour)
	handlers.InitMappings(svc, integrationBaseURL)

	r := gin.New()
	api := r.Group("/api")
	routes.RegisterAuthRoutes(api.Group("/auth"))
	routes.RegisterMappingRoutes(api)
	routes.RegisterRedirectRoutes(r)
	return r, svc
}

func performRequest(r *gin.Engine, method, path string, payload any, token string) *httptest.ResponseRecorder {
	var body bytes.Buffer
	if payload != nil {
		json.NewEncoder(&body).Encode(payload)
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// createTestUser registers a fresh user through the real endpoint and
// returns the issued token.
func createTestUser(t *testing.T, name, email string) string {
	r := gin.New()
	routes.RegisterAuthRoutes(r.Group("/api/auth"))

	w := performRequest(r, "POST", "/api/auth/register", map[string]any{
		"name":     name,
		"email":    email,
		"password": "integration-pass",
	}, "")
	assert.Equal(t, http.StatusCreated, w.Code, "registration should succeed")

	var resp struct {
		Token string `json:"token"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
	return resp.Token
}
