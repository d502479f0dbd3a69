package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/urlcut/urlcut-backend/internal/models"
	"github.com/urlcut/urlcut-backend/internal/services"
	apperrors "github.com/urlcut/urlcut-backend/pkg/errors"
	"github.com/urlcut/urlcut-backend/pkg/logger"
)

// MappingSvc and BaseURL are wired once from main. BaseURL is injected here
// instead of read from the request so serialization has no ambient state.
var (
	MappingSvc *services.MappingService
	BaseURL    string
)

func InitMappings(svc *services.MappingService, baseURL string) {
	MappingSvc = svc
	BaseURL = baseURL
}

type CreateMappingInput struct {
	Target     string     `json:"target" binding:"required"`
	ExpiryDate *time.Time `json:"expiry_date"`
}

func shortURL(key string) string {
	return fmt.Sprintf("%s/%s", BaseURL, key)
}

func createResponse(m *models.Mapping) gin.H {
	return gin.H{
		"target":      m.Target,
		"key":         m.Key,
		"expiry_date": m.ExpiryDate,
		"short_url":   shortURL(m.Key),
	}
}

func detailResponse(m *models.Mapping) gin.H {
	return gin.H{
		"target":      m.Target,
		"key":         m.Key,
		"expiry_date": m.ExpiryDate,
		"visits":      m.Visits,
		"is_active":   m.IsActive(time.Now()),
	}
}

func writeServiceError(c *gin.Context, err error) {
	if appErr, ok := err.(*apperrors.AppError); ok {
		body := gin.H{"error": appErr.Message}
		if appErr.Field != "" {
			body["field"] = appErr.Field
		}
		c.JSON(appErr.Code, body)
		return
	}
	logger.Error().Err(err).Msg("Mapping operation failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}

// CreateMapping handles POST /api/shorten for authenticated users.
func CreateMapping(c *gin.Context) {
	userID, exists := c.Get("userId")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var input CreateMappingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	owner := userID.(string)
	mapping, err := MappingSvc.Create(input.Target, &owner, input.ExpiryDate)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, createResponse(mapping))
}

// CreateGuestMapping handles POST /api/guest/shorten. No authentication;
// the server forces the 24h guest expiry and ignores any client expiry.
func CreateGuestMapping(c *gin.Context) {
	var input CreateMappingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	mapping, err := MappingSvc.CreateGuest(input.Target)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, createResponse(mapping))
}

// GetMapping handles GET /api/keys/:key for the mapping's owner.
func GetMapping(c *gin.Context) {
	userID, exists := c.Get("userId")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	mapping, err := MappingSvc.GetDetail(c.Param("key"), userID.(string))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, detailResponse(mapping))
}

// ListMappings handles GET /api/keys for the authenticated user.
func ListMappings(c *gin.Context) {
	userID, exists := c.Get("userId")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	mappings, err := MappingSvc.ListByOwner(userID.(string))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	out := make([]gin.H, 0, len(mappings))
	for i := range mappings {
		out = append(out, detailResponse(&mappings[i]))
	}
	c.JSON(http.StatusOK, gin.H{"mappings": out})
}
