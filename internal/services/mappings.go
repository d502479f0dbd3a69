package services

import (
	"net/url"
	"time"

	apperrors "github.com/urlcut/urlcut-backend/pkg/errors"
	"github.com/urlcut/urlcut-backend/pkg/logger"

	"github.com/urlcut/urlcut-backend/internal/database"
	"github.com/urlcut/urlcut-backend/internal/models"
	"github.com/urlcut/urlcut-backend/internal/store"
)

// insertRetries bounds key-collision retries on create. Exhausting it means
// something is very wrong with the key space, so the error goes fatal.
const insertRetries = 3

// resolveCacheTTL caps how long a resolved target stays cached.
const resolveCacheTTL = time.Hour

// MappingService orchestrates mapping creation and redirect resolution.
type MappingService struct {
	Store       *store.MappingStore
	GuestExpiry time.Duration
}

func NewMappingService(s *store.MappingStore, guestExpiry time.Duration) *MappingService {
	return &MappingService{Store: s, GuestExpiry: guestExpiry}
}

func validateTarget(target string) error {
	u, err := url.Parse(target)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return apperrors.Validation("target", "Target must be a well-formed absolute URL")
	}
	return nil
}

// Create validates and persists a new mapping for the given owner. The key
// is generated lazily by the store; a collision is retried with a fresh key
// a bounded number of times.
func (s *MappingService) Create(target string, userID *string, expiryDate *time.Time) (*models.Mapping, error) {
	if err := validateTarget(target); err != nil {
		return nil, err
	}
	if expiryDate != nil && !expiryDate.After(time.Now()) {
		return nil, apperrors.Validation("expiry_date", "Expiry date cannot be in the past")
	}

	// Guest mappings are never permanent: force the policy expiry and
	// ignore whatever the client supplied.
	if userID == nil {
		guestExpiry := time.Now().Add(s.GuestExpiry)
		expiryDate = &guestExpiry
	}

	mapping := &models.Mapping{
		Target:     target,
		UserID:     userID,
		ExpiryDate: expiryDate,
	}

	var err error
	for attempt := 0; attempt < insertRetries; attempt++ {
		err = s.Store.Insert(mapping)
		if err == nil {
			return mapping, nil
		}
		if !apperrors.IsConflict(err) {
			return nil, err
		}
		// Collision with a concurrent insert: drop the key so the store
		// generates a fresh one on the next attempt.
		logger.Warn().Str("key", mapping.Key).Int("attempt", attempt+1).Msg("Mapping key collision, regenerating")
		mapping.Key = ""
	}
	return nil, err
}

// CreateGuest persists an ownerless mapping with the forced guest expiry.
func (s *MappingService) CreateGuest(target string) (*models.Mapping, error) {
	return s.Create(target, nil, nil)
}

// Resolve returns the target URL for an active mapping and counts the visit.
// Missing, expired and foreign keys are all reported as the same not-found.
func (s *MappingService) Resolve(key string) (string, error) {
	if cached := database.GetCachedTarget(key); cached != "" {
		// The row may have been reaped since it was cached; the increment
		// doubles as the existence check.
		if err := s.Store.IncrementVisits(key); err != nil {
			return "", err
		}
		return cached, nil
	}

	mapping, err := s.Store.FindActiveByKey(key)
	if err != nil {
		return "", err
	}

	if err := s.Store.IncrementVisits(key); err != nil {
		return "", err
	}

	ttl := resolveCacheTTL
	if mapping.ExpiryDate != nil {
		if remaining := time.Until(*mapping.ExpiryDate); remaining < ttl {
			ttl = remaining
		}
	}
	if err := database.CacheTarget(key, mapping.Target, ttl); err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("Failed to cache resolved target")
	}

	return mapping.Target, nil
}

// GetDetail returns a mapping owned by the given user.
func (s *MappingService) GetDetail(key, userID string) (*models.Mapping, error) {
	return s.Store.FindByKeyAndOwner(key, userID)
}

// ListByOwner returns all mappings of a user in creation order.
func (s *MappingService) ListByOwner(userID string) ([]models.Mapping, error) {
	return s.Store.ListByOwner(userID)
}
