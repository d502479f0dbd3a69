package store

import (
	"errors"
	"time"

	apperrors "github.com/urlcut/urlcut-backend/pkg/errors"
	"github.com/urlcut/urlcut-backend/pkg/utils"

	"github.com/urlcut/urlcut-backend/internal/models"
	"gorm.io/gorm"
)

// MappingStore is the durable collection of Mapping records. All reads
// recompute the active predicate from the clock; nothing is flagged in rows.
type MappingStore struct {
	db        *gorm.DB
	keyLength int
}

func NewMappingStore(db *gorm.DB, keyLength int) *MappingStore {
	return &MappingStore{db: db, keyLength: keyLength}
}

// KeyExists reports whether any mapping already uses the given key.
func (s *MappingStore) KeyExists(key string) (bool, error) {
	var count int64
	if err := s.db.Model(&models.Mapping{}).Where("key = ?", key).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Insert persists a mapping, generating a unique key first when none is set.
// A concurrent insert racing to the same key surfaces as a Conflict error so
// the caller can regenerate and retry.
func (s *MappingStore) Insert(m *models.Mapping) error {
	if m.Key == "" {
		key, err := utils.GenerateUniqueKey(s.keyLength, s.KeyExists)
		if err != nil {
			return err
		}
		m.Key = key
	}

	if err := s.db.Create(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.Conflict("mapping key already exists")
		}
		return err
	}
	return nil
}

// FindByKey looks a mapping up by key with no expiry filtering.
func (s *MappingStore) FindByKey(key string) (*models.Mapping, error) {
	var m models.Mapping
	if err := s.db.Where("key = ?", key).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("mapping not found")
		}
		return nil, err
	}
	return &m, nil
}

// FindActiveByKey looks a mapping up by key, filtered to active rows at
// query time. Expired mappings behave exactly like missing ones.
func (s *MappingStore) FindActiveByKey(key string) (*models.Mapping, error) {
	var m models.Mapping
	err := s.db.
		Where("key = ?", key).
		Where("expiry_date IS NULL OR expiry_date > ?", time.Now()).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("mapping not found")
		}
		return nil, err
	}
	return &m, nil
}

// FindByKeyAndOwner scopes the lookup to one owner. An ownership mismatch is
// reported as not-found so key existence never leaks across owners.
func (s *MappingStore) FindByKeyAndOwner(key, userID string) (*models.Mapping, error) {
	var m models.Mapping
	if err := s.db.Where("key = ? AND user_id = ?", key, userID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("mapping not found")
		}
		return nil, err
	}
	return &m, nil
}

// ListByOwner returns a user's mappings in insertion order.
func (s *MappingStore) ListByOwner(userID string) ([]models.Mapping, error) {
	var mappings []models.Mapping
	err := s.db.Where("user_id = ?", userID).Order("id").Find(&mappings).Error
	return mappings, err
}

// ListExpired returns every mapping whose expiry date has passed, with the
// owner preloaded for notification grouping.
func (s *MappingStore) ListExpired() ([]models.Mapping, error) {
	var mappings []models.Mapping
	err := s.db.
		Preload("User").
		Where("expiry_date IS NOT NULL AND expiry_date <= ?", time.Now()).
		Order("id").
		Find(&mappings).Error
	return mappings, err
}

// IncrementVisits bumps the visit counter as a single server-side update.
// Concurrent redirects to the same key must never lose increments, so this
// is never a read-modify-write from application memory.
func (s *MappingStore) IncrementVisits(key string) error {
	res := s.db.Model(&models.Mapping{}).
		Where("key = ?", key).
		UpdateColumn("visits", gorm.Expr("visits + ?", 1))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("mapping not found")
	}
	return nil
}

// DeleteMany removes all mappings with the given keys and reports how many
// rows actually went away.
func (s *MappingStore) DeleteMany(keys []string) (int64, error) {
	if len(keys) == 0 {
		return 0, nil
	}
	res := s.db.Where("key IN ?", keys).Delete(&models.Mapping{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
