package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/urlcut/urlcut-backend/internal/models"
	apperrors "github.com/urlcut/urlcut-backend/pkg/errors"
)

// setupTestDB initializes an in-memory SQLite DB for testing
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		TranslateError: true,
	})
	assert.NoError(t, err)

	db.Migrator().DropTable(&models.Mapping{}, &models.User{})
	assert.NoError(t, db.AutoMigrate(&models.User{}, &models.Mapping{}))
	return db
}

func newTestStore(t *testing.T) *MappingStore {
	return NewMappingStore(setupTestDB(t), 10)
}

func TestInsert_GeneratesKey(t *testing.T) {
	s := newTestStore(t)

	m := &models.Mapping{Target: "https://example.com"}
	assert.NoError(t, s.Insert(m))
	assert.Len(t, m.Key, 10)
	assert.Equal(t, uint(0), m.Visits)
}

func TestInsert_DuplicateKeyConflicts(t *testing.T) {
	s := newTestStore(t)

	first := &models.Mapping{Key: "abcDEF1234", Target: "https://example.com"}
	assert.NoError(t, s.Insert(first))

	dup := &models.Mapping{Key: "abcDEF1234", Target: "https://example.org"}
	err := s.Insert(dup)
	assert.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
}

func TestFindActiveByKey_ExcludesExpired(t *testing.T) {
	s := newTestStore(t)

	past := time.Now().Add(-time.Minute)
	expired := &models.Mapping{Key: "expiredkey", Target: "https://example.com", ExpiryDate: &past}
	assert.NoError(t, s.Insert(expired))

	// Still present for the exact lookup
	m, err := s.FindByKey("expiredkey")
	assert.NoError(t, err)
	assert.Equal(t, "expiredkey", m.Key)

	// But invisible to the active lookup
	_, err = s.FindActiveByKey("expiredkey")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestFindActiveByKey_IncludesPermanentAndFuture(t *testing.T) {
	s := newTestStore(t)

	future := time.Now().Add(time.Hour)
	assert.NoError(t, s.Insert(&models.Mapping{Key: "permanent1", Target: "https://example.com"}))
	assert.NoError(t, s.Insert(&models.Mapping{Key: "future1234", Target: "https://example.org", ExpiryDate: &future}))

	m, err := s.FindActiveByKey("permanent1")
	assert.NoError(t, err)
	assert.True(t, m.IsActive(time.Now()))

	m, err = s.FindActiveByKey("future1234")
	assert.NoError(t, err)
	assert.True(t, m.IsActive(time.Now()))
}

func TestFindByKeyAndOwner_MismatchLooksLikeAbsence(t *testing.T) {
	s := newTestStore(t)

	owner := "user-1"
	other := "user-2"
	assert.NoError(t, s.Insert(&models.Mapping{Key: "ownedkey12", Target: "https://example.com", UserID: &owner}))

	_, err := s.FindByKeyAndOwner("ownedkey12", other)
	assert.True(t, apperrors.IsNotFound(err))

	_, err = s.FindByKeyAndOwner("neverexist", other)
	assert.True(t, apperrors.IsNotFound(err))

	m, err := s.FindByKeyAndOwner("ownedkey12", owner)
	assert.NoError(t, err)
	assert.Equal(t, "ownedkey12", m.Key)
}

func TestListByOwner_InsertionOrder(t *testing.T) {
	s := newTestStore(t)

	owner := "user-1"
	for _, key := range []string{"firstkey01", "secondkey2", "thirdkey03"} {
		assert.NoError(t, s.Insert(&models.Mapping{Key: key, Target: "https://example.com", UserID: &owner}))
	}

	mappings, err := s.ListByOwner(owner)
	assert.NoError(t, err)
	assert.Len(t, mappings, 3)
	assert.Equal(t, "firstkey01", mappings[0].Key)
	assert.Equal(t, "secondkey2", mappings[1].Key)
	assert.Equal(t, "thirdkey03", mappings[2].Key)
}

func TestListExpired(t *testing.T) {
	s := newTestStore(t)

	past := time.Now().Add(-time.Minute)
	future := time.Now().Add(time.Hour)
	assert.NoError(t, s.Insert(&models.Mapping{Key: "expired001", Target: "https://a.example", ExpiryDate: &past}))
	assert.NoError(t, s.Insert(&models.Mapping{Key: "active0001", Target: "https://b.example", ExpiryDate: &future}))
	assert.NoError(t, s.Insert(&models.Mapping{Key: "forever001", Target: "https://c.example"}))

	expired, err := s.ListExpired()
	assert.NoError(t, err)
	assert.Len(t, expired, 1)
	assert.Equal(t, "expired001", expired[0].Key)
}

func TestIncrementVisits_ExactCount(t *testing.T) {
	s := newTestStore(t)

	assert.NoError(t, s.Insert(&models.Mapping{Key: "counterkey", Target: "https://example.com"}))

	const n = 25
	for i := 0; i < n; i++ {
		assert.NoError(t, s.IncrementVisits("counterkey"))
	}

	m, err := s.FindByKey("counterkey")
	assert.NoError(t, err)
	assert.Equal(t, uint(n), m.Visits)
}

func TestIncrementVisits_MissingKey(t *testing.T) {
	s := newTestStore(t)

	err := s.IncrementVisits("neverexist")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestDeleteMany(t *testing.T) {
	s := newTestStore(t)

	for _, key := range []string{"deleteme01", "deleteme02", "keepme0001"} {
		assert.NoError(t, s.Insert(&models.Mapping{Key: key, Target: "https://example.com"}))
	}

	count, err := s.DeleteMany([]string{"deleteme01", "deleteme02", "neverexist"})
	assert.NoError(t, err)
	assert.Equal(t, int64(2), count)

	_, err = s.FindByKey("keepme0001")
	assert.NoError(t, err)

	count, err = s.DeleteMany(nil)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), count)
}
