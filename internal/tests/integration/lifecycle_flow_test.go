package integration

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestMappingLifecycle_e2e walks the whole user journey: register,
// shorten, follow the short link, then inspect visit counts.
func TestMappingLifecycle_e2e(t *testing.T) {
	db := setupTestDB(t)
	r, _ := setupRouter(db)

	token := createTestUser(t, "lifecycle_user", "lifecycle@example.com")

	// Create a mapping
	w := performRequest(r, "POST", "/api/shorten", map[string]any{
		"target": "https://example.com/docs",
	}, token)
	assert.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		Target   string `json:"target"`
		Key      string `json:"key"`
		ShortURL string `json:"short_url"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Len(t, created.Key, 10)
	assert.Equal(t, integrationBaseURL+"/"+created.Key, created.ShortURL)

	// Follow the short link twice
	for i := 0; i < 2; i++ {
		w = performRequest(r, "GET", "/"+created.Key, nil, "")
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "https://example.com/docs", w.Header().Get("Location"))
	}

	// Detail reflects the visits
	w = performRequest(r, "GET", "/api/keys/"+created.Key, nil, token)
	assert.Equal(t, http.StatusOK, w.Code)

	var detail struct {
		Key      string `json:"key"`
		Visits   uint   `json:"visits"`
		IsActive bool   `json:"is_active"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &detail))
	assert.Equal(t, created.Key, detail.Key)
	assert.Equal(t, uint(2), detail.Visits)
	assert.True(t, detail.IsActive)

	// Listing shows exactly the one mapping
	w = performRequest(r, "GET", "/api/keys", nil, token)
	assert.Equal(t, http.StatusOK, w.Code)

	var list struct {
		Mappings []struct {
			Key string `json:"key"`
		} `json:"mappings"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list.Mappings, 1)
	assert.Equal(t, created.Key, list.Mappings[0].Key)
}

// TestGuestLifecycle_e2e: a guest mapping gets the forced 24h expiry and
// redirects until it lapses.
func TestGuestLifecycle_e2e(t *testing.T) {
	db := setupTestDB(t)
	r, _ := setupRouter(db)

	w := performRequest(r, "POST", "/api/guest/shorten", map[string]any{
		"target": "https://example.com/temp",
	}, "")
	assert.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		Key        string     `json:"key"`
		ExpiryDate *time.Time `json:"expiry_date"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.NotNil(t, created.ExpiryDate)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), *created.ExpiryDate, time.Minute)

	w = performRequest(r, "GET", "/"+created.Key, nil, "")
	assert.Equal(t, http.StatusFound, w.Code)

	// Lapse the mapping, redirect turns into 404
	past := time.Now().Add(-time.Minute)
	res := db.Exec("UPDATE mapping SET expiry_date = ? WHERE key = ?", past, created.Key)
	assert.NoError(t, res.Error)
	assert.Equal(t, int64(1), res.RowsAffected)

	w = performRequest(r, "GET", "/"+created.Key, nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
