package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRegisterAndLogin(t *testing.T) {
	r := setupTestApp(t)

	w := doJSON(r, http.MethodPost, "/api/auth/register", "", gin.H{
		"name":     "Alice",
		"email":    "alice@example.com",
		"password": "supersecret",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	var reg struct {
		Token string `json:"token"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &reg))
	assert.NotEmpty(t, reg.Token)

	// Duplicate email is rejected
	w = doJSON(r, http.MethodPost, "/api/auth/register", "", gin.H{
		"name":     "Alice Again",
		"email":    "alice@example.com",
		"password": "supersecret",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "alice@example.com",
		"password": "supersecret",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var login struct {
		Token string `json:"token"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	assert.NotEmpty(t, login.Token)

	// A registered user's token works against protected routes
	w = doJSON(r, http.MethodGet, "/api/keys", login.Token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "alice@example.com",
		"password": "wrongpass",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
