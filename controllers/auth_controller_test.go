package controllers_test

import (
	"net/http"
	"testing"

	"github.com/travelnest/travelnest/config"
	"github.com/travelnest/travelnest/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registerBody(email string) map[string]interface{} {
	return map[string]interface{}{
		"email":      email,
		"password":   "password123",
		"first_name": "Alice",
		"last_name":  "Johnson",
		"phone":      "+251911234567",
	}
}

func TestRegisterAndLogin(t *testing.T) {
	router, _ := setupTest(t)

	w := doRequest(t, router, http.MethodPost, "/v1/register", "", registerBody("alice@example.com"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	body := decodeBody(t, w)
	data := body["data"].(map[string]interface{})
	assert.NotEmpty(t, data["token"])

	// The stored password is hashed, never the plaintext
	var user models.User
	require.NoError(t, config.DB.Where("email = ?", "alice@example.com").First(&user).Error)
	assert.NotEqual(t, "password123", user.Password)

	w = doRequest(t, router, http.MethodPost, "/v1/login", "", map[string]interface{}{
		"email":    "alice@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotEmpty(t, decodeBody(t, w)["data"].(map[string]interface{})["token"])
}

func TestRegisterDuplicateEmail(t *testing.T) {
	router, _ := setupTest(t)

	w := doRequest(t, router, http.MethodPost, "/v1/register", "", registerBody("alice@example.com"))
	require.Equal(t, http.StatusCreated, w.Code)

	w = doRequest(t, router, http.MethodPost, "/v1/register", "", registerBody("alice@example.com"))
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRegisterValidation(t *testing.T) {
	router, _ := setupTest(t)

	bad := registerBody("not-an-email")
	w := doRequest(t, router, http.MethodPost, "/v1/register", "", bad)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	bad = registerBody("alice@example.com")
	bad["password"] = "short"
	w = doRequest(t, router, http.MethodPost, "/v1/register", "", bad)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginWrongPassword(t *testing.T) {
	router, _ := setupTest(t)

	w := doRequest(t, router, http.MethodPost, "/v1/register", "", registerBody("alice@example.com"))
	require.Equal(t, http.StatusCreated, w.Code)

	w = doRequest(t, router, http.MethodPost, "/v1/login", "", map[string]interface{}{
		"email":    "alice@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(t, router, http.MethodPost, "/v1/login", "", map[string]interface{}{
		"email":    "nobody@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProtectedRouteRejectsBadToken(t *testing.T) {
	router, _ := setupTest(t)

	w := doRequest(t, router, http.MethodGet, "/v1/user/bookings", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouterAppliesMiddlewareChain(t *testing.T) {
	router, _ := setupTest(t)

	// Middleware is installed before the route groups, so every endpoint
	// carries the CORS, request-id and security headers.
	w := doRequest(t, router, http.MethodGet, "/v1/listings", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
}
