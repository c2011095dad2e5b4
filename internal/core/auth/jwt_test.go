package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "unit-test-secret"

func signToken(t *testing.T, subject, email, role, secret string, expiry time.Duration) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":   subject,
		"email": email,
		"role":  role,
		"exp":   time.Now().Add(expiry).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestParseToken_Valid(t *testing.T) {
	tokenStr := signToken(t, "admin-1", "Ops@Example.COM", "admin", testSecret, time.Hour)

	p, err := ParseToken(tokenStr, testSecret)
	require.NoError(t, err)

	assert.Equal(t, "admin-1", p.ID)
	assert.Equal(t, "ops@example.com", p.Email, "email must be normalized to lowercase")
	assert.Equal(t, RoleAdmin, p.Role)
	assert.True(t, p.IsAdmin())
}

func TestParseToken_WrongSecret(t *testing.T) {
	tokenStr := signToken(t, "u1", "user@example.com", "user", "other-secret", time.Hour)

	_, err := ParseToken(tokenStr, testSecret)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseToken_Expired(t *testing.T) {
	tokenStr := signToken(t, "u1", "user@example.com", "user", testSecret, -time.Minute)

	_, err := ParseToken(tokenStr, testSecret)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseToken_UnknownRole(t *testing.T) {
	tokenStr := signToken(t, "u1", "user@example.com", "superuser", testSecret, time.Hour)

	_, err := ParseToken(tokenStr, testSecret)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestMiddleware_AnonymousWithoutHeader(t *testing.T) {
	app := fiber.New()
	app.Use(Middleware(testSecret))
	app.Get("/", func(c *fiber.Ctx) error {
		p := FromCtx(c)
		assert.Equal(t, RoleAnonymous, p.Role)
		return c.SendStatus(http.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMiddleware_StoresPrincipal(t *testing.T) {
	app := fiber.New()
	app.Use(Middleware(testSecret))
	app.Get("/", func(c *fiber.Ctx) error {
		p := FromCtx(c)
		assert.Equal(t, "user@example.com", p.Email)
		assert.Equal(t, RoleUser, p.Role)
		return c.SendStatus(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+signToken(t, "u1", "user@example.com", "user", testSecret, time.Hour))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMiddleware_RejectsInvalidToken(t *testing.T) {
	app := fiber.New()
	app.Use(Middleware(testSecret))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer not.a.token")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRequireAdmin(t *testing.T) {
	app := fiber.New()
	app.Use(Middleware(testSecret))
	app.Post("/admin", RequireAdmin(), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})

	// Anonymous caller.
	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/admin", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Standard user.
	req := httptest.NewRequest(http.MethodPost, "/admin", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+signToken(t, "u1", "user@example.com", "user", testSecret, time.Hour))
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// Administrator.
	req = httptest.NewRequest(http.MethodPost, "/admin", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+signToken(t, "a1", "admin@example.com", "admin", testSecret, time.Hour))
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
