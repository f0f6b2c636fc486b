package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/partner-portal/internal/config"
	"github.com/example/partner-portal/internal/models"
	"github.com/example/partner-portal/internal/utils"
)

const testSecret = "middleware-secret"

func newTestApp(allowed ...string) *fiber.App {
	cfg := &config.Config{JWTSecret: testSecret}

	app := fiber.New()
	app.Get("/guarded", RequireRole(cfg, allowed...), func(c *fiber.Ctx) error {
		claims, ok := CurrentPrincipal(c)
		if !ok {
			return fiber.NewError(fiber.StatusInternalServerError, "no principal in context")
		}
		return c.JSON(fiber.Map{"email": claims.Email})
	})
	return app
}

func signedToken(t *testing.T, role, kind string, ttl time.Duration) string {
	t.Helper()

	token, err := utils.GenerateToken(testSecret, utils.Claims{
		UserID: "user-1",
		Email:  "u@x.test",
		Role:   role,
		Type:   kind,
	}, ttl)
	require.NoError(t, err)
	return token
}

func doRequest(t *testing.T, app *fiber.App, authorization string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestMissingAuthorizationHeader(t *testing.T) {
	app := newTestApp(models.RoleAdmin)

	resp := doRequest(t, app, "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestMalformedAuthorizationHeader(t *testing.T) {
	app := newTestApp(models.RoleAdmin)

	resp := doRequest(t, app, "Basic abc123")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestInvalidToken(t *testing.T) {
	app := newTestApp(models.RoleAdmin)

	resp := doRequest(t, app, "Bearer not.a.token")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestExpiredToken(t *testing.T) {
	app := newTestApp(models.RoleAdmin)
	token := signedToken(t, models.RoleAdmin, utils.PrincipalAdmin, -time.Minute)

	resp := doRequest(t, app, "Bearer "+token)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRoleNotAllowed(t *testing.T) {
	app := newTestApp(models.RoleAdmin, models.RoleSuperAdmin)
	token := signedToken(t, models.RolePartner, utils.PrincipalPartner, time.Hour)

	resp := doRequest(t, app, "Bearer "+token)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestAdminAllowed(t *testing.T) {
	app := newTestApp(models.RoleAdmin, models.RoleSuperAdmin)
	token := signedToken(t, models.RoleAdmin, utils.PrincipalAdmin, time.Hour)

	resp := doRequest(t, app, "Bearer "+token)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestSuperAdminAllowedByRole(t *testing.T) {
	app := newTestApp(models.RoleSuperAdmin)
	token := signedToken(t, models.RoleSuperAdmin, utils.PrincipalAdmin, time.Hour)

	resp := doRequest(t, app, "Bearer "+token)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestPartnerAllowedByKind(t *testing.T) {
	app := newTestApp(models.RoleAdmin, models.RolePartner)
	token := signedToken(t, models.RolePartner, utils.PrincipalPartner, time.Hour)

	resp := doRequest(t, app, "Bearer "+token)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
