package handler

import (
	"net/http/httptest"
	"testing"

	"podbot-be/internal/pkg/logger"
	"podbot-be/internal/pkg/serverutils"
	internalWS "podbot-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp(secret string) *fiber.App {
	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	h := NewActivityHandler(internalWS.NewHub(nil, logger.NewNopLogger()), secret, logger.NewNopLogger())
	h.RegisterRoutes(app)
	return app
}

func sign(t *testing.T, secret, username string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"username": username}).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestServeWsRequiresUpgrade(t *testing.T) {
	app := newApp("")

	resp, err := app.Test(httptest.NewRequest("GET", "/ws/alice", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUpgradeRequired, resp.StatusCode)
}

func TestServeWsChecksToken(t *testing.T) {
	app := newApp("secret")

	resp, err := app.Test(httptest.NewRequest("GET", "/ws/alice", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/ws/alice?token=garbage", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/ws/alice?token="+sign(t, "secret", "bob"), nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	// A valid token gets past auth; the plain GET still lacks the upgrade headers.
	resp, err = app.Test(httptest.NewRequest("GET", "/ws/alice?token="+sign(t, "secret", "alice"), nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUpgradeRequired, resp.StatusCode)
}
