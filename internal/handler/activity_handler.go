package handler

import (
	"strings"

	"podbot-be/internal/pkg/logger"
	"podbot-be/internal/pkg/serverutils"
	internalWS "podbot-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// ActivityHandler streams a user's session activity over a websocket.
type ActivityHandler struct {
	hub       *internalWS.Hub
	jwtSecret string
	logger    logger.ILogger
}

func NewActivityHandler(hub *internalWS.Hub, jwtSecret string, log logger.ILogger) *ActivityHandler {
	return &ActivityHandler{
		hub:       hub,
		jwtSecret: jwtSecret,
		logger:    log,
	}
}

func (h *ActivityHandler) RegisterRoutes(r fiber.Router) {
	r.Get("/ws/:username", h.ServeWs)
}

// ServeWs authenticates the handshake and upgrades the connection.
func (h *ActivityHandler) ServeWs(c *fiber.Ctx) error {
	username := c.Params("username")
	if strings.TrimSpace(username) == "" {
		return fiber.NewError(fiber.StatusBadRequest, "username is required")
	}

	if h.jwtSecret != "" {
		// Browsers cannot set headers on a websocket handshake, so the query wins.
		tokenStr := c.Query("token")
		if tokenStr == "" {
			authHeader := c.Get("Authorization")
			if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
				tokenStr = authHeader[7:]
			}
		}
		if tokenStr == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(fiber.StatusUnauthorized, "Missing token"))
		}

		claimed, ok := serverutils.ParseUsernameToken(tokenStr, h.jwtSecret)
		if !ok {
			h.logger.Warn("ActivityHandler", "Invalid token in WS handshake", map[string]interface{}{"username": username})
			return c.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(fiber.StatusUnauthorized, "Invalid token"))
		}
		if claimed != username {
			return c.Status(fiber.StatusForbidden).JSON(serverutils.ErrorResponse(fiber.StatusForbidden, "Token does not match user"))
		}
	}

	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	return websocket.New(func(conn *websocket.Conn) {
		h.logger.Info("ActivityHandler", "Starting WebSocket session", map[string]interface{}{"username": username})
		internalWS.ServeWs(h.hub, conn, username)
		h.logger.Info("ActivityHandler", "WebSocket session ended", map[string]interface{}{"username": username})
	})(c)
}
