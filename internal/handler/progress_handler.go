package handler

import (
	"claim-verify-be/internal/pkg/logger"
	ws "claim-verify-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// ProgressHandler upgrades websocket connections for live pipeline
// progress. The stream is advisory; clients that miss events recover by
// polling the status endpoint.
type ProgressHandler struct {
	hub    *ws.Hub
	logger logger.ILogger
}

func NewProgressHandler(hub *ws.Hub, log logger.ILogger) *ProgressHandler {
	return &ProgressHandler{
		hub:    hub,
		logger: log,
	}
}

// ServeWs attaches the caller as a watcher of one session's progress.
func (h *ProgressHandler) ServeWs(c *fiber.Ctx) error {
	sessionId := c.Params("id")
	if sessionId == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing session id"})
	}

	if websocket.IsWebSocketUpgrade(c) {
		return websocket.New(func(conn *websocket.Conn) {
			h.logger.Info("ProgressHandler", "Watcher connected", map[string]interface{}{"session_id": sessionId})
			ws.ServeWs(h.hub, conn, sessionId)
		})(c)
	}
	return fiber.ErrUpgradeRequired
}

// RegisterRoutes registers the progress websocket route.
func (h *ProgressHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/ws/verify/:id", h.ServeWs)
}
