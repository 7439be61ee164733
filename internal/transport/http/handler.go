package http

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/wavelinehq/notifier/internal/transport/mw"
)

// BadgeReader exposes the stored unread badge for a user.
type BadgeReader interface {
	BadgeCount(ctx context.Context, userID int32) (int, error)
}

// Handler serves the worker's operational HTTP surface.
type Handler struct {
	badges BadgeReader
	hub    *Hub
}

// NewHandler creates a Handler.
func NewHandler(badges BadgeReader, hub *Hub) *Handler {
	return &Handler{badges: badges, hub: hub}
}

// Health reports liveness.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":      "ok",
		"sse_clients": h.hub.ConnectedCount(),
	})
}

// Badge returns the authenticated user's current badge count so mobile
// clients can resync after the worker increments it.
func (h *Handler) Badge(c echo.Context) error {
	userID, ok := mw.UserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	}

	badge, err := h.badges.BadgeCount(c.Request().Context(), userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "badge lookup failed")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"user_id":     userID,
		"badge_count": badge,
	})
}

// Stream upgrades the connection to an SSE stream delivering browser
// notifications until the client disconnects.
func (h *Handler) Stream(c echo.Context) error {
	userID, ok := mw.UserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	}

	w := c.Response()
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set(echo.HeaderCacheControl, "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	w.Flush()

	send := make(chan []byte, 16)
	client := h.hub.Register(userID, send)
	defer h.hub.Unregister(client)

	ctx := c.Request().Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event := <-send:
			if _, err := w.Write(event); err != nil {
				return nil
			}
			w.Flush()
		}
	}
}
