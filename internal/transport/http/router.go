package http

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wavelinehq/notifier/internal/transport/mw"
)

// NewRouter builds the echo instance with all routes attached.
func NewRouter(h *Handler, jwtSecret string) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())

	e.GET("/health", h.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	v1 := e.Group("/v1", mw.JWTAuth(jwtSecret))
	v1.GET("/badge", h.Badge)
	v1.GET("/notifications/stream", h.Stream)

	return e
}
