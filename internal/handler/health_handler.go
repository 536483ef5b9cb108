package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthResponse struct {
	Status string `json:"status"`
}

type HealthHandler struct {
	db Pinger
}

func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) RegisterRoutes(e *echo.Echo, g *echo.Group) {
	e.GET("/", h.home)
	g.GET("/health", h.health)
}

func (h *HealthHandler) home(c echo.Context) error {
	return c.JSON(http.StatusOK, SuccessResponse{Message: "Welcome to the Wildberries product parser service"})
}

func (h *HealthHandler) health(c echo.Context) error {
	if err := h.db.Ping(c.Request().Context()); err != nil {
		c.Logger().Errorf("health: %v", err)
		return c.JSON(http.StatusServiceUnavailable, HealthResponse{Status: "unavailable"})
	}
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}
