package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/villagestay/villagestay/internal/store"
)

type healthResponse struct {
	Status string      `json:"status"`
	Stats  store.Stats `json:"stats"`
}

// Health reports liveness together with registry counts.
func (h *HandlerManager) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, healthResponse{Status: "ok", Stats: h.Store.Stats()})
}
