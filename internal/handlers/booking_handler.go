package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/villagestay/villagestay/internal/middleware"
	"github.com/villagestay/villagestay/internal/models"
)

// bookingView adds the stay length shown on the owner dashboard.
type bookingView struct {
	models.Booking
	Nights int `json:"nights"`
}

// ListBookings returns the caller's bookings. The admin account sees all of them.
func (h *HandlerManager) ListBookings(c echo.Context) error {
	bookings := h.Store.BookingsByOwner(middleware.UserID(c))
	out := make([]bookingView, 0, len(bookings))
	for i := range bookings {
		out = append(out, bookingView{Booking: bookings[i], Nights: bookings[i].Nights()})
	}
	return c.JSON(http.StatusOK, out)
}

func (h *HandlerManager) ListKiranaStores(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Store.KiranaStores())
}
