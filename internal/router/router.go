// Package router wires handlers and middleware onto an echo instance.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/villagestay/villagestay/internal/handlers"
	"github.com/villagestay/villagestay/internal/middleware"
	"github.com/villagestay/villagestay/internal/proxy"
	"github.com/villagestay/villagestay/internal/services"
)

// New builds an echo instance with every route registered.
func New(h *handlers.HandlerManager, p *proxy.Proxy, rl *middleware.RateLimiter) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = handlers.ErrorHandler

	RegisterRoutes(e, h, p, rl)
	return e
}

func RegisterRoutes(e *echo.Echo, h *handlers.HandlerManager, p *proxy.Proxy, rl *middleware.RateLimiter) {
	auth := middleware.Authenticate(h.Sessions)
	optionalAuth := middleware.OptionalAuthenticate(h.Sessions)
	limit := middleware.RateLimit(rl)

	e.GET("/healthz", h.Health)

	e.POST("/v1/auth/login", h.Login, limit)
	e.POST("/v1/auth/logout", h.Logout, auth)

	e.GET("/v1/villages", h.ListVillages)
	e.GET("/v1/villages/:id", h.GetVillage)
	e.GET("/v1/villages/:id/posts", h.ListVillagePosts)
	e.POST("/v1/villages/:id/posts", h.CreateVillagePost, optionalAuth, limit)

	e.GET("/v1/internships", h.ListInternships)
	e.GET("/v1/internships/:id", h.GetInternship)
	e.GET("/v1/kirana-stores", h.ListKiranaStores)

	g := e.Group("/v1", auth, limit)
	g.POST("/internships/:id/applications", h.ApplyToInternship)
	g.GET("/applications", h.ListApplications)
	g.PATCH("/applications/:id/status", h.UpdateApplicationStatus, middleware.RequireRole(services.RoleAdmin))
	g.GET("/bookings", h.ListBookings)
	g.GET("/coins", h.GetCoins)
	g.POST("/coins/redeem", h.RedeemCoins)
	g.POST("/listings", h.ListSpace)

	e.Any(proxy.Prefix, p.Handle)
	e.Any(proxy.Prefix+"/*", p.Handle)
}
