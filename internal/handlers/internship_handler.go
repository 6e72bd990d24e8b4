package handlers

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/villagestay/villagestay/internal/middleware"
	"github.com/villagestay/villagestay/internal/models"
	"github.com/villagestay/villagestay/internal/services"
	"github.com/villagestay/villagestay/pkg/errors"
	"github.com/villagestay/villagestay/pkg/logger"
)

type statusRequest struct {
	Status string `json:"status"`
}

// ListInternships lists opportunities, optionally filtered by ?category=.
func (h *HandlerManager) ListInternships(c echo.Context) error {
	category := c.QueryParam("category")
	if category != "" && category != models.CategoryInternship && category != models.CategoryVolunteering {
		return errors.New(errors.ErrCodeValidation, "category must be Internship or Volunteering")
	}

	all := h.Store.Internships()
	if category == "" {
		return c.JSON(http.StatusOK, all)
	}
	out := make([]models.Internship, 0, len(all))
	for _, in := range all {
		if in.Category == category {
			out = append(out, in)
		}
	}
	return c.JSON(http.StatusOK, out)
}

func (h *HandlerManager) GetInternship(c echo.Context) error {
	id := c.Param("id")
	internship, ok := h.Store.InternshipByID(id)
	if !ok {
		return errors.New(errors.ErrCodeNotFound, fmt.Sprintf("internship %q not found", id))
	}
	return c.JSON(http.StatusOK, internship)
}

// ApplyToInternship records an application for the logged-in user.
func (h *HandlerManager) ApplyToInternship(c echo.Context) error {
	userID := middleware.UserID(c)
	app, err := h.Store.AddApplication(c.Param("id"), userID)
	if err != nil {
		return err
	}

	logger.Info("Application submitted", "application_id", app.ID, "opportunity_id", app.OpportunityID, "user_id", userID)
	return c.JSON(http.StatusCreated, app)
}

// ListApplications returns every application to admins and the caller's own otherwise.
func (h *HandlerManager) ListApplications(c echo.Context) error {
	if middleware.Role(c) == services.RoleAdmin {
		return c.JSON(http.StatusOK, h.Store.AllApplications())
	}
	return c.JSON(http.StatusOK, h.Store.ApplicationsByUser(middleware.UserID(c)))
}

func (h *HandlerManager) UpdateApplicationStatus(c echo.Context) error {
	var req statusRequest
	if err := c.Bind(&req); err != nil {
		return errors.New(errors.ErrCodeValidation, "invalid body")
	}

	app, err := h.Store.SetApplicationStatus(c.Param("id"), req.Status)
	if err != nil {
		return err
	}

	logger.Info("Application status changed", "application_id", app.ID, "status", app.Status, "by", middleware.UserID(c))
	return c.JSON(http.StatusOK, app)
}
