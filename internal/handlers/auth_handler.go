package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/villagestay/villagestay/internal/security"
	"github.com/villagestay/villagestay/pkg/errors"
	"github.com/villagestay/villagestay/pkg/utils"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userPart struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      userPart  `json:"user"`
	Coins     int64     `json:"coins"`
}

func (h *HandlerManager) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return errors.New(errors.ErrCodeValidation, "invalid body")
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return errors.New(errors.ErrCodeValidation, "email and password are required")
	}

	session, token, err := h.Sessions.Login(req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, loginResponse{
		Token:     token,
		ExpiresAt: session.CreatedAt.Add(security.TokenTTL),
		User: userPart{
			ID:   session.UserID,
			Name: utils.DisplayNameFromID(session.UserID),
			Role: session.Role,
		},
		Coins: session.Coins.Balance(),
	})
}

// Logout closes the caller's session. Its coin balance is discarded.
func (h *HandlerManager) Logout(c echo.Context) error {
	session, err := requireSession(c)
	if err != nil {
		return err
	}
	if err := h.Sessions.Logout(session.ID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
