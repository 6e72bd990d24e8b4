package handlers

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/villagestay/villagestay/internal/ledger"
	"github.com/villagestay/villagestay/internal/middleware"
	"github.com/villagestay/villagestay/internal/services"
	"github.com/villagestay/villagestay/pkg/errors"
)

type redeemRequest struct {
	StoreID string `json:"storeId"`
	Amount  int64  `json:"amount"`
}

type listingRequest struct {
	Name string `json:"name"`
}

type coinsResponse struct {
	Balance int64                `json:"balance"`
	History []ledger.Transaction `json:"history,omitempty"`
}

func (h *HandlerManager) GetCoins(c echo.Context) error {
	session, err := requireSession(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, coinsResponse{
		Balance: session.Coins.Balance(),
		History: session.Coins.History(),
	})
}

// RedeemCoins spends VillageCoins at a kirana store.
func (h *HandlerManager) RedeemCoins(c echo.Context) error {
	var req redeemRequest
	if err := c.Bind(&req); err != nil {
		var typeErr *json.UnmarshalTypeError
		if stderrors.As(err, &typeErr) && typeErr.Field == "amount" {
			return errors.New(errors.ErrCodeInvalidAmount, "please enter a whole number of coins")
		}
		return errors.New(errors.ErrCodeValidation, "invalid body")
	}

	session, err := requireSession(c)
	if err != nil {
		return err
	}

	balance, err := h.Sessions.Redeem(session.ID, req.StoreID, req.Amount)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, coinsResponse{Balance: balance})
}

// ListSpace records a listed space and pays the listing reward.
func (h *HandlerManager) ListSpace(c echo.Context) error {
	var req listingRequest
	if err := c.Bind(&req); err != nil {
		return errors.New(errors.ErrCodeValidation, "invalid body")
	}

	session, err := requireSession(c)
	if err != nil {
		return err
	}

	balance, err := h.Sessions.RewardListing(session.ID, req.Name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, coinsResponse{Balance: balance})
}

func requireSession(c echo.Context) (*services.Session, error) {
	session := middleware.CurrentSession(c)
	if session == nil {
		return nil, errors.New(errors.ErrCodeUnauthorized, "not logged in")
	}
	return session, nil
}
