package handlers

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/villagestay/villagestay/internal/middleware"
	"github.com/villagestay/villagestay/internal/store"
	"github.com/villagestay/villagestay/pkg/errors"
	"github.com/villagestay/villagestay/pkg/utils"
)

type postRequest struct {
	Author    string `json:"author"`
	AvatarURL string `json:"avatarUrl"`
	Message   string `json:"message"`
	ImageURL  string `json:"imageUrl"`
	VideoURL  string `json:"videoUrl"`
}

func (h *HandlerManager) ListVillages(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Store.Villages())
}

func (h *HandlerManager) GetVillage(c echo.Context) error {
	id := c.Param("id")
	village, ok := h.Store.VillageByID(id)
	if !ok {
		return errors.New(errors.ErrCodeNotFound, fmt.Sprintf("village %q not found", id))
	}
	return c.JSON(http.StatusOK, village)
}

// ListVillagePosts returns the community timeline, newest first unless ?order=oldest.
func (h *HandlerManager) ListVillagePosts(c echo.Context) error {
	var order store.PostOrder
	switch c.QueryParam("order") {
	case "", "newest":
		order = store.NewestFirst
	case "oldest":
		order = store.OldestFirst
	default:
		return errors.New(errors.ErrCodeValidation, "order must be newest or oldest")
	}

	id := c.Param("id")
	posts, ok := h.Store.VillagePosts(id, order)
	if !ok {
		return errors.New(errors.ErrCodeNotFound, fmt.Sprintf("village %q not found", id))
	}
	return c.JSON(http.StatusOK, posts)
}

// CreateVillagePost adds a post. Logged-in callers may omit the author.
func (h *HandlerManager) CreateVillagePost(c echo.Context) error {
	var req postRequest
	if err := c.Bind(&req); err != nil {
		return errors.New(errors.ErrCodeValidation, "invalid body")
	}
	if req.Author == "" {
		if userID := middleware.UserID(c); userID != "" {
			req.Author = utils.DisplayNameFromID(userID)
		}
	}

	post, err := h.Community.AddPost(c.Param("id"), store.NewPost{
		Author:    req.Author,
		AvatarURL: req.AvatarURL,
		Message:   req.Message,
		ImageURL:  req.ImageURL,
		VideoURL:  req.VideoURL,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, post)
}
