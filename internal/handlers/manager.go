package handlers

import (
	"github.com/villagestay/villagestay/internal/config"
	"github.com/villagestay/villagestay/internal/services"
	"github.com/villagestay/villagestay/internal/store"
)

type HandlerManager struct {
	Config    *config.Config
	Store     *store.Store
	Sessions  *services.SessionService
	Community *services.CommunityService
}

func NewHandlerManager(
	cfg *config.Config,
	st *store.Store,
	sessions *services.SessionService,
	community *services.CommunityService,
) *HandlerManager {
	return &HandlerManager{
		Config:    cfg,
		Store:     st,
		Sessions:  sessions,
		Community: community,
	}
}
