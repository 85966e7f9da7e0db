package state

import (
	"poke-draft-be/internal/config"
	"poke-draft-be/internal/service/draft"
)

type AppState struct {
	Cfg      *config.AppConfig
	DraftSvc *draft.Service
}

func NewAppState(
	cfg *config.AppConfig,
	draftSvc *draft.Service,
) *AppState {
	return &AppState{
		Cfg:      cfg,
		DraftSvc: draftSvc,
	}
}
