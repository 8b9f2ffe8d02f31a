package store

import (
	"context"

	"tutorgo/pkg/model"
)

// ModuleStore handles tutorial module persistence. Annotation and event
// lists are read-only per session once loaded; the store hands out
// normalized modules only.
type ModuleStore interface {
	GetModule(ctx context.Context, id string) (*model.Module, error)
	ListModules(ctx context.Context) ([]ModuleSummary, error)
	SaveModule(ctx context.Context, m *model.Module) error
	DeleteModule(ctx context.Context, id string) error
}

// ModuleSummary is the listing row for a stored module.
type ModuleSummary struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Annotations int    `json:"annotations"`
	Events      int    `json:"events"`
}

// Store composes all sub-interfaces for full store access.
type Store interface {
	ModuleStore

	Close() error
}
