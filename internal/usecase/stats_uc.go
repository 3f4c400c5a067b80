package usecase

import (
	"context"

	"telegram-aroma-oracle/internal/domain/model"
	"telegram-aroma-oracle/internal/domain/ports/repository"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ StatsUseCase = (*statsUC)(nil)

type StatsUseCase interface {
	Totals(ctx context.Context) (users int, saves int, catalogSize int, err error)
}

type statsUC struct {
	users   repository.UserRepository
	saved   repository.SavedOilRepository
	catalog *model.Catalog

	log *zerolog.Logger
}

func NewStatsUseCase(users repository.UserRepository, saved repository.SavedOilRepository, catalog *model.Catalog, logger *zerolog.Logger) *statsUC {
	return &statsUC{users: users, saved: saved, catalog: catalog, log: logger}
}

func (s *statsUC) Totals(ctx context.Context) (int, int, int, error) {
	users, err := s.users.CountUsers(ctx, repository.NoTX)
	if err != nil {
		return 0, 0, 0, err
	}
	saves, err := s.saved.CountSaved(ctx, repository.NoTX)
	if err != nil {
		return 0, 0, 0, err
	}
	return users, saves, s.catalog.Len(), nil
}
