package usecase

import (
	"context"
	"errors"
	"time"

	"telegram-aroma-oracle/internal/domain"
	"telegram-aroma-oracle/internal/domain/model"
	"telegram-aroma-oracle/internal/domain/ports/repository"
	"telegram-aroma-oracle/internal/infra/logging"
	"telegram-aroma-oracle/internal/infra/metrics"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ SavedOilUseCase = (*savedOilUC)(nil)

// SavedOilView is a listing entry with its oil resolved against the catalog.
type SavedOilView struct {
	Oil     model.OilRecord
	SavedAt time.Time
}

// SavedOilUseCase appends to and reads the per-user saved-oil history.
type SavedOilUseCase interface {
	Save(ctx context.Context, tgID int64, oilID int) error
	ListRecent(ctx context.Context, tgID int64, limit int) ([]SavedOilView, error)
}

type savedOilUC struct {
	users   repository.UserRepository
	saved   repository.SavedOilRepository
	catalog *model.Catalog
	log     *zerolog.Logger
}

func NewSavedOilUseCase(users repository.UserRepository, saved repository.SavedOilRepository, catalog *model.Catalog, logger *zerolog.Logger) *savedOilUC {
	return &savedOilUC{users: users, saved: saved, catalog: catalog, log: logger}
}

// Save appends one history entry. The oil id arrives from the interaction
// payload (the Save button of the draw reply), never from stored session
// state. Saving the same oil repeatedly produces distinct rows.
func (s *savedOilUC) Save(ctx context.Context, tgID int64, oilID int) error {
	defer logging.TraceDuration(s.log, "SavedOilUC.Save")()

	user, err := s.users.FindByTelegramID(ctx, repository.NoTX, tgID)
	if err != nil {
		return err
	}
	ctx = logging.WithUserID(ctx, user.ID)
	entry, err := model.NewSavedOilEntry(user.ID, oilID)
	if err != nil {
		return err
	}
	if err := s.saved.Append(ctx, repository.NoTX, entry); err != nil {
		return err
	}
	metrics.IncSave()
	logging.With(ctx, s.log).Info().Int("oil_id", oilID).Msg("oil saved")
	return nil
}

// ListRecent returns up to limit saves, newest first, resolved against the
// catalog. Entries whose oil id no longer resolves are dropped silently; a
// shrunken catalog must degrade the listing, not break it.
func (s *savedOilUC) ListRecent(ctx context.Context, tgID int64, limit int) ([]SavedOilView, error) {
	defer logging.TraceDuration(s.log, "SavedOilUC.ListRecent")()

	user, err := s.users.FindByTelegramID(ctx, repository.NoTX, tgID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	ctx = logging.WithUserID(ctx, user.ID)

	entries, err := s.saved.ListRecent(ctx, repository.NoTX, user.ID, limit)
	if err != nil {
		return nil, err
	}

	views := make([]SavedOilView, 0, len(entries))
	dropped := 0
	for _, e := range entries {
		oil, ok := s.catalog.Lookup(e.OilID)
		if !ok {
			dropped++
			continue
		}
		views = append(views, SavedOilView{Oil: oil, SavedAt: e.SavedAt})
	}
	if dropped > 0 {
		metrics.IncDroppedRefs(dropped)
		logging.With(ctx, s.log).Warn().Int("dropped", dropped).Msg("saved entries no longer resolve in catalog")
	}
	metrics.IncListing()
	return views, nil
}
