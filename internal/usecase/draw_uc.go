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

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"
)

// drawDateLayout is the calendar-date format stored per user. The gate
// compares these strings for equality; the reset happens at local midnight
// of the process clock, not per-user timezone.
const drawDateLayout = "2006-01-02"

// Compile-time check
var _ DrawUseCase = (*drawUC)(nil)

// DrawResult is the outcome of a draw request. When Gated is true the user
// already drew today: Oil is zero and nothing was written.
type DrawResult struct {
	Oil   model.OilRecord
	Gated bool
	Date  string
}

// DrawUseCase implements the once-per-day oil draw.
type DrawUseCase interface {
	DrawToday(ctx context.Context, tgID int64, username string) (*DrawResult, error)
}

type drawUC struct {
	users   repository.UserRepository
	tm      repository.TransactionManager
	catalog *model.Catalog
	log     *zerolog.Logger
	now     func() time.Time
}

func NewDrawUseCase(users repository.UserRepository, tm repository.TransactionManager, catalog *model.Catalog, logger *zerolog.Logger) *drawUC {
	return &drawUC{
		users:   users,
		tm:      tm,
		catalog: catalog,
		log:     logger,
		now:     time.Now,
	}
}

// DrawToday checks the per-user date gate and, when open, picks a random
// oil and records today's date. A never-seen user is created on the spot.
// Find and save run in one serializable transaction; a same-user double-tap
// can still slip through as last-write-wins, which costs at most a
// duplicate reply.
func (d *drawUC) DrawToday(ctx context.Context, tgID int64, username string) (*DrawResult, error) {
	defer logging.TraceDuration(d.log, "DrawUC.DrawToday")()

	today := d.now().Format(drawDateLayout)
	res := &DrawResult{Date: today}

	txOpts := pgx.TxOptions{IsoLevel: pgx.Serializable}
	err := d.tm.WithTx(ctx, txOpts, func(ctx context.Context, tx repository.Tx) error {
		user, err := d.users.FindByTelegramID(ctx, tx, tgID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		if user == nil {
			if user, err = model.NewUser("", tgID, username); err != nil {
				return err
			}
		}

		if user.HasDrawnOn(today) {
			res.Gated = true
			return nil
		}

		oil, err := d.catalog.PickRandom()
		if err != nil {
			return err
		}

		user.LastDrawDate = today
		user.Touch()
		if err := d.users.Save(ctx, tx, user); err != nil {
			return err
		}
		res.Oil = oil
		return nil
	})
	if err != nil {
		return nil, err
	}

	if res.Gated {
		metrics.IncDrawGated()
		logging.With(ctx, d.log).Debug().Str("date", today).Msg("draw gated")
	} else {
		metrics.IncDraw()
		logging.With(ctx, d.log).Info().Str("date", today).Int("oil_id", res.Oil.ID).Msg("oil drawn")
	}
	return res, nil
}
