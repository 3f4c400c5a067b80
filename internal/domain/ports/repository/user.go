package repository

import (
	"context"

	"telegram-aroma-oracle/internal/domain/model"
)

// -----------------------------
// Users
// -----------------------------

type UserRepository interface {
	// Save upserts the user row (insert if absent, overwrite if present).
	// Writing the same LastDrawDate twice is a no-op by construction.
	Save(ctx context.Context, tx Tx, u *model.User) error
	FindByTelegramID(ctx context.Context, tx Tx, tgID int64) (*model.User, error)
	CountUsers(ctx context.Context, tx Tx) (int, error)
}
