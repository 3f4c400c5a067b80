package repository

import (
	"context"

	"telegram-aroma-oracle/internal/domain/model"
)

// -----------------------------
// Saved oils (append-only log)
// -----------------------------

type SavedOilRepository interface {
	// Append always inserts a new row; duplicates are intentional, the log
	// is a history rather than a set.
	Append(ctx context.Context, tx Tx, entry *model.SavedOilEntry) error
	// ListRecent returns up to limit entries for the user, newest first.
	ListRecent(ctx context.Context, tx Tx, userID string, limit int) ([]*model.SavedOilEntry, error)
	CountSaved(ctx context.Context, tx Tx) (int, error)
}
