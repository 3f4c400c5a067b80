package model

import (
	"time"

	"telegram-aroma-oracle/internal/domain"

	"github.com/google/uuid"
)

// SavedOilEntry is one append-only history record: user saved oil at time.
// Entries are never updated or deleted; repeated saves of the same oil are
// distinct rows.
type SavedOilEntry struct {
	ID      string
	UserID  string
	OilID   int
	SavedAt time.Time
}

func NewSavedOilEntry(userID string, oilID int) (*SavedOilEntry, error) {
	if userID == "" || oilID < 0 {
		return nil, domain.ErrInvalidArgument
	}
	return &SavedOilEntry{
		ID:      uuid.NewString(),
		UserID:  userID,
		OilID:   oilID,
		SavedAt: time.Now(),
	}, nil
}
