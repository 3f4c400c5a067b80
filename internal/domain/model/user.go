package model

import (
	"time"

	"telegram-aroma-oracle/internal/domain"

	"github.com/google/uuid"
)

// User is a domain entity representing a Telegram user of the oracle.
// LastDrawDate holds the calendar date ("2006-01-02", process-local clock)
// of the user's most recent draw, or "" if they have never drawn.
type User struct {
	ID           string
	TelegramID   int64
	Username     string
	RegisteredAt time.Time
	LastActiveAt time.Time
	LastDrawDate string
}

func NewUser(id string, tgID int64, username string) (*User, error) {
	if id == "" {
		id = uuid.NewString()
	}
	if tgID <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	return &User{
		ID:           id,
		TelegramID:   tgID,
		Username:     username,
		RegisteredAt: time.Now(),
		LastActiveAt: time.Now(),
	}, nil
}

func (u *User) Touch() { u.LastActiveAt = time.Now() }

// HasDrawnOn reports whether the user's last draw happened on the given
// calendar date. Comparison is plain string equality on "2006-01-02".
func (u *User) HasDrawnOn(date string) bool {
	return u.LastDrawDate != "" && u.LastDrawDate == date
}
