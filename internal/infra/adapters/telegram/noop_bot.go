package telegram

import (
	"context"
	"log"
	"time"

	"telegram-aroma-oracle/internal/domain/ports/adapter"
)

var _ adapter.TelegramBotAdapter = (*NoopBotAdapter)(nil)

// NoopBotAdapter implements adapter.TelegramBotAdapter for local/dev testing.
// It logs messages instead of sending real Telegram messages.
type NoopBotAdapter struct{}

// NewNoopBotAdapter constructs the noop adapter.
func NewNoopBotAdapter() *NoopBotAdapter {
	return &NoopBotAdapter{}
}

// StartPolling blocks until ctx is cancelled. The noop adapter has no
// update source, so a dev run serves only the HTTP side.
func (b *NoopBotAdapter) StartPolling(ctx context.Context) error {
	log.Printf("[noop-telegram] polling disabled, no updates will arrive")
	<-ctx.Done()
	return ctx.Err()
}

// SendMessage logs the message and simulates small delay.
func (b *NoopBotAdapter) SendMessage(ctx context.Context, tgID int64, text string) error {
	select {
	case <-time.After(100 * time.Millisecond):
	case <-ctx.Done():
		return ctx.Err()
	}
	log.Printf("[noop-telegram] To user %d: %s\n", tgID, text)
	return nil
}

func (b *NoopBotAdapter) SendButtons(ctx context.Context, tgID int64, text string, rows [][]adapter.InlineButton) error {
	select {
	case <-time.After(100 * time.Millisecond):
	case <-ctx.Done():
		return ctx.Err()
	}
	log.Printf("[noop-telegram] To user %d: %s [buttons: %v]\n", tgID, text, rows)
	return nil
}
