//go:build !integration

package telegram

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestParseCommand(t *testing.T) {
	cases := []struct {
		name string
		text string
		want string
	}{
		{"plain command", "/draw", "/draw"},
		{"command with argument", "/start deep_link", "/start"},
		{"group chat command carries bot username", "/draw@AromaOracleBot", "/draw"},
		{"group chat command with argument", "/saved@AromaOracleBot now", "/saved"},
		{"plain text is not a command", "дай масло", "message"},
		{"empty text is not a command", "", "message"},
		{"slash inside text is not a command", "и/или", "message"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := parseCommand(tc.text); got != tc.want {
				t.Errorf("parseCommand(%q) = %q, want %q", tc.text, got, tc.want)
			}
		})
	}
}

func TestNoopBotAdapter_StartPolling(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	bot := NewNoopBotAdapter()

	done := make(chan error, 1)
	go func() { done <- bot.StartPolling(ctx) }()
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("StartPolling did not stop on context cancellation")
	}
}

func TestNoopBotAdapter_SendMessage(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := NewNoopBotAdapter().SendMessage(ctx, 42, "hi"); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled on cancelled send, got %v", err)
	}
}
