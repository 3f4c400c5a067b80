//go:build integration

package postgres

import (
	"context"
	"errors"
	"testing"

	"telegram-aroma-oracle/internal/domain"
	"telegram-aroma-oracle/internal/domain/model"
)

func TestUserRepo_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode.")
	}

	repo := NewPostgresUserRepo(testPool)
	ctx := context.Background()

	t.Run("should save and read back a user with no draw date", func(t *testing.T) {
		cleanup(t)

		newUser, err := model.NewUser("", 123456789, "integration_user")
		if err != nil {
			t.Fatalf("model.NewUser() failed: %v", err)
		}
		if err := repo.Save(ctx, nil, newUser); err != nil {
			t.Fatalf("Failed to save new user: %v", err)
		}

		found, err := repo.FindByTelegramID(ctx, nil, 123456789)
		if err != nil {
			t.Fatalf("Failed to find user by telegram ID: %v", err)
		}
		if found.ID != newUser.ID {
			t.Errorf("Expected user ID %s, got %s", newUser.ID, found.ID)
		}
		if found.LastDrawDate != "" {
			t.Errorf("Expected empty draw date, got %q", found.LastDrawDate)
		}
	})

	t.Run("should upsert the draw date idempotently", func(t *testing.T) {
		cleanup(t)

		u, _ := model.NewUser("", 42, "oracle_user")
		if err := repo.Save(ctx, nil, u); err != nil {
			t.Fatalf("save: %v", err)
		}

		u.LastDrawDate = "2024-01-01"
		if err := repo.Save(ctx, nil, u); err != nil {
			t.Fatalf("save with draw date: %v", err)
		}
		// Writing the same date twice must not error or change the row.
		if err := repo.Save(ctx, nil, u); err != nil {
			t.Fatalf("second save with same date: %v", err)
		}

		found, err := repo.FindByTelegramID(ctx, nil, 42)
		if err != nil {
			t.Fatalf("find: %v", err)
		}
		if found.LastDrawDate != "2024-01-01" {
			t.Errorf("Expected last draw date 2024-01-01, got %q", found.LastDrawDate)
		}
	})

	t.Run("should report ErrNotFound for unknown users", func(t *testing.T) {
		cleanup(t)
		if _, err := repo.FindByTelegramID(ctx, nil, 999); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("should count users", func(t *testing.T) {
		cleanup(t)

		u1, _ := model.NewUser("", 111, "user1")
		u2, _ := model.NewUser("", 222, "user2")
		_ = repo.Save(ctx, nil, u1)
		_ = repo.Save(ctx, nil, u2)

		n, err := repo.CountUsers(ctx, nil)
		if err != nil {
			t.Fatalf("count: %v", err)
		}
		if n != 2 {
			t.Errorf("expected 2 users, got %d", n)
		}
	})
}
