//go:build !integration

package usecase

import (
	"context"
	"sort"
	"sync"

	"telegram-aroma-oracle/internal/domain"
	"telegram-aroma-oracle/internal/domain/model"
	"telegram-aroma-oracle/internal/domain/ports/repository"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"
)

// newTestLogger creates a silent logger for tests.
func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(nil)
	return &logger
}

// mockTxManager runs the callback without a real transaction; repositories
// accept the nil handle and use their default path.
type mockTxManager struct{}

func newMockTxManager() *mockTxManager { return &mockTxManager{} }

func (m *mockTxManager) WithTx(ctx context.Context, _ pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	return fn(ctx, nil)
}

// memUserRepo is a small in-memory implementation used by unit tests.
type memUserRepo struct {
	mu      sync.RWMutex
	store   map[int64]*model.User // map by TelegramID
	saveErr error                 // used by tests to simulate save failures
	findErr error
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{store: make(map[int64]*model.User)}
}

func (m *memUserRepo) Save(ctx context.Context, _ repository.Tx, user *model.User) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *user
	m.store[user.TelegramID] = &cp
	return nil
}

func (m *memUserRepo) FindByTelegramID(ctx context.Context, _ repository.Tx, telegramID int64) (*model.User, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.store[telegramID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUserRepo) CountUsers(ctx context.Context, _ repository.Tx) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.store), nil
}

// memSavedOilRepo provides the in-memory saved-oil log for tests.
type memSavedOilRepo struct {
	mu        sync.RWMutex
	entries   []*model.SavedOilEntry
	appendErr error
	listErr   error
}

func newMemSavedOilRepo() *memSavedOilRepo { return &memSavedOilRepo{} }

func (m *memSavedOilRepo) Append(ctx context.Context, _ repository.Tx, entry *model.SavedOilEntry) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *entry
	m.entries = append(m.entries, &cp)
	return nil
}

func (m *memSavedOilRepo) ListRecent(ctx context.Context, _ repository.Tx, userID string, limit int) ([]*model.SavedOilEntry, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.SavedOilEntry
	for _, e := range m.entries {
		if e.UserID == userID {
			cp := *e
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SavedAt.After(out[j].SavedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memSavedOilRepo) CountSaved(ctx context.Context, _ repository.Tx) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries), nil
}

// threeOilCatalog mirrors the canonical scenario: lavender, mint, rose as ids 0,1,2.
func threeOilCatalog() *model.Catalog {
	return model.NewCatalog([]model.OilRecord{
		{Name: "lavender"}, {Name: "mint"}, {Name: "rose"},
	})
}
