package postgres

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"

	"telegram-aroma-oracle/internal/domain/model"
	"telegram-aroma-oracle/internal/domain/ports/repository"
)

var _ repository.SavedOilRepository = (*PostgresSavedOilRepo)(nil)

type PostgresSavedOilRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresSavedOilRepo(pool *pgxpool.Pool) *PostgresSavedOilRepo {
	return &PostgresSavedOilRepo{pool: pool}
}

// Append inserts a new history row. There is deliberately no conflict
// clause: the same oil saved twice is two rows.
func (r *PostgresSavedOilRepo) Append(ctx context.Context, tx repository.Tx, entry *model.SavedOilEntry) error {
	const q = `
INSERT INTO saved_oils (id, user_id, oil_id, saved_at) VALUES ($1,$2,$3,$4);
`
	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return err
	}
	if _, err := ex.Exec(ctx, q, entry.ID, entry.UserID, entry.OilID, entry.SavedAt); err != nil {
		return storageErr("append saved oil", err)
	}
	return nil
}

func (r *PostgresSavedOilRepo) ListRecent(ctx context.Context, tx repository.Tx, userID string, limit int) ([]*model.SavedOilEntry, error) {
	const q = `
SELECT id, user_id, oil_id, saved_at
  FROM saved_oils WHERE user_id=$1
 ORDER BY saved_at DESC
 LIMIT $2;
`
	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return nil, err
	}
	rows, err := ex.Query(ctx, q, userID, limit)
	if err != nil {
		return nil, storageErr("list saved oils", err)
	}
	defer rows.Close()

	var out []*model.SavedOilEntry
	for rows.Next() {
		var e model.SavedOilEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.OilID, &e.SavedAt); err != nil {
			return nil, storageErr("scan saved oil", err)
		}
		out = append(out, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list saved oils", err)
	}
	return out, nil
}

func (r *PostgresSavedOilRepo) CountSaved(ctx context.Context, tx repository.Tx) (int, error) {
	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return 0, err
	}
	var n int
	if err := ex.QueryRow(ctx, `SELECT COUNT(*) FROM saved_oils;`).Scan(&n); err != nil {
		return 0, storageErr("count saved oils", err)
	}
	return n, nil
}
