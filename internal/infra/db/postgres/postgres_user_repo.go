package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"telegram-aroma-oracle/internal/domain"
	"telegram-aroma-oracle/internal/domain/model"
	"telegram-aroma-oracle/internal/domain/ports/repository"
)

var _ repository.UserRepository = (*PostgresUserRepo)(nil)

type PostgresUserRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresUserRepo(pool *pgxpool.Pool) *PostgresUserRepo {
	return &PostgresUserRepo{pool: pool}
}

// Save upserts the user row. Rewriting the same last_draw_date is harmless,
// which gives the date gate its idempotence.
func (r *PostgresUserRepo) Save(ctx context.Context, tx repository.Tx, u *model.User) error {
	const q = `
INSERT INTO oracle_users (
  id, telegram_id, username, registered_at, last_active_at, last_draw_date
) VALUES (
  $1,$2,$3,$4,$5,$6
) ON CONFLICT (id) DO UPDATE SET
  telegram_id=$2, username=$3, last_active_at=$5, last_draw_date=$6;
`
	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return err
	}
	if _, err := ex.Exec(ctx, q, u.ID, u.TelegramID, u.Username, u.RegisteredAt, u.LastActiveAt, nullableDate(u.LastDrawDate)); err != nil {
		return storageErr("save user", err)
	}
	return nil
}

func (r *PostgresUserRepo) FindByTelegramID(ctx context.Context, tx repository.Tx, tgID int64) (*model.User, error) {
	const q = `
SELECT id, telegram_id, username, registered_at, last_active_at, last_draw_date
  FROM oracle_users WHERE telegram_id=$1;
`
	return r.findOne(ctx, tx, q, tgID)
}

func (r *PostgresUserRepo) findOne(ctx context.Context, tx repository.Tx, q string, arg interface{}) (*model.User, error) {
	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return nil, err
	}
	var u model.User
	var drawDate sql.NullString
	if err := ex.QueryRow(ctx, q, arg).Scan(&u.ID, &u.TelegramID, &u.Username, &u.RegisteredAt, &u.LastActiveAt, &drawDate); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, storageErr("find user", err)
	}
	if drawDate.Valid {
		u.LastDrawDate = drawDate.String
	}
	return &u, nil
}

func (r *PostgresUserRepo) CountUsers(ctx context.Context, tx repository.Tx) (int, error) {
	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return 0, err
	}
	var n int
	if err := ex.QueryRow(ctx, `SELECT COUNT(*) FROM oracle_users;`).Scan(&n); err != nil {
		return 0, storageErr("count users", err)
	}
	return n, nil
}

func nullableDate(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
