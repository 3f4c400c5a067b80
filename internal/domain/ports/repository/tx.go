package repository

import (
	"context"

	"github.com/jackc/pgx/v4"
)

type Tx interface{}

var NoTX interface{}

// TransactionManager provides a thin abstraction to execute a function within
// a database transaction, passing the underlying transaction handle via `tx`.
//
// Keeping the handle opaque means use-case interfaces stay clean: repository
// methods accept a Tx and detect the concrete type (pgx.Tx for Postgres) on
// the implementation side. Repositories MUST gracefully accept a nil handle
// and fall back to the non-transactional path.
type TransactionManager interface {
	WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx Tx) error) error
}
