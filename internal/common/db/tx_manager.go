package db

import (
	"context"

	"github.com/jackc/pgconn"
	pgx "github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/AlibekovAA/places-directory/internal/common/constants"
	"github.com/AlibekovAA/places-directory/internal/observability/metrics"
)

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx, so repositories can
// run the same statements inside or outside a transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// RunInTx commits when fn returns nil and rolls back on error or panic.
func RunInTx(ctx context.Context, pool *pgxpool.Pool, fn func(ctx context.Context, tx pgx.Tx) error) (err error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DBQueryTimeout)
	defer cancel()

	tx, err := pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		metrics.DBTransactionsTotal.WithLabelValues("begin_failed").Inc()
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			metrics.DBTransactionsTotal.WithLabelValues("rolled_back").Inc()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback(ctx)
			metrics.DBTransactionsTotal.WithLabelValues("rolled_back").Inc()
			return
		}
		err = tx.Commit(ctx)
		if err != nil {
			metrics.DBTransactionsTotal.WithLabelValues("commit_failed").Inc()
			return
		}
		metrics.DBTransactionsTotal.WithLabelValues("committed").Inc()
	}()

	err = fn(ctx, tx)
	return err
}
