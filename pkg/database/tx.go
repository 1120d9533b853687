package database

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the query surface shared by *pgxpool.Pool and pgx.Tx.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Pool is a DB that can open transactions.
type Pool interface {
	DB
	Begin(ctx context.Context) (pgx.Tx, error)
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
}

// WithTx runs fn inside a transaction and commits if fn returns nil.
// Any error or panic rolls the transaction back; panics are rethrown.
//
//	err := database.WithTx(ctx, pool, func(ctx context.Context, tx database.DB) error {
//	    _, err := tx.Exec(ctx, "DELETE FROM ...", userID)
//	    return err
//	})
func WithTx(ctx context.Context, pool Pool, fn func(ctx context.Context, tx DB) error) (err error) {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	return run(ctx, tx, fn)
}

// WithReadTx runs fn in a read-only repeatable read transaction so that
// multi-table reads see one snapshot.
func WithReadTx(ctx context.Context, pool Pool, fn func(ctx context.Context, tx DB) error) error {
	tx, err := pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.RepeatableRead,
		AccessMode: pgx.ReadOnly,
	})
	if err != nil {
		return err
	}
	return run(ctx, tx, fn)
}

func run(ctx context.Context, tx pgx.Tx, fn func(ctx context.Context, tx DB) error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback(ctx)
			return
		}
		err = tx.Commit(ctx)
	}()

	err = fn(ctx, tx)
	return err
}
