package duckdb

import (
	"context"
	"database/sql"
	"fmt"
)

type txKey struct{}

// WithTransaction makes stores called with the returned context join tx
// instead of opening their own.
func WithTransaction(ctx context.Context, tx *sql.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

func GetTransaction(ctx context.Context) *sql.Tx {
	tx, _ := ctx.Value(txKey{}).(*sql.Tx)
	return tx
}

// RunInTx calls fn with the transaction carried by ctx, or with a new one that
// is committed when fn succeeds and rolled back otherwise.
func RunInTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	if tx := GetTransaction(ctx); tx != nil {
		return fn(tx)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
