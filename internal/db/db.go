package db

import (
	"context"
	"database/sql"
	"errors"
	"math/rand"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Balance mutations run under serializable isolation, so concurrent
// writers can fail with 40001 and need the whole unit re-run.
const maxTxAttempts = 5

type TxRunner interface {
	WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error
}

// Runner binds WithTx to a pool so services depend on the TxRunner
// interface instead of *sqlx.DB.
type Runner struct {
	db *sqlx.DB
}

func NewTxRunner(db *sqlx.DB) Runner {
	return Runner{db: db}
}

func (r Runner) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	return WithTx(ctx, r.db, fn)
}

func Connect(databaseURL string) (*sqlx.DB, error) {
	pool, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, err
	}
	pool.SetMaxOpenConns(30)
	pool.SetMaxIdleConns(5)
	pool.SetConnMaxLifetime(30 * time.Minute)
	pool.SetConnMaxIdleTime(5 * time.Minute)
	return pool, nil
}

// WithTx runs fn inside a serializable transaction, retrying
// serialization failures and deadlocks. Any other error rolls the unit
// back so the ledger and the cached wallet balance move together or
// not at all.
func WithTx(ctx context.Context, pool *sqlx.DB, fn func(*sqlx.Tx) error) error {
	var lastErr error
	for attempt := 1; attempt <= maxTxAttempts; attempt++ {
		done, err := runOnce(ctx, pool, fn)
		if done {
			return err
		}
		lastErr = err
		if attempt < maxTxAttempts {
			backoff(attempt)
		}
	}
	if lastErr != nil {
		return lastErr
	}
	return errors.New("transaction retry limit exceeded")
}

// runOnce reports done=false only for retryable failures.
func runOnce(ctx context.Context, pool *sqlx.DB, fn func(*sqlx.Tx) error) (bool, error) {
	tx, err := pool.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return true, err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return !isRetryablePGError(err), err
	}
	if err := tx.Commit(); err != nil {
		return !isRetryablePGError(err), err
	}
	return true, nil
}

func isRetryablePGError(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	// serialization_failure, deadlock_detected
	return pqErr.Code == "40001" || pqErr.Code == "40P01"
}

func backoff(attempt int) {
	wait := time.Duration(attempt*attempt) * 20 * time.Millisecond
	wait += time.Duration(rand.Int63n(int64(10 * time.Millisecond)))
	time.Sleep(wait)
}
