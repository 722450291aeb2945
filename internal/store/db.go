package store

import (
	"context"
	"database/sql"
)

// The stores accept these narrow interfaces instead of *sqlx.DB so the
// same queries run against the pool or inside a transaction, and so
// tests can hand in stubs.

type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type Getter interface {
	GetContext(ctx context.Context, dest any, query string, args ...any) error
}

type Selecter interface {
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
}

type DB interface {
	Execer
	Getter
	Selecter
}

// Tx is what a write path needs while holding row locks: reads via
// GetContext and writes via ExecContext, both on the same transaction.
type Tx interface {
	Execer
	Getter
}

func derefStringPtr(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
