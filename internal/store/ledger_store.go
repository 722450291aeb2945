package store

import (
	"context"

	"invest/internal/models"
)

type LedgerStore struct {
	db DB
}

func NewLedgerStore(db DB) *LedgerStore {
	return &LedgerStore{db: db}
}

type LedgerEntryInput struct {
	ID           string
	AccountID    string
	Amount       int64
	Kind         string
	Description  string
	ActorAdminID *string
}

// InsertEntry appends one entry. It takes an Execer on purpose: entries
// may only be written inside the wallet service's transaction, alongside
// the matching balance update.
func (s *LedgerStore) InsertEntry(ctx context.Context, tx Execer, entry LedgerEntryInput) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO ledger_entries (id, account_id, amount, kind, description, actor_admin_id)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, entry.ID, entry.AccountID, entry.Amount, entry.Kind, entry.Description, entry.ActorAdminID)
	return err
}

func (s *LedgerStore) SumByAccount(ctx context.Context, accountID string) (int64, error) {
	var sum int64
	err := s.db.GetContext(ctx, &sum, `
		SELECT COALESCE(SUM(amount), 0)
		FROM ledger_entries
		WHERE account_id = $1
	`, accountID)
	return sum, err
}

func (s *LedgerStore) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]models.LedgerEntry, error) {
	var rows []models.LedgerEntry
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, account_id, amount, kind, description, actor_admin_id, created_at
		FROM ledger_entries
		WHERE account_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`, accountID, limit, offset)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
