package store

import (
	"context"
	"fmt"

	"invest/internal/models"
)

type TransactionStore struct {
	db DB
}

func NewTransactionStore(db DB) *TransactionStore {
	return &TransactionStore{db: db}
}

type TransactionInput struct {
	ID            string
	UserID        string
	Type          string
	Amount        int64
	Currency      string
	Status        string
	WalletAddress *string
	Fee           int64
	Notes         *string
}

type adminTransactionRow struct {
	models.Transaction
	UserName  string `db:"user_name"`
	UserEmail string `db:"user_email"`
}

func (s *TransactionStore) Create(ctx context.Context, tx Execer, input TransactionInput) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO transactions (id, user_id, type, amount, currency, status, wallet_address, fee, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, input.ID, input.UserID, input.Type, input.Amount, input.Currency, input.Status,
		input.WalletAddress, input.Fee, input.Notes)
	return err
}

func (s *TransactionStore) GetByID(ctx context.Context, transactionID string) (models.Transaction, error) {
	var row models.Transaction
	err := s.db.GetContext(ctx, &row, `
		SELECT id, user_id, type, amount, currency, status, wallet_address, fee,
		       notes, admin_notes, processed_by, processed_at, created_at, updated_at
		FROM transactions
		WHERE id = $1
	`, transactionID)
	if err != nil {
		return models.Transaction{}, err
	}
	return row, nil
}

// GetForUpdate locks the transaction row so concurrent approve/reject
// calls on the same id serialize; the second caller then sees the
// terminal status.
func (s *TransactionStore) GetForUpdate(ctx context.Context, tx Getter, transactionID string) (models.Transaction, error) {
	var row models.Transaction
	err := tx.GetContext(ctx, &row, `
		SELECT id, user_id, type, amount, currency, status, wallet_address, fee,
		       notes, admin_notes, processed_by, processed_at, created_at, updated_at
		FROM transactions
		WHERE id = $1
		FOR UPDATE
	`, transactionID)
	if err != nil {
		return models.Transaction{}, err
	}
	return row, nil
}

func (s *TransactionStore) MarkProcessed(ctx context.Context, tx Execer, transactionID, status, adminID string, adminNotes *string) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE transactions
		SET status = $1, processed_by = $2, admin_notes = $3, processed_at = NOW(), updated_at = NOW()
		WHERE id = $4
	`, status, adminID, adminNotes, transactionID)
	return err
}

func (s *TransactionStore) ListByUser(ctx context.Context, userID, txType, status string, limit, offset int) ([]models.Transaction, error) {
	query := `
		SELECT id, user_id, type, amount, currency, status, wallet_address, fee,
		       notes, admin_notes, processed_by, processed_at, created_at, updated_at
		FROM transactions
		WHERE user_id = $1
	`
	args := []any{userID}
	param := 2
	if txType != "" {
		query += fmt.Sprintf(" AND type = $%d", param)
		args = append(args, txType)
		param++
	}
	if status != "" {
		query += fmt.Sprintf(" AND status = $%d", param)
		args = append(args, status)
		param++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", param, param+1)
	args = append(args, limit, offset)
	var rows []models.Transaction
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *TransactionStore) ListAll(ctx context.Context, status string, limit, offset int) ([]map[string]any, error) {
	query := `
		SELECT t.id, t.user_id, t.type, t.amount, t.currency, t.status, t.wallet_address,
		       t.fee, t.notes, t.admin_notes, t.processed_by, t.processed_at,
		       t.created_at, t.updated_at,
		       u.first_name || ' ' || u.last_name AS user_name,
		       u.email AS user_email
		FROM transactions t
		JOIN users u ON u.id = t.user_id
	`
	args := []any{}
	param := 1
	if status != "" {
		query += fmt.Sprintf(" WHERE t.status = $%d", param)
		args = append(args, status)
		param++
	}
	query += fmt.Sprintf(" ORDER BY t.created_at DESC LIMIT $%d OFFSET $%d", param, param+1)
	args = append(args, limit, offset)
	var rows []adminTransactionRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	result := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		result = append(result, map[string]any{
			"id":             row.ID,
			"user_id":        row.UserID,
			"user_name":      row.UserName,
			"user_email":     row.UserEmail,
			"type":           row.Type,
			"amount":         row.Amount,
			"currency":       row.Currency,
			"status":         row.Status,
			"wallet_address": derefStringPtr(row.WalletAddress),
			"fee":            row.Fee,
			"notes":          derefStringPtr(row.Notes),
			"admin_notes":    derefStringPtr(row.AdminNotes),
			"processed_by":   derefStringPtr(row.ProcessedBy),
			"processed_at":   row.ProcessedAt,
			"created_at":     row.CreatedAt,
		})
	}
	return result, nil
}

// PendingWithdrawalTotal feeds the admin dashboard stats.
func (s *TransactionStore) PendingWithdrawalTotal(ctx context.Context) (int64, error) {
	var total int64
	err := s.db.GetContext(ctx, &total, `
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE type = 'withdrawal' AND status = 'pending'
	`)
	return total, err
}
