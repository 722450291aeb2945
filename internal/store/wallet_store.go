package store

import "context"

// WalletStore reads and writes the wallet_balance column on users.
// Writes happen only through the wallet service's atomic unit; no other
// code path may touch the stored balance.
type WalletStore struct {
	db DB
}

func NewWalletStore(db DB) *WalletStore {
	return &WalletStore{db: db}
}

type Wallet struct {
	AccountID string `db:"id"`
	Balance   int64  `db:"wallet_balance"`
	Status    string `db:"status"`
}

func (s *WalletStore) GetBalance(ctx context.Context, accountID string) (int64, error) {
	var balance int64
	err := s.db.GetContext(ctx, &balance, `
		SELECT wallet_balance
		FROM users
		WHERE id = $1
	`, accountID)
	return balance, err
}

// GetForUpdate locks the account row for the remainder of the enclosing
// transaction so that the sufficiency check and the balance write are
// serialized per account.
func (s *WalletStore) GetForUpdate(ctx context.Context, tx Getter, accountID string) (Wallet, error) {
	var row Wallet
	err := tx.GetContext(ctx, &row, `
		SELECT id, wallet_balance, status
		FROM users
		WHERE id = $1
		FOR UPDATE
	`, accountID)
	if err != nil {
		return Wallet{}, err
	}
	return row, nil
}

func (s *WalletStore) UpdateBalance(ctx context.Context, tx Execer, accountID string, balance int64) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE users
		SET wallet_balance = $1, updated_at = NOW()
		WHERE id = $2
	`, balance, accountID)
	return err
}
