package services

import (
	"context"
	"database/sql"
	"errors"

	"invest/internal/db"
	"invest/internal/money"
	"invest/internal/store"
	"invest/internal/websocket"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var (
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrWalletNotFound      = errors.New("wallet not found")
)

type WalletStore interface {
	GetBalance(ctx context.Context, accountID string) (int64, error)
	GetForUpdate(ctx context.Context, tx store.Getter, accountID string) (store.Wallet, error)
	UpdateBalance(ctx context.Context, tx store.Execer, accountID string, balance int64) error
}

type LedgerStore interface {
	InsertEntry(ctx context.Context, tx store.Execer, entry store.LedgerEntryInput) error
	SumByAccount(ctx context.Context, accountID string) (int64, error)
}

type BalanceHub interface {
	BroadcastBalance(userID string, update websocket.BalanceUpdate)
}

// WalletService is the only code path that changes wallet_balance.
// Every adjustment locks the account row, checks sufficiency, writes
// the new balance and appends exactly one ledger entry, all in one
// transaction.
type WalletService struct {
	txRunner db.TxRunner
	wallets  WalletStore
	ledger   LedgerStore
	hub      BalanceHub
}

func NewWalletService(txRunner db.TxRunner, wallets WalletStore, ledger LedgerStore, hub BalanceHub) *WalletService {
	return &WalletService{txRunner: txRunner, wallets: wallets, ledger: ledger, hub: hub}
}

// Adjust applies a signed amount to an account in its own atomic unit
// and returns the post-update balance.
func (s *WalletService) Adjust(ctx context.Context, accountID string, amount int64, kind, description string, actorAdminID *string) (int64, error) {
	if amount == 0 {
		return 0, ErrInvalidAmount
	}
	var newBalance int64
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		balance, err := s.AdjustInTx(ctx, tx, accountID, amount, kind, description, actorAdminID)
		if err != nil {
			return err
		}
		newBalance = balance
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.PublishBalance(accountID, newBalance)
	return newBalance, nil
}

// AdjustInTx is the composable form: transaction approval and
// investment issuance run it inside their own transaction so the
// balance change commits or rolls back together with their rows.
func (s *WalletService) AdjustInTx(ctx context.Context, tx store.Tx, accountID string, amount int64, kind, description string, actorAdminID *string) (int64, error) {
	if amount == 0 {
		return 0, ErrInvalidAmount
	}
	wallet, err := s.wallets.GetForUpdate(ctx, tx, accountID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrWalletNotFound
		}
		return 0, err
	}
	newBalance := wallet.Balance + amount
	if newBalance < 0 {
		return 0, ErrInsufficientBalance
	}
	if err := s.wallets.UpdateBalance(ctx, tx, accountID, newBalance); err != nil {
		return 0, err
	}
	entry := store.LedgerEntryInput{
		ID:           uuid.NewString(),
		AccountID:    accountID,
		Amount:       amount,
		Kind:         kind,
		Description:  description,
		ActorAdminID: actorAdminID,
	}
	if err := s.ledger.InsertEntry(ctx, tx, entry); err != nil {
		return 0, err
	}
	return newBalance, nil
}

// PublishBalance pushes the committed balance to the account owner's
// connected clients. Callers of AdjustInTx invoke it after their
// transaction commits, never before.
func (s *WalletService) PublishBalance(accountID string, balance int64) {
	s.hub.BroadcastBalance(accountID, websocket.BalanceUpdate{
		AccountID: accountID,
		Balance:   money.FormatMinor(balance),
	})
}

// Balance reads the stored balance outside any transaction.
func (s *WalletService) Balance(ctx context.Context, accountID string) (int64, error) {
	balance, err := s.wallets.GetBalance(ctx, accountID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrWalletNotFound
		}
		return 0, err
	}
	return balance, nil
}
