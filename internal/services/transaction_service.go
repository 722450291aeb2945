package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"invest/internal/db"
	"invest/internal/models"
	"invest/internal/store"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var (
	ErrTransactionNotFound  = errors.New("transaction not found")
	ErrInvalidState         = errors.New("transaction is not pending")
	ErrRejectReasonRequired = errors.New("rejection reason required")
	ErrInvalidType          = errors.New("invalid transaction type")
)

type TransactionStore interface {
	Create(ctx context.Context, tx store.Execer, input store.TransactionInput) error
	GetForUpdate(ctx context.Context, tx store.Getter, transactionID string) (models.Transaction, error)
	MarkProcessed(ctx context.Context, tx store.Execer, transactionID, status, adminID string, adminNotes *string) error
}

type WalletMutator interface {
	AdjustInTx(ctx context.Context, tx store.Tx, accountID string, amount int64, kind, description string, actorAdminID *string) (int64, error)
	PublishBalance(accountID string, balance int64)
}

// TransactionService owns the pending -> completed/rejected workflow
// for deposits and withdrawals. Withdrawals follow a debit-on-approval
// policy: requesting one reserves nothing, approving one debits the
// wallet in the same transaction that marks it completed, and rejecting
// one never touches the balance.
type TransactionService struct {
	txRunner db.TxRunner
	txStore  TransactionStore
	wallet   WalletMutator
}

func NewTransactionService(txRunner db.TxRunner, txStore TransactionStore, wallet WalletMutator) *TransactionService {
	return &TransactionService{txRunner: txRunner, txStore: txStore, wallet: wallet}
}

type TransactionRequest struct {
	UserID        string
	Type          string
	Amount        int64
	Currency      string
	WalletAddress *string
	Fee           int64
	Notes         *string
}

// Request records a user-initiated deposit or withdrawal in pending
// status and returns its id.
func (s *TransactionService) Request(ctx context.Context, req TransactionRequest) (string, error) {
	if req.Amount <= 0 {
		return "", ErrInvalidAmount
	}
	if req.Type != models.TxTypeDeposit && req.Type != models.TxTypeWithdrawal {
		return "", ErrInvalidType
	}
	transactionID := uuid.NewString()
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		return s.txStore.Create(ctx, tx, store.TransactionInput{
			ID:            transactionID,
			UserID:        req.UserID,
			Type:          req.Type,
			Amount:        req.Amount,
			Currency:      req.Currency,
			Status:        models.TxStatusPending,
			WalletAddress: req.WalletAddress,
			Fee:           req.Fee,
			Notes:         req.Notes,
		})
	})
	if err != nil {
		return "", err
	}
	return transactionID, nil
}

// Approve moves a pending transaction to completed. Deposits credit the
// wallet inside the same transaction; if the credit fails nothing is
// committed and the row stays pending. A second call on the same id
// finds a terminal status and fails with ErrInvalidState, so the ledger
// can never be credited twice.
func (s *TransactionService) Approve(ctx context.Context, transactionID, adminID string, adminNotes *string) (models.Transaction, error) {
	var result models.Transaction
	var newBalance int64
	var balanceChanged bool
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		row, err := s.txStore.GetForUpdate(ctx, tx, transactionID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrTransactionNotFound
			}
			return err
		}
		if models.IsTerminalStatus(row.Status) {
			return ErrInvalidState
		}
		switch row.Type {
		case models.TxTypeDeposit:
			balance, err := s.wallet.AdjustInTx(ctx, tx, row.UserID, row.Amount, models.EntryKindCredit, "Deposit approved", &adminID)
			if err != nil {
				return err
			}
			newBalance = balance
			balanceChanged = true
		case models.TxTypeWithdrawal:
			balance, err := s.wallet.AdjustInTx(ctx, tx, row.UserID, -row.Amount, models.EntryKindDebit, "Withdrawal paid out", &adminID)
			if err != nil {
				return err
			}
			newBalance = balance
			balanceChanged = true
		default:
			return ErrInvalidType
		}
		if err := s.txStore.MarkProcessed(ctx, tx, transactionID, models.TxStatusCompleted, adminID, adminNotes); err != nil {
			return err
		}
		now := time.Now().UTC()
		row.Status = models.TxStatusCompleted
		row.ProcessedBy = &adminID
		row.ProcessedAt = &now
		row.AdminNotes = adminNotes
		result = row
		return nil
	})
	if err != nil {
		return models.Transaction{}, err
	}
	if balanceChanged {
		s.wallet.PublishBalance(result.UserID, newBalance)
	}
	return result, nil
}

// Reject moves a pending transaction to rejected. The reason is
// mandatory; the wallet is never touched.
func (s *TransactionService) Reject(ctx context.Context, transactionID, adminID, adminNotes string) (models.Transaction, error) {
	if strings.TrimSpace(adminNotes) == "" {
		return models.Transaction{}, ErrRejectReasonRequired
	}
	var result models.Transaction
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		row, err := s.txStore.GetForUpdate(ctx, tx, transactionID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrTransactionNotFound
			}
			return err
		}
		if models.IsTerminalStatus(row.Status) {
			return ErrInvalidState
		}
		if err := s.txStore.MarkProcessed(ctx, tx, transactionID, models.TxStatusRejected, adminID, &adminNotes); err != nil {
			return err
		}
		now := time.Now().UTC()
		row.Status = models.TxStatusRejected
		row.ProcessedBy = &adminID
		row.ProcessedAt = &now
		row.AdminNotes = &adminNotes
		result = row
		return nil
	})
	if err != nil {
		return models.Transaction{}, err
	}
	return result, nil
}
