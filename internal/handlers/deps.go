package handlers

import (
	"context"

	"invest/internal/models"
	"invest/internal/services"
	"invest/internal/store"
)

type UserStore interface {
	Create(ctx context.Context, tx store.Execer, input store.UserInput) error
	GetByEmail(ctx context.Context, email string) (models.User, error)
	GetByID(ctx context.Context, userID string) (models.User, error)
	GetByReferralCode(ctx context.Context, code string) (models.User, error)
	GetRole(ctx context.Context, userID string) (string, error)
	TouchLastLogin(ctx context.Context, tx store.Execer, userID string) error
	UpdateStatus(ctx context.Context, tx store.Execer, userID, status string) (int64, error)
	ListAll(ctx context.Context, status, search string, limit, offset int) ([]map[string]any, error)
	Stats(ctx context.Context) (store.UserStats, error)
}

type LedgerStore interface {
	SumByAccount(ctx context.Context, accountID string) (int64, error)
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]models.LedgerEntry, error)
}

type TransactionStore interface {
	GetByID(ctx context.Context, transactionID string) (models.Transaction, error)
	ListByUser(ctx context.Context, userID, txType, status string, limit, offset int) ([]models.Transaction, error)
	ListAll(ctx context.Context, status string, limit, offset int) ([]map[string]any, error)
	PendingWithdrawalTotal(ctx context.Context) (int64, error)
}

type InvestmentStore interface {
	ListByUser(ctx context.Context, userID string) ([]map[string]any, error)
	Stats(ctx context.Context) (store.InvestmentStats, error)
}

type WalletService interface {
	Balance(ctx context.Context, accountID string) (int64, error)
	Adjust(ctx context.Context, accountID string, amount int64, kind, description string, actorAdminID *string) (int64, error)
}

type TransactionService interface {
	Request(ctx context.Context, req services.TransactionRequest) (string, error)
	Approve(ctx context.Context, transactionID, adminID string, adminNotes *string) (models.Transaction, error)
	Reject(ctx context.Context, transactionID, adminID, adminNotes string) (models.Transaction, error)
}

type InvestmentService interface {
	Invest(ctx context.Context, req services.InvestRequest) (models.Investment, error)
	ListPlans(ctx context.Context) ([]models.InvestmentPlan, error)
}
