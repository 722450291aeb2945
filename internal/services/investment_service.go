package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"invest/internal/db"
	"invest/internal/models"
	"invest/internal/store"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

var (
	ErrPlanNotFound     = errors.New("investment plan not found")
	ErrPlanInactive     = errors.New("investment plan is not active")
	ErrAmountOutOfRange = errors.New("amount outside plan bounds")
	ErrCurrencyMismatch = errors.New("currency does not match plan")
)

type PlanStore interface {
	GetByID(ctx context.Context, planID string) (models.InvestmentPlan, error)
	ListActive(ctx context.Context) ([]models.InvestmentPlan, error)
}

type InvestmentStore interface {
	Create(ctx context.Context, tx store.Execer, input store.InvestmentInput) error
}

type InvestmentService struct {
	txRunner    db.TxRunner
	plans       PlanStore
	investments InvestmentStore
	wallet      WalletMutator
}

func NewInvestmentService(txRunner db.TxRunner, plans PlanStore, investments InvestmentStore, wallet WalletMutator) *InvestmentService {
	return &InvestmentService{txRunner: txRunner, plans: plans, investments: investments, wallet: wallet}
}

type InvestRequest struct {
	UserID   string
	PlanID   string
	Amount   int64
	Currency string
}

// Invest validates the plan, then debits the wallet and creates the
// investment row in one atomic unit. An insufficient balance aborts the
// whole operation; no investment row survives a failed debit.
func (s *InvestmentService) Invest(ctx context.Context, req InvestRequest) (models.Investment, error) {
	if req.Amount <= 0 {
		return models.Investment{}, ErrInvalidAmount
	}
	plan, err := s.plans.GetByID(ctx, req.PlanID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Investment{}, ErrPlanNotFound
		}
		return models.Investment{}, err
	}
	if plan.Status != "active" {
		return models.Investment{}, ErrPlanInactive
	}
	if req.Amount < plan.MinAmount || req.Amount > plan.MaxAmount {
		return models.Investment{}, ErrAmountOutOfRange
	}
	if req.Currency != plan.Currency {
		return models.Investment{}, ErrCurrencyMismatch
	}
	dailyReturn, err := dailyReturnMinor(req.Amount, plan.DailyReturnRate)
	if err != nil {
		return models.Investment{}, err
	}
	startDate := time.Now().UTC().Truncate(24 * time.Hour)
	endDate := startDate.AddDate(0, 0, plan.DurationDays)
	investmentID := uuid.NewString()
	var newBalance int64
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		balance, err := s.wallet.AdjustInTx(ctx, tx, req.UserID, -req.Amount, models.EntryKindInvestment, "Investment in "+plan.Name, nil)
		if err != nil {
			return err
		}
		newBalance = balance
		return s.investments.Create(ctx, tx, store.InvestmentInput{
			ID:          investmentID,
			UserID:      req.UserID,
			PlanID:      plan.ID,
			Amount:      req.Amount,
			Currency:    req.Currency,
			StartDate:   startDate,
			EndDate:     endDate,
			DailyReturn: dailyReturn,
		})
	})
	if err != nil {
		return models.Investment{}, err
	}
	s.wallet.PublishBalance(req.UserID, newBalance)
	return models.Investment{
		ID:          investmentID,
		UserID:      req.UserID,
		PlanID:      plan.ID,
		Amount:      req.Amount,
		Currency:    req.Currency,
		StartDate:   startDate,
		EndDate:     endDate,
		DailyReturn: dailyReturn,
		Status:      "active",
		TotalEarned: 0,
	}, nil
}

func (s *InvestmentService) ListPlans(ctx context.Context) ([]models.InvestmentPlan, error) {
	return s.plans.ListActive(ctx)
}

// dailyReturnMinor computes amount * rate / 100 in minor units, with
// the rate kept as a decimal string to avoid binary float drift.
func dailyReturnMinor(amountMinor int64, rate string) (int64, error) {
	parsed, err := decimal.NewFromString(rate)
	if err != nil {
		return 0, err
	}
	return decimal.NewFromInt(amountMinor).
		Mul(parsed).
		Div(decimal.NewFromInt(100)).
		RoundBank(0).
		IntPart(), nil
}
