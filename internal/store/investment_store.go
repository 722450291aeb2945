package store

import (
	"context"
	"time"

	"invest/internal/models"
)

type InvestmentStore struct {
	db DB
}

func NewInvestmentStore(db DB) *InvestmentStore {
	return &InvestmentStore{db: db}
}

type InvestmentInput struct {
	ID          string
	UserID      string
	PlanID      string
	Amount      int64
	Currency    string
	StartDate   time.Time
	EndDate     time.Time
	DailyReturn int64
}

type investmentRow struct {
	models.Investment
	PlanName        string `db:"plan_name"`
	DailyReturnRate string `db:"daily_return_rate"`
}

// Create takes an Execer: the row must land in the same transaction as
// the wallet debit and its ledger entry.
func (s *InvestmentStore) Create(ctx context.Context, tx Execer, input InvestmentInput) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO user_investments (id, user_id, plan_id, amount, currency, start_date, end_date, daily_return, status, total_earned)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'active', 0)
	`, input.ID, input.UserID, input.PlanID, input.Amount, input.Currency,
		input.StartDate, input.EndDate, input.DailyReturn)
	return err
}

func (s *InvestmentStore) GetByID(ctx context.Context, investmentID string) (models.Investment, error) {
	var row models.Investment
	err := s.db.GetContext(ctx, &row, `
		SELECT id, user_id, plan_id, amount, currency, start_date, end_date, daily_return, status, total_earned, created_at
		FROM user_investments
		WHERE id = $1
	`, investmentID)
	if err != nil {
		return models.Investment{}, err
	}
	return row, nil
}

func (s *InvestmentStore) ListByUser(ctx context.Context, userID string) ([]map[string]any, error) {
	var rows []investmentRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT i.id, i.user_id, i.plan_id, i.amount, i.currency, i.start_date, i.end_date,
		       i.daily_return, i.status, i.total_earned, i.created_at,
		       p.name AS plan_name, p.daily_return_rate
		FROM user_investments i
		JOIN investment_plans p ON p.id = i.plan_id
		WHERE i.user_id = $1
		ORDER BY i.created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	result := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		result = append(result, map[string]any{
			"id":                row.ID,
			"plan_id":           row.PlanID,
			"plan_name":         row.PlanName,
			"daily_return_rate": row.DailyReturnRate,
			"amount":            row.Amount,
			"currency":          row.Currency,
			"start_date":        row.StartDate,
			"end_date":          row.EndDate,
			"daily_return":      row.DailyReturn,
			"status":            row.Status,
			"total_earned":      row.TotalEarned,
			"created_at":        row.CreatedAt,
		})
	}
	return result, nil
}

type InvestmentStats struct {
	ActiveInvestments int64 `db:"active_investments"`
	TotalInvested     int64 `db:"total_invested"`
	TotalPayouts      int64 `db:"total_payouts"`
}

func (s *InvestmentStore) Stats(ctx context.Context) (InvestmentStats, error) {
	var row InvestmentStats
	err := s.db.GetContext(ctx, &row, `
		SELECT COUNT(*) AS active_investments,
		       COALESCE(SUM(amount), 0) AS total_invested,
		       COALESCE(SUM(total_earned), 0) AS total_payouts
		FROM user_investments
		WHERE status = 'active'
	`)
	return row, err
}
