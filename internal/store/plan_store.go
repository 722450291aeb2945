package store

import (
	"context"

	"invest/internal/models"
)

// PlanStore reads the investment plan catalog. Plans are seeded by
// migration and read-only at runtime.
type PlanStore struct {
	db DB
}

func NewPlanStore(db DB) *PlanStore {
	return &PlanStore{db: db}
}

func (s *PlanStore) GetByID(ctx context.Context, planID string) (models.InvestmentPlan, error) {
	var row models.InvestmentPlan
	err := s.db.GetContext(ctx, &row, `
		SELECT id, name, min_amount, max_amount, daily_return_rate, duration_days, currency, status, created_at
		FROM investment_plans
		WHERE id = $1
	`, planID)
	if err != nil {
		return models.InvestmentPlan{}, err
	}
	return row, nil
}

func (s *PlanStore) ListActive(ctx context.Context) ([]models.InvestmentPlan, error) {
	var rows []models.InvestmentPlan
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, name, min_amount, max_amount, daily_return_rate, duration_days, currency, status, created_at
		FROM investment_plans
		WHERE status = 'active'
		ORDER BY min_amount
	`)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
