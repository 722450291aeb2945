package store

import (
	"context"
	"strings"
	"testing"

	"invest/internal/models"
)

func TestPlanStoreGetByID(t *testing.T) {
	ctx := context.Background()
	store := NewPlanStore(stubDB{
		getFn: func(_ context.Context, dest any, query string, args ...any) error {
			if !strings.Contains(query, "FROM investment_plans") {
				t.Fatalf("unexpected query: %s", query)
			}
			row := dest.(*models.InvestmentPlan)
			row.ID = args[0].(string)
			row.Name = "Tesla Starter"
			row.Status = "active"
			return nil
		},
	})
	plan, err := store.GetByID(ctx, "tesla-starter")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.ID != "tesla-starter" || plan.Name != "Tesla Starter" {
		t.Fatalf("unexpected plan: %#v", plan)
	}
}

func TestPlanStoreListActiveFiltersStatus(t *testing.T) {
	ctx := context.Background()
	store := NewPlanStore(stubDB{
		selectFn: func(_ context.Context, _ any, query string, _ ...any) error {
			if !strings.Contains(query, "status = 'active'") {
				t.Fatalf("expected active filter, got: %s", query)
			}
			if !strings.Contains(query, "ORDER BY min_amount") {
				t.Fatalf("expected min_amount ordering, got: %s", query)
			}
			return nil
		},
	})
	if _, err := store.ListActive(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
