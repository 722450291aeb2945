package store

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"
)

func TestInvestmentStoreCreate(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)
	execer := stubExecer{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			if !strings.Contains(query, "INSERT INTO user_investments") {
				t.Fatalf("unexpected query: %s", query)
			}
			if !strings.Contains(query, "'active', 0") {
				t.Fatalf("expected active/zero-earned defaults, got: %s", query)
			}
			if args[0] != "inv-1" || args[2] != "tesla-starter" || args[3] != int64(10000) {
				t.Fatalf("unexpected args: %#v", args)
			}
			return stubResult{rows: 1}, nil
		},
	}
	store := NewInvestmentStore(stubDB{})
	err := store.Create(ctx, execer, InvestmentInput{
		ID: "inv-1", UserID: "user-1", PlanID: "tesla-starter", Amount: 10000, Currency: "USD",
		StartDate: start, EndDate: start.AddDate(0, 0, 5), DailyReturn: 8000,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestInvestmentStoreStats(t *testing.T) {
	ctx := context.Background()
	store := NewInvestmentStore(stubDB{
		getFn: func(_ context.Context, dest any, query string, _ ...any) error {
			if !strings.Contains(query, "status = 'active'") {
				t.Fatalf("unexpected query: %s", query)
			}
			row := dest.(*InvestmentStats)
			row.ActiveInvestments = 3
			row.TotalInvested = 260000
			row.TotalPayouts = 4000
			return nil
		},
	})
	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.ActiveInvestments != 3 || stats.TotalInvested != 260000 {
		t.Fatalf("unexpected stats: %#v", stats)
	}
}
