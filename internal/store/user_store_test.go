package store

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"invest/internal/models"
)

func TestUserStoreCreateZeroBalance(t *testing.T) {
	ctx := context.Background()
	execer := stubExecer{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			if !strings.Contains(query, "INSERT INTO users") {
				t.Fatalf("unexpected query: %s", query)
			}
			if !strings.Contains(query, ", 0)") {
				t.Fatalf("expected zero starting balance, got: %s", query)
			}
			if args[0] != "user-1" || args[1] != "jo@example.com" {
				t.Fatalf("unexpected args: %#v", args)
			}
			return stubResult{rows: 1}, nil
		},
	}
	store := NewUserStore(stubDB{})
	err := store.Create(ctx, execer, UserInput{
		ID: "user-1", Email: "jo@example.com", PasswordHash: "hash",
		FirstName: "Jo", LastName: "Doe", Role: "user", ReferralCode: "ABCD1234",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUserStoreGetByEmail(t *testing.T) {
	ctx := context.Background()
	store := NewUserStore(stubDB{
		getFn: func(_ context.Context, dest any, query string, args ...any) error {
			if !strings.Contains(query, "WHERE email = $1") {
				t.Fatalf("unexpected query: %s", query)
			}
			row := dest.(*models.User)
			row.ID = "user-1"
			row.Email = args[0].(string)
			return nil
		},
	})
	user, err := store.GetByEmail(ctx, "jo@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID != "user-1" {
		t.Fatalf("unexpected user: %#v", user)
	}
}

func TestUserStoreUpdateStatusSkipsSuperAdmin(t *testing.T) {
	ctx := context.Background()
	execer := stubExecer{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			if !strings.Contains(query, "role != 'super_admin'") {
				t.Fatalf("expected super_admin guard, got: %s", query)
			}
			return stubResult{rows: 0}, nil
		},
	}
	store := NewUserStore(stubDB{})
	affected, err := store.UpdateStatus(ctx, execer, "root-admin", "banned")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if affected != 0 {
		t.Fatalf("expected no rows affected, got %d", affected)
	}
}

func TestUserStoreListAllFilters(t *testing.T) {
	ctx := context.Background()
	store := NewUserStore(stubDB{
		selectFn: func(_ context.Context, _ any, query string, args ...any) error {
			if !strings.Contains(query, "AND u.status = $1") {
				t.Fatalf("expected status filter, got: %s", query)
			}
			if !strings.Contains(query, "ILIKE $2") {
				t.Fatalf("expected search filter, got: %s", query)
			}
			if len(args) != 4 || args[0] != "active" || args[1] != "%doe%" {
				t.Fatalf("unexpected args: %#v", args)
			}
			return nil
		},
	})
	if _, err := store.ListAll(ctx, "active", "doe", 20, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUserStoreStatsExcludesSuperAdmin(t *testing.T) {
	ctx := context.Background()
	store := NewUserStore(stubDB{
		getFn: func(_ context.Context, dest any, query string, _ ...any) error {
			if !strings.Contains(query, "role != 'super_admin'") {
				t.Fatalf("unexpected query: %s", query)
			}
			row := dest.(*UserStats)
			row.TotalUsers = 12
			row.ActiveUsers = 10
			return nil
		},
	})
	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.TotalUsers != 12 || stats.ActiveUsers != 10 {
		t.Fatalf("unexpected stats: %#v", stats)
	}
}
