package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"reflect"
	"testing"
	"time"

	"invest/internal/models"
	"invest/internal/services"
	"invest/internal/store"

	"github.com/go-chi/chi/v5"
)

func withURLParam(req *http.Request, key, value string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func TestAdminStats(t *testing.T) {
	handler := newTestHandler(handlerDeps{
		users: stubUserStore{
			statsFn: func(context.Context) (store.UserStats, error) {
				return store.UserStats{TotalUsers: 10, NewUsersToday: 2, ActiveUsers: 9}, nil
			},
		},
		investments: stubInvestmentStore{
			statsFn: func(context.Context) (store.InvestmentStats, error) {
				return store.InvestmentStats{ActiveInvestments: 4, TotalInvested: 260000, TotalPayouts: 8000}, nil
			},
		},
		transactions: stubTransactionStore{
			pendingTotalFn: func(context.Context) (int64, error) {
				return 50000, nil
			},
		},
	})
	req := authedRequest(t, http.MethodGet, "/admin/stats", "", "admin-1")
	rr := serveAuthed(handler.AdminStats, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var payload adminStats
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload.TotalUsers != 10 || payload.TotalInvested != "2600.00" || payload.PendingWithdrawals != "500.00" {
		t.Fatalf("unexpected payload: %#v", payload)
	}
}

func TestAdminListUsersFormatsMoney(t *testing.T) {
	handler := newTestHandler(handlerDeps{
		users: stubUserStore{
			listAllFn: func(context.Context, string, string, int, int) ([]map[string]any, error) {
				return []map[string]any{
					{"id": "user-1", "wallet_balance": int64(12345), "total_invested": int64(10000)},
				}, nil
			},
		},
	})
	req := authedRequest(t, http.MethodGet, "/admin/users", "", "admin-1")
	rr := serveAuthed(handler.AdminListUsers, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var payload []map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload[0]["wallet_balance"] != "123.45" || payload[0]["total_invested"] != "100.00" {
		t.Fatalf("unexpected payload: %#v", payload)
	}
}

func TestAdminUpdateUserStatus(t *testing.T) {
	var gotStatus string
	handler := newTestHandler(handlerDeps{
		users: stubUserStore{
			updateStatusFn: func(_ context.Context, _ store.Execer, userID, status string) (int64, error) {
				if userID != "user-9" {
					t.Fatalf("unexpected user: %s", userID)
				}
				gotStatus = status
				return 1, nil
			},
		},
	})
	body := `{"status":"suspended"}`
	req := withURLParam(authedRequest(t, http.MethodPut, "/admin/users/user-9/status", body, "admin-1"), "id", "user-9")
	rr := serveAuthed(handler.AdminUpdateUserStatus, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if gotStatus != "suspended" {
		t.Fatalf("unexpected status: %s", gotStatus)
	}
}

func TestAdminUpdateUserStatusInvalidValue(t *testing.T) {
	handler := newTestHandler(handlerDeps{})
	body := `{"status":"deleted"}`
	req := withURLParam(authedRequest(t, http.MethodPut, "/admin/users/user-9/status", body, "admin-1"), "id", "user-9")
	rr := serveAuthed(handler.AdminUpdateUserStatus, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestAdminUpdateUserStatusNotFound(t *testing.T) {
	handler := newTestHandler(handlerDeps{
		users: stubUserStore{
			updateStatusFn: func(context.Context, store.Execer, string, string) (int64, error) {
				return 0, nil
			},
		},
	})
	body := `{"status":"banned"}`
	req := withURLParam(authedRequest(t, http.MethodPut, "/admin/users/ghost/status", body, "admin-1"), "id", "ghost")
	rr := serveAuthed(handler.AdminUpdateUserStatus, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestApproveTransaction(t *testing.T) {
	now := time.Now().UTC()
	handler := newTestHandler(handlerDeps{
		txSvc: stubTransactionService{
			approveFn: func(_ context.Context, transactionID, adminID string, _ *string) (models.Transaction, error) {
				if transactionID != "tx-1" || adminID != "admin-1" {
					t.Fatalf("unexpected args: %s %s", transactionID, adminID)
				}
				return models.Transaction{
					ID: transactionID, UserID: "user-1", Type: models.TxTypeDeposit, Amount: 15000,
					Status: models.TxStatusCompleted, ProcessedBy: stringPtr(adminID), ProcessedAt: &now,
				}, nil
			},
		},
	})
	req := withURLParam(authedRequest(t, http.MethodPost, "/admin/transactions/tx-1/approve", "", "admin-1"), "id", "tx-1")
	rr := serveAuthed(handler.ApproveTransaction, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var payload map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload["status"] != models.TxStatusCompleted || payload["amount"] != "150.00" {
		t.Fatalf("unexpected payload: %#v", payload)
	}
}

func TestApproveTransactionErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{services.ErrTransactionNotFound, http.StatusNotFound},
		{services.ErrInvalidState, http.StatusConflict},
		{services.ErrInsufficientBalance, http.StatusBadRequest},
	}
	for _, tc := range cases {
		handler := newTestHandler(handlerDeps{
			txSvc: stubTransactionService{
				approveFn: func(context.Context, string, string, *string) (models.Transaction, error) {
					return models.Transaction{}, tc.err
				},
			},
		})
		req := withURLParam(authedRequest(t, http.MethodPost, "/admin/transactions/tx-1/approve", "", "admin-1"), "id", "tx-1")
		rr := serveAuthed(handler.ApproveTransaction, req)
		if rr.Code != tc.code {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.code, rr.Code)
		}
	}
}

func TestRejectTransactionMissingReason(t *testing.T) {
	handler := newTestHandler(handlerDeps{
		txSvc: stubTransactionService{
			rejectFn: func(context.Context, string, string, string) (models.Transaction, error) {
				return models.Transaction{}, services.ErrRejectReasonRequired
			},
		},
	})
	body := `{"admin_notes":""}`
	req := withURLParam(authedRequest(t, http.MethodPost, "/admin/transactions/tx-1/reject", body, "admin-1"), "id", "tx-1")
	rr := serveAuthed(handler.RejectTransaction, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestRejectTransaction(t *testing.T) {
	handler := newTestHandler(handlerDeps{
		txSvc: stubTransactionService{
			rejectFn: func(_ context.Context, transactionID, adminID, adminNotes string) (models.Transaction, error) {
				if adminNotes != "suspicious source" {
					t.Fatalf("unexpected notes: %q", adminNotes)
				}
				return models.Transaction{
					ID: transactionID, Type: models.TxTypeDeposit, Amount: 15000,
					Status: models.TxStatusRejected, ProcessedBy: stringPtr(adminID), AdminNotes: stringPtr(adminNotes),
				}, nil
			},
		},
	})
	body := `{"admin_notes":"suspicious source"}`
	req := withURLParam(authedRequest(t, http.MethodPost, "/admin/transactions/tx-1/reject", body, "admin-1"), "id", "tx-1")
	rr := serveAuthed(handler.RejectTransaction, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var payload map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload["status"] != models.TxStatusRejected || payload["admin_notes"] != "suspicious source" {
		t.Fatalf("unexpected payload: %#v", payload)
	}
}

func TestReconcile(t *testing.T) {
	handler := newTestHandler(handlerDeps{
		reconcileDB: stubReconcileDB{
			selectFn: func(_ context.Context, dest any, _ string, _ ...any) error {
				value := reflect.ValueOf(dest)
				if value.Kind() != reflect.Ptr || value.Elem().Kind() != reflect.Slice {
					return nil
				}
				slice := reflect.MakeSlice(value.Elem().Type(), 1, 1)
				row := slice.Index(0)
				row.FieldByName("AccountID").SetString("user-1")
				row.FieldByName("LedgerSum").SetInt(9500)
				row.FieldByName("WalletBalance").SetInt(10000)
				row.FieldByName("Difference").SetInt(500)
				value.Elem().Set(slice)
				return nil
			},
		},
	})
	req := authedRequest(t, http.MethodGet, "/admin/reconcile", "", "admin-1")
	rr := serveAuthed(handler.Reconcile, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var payload []map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(payload) != 1 || payload[0]["difference"] != "5.00" {
		t.Fatalf("unexpected payload: %#v", payload)
	}
}
