package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"invest/internal/auth"
	"invest/internal/models"
	"invest/internal/store"
)

func TestRegisterSuccess(t *testing.T) {
	var created store.UserInput
	handler := newTestHandler(handlerDeps{
		users: stubUserStore{
			createFn: func(_ context.Context, _ store.Execer, input store.UserInput) error {
				created = input
				return nil
			},
		},
	})
	body := `{"first_name":"Jo","last_name":"Doe","email":"Jo@Example.com","password":"longenough"}`
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body))
	http.HandlerFunc(handler.Register).ServeHTTP(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	if created.Email != "jo@example.com" {
		t.Fatalf("expected lowercased email, got %q", created.Email)
	}
	if created.Role != models.RoleUser {
		t.Fatalf("expected user role, got %q", created.Role)
	}
	if len(created.ReferralCode) != 8 {
		t.Fatalf("unexpected referral code: %q", created.ReferralCode)
	}
	var payload map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload["token"] == "" {
		t.Fatalf("expected a token in the response")
	}
}

func TestRegisterShortPassword(t *testing.T) {
	handler := newTestHandler(handlerDeps{})
	body := `{"first_name":"Jo","last_name":"Doe","email":"jo@example.com","password":"short"}`
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body))
	http.HandlerFunc(handler.Register).ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestRegisterResolvesReferrer(t *testing.T) {
	var created store.UserInput
	handler := newTestHandler(handlerDeps{
		users: stubUserStore{
			getByReferralCodeFn: func(_ context.Context, code string) (models.User, error) {
				if code != "FRIEND01" {
					t.Fatalf("unexpected code: %s", code)
				}
				return models.User{ID: "referrer-1"}, nil
			},
			createFn: func(_ context.Context, _ store.Execer, input store.UserInput) error {
				created = input
				return nil
			},
		},
	})
	body := `{"first_name":"Jo","last_name":"Doe","email":"jo@example.com","password":"longenough","referral_code":"FRIEND01"}`
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body))
	http.HandlerFunc(handler.Register).ServeHTTP(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rr.Code)
	}
	if created.ReferredBy == nil || *created.ReferredBy != "referrer-1" {
		t.Fatalf("expected referred_by referrer-1: %#v", created.ReferredBy)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	handler := newTestHandler(handlerDeps{
		users: stubUserStore{
			getByEmailFn: func(context.Context, string) (models.User, error) {
				return models.User{}, sql.ErrNoRows
			},
		},
	})
	body := `{"email":"jo@example.com","password":"whatever"}`
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	http.HandlerFunc(handler.Login).ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestLoginBannedAccount(t *testing.T) {
	hash, err := auth.HashPassword("longenough")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	handler := newTestHandler(handlerDeps{
		users: stubUserStore{
			getByEmailFn: func(context.Context, string) (models.User, error) {
				return models.User{ID: "user-1", PasswordHash: hash, Status: "banned", Role: models.RoleUser}, nil
			},
		},
	})
	body := `{"email":"jo@example.com","password":"longenough"}`
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	http.HandlerFunc(handler.Login).ServeHTTP(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rr.Code)
	}
}

func TestLoginSuccess(t *testing.T) {
	hash, err := auth.HashPassword("longenough")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	handler := newTestHandler(handlerDeps{
		users: stubUserStore{
			getByEmailFn: func(context.Context, string) (models.User, error) {
				return models.User{ID: "user-1", PasswordHash: hash, Status: "active", Role: models.RoleUser}, nil
			},
		},
	})
	body := `{"email":"jo@example.com","password":"longenough"}`
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	http.HandlerFunc(handler.Login).ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var payload map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	claims, err := auth.ParseToken("secret", payload["token"])
	if err != nil {
		t.Fatalf("expected a valid token: %v", err)
	}
	if claims.UserID != "user-1" || claims.Role != models.RoleUser {
		t.Fatalf("unexpected claims: %#v", claims)
	}
}

func TestMeFormatsBalance(t *testing.T) {
	handler := newTestHandler(handlerDeps{
		users: stubUserStore{
			getByIDFn: func(_ context.Context, userID string) (models.User, error) {
				return models.User{ID: userID, Email: "jo@example.com", WalletBalance: 12550, Status: "active"}, nil
			},
		},
	})
	req := authedRequest(t, http.MethodGet, "/auth/me", "", "user-1")
	rr := serveAuthed(handler.Me, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var payload map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload["wallet_balance"] != "125.50" {
		t.Fatalf("unexpected balance: %v", payload["wallet_balance"])
	}
}
