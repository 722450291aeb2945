package handlers

import (
	"errors"
	"net/http"
	"strings"

	"invest/internal/auth"
	"invest/internal/middleware"
	"invest/internal/money"
	"invest/internal/services"
	"invest/internal/websocket"
)

func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	balance, err := h.walletSvc.Balance(r.Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrWalletNotFound) {
			respondError(w, http.StatusNotFound, "wallet not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to load balance")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"account_id": userID,
		"balance":    money.FormatMinor(balance),
	})
}

func (h *Handler) ListLedger(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	query := r.URL.Query()
	page := parseInt(query.Get("page"), 1)
	limit := parseInt(query.Get("limit"), 20)
	offset := (page - 1) * limit
	entries, err := h.ledger.ListByAccount(r.Context(), userID, limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load ledger")
		return
	}
	normalized := make([]map[string]any, 0, len(entries))
	for _, entry := range entries {
		normalized = append(normalized, map[string]any{
			"id":          entry.ID,
			"amount":      money.FormatMinor(entry.Amount),
			"kind":        entry.Kind,
			"description": entry.Description,
			"created_at":  entry.CreatedAt,
		})
	}
	respondJSON(w, http.StatusOK, normalized)
}

// SelfCheck compares the cached wallet_balance with the ledger sum for
// the calling user; the ledger is the source of truth.
func (h *Handler) SelfCheck(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	balance, err := h.walletSvc.Balance(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to self_check")
		return
	}
	ledgerSum, err := h.ledger.SumByAccount(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to self_check")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"account_id":     userID,
		"wallet_balance": money.FormatMinor(balance),
		"ledger_sum":     money.FormatMinor(ledgerSum),
		"difference":     money.FormatMinor(balance - ledgerSum),
	})
}

func (h *Handler) WSBalances(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		authHeader := r.Header.Get("Authorization")
		if strings.HasPrefix(authHeader, "Bearer ") {
			token = strings.TrimPrefix(authHeader, "Bearer ")
		}
	}
	if token == "" {
		respondError(w, http.StatusUnauthorized, "missing token")
		return
	}
	claims, err := auth.ParseToken(h.cfg.JWTSecret, token)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "invalid token")
		return
	}
	websocket.ServeWS(w, r, h.hub, claims.UserID)
}
