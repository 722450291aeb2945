package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"invest/internal/middleware"
	"invest/internal/money"
	"invest/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
)

const statsCacheKey = "admin:stats"

type adminStats struct {
	TotalUsers         int64  `json:"total_users"`
	NewUsersToday      int64  `json:"new_users_today"`
	ActiveUsers        int64  `json:"active_users"`
	ActiveInvestments  int64  `json:"active_investments"`
	TotalInvested      string `json:"total_invested"`
	TotalPayouts       string `json:"total_payouts"`
	PendingWithdrawals string `json:"pending_withdrawals"`
}

func (h *Handler) AdminStats(w http.ResponseWriter, r *http.Request) {
	var cached adminStats
	if hit, err := h.statsCache.Get(r.Context(), statsCacheKey, &cached); err == nil && hit {
		respondJSON(w, http.StatusOK, cached)
		return
	}
	userStats, err := h.users.Stats(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load stats")
		return
	}
	investmentStats, err := h.investments.Stats(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load stats")
		return
	}
	pendingWithdrawals, err := h.transactions.PendingWithdrawalTotal(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load stats")
		return
	}
	stats := adminStats{
		TotalUsers:         userStats.TotalUsers,
		NewUsersToday:      userStats.NewUsersToday,
		ActiveUsers:        userStats.ActiveUsers,
		ActiveInvestments:  investmentStats.ActiveInvestments,
		TotalInvested:      money.FormatMinor(investmentStats.TotalInvested),
		TotalPayouts:       money.FormatMinor(investmentStats.TotalPayouts),
		PendingWithdrawals: money.FormatMinor(pendingWithdrawals),
	}
	if err := h.statsCache.Set(r.Context(), statsCacheKey, stats); err != nil {
		h.log.WithError(err).Warn("stats cache write failed")
	}
	respondJSON(w, http.StatusOK, stats)
}

func (h *Handler) AdminListUsers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limit := parseInt(query.Get("limit"), 50)
	page := parseInt(query.Get("page"), 1)
	offset := (page - 1) * limit
	rows, err := h.users.ListAll(r.Context(), query.Get("status"), query.Get("search"), limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load users")
		return
	}
	for _, row := range rows {
		row["wallet_balance"] = money.FormatMinor(money.ValueToInt64(row["wallet_balance"]))
		row["total_invested"] = money.FormatMinor(money.ValueToInt64(row["total_invested"]))
	}
	respondJSON(w, http.StatusOK, rows)
}

type userStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active suspended banned"`
}

func (h *Handler) AdminUpdateUserStatus(w http.ResponseWriter, r *http.Request) {
	targetID := chi.URLParam(r, "id")
	var req userStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, validationMessage(err))
		return
	}
	var updated int64
	err := h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		count, err := h.users.UpdateStatus(r.Context(), tx, targetID, req.Status)
		if err != nil {
			return err
		}
		updated = count
		return nil
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to update user")
		return
	}
	if updated == 0 {
		respondError(w, http.StatusNotFound, "user not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"id": targetID, "status": req.Status})
}

func (h *Handler) AdminListTransactions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limit := parseInt(query.Get("limit"), 50)
	page := parseInt(query.Get("page"), 1)
	offset := (page - 1) * limit
	rows, err := h.transactions.ListAll(r.Context(), query.Get("status"), limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load transactions")
		return
	}
	for _, row := range rows {
		row["amount"] = money.FormatMinor(money.ValueToInt64(row["amount"]))
		row["fee"] = money.FormatMinor(money.ValueToInt64(row["fee"]))
	}
	respondJSON(w, http.StatusOK, rows)
}

type approveRequest struct {
	AdminNotes *string `json:"admin_notes"`
}

func (h *Handler) ApproveTransaction(w http.ResponseWriter, r *http.Request) {
	adminID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	transactionID := chi.URLParam(r, "id")
	var req approveRequest
	if r.Body != nil && r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid payload")
			return
		}
	}
	transaction, err := h.txSvc.Approve(r.Context(), transactionID, adminID, req.AdminNotes)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTransactionNotFound):
			respondError(w, http.StatusNotFound, "transaction_not_found")
		case errors.Is(err, services.ErrInvalidState):
			respondError(w, http.StatusConflict, "transaction_not_pending")
		case errors.Is(err, services.ErrInsufficientBalance):
			respondError(w, http.StatusBadRequest, "insufficient_balance")
		default:
			h.log.WithError(err).Error("approve failed")
			respondError(w, http.StatusInternalServerError, "approve_failed")
		}
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"id":           transaction.ID,
		"type":         transaction.Type,
		"amount":       money.FormatMinor(transaction.Amount),
		"status":       transaction.Status,
		"processed_by": derefString(transaction.ProcessedBy),
		"processed_at": transaction.ProcessedAt,
	})
}

type rejectRequest struct {
	AdminNotes string `json:"admin_notes"`
}

func (h *Handler) RejectTransaction(w http.ResponseWriter, r *http.Request) {
	adminID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	transactionID := chi.URLParam(r, "id")
	var req rejectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	transaction, err := h.txSvc.Reject(r.Context(), transactionID, adminID, req.AdminNotes)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRejectReasonRequired):
			respondError(w, http.StatusBadRequest, "reason required")
		case errors.Is(err, services.ErrTransactionNotFound):
			respondError(w, http.StatusNotFound, "transaction_not_found")
		case errors.Is(err, services.ErrInvalidState):
			respondError(w, http.StatusConflict, "transaction_not_pending")
		default:
			h.log.WithError(err).Error("reject failed")
			respondError(w, http.StatusInternalServerError, "reject_failed")
		}
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"id":           transaction.ID,
		"type":         transaction.Type,
		"amount":       money.FormatMinor(transaction.Amount),
		"status":       transaction.Status,
		"admin_notes":  derefString(transaction.AdminNotes),
		"processed_by": derefString(transaction.ProcessedBy),
		"processed_at": transaction.ProcessedAt,
	})
}

// Reconcile reports wallet_balance drift against the ledger across all
// accounts. A non-zero difference means an invariant was violated.
func (h *Handler) Reconcile(w http.ResponseWriter, r *http.Request) {
	type reconRow struct {
		AccountID     string `db:"account_id"`
		LedgerSum     int64  `db:"ledger_sum"`
		WalletBalance int64  `db:"wallet_balance"`
		Difference    int64  `db:"difference"`
	}
	var rows []reconRow
	query := `
		SELECT u.id AS account_id,
		       COALESCE(SUM(l.amount), 0) AS ledger_sum,
		       u.wallet_balance,
		       (u.wallet_balance - COALESCE(SUM(l.amount), 0)) AS difference
		FROM users u
		LEFT JOIN ledger_entries l ON l.account_id = u.id
		GROUP BY u.id, u.wallet_balance
		ORDER BY u.id
	`
	if err := h.reconcileDB.SelectContext(r.Context(), &rows, query); err != nil {
		respondError(w, http.StatusInternalServerError, "unable to reconcile balances")
		return
	}
	normalized := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		normalized = append(normalized, map[string]any{
			"account_id":     row.AccountID,
			"ledger_sum":     money.FormatMinor(row.LedgerSum),
			"wallet_balance": money.FormatMinor(row.WalletBalance),
			"difference":     money.FormatMinor(row.Difference),
		})
	}
	respondJSON(w, http.StatusOK, normalized)
}
