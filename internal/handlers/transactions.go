package handlers

import (
	"encoding/json"
	"net/http"

	"invest/internal/middleware"
	"invest/internal/models"
	"invest/internal/money"
	"invest/internal/services"
)

type depositRequest struct {
	Amount   string  `json:"amount" validate:"required"`
	Currency string  `json:"currency" validate:"required,len=3"`
	Notes    *string `json:"notes"`
}

func (h *Handler) CreateDeposit(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req depositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, validationMessage(err))
		return
	}
	amountMinor, err := parseAmountMinor(req.Amount)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_amount")
		return
	}
	transactionID, err := h.txSvc.Request(r.Context(), services.TransactionRequest{
		UserID:   userID,
		Type:     models.TxTypeDeposit,
		Amount:   amountMinor,
		Currency: req.Currency,
		Notes:    req.Notes,
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "deposit_request_failed")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{
		"transaction_id": transactionID,
		"status":         models.TxStatusPending,
	})
}

type withdrawalRequest struct {
	Amount        string  `json:"amount" validate:"required"`
	Currency      string  `json:"currency" validate:"required,len=3"`
	WalletAddress string  `json:"wallet_address" validate:"required"`
	Notes         *string `json:"notes"`
}

func (h *Handler) CreateWithdrawal(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req withdrawalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, validationMessage(err))
		return
	}
	amountMinor, err := parseAmountMinor(req.Amount)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_amount")
		return
	}
	// Funds are not reserved here; the debit happens at approval with
	// its own sufficiency check.
	balance, err := h.walletSvc.Balance(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "withdrawal_request_failed")
		return
	}
	if balance < amountMinor {
		respondError(w, http.StatusBadRequest, "insufficient_balance")
		return
	}
	transactionID, err := h.txSvc.Request(r.Context(), services.TransactionRequest{
		UserID:        userID,
		Type:          models.TxTypeWithdrawal,
		Amount:        amountMinor,
		Currency:      req.Currency,
		WalletAddress: &req.WalletAddress,
		Notes:         req.Notes,
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "withdrawal_request_failed")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{
		"transaction_id": transactionID,
		"status":         models.TxStatusPending,
	})
}

func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	query := r.URL.Query()
	page := parseInt(query.Get("page"), 1)
	limit := parseInt(query.Get("limit"), 20)
	offset := (page - 1) * limit
	transactions, err := h.transactions.ListByUser(r.Context(), userID, query.Get("type"), query.Get("status"), limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load transactions")
		return
	}
	normalized := make([]map[string]any, 0, len(transactions))
	for _, row := range transactions {
		normalized = append(normalized, map[string]any{
			"id":             row.ID,
			"type":           row.Type,
			"amount":         money.FormatMinor(row.Amount),
			"currency":       row.Currency,
			"status":         row.Status,
			"wallet_address": derefString(row.WalletAddress),
			"fee":            money.FormatMinor(row.Fee),
			"notes":          derefString(row.Notes),
			"admin_notes":    derefString(row.AdminNotes),
			"processed_at":   row.ProcessedAt,
			"created_at":     row.CreatedAt,
		})
	}
	respondJSON(w, http.StatusOK, normalized)
}
