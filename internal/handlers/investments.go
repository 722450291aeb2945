package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"invest/internal/middleware"
	"invest/internal/money"
	"invest/internal/services"
)

func (h *Handler) ListPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := h.investSvc.ListPlans(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load plans")
		return
	}
	normalized := make([]map[string]any, 0, len(plans))
	for _, plan := range plans {
		normalized = append(normalized, map[string]any{
			"id":                plan.ID,
			"name":              plan.Name,
			"min_amount":        money.FormatMinor(plan.MinAmount),
			"max_amount":        money.FormatMinor(plan.MaxAmount),
			"daily_return_rate": plan.DailyReturnRate,
			"duration_days":     plan.DurationDays,
			"currency":          plan.Currency,
			"status":            plan.Status,
		})
	}
	respondJSON(w, http.StatusOK, normalized)
}

type investRequest struct {
	PlanID   string `json:"plan_id" validate:"required"`
	Amount   string `json:"amount" validate:"required"`
	Currency string `json:"currency" validate:"required,len=3"`
}

func (h *Handler) CreateInvestment(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req investRequest
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
	investment, err := h.investSvc.Invest(r.Context(), services.InvestRequest{
		UserID:   userID,
		PlanID:   req.PlanID,
		Amount:   amountMinor,
		Currency: req.Currency,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPlanNotFound):
			respondError(w, http.StatusNotFound, "plan_not_found")
		case errors.Is(err, services.ErrPlanInactive):
			respondError(w, http.StatusBadRequest, "plan_inactive")
		case errors.Is(err, services.ErrAmountOutOfRange):
			respondError(w, http.StatusBadRequest, "amount_out_of_range")
		case errors.Is(err, services.ErrCurrencyMismatch):
			respondError(w, http.StatusBadRequest, "currency_mismatch")
		case errors.Is(err, services.ErrInsufficientBalance):
			respondError(w, http.StatusBadRequest, "insufficient_balance")
		case errors.Is(err, services.ErrInvalidAmount):
			respondError(w, http.StatusBadRequest, "invalid_amount")
		default:
			h.log.WithError(err).Error("investment failed")
			respondError(w, http.StatusInternalServerError, "investment_failed")
		}
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{
		"id":           investment.ID,
		"plan_id":      investment.PlanID,
		"amount":       money.FormatMinor(investment.Amount),
		"currency":     investment.Currency,
		"start_date":   investment.StartDate.Format("2006-01-02"),
		"end_date":     investment.EndDate.Format("2006-01-02"),
		"daily_return": money.FormatMinor(investment.DailyReturn),
		"status":       investment.Status,
	})
}

func (h *Handler) ListInvestments(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	investments, err := h.investments.ListByUser(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load investments")
		return
	}
	respondJSON(w, http.StatusOK, investments)
}
