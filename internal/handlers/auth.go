package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"invest/internal/auth"
	"invest/internal/middleware"
	"invest/internal/models"
	"invest/internal/money"
	"invest/internal/store"
	"invest/internal/validator"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type registerRequest struct {
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	Email        string  `json:"email"`
	Password     string  `json:"password"`
	Phone        *string `json:"phone"`
	Country      *string `json:"country"`
	ReferralCode string  `json:"referral_code"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := validator.ValidateName(req.FirstName); err != nil {
		respondError(w, http.StatusBadRequest, "invalid first name")
		return
	}
	if err := validator.ValidateName(req.LastName); err != nil {
		respondError(w, http.StatusBadRequest, "invalid last name")
		return
	}
	if err := validator.ValidateEmail(req.Email); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validator.ValidatePassword(req.Password); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to secure password")
		return
	}
	var referredBy *string
	if req.ReferralCode != "" {
		referrer, err := h.users.GetByReferralCode(r.Context(), req.ReferralCode)
		if err == nil {
			referredBy = &referrer.ID
		}
	}
	role := models.RoleUser
	if h.cfg.AdminEmail != "" && strings.EqualFold(req.Email, h.cfg.AdminEmail) {
		role = models.RoleSuperAdmin
	}
	userID := uuid.NewString()
	referralCode := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	err = h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		return h.users.Create(r.Context(), tx, store.UserInput{
			ID:           userID,
			Email:        strings.ToLower(req.Email),
			PasswordHash: passwordHash,
			FirstName:    req.FirstName,
			LastName:     req.LastName,
			Phone:        req.Phone,
			Country:      req.Country,
			Role:         role,
			ReferralCode: referralCode,
			ReferredBy:   referredBy,
		})
	})
	if err != nil {
		var pgErr *pq.Error
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			respondError(w, http.StatusConflict, "email already registered")
			return
		}
		h.log.WithError(err).Error("registration failed")
		respondError(w, http.StatusInternalServerError, "registration failed")
		return
	}
	token, err := auth.GenerateToken(h.cfg.JWTSecret, userID, role, h.cfg.TokenTTL)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to generate token")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{
		"token": token,
		"user": map[string]any{
			"id":            userID,
			"email":         strings.ToLower(req.Email),
			"first_name":    req.FirstName,
			"last_name":     req.LastName,
			"referral_code": referralCode,
		},
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	user, err := h.users.GetByEmail(r.Context(), strings.ToLower(req.Email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		respondError(w, http.StatusInternalServerError, "login failed")
		return
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if user.Status == "banned" || user.Status == "suspended" {
		respondError(w, http.StatusForbidden, "account "+user.Status)
		return
	}
	if err := h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		return h.users.TouchLastLogin(r.Context(), tx, user.ID)
	}); err != nil {
		respondError(w, http.StatusInternalServerError, "login failed")
		return
	}
	token, err := auth.GenerateToken(h.cfg.JWTSecret, user.ID, user.Role, h.cfg.TokenTTL)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to generate token")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	user, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load user")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"id":             user.ID,
		"email":          user.Email,
		"first_name":     user.FirstName,
		"last_name":      user.LastName,
		"role":           user.Role,
		"status":         user.Status,
		"referral_code":  user.ReferralCode,
		"wallet_balance": money.FormatMinor(user.WalletBalance),
		"created_at":     user.CreatedAt,
	})
}
