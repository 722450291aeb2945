package handlers

import (
	"net/http"

	"invest/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func (h *Handler) Routes() http.Handler {
	router := chi.NewRouter()
	router.Use(chimiddleware.Logger)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{h.cfg.AllowedOrigins},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	authed := middleware.Auth(h.cfg.JWTSecret)

	router.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.With(authed).Get("/me", h.Me)
	})

	router.With(authed).Get("/wallet/balance", h.GetBalance)
	router.With(authed).Get("/wallet/ledger", h.ListLedger)
	router.With(authed).Get("/wallet/self-check", h.SelfCheck)

	router.With(authed).Post("/transactions/deposit", h.CreateDeposit)
	router.With(authed).Post("/transactions/withdraw", h.CreateWithdrawal)
	router.With(authed).Get("/transactions", h.ListTransactions)

	router.Get("/plans", h.ListPlans)
	router.With(authed).Post("/investments", h.CreateInvestment)
	router.With(authed).Get("/investments", h.ListInvestments)

	router.Get("/ws/balances", h.WSBalances)

	router.Route("/admin", func(r chi.Router) {
		r.Use(authed)
		r.Use(middleware.RequireAdmin(h.users, false))
		r.Get("/stats", h.AdminStats)
		r.Get("/users", h.AdminListUsers)
		r.Put("/users/{id}/status", h.AdminUpdateUserStatus)
		r.Get("/transactions", h.AdminListTransactions)
		r.Post("/transactions/{id}/approve", h.ApproveTransaction)
		r.Post("/transactions/{id}/reject", h.RejectTransaction)
		r.Get("/reconcile", h.Reconcile)
	})

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return router
}
