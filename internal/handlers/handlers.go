package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"invest/internal/cache"
	"invest/internal/config"
	"invest/internal/db"
	"invest/internal/store"
	"invest/internal/websocket"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	cfg          config.Config
	log          *logrus.Logger
	reconcileDB  store.Selecter
	txRunner     db.TxRunner
	users        UserStore
	ledger       LedgerStore
	transactions TransactionStore
	investments  InvestmentStore
	walletSvc    WalletService
	txSvc        TransactionService
	investSvc    InvestmentService
	statsCache   *cache.Cache
	hub          *websocket.Hub
	validate     *validator.Validate
}

func New(cfg config.Config, log *logrus.Logger, reconcileDB store.Selecter, txRunner db.TxRunner,
	users UserStore, ledger LedgerStore, transactions TransactionStore, investments InvestmentStore,
	walletSvc WalletService, txSvc TransactionService, investSvc InvestmentService,
	statsCache *cache.Cache, hub *websocket.Hub) *Handler {
	return &Handler{
		cfg:          cfg,
		log:          log,
		reconcileDB:  reconcileDB,
		txRunner:     txRunner,
		users:        users,
		ledger:       ledger,
		transactions: transactions,
		investments:  investments,
		walletSvc:    walletSvc,
		txSvc:        txSvc,
		investSvc:    investSvc,
		statsCache:   statsCache,
		hub:          hub,
		validate:     validator.New(),
	}
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func parseInt(raw string, fallback int) int {
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

func derefString(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
