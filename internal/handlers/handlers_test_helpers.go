package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"invest/internal/auth"
	"invest/internal/cache"
	"invest/internal/config"
	"invest/internal/middleware"
	"invest/internal/models"
	"invest/internal/services"
	"invest/internal/store"
	"invest/internal/websocket"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type fakeTxRunner struct {
	withTxFn func(ctx context.Context, fn func(*sqlx.Tx) error) error
}

func (f fakeTxRunner) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	if f.withTxFn != nil {
		return f.withTxFn(ctx, fn)
	}
	return fn(nil)
}

type stubReconcileDB struct {
	selectFn func(ctx context.Context, dest any, query string, args ...any) error
}

func (s stubReconcileDB) SelectContext(ctx context.Context, dest any, query string, args ...any) error {
	if s.selectFn == nil {
		return nil
	}
	return s.selectFn(ctx, dest, query, args...)
}

type stubUserStore struct {
	createFn            func(ctx context.Context, tx store.Execer, input store.UserInput) error
	getByEmailFn        func(ctx context.Context, email string) (models.User, error)
	getByIDFn           func(ctx context.Context, userID string) (models.User, error)
	getByReferralCodeFn func(ctx context.Context, code string) (models.User, error)
	getRoleFn           func(ctx context.Context, userID string) (string, error)
	updateStatusFn      func(ctx context.Context, tx store.Execer, userID, status string) (int64, error)
	listAllFn           func(ctx context.Context, status, search string, limit, offset int) ([]map[string]any, error)
	statsFn             func(ctx context.Context) (store.UserStats, error)
}

func (s stubUserStore) Create(ctx context.Context, tx store.Execer, input store.UserInput) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, input)
}

func (s stubUserStore) GetByEmail(ctx context.Context, email string) (models.User, error) {
	if s.getByEmailFn == nil {
		return models.User{}, nil
	}
	return s.getByEmailFn(ctx, email)
}

func (s stubUserStore) GetByID(ctx context.Context, userID string) (models.User, error) {
	if s.getByIDFn == nil {
		return models.User{}, nil
	}
	return s.getByIDFn(ctx, userID)
}

func (s stubUserStore) GetByReferralCode(ctx context.Context, code string) (models.User, error) {
	if s.getByReferralCodeFn == nil {
		return models.User{}, nil
	}
	return s.getByReferralCodeFn(ctx, code)
}

func (s stubUserStore) GetRole(ctx context.Context, userID string) (string, error) {
	if s.getRoleFn == nil {
		return models.RoleUser, nil
	}
	return s.getRoleFn(ctx, userID)
}

func (s stubUserStore) TouchLastLogin(ctx context.Context, tx store.Execer, userID string) error {
	return nil
}

func (s stubUserStore) UpdateStatus(ctx context.Context, tx store.Execer, userID, status string) (int64, error) {
	if s.updateStatusFn == nil {
		return 1, nil
	}
	return s.updateStatusFn(ctx, tx, userID, status)
}

func (s stubUserStore) ListAll(ctx context.Context, status, search string, limit, offset int) ([]map[string]any, error) {
	if s.listAllFn == nil {
		return nil, nil
	}
	return s.listAllFn(ctx, status, search, limit, offset)
}

func (s stubUserStore) Stats(ctx context.Context) (store.UserStats, error) {
	if s.statsFn == nil {
		return store.UserStats{}, nil
	}
	return s.statsFn(ctx)
}

type stubLedgerStore struct {
	sumFn  func(ctx context.Context, accountID string) (int64, error)
	listFn func(ctx context.Context, accountID string, limit, offset int) ([]models.LedgerEntry, error)
}

func (s stubLedgerStore) SumByAccount(ctx context.Context, accountID string) (int64, error) {
	if s.sumFn == nil {
		return 0, nil
	}
	return s.sumFn(ctx, accountID)
}

func (s stubLedgerStore) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]models.LedgerEntry, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx, accountID, limit, offset)
}

type stubTransactionStore struct {
	getByIDFn      func(ctx context.Context, transactionID string) (models.Transaction, error)
	listByUserFn   func(ctx context.Context, userID, txType, status string, limit, offset int) ([]models.Transaction, error)
	listAllFn      func(ctx context.Context, status string, limit, offset int) ([]map[string]any, error)
	pendingTotalFn func(ctx context.Context) (int64, error)
}

func (s stubTransactionStore) GetByID(ctx context.Context, transactionID string) (models.Transaction, error) {
	if s.getByIDFn == nil {
		return models.Transaction{}, nil
	}
	return s.getByIDFn(ctx, transactionID)
}

func (s stubTransactionStore) ListByUser(ctx context.Context, userID, txType, status string, limit, offset int) ([]models.Transaction, error) {
	if s.listByUserFn == nil {
		return nil, nil
	}
	return s.listByUserFn(ctx, userID, txType, status, limit, offset)
}

func (s stubTransactionStore) ListAll(ctx context.Context, status string, limit, offset int) ([]map[string]any, error) {
	if s.listAllFn == nil {
		return nil, nil
	}
	return s.listAllFn(ctx, status, limit, offset)
}

func (s stubTransactionStore) PendingWithdrawalTotal(ctx context.Context) (int64, error) {
	if s.pendingTotalFn == nil {
		return 0, nil
	}
	return s.pendingTotalFn(ctx)
}

type stubInvestmentStore struct {
	listByUserFn func(ctx context.Context, userID string) ([]map[string]any, error)
	statsFn      func(ctx context.Context) (store.InvestmentStats, error)
}

func (s stubInvestmentStore) ListByUser(ctx context.Context, userID string) ([]map[string]any, error) {
	if s.listByUserFn == nil {
		return nil, nil
	}
	return s.listByUserFn(ctx, userID)
}

func (s stubInvestmentStore) Stats(ctx context.Context) (store.InvestmentStats, error) {
	if s.statsFn == nil {
		return store.InvestmentStats{}, nil
	}
	return s.statsFn(ctx)
}

type stubWalletService struct {
	balanceFn func(ctx context.Context, accountID string) (int64, error)
	adjustFn  func(ctx context.Context, accountID string, amount int64, kind, description string, actorAdminID *string) (int64, error)
}

func (s stubWalletService) Balance(ctx context.Context, accountID string) (int64, error) {
	if s.balanceFn == nil {
		return 0, nil
	}
	return s.balanceFn(ctx, accountID)
}

func (s stubWalletService) Adjust(ctx context.Context, accountID string, amount int64, kind, description string, actorAdminID *string) (int64, error) {
	if s.adjustFn == nil {
		return 0, nil
	}
	return s.adjustFn(ctx, accountID, amount, kind, description, actorAdminID)
}

type stubTransactionService struct {
	requestFn func(ctx context.Context, req services.TransactionRequest) (string, error)
	approveFn func(ctx context.Context, transactionID, adminID string, adminNotes *string) (models.Transaction, error)
	rejectFn  func(ctx context.Context, transactionID, adminID, adminNotes string) (models.Transaction, error)
}

func (s stubTransactionService) Request(ctx context.Context, req services.TransactionRequest) (string, error) {
	if s.requestFn == nil {
		return "tx-1", nil
	}
	return s.requestFn(ctx, req)
}

func (s stubTransactionService) Approve(ctx context.Context, transactionID, adminID string, adminNotes *string) (models.Transaction, error) {
	if s.approveFn == nil {
		return models.Transaction{}, nil
	}
	return s.approveFn(ctx, transactionID, adminID, adminNotes)
}

func (s stubTransactionService) Reject(ctx context.Context, transactionID, adminID, adminNotes string) (models.Transaction, error) {
	if s.rejectFn == nil {
		return models.Transaction{}, nil
	}
	return s.rejectFn(ctx, transactionID, adminID, adminNotes)
}

type stubInvestmentService struct {
	investFn    func(ctx context.Context, req services.InvestRequest) (models.Investment, error)
	listPlansFn func(ctx context.Context) ([]models.InvestmentPlan, error)
}

func (s stubInvestmentService) Invest(ctx context.Context, req services.InvestRequest) (models.Investment, error) {
	if s.investFn == nil {
		return models.Investment{}, nil
	}
	return s.investFn(ctx, req)
}

func (s stubInvestmentService) ListPlans(ctx context.Context) ([]models.InvestmentPlan, error) {
	if s.listPlansFn == nil {
		return nil, nil
	}
	return s.listPlansFn(ctx)
}

type handlerDeps struct {
	reconcileDB  stubReconcileDB
	txRunner     fakeTxRunner
	users        stubUserStore
	ledger       stubLedgerStore
	transactions stubTransactionStore
	investments  stubInvestmentStore
	walletSvc    stubWalletService
	txSvc        stubTransactionService
	investSvc    stubInvestmentService
}

func newTestHandler(deps handlerDeps) *Handler {
	cfg := config.Config{
		AppEnv:         "test",
		JWTSecret:      "secret",
		TokenTTL:       time.Minute,
		AllowedOrigins: "*",
	}
	log := logrus.New()
	log.SetOutput(io.Discard)
	return New(cfg, log, deps.reconcileDB, deps.txRunner,
		deps.users, deps.ledger, deps.transactions, deps.investments,
		deps.walletSvc, deps.txSvc, deps.investSvc,
		cache.New(nil, 0), websocket.NewHub())
}

func authedRequest(t *testing.T, method, target, body, userID string) *http.Request {
	t.Helper()
	token, err := auth.GenerateToken("secret", userID, models.RoleUser, time.Minute)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func serveAuthed(handler http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	middleware.Auth("secret")(handler).ServeHTTP(rr, req)
	return rr
}

func stringPtr(value string) *string {
	return &value
}
