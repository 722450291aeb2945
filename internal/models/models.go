package models

import "time"

type User struct {
	ID            string     `db:"id" json:"id"`
	Email         string     `db:"email" json:"email"`
	PasswordHash  string     `db:"password_hash" json:"-"`
	FirstName     string     `db:"first_name" json:"first_name"`
	LastName      string     `db:"last_name" json:"last_name"`
	Phone         *string    `db:"phone" json:"phone,omitempty"`
	Country       *string    `db:"country" json:"country,omitempty"`
	Role          string     `db:"role" json:"role"`
	Status        string     `db:"status" json:"status"`
	ReferralCode  string     `db:"referral_code" json:"referral_code"`
	ReferredBy    *string    `db:"referred_by" json:"referred_by,omitempty"`
	WalletBalance int64      `db:"wallet_balance" json:"wallet_balance"`
	LastLogin     *time.Time `db:"last_login" json:"last_login,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
}

// LedgerEntry rows are append-only: inserted once inside the same
// transaction that moves wallet_balance, never updated or deleted.
type LedgerEntry struct {
	ID           string    `db:"id" json:"id"`
	AccountID    string    `db:"account_id" json:"account_id"`
	Amount       int64     `db:"amount" json:"amount"`
	Kind         string    `db:"kind" json:"kind"`
	Description  string    `db:"description" json:"description"`
	ActorAdminID *string   `db:"actor_admin_id" json:"actor_admin_id,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

type Transaction struct {
	ID            string     `db:"id" json:"id"`
	UserID        string     `db:"user_id" json:"user_id"`
	Type          string     `db:"type" json:"type"`
	Amount        int64      `db:"amount" json:"amount"`
	Currency      string     `db:"currency" json:"currency"`
	Status        string     `db:"status" json:"status"`
	WalletAddress *string    `db:"wallet_address" json:"wallet_address,omitempty"`
	Fee           int64      `db:"fee" json:"fee"`
	Notes         *string    `db:"notes" json:"notes,omitempty"`
	AdminNotes    *string    `db:"admin_notes" json:"admin_notes,omitempty"`
	ProcessedBy   *string    `db:"processed_by" json:"processed_by,omitempty"`
	ProcessedAt   *time.Time `db:"processed_at" json:"processed_at,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}

type InvestmentPlan struct {
	ID              string    `db:"id" json:"id"`
	Name            string    `db:"name" json:"name"`
	MinAmount       int64     `db:"min_amount" json:"min_amount"`
	MaxAmount       int64     `db:"max_amount" json:"max_amount"`
	DailyReturnRate string    `db:"daily_return_rate" json:"daily_return_rate"`
	DurationDays    int       `db:"duration_days" json:"duration_days"`
	Currency        string    `db:"currency" json:"currency"`
	Status          string    `db:"status" json:"status"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

type Investment struct {
	ID          string    `db:"id" json:"id"`
	UserID      string    `db:"user_id" json:"user_id"`
	PlanID      string    `db:"plan_id" json:"plan_id"`
	Amount      int64     `db:"amount" json:"amount"`
	Currency    string    `db:"currency" json:"currency"`
	StartDate   time.Time `db:"start_date" json:"start_date"`
	EndDate     time.Time `db:"end_date" json:"end_date"`
	DailyReturn int64     `db:"daily_return" json:"daily_return"`
	Status      string    `db:"status" json:"status"`
	TotalEarned int64     `db:"total_earned" json:"total_earned"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Transaction statuses. pending is the only non-terminal state.
const (
	TxStatusPending   = "pending"
	TxStatusCompleted = "completed"
	TxStatusRejected  = "rejected"
	TxStatusFailed    = "failed"
	TxStatusCancelled = "cancelled"
)

const (
	TxTypeDeposit    = "deposit"
	TxTypeWithdrawal = "withdrawal"
)

const (
	EntryKindCredit     = "credit"
	EntryKindDebit      = "debit"
	EntryKindInvestment = "investment"
)

const (
	RoleUser       = "user"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
)

func IsTerminalStatus(status string) bool {
	switch status {
	case TxStatusCompleted, TxStatusRejected, TxStatusFailed, TxStatusCancelled:
		return true
	}
	return false
}
