package store

import (
	"context"
	"fmt"

	"invest/internal/models"
)

type UserStore struct {
	db DB
}

func NewUserStore(db DB) *UserStore {
	return &UserStore{db: db}
}

type UserInput struct {
	ID           string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Phone        *string
	Country      *string
	Role         string
	ReferralCode string
	ReferredBy   *string
}

// Create inserts a user with wallet_balance 0; funds arrive only
// through the ledger.
func (s *UserStore) Create(ctx context.Context, tx Execer, input UserInput) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, first_name, last_name, phone, country, role, referral_code, referred_by, wallet_balance)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 0)
	`, input.ID, input.Email, input.PasswordHash, input.FirstName, input.LastName,
		input.Phone, input.Country, input.Role, input.ReferralCode, input.ReferredBy)
	return err
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var row models.User
	err := s.db.GetContext(ctx, &row, `
		SELECT id, email, password_hash, first_name, last_name, phone, country, role, status,
		       referral_code, referred_by, wallet_balance, last_login, created_at
		FROM users
		WHERE email = $1
	`, email)
	if err != nil {
		return models.User{}, err
	}
	return row, nil
}

func (s *UserStore) GetByID(ctx context.Context, userID string) (models.User, error) {
	var row models.User
	err := s.db.GetContext(ctx, &row, `
		SELECT id, email, password_hash, first_name, last_name, phone, country, role, status,
		       referral_code, referred_by, wallet_balance, last_login, created_at
		FROM users
		WHERE id = $1
	`, userID)
	if err != nil {
		return models.User{}, err
	}
	return row, nil
}

func (s *UserStore) GetByReferralCode(ctx context.Context, code string) (models.User, error) {
	var row models.User
	err := s.db.GetContext(ctx, &row, `
		SELECT id, email, password_hash, first_name, last_name, phone, country, role, status,
		       referral_code, referred_by, wallet_balance, last_login, created_at
		FROM users
		WHERE referral_code = $1
	`, code)
	if err != nil {
		return models.User{}, err
	}
	return row, nil
}

func (s *UserStore) GetRole(ctx context.Context, userID string) (string, error) {
	var role string
	err := s.db.GetContext(ctx, &role, `SELECT role FROM users WHERE id = $1`, userID)
	return role, err
}

func (s *UserStore) TouchLastLogin(ctx context.Context, tx Execer, userID string) error {
	_, err := tx.ExecContext(ctx, `UPDATE users SET last_login = NOW() WHERE id = $1`, userID)
	return err
}

// UpdateStatus never touches super_admin accounts.
func (s *UserStore) UpdateStatus(ctx context.Context, tx Execer, userID, status string) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE users
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND role != 'super_admin'
	`, status, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type userListRow struct {
	ID            string  `db:"id"`
	Email         string  `db:"email"`
	FirstName     string  `db:"first_name"`
	LastName      string  `db:"last_name"`
	Status        string  `db:"status"`
	Role          string  `db:"role"`
	WalletBalance int64   `db:"wallet_balance"`
	TotalInvested int64   `db:"total_invested"`
	LastLogin     any     `db:"last_login"`
	CreatedAt     any     `db:"created_at"`
}

func (s *UserStore) ListAll(ctx context.Context, status, search string, limit, offset int) ([]map[string]any, error) {
	query := `
		SELECT u.id, u.email, u.first_name, u.last_name, u.status, u.role,
		       u.wallet_balance, u.last_login, u.created_at,
		       COALESCE(SUM(i.amount) FILTER (WHERE i.status = 'active'), 0) AS total_invested
		FROM users u
		LEFT JOIN user_investments i ON i.user_id = u.id
		WHERE u.role != 'super_admin'
	`
	args := []any{}
	param := 1
	if status != "" {
		query += fmt.Sprintf(" AND u.status = $%d", param)
		args = append(args, status)
		param++
	}
	if search != "" {
		query += fmt.Sprintf(" AND (u.first_name ILIKE $%d OR u.last_name ILIKE $%d OR u.email ILIKE $%d)", param, param, param)
		args = append(args, "%"+search+"%")
		param++
	}
	query += fmt.Sprintf(`
		GROUP BY u.id, u.email, u.first_name, u.last_name, u.status, u.role, u.wallet_balance, u.last_login, u.created_at
		ORDER BY u.created_at DESC
		LIMIT $%d OFFSET $%d`, param, param+1)
	args = append(args, limit, offset)
	var rows []userListRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	result := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		result = append(result, map[string]any{
			"id":             row.ID,
			"email":          row.Email,
			"first_name":     row.FirstName,
			"last_name":      row.LastName,
			"status":         row.Status,
			"role":           row.Role,
			"wallet_balance": row.WalletBalance,
			"total_invested": row.TotalInvested,
			"last_login":     row.LastLogin,
			"created_at":     row.CreatedAt,
		})
	}
	return result, nil
}

type UserStats struct {
	TotalUsers    int64 `db:"total_users"`
	NewUsersToday int64 `db:"new_users_today"`
	ActiveUsers   int64 `db:"active_users"`
}

func (s *UserStore) Stats(ctx context.Context) (UserStats, error) {
	var row UserStats
	err := s.db.GetContext(ctx, &row, `
		SELECT COUNT(*) AS total_users,
		       COUNT(*) FILTER (WHERE created_at >= CURRENT_DATE) AS new_users_today,
		       COUNT(*) FILTER (WHERE status = 'active') AS active_users
		FROM users
		WHERE role != 'super_admin'
	`)
	return row, err
}
