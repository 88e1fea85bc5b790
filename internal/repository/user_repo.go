package repository

import (
	"context"
	"errors"

	"crash_webapp/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrInsufficientFunds = errors.New("insufficient funds")

const userColumns = `id, username, email, password_hash, mfa_secret,
	balance_satoshis, gross_profit, net_profit, games_played, userclass,
	created_at, updated_at`

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a user with a zero balance. Fails on a duplicate username.
func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	if u.Userclass == "" {
		u.Userclass = domain.UserclassMember
	}
	return r.db.QueryRow(ctx, `
		INSERT INTO users (username, email, password_hash, userclass)
		VALUES ($1, $2, $3, $4)
		RETURNING id, balance_satoshis, gross_profit, net_profit, games_played,
		          created_at, updated_at
	`, u.Username, u.Email, u.PasswordHash, u.Userclass).
		Scan(&u.ID, &u.BalanceSatoshis, &u.GrossProfit, &u.NetProfit,
			&u.GamesPlayed, &u.CreatedAt, &u.UpdatedAt)
}

// GetByID returns a user or nil when the id is unknown.
func (r *UserRepository) GetByID(ctx context.Context, userID int64) (*domain.User, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users WHERE id = $1
	`, userID)
	return scanUser(row)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users WHERE username = $1
	`, username)
	return scanUser(row)
}

func (r *UserRepository) All(ctx context.Context, limit int) ([]domain.User, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.Query(ctx, `
		SELECT `+userColumns+` FROM users
		ORDER BY created_at
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash,
			&u.MFASecret, &u.BalanceSatoshis, &u.GrossProfit, &u.NetProfit,
			&u.GamesPlayed, &u.Userclass, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// UpdateProfile rewrites mutable profile fields. Returns false for a missing
// id.
func (r *UserRepository) UpdateProfile(ctx context.Context, u *domain.User) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE users
		SET email = $2, password_hash = $3, mfa_secret = $4, userclass = $5,
		    updated_at = now()
		WHERE id = $1
	`, u.ID, u.Email, u.PasswordHash, u.MFASecret, u.Userclass)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// Delete removes a user and, through the cascading foreign keys, every child
// row they own. Returns false for a missing id.
func (r *UserRepository) Delete(ctx context.Context, userID int64) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// Credit adds amount to the balance and returns the new balance.
func (r *UserRepository) Credit(ctx context.Context, userID, amount int64) (int64, error) {
	var balance int64
	err := r.db.QueryRow(ctx, `
		UPDATE users SET balance_satoshis = balance_satoshis + $1, updated_at = now()
		WHERE id = $2
		RETURNING balance_satoshis
	`, amount, userID).Scan(&balance)
	return balance, err
}

// Debit subtracts amount from the balance, refusing to go negative.
func (r *UserRepository) Debit(ctx context.Context, userID, amount int64) (int64, error) {
	var balance int64
	err := r.db.QueryRow(ctx, `
		UPDATE users SET balance_satoshis = balance_satoshis - $1, updated_at = now()
		WHERE id = $2 AND balance_satoshis >= $1
		RETURNING balance_satoshis
	`, amount, userID).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrInsufficientFunds
		}
		return 0, err
	}
	return balance, nil
}

// ApplySettlementWithTx folds one settled play into the user's lifetime
// counters inside the settlement transaction. grossDelta is the cash-out
// amount, netDelta the profit after the bet.
func (r *UserRepository) ApplySettlementWithTx(ctx context.Context, tx pgx.Tx, userID, grossDelta, netDelta int64) error {
	_, err := tx.Exec(ctx, `
		UPDATE users
		SET gross_profit = gross_profit + $1,
		    net_profit = net_profit + $2,
		    games_played = games_played + 1,
		    updated_at = now()
		WHERE id = $3
	`, grossDelta, netDelta, userID)
	return err
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash,
		&u.MFASecret, &u.BalanceSatoshis, &u.GrossProfit, &u.NetProfit,
		&u.GamesPlayed, &u.Userclass, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}
