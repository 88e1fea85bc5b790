package repository

import (
	"context"
	"time"

	"crash_webapp/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RecoveryRepository manages single-use password-recovery tokens, keyed by
// uuid so the token itself carries no ordering information.
type RecoveryRepository struct {
	db *pgxpool.Pool
}

func NewRecoveryRepository(db *pgxpool.Pool) *RecoveryRepository {
	return &RecoveryRepository{db: db}
}

// Create issues a token for userID valid until expires.
func (r *RecoveryRepository) Create(ctx context.Context, userID int64, ip string, expires time.Time) (*domain.Recovery, error) {
	rec := &domain.Recovery{
		ID:      uuid.New(),
		UserID:  userID,
		IP:      ip,
		Expired: &expires,
	}
	err := r.db.QueryRow(ctx, `
		INSERT INTO recovery (id, user_id, ip, expired)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`, rec.ID, rec.UserID, rec.IP, rec.Expired).Scan(&rec.CreatedAt)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// GetValid returns the token if it exists, is unused and has not expired.
func (r *RecoveryRepository) GetValid(ctx context.Context, id uuid.UUID) (*domain.Recovery, error) {
	var rec domain.Recovery
	err := r.db.QueryRow(ctx, `
		SELECT id, user_id, ip, expired, used, created_at
		FROM recovery
		WHERE id = $1 AND NOT used AND (expired IS NULL OR expired > now())
	`, id).Scan(&rec.ID, &rec.UserID, &rec.IP, &rec.Expired, &rec.Used, &rec.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

// MarkUsed consumes a token. Returns false if it was already used or unknown.
func (r *RecoveryRepository) MarkUsed(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE recovery SET used = TRUE WHERE id = $1 AND NOT used
	`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
