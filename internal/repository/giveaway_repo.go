package repository

import (
	"context"

	"crash_webapp/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type GiveawayRepository struct {
	db *pgxpool.Pool
}

func NewGiveawayRepository(db *pgxpool.Pool) *GiveawayRepository {
	return &GiveawayRepository{db: db}
}

func (r *GiveawayRepository) CreateGiveaway(ctx context.Context, userID, amount int64) (*domain.Giveaway, error) {
	var g domain.Giveaway
	err := r.db.QueryRow(ctx, `
		INSERT INTO giveaways (user_id, amount)
		VALUES ($1, $2)
		RETURNING id, user_id, amount, created_at
	`, userID, amount).Scan(&g.ID, &g.UserID, &g.Amount, &g.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *GiveawayRepository) GiveawaysByUser(ctx context.Context, userID int64) ([]domain.Giveaway, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, amount, created_at FROM giveaways
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []domain.Giveaway
	for rows.Next() {
		var g domain.Giveaway
		if err := rows.Scan(&g.ID, &g.UserID, &g.Amount, &g.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, g)
	}
	return res, rows.Err()
}

func (r *GiveawayRepository) TotalAmountByUser(ctx context.Context, userID int64) (int64, error) {
	var total int64
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0) FROM giveaways WHERE user_id = $1
	`, userID).Scan(&total)
	return total, err
}
