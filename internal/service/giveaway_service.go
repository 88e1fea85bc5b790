package service

import (
	"context"

	"crash_webapp/internal/domain"
	"crash_webapp/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type GiveawayService struct {
	db        *pgxpool.Pool
	giveaways *repository.GiveawayRepository
}

func NewGiveawayService(db *pgxpool.Pool) *GiveawayService {
	return &GiveawayService{
		db:        db,
		giveaways: repository.NewGiveawayRepository(db),
	}
}

// AwardGiveaway records the giveaway and credits the user's balance in a
// single transaction. A positive amount is required.
func (s *GiveawayService) AwardGiveaway(ctx context.Context, userID, amount int64) (*domain.Giveaway, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var g domain.Giveaway
	err = tx.QueryRow(ctx, `
		INSERT INTO giveaways (user_id, amount)
		VALUES ($1, $2)
		RETURNING id, user_id, amount, created_at
	`, userID, amount).Scan(&g.ID, &g.UserID, &g.Amount, &g.CreatedAt)
	if err != nil {
		return nil, err
	}

	tag, err := tx.Exec(ctx, `
		UPDATE users SET balance_satoshis = balance_satoshis + $1, updated_at = NOW()
		WHERE id = $2
	`, amount, userID)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrUserNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &g, nil
}

func (s *GiveawayService) GetGiveawaysByUser(ctx context.Context, userID int64) ([]domain.Giveaway, error) {
	return s.giveaways.GiveawaysByUser(ctx, userID)
}

func (s *GiveawayService) GetTotalAmountByUser(ctx context.Context, userID int64) (int64, error) {
	return s.giveaways.TotalAmountByUser(ctx, userID)
}
