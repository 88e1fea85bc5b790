package repository

import (
	"context"

	"crash_webapp/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// GameHashRepository stores the fairness commitments. Rows are written once,
// before any bet on the round is accepted, and never updated.
type GameHashRepository struct {
	db *pgxpool.Pool
}

func NewGameHashRepository(db *pgxpool.Pool) *GameHashRepository {
	return &GameHashRepository{db: db}
}

func (r *GameHashRepository) Create(ctx context.Context, gameID int64, hash string) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO game_hashes (game_id, hash) VALUES ($1, $2)
	`, gameID, hash)
	return err
}

// CreateWithTx writes the commitment inside the round-creation transaction so
// a round can never exist without its hash.
func (r *GameHashRepository) CreateWithTx(ctx context.Context, tx pgx.Tx, gameID int64, hash string) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO game_hashes (game_id, hash) VALUES ($1, $2)
	`, gameID, hash)
	return err
}

// GetByGameID returns the commitment for a round, or nil when none exists.
func (r *GameHashRepository) GetByGameID(ctx context.Context, gameID int64) (*domain.GameHash, error) {
	var gh domain.GameHash
	err := r.db.QueryRow(ctx, `
		SELECT game_id, hash FROM game_hashes WHERE game_id = $1
	`, gameID).Scan(&gh.GameID, &gh.Hash)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &gh, nil
}
