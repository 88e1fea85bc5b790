package repository

import (
	"context"
	"time"

	"crash_webapp/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const defaultGameLimit = 10

const gameColumns = `id, game_crash, ended, total_bet, total_won, created_at, updated_at`

// GameRepository is the sole writer of game state transitions and serves
// every read/aggregate over games and their plays.
type GameRepository struct {
	db *pgxpool.Pool
}

func NewGameRepository(db *pgxpool.Pool) *GameRepository {
	return &GameRepository{db: db}
}

// CreateNewGame inserts a live round with a pre-committed crash point.
// The partial unique index on games rejects a second live round, so the
// single-current-game invariant holds even without the orchestration lock.
func (r *GameRepository) CreateNewGame(ctx context.Context, crashPoint float64) (*domain.Game, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO games (game_crash)
		VALUES ($1)
		RETURNING `+gameColumns,
		crashPoint,
	)
	return scanGame(row)
}

// EndGame marks a round as ended. Calling it on an already-ended round is a
// no-op; the affected-row count tells the caller whether the transition
// actually happened (1) or the round was ended before (0).
func (r *GameRepository) EndGame(ctx context.Context, gameID int64) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE games SET ended = TRUE, updated_at = now()
		WHERE id = $1 AND NOT ended
	`, gameID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// GetCurrentGame returns the one live round, or nil when no round is in
// progress. Callers must treat nil as "between rounds", not as an error.
func (r *GameRepository) GetCurrentGame(ctx context.Context) (*domain.Game, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+gameColumns+` FROM games WHERE NOT ended
	`)
	return scanGame(row)
}

// GetByID returns a game or nil when the id is unknown.
func (r *GameRepository) GetByID(ctx context.Context, gameID int64) (*domain.Game, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+gameColumns+` FROM games WHERE id = $1
	`, gameID)
	return scanGame(row)
}

// AverageCrashPoint returns the mean crash point over all rounds, 0 when the
// table is empty.
func (r *GameRepository) AverageCrashPoint(ctx context.Context) (float64, error) {
	var avg float64
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(AVG(game_crash), 0) FROM games
	`).Scan(&avg)
	return avg, err
}

func (r *GameRepository) HighestCrashPoint(ctx context.Context) (float64, error) {
	var max float64
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(MAX(game_crash), 0) FROM games
	`).Scan(&max)
	return max, err
}

func (r *GameRepository) LowestCrashPoint(ctx context.Context) (float64, error) {
	var min float64
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(MIN(game_crash), 0) FROM games
	`).Scan(&min)
	return min, err
}

// TotalAmountBet sums the settlement-time bet totals across all rounds.
func (r *GameRepository) TotalAmountBet(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(total_bet), 0) FROM games
	`).Scan(&total)
	return total, err
}

// TotalAmountWon sums the settlement-time payout totals across all rounds.
func (r *GameRepository) TotalAmountWon(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(total_won), 0) FROM games
	`).Scan(&total)
	return total, err
}

// TotalAmountWagered sums every bet ever placed, live rounds included.
func (r *GameRepository) TotalAmountWagered(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(bet), 0) FROM plays
	`).Scan(&total)
	return total, err
}

// TotalAmountWageredByUser sums all bets in the rounds the user took part in.
func (r *GameRepository) TotalAmountWageredByUser(ctx context.Context, userID int64) (int64, error) {
	var total int64
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(p.bet), 0)
		FROM plays p
		WHERE p.game_id IN (SELECT game_id FROM plays WHERE user_id = $1)
	`, userID).Scan(&total)
	return total, err
}

// CountAboveCrashPoint counts rounds that crashed strictly above value.
func (r *GameRepository) CountAboveCrashPoint(ctx context.Context, value float64) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM games WHERE game_crash > $1
	`, value).Scan(&n)
	return n, err
}

// CountBelowCrashPoint counts rounds that crashed strictly below value.
func (r *GameRepository) CountBelowCrashPoint(ctx context.Context, value float64) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM games WHERE game_crash < $1
	`, value).Scan(&n)
	return n, err
}

func (r *GameRepository) TotalGamesPlayed(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM games`).Scan(&n)
	return n, err
}

func (r *GameRepository) TotalGamesPlayedByUser(ctx context.Context, userID int64) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(DISTINCT game_id) FROM plays WHERE user_id = $1
	`, userID).Scan(&n)
	return n, err
}

// LongestStreakAboveCrashPoint returns the longest run of consecutive rounds
// (in creation order) that crashed strictly above value. The run detection is
// a gaps-and-islands window query so the game history never leaves the
// database.
func (r *GameRepository) LongestStreakAboveCrashPoint(ctx context.Context, value float64) (int, error) {
	return r.longestStreak(ctx, `game_crash > $1`, value)
}

// LongestStreakBelowCrashPoint is the strict-inequality mirror of
// LongestStreakAboveCrashPoint; a round crashing exactly at value breaks
// both streaks.
func (r *GameRepository) LongestStreakBelowCrashPoint(ctx context.Context, value float64) (int, error) {
	return r.longestStreak(ctx, `game_crash < $1`, value)
}

func (r *GameRepository) longestStreak(ctx context.Context, cond string, value float64) (int, error) {
	var streak int
	err := r.db.QueryRow(ctx, `
		WITH flagged AS (
			SELECT `+cond+` AS hit,
			       ROW_NUMBER() OVER (ORDER BY created_at, id) -
			       ROW_NUMBER() OVER (PARTITION BY `+cond+` ORDER BY created_at, id) AS grp
			FROM games
		)
		SELECT COALESCE(MAX(run), 0) FROM (
			SELECT COUNT(*) AS run FROM flagged WHERE hit GROUP BY grp
		) runs
	`, value).Scan(&streak)
	return streak, err
}

// GamesByCrashPointRange returns games whose crash point lies in
// [minCrash, maxCrash], newest first.
func (r *GameRepository) GamesByCrashPointRange(ctx context.Context, minCrash, maxCrash float64, limit int) ([]domain.Game, error) {
	if limit <= 0 {
		limit = defaultGameLimit
	}
	rows, err := r.db.Query(ctx, `
		SELECT `+gameColumns+` FROM games
		WHERE game_crash BETWEEN $1 AND $2
		ORDER BY created_at DESC
		LIMIT $3
	`, minCrash, maxCrash, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanGames(rows)
}

// GamesWithinDateRange returns games created in [from, to], newest first.
func (r *GameRepository) GamesWithinDateRange(ctx context.Context, from, to time.Time) ([]domain.Game, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+gameColumns+` FROM games
		WHERE created_at BETWEEN $1 AND $2
		ORDER BY created_at DESC, id DESC
	`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanGames(rows)
}

// GamesByPlayer returns the rounds a user bet in, newest first.
func (r *GameRepository) GamesByPlayer(ctx context.Context, userID int64, limit int) ([]domain.Game, error) {
	if limit <= 0 {
		limit = defaultGameLimit
	}
	rows, err := r.db.Query(ctx, `
		SELECT `+gameColumns+` FROM games
		WHERE id IN (SELECT game_id FROM plays WHERE user_id = $1)
		ORDER BY created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanGames(rows)
}

// RecentGamesWithCrashPoints returns the slim id/crash projection of the
// latest rounds for the history strip.
func (r *GameRepository) RecentGamesWithCrashPoints(ctx context.Context, limit int) ([]domain.GameCrashPoint, error) {
	if limit <= 0 {
		limit = defaultGameLimit
	}
	rows, err := r.db.Query(ctx, `
		SELECT id, game_crash FROM games
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []domain.GameCrashPoint
	for rows.Next() {
		var cp domain.GameCrashPoint
		if err := rows.Scan(&cp.ID, &cp.GameCrash); err != nil {
			return nil, err
		}
		res = append(res, cp)
	}
	return res, rows.Err()
}

// MostRecentGame returns the newest game, or nil on an empty table.
func (r *GameRepository) MostRecentGame(ctx context.Context) (*domain.Game, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+gameColumns+` FROM games
		ORDER BY created_at DESC
		LIMIT 1
	`)
	return scanGame(row)
}

func (r *GameRepository) MostRecentGames(ctx context.Context, limit int) ([]domain.Game, error) {
	if limit <= 0 {
		limit = defaultGameLimit
	}
	rows, err := r.db.Query(ctx, `
		SELECT `+gameColumns+` FROM games
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanGames(rows)
}

// HighestCrashPoints returns the games that ran the longest.
func (r *GameRepository) HighestCrashPoints(ctx context.Context, limit int) ([]domain.Game, error) {
	return r.gamesOrderedByCrash(ctx, "DESC", limit)
}

// LowestCrashPoints returns the games that busted earliest.
func (r *GameRepository) LowestCrashPoints(ctx context.Context, limit int) ([]domain.Game, error) {
	return r.gamesOrderedByCrash(ctx, "ASC", limit)
}

func (r *GameRepository) gamesOrderedByCrash(ctx context.Context, dir string, limit int) ([]domain.Game, error) {
	if limit <= 0 {
		limit = defaultGameLimit
	}
	rows, err := r.db.Query(ctx, `
		SELECT `+gameColumns+` FROM games
		ORDER BY game_crash `+dir+`
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanGames(rows)
}

// GamesWithMostPlayers ranks rounds by the number of bets they attracted.
func (r *GameRepository) GamesWithMostPlayers(ctx context.Context, limit int) ([]domain.GamePlayerCount, error) {
	if limit <= 0 {
		limit = defaultGameLimit
	}
	rows, err := r.db.Query(ctx, `
		SELECT g.id, g.game_crash, g.ended, g.total_bet, g.total_won, g.created_at, g.updated_at,
		       COUNT(p.id) AS player_count
		FROM games g
		JOIN plays p ON p.game_id = g.id
		GROUP BY g.id
		ORDER BY player_count DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []domain.GamePlayerCount
	for rows.Next() {
		var gc domain.GamePlayerCount
		g := &gc.Game
		if err := rows.Scan(&g.ID, &g.GameCrash, &g.Ended, &g.TotalBet, &g.TotalWon,
			&g.CreatedAt, &g.UpdatedAt, &gc.PlayerCount); err != nil {
			return nil, err
		}
		res = append(res, gc)
	}
	return res, rows.Err()
}

func scanGame(row pgx.Row) (*domain.Game, error) {
	var g domain.Game
	if err := row.Scan(&g.ID, &g.GameCrash, &g.Ended, &g.TotalBet, &g.TotalWon,
		&g.CreatedAt, &g.UpdatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &g, nil
}

func scanGames(rows pgx.Rows) ([]domain.Game, error) {
	var games []domain.Game
	for rows.Next() {
		var g domain.Game
		if err := rows.Scan(&g.ID, &g.GameCrash, &g.Ended, &g.TotalBet, &g.TotalWon,
			&g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, err
		}
		games = append(games, g)
	}
	return games, rows.Err()
}
