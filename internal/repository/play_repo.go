package repository

import (
	"context"

	"crash_webapp/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const playColumns = `id, user_id, game_id, bet, cash_out, auto_cash_out, bonus, created_at, updated_at`

// PlayRepository is the single authoritative contract for bet rows; it covers
// every query the play service exposes, including the leaderboard and
// active-play lookups the settlement path needs.
type PlayRepository struct {
	db *pgxpool.Pool
}

func NewPlayRepository(db *pgxpool.Pool) *PlayRepository {
	return &PlayRepository{db: db}
}

// Create inserts a play. Fails on constraint violation, e.g. a second bet by
// the same user in the same round or an unknown user/game id.
func (r *PlayRepository) Create(ctx context.Context, p *domain.Play) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO plays (user_id, game_id, bet, cash_out, auto_cash_out, bonus)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, p.UserID, p.GameID, p.Bet, p.CashOut, p.AutoCashOut, p.Bonus).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

// CreateWithTx inserts a play inside an existing transaction.
func (r *PlayRepository) CreateWithTx(ctx context.Context, tx pgx.Tx, p *domain.Play) error {
	return tx.QueryRow(ctx, `
		INSERT INTO plays (user_id, game_id, bet, cash_out, auto_cash_out, bonus)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, p.UserID, p.GameID, p.Bet, p.CashOut, p.AutoCashOut, p.Bonus).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

// GetByID returns a play or nil when the id is unknown.
func (r *PlayRepository) GetByID(ctx context.Context, playID int64) (*domain.Play, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+playColumns+` FROM plays WHERE id = $1
	`, playID)
	return scanPlay(row)
}

// Update rewrites the mutable columns of a play. Returns false when the id
// does not exist.
func (r *PlayRepository) Update(ctx context.Context, p *domain.Play) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE plays
		SET cash_out = $2, auto_cash_out = $3, bonus = $4, updated_at = now()
		WHERE id = $1
	`, p.ID, p.CashOut, p.AutoCashOut, p.Bonus)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// Delete removes a play. Returns false, not an error, for a missing id.
func (r *PlayRepository) Delete(ctx context.Context, playID int64) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM plays WHERE id = $1`, playID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// All returns the most recent plays across all games.
func (r *PlayRepository) All(ctx context.Context, limit int) ([]domain.Play, error) {
	if limit <= 0 {
		limit = defaultGameLimit
	}
	rows, err := r.db.Query(ctx, `
		SELECT `+playColumns+` FROM plays
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPlays(rows)
}

func (r *PlayRepository) TotalBetAmountByUser(ctx context.Context, userID int64) (int64, error) {
	var total int64
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(bet), 0) FROM plays WHERE user_id = $1
	`, userID).Scan(&total)
	return total, err
}

func (r *PlayRepository) TotalBetAmountForGame(ctx context.Context, gameID int64) (int64, error) {
	var total int64
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(bet), 0) FROM plays WHERE game_id = $1
	`, gameID).Scan(&total)
	return total, err
}

// UserProfit is the user's gross cash-out sum. It deliberately ignores bets
// and bonuses; the net figure lives in PlayService.CalculateUserProfit.
func (r *PlayRepository) UserProfit(ctx context.Context, userID int64) (int64, error) {
	var total int64
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(cash_out), 0) FROM plays WHERE user_id = $1
	`, userID).Scan(&total)
	return total, err
}

// TopPlayersByTotalBetAmount groups plays by user and ranks by wagered total.
// Tie order between equal totals is unspecified.
func (r *PlayRepository) TopPlayersByTotalBetAmount(ctx context.Context, limit int) ([]domain.PlayerTotal, error) {
	if limit <= 0 {
		limit = defaultGameLimit
	}
	rows, err := r.db.Query(ctx, `
		SELECT user_id, SUM(bet) AS total_bet_amount
		FROM plays
		GROUP BY user_id
		ORDER BY total_bet_amount DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []domain.PlayerTotal
	for rows.Next() {
		var pt domain.PlayerTotal
		if err := rows.Scan(&pt.UserID, &pt.TotalBetAmount); err != nil {
			return nil, err
		}
		res = append(res, pt)
	}
	return res, rows.Err()
}

func (r *PlayRepository) UserPlays(ctx context.Context, userID int64, limit int) ([]domain.Play, error) {
	if limit <= 0 {
		limit = defaultGameLimit
	}
	rows, err := r.db.Query(ctx, `
		SELECT `+playColumns+` FROM plays
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPlays(rows)
}

func (r *PlayRepository) RecentPlaysForGame(ctx context.Context, gameID int64, limit int) ([]domain.Play, error) {
	if limit <= 0 {
		limit = defaultGameLimit
	}
	rows, err := r.db.Query(ctx, `
		SELECT `+playColumns+` FROM plays
		WHERE game_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, gameID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPlays(rows)
}

func (r *PlayRepository) PlaysByUserAndGame(ctx context.Context, userID, gameID int64) ([]domain.Play, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+playColumns+` FROM plays
		WHERE user_id = $1 AND game_id = $2
		ORDER BY created_at DESC
	`, userID, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPlays(rows)
}

func (r *PlayRepository) IsUserInGame(ctx context.Context, userID, gameID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM plays WHERE user_id = $1 AND game_id = $2)
	`, userID, gameID).Scan(&exists)
	return exists, err
}

// ActivePlaysForGame returns the plays still riding the multiplier.
func (r *PlayRepository) ActivePlaysForGame(ctx context.Context, gameID int64) ([]domain.Play, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+playColumns+` FROM plays
		WHERE game_id = $1 AND cash_out IS NULL
		ORDER BY created_at
	`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPlays(rows)
}

// ActivePlaysWithAutoCashOutBelow returns live plays whose auto cash-out
// target (multiplier in hundredths) is at or under maxAuto. The settlement
// path pays these out when the round crashes above their target.
func (r *PlayRepository) ActivePlaysWithAutoCashOutBelow(ctx context.Context, gameID, maxAuto int64) ([]domain.Play, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+playColumns+` FROM plays
		WHERE game_id = $1 AND cash_out IS NULL
		  AND auto_cash_out IS NOT NULL AND auto_cash_out <= $2
		ORDER BY created_at
	`, gameID, maxAuto)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPlays(rows)
}

func (r *PlayRepository) CashedOutPlaysForGame(ctx context.Context, gameID int64) ([]domain.Play, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+playColumns+` FROM plays
		WHERE game_id = $1 AND cash_out IS NOT NULL
		ORDER BY created_at
	`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPlays(rows)
}

// Leaderboard ranks users by net profit, (cash_out - bet) + bonus summed over
// every play.
func (r *PlayRepository) Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = defaultGameLimit
	}
	rows, err := r.db.Query(ctx, `
		SELECT u.id, u.username,
		       COALESCE(SUM(COALESCE(p.cash_out, 0) - p.bet + COALESCE(p.bonus, 0)), 0) AS net_profit
		FROM users u
		JOIN plays p ON p.user_id = u.id
		GROUP BY u.id, u.username
		ORDER BY net_profit DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []domain.LeaderboardEntry
	rank := 1
	for rows.Next() {
		var e domain.LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.Username, &e.NetProfit); err != nil {
			return nil, err
		}
		e.Rank = rank
		rank++
		res = append(res, e)
	}
	return res, rows.Err()
}

// UserRank returns the user's position in the net-profit leaderboard and the
// profit backing it.
func (r *PlayRepository) UserRank(ctx context.Context, userID int64) (int, int64, error) {
	var rank int
	var profit int64
	err := r.db.QueryRow(ctx, `
		WITH profits AS (
			SELECT user_id,
			       SUM(COALESCE(cash_out, 0) - bet + COALESCE(bonus, 0)) AS net_profit
			FROM plays
			GROUP BY user_id
		),
		ranked AS (
			SELECT user_id, net_profit,
			       RANK() OVER (ORDER BY net_profit DESC) AS rank
			FROM profits
		)
		SELECT rank, net_profit FROM ranked WHERE user_id = $1
	`, userID).Scan(&rank, &profit)
	if err != nil {
		if err == pgx.ErrNoRows {
			return 0, 0, nil
		}
		return 0, 0, err
	}
	return rank, profit, nil
}

// TopWinningPlays returns the plays with the largest single-round profit.
func (r *PlayRepository) TopWinningPlays(ctx context.Context, limit int) ([]domain.Play, error) {
	if limit <= 0 {
		limit = defaultGameLimit
	}
	rows, err := r.db.Query(ctx, `
		SELECT `+playColumns+` FROM plays
		WHERE cash_out IS NOT NULL
		ORDER BY cash_out - bet DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPlays(rows)
}

func (r *PlayRepository) TopWinningPlaysByUser(ctx context.Context, userID int64, limit int) ([]domain.Play, error) {
	if limit <= 0 {
		limit = defaultGameLimit
	}
	rows, err := r.db.Query(ctx, `
		SELECT `+playColumns+` FROM plays
		WHERE user_id = $1 AND cash_out IS NOT NULL
		ORDER BY cash_out - bet DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPlays(rows)
}

func (r *PlayRepository) BiggestBets(ctx context.Context, limit int) ([]domain.Play, error) {
	if limit <= 0 {
		limit = defaultGameLimit
	}
	rows, err := r.db.Query(ctx, `
		SELECT `+playColumns+` FROM plays
		ORDER BY bet DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPlays(rows)
}

func (r *PlayRepository) BiggestBetsForGame(ctx context.Context, gameID int64, limit int) ([]domain.Play, error) {
	if limit <= 0 {
		limit = defaultGameLimit
	}
	rows, err := r.db.Query(ctx, `
		SELECT `+playColumns+` FROM plays
		WHERE game_id = $1
		ORDER BY bet DESC
		LIMIT $2
	`, gameID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPlays(rows)
}

func (r *PlayRepository) HighestCashouts(ctx context.Context, limit int) ([]domain.Play, error) {
	if limit <= 0 {
		limit = defaultGameLimit
	}
	rows, err := r.db.Query(ctx, `
		SELECT `+playColumns+` FROM plays
		WHERE cash_out IS NOT NULL
		ORDER BY cash_out DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPlays(rows)
}

// UserStats summarizes a user's betting record in one query. A play only
// counts as lost once its round has ended; plays in a live round are still
// in flight.
func (r *PlayRepository) UserStats(ctx context.Context, userID int64) (*domain.PlayStats, error) {
	stats := &domain.PlayStats{UserID: userID}
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE p.cash_out IS NOT NULL),
		       COUNT(*) FILTER (WHERE p.cash_out IS NULL AND g.ended),
		       COALESCE(SUM(p.bet), 0),
		       COALESCE(SUM(p.cash_out), 0)
		FROM plays p
		JOIN games g ON g.id = p.game_id
		WHERE p.user_id = $1
	`, userID).Scan(&stats.TotalPlays, &stats.CashedOut, &stats.Lost,
		&stats.TotalBet, &stats.TotalCashed)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func scanPlay(row pgx.Row) (*domain.Play, error) {
	var p domain.Play
	if err := row.Scan(&p.ID, &p.UserID, &p.GameID, &p.Bet, &p.CashOut,
		&p.AutoCashOut, &p.Bonus, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func scanPlays(rows pgx.Rows) ([]domain.Play, error) {
	var plays []domain.Play
	for rows.Next() {
		var p domain.Play
		if err := rows.Scan(&p.ID, &p.UserID, &p.GameID, &p.Bet, &p.CashOut,
			&p.AutoCashOut, &p.Bonus, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		plays = append(plays, p)
	}
	return plays, rows.Err()
}
