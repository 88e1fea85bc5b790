package service

import (
	"context"
	"errors"
	"math"

	"crash_webapp/internal/domain"
	"crash_webapp/internal/logger"
	"crash_webapp/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrUserNotFound      = errors.New("user not found")
	ErrGameNotFound      = errors.New("game not found")
	ErrGameInProgress    = errors.New("a game is already in progress")
	ErrGameEnded         = errors.New("game has ended")
	ErrAlreadyJoined     = errors.New("user already joined this game")
	ErrAlreadyCashedOut  = errors.New("play already cashed out")
	ErrCashOutTooHigh    = errors.New("cash-out multiplier exceeds crash point")
	ErrBetTooLow         = errors.New("bet below minimum")
	ErrBetTooHigh        = errors.New("bet exceeds maximum")
	ErrPlayNotFound       = errors.New("play not found")
	ErrInvalidAutoCashOut = errors.New("auto cash-out below 1.00x")
)

// crashHundredths converts a stored crash point to its multiplier in
// hundredths. game_crash is a double, so 1.15*100 lands at 114.999...;
// rounding keeps a cash-out at exactly the crash point valid.
func crashHundredths(crashPoint float64) int64 {
	return int64(math.Round(crashPoint * 100))
}

// BetLimits bounds a single wager in satoshis.
type BetLimits struct {
	MinBet int64
	MaxBet int64
}

// RoundService drives the round lifecycle: start with a committed crash
// point, accept bets, cash plays out, settle. Every mutation that touches
// both a play and a balance runs in one transaction with the affected rows
// locked, so concurrent cash-outs cannot lose updates.
type RoundService struct {
	db       *pgxpool.Pool
	fairness *Fairness
	games    *repository.GameRepository
	hashes   *repository.GameHashRepository
	plays    *repository.PlayRepository
	users    *repository.UserRepository
	limits   BetLimits
}

func NewRoundService(db *pgxpool.Pool, fairness *Fairness, limits BetLimits) *RoundService {
	return &RoundService{
		db:       db,
		fairness: fairness,
		games:    repository.NewGameRepository(db),
		hashes:   repository.NewGameHashRepository(db),
		plays:    repository.NewPlayRepository(db),
		users:    repository.NewUserRepository(db),
		limits:   limits,
	}
}

// StartRound creates the next round. The crash point is derived from the
// fairness chain keyed by the round nonce, and the round hash is committed in
// the same transaction so no round exists without its proof.
func (s *RoundService) StartRound(ctx context.Context) (*domain.Game, error) {
	current, err := s.games.GetCurrentGame(ctx)
	if err != nil {
		return nil, err
	}
	if current != nil {
		return nil, ErrGameInProgress
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// The fairness nonce is the round id. Draw the id from the sequence up
	// front and insert with it explicitly; a sequence draw survives rollback,
	// so a failed insert can never shift later nonces away from their ids.
	var nonce int64
	if err := tx.QueryRow(ctx, `SELECT nextval(pg_get_serial_sequence('games', 'id'))`).Scan(&nonce); err != nil {
		return nil, err
	}

	crashPoint, roundHash := s.fairness.CrashPointFor(nonce)

	var g domain.Game
	err = tx.QueryRow(ctx, `
		INSERT INTO games (id, game_crash)
		VALUES ($1, $2)
		RETURNING id, game_crash, ended, total_bet, total_won, created_at, updated_at
	`, nonce, crashPoint).Scan(&g.ID, &g.GameCrash, &g.Ended, &g.TotalBet, &g.TotalWon,
		&g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if err := s.hashes.CreateWithTx(ctx, tx, g.ID, roundHash); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	roundsStarted.Inc()
	logger.Info("round started", "game_id", g.ID, "hash", roundHash)
	return &g, nil
}

// PlaceBet debits the wager and records the play in one transaction.
// autoCashOut is a multiplier in hundredths; zero means no auto cash-out.
func (s *RoundService) PlaceBet(ctx context.Context, userID, gameID, bet, autoCashOut int64) (*domain.Play, error) {
	if bet < s.limits.MinBet {
		return nil, ErrBetTooLow
	}
	if bet > s.limits.MaxBet {
		return nil, ErrBetTooHigh
	}
	if autoCashOut != 0 && autoCashOut < 100 {
		return nil, ErrInvalidAutoCashOut
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var ended bool
	err = tx.QueryRow(ctx, `SELECT ended FROM games WHERE id = $1 FOR UPDATE`, gameID).Scan(&ended)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}
	if ended {
		return nil, ErrGameEnded
	}

	var joined bool
	if err := tx.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM plays WHERE user_id = $1 AND game_id = $2)
	`, userID, gameID).Scan(&joined); err != nil {
		return nil, err
	}
	if joined {
		return nil, ErrAlreadyJoined
	}

	// Lock the user row and debit; the balance guard refuses to go negative.
	var balance int64
	err = tx.QueryRow(ctx, `
		UPDATE users SET balance_satoshis = balance_satoshis - $1, updated_at = now()
		WHERE id = $2 AND balance_satoshis >= $1
		RETURNING balance_satoshis
	`, bet, userID).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			var exists bool
			_ = tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, userID).Scan(&exists)
			if !exists {
				return nil, ErrUserNotFound
			}
			return nil, ErrInsufficientFunds
		}
		return nil, err
	}

	p := &domain.Play{UserID: userID, GameID: gameID, Bet: bet}
	if autoCashOut != 0 {
		p.AutoCashOut = &autoCashOut
	}
	if err := s.plays.CreateWithTx(ctx, tx, p); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	betsPlaced.Inc()
	logger.Debug("bet placed", "user_id", userID, "game_id", gameID, "bet", bet)
	return p, nil
}

// CashOut settles a live play at the given multiplier (hundredths). The play,
// the payout and the user's lifetime counters move in one transaction.
func (s *RoundService) CashOut(ctx context.Context, playID, multiplier int64) (*domain.Play, error) {
	if multiplier < 100 {
		return nil, ErrInvalidAmount
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var (
		p          domain.Play
		crashPoint float64
		ended      bool
	)
	err = tx.QueryRow(ctx, `
		SELECT p.id, p.user_id, p.game_id, p.bet, p.cash_out, p.auto_cash_out, p.bonus,
		       p.created_at, p.updated_at, g.game_crash, g.ended
		FROM plays p
		JOIN games g ON g.id = p.game_id
		WHERE p.id = $1
		FOR UPDATE OF p
	`, playID).Scan(&p.ID, &p.UserID, &p.GameID, &p.Bet, &p.CashOut, &p.AutoCashOut,
		&p.Bonus, &p.CreatedAt, &p.UpdatedAt, &crashPoint, &ended)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPlayNotFound
		}
		return nil, err
	}
	if ended {
		return nil, ErrGameEnded
	}
	if p.CashOut != nil {
		return nil, ErrAlreadyCashedOut
	}
	if multiplier > crashHundredths(crashPoint) {
		return nil, ErrCashOutTooHigh
	}

	amount := p.Bet * multiplier / 100
	if _, err := tx.Exec(ctx, `
		UPDATE plays SET cash_out = $2, updated_at = now() WHERE id = $1
	`, playID, amount); err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx, `
		UPDATE users SET balance_satoshis = balance_satoshis + $1, updated_at = now()
		WHERE id = $2
	`, amount, p.UserID); err != nil {
		return nil, err
	}
	if err := s.users.ApplySettlementWithTx(ctx, tx, p.UserID, amount, amount-p.Bet); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	p.CashOut = &amount
	cashOuts.Inc()
	logger.Debug("play cashed out", "play_id", playID, "amount", amount)
	return &p, nil
}

// EndRound settles the round: pays auto cash-outs at or under the crash
// point, books the losses, denormalizes the round totals and flips ended.
// A second call on the same round reports zero affected rows and changes
// nothing.
func (s *RoundService) EndRound(ctx context.Context, gameID int64) (int64, error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var (
		crashPoint float64
		ended      bool
	)
	err = tx.QueryRow(ctx, `
		SELECT game_crash, ended FROM games WHERE id = $1 FOR UPDATE
	`, gameID).Scan(&crashPoint, &ended)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrGameNotFound
		}
		return 0, err
	}
	if ended {
		return 0, nil
	}

	// Auto cash-outs whose target the round reached win at their target
	// multiplier.
	maxAuto := crashHundredths(crashPoint)
	rows, err := tx.Query(ctx, `
		SELECT id, user_id, bet, auto_cash_out FROM plays
		WHERE game_id = $1 AND cash_out IS NULL
		  AND auto_cash_out IS NOT NULL AND auto_cash_out <= $2
		FOR UPDATE
	`, gameID, maxAuto)
	if err != nil {
		return 0, err
	}
	type winner struct {
		playID, userID, payout, bet int64
	}
	var winners []winner
	for rows.Next() {
		var w winner
		var auto int64
		if err := rows.Scan(&w.playID, &w.userID, &w.bet, &auto); err != nil {
			rows.Close()
			return 0, err
		}
		w.payout = w.bet * auto / 100
		winners = append(winners, w)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}

	for _, w := range winners {
		if _, err := tx.Exec(ctx, `
			UPDATE plays SET cash_out = $2, updated_at = now() WHERE id = $1
		`, w.playID, w.payout); err != nil {
			return 0, err
		}
		if _, err := tx.Exec(ctx, `
			UPDATE users SET balance_satoshis = balance_satoshis + $1, updated_at = now()
			WHERE id = $2
		`, w.payout, w.userID); err != nil {
			return 0, err
		}
		if err := s.users.ApplySettlementWithTx(ctx, tx, w.userID, w.payout, w.payout-w.bet); err != nil {
			return 0, err
		}
		cashOuts.Inc()
	}

	// Remaining live plays rode past the crash and lose their bet. The wager
	// was debited at bet time, so only the lifetime counters move.
	if _, err := tx.Exec(ctx, `
		UPDATE users u
		SET net_profit = u.net_profit - p.bet,
		    games_played = u.games_played + 1,
		    updated_at = now()
		FROM plays p
		WHERE p.user_id = u.id AND p.game_id = $1 AND p.cash_out IS NULL
	`, gameID); err != nil {
		return 0, err
	}

	tag, err := tx.Exec(ctx, `
		UPDATE games
		SET ended = TRUE,
		    total_bet = (SELECT COALESCE(SUM(bet), 0) FROM plays WHERE game_id = $1),
		    total_won = (SELECT COALESCE(SUM(cash_out), 0) FROM plays WHERE game_id = $1),
		    updated_at = now()
		WHERE id = $1 AND NOT ended
	`, gameID)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}

	roundsEnded.Inc()
	logger.Info("round ended", "game_id", gameID, "crash", crashPoint)
	return tag.RowsAffected(), nil
}
