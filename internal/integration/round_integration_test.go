package integration

import (
	"context"
	"errors"
	"testing"

	"crash_webapp/internal/repository"
	"crash_webapp/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
)

func newRoundService(db *pgxpool.Pool) *service.RoundService {
	return service.NewRoundService(db, service.NewFairness("integration-seed"), service.BetLimits{
		MinBet: 100,
		MaxBet: 100_000_000,
	})
}

func TestRoundLifecycle(t *testing.T) {
	db := connectDB(t)
	svc := newRoundService(db)
	ctx := context.Background()

	u := createUser(t, db, "leo", 1000)

	game, err := svc.StartRound(ctx)
	if err != nil {
		t.Fatalf("start round: %v", err)
	}

	// A second round cannot start while one is live.
	if _, err := svc.StartRound(ctx); !errors.Is(err, service.ErrGameInProgress) {
		t.Fatalf("second start err = %v, want ErrGameInProgress", err)
	}

	play, err := svc.PlaceBet(ctx, u.ID, game.ID, 400, 0)
	if err != nil {
		t.Fatalf("place bet: %v", err)
	}
	if got := userBalance(t, db, u.ID); got != 600 {
		t.Fatalf("balance after bet = %d, want 600", got)
	}

	// Betting twice in the same round is refused.
	if _, err := svc.PlaceBet(ctx, u.ID, game.ID, 100, 0); !errors.Is(err, service.ErrAlreadyJoined) {
		t.Fatalf("duplicate bet err = %v, want ErrAlreadyJoined", err)
	}

	// Every crash point is at least 1.00x, so cashing out at 1.00x always
	// succeeds and pays the bet back.
	settled, err := svc.CashOut(ctx, play.ID, 100)
	if err != nil {
		t.Fatalf("cash out: %v", err)
	}
	if settled.CashOut == nil || *settled.CashOut != 400 {
		t.Fatalf("cash out amount = %v, want 400", settled.CashOut)
	}
	if got := userBalance(t, db, u.ID); got != 1000 {
		t.Fatalf("balance after cash out = %d, want 1000 (conserved)", got)
	}

	if _, err := svc.CashOut(ctx, play.ID, 100); !errors.Is(err, service.ErrAlreadyCashedOut) {
		t.Fatalf("second cash out err = %v, want ErrAlreadyCashedOut", err)
	}

	affected, err := svc.EndRound(ctx, game.ID)
	if err != nil {
		t.Fatalf("end round: %v", err)
	}
	if affected != 1 {
		t.Fatalf("end round affected %d rows, want 1", affected)
	}

	affected, err = svc.EndRound(ctx, game.ID)
	if err != nil {
		t.Fatalf("second end round: %v", err)
	}
	if affected != 0 {
		t.Fatalf("second end round affected %d rows, want 0", affected)
	}

	if _, err := svc.PlaceBet(ctx, u.ID, game.ID, 100, 0); !errors.Is(err, service.ErrGameEnded) {
		t.Fatalf("bet after end err = %v, want ErrGameEnded", err)
	}
}

func TestRoundBetValidation(t *testing.T) {
	db := connectDB(t)
	svc := newRoundService(db)
	ctx := context.Background()

	u := createUser(t, db, "mary", 50)

	game, err := svc.StartRound(ctx)
	if err != nil {
		t.Fatalf("start round: %v", err)
	}

	if _, err := svc.PlaceBet(ctx, u.ID, game.ID, 50, 0); !errors.Is(err, service.ErrBetTooLow) {
		t.Fatalf("err = %v, want ErrBetTooLow", err)
	}
	if _, err := svc.PlaceBet(ctx, u.ID, game.ID, 200_000_000, 0); !errors.Is(err, service.ErrBetTooHigh) {
		t.Fatalf("err = %v, want ErrBetTooHigh", err)
	}
	if _, err := svc.PlaceBet(ctx, u.ID, game.ID, 100, 50); !errors.Is(err, service.ErrInvalidAutoCashOut) {
		t.Fatalf("err = %v, want ErrInvalidAutoCashOut", err)
	}
	if _, err := svc.PlaceBet(ctx, u.ID, game.ID, 100, 0); !errors.Is(err, service.ErrInsufficientFunds) {
		t.Fatalf("err = %v, want ErrInsufficientFunds", err)
	}
	if _, err := svc.PlaceBet(ctx, 99999, game.ID, 100, 0); !errors.Is(err, service.ErrUserNotFound) {
		t.Fatalf("err = %v, want ErrUserNotFound", err)
	}
	if got := userBalance(t, db, u.ID); got != 50 {
		t.Fatalf("balance moved on refused bets: %d", got)
	}
}

func TestRoundAutoCashOutSettlement(t *testing.T) {
	db := connectDB(t)
	svc := newRoundService(db)
	ctx := context.Background()

	u := createUser(t, db, "nina", 1000)

	game, err := svc.StartRound(ctx)
	if err != nil {
		t.Fatalf("start round: %v", err)
	}

	// Auto cash-out at 1.00x is always reached, so settlement pays the bet
	// back at that multiplier.
	if _, err := svc.PlaceBet(ctx, u.ID, game.ID, 300, 100); err != nil {
		t.Fatalf("place bet: %v", err)
	}
	if got := userBalance(t, db, u.ID); got != 700 {
		t.Fatalf("balance after bet = %d, want 700", got)
	}

	if _, err := svc.EndRound(ctx, game.ID); err != nil {
		t.Fatalf("end round: %v", err)
	}

	if got := userBalance(t, db, u.ID); got != 1000 {
		t.Fatalf("balance after settlement = %d, want 1000", got)
	}

	var cashOut int64
	err = db.QueryRow(ctx, `
		SELECT cash_out FROM plays WHERE user_id = $1 AND game_id = $2
	`, u.ID, game.ID).Scan(&cashOut)
	if err != nil {
		t.Fatalf("read play: %v", err)
	}
	if cashOut != 300 {
		t.Fatalf("auto cash-out amount = %d, want 300", cashOut)
	}
}

func TestRoundLossSettlement(t *testing.T) {
	db := connectDB(t)
	svc := newRoundService(db)
	ctx := context.Background()

	u := createUser(t, db, "oscar", 1000)

	game, err := svc.StartRound(ctx)
	if err != nil {
		t.Fatalf("start round: %v", err)
	}

	if _, err := svc.PlaceBet(ctx, u.ID, game.ID, 250, 0); err != nil {
		t.Fatalf("place bet: %v", err)
	}
	if _, err := svc.EndRound(ctx, game.ID); err != nil {
		t.Fatalf("end round: %v", err)
	}

	// The play rode past the crash and lost; the wager stays debited.
	if got := userBalance(t, db, u.ID); got != 750 {
		t.Fatalf("balance after loss = %d, want 750", got)
	}

	var netProfit, gamesPlayed int64
	err = db.QueryRow(ctx, `
		SELECT net_profit, games_played FROM users WHERE id = $1
	`, u.ID).Scan(&netProfit, &gamesPlayed)
	if err != nil {
		t.Fatalf("read user: %v", err)
	}
	if netProfit != -250 {
		t.Fatalf("net profit = %d, want -250", netProfit)
	}
	if gamesPlayed != 1 {
		t.Fatalf("games played = %d, want 1", gamesPlayed)
	}

	var totalBet, totalWon int64
	err = db.QueryRow(ctx, `
		SELECT total_bet, total_won FROM games WHERE id = $1
	`, game.ID).Scan(&totalBet, &totalWon)
	if err != nil {
		t.Fatalf("read game: %v", err)
	}
	if totalBet != 250 || totalWon != 0 {
		t.Fatalf("round totals = bet %d won %d, want 250 and 0", totalBet, totalWon)
	}
}

func TestRoundCrashPointMatchesFairness(t *testing.T) {
	db := connectDB(t)
	svc := newRoundService(db)
	ctx := context.Background()

	game, err := svc.StartRound(ctx)
	if err != nil {
		t.Fatalf("start round: %v", err)
	}
	if _, err := svc.EndRound(ctx, game.ID); err != nil {
		t.Fatalf("end round: %v", err)
	}

	var crash float64
	if err := db.QueryRow(ctx, `SELECT game_crash FROM games WHERE id = $1`, game.ID).Scan(&crash); err != nil {
		t.Fatalf("read game: %v", err)
	}

	want, wantHash := service.VerifyCrashPoint("integration-seed", game.ID)
	if crash != want {
		t.Fatalf("crash point %v, verification says %v", crash, want)
	}

	var hash string
	if err := db.QueryRow(ctx, `SELECT hash FROM game_hashes WHERE game_id = $1`, game.ID).Scan(&hash); err != nil {
		t.Fatalf("read hash: %v", err)
	}
	if hash != wantHash {
		t.Fatalf("stored hash %s, verification says %s", hash, wantHash)
	}
}

// A rolled-back insert consumes a sequence value without creating a row.
// The fairness nonce is drawn from the same sequence, so verification still
// matches after such a gap.
func TestRoundVerificationSurvivesIDGap(t *testing.T) {
	db := connectDB(t)
	svc := newRoundService(db)
	ctx := context.Background()

	var burned int64
	if err := db.QueryRow(ctx, `SELECT nextval(pg_get_serial_sequence('games', 'id'))`).Scan(&burned); err != nil {
		t.Fatalf("burn sequence value: %v", err)
	}

	game, err := svc.StartRound(ctx)
	if err != nil {
		t.Fatalf("start round: %v", err)
	}
	if game.ID <= burned {
		t.Fatalf("game id %d not past burned value %d", game.ID, burned)
	}

	if _, err := svc.EndRound(ctx, game.ID); err != nil {
		t.Fatalf("end round: %v", err)
	}

	var crash float64
	if err := db.QueryRow(ctx, `SELECT game_crash FROM games WHERE id = $1`, game.ID).Scan(&crash); err != nil {
		t.Fatalf("read game: %v", err)
	}
	if want, _ := service.VerifyCrashPoint("integration-seed", game.ID); crash != want {
		t.Fatalf("crash point %v, verification says %v", crash, want)
	}
}

// A cash-out at exactly the crash multiplier wins. 1.15 is one of the crash
// points whose double representation times 100 falls just under 115, so this
// pins the boundary against truncation.
func TestRoundCashOutAtExactCrashPoint(t *testing.T) {
	db := connectDB(t)
	svc := newRoundService(db)
	ctx := context.Background()

	manual := createUser(t, db, "nina", 1000)
	auto := createUser(t, db, "omar", 1000)

	game, err := repository.NewGameRepository(db).CreateNewGame(ctx, 1.15)
	if err != nil {
		t.Fatalf("create game: %v", err)
	}

	play, err := svc.PlaceBet(ctx, manual.ID, game.ID, 200, 0)
	if err != nil {
		t.Fatalf("place bet: %v", err)
	}
	if _, err := svc.PlaceBet(ctx, auto.ID, game.ID, 200, 115); err != nil {
		t.Fatalf("place auto bet: %v", err)
	}

	if _, err := svc.CashOut(ctx, play.ID, 116); !errors.Is(err, service.ErrCashOutTooHigh) {
		t.Fatalf("cash out above crash err = %v, want ErrCashOutTooHigh", err)
	}

	settled, err := svc.CashOut(ctx, play.ID, 115)
	if err != nil {
		t.Fatalf("cash out at crash point: %v", err)
	}
	if settled.CashOut == nil || *settled.CashOut != 230 {
		t.Fatalf("cash out amount = %v, want 230", settled.CashOut)
	}

	if _, err := svc.EndRound(ctx, game.ID); err != nil {
		t.Fatalf("end round: %v", err)
	}
	// The auto cash-out targeted exactly the crash point, so settlement pays
	// it rather than booking a loss.
	if got := userBalance(t, db, auto.ID); got != 1030 {
		t.Fatalf("auto player balance = %d, want 1030", got)
	}
}
