package integration

import (
	"context"
	"testing"

	"crash_webapp/internal/domain"
	"crash_webapp/internal/repository"
)

func TestPlayRepositoryTopPlayersByTotalBetAmount(t *testing.T) {
	db := connectDB(t)
	repo := repository.NewPlayRepository(db)
	ctx := context.Background()

	u1 := createUser(t, db, "alice", 0)
	u2 := createUser(t, db, "bob", 0)
	u3 := createUser(t, db, "carol", 0)

	g1 := createEndedGame(t, db, 2.0)
	g2 := createEndedGame(t, db, 3.0)

	for _, p := range []domain.Play{
		{UserID: u1.ID, GameID: g1.ID, Bet: 100},
		{UserID: u2.ID, GameID: g1.ID, Bet: 50},
		{UserID: u1.ID, GameID: g2.ID, Bet: 20},
		{UserID: u3.ID, GameID: g2.ID, Bet: 200},
	} {
		p := p
		if err := repo.Create(ctx, &p); err != nil {
			t.Fatalf("create play: %v", err)
		}
	}

	top, err := repo.TopPlayersByTotalBetAmount(ctx, 10)
	if err != nil {
		t.Fatalf("top players: %v", err)
	}
	if len(top) != 3 {
		t.Fatalf("got %d players, want 3", len(top))
	}

	want := []domain.PlayerTotal{
		{UserID: u3.ID, TotalBetAmount: 200},
		{UserID: u1.ID, TotalBetAmount: 120},
		{UserID: u2.ID, TotalBetAmount: 50},
	}
	for i, w := range want {
		if top[i] != w {
			t.Fatalf("rank %d = %+v, want %+v", i, top[i], w)
		}
	}
}

func TestPlayRepositoryDeleteMissing(t *testing.T) {
	db := connectDB(t)
	repo := repository.NewPlayRepository(db)

	deleted, err := repo.Delete(context.Background(), 99999)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if deleted {
		t.Fatal("delete of a missing play reported true")
	}
}

func TestPlayRepositoryProfitFigures(t *testing.T) {
	db := connectDB(t)
	repo := repository.NewPlayRepository(db)
	ctx := context.Background()

	u := createUser(t, db, "dave", 0)
	g1 := createEndedGame(t, db, 2.0)
	g2 := createEndedGame(t, db, 3.0)

	cashOut := int64(250)
	win := domain.Play{UserID: u.ID, GameID: g1.ID, Bet: 100, CashOut: &cashOut}
	if err := repo.Create(ctx, &win); err != nil {
		t.Fatalf("create winning play: %v", err)
	}
	loss := domain.Play{UserID: u.ID, GameID: g2.ID, Bet: 80}
	if err := repo.Create(ctx, &loss); err != nil {
		t.Fatalf("create losing play: %v", err)
	}

	// Gross profit counts only the credited cash-outs.
	gross, err := repo.UserProfit(ctx, u.ID)
	if err != nil {
		t.Fatalf("user profit: %v", err)
	}
	if gross != 250 {
		t.Fatalf("gross profit = %d, want 250", gross)
	}

	plays, err := repo.UserPlays(ctx, u.ID, 0)
	if err != nil {
		t.Fatalf("user plays: %v", err)
	}
	var net int64
	for i := range plays {
		net += plays[i].Profit()
	}
	if net != 70 {
		t.Fatalf("net profit = %d, want 70 (250-100-80)", net)
	}
}

func TestPlayRepositoryLeaderboardAndRank(t *testing.T) {
	db := connectDB(t)
	repo := repository.NewPlayRepository(db)
	ctx := context.Background()

	u1 := createUser(t, db, "erin", 0)
	u2 := createUser(t, db, "frank", 0)

	g := createEndedGame(t, db, 5.0)

	big := int64(500)
	if err := repo.Create(ctx, &domain.Play{UserID: u1.ID, GameID: g.ID, Bet: 100, CashOut: &big}); err != nil {
		t.Fatalf("create play: %v", err)
	}
	if err := repo.Create(ctx, &domain.Play{UserID: u2.ID, GameID: g.ID, Bet: 100}); err != nil {
		t.Fatalf("create play: %v", err)
	}

	board, err := repo.Leaderboard(ctx, 10)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(board) != 2 {
		t.Fatalf("got %d entries, want 2", len(board))
	}
	if board[0].UserID != u1.ID || board[0].NetProfit != 400 {
		t.Fatalf("first entry = %+v, want user %d with profit 400", board[0], u1.ID)
	}
	if board[1].UserID != u2.ID || board[1].NetProfit != -100 {
		t.Fatalf("second entry = %+v, want user %d with profit -100", board[1], u2.ID)
	}

	rank, profit, err := repo.UserRank(ctx, u2.ID)
	if err != nil {
		t.Fatalf("user rank: %v", err)
	}
	if rank != 2 || profit != -100 {
		t.Fatalf("rank = %d profit = %d, want 2 and -100", rank, profit)
	}
}

func TestPlayRepositoryUserStats(t *testing.T) {
	db := connectDB(t)
	repo := repository.NewPlayRepository(db)
	ctx := context.Background()

	u := createUser(t, db, "grace", 0)
	g1 := createEndedGame(t, db, 2.0)
	g2 := createEndedGame(t, db, 2.0)
	g3 := createEndedGame(t, db, 2.0)

	cashOut := int64(200)
	if err := repo.Create(ctx, &domain.Play{UserID: u.ID, GameID: g1.ID, Bet: 100, CashOut: &cashOut}); err != nil {
		t.Fatalf("create play: %v", err)
	}
	if err := repo.Create(ctx, &domain.Play{UserID: u.ID, GameID: g2.ID, Bet: 50}); err != nil {
		t.Fatalf("create play: %v", err)
	}
	if err := repo.Create(ctx, &domain.Play{UserID: u.ID, GameID: g3.ID, Bet: 25}); err != nil {
		t.Fatalf("create play: %v", err)
	}

	stats, err := repo.UserStats(ctx, u.ID)
	if err != nil {
		t.Fatalf("user stats: %v", err)
	}
	if stats.TotalPlays != 3 || stats.CashedOut != 1 || stats.Lost != 2 {
		t.Fatalf("stats = %+v, want 3 plays, 1 cashed out, 2 lost", stats)
	}
	if stats.TotalBet != 175 || stats.TotalCashed != 200 {
		t.Fatalf("stats = %+v, want total bet 175 and total cashed 200", stats)
	}

	// A play in a round that is still live is neither cashed out nor lost.
	live, err := repository.NewGameRepository(db).CreateNewGame(ctx, 2.0)
	if err != nil {
		t.Fatalf("create live game: %v", err)
	}
	if err := repo.Create(ctx, &domain.Play{UserID: u.ID, GameID: live.ID, Bet: 10}); err != nil {
		t.Fatalf("create play: %v", err)
	}
	stats, err = repo.UserStats(ctx, u.ID)
	if err != nil {
		t.Fatalf("user stats: %v", err)
	}
	if stats.TotalPlays != 4 || stats.CashedOut != 1 || stats.Lost != 2 {
		t.Fatalf("stats = %+v, want the live play counted in total only", stats)
	}
}
