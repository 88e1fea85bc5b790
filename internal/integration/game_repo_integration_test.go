package integration

import (
	"context"
	"testing"
	"time"

	"crash_webapp/internal/repository"
)

func TestGameRepositoryEndGameIdempotent(t *testing.T) {
	db := connectDB(t)
	repo := repository.NewGameRepository(db)
	ctx := context.Background()

	g, err := repo.CreateNewGame(ctx, 2.5)
	if err != nil {
		t.Fatalf("create game: %v", err)
	}

	current, err := repo.GetCurrentGame(ctx)
	if err != nil {
		t.Fatalf("get current: %v", err)
	}
	if current == nil || current.ID != g.ID {
		t.Fatalf("current game = %v, want id %d", current, g.ID)
	}

	affected, err := repo.EndGame(ctx, g.ID)
	if err != nil {
		t.Fatalf("end game: %v", err)
	}
	if affected != 1 {
		t.Fatalf("first end affected %d rows, want 1", affected)
	}

	affected, err = repo.EndGame(ctx, g.ID)
	if err != nil {
		t.Fatalf("second end game: %v", err)
	}
	if affected != 0 {
		t.Fatalf("second end affected %d rows, want 0", affected)
	}

	current, err = repo.GetCurrentGame(ctx)
	if err != nil {
		t.Fatalf("get current after end: %v", err)
	}
	if current != nil {
		t.Fatalf("expected no current game, got id %d", current.ID)
	}
}

func TestGameRepositoryEmptyAggregates(t *testing.T) {
	db := connectDB(t)
	repo := repository.NewGameRepository(db)
	ctx := context.Background()

	if avg, err := repo.AverageCrashPoint(ctx); err != nil || avg != 0 {
		t.Fatalf("average = %v, %v; want 0, nil", avg, err)
	}
	if highest, err := repo.HighestCrashPoint(ctx); err != nil || highest != 0 {
		t.Fatalf("highest = %v, %v; want 0, nil", highest, err)
	}
	if lowest, err := repo.LowestCrashPoint(ctx); err != nil || lowest != 0 {
		t.Fatalf("lowest = %v, %v; want 0, nil", lowest, err)
	}
	if total, err := repo.TotalGamesPlayed(ctx); err != nil || total != 0 {
		t.Fatalf("total games = %v, %v; want 0, nil", total, err)
	}
	if streak, err := repo.LongestStreakAboveCrashPoint(ctx, 2.0); err != nil || streak != 0 {
		t.Fatalf("streak above = %v, %v; want 0, nil", streak, err)
	}
	if streak, err := repo.LongestStreakBelowCrashPoint(ctx, 2.0); err != nil || streak != 0 {
		t.Fatalf("streak below = %v, %v; want 0, nil", streak, err)
	}
	if game, err := repo.MostRecentGame(ctx); err != nil || game != nil {
		t.Fatalf("most recent = %v, %v; want nil, nil", game, err)
	}
}

func TestGameRepositoryStreaks(t *testing.T) {
	db := connectDB(t)
	repo := repository.NewGameRepository(db)
	ctx := context.Background()

	// Above 1.5: a run of two (2.0, 3.5). Below 1.5: a run of two (1.2, 1.1).
	for _, crash := range []float64{2.0, 3.5, 1.2, 1.1, 4.0} {
		createEndedGame(t, db, crash)
	}

	above, err := repo.LongestStreakAboveCrashPoint(ctx, 1.5)
	if err != nil {
		t.Fatalf("streak above: %v", err)
	}
	if above != 2 {
		t.Fatalf("streak above 1.5 = %d, want 2", above)
	}

	below, err := repo.LongestStreakBelowCrashPoint(ctx, 1.5)
	if err != nil {
		t.Fatalf("streak below: %v", err)
	}
	if below != 2 {
		t.Fatalf("streak below 1.5 = %d, want 2", below)
	}
}

func TestGameRepositoryStreakBoundaryValueBreaksBoth(t *testing.T) {
	db := connectDB(t)
	repo := repository.NewGameRepository(db)
	ctx := context.Background()

	// A round crashing exactly at the threshold is neither above nor below,
	// so it breaks runs on both sides.
	for _, crash := range []float64{2.0, 2.0, 1.5, 2.0, 1.2, 1.5, 1.2} {
		createEndedGame(t, db, crash)
	}

	above, err := repo.LongestStreakAboveCrashPoint(ctx, 1.5)
	if err != nil {
		t.Fatalf("streak above: %v", err)
	}
	if above != 2 {
		t.Fatalf("streak above 1.5 = %d, want 2", above)
	}

	below, err := repo.LongestStreakBelowCrashPoint(ctx, 1.5)
	if err != nil {
		t.Fatalf("streak below: %v", err)
	}
	if below != 1 {
		t.Fatalf("streak below 1.5 = %d, want 1", below)
	}
}

func TestGameRepositoryCrashPointCountsStrict(t *testing.T) {
	db := connectDB(t)
	repo := repository.NewGameRepository(db)
	ctx := context.Background()

	for _, crash := range []float64{1.0, 1.5, 1.5, 2.0, 3.0} {
		createEndedGame(t, db, crash)
	}

	above, err := repo.CountAboveCrashPoint(ctx, 1.5)
	if err != nil {
		t.Fatalf("count above: %v", err)
	}
	if above != 2 {
		t.Fatalf("count above 1.5 = %d, want 2 (strict inequality)", above)
	}

	below, err := repo.CountBelowCrashPoint(ctx, 1.5)
	if err != nil {
		t.Fatalf("count below: %v", err)
	}
	if below != 1 {
		t.Fatalf("count below 1.5 = %d, want 1 (strict inequality)", below)
	}
}

func TestGameRepositoryCrashPointRangeInclusive(t *testing.T) {
	db := connectDB(t)
	repo := repository.NewGameRepository(db)
	ctx := context.Background()

	for _, crash := range []float64{1.0, 1.5, 2.0, 2.5, 3.0} {
		createEndedGame(t, db, crash)
	}

	games, err := repo.GamesByCrashPointRange(ctx, 1.5, 2.5, 0)
	if err != nil {
		t.Fatalf("range query: %v", err)
	}
	if len(games) != 3 {
		t.Fatalf("got %d games in [1.5, 2.5], want 3 (bounds inclusive)", len(games))
	}
	for _, g := range games {
		if g.GameCrash < 1.5 || g.GameCrash > 2.5 {
			t.Fatalf("game %d crash %v outside [1.5, 2.5]", g.ID, g.GameCrash)
		}
	}
}

func TestGameRepositorySingleLiveRound(t *testing.T) {
	db := connectDB(t)
	repo := repository.NewGameRepository(db)
	ctx := context.Background()

	g, err := repo.CreateNewGame(ctx, 2.0)
	if err != nil {
		t.Fatalf("create game: %v", err)
	}

	if _, err := repo.CreateNewGame(ctx, 3.0); err == nil {
		t.Fatal("expected unique violation creating a second live round")
	}

	if _, err := repo.EndGame(ctx, g.ID); err != nil {
		t.Fatalf("end game: %v", err)
	}
	if _, err := repo.CreateNewGame(ctx, 3.0); err != nil {
		t.Fatalf("create after end: %v", err)
	}
}

func TestGameRepositoryDateRangeNewestFirst(t *testing.T) {
	db := connectDB(t)
	repo := repository.NewGameRepository(db)
	ctx := context.Background()

	first := createEndedGame(t, db, 1.5)
	second := createEndedGame(t, db, 2.0)
	third := createEndedGame(t, db, 2.5)

	from := time.Now().Add(-time.Hour)
	to := time.Now().Add(time.Hour)
	games, err := repo.GamesWithinDateRange(ctx, from, to)
	if err != nil {
		t.Fatalf("date range query: %v", err)
	}
	if len(games) != 3 {
		t.Fatalf("got %d games, want 3", len(games))
	}
	if games[0].ID != third.ID || games[1].ID != second.ID || games[2].ID != first.ID {
		t.Fatalf("got order %d,%d,%d, want newest first", games[0].ID, games[1].ID, games[2].ID)
	}
}
