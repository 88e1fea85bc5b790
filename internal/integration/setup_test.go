package integration

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"crash_webapp/internal/domain"
	"crash_webapp/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
)

// connectDB opens a pool against DATABASE_URL, applies the migrations and
// clears every table so tests start from a known state. Tests are skipped
// when DATABASE_URL is not set.
func connectDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}

	db, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(db.Close)

	applyMigrations(t, db)
	resetTables(t, db)
	return db
}

func applyMigrations(t *testing.T, db *pgxpool.Pool) {
	t.Helper()
	migDir := filepath.Join("..", "..", "internal", "migrations")
	files, err := os.ReadDir(migDir)
	if err != nil {
		t.Fatalf("read migrations: %v", err)
	}
	for _, f := range files {
		b, err := os.ReadFile(filepath.Join(migDir, f.Name()))
		if err != nil {
			t.Fatalf("read file: %v", err)
		}
		if _, err := db.Exec(context.Background(), string(b)); err != nil {
			t.Fatalf("apply migration %s: %v", f.Name(), err)
		}
	}
}

func resetTables(t *testing.T, db *pgxpool.Pool) {
	t.Helper()
	_, err := db.Exec(context.Background(), `
		TRUNCATE users, games, plays, fundings, giveaways, chat_messages,
		         game_hashes, recovery
		RESTART IDENTITY CASCADE
	`)
	if err != nil {
		t.Fatalf("reset tables: %v", err)
	}
}

func createUser(t *testing.T, db *pgxpool.Pool, username string, balance int64) *domain.User {
	t.Helper()

	repo := repository.NewUserRepository(db)
	u := &domain.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
	}
	if err := repo.Create(context.Background(), u); err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	if balance > 0 {
		if _, err := repo.Credit(context.Background(), u.ID, balance); err != nil {
			t.Fatalf("credit user %s: %v", username, err)
		}
		u.BalanceSatoshis = balance
	}
	return u
}

// createEndedGame inserts a round with the given crash point and immediately
// settles it, so the single-live-round index is free for the next insert.
func createEndedGame(t *testing.T, db *pgxpool.Pool, crashPoint float64) *domain.Game {
	t.Helper()

	repo := repository.NewGameRepository(db)
	g, err := repo.CreateNewGame(context.Background(), crashPoint)
	if err != nil {
		t.Fatalf("create game: %v", err)
	}
	if _, err := repo.EndGame(context.Background(), g.ID); err != nil {
		t.Fatalf("end game: %v", err)
	}
	g.Ended = true
	return g
}

func userBalance(t *testing.T, db *pgxpool.Pool, userID int64) int64 {
	t.Helper()

	var balance int64
	err := db.QueryRow(context.Background(),
		`SELECT balance_satoshis FROM users WHERE id = $1`, userID).Scan(&balance)
	if err != nil {
		t.Fatalf("read balance: %v", err)
	}
	return balance
}
