package domain

import "time"

// Game is one betting round. GameCrash is the multiplier the round busts at,
// fixed before any bet is accepted and committed via the GameHash. TotalBet
// and TotalWon are denormalized at settlement so the aggregate endpoints do
// not have to join plays.
type Game struct {
	ID        int64     `json:"id"`
	GameCrash float64   `json:"game_crash"`
	Ended     bool      `json:"ended"`
	TotalBet  int64     `json:"total_bet"`
	TotalWon  int64     `json:"total_won"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GameHash is the provable-fairness commitment for a round, published before
// the round starts. Immutable once written.
type GameHash struct {
	GameID int64  `json:"game_id"`
	Hash   string `json:"hash"`
}

// GameCrashPoint is the slim projection used by the recent-games endpoint.
type GameCrashPoint struct {
	ID        int64   `json:"id"`
	GameCrash float64 `json:"game_crash"`
}

// GamePlayerCount pairs a game with how many plays it attracted.
type GamePlayerCount struct {
	Game        Game  `json:"game"`
	PlayerCount int64 `json:"player_count"`
}
