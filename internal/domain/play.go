package domain

import "time"

// Play is one user's bet within one game. Bet, CashOut and Bonus are amounts
// in satoshis; AutoCashOut is a multiplier in hundredths (250 = 2.50x).
// CashOut stays nil while the round is live and the player has not exited;
// a play whose round ended with CashOut still nil lost its bet.
type Play struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	GameID      int64     `json:"game_id"`
	Bet         int64     `json:"bet"`
	CashOut     *int64    `json:"cash_out"`
	AutoCashOut *int64    `json:"auto_cash_out"`
	Bonus       *int64    `json:"bonus"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CashedOut reports whether the player exited before the crash.
func (p *Play) CashedOut() bool {
	return p.CashOut != nil
}

// Profit is (cash_out - bet) + bonus for a settled play, -bet for a loss.
func (p *Play) Profit() int64 {
	profit := -p.Bet
	if p.CashOut != nil {
		profit += *p.CashOut
	}
	if p.Bonus != nil {
		profit += *p.Bonus
	}
	return profit
}

// PlayerTotal is one row of the top-players-by-bet aggregation.
type PlayerTotal struct {
	UserID         int64 `json:"user_id"`
	TotalBetAmount int64 `json:"total_bet_amount"`
}

// LeaderboardEntry ranks a user by net profit across all plays.
type LeaderboardEntry struct {
	Rank      int    `json:"rank"`
	UserID    int64  `json:"user_id"`
	Username  string `json:"username"`
	NetProfit int64  `json:"net_profit"`
}

// PlayStats summarizes a user's betting history.
type PlayStats struct {
	UserID      int64 `json:"user_id"`
	TotalPlays  int   `json:"total_plays"`
	CashedOut   int   `json:"cashed_out"`
	Lost        int   `json:"lost"`
	TotalBet    int64 `json:"total_bet"`
	TotalCashed int64 `json:"total_cashed"`
}
