package domain

import "time"

// Giveaway is a promotional credit handed to a user.
type Giveaway struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Amount    int64     `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}
