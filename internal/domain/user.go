package domain

import "time"

// Userclass values. Anything but admin is a regular player.
const (
	UserclassAdmin  = "admin"
	UserclassMember = "user"
)

type User struct {
	ID              int64     `json:"id"`
	Username        string    `json:"username"`
	Email           string    `json:"email"`
	PasswordHash    string    `json:"-"`
	MFASecret       string    `json:"-"`
	BalanceSatoshis int64     `json:"balance_satoshis"`
	GrossProfit     int64     `json:"gross_profit"`
	NetProfit       int64     `json:"net_profit"`
	GamesPlayed     int64     `json:"games_played"`
	Userclass       string    `json:"userclass"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
