package domain

import (
	"time"

	"github.com/google/uuid"
)

// Recovery is a single-use password-recovery token.
type Recovery struct {
	ID        uuid.UUID  `json:"id"`
	UserID    int64      `json:"user_id"`
	IP        string     `json:"ip"`
	Expired   *time.Time `json:"expired,omitempty"`
	Used      bool       `json:"used"`
	CreatedAt time.Time  `json:"created_at"`
}
