package models

import "time"

// Bank is a user-defined container of accounts. (user_id, name) is unique.
type Bank struct {
	ID        int64      `json:"id"`
	UserID    int64      `json:"user_id"`
	Name      string     `json:"name"`
	Accounts  []*Account `json:"accounts,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
