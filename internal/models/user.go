package models

import "time"

// User represents a registered account.
type User struct {
	ID           string    `json:"id"`
	Fullname     string    `json:"fullname"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose this to the client
	RegisteredAt time.Time `json:"registeredAt"`
}
