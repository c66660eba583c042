package models

import (
	"time"
)

// User is the persisted account record. Images holds the user's reference
// photos as data URLs, capped at MaxProfileImages.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Images       []string  `json:"images"`
	CreatedAt    time.Time `json:"createdAt"`
}

// MaxProfileImages bounds the number of stored reference photos per user.
const MaxProfileImages = 3
