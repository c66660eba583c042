package models

import (
	"time"
)

const (
	SenderUser      = "user"
	SenderAssistant = "assistant"
)

// Message is one entry in a trial's conversation. Text and ImageURL are both
// optional; ImageURL, when present, is a data URL.
type Message struct {
	Sender    string    `json:"sender"`
	Text      string    `json:"text,omitempty"`
	ImageURL  string    `json:"imageUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Trial is a named try-on session owned by exactly one user. The message
// list is embedded and always replaced wholesale, never appended in place.
type Trial struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"createdAt"`
}
