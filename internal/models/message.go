package models

import (
	"time"

	"github.com/google/uuid"
)

// Message is a direct chat message between a client and a worker.
type Message struct {
	ID           uuid.UUID `json:"id"`
	SenderFromID uuid.UUID `json:"senderFromId"`
	SenderToID   uuid.UUID `json:"senderToId"`
	Content      string    `json:"content"`
	SentAt       time.Time `json:"sentAt"`
}

// ConversationUser is a chat partner entry in the conversation list.
type ConversationUser struct {
	UserID    uuid.UUID `json:"userId"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	LastSent  time.Time `json:"lastSent"`
}
