package messaging

import (
	"time"

	"github.com/google/uuid"
)

// Message maps to the messages table. Sender and recipient are user ids, not
// role-profile ids; messaging works across the patient/doctor boundary.
type Message struct {
	ID          uuid.UUID `db:"id" json:"id"`
	SenderID    uuid.UUID `db:"sender_id" json:"sender_id"`
	RecipientID uuid.UUID `db:"recipient_id" json:"recipient_id"`
	Content     string    `db:"content" json:"content"`
	Read        bool      `db:"read" json:"read"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Conversation is one row of the inbox listing: the counterpart plus the
// latest message and how many of their messages are still unread.
type Conversation struct {
	UserID        uuid.UUID `json:"user_id"`
	Name          string    `json:"name"`
	Role          string    `json:"role"`
	LastMessage   string    `json:"last_message"`
	LastMessageAt time.Time `json:"last_message_at"`
	UnreadCount   int       `json:"unread_count"`
}
