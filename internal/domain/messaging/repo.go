package messaging

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, m *Message) error

	// Thread returns every message between the two users, oldest first.
	Thread(ctx context.Context, a, b uuid.UUID) ([]*Message, error)

	// MarkRead flags every message from sender to recipient as read and
	// returns how many rows changed.
	MarkRead(ctx context.Context, recipient, sender uuid.UUID) (int, error)

	// Conversations returns the user's inbox, most recent thread first.
	Conversations(ctx context.Context, userID uuid.UUID) ([]*Conversation, error)
}
