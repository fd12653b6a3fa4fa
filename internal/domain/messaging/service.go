package messaging

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/carewell/hms/internal/domain/account"
	"github.com/carewell/hms/internal/platform/auth"
	"github.com/carewell/hms/internal/platform/db"
)

// UserReader loads the recipient for role validation.
type UserReader interface {
	GetUser(ctx context.Context, id uuid.UUID) (*account.User, error)
}

// SendRequest is the message payload.
type SendRequest struct {
	RecipientID uuid.UUID `json:"recipient_id"`
	Content     string    `json:"content"`
}

type Service struct {
	repo  Repository
	users UserReader
	inTx  db.Runner
}

func NewService(repo Repository, users UserReader, inTx db.Runner) *Service {
	return &Service{repo: repo, users: users, inTx: inTx}
}

// Send delivers a message across the patient/doctor boundary. Same-role
// messaging is refused.
func (s *Service) Send(ctx context.Context, sender auth.Identity, req *SendRequest) (*Message, error) {
	if req.RecipientID == uuid.Nil {
		return nil, fmt.Errorf("%w: recipient_id is required", ErrValidation)
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, fmt.Errorf("%w: content is required", ErrValidation)
	}
	if req.RecipientID == sender.UserID {
		return nil, fmt.Errorf("%w: cannot message yourself", ErrValidation)
	}

	recipient, err := s.users.GetUser(ctx, req.RecipientID)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return nil, ErrRecipientNotFound
		}
		return nil, err
	}
	if !rolesCanMessage(sender.Role, recipient.Role) {
		return nil, ErrInvalidRecipient
	}

	m := &Message{
		SenderID:    sender.UserID,
		RecipientID: req.RecipientID,
		Content:     content,
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func rolesCanMessage(from, to string) bool {
	switch from {
	case auth.RolePatient:
		return to == auth.RoleDoctor
	case auth.RoleDoctor:
		return to == auth.RolePatient
	}
	return false
}

// Thread returns the full conversation with another user, oldest first, and
// marks the counterpart's messages as read in the same transaction.
func (s *Service) Thread(ctx context.Context, callerUserID, otherUserID uuid.UUID) ([]*Message, error) {
	var items []*Message
	err := s.inTx(ctx, func(ctx context.Context) error {
		var err error
		items, err = s.repo.Thread(ctx, callerUserID, otherUserID)
		if err != nil {
			return err
		}
		_, err = s.repo.MarkRead(ctx, callerUserID, otherUserID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*Message{}
	}
	// Reflect the mark-read in the returned payload.
	for _, m := range items {
		if m.RecipientID == callerUserID {
			m.Read = true
		}
	}
	return items, nil
}

// Conversations returns the caller's inbox.
func (s *Service) Conversations(ctx context.Context, callerUserID uuid.UUID) ([]*Conversation, error) {
	items, err := s.repo.Conversations(ctx, callerUserID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*Conversation{}
	}
	return items, nil
}
