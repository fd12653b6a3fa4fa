package messaging

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/carewell/hms/internal/platform/db"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) db.Queryable {
	return db.Conn(ctx, r.pool)
}

func (r *repoPG) Create(ctx context.Context, m *Message) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO messages (id, sender_id, recipient_id, content)
		VALUES ($1,$2,$3,$4)`,
		m.ID, m.SenderID, m.RecipientID, m.Content)
	return err
}

func (r *repoPG) Thread(ctx context.Context, a, b uuid.UUID) ([]*Message, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, sender_id, recipient_id, content, read, created_at
		FROM messages
		WHERE (sender_id = $1 AND recipient_id = $2)
		   OR (sender_id = $2 AND recipient_id = $1)
		ORDER BY created_at ASC`,
		a, b)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.SenderID, &m.RecipientID, &m.Content, &m.Read, &m.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, &m)
	}
	return items, rows.Err()
}

func (r *repoPG) MarkRead(ctx context.Context, recipient, sender uuid.UUID) (int, error) {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE messages SET read = TRUE
		WHERE recipient_id = $1 AND sender_id = $2 AND read = FALSE`,
		recipient, sender)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

func (r *repoPG) Conversations(ctx context.Context, userID uuid.UUID) ([]*Conversation, error) {
	// One row per counterpart: the latest message wins, unread counts only
	// messages addressed to the caller.
	rows, err := r.conn(ctx).Query(ctx, `
		WITH threads AS (
			SELECT
				CASE WHEN sender_id = $1 THEN recipient_id ELSE sender_id END AS other_id,
				content, created_at,
				CASE WHEN recipient_id = $1 AND read = FALSE THEN 1 ELSE 0 END AS unread,
				ROW_NUMBER() OVER (
					PARTITION BY CASE WHEN sender_id = $1 THEN recipient_id ELSE sender_id END
					ORDER BY created_at DESC
				) AS rn
			FROM messages
			WHERE sender_id = $1 OR recipient_id = $1
		)
		SELECT t.other_id,
			u.first_name || ' ' || u.last_name,
			u.role,
			latest.content,
			latest.created_at,
			COALESCE(SUM(t.unread), 0)
		FROM threads t
		JOIN threads latest ON latest.other_id = t.other_id AND latest.rn = 1
		JOIN users u ON u.id = t.other_id
		GROUP BY t.other_id, u.first_name, u.last_name, u.role, latest.content, latest.created_at
		ORDER BY latest.created_at DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Conversation
	for rows.Next() {
		var c Conversation
		if err := rows.Scan(&c.UserID, &c.Name, &c.Role, &c.LastMessage, &c.LastMessageAt, &c.UnreadCount); err != nil {
			return nil, err
		}
		items = append(items, &c)
	}
	return items, rows.Err()
}
