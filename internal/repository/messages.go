// internal/repository/messages.go
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"roommate-finder/internal/models"
)

type MessageRepository struct {
	db *sql.DB
}

func NewMessageRepository(db *sql.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create inserts a message, assigning ID and CreatedAt. A sender, recipient or
// listing that no longer exists yields ErrMissingReference.
func (r *MessageRepository) Create(ctx context.Context, m *models.Message) error {
	m.ID = uuid.New().String()
	m.CreatedAt = time.Now().UTC()
	m.Read = false

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO messages (id, sender_id, recipient_id, listing_id, content, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		m.ID, m.SenderID, m.RecipientID, m.ListingID, m.Content, m.Read, m.CreatedAt)
	if isForeignKeyViolation(err) {
		return fmt.Errorf("insert message: %w", ErrMissingReference)
	}
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

// Thread returns every message exchanged between a and b, oldest first.
func (r *MessageRepository) Thread(ctx context.Context, a, b string) ([]models.Message, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT m.id, m.sender_id, s.name, m.recipient_id, rc.name, m.listing_id, m.content, m.read, m.created_at
		FROM messages m
		JOIN users s ON s.id = m.sender_id
		JOIN users rc ON rc.id = m.recipient_id
		WHERE (m.sender_id = $1 AND m.recipient_id = $2) OR (m.sender_id = $2 AND m.recipient_id = $1)
		ORDER BY m.created_at ASC`, a, b)
	if err != nil {
		return nil, fmt.Errorf("query thread: %w", err)
	}
	defer rows.Close()

	messages := make([]models.Message, 0)
	for rows.Next() {
		var (
			m                         models.Message
			senderName, recipientName string
			listingID                 sql.NullString
		)
		if err := rows.Scan(&m.ID, &m.SenderID, &senderName, &m.RecipientID, &recipientName,
			&listingID, &m.Content, &m.Read, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		m.Sender = &models.PublicUser{ID: m.SenderID, Name: senderName}
		m.Recipient = &models.PublicUser{ID: m.RecipientID, Name: recipientName}
		if listingID.Valid {
			m.ListingID = &listingID.String
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// MarkThreadRead flags every unread message from other to reader as read.
func (r *MessageRepository) MarkThreadRead(ctx context.Context, reader, other string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE messages SET read = true
		WHERE sender_id = $1 AND recipient_id = $2 AND read = false`, other, reader)
	if err != nil {
		return 0, fmt.Errorf("mark thread read: %w", err)
	}
	return res.RowsAffected()
}

// Conversations lists one entry per correspondent, most recent exchange first.
// Correspondents are identified by id and name only.
func (r *MessageRepository) Conversations(ctx context.Context, userID string) ([]models.Conversation, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT ON (m.other_id)
			m.other_id, u.name,
			m.id, m.sender_id, m.recipient_id, m.listing_id, m.content, m.read, m.created_at,
			(SELECT count(*) FROM messages x
			 WHERE x.sender_id = m.other_id AND x.recipient_id = $1 AND x.read = false) AS unread
		FROM (
			SELECT *, CASE WHEN sender_id = $1 THEN recipient_id ELSE sender_id END AS other_id
			FROM messages
			WHERE sender_id = $1 OR recipient_id = $1
		) m
		JOIN users u ON u.id = m.other_id
		ORDER BY m.other_id, m.created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("query conversations: %w", err)
	}
	defer rows.Close()

	conversations := make([]models.Conversation, 0)
	for rows.Next() {
		var (
			c         models.Conversation
			listingID sql.NullString
		)
		m := &c.LastMessage
		if err := rows.Scan(&c.User.ID, &c.User.Name,
			&m.ID, &m.SenderID, &m.RecipientID, &listingID, &m.Content, &m.Read, &m.CreatedAt,
			&c.UnreadCount); err != nil {
			return nil, fmt.Errorf("scan conversation: %w", err)
		}
		if listingID.Valid {
			m.ListingID = &listingID.String
		}
		conversations = append(conversations, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(conversations, func(i, j int) bool {
		return conversations[i].LastMessage.CreatedAt.After(conversations[j].LastMessage.CreatedAt)
	})
	return conversations, nil
}

// UnreadCount is the number of unread messages addressed to userID.
func (r *MessageRepository) UnreadCount(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT count(*) FROM messages WHERE recipient_id = $1 AND read = false`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count unread: %w", err)
	}
	return n, nil
}
