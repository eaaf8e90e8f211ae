package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roommate-finder/internal/models"
)

func TestMessageRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	listingID := "l-1"

	mock.ExpectExec(`INSERT INTO messages`).
		WithArgs(sqlmock.AnyArg(), "u-1", "u-2", "l-1", "Is the room still free?", false, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	m := &models.Message{SenderID: "u-1", RecipientID: "u-2", ListingID: &listingID, Content: "Is the room still free?"}
	require.NoError(t, NewMessageRepository(db).Create(context.Background(), m))

	assert.NotEmpty(t, m.ID)
	assert.False(t, m.Read)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMessageRepository_CreateMissingListing(t *testing.T) {
	db, mock := newMockDB(t)
	listingID := "l-gone"

	mock.ExpectExec(`INSERT INTO messages`).
		WillReturnError(&pq.Error{Code: "23503", Constraint: "messages_listing_id_fkey"})

	m := &models.Message{SenderID: "u-1", RecipientID: "u-2", ListingID: &listingID, Content: "hello"}
	err := NewMessageRepository(db).Create(context.Background(), m)

	assert.ErrorIs(t, err, ErrMissingReference)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMessageRepository_Thread(t *testing.T) {
	db, mock := newMockDB(t)
	t0 := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"id", "sender_id", "sender_name", "recipient_id", "recipient_name", "listing_id", "content", "read", "created_at"}).
		AddRow("m-1", "u-1", "Dana", "u-2", "Lee", "l-1", "hi", true, t0).
		AddRow("m-2", "u-2", "Lee", "u-1", "Dana", nil, "hello", false, t0.Add(time.Minute))
	mock.ExpectQuery(`FROM messages m .+ ORDER BY m\.created_at ASC`).
		WithArgs("u-1", "u-2").
		WillReturnRows(rows)

	thread, err := NewMessageRepository(db).Thread(context.Background(), "u-1", "u-2")
	require.NoError(t, err)
	require.Len(t, thread, 2)

	assert.Equal(t, "m-1", thread[0].ID)
	require.NotNil(t, thread[0].ListingID)
	assert.Equal(t, "l-1", *thread[0].ListingID)
	assert.Equal(t, "Lee", thread[0].Recipient.Name)
	assert.Nil(t, thread[1].ListingID)
	assert.Equal(t, "Lee", thread[1].Sender.Name)
}

func TestMessageRepository_MarkThreadRead(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec(`UPDATE messages SET read = true WHERE sender_id = \$1 AND recipient_id = \$2 AND read = false`).
		WithArgs("u-2", "u-1").
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := NewMessageRepository(db).MarkThreadRead(context.Background(), "u-1", "u-2")
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestMessageRepository_Conversations(t *testing.T) {
	db, mock := newMockDB(t)
	t0 := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	cols := []string{"other_id", "name", "id", "sender_id", "recipient_id", "listing_id", "content", "read", "created_at", "unread"}
	rows := sqlmock.NewRows(cols).
		AddRow("u-2", "Lee", "m-2", "u-2", "u-1", nil, "older thread", false, t0, 1).
		AddRow("u-3", "Sam", "m-9", "u-1", "u-3", "l-4", "newer thread", true, t0.Add(time.Hour), 0)
	mock.ExpectQuery(`SELECT DISTINCT ON \(m\.other_id\)\s+m\.other_id, u\.name,\s+m\.id`).
		WithArgs("u-1").
		WillReturnRows(rows)

	conversations, err := NewMessageRepository(db).Conversations(context.Background(), "u-1")
	require.NoError(t, err)
	require.Len(t, conversations, 2)

	assert.Equal(t, "u-3", conversations[0].User.ID)
	assert.Equal(t, "Sam", conversations[0].User.Name)
	assert.Empty(t, conversations[0].User.Email)
	assert.Equal(t, "newer thread", conversations[0].LastMessage.Content)
	assert.Equal(t, 0, conversations[0].UnreadCount)
	assert.Equal(t, "u-2", conversations[1].User.ID)
	assert.Equal(t, 1, conversations[1].UnreadCount)
}

func TestMessageRepository_UnreadCount(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`SELECT count\(\*\) FROM messages WHERE recipient_id = \$1 AND read = false`).
		WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	n, err := NewMessageRepository(db).UnreadCount(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}
