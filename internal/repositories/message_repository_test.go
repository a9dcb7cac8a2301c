package repositories

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"wellness-chat/internal/models"
)

var messageRows = []string{"id", "room_id", "sender_id", "type", "content", "image", "product_id", "office_id", "is_read", "created_at"}

func newMessageRepo(t *testing.T) (*MessageRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewMessageRepo(sqlx.NewDb(db, "sqlmock")), mock
}

func TestMessageRoundTripPreservesFields(t *testing.T) {
	repo, mock := newMessageRepo(t)
	createdAt := time.Now().UTC().Truncate(time.Second)
	image := "https://cdn.example.com/voice/1.m4a"
	productID := 9

	row := func() *sqlmock.Rows {
		return sqlmock.NewRows(messageRows).
			AddRow(42, 1, 2, "product", "check this out", image, productID, nil, false, createdAt)
	}

	mock.ExpectQuery("INSERT INTO messages").
		WithArgs(1, 2, "product", "check this out", image, productID, nil).
		WillReturnRows(row())
	mock.ExpectExec("UPDATE chat_rooms SET updated_at").
		WithArgs(1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT (.+) FROM messages WHERE room_id=").
		WithArgs(1, 50, 0).
		WillReturnRows(row())

	created, err := repo.CreateMessage(context.Background(), models.NewMessage{
		RoomID:    1,
		SenderID:  2,
		Type:      models.MessageProduct,
		Content:   "check this out",
		Image:     &image,
		ProductID: &productID,
	})
	require.NoError(t, err)

	fetched, err := repo.GetMessages(context.Background(), 1, 50, 0)
	require.NoError(t, err)
	require.Len(t, fetched, 1)

	got := fetched[0]
	require.Equal(t, created.ID, got.ID)
	require.Equal(t, created.Type, got.Type)
	require.Equal(t, models.MessageProduct, got.Type)
	require.Equal(t, created.Content, got.Content)
	require.NotNil(t, got.Image)
	require.Equal(t, *created.Image, *got.Image)
	require.NotNil(t, got.ProductID)
	require.Equal(t, *created.ProductID, *got.ProductID)
	require.Nil(t, got.OfficeID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateMessageBumpsRoomActivity(t *testing.T) {
	repo, mock := newMessageRepo(t)

	mock.ExpectQuery("INSERT INTO messages").
		WithArgs(1, 2, "text", "hello", nil, nil, nil).
		WillReturnRows(sqlmock.NewRows(messageRows).
			AddRow(7, 1, 2, "text", "hello", nil, nil, nil, false, time.Now()))
	mock.ExpectExec("UPDATE chat_rooms SET updated_at").
		WithArgs(1).
		WillReturnResult(sqlmock.NewResult(0, 1))

	_, err := repo.CreateMessage(context.Background(), models.NewMessage{
		RoomID: 1, SenderID: 2, Type: models.MessageText, Content: "hello",
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetMessageNotFound(t *testing.T) {
	repo, mock := newMessageRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM messages WHERE id=").
		WithArgs(99).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetMessage(context.Background(), 99)
	require.ErrorIs(t, err, ErrMessageNotFound)
}

func TestMarkAsReadSkipsOwnMessages(t *testing.T) {
	repo, mock := newMessageRepo(t)

	mock.ExpectExec("UPDATE messages SET is_read=TRUE WHERE room_id=(.+) AND sender_id<>(.+) AND is_read=FALSE").
		WithArgs(1, 2).
		WillReturnResult(sqlmock.NewResult(0, 3))

	read, err := repo.MarkAsRead(context.Background(), 1, 2)
	require.NoError(t, err)
	require.Equal(t, int64(3), read)
	require.NoError(t, mock.ExpectationsWereMet())
}
