package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/baharkarakas/unitrack/internal/models"
)

type messagesRepo struct{ pool *pgxpool.Pool }

const messageCols = `id, sender_id, receiver_id, content, read, created_at`

func scanMessage(row pgx.Row) (models.ChatMessage, error) {
	var m models.ChatMessage
	err := row.Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.Content, &m.Read, &m.CreatedAt)
	return m, mapErr(err)
}

func (r *messagesRepo) list(ctx context.Context, where string, args ...any) ([]models.ChatMessage, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+messageCols+` FROM chat_messages WHERE `+where+` ORDER BY created_at, id`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.ChatMessage
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *messagesRepo) Create(ctx context.Context, m models.ChatMessage) (models.ChatMessage, error) {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return scanMessage(r.pool.QueryRow(ctx,
		`INSERT INTO chat_messages(id, sender_id, receiver_id, content)
		 VALUES($1,$2,$3,$4)
		 RETURNING `+messageCols,
		m.ID, m.SenderID, m.ReceiverID, m.Content,
	))
}

func (r *messagesRepo) ListForUser(ctx context.Context, userID string) ([]models.ChatMessage, error) {
	return r.list(ctx, `sender_id=$1 OR receiver_id=$1`, userID)
}

func (r *messagesRepo) ListBetween(ctx context.Context, a, b string) ([]models.ChatMessage, error) {
	return r.list(ctx, `(sender_id=$1 AND receiver_id=$2) OR (sender_id=$2 AND receiver_id=$1)`, a, b)
}

func (r *messagesRepo) MarkRead(ctx context.Context, receiverID, senderID string) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE chat_messages SET read=true WHERE receiver_id=$1 AND sender_id=$2 AND NOT read`,
		receiverID, senderID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
