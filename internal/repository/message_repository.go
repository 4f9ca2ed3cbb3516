package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/realtime-chat/internal/model"
)

// MessageRepo provides access to the 'messages' table. Messages are
// write-once: there is no update or delete path.
type MessageRepo struct{ DB *sql.DB }

func NewMessageRepo(db *sql.DB) *MessageRepo { return &MessageRepo{DB: db} }

// Create inserts a message and returns the stored row. Empty text/image are
// persisted as NULL so the "at least one of" rule is visible in the schema.
func (r *MessageRepo) Create(ctx context.Context, senderID, receiverID uint64, text, image string) (model.Message, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO messages (sender_id, receiver_id, text, image) VALUES (?,?,?,?)",
		senderID, receiverID, nullable(text), nullable(image))
	if err != nil {
		return model.Message{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Message{}, err
	}
	return r.getByID(ctx, uint64(id))
}

// ListBetween returns the full history between two users, oldest first.
func (r *MessageRepo) ListBetween(ctx context.Context, a, b uint64) ([]model.Message, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id,sender_id,receiver_id,text,image,created_at FROM messages
		 WHERE (sender_id=? AND receiver_id=?) OR (sender_id=? AND receiver_id=?)
		 ORDER BY created_at ASC, id ASC`,
		a, b, b, a)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMessages(rows)
}

// PartnerIDs returns the distinct set of users the given user has exchanged
// at least one message with, in either direction.
func (r *MessageRepo) PartnerIDs(ctx context.Context, userID uint64) ([]uint64, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT DISTINCT CASE WHEN sender_id=? THEN receiver_id ELSE sender_id END
		 FROM messages WHERE sender_id=? OR receiver_id=?`,
		userID, userID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ids := []uint64{}
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *MessageRepo) getByID(ctx context.Context, id uint64) (model.Message, error) {
	var m model.Message
	var text, image sql.NullString
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,sender_id,receiver_id,text,image,created_at FROM messages WHERE id=? LIMIT 1",
		id).Scan(&m.ID, &m.SenderID, &m.ReceiverID, &text, &image, &m.CreatedAt)
	m.Text, m.Image = text.String, image.String
	return m, err
}

func scanMessages(rows *sql.Rows) ([]model.Message, error) {
	out := []model.Message{}
	for rows.Next() {
		var m model.Message
		var text, image sql.NullString
		if err := rows.Scan(&m.ID, &m.SenderID, &m.ReceiverID, &text, &image, &m.CreatedAt); err != nil {
			return nil, err
		}
		m.Text, m.Image = text.String, image.String
		out = append(out, m)
	}
	return out, rows.Err()
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
