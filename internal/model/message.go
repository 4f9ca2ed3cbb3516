package model

import "time"

// Message models a row in the `messages` table. Messages are immutable
// after insertion and always belong to exactly two distinct users. At least
// one of Text or Image is non-empty; Image holds the URL returned by the
// image host, never the raw payload.
//
// Fields:
//
//	ID         – primary key identifier.
//	SenderID   – author of the message (users.id).
//	ReceiverID – recipient of the message (users.id).
//	Text       – message body ("" when image-only).
//	Image      – hosted image URL ("" when text-only).
//	CreatedAt  – timestamp of creation; history is ordered by this column.
type Message struct {
	ID         uint64    // messages.id
	SenderID   uint64    // messages.sender_id
	ReceiverID uint64    // messages.receiver_id
	Text       string    // messages.text
	Image      string    // messages.image
	CreatedAt  time.Time // messages.created_at
}
