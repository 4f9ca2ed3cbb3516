package handler

import (
	"context"
	"time"

	"github.com/iliyamo/realtime-chat/internal/model"
)

// The handler layer depends on narrow store interfaces instead of the
// concrete repositories so that each operation can be exercised in tests
// with in-memory fakes. The repository types satisfy these implicitly.

// UserStore is the slice of the user repository the handlers consume.
type UserStore interface {
	Create(ctx context.Context, fullName, email, password string, cost int) (uint64, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
	Exists(ctx context.Context, id uint64) (bool, error)
	UpdateProfilePic(ctx context.Context, id uint64, url string) (model.User, error)
	ListOthers(ctx context.Context, callerID uint64) ([]model.User, error)
	ListByIDs(ctx context.Context, ids []uint64) ([]model.User, error)
}

// MessageStore is the slice of the message repository the handlers consume.
type MessageStore interface {
	Create(ctx context.Context, senderID, receiverID uint64, text, image string) (model.Message, error)
	ListBetween(ctx context.Context, a, b uint64) ([]model.Message, error)
	PartnerIDs(ctx context.Context, userID uint64) ([]uint64, error)
}

// Uploader pushes an image payload to the external image host and returns
// the hosted URL.
type Uploader interface {
	Upload(ctx context.Context, data string) (string, error)
}

// ----- response views -----

// userView is the sanitized user representation sent over the wire. The
// password hash has no field here, so it cannot leak by construction.
type userView struct {
	ID         uint64    `json:"id"`
	FullName   string    `json:"fullName"`
	Email      string    `json:"email"`
	ProfilePic string    `json:"profilePic,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

type messageView struct {
	ID         uint64    `json:"id"`
	SenderID   uint64    `json:"senderId"`
	ReceiverID uint64    `json:"receiverId"`
	Text       string    `json:"text,omitempty"`
	Image      string    `json:"image,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

func toUserView(u model.User) userView {
	return userView{
		ID:         u.ID,
		FullName:   u.FullName,
		Email:      u.Email,
		ProfilePic: u.ProfilePic,
		CreatedAt:  u.CreatedAt,
	}
}

func toUserViews(users []model.User) []userView {
	out := make([]userView, 0, len(users))
	for _, u := range users {
		out = append(out, toUserView(u))
	}
	return out
}

func toMessageView(m model.Message) messageView {
	return messageView{
		ID:         m.ID,
		SenderID:   m.SenderID,
		ReceiverID: m.ReceiverID,
		Text:       m.Text,
		Image:      m.Image,
		CreatedAt:  m.CreatedAt,
	}
}

func toMessageViews(msgs []model.Message) []messageView {
	out := make([]messageView, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, toMessageView(m))
	}
	return out
}
