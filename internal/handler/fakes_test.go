package handler

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/iliyamo/realtime-chat/internal/model"
	"github.com/iliyamo/realtime-chat/internal/queue"
	"github.com/iliyamo/realtime-chat/internal/repository"
	"github.com/iliyamo/realtime-chat/internal/utils"
)

// In-memory fakes implementing the store interfaces so handlers can be
// exercised without a database.

type fakeUsers struct {
	users  map[uint64]model.User
	nextID uint64
	err    error // when set, every call fails with it
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: map[uint64]model.User{}, nextID: 1}
}

func (f *fakeUsers) add(fullName, email string) model.User {
	u := model.User{
		ID:        f.nextID,
		FullName:  fullName,
		Email:     email,
		CreatedAt: time.Now().UTC(),
	}
	f.users[u.ID] = u
	f.nextID++
	return u
}

func (f *fakeUsers) Create(_ context.Context, fullName, email, password string, cost int) (uint64, error) {
	if f.err != nil {
		return 0, f.err
	}
	email = strings.TrimSpace(email)
	for _, u := range f.users {
		if u.Email == email {
			return 0, repository.ErrEmailExists
		}
	}
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	u := f.add(fullName, email)
	u.PasswordHash = hash
	f.users[u.ID] = u
	return u.ID, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (model.User, error) {
	if f.err != nil {
		return model.User{}, f.err
	}
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, sql.ErrNoRows
}

func (f *fakeUsers) GetByID(_ context.Context, id uint64) (model.User, error) {
	if f.err != nil {
		return model.User{}, f.err
	}
	u, ok := f.users[id]
	if !ok {
		return model.User{}, sql.ErrNoRows
	}
	return u, nil
}

func (f *fakeUsers) Exists(_ context.Context, id uint64) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	_, ok := f.users[id]
	return ok, nil
}

func (f *fakeUsers) UpdateProfilePic(_ context.Context, id uint64, url string) (model.User, error) {
	if f.err != nil {
		return model.User{}, f.err
	}
	u, ok := f.users[id]
	if !ok {
		return model.User{}, sql.ErrNoRows
	}
	u.ProfilePic = url
	f.users[id] = u
	return u, nil
}

func (f *fakeUsers) ListOthers(_ context.Context, callerID uint64) ([]model.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := []model.User{}
	for _, u := range f.users {
		if u.ID != callerID {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUsers) ListByIDs(_ context.Context, ids []uint64) ([]model.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := []model.User{}
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

type fakeMessages struct {
	msgs   []model.Message
	nextID uint64
	err    error
}

func newFakeMessages() *fakeMessages { return &fakeMessages{nextID: 1} }

func (f *fakeMessages) Create(_ context.Context, senderID, receiverID uint64, text, image string) (model.Message, error) {
	if f.err != nil {
		return model.Message{}, f.err
	}
	m := model.Message{
		ID:         f.nextID,
		SenderID:   senderID,
		ReceiverID: receiverID,
		Text:       text,
		Image:      image,
		CreatedAt:  time.Now().UTC(),
	}
	f.nextID++
	f.msgs = append(f.msgs, m)
	return m, nil
}

func (f *fakeMessages) ListBetween(_ context.Context, a, b uint64) ([]model.Message, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := []model.Message{}
	for _, m := range f.msgs {
		if (m.SenderID == a && m.ReceiverID == b) || (m.SenderID == b && m.ReceiverID == a) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMessages) PartnerIDs(_ context.Context, userID uint64) ([]uint64, error) {
	if f.err != nil {
		return nil, f.err
	}
	seen := map[uint64]bool{}
	ids := []uint64{}
	for _, m := range f.msgs {
		var other uint64
		switch userID {
		case m.SenderID:
			other = m.ReceiverID
		case m.ReceiverID:
			other = m.SenderID
		default:
			continue
		}
		if !seen[other] {
			seen[other] = true
			ids = append(ids, other)
		}
	}
	return ids, nil
}

type fakeUploader struct {
	url   string
	err   error
	calls int
}

func (f *fakeUploader) Upload(_ context.Context, data string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	if f.url != "" {
		return f.url, nil
	}
	return "https://images.example.com/hosted.png", nil
}

type fakePublisher struct {
	events chan queue.UserRegisteredEvent
	err    error
}

func newFakePublisher() *fakePublisher {
	return &fakePublisher{events: make(chan queue.UserRegisteredEvent, 8)}
}

func (f *fakePublisher) PublishUserRegistered(_ context.Context, ev queue.UserRegisteredEvent) error {
	f.events <- ev
	return f.err
}
