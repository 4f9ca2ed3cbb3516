// Package queue defines message payloads exchanged over the message broker.
package queue

// UserRegisteredEvent is published after a signup response has been sent.
// It carries enough information for the welcome-email consumer to act
// without querying the primary database. Delivery is best-effort: losing an
// event costs one welcome email, never a registration.
type UserRegisteredEvent struct {
	UserID       uint64 `json:"user_id"`
	Email        string `json:"email"`
	FullName     string `json:"full_name"`
	ClientURL    string `json:"client_url"`
	RegisteredAt string `json:"registered_at"`
}
