package email

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSendWelcome_PostsToResend(t *testing.T) {
	t.Parallel()

	var got sendRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer re_test_key" {
			t.Errorf("authorization header = %q", r.Header.Get("Authorization"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"email_123"}`))
	}))
	defer srv.Close()

	c := NewResendClient("re_test_key", "Chat <hello@chat.example.com>")
	c.BaseURL = srv.URL

	if err := c.SendWelcome(context.Background(), "john@example.com", "John", "https://chat.example.com"); err != nil {
		t.Fatalf("SendWelcome error: %v", err)
	}
	if len(got.To) != 1 || got.To[0] != "john@example.com" {
		t.Fatalf("to = %v", got.To)
	}
	if got.From != "Chat <hello@chat.example.com>" {
		t.Fatalf("from = %q", got.From)
	}
}

func TestSendWelcome_APIFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"invalid key"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewResendClient("re_bad_key", "")
	c.BaseURL = srv.URL

	if err := c.SendWelcome(context.Background(), "john@example.com", "John", "https://x"); err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}

func TestSendWelcome_MissingKey(t *testing.T) {
	t.Parallel()

	c := NewResendClient("", "")
	if err := c.SendWelcome(context.Background(), "a@b.co", "A", "https://x"); err == nil {
		t.Fatal("expected error when api key is not configured")
	}
}
