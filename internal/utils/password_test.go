package utils

import "testing"

func TestPassword_HashAndVerify(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("password123", 4) // minimum cost keeps the test fast
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if hash == "password123" {
		t.Fatal("hash must not equal the plaintext")
	}
	if !VerifyPassword(hash, "password123") {
		t.Fatal("correct password should verify")
	}
	if VerifyPassword(hash, "password124") {
		t.Fatal("wrong password must not verify")
	}
}

func TestPassword_UniqueSalts(t *testing.T) {
	t.Parallel()

	h1, err := HashPassword("same-password", 4)
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	h2, err := HashPassword("same-password", 4)
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if h1 == h2 {
		t.Fatal("two hashes of the same password should differ (per-hash salt)")
	}
}
