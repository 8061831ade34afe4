package auth_test

import (
	"testing"

	"github.com/AlumniConnect/AC-Backend/internal/auth"
)

func TestVerifyPassword(t *testing.T) {
	stored, err := auth.HashPassword("CorrectHorse9!")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	if !auth.VerifyPassword(stored, "CorrectHorse9!") {
		t.Error("correct password should verify")
	}
	if auth.VerifyPassword(stored, "wrong-password") {
		t.Error("wrong password should not verify")
	}
	if auth.VerifyPassword(stored, "") {
		t.Error("empty password should not verify")
	}
}

// TestVerifyPassword_MalformedStored verifies the contract that garbage in
// the stored column is treated as a mismatch, never a panic.
func TestVerifyPassword_MalformedStored(t *testing.T) {
	for _, stored := range []string{"", "not-a-bcrypt-hash", "$2a$broken", "plaintext-left-over"} {
		if auth.VerifyPassword(stored, "anything") {
			t.Errorf("stored %q: expected mismatch", stored)
		}
	}
}
