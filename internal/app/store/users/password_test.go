package userstore

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	BcryptCost = bcrypt.MinCost

	if _, err := hashPassword(""); err != errEmptyPassword {
		t.Errorf("empty: got %v, want errEmptyPassword", err)
	}
	if _, err := hashPassword(strings.Repeat("é", 40)); err != ErrPasswordTooLong {
		t.Errorf("80 bytes: got %v, want ErrPasswordTooLong", err)
	}
	hash, err := hashPassword(strings.Repeat("a", 72))
	if err != nil {
		t.Fatalf("72 bytes: %v", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(strings.Repeat("a", 72))) != nil {
		t.Error("hash does not verify")
	}
}

func TestDummyHash(t *testing.T) {
	h := dummyHash()
	if _, err := bcrypt.Cost(h); err != nil {
		t.Fatalf("dummy hash is not a bcrypt hash: %v", err)
	}
	if bcrypt.CompareHashAndPassword(h, []byte("anything")) == nil {
		t.Error("dummy hash must not match ordinary passwords")
	}
}
