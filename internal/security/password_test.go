package security

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_HashAndVerify(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	hash, err := hasher.Hash("password1")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if hash == "" {
		t.Fatal("expected non-empty hash")
	}
	if hash == "password1" {
		t.Fatal("hash must not equal plaintext")
	}

	if !hasher.Verify("password1", hash) {
		t.Error("Verify() = false for correct password")
	}
	if hasher.Verify("wrong-password", hash) {
		t.Error("Verify() = true for wrong password")
	}
}

// TestBcryptHasher_SamePasswordDifferentHashes はソルトにより
// 同一パスワードでもハッシュ値が毎回異なることを検証する。
func TestBcryptHasher_SamePasswordDifferentHashes(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	h1, err := hasher.Hash("password1")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	h2, err := hasher.Hash("password1")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	if h1 == h2 {
		t.Error("expected different hashes for same password (random salt)")
	}

	// どちらのハッシュでも照合は成功すること
	if !hasher.Verify("password1", h1) || !hasher.Verify("password1", h2) {
		t.Error("Verify() failed for one of the hashes")
	}
}

func TestBcryptHasher_HashFormat(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	hash, err := hasher.Hash("password1")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	if !strings.HasPrefix(hash, "$2a$") && !strings.HasPrefix(hash, "$2b$") {
		t.Errorf("hash = %q, want bcrypt format prefix", hash)
	}
}

// TestBcryptHasher_Verify_MalformedHash_ReturnsFalse は不正な形式のハッシュに
// 対してVerifyがfalseを返すこと（fail closed）を検証する。
func TestBcryptHasher_Verify_MalformedHash_ReturnsFalse(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	malformed := []string{"", "not-a-hash", "$2a$broken"}
	for _, h := range malformed {
		if hasher.Verify("password1", h) {
			t.Errorf("Verify(password1, %q) = true, want false", h)
		}
	}
}

func TestNewBcryptHasher_OutOfRangeCost_UsesDefault(t *testing.T) {
	tests := []struct {
		name string
		cost int
	}{
		{"コストが小さすぎる", 0},
		{"コストが負数", -1},
		{"コストが大きすぎる", 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hasher := NewBcryptHasher(tt.cost)
			if hasher.cost != defaultBcryptCost {
				t.Errorf("cost = %d, want %d", hasher.cost, defaultBcryptCost)
			}
		})
	}
}
