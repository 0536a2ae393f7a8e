package password

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestGetHash(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{
			name:     "regular password",
			password: "password123",
		},
		{
			name:     "password with special chars",
			password: "p@ssw0rd!@#$%^&*()",
		},
		{
			name:     "unicode password",
			password: "mật-khẩu-bí-mật",
		},
		{
			name:     "short password",
			password: "x",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotHash, err := GetHash(tt.password)
			if err != nil {
				t.Fatalf("GetHash() error = %v", err)
			}
			if gotHash == "" || gotHash == tt.password {
				t.Fatalf("GetHash() returned unusable hash %q", gotHash)
			}

			cost, err := bcrypt.Cost([]byte(gotHash))
			if err != nil {
				t.Fatalf("bcrypt.Cost() error = %v", err)
			}
			if cost != Cost {
				t.Errorf("hash cost = %d, want %d", cost, Cost)
			}

			if err := CompareHash(gotHash, tt.password); err != nil {
				t.Errorf("Generated hash doesn't work with original password: %v", err)
			}
		})
	}
}

func TestCompareHash(t *testing.T) {
	correctHash, err := GetHash("correct_password")
	if err != nil {
		t.Fatalf("Failed to create test hash: %v", err)
	}

	tests := []struct {
		name         string
		hash         string
		password     string
		wantErr      bool
		wantMismatch bool
	}{
		{
			name:     "matching password",
			hash:     correctHash,
			password: "correct_password",
		},
		{
			name:         "wrong password",
			hash:         correctHash,
			password:     "wrong_password",
			wantErr:      true,
			wantMismatch: true,
		},
		{
			name:         "empty password",
			hash:         correctHash,
			password:     "",
			wantErr:      true,
			wantMismatch: true,
		},
		{
			name:     "corrupted hash",
			hash:     "not-a-bcrypt-hash",
			password: "correct_password",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CompareHash(tt.hash, tt.password)

			if (err != nil) != tt.wantErr {
				t.Fatalf("CompareHash() error = %v, wantErr %v", err, tt.wantErr)
			}
			if errors.Is(err, ErrMismatch) != tt.wantMismatch {
				t.Errorf("CompareHash() mismatch = %v, want %v", errors.Is(err, ErrMismatch), tt.wantMismatch)
			}
		})
	}
}

func TestGetHash_SamePasswordIsSalted(t *testing.T) {
	hash1, err := GetHash("password1")
	if err != nil {
		t.Fatalf("GetHash failed: %v", err)
	}

	hash2, err := GetHash("password1")
	if err != nil {
		t.Fatalf("GetHash failed: %v", err)
	}

	if hash1 == hash2 {
		t.Error("Same password produced identical hashes")
	}
}

func TestGetHash_TooLong(t *testing.T) {
	if _, err := GetHash(strings.Repeat("a", MaxLength)); err != nil {
		t.Fatalf("GetHash() at limit error = %v", err)
	}

	_, err := GetHash(strings.Repeat("a", MaxLength+1))
	if !errors.Is(err, ErrTooLong) {
		t.Fatalf("GetHash() error = %v, want ErrTooLong", err)
	}
}

func TestCompareDummy(t *testing.T) {
	cost, err := bcrypt.Cost(dummyHash())
	if err != nil {
		t.Fatalf("bcrypt.Cost() error = %v", err)
	}
	if cost != Cost {
		t.Errorf("dummy hash cost = %d, want %d", cost, Cost)
	}

	CompareDummy("anything")
	CompareDummy(strings.Repeat("a", MaxLength+1))
}
