package auth

import (
	"io"
	"log/slog"
	"testing"
)

func TestStaticVerifier(t *testing.T) {
	v := NewStaticVerifier(map[string]string{"admin": "password123"})

	tests := []struct {
		name     string
		username string
		password string
		want     bool
	}{
		{"correct pair", "admin", "password123", true},
		{"wrong password", "admin", "password", false},
		{"password is case-sensitive", "admin", "PASSWORD123", false},
		{"username is case-sensitive", "Admin", "password123", false},
		{"unknown user", "root", "password123", false},
		{"empty pair", "", "", false},
		{"trailing space", "admin", "password123 ", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := v.Verify(tt.username, tt.password); got != tt.want {
				t.Errorf("Verify(%q, %q) = %v, want %v", tt.username, tt.password, got, tt.want)
			}
		})
	}
}

func TestStaticVerifier_CopiesInput(t *testing.T) {
	creds := map[string]string{"admin": "password123"}
	v := NewStaticVerifier(creds)
	creds["admin"] = "changed"

	if !v.Verify("admin", "password123") {
		t.Error("verifier should not observe changes to the source map")
	}
}

func TestHashedVerifier(t *testing.T) {
	ps := newTestPasswordService()
	hash, err := ps.Hash("s3cret")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	v := NewHashedVerifier(map[string]string{"admin": hash, "broken": "xyz"}, ps, logger)

	if !v.Verify("admin", "s3cret") {
		t.Error("Verify() rejected the correct password")
	}
	if v.Verify("admin", "password123") {
		t.Error("Verify() accepted a wrong password")
	}
	if v.Verify("nobody", "s3cret") {
		t.Error("Verify() accepted an unknown user")
	}
	if v.Verify("broken", "xyz") {
		t.Error("Verify() accepted a malformed hash")
	}
}
