package auth

import (
	"crypto/subtle"
	"log/slog"
)

// Verifier decides whether a username/password pair may download the
// helper table. Implementations must be safe for concurrent use.
type Verifier interface {
	Verify(username, password string) bool
}

// StaticVerifier checks against a fixed username → password table. The
// comparison is exact and case-sensitive; nothing is hashed.
type StaticVerifier struct {
	credentials map[string]string
}

// NewStaticVerifier copies credentials, so later changes to the map do not
// affect the verifier.
func NewStaticVerifier(credentials map[string]string) *StaticVerifier {
	c := make(map[string]string, len(credentials))
	for u, p := range credentials {
		c[u] = p
	}
	return &StaticVerifier{credentials: c}
}

func (v *StaticVerifier) Verify(username, password string) bool {
	want, ok := v.credentials[username]
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(want), []byte(password)) == 1
}

// HashedVerifier checks against bcrypt hashes, for deployments that do not
// want the plaintext password in their environment.
type HashedVerifier struct {
	hashes    map[string]string
	passwords *PasswordService
	logger    *slog.Logger
}

func NewHashedVerifier(hashes map[string]string, passwords *PasswordService, logger *slog.Logger) *HashedVerifier {
	h := make(map[string]string, len(hashes))
	for u, p := range hashes {
		h[u] = p
	}
	return &HashedVerifier{hashes: h, passwords: passwords, logger: logger}
}

func (v *HashedVerifier) Verify(username, password string) bool {
	hash, ok := v.hashes[username]
	if !ok {
		return false
	}
	if err := v.passwords.Verify(hash, password); err != nil {
		if err != errInvalidPassword {
			// A malformed hash is a configuration problem, not a bad guess.
			v.logger.Error("credential hash check failed",
				slog.String("username", username),
				slog.String("error", err.Error()),
			)
		}
		return false
	}
	return true
}
