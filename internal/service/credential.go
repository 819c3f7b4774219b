package service

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// CredentialVerifier checks a submitted password against the configured
// digest. The digest is either the lower-case hex SHA-256 of the password
// or a bcrypt hash.
type CredentialVerifier struct {
	digest []byte
	bcrypt bool
}

func NewCredentialVerifier(digest string) *CredentialVerifier {
	digest = strings.TrimSpace(digest)
	if isBcrypt(digest) {
		return &CredentialVerifier{digest: []byte(digest), bcrypt: true}
	}
	return &CredentialVerifier{digest: []byte(strings.ToLower(digest))}
}

// Verify reports whether plain matches the configured digest. A wrong
// password is (false, nil); a missing or unusable digest is
// ErrNoPasswordDigest.
func (v *CredentialVerifier) Verify(plain string) (bool, error) {
	if len(v.digest) == 0 {
		return false, ErrNoPasswordDigest
	}

	if v.bcrypt {
		err := bcrypt.CompareHashAndPassword(v.digest, []byte(plain))
		switch err {
		case nil:
			return true, nil
		case bcrypt.ErrMismatchedHashAndPassword:
			return false, nil
		default:
			return false, fmt.Errorf("%w: bcrypt hash unusable: %v", ErrNoPasswordDigest, err)
		}
	}

	provided := []byte(DigestSHA256(plain))
	if len(provided) != len(v.digest) {
		return false, nil
	}
	return subtle.ConstantTimeCompare(provided, v.digest) == 1, nil
}

// DigestSHA256 returns the value to configure as AUTH_PASS_SHA256.
func DigestSHA256(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}

// DigestBcrypt returns a bcrypt hash usable in place of a SHA-256 digest.
func DigestBcrypt(plain string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", fmt.Errorf("%w: failed to hash password: %v", ErrInternal, err)
	}
	return string(hash), nil
}

func isBcrypt(digest string) bool {
	for _, prefix := range []string{"$2a$", "$2b$", "$2y$"} {
		if strings.HasPrefix(digest, prefix) {
			return true
		}
	}
	return false
}
