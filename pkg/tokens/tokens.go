package tokens

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

type validateError struct {
	context string
	err     error
}

func (t *validateError) Context() string {
	return t.context
}
func (t *validateError) Error() string {
	return fmt.Sprintf("%v", t.err)
}
func (t *validateError) Unwrap() error {
	return t.err
}

var (
	errNoSecret          = errors.New("no signing secret")
	errTokenMalformed    = errors.New("token malformed")
	errTokenBadSignature = errors.New("token bad signature")
	errTokenExpired      = errors.New("token expired")
)

func ErrNoSecret() error          { return errNoSecret }
func ErrTokenMalformed() error    { return errTokenMalformed }
func ErrTokenBadSignature() error { return errTokenBadSignature }
func ErrTokenExpired() error      { return errTokenExpired }

// wireClaims is the JSON shape carried in a token. Expiration is a
// pointer so a token missing "exp" can be told apart from one expiring at
// the epoch; it is a float so any JSON number is accepted.
type wireClaims struct {
	Subject    string   `json:"sub"`
	Expiration *float64 `json:"exp"`
}

func sign(secret []byte, encClaims string) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(encClaims))
	return hex.EncodeToString(mac.Sum(nil))
}

func buildToken(encClaims string, signature string) string {
	return fmt.Sprintf("%s.%s", encClaims, signature)
}

func encodeSection[T any](section T) (string, error) {
	sectionJSON, err := json.Marshal(section)
	if err != nil {
		return "", fmt.Errorf("json marshal failure: %v", err)
	}
	return base64.RawURLEncoding.EncodeToString(sectionJSON), nil
}

func decodeSection[T any](str string, value *T) error {
	bytes, err := base64.RawURLEncoding.DecodeString(str)
	if err != nil {
		return fmt.Errorf("invalid base64 encoding: %v", err)
	}
	if err := json.Unmarshal(bytes, value); err != nil {
		return fmt.Errorf("not valid JSON: %v", err)
	}
	return nil
}

func validateStructure(tokenStr string) (
	claims string,
	signature string,
	err error,
) {
	parts := strings.Split(tokenStr, ".")
	if len(parts) != 2 {
		err = fmt.Errorf("expected two parts, found %d", len(parts))
		return
	}
	if parts[0] == "" || parts[1] == "" {
		err = fmt.Errorf("empty token part")
		return
	}
	claims = parts[0]
	signature = parts[1]
	return
}

// verifySignature compares in constant time. A length mismatch returns
// early; the length of a hex SHA-256 is public anyway.
func verifySignature(secret []byte, encClaims string, signature string) error {
	expected := sign(secret, encClaims)
	if len(expected) != len(signature) {
		return fmt.Errorf("signature length %d", len(signature))
	}
	if subtle.ConstantTimeCompare([]byte(expected), []byte(signature)) != 1 {
		return fmt.Errorf("verification failed")
	}
	return nil
}

// decodeToken runs the full pipeline: structure, then signature, and only
// then the claims themselves. Nothing about the claims is interpreted
// until the signature has been checked.
func decodeToken(tokenStr string, secret []byte, nowMs int64) (*wireClaims, *validateError) {
	if len(secret) == 0 {
		return nil, &validateError{
			context: "no secret configured",
			err:     errNoSecret,
		}
	}

	encClaims, signature, err := validateStructure(tokenStr)
	if err != nil {
		return nil, &validateError{
			context: fmt.Sprintf("token malformed: %v", err),
			err:     errTokenMalformed,
		}
	}

	if err := verifySignature(secret, encClaims, signature); err != nil {
		return nil, &validateError{
			context: fmt.Sprintf("token signature illegal: %v", err),
			err:     errTokenBadSignature,
		}
	}

	claims := &wireClaims{}
	if err := decodeSection(encClaims, claims); err != nil {
		return nil, &validateError{
			context: fmt.Sprintf("token claims malformed: %v", err),
			err:     errTokenMalformed,
		}
	}
	if claims.Expiration == nil {
		return nil, &validateError{
			context: "token claims missing exp",
			err:     errTokenMalformed,
		}
	}

	if !(float64(nowMs) < *claims.Expiration) {
		return nil, &validateError{
			context: fmt.Sprintf("token expired at %v", int64(*claims.Expiration)),
			err:     errTokenExpired,
		}
	}

	return claims, nil
}
