package tokens

import (
	"fmt"
	"log"
	"time"
)

// Subject is the only identity a session token can carry.
const Subject = "admin"

// Claims are the decoded contents of a verified session token.
type Claims struct {
	Subject   string
	ExpiresAt time.Time
}

// Codec mints and verifies session tokens under a single HMAC secret.
// A Codec is immutable after construction and safe for concurrent use.
type Codec struct {
	secret     []byte
	defaultTTL time.Duration
	now        func() time.Time
}

type Option func(*Codec)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Codec) {
		c.now = now
	}
}

func NewCodec(
	secret []byte,
	defaultTTL time.Duration,
	opts ...Option,
) *Codec {
	if defaultTTL <= 0 {
		defaultTTL = DefaultTTL
	}
	c := &Codec{
		secret:     append([]byte(nil), secret...),
		defaultTTL: defaultTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Codec) DefaultTTL() time.Duration { return c.defaultTTL }

// Mint issues a token expiring ttl from now. A ttl <= 0 selects the
// codec's default TTL.
func (c *Codec) Mint(ttl time.Duration) (string, error) {
	if len(c.secret) == 0 {
		return "", errNoSecret
	}
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	exp := float64(c.now().Add(ttl).UnixMilli())
	encClaims, err := encodeSection(wireClaims{
		Subject:    Subject,
		Expiration: &exp,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode claims: %v", err)
	}

	return buildToken(encClaims, sign(c.secret, encClaims)), nil
}

// Verify reports whether token carries a valid signature and has not yet
// expired. It never fails loudly: malformed input is just false.
func (c *Codec) Verify(token string) bool {
	_, err := decodeToken(token, c.secret, c.now().UnixMilli())
	return err == nil
}

// Decode verifies token and returns its claims. The error tells apart
// malformed, forged and expired tokens and is meant for logs only.
func (c *Codec) Decode(token string) (*Claims, error) {
	wire, verr := decodeToken(token, c.secret, c.now().UnixMilli())
	if verr != nil {
		log.Printf("tokens: %s\n", verr.Context())
		return nil, verr
	}
	return &Claims{
		Subject:   wire.Subject,
		ExpiresAt: time.UnixMilli(int64(*wire.Expiration)),
	}, nil
}
