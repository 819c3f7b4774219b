package tokens_test

import (
	"encoding/base64"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/deauport/deauport/pkg/tokens"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

// fakeClock is a manually advanced clock.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestCodec(t *testing.T) (*tokens.Codec, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.UnixMilli(1_700_000_000_000)}
	return tokens.NewCodec(testSecret, tokens.ParseTTL("7d"), tokens.WithClock(clock.Now)), clock
}

func mint(t *testing.T, codec *tokens.Codec, ttl time.Duration) string {
	t.Helper()
	token, err := codec.Mint(ttl)
	if err != nil {
		t.Fatalf("Mint failed: %v", err)
	}
	return token
}

func TestMint_VerifiesImmediately(t *testing.T) {
	t.Parallel()
	codec, _ := newTestCodec(t)

	// freshly minted tokens verify for a range of TTLs
	for _, ttl := range []time.Duration{time.Millisecond, time.Second, time.Hour, 30 * 24 * time.Hour} {
		token := mint(t, codec, ttl)
		if !codec.Verify(token) {
			t.Errorf("Verify(Mint(%v)) = false, want true", ttl)
		}
	}
}

func TestMint_Shape(t *testing.T) {
	t.Parallel()
	codec, clock := newTestCodec(t)

	token := mint(t, codec, time.Hour)
	parts := strings.Split(token, ".")
	if len(parts) != 2 {
		t.Fatalf("token has %d parts, want 2", len(parts))
	}

	// signature is lower-case hex sha256
	if len(parts[1]) != 64 {
		t.Errorf("signature length = %d, want 64", len(parts[1]))
	}
	if strings.ToLower(parts[1]) != parts[1] {
		t.Errorf("signature not lower-case: %s", parts[1])
	}

	// claims are base64url JSON with sub and millisecond exp
	raw, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		t.Fatalf("claims not base64url: %v", err)
	}
	want := `{"sub":"admin","exp":` + strconv.FormatInt(clock.Now().Add(time.Hour).UnixMilli(), 10) + `}`
	if string(raw) != want {
		t.Errorf("claims = %s, want %s", raw, want)
	}
}

func TestMint_DefaultTTL(t *testing.T) {
	t.Parallel()
	codec, clock := newTestCodec(t)

	// a zero ttl uses the configured default
	token := mint(t, codec, 0)
	claims, err := codec.Decode(token)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	want := clock.Now().Add(7 * 24 * time.Hour)
	if !claims.ExpiresAt.Equal(want) {
		t.Errorf("ExpiresAt = %v, want %v", claims.ExpiresAt, want)
	}
	if claims.Subject != tokens.Subject {
		t.Errorf("Subject = %s, want %s", claims.Subject, tokens.Subject)
	}
}

func TestMint_NoSecret(t *testing.T) {
	t.Parallel()
	codec := tokens.NewCodec(nil, time.Hour)

	// minting without a secret is a configuration error
	_, err := codec.Mint(0)
	if !errors.Is(err, tokens.ErrNoSecret()) {
		t.Errorf("expected ErrNoSecret, got %v", err)
	}
}

func TestVerify_ExpiryIsStrictAndMonotonic(t *testing.T) {
	t.Parallel()
	codec, clock := newTestCodec(t)

	token := mint(t, codec, time.Minute)

	// valid one millisecond before exp
	clock.Advance(time.Minute - time.Millisecond)
	if !codec.Verify(token) {
		t.Fatal("token should be valid just before expiry")
	}

	// invalid exactly at exp
	clock.Advance(time.Millisecond)
	if codec.Verify(token) {
		t.Fatal("token should be invalid at expiry")
	}

	// and stays invalid
	for i := 0; i < 5; i++ {
		clock.Advance(time.Hour)
		if codec.Verify(token) {
			t.Fatal("expired token was resurrected")
		}
	}
}

func TestVerify_ExpiresWithRealClock(t *testing.T) {
	t.Parallel()
	codec := tokens.NewCodec(testSecret, time.Hour)

	// 10ms token is rejected after 15ms
	token := mint(t, codec, 10*time.Millisecond)
	time.Sleep(15 * time.Millisecond)
	if codec.Verify(token) {
		t.Error("token should have expired")
	}
}

func TestVerify_SignatureFlip(t *testing.T) {
	t.Parallel()
	codec, _ := newTestCodec(t)
	token := mint(t, codec, time.Hour)
	dot := strings.IndexByte(token, '.')

	// every single-character change in the signature is rejected
	for i := dot + 1; i < len(token); i++ {
		tampered := flipAt(token, i)
		if codec.Verify(tampered) {
			t.Fatalf("tampered signature at %d verified: %s", i, tampered)
		}
	}
}

func TestVerify_ClaimsFlip(t *testing.T) {
	t.Parallel()
	codec, _ := newTestCodec(t)
	token := mint(t, codec, time.Hour)
	dot := strings.IndexByte(token, '.')

	// every single-character change in the claims is rejected
	for i := 0; i < dot; i++ {
		tampered := flipAt(token, i)
		if codec.Verify(tampered) {
			t.Fatalf("tampered claims at %d verified: %s", i, tampered)
		}
	}
}

func TestVerify_ForgedClaimsRejected(t *testing.T) {
	t.Parallel()
	codec, _ := newTestCodec(t)
	token := mint(t, codec, time.Second)
	sig := token[strings.IndexByte(token, '.')+1:]

	// a well-formed payload with a longer expiry reuses an old signature
	forged := base64.RawURLEncoding.EncodeToString([]byte(`{"sub":"admin","exp":99999999999999}`))
	_, err := codec.Decode(forged + "." + sig)
	if !errors.Is(err, tokens.ErrTokenBadSignature()) {
		t.Errorf("expected ErrTokenBadSignature, got %v", err)
	}
}

func TestVerify_OtherSecretRejected(t *testing.T) {
	t.Parallel()
	codec, _ := newTestCodec(t)
	other := tokens.NewCodec([]byte("another-secret-of-reasonable-size"), time.Hour)

	// a token signed under another secret never verifies
	if codec.Verify(mint(t, other, time.Hour)) {
		t.Error("token from another secret verified")
	}
}

func TestVerify_Malformed(t *testing.T) {
	t.Parallel()
	codec, _ := newTestCodec(t)
	valid := mint(t, codec, time.Hour)
	claims, sig, _ := strings.Cut(valid, ".")

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"no separator", "abcdef"},
		{"only separator", "."},
		{"empty claims", "." + sig},
		{"empty signature", claims + "."},
		{"stray separators", claims + ".." + sig},
		{"three parts", valid + ".extra"},
		{"leading separator", "." + valid},
		{"upper-case signature", claims + "." + strings.ToUpper(sig)},
		{"short signature", claims + "." + sig[:10]},
		{"garbage", "!!!.???"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if codec.Verify(tt.token) {
				t.Errorf("Verify(%q) = true, want false", tt.token)
			}
		})
	}
}

func TestVerify_NoSecret(t *testing.T) {
	t.Parallel()
	codec, _ := newTestCodec(t)
	token := mint(t, codec, time.Hour)

	// a codec without a secret fails closed
	empty := tokens.NewCodec(nil, time.Hour)
	if empty.Verify(token) {
		t.Error("Verify without secret should fail")
	}
}

func TestDecode_Errors(t *testing.T) {
	t.Parallel()
	codec, clock := newTestCodec(t)
	token := mint(t, codec, time.Second)

	// malformed
	if _, err := codec.Decode("nope"); !errors.Is(err, tokens.ErrTokenMalformed()) {
		t.Errorf("expected ErrTokenMalformed, got %v", err)
	}

	// expired
	clock.Advance(2 * time.Second)
	if _, err := codec.Decode(token); !errors.Is(err, tokens.ErrTokenExpired()) {
		t.Errorf("expected ErrTokenExpired, got %v", err)
	}
}

func flipAt(s string, i int) string {
	b := []byte(s)
	if b[i] == 'A' {
		b[i] = 'B'
	} else {
		b[i] = 'A'
	}
	return string(b)
}
