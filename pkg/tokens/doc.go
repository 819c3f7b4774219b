// Package tokens mints and verifies the stateless session tokens used by
// the deauport dashboard.
//
// A token has the shape
//
//	base64url(claimsJSON) "." hex(HMAC-SHA256(secret, base64url(claimsJSON)))
//
// where the claims are {"sub":"admin","exp":<epoch milliseconds>}. The
// server keeps no record of issued tokens; validity is re-derived on every
// request from the signature and the expiry alone.
//
// # Usage
//
//	codec := tokens.NewCodec(secret, tokens.ParseTTL("7d"))
//
//	// mint with the default TTL
//	token, err := codec.Mint(0)
//
//	// or with an explicit one
//	token, err = codec.Mint(30 * 24 * time.Hour)
//
//	if codec.Verify(token) {
//	    // authenticated
//	}
//
// # Verification order
//
// Verify checks the token's structure, then its signature, and only then
// decodes the claims. A tampered payload is therefore rejected by the
// signature check whether or not it happens to parse. Expiry is strict:
// a token is valid while now < exp.
//
// # Error Handling
//
// Verify only returns a bool. Decode returns the reason for diagnostics:
//
//	_, err := codec.Decode(token)
//	switch {
//	case errors.Is(err, tokens.ErrTokenExpired()):
//	case errors.Is(err, tokens.ErrTokenBadSignature()):
//	case errors.Is(err, tokens.ErrTokenMalformed()):
//	case errors.Is(err, tokens.ErrNoSecret()):
//	}
//
// Callers must not surface the distinction to clients.
package tokens
