package service

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/deauport/deauport/pkg/tokens"
)

// Login verifies password and, on success, writes a freshly minted session
// token into cookies. remember selects the longer TTL.
func (s *Service) Login(
	cookies CookieStore,
	remote string,
	password string,
	remember bool,
) error {
	ok, err := s.verifier.Verify(password)
	if err != nil {
		s.record(EventLoginUnconfigured, remote)
		return err
	}
	if len(s.config.Secret) == 0 {
		s.record(EventLoginUnconfigured, remote)
		return ErrNoSigningSecret
	}
	if !ok {
		s.record(EventLoginFailed, remote)
		return ErrInvalidCredentials
	}

	ttl := s.config.SessionTTL
	if remember {
		ttl = s.config.RememberTTL
	}
	if ttl <= 0 {
		ttl = s.codec.DefaultTTL()
	}

	token, err := s.codec.Mint(ttl)
	if err != nil {
		return fmt.Errorf("%w: couldn't mint session token: %v", ErrInternal, err)
	}

	cookies.Set(CookieName, token, s.cookieAttributes(ttl))
	s.record(EventLogin, remote)
	return nil
}

// Logout tells the client to discard its session cookie. Tokens already
// handed out stay valid until they expire.
func (s *Service) Logout(
	cookies CookieStore,
	remote string,
) {
	cookies.Delete(CookieName)
	s.record(EventLogout, remote)
}

// IsAuthenticated reports whether cookies carry a valid session token.
func (s *Service) IsAuthenticated(cookies CookieStore) bool {
	token, ok := cookies.Get(CookieName)
	if !ok {
		return false
	}
	return s.codec.Verify(token)
}

// Session returns the claims of a valid session cookie.
func (s *Service) Session(cookies CookieStore) (*tokens.Claims, bool) {
	token, ok := cookies.Get(CookieName)
	if !ok {
		return nil, false
	}
	claims, err := s.codec.Decode(token)
	if err != nil {
		return nil, false
	}
	return claims, true
}

func (s *Service) cookieAttributes(ttl time.Duration) CookieAttributes {
	return CookieAttributes{
		MaxAge:   ttl,
		Path:     "/",
		HTTPOnly: true,
		Secure:   s.config.Production,
		SameSite: http.SameSiteLaxMode,
	}
}

func (s *Service) record(kind EventKind, remote string) {
	if err := s.audit.RecordEvent(kind, remote, s.now()); err != nil {
		log.Printf("service: couldn't record %s event: %v\n", kind, err)
	}
}
