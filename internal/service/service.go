// Package service implements the session authentication logic for the
// deauport dashboard: verifying the admin password, minting session
// tokens into a cookie, and checking that cookie on later requests.
package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/deauport/deauport/internal/config"
	"github.com/deauport/deauport/pkg/tokens"
)

var (
	ErrNotConfigured      = errors.New("server not configured")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInternal           = errors.New("internal error")

	ErrNoPasswordDigest = fmt.Errorf("%w: AUTH_PASS_SHA256", ErrNotConfigured)
	ErrNoSigningSecret  = fmt.Errorf("%w: AUTH_SECRET", ErrNotConfigured)
)

// CookieName is the name of the session cookie.
const CookieName = "deauport.sid"

// Service coordinates the credential verifier and token codec. It holds
// nothing mutable, so one instance serves every request.
type Service struct {
	config   *config.Config
	verifier *CredentialVerifier
	codec    *tokens.Codec
	audit    AuditLog
	now      func() time.Time
}

type Option func(*Service)

// WithAudit reports login and logout attempts to log.
func WithAudit(log AuditLog) Option {
	return func(s *Service) {
		if log != nil {
			s.audit = log
		}
	}
}

// WithClock replaces time.Now for token expiry and audit timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
		s.codec = tokens.NewCodec(s.config.Secret, s.config.SessionTTL, tokens.WithClock(now))
	}
}

func New(
	cfg *config.Config,
	opts ...Option,
) *Service {
	s := &Service{
		config:   cfg,
		verifier: NewCredentialVerifier(cfg.PasswordDigest),
		codec:    tokens.NewCodec(cfg.Secret, cfg.SessionTTL),
		audit:    nopAudit{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Config() *config.Config {
	return s.config
}

func (s *Service) Codec() *tokens.Codec {
	return s.codec
}
