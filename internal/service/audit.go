package service

import "time"

type EventKind string

const (
	EventLogin             EventKind = "login"
	EventLoginFailed       EventKind = "login_failed"
	EventLoginUnconfigured EventKind = "login_unconfigured"
	EventLogout            EventKind = "logout"
)

// AuthEvent records an attempt, never the password or token involved.
type AuthEvent struct {
	ID     string    `json:"id"`
	Kind   EventKind `json:"kind"`
	Remote string    `json:"remote"`
	At     time.Time `json:"at"`
}

// AuditLog persists authentication events. Nothing reads it to make a
// trust decision.
type AuditLog interface {
	RecordEvent(kind EventKind, remote string, at time.Time) error
	RecentEvents(limit int) ([]AuthEvent, error)
}

type nopAudit struct{}

func (nopAudit) RecordEvent(EventKind, string, time.Time) error { return nil }
func (nopAudit) RecentEvents(int) ([]AuthEvent, error)          { return nil, nil }

func (s *Service) Audit() AuditLog {
	return s.audit
}
