package database

import (
	"fmt"
	"time"

	"github.com/deauport/deauport/internal/service"
	"github.com/google/uuid"
)

func (s *SQLiteStore) AuditLog() service.AuditLog {
	return s
}

func (s *SQLiteStore) RecordEvent(
	kind service.EventKind,
	remote string,
	at time.Time,
) error {
	_, err := s.db.Exec(`
		INSERT INTO auth_event (id, kind, remote, at)
		VALUES (?1, ?2, ?3, ?4);`,
		uuid.NewString(),
		string(kind),
		remote,
		at.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("couldn't insert into auth_event: %v", err)
	}
	return nil
}

func (s *SQLiteStore) RecentEvents(
	limit int,
) (
	[]service.AuthEvent,
	error,
) {
	rows, err := s.db.Query(`
		SELECT id, kind, remote, at
		FROM auth_event
		ORDER BY at DESC, rowid DESC
		LIMIT ?1;`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("couldn't query auth_event: %v", err)
	}
	defer rows.Close()

	var events []service.AuthEvent
	for rows.Next() {
		var (
			event service.AuthEvent
			kind  string
			at    int64
		)
		if err := rows.Scan(&event.ID, &kind, &event.Remote, &at); err != nil {
			return nil, fmt.Errorf("couldn't scan auth_event: %v", err)
		}
		event.Kind = service.EventKind(kind)
		event.At = time.UnixMilli(at)
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("couldn't read auth_event: %v", err)
	}
	return events, nil
}

// PruneEvents deletes events recorded before cutoff and reports how many
// were removed.
func (s *SQLiteStore) PruneEvents(
	cutoff time.Time,
) (
	int64,
	error,
) {
	result, err := s.db.Exec(`
		DELETE FROM auth_event
		WHERE at < ?1;`,
		cutoff.UnixMilli(),
	)
	if err != nil {
		return 0, fmt.Errorf("couldn't delete from auth_event: %v", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("couldn't count deleted events: %v", err)
	}
	return count, nil
}
