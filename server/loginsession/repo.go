package loginsession

import "time"

// Session is the server-side authenticated state for one browser. The
// client holds only an opaque session ID (wrapped in a signed cookie);
// everything else lives here. Stored sessions always carry a non-empty
// SubjectID and DisplayName.
type Session struct {
	SubjectID   string // student code or email
	DisplayName string

	CreatedAt time.Time
	ExpiresAt time.Time
}

type Repo interface {
	Upsert(sessionID string, session Session) error
	Get(sessionID string) (Session, error)
	Delete(sessionID string) error
}
