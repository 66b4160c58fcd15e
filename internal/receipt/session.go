package receipt

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// SessionCookie is the name of the opaque session cookie.
const SessionCookie = "trackmate_session"

// Session is the explicit logged-in state for one browser: created at
// login, discarded at logout, passed to every authenticated handler. There
// is no hidden process-wide "current user". Sessions do not expire.
type Session struct {
	ID        string
	UserID    string
	CreatedAt time.Time
}

// SessionManager holds active sessions keyed by their opaque ID.
type SessionManager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	now      func() time.Time
}

// NewSessionManager creates an empty SessionManager.
func NewSessionManager() *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
}

// Create starts a session for the user and returns it.
func (m *SessionManager) Create(userID string) *Session {
	s := &Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: m.now(),
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return s
}

// Get looks up a session by ID.
func (m *SessionManager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Delete ends a session. Deleting an unknown ID is a no-op.
func (m *SessionManager) Delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}
