package wizard

import "sync"

// Manager holds open wizard sessions in memory, keyed by user and document.
// Sessions are mutually exclusive per key: opening again replaces the old one.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

// Session serializes access to one wizard. The wizard itself is
// single-threaded; the mutex only guards concurrent HTTP requests.
type Session struct {
	mu sync.Mutex
	w  *Wizard
}

// NewManager constructs an empty session manager.
func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*Session)}
}

// Put registers a wizard as the session for user+document.
func (m *Manager) Put(userID, documentID string, w *Wizard) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := &Session{w: w}
	m.sessions[sessionKey(userID, documentID)] = s
	return s
}

// Get returns the open session for user+document.
func (m *Manager) Get(userID, documentID string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[sessionKey(userID, documentID)]
	return s, ok
}

// Close drops the session for user+document.
func (m *Manager) Close(userID, documentID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionKey(userID, documentID))
}

// With runs fn while holding the session lock.
func (s *Session) With(fn func(w *Wizard) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.w)
}

func sessionKey(userID, documentID string) string {
	return userID + "/" + documentID
}
