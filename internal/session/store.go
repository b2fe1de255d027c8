package session

import (
	"sync"
	"time"

	. "github.com/puentesglobales/careermastery/internal/logging"
)

// DefaultTimeout is how long a session may sit idle before the sweep
// marks it abandoned.
const DefaultTimeout = 30 * time.Minute

// Store is the interface for session storage backends.
// Implementations: MemoryStore (only backend; sessions are memory-resident
// and eviction-based, durability is not part of the contract).
type Store interface {
	// GetOrCreate returns the active session for userID, creating one if
	// none exists. Always succeeds; touches lastActivity.
	GetOrCreate(userID string) *Session

	// Get returns the active session for userID, or nil.
	Get(userID string) *Session

	// Touch updates lastActivity after a mutation outside GetOrCreate.
	Touch(userID string)

	// Sweep evicts sessions idle past the timeout and returns how many.
	Sweep() int

	// Len reports the number of active sessions.
	Len() int
}

// MemoryStore keeps sessions in a map indexed directly by userID; the
// product allows one active session per user, so a scan is never needed.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
	timeout  time.Duration
	now      func() time.Time
}

// NewMemoryStore creates a store with the given idle timeout. now is the
// clock used for creation, touch and eviction decisions; pass time.Now in
// production and a fixed clock in tests.
func NewMemoryStore(timeout time.Duration, now func() time.Time) *MemoryStore {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if now == nil {
		now = time.Now
	}
	return &MemoryStore{
		sessions: make(map[string]*Session),
		timeout:  timeout,
		now:      now,
	}
}

func (s *MemoryStore) GetOrCreate(userID string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[userID]; ok {
		sess.LastActivity = s.now()
		return sess
	}

	now := s.now()
	sess := &Session{
		ID:           newSessionID(userID, now),
		UserID:       userID,
		Status:       StatusActive,
		Language:     "es",
		CurrentPhase: PhaseForTurn(0),
		CreatedAt:    now,
		LastActivity: now,
	}
	s.sessions[userID] = sess
	L_info("session: created", "sessionId", sess.ID, "userId", userID)
	return sess
}

func (s *MemoryStore) Get(userID string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[userID]
}

func (s *MemoryStore) Touch(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[userID]; ok {
		sess.LastActivity = s.now()
	}
}

// Sweep is the only destruction path for sessions. Idle sessions are marked
// abandoned and dropped from the index.
func (s *MemoryStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	evicted := 0
	for userID, sess := range s.sessions {
		if now.Sub(sess.LastActivity) > s.timeout {
			sess.Status = StatusAbandoned
			delete(s.sessions, userID)
			evicted++
			L_info("session: abandoned by timeout", "sessionId", sess.ID, "userId", userID, "idle", now.Sub(sess.LastActivity).Round(time.Second))
		}
	}
	if evicted > 0 {
		L_debug("session: sweep complete", "evicted", evicted, "remaining", len(s.sessions))
	}
	return evicted
}

func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
