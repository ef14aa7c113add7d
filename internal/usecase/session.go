package usecase

import (
	"sync"

	"github.com/prezzoscout/backend/internal/domain"
)

// SessionSnapshot is a read-only copy of one session's current state.
type SessionSnapshot struct {
	State   domain.SearchState  `json:"state"`
	Message string              `json:"message,omitempty"`
	Data    *domain.ProductData `json:"data,omitempty"`
}

// SessionRegistry tracks the search lifecycle per client session. Each
// search gets a sequence number from Begin; completions quote it back, so a
// search superseded by a newer one can never overwrite fresher state.
type SessionRegistry struct {
	mu       sync.Mutex
	nextSeq  uint64
	sessions map[string]*domain.SearchSession
}

// NewSessionRegistry creates an empty registry.
func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{sessions: make(map[string]*domain.SearchSession)}
}

// Begin marks the session as Loading and returns the sequence number the
// caller must use to complete this search.
func (r *SessionRegistry) Begin(sessionID string) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextSeq++
	seq := r.nextSeq
	r.session(sessionID).Apply(domain.SearchStarted{Seq: seq})
	return seq
}

// Complete records a successful search. A stale seq is a no-op.
func (r *SessionRegistry) Complete(sessionID string, seq uint64, data *domain.ProductData) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.session(sessionID).Apply(domain.SearchSucceeded{Seq: seq, Data: data})
}

// Fail records a failed search with its user-facing message. A stale seq is
// a no-op.
func (r *SessionRegistry) Fail(sessionID string, seq uint64, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.session(sessionID).Apply(domain.SearchFailed{Seq: seq, Message: message})
}

// Snapshot returns the session's current state; unknown sessions are Idle.
func (r *SessionRegistry) Snapshot(sessionID string) SessionSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.session(sessionID)
	return SessionSnapshot{State: s.State, Message: s.Message, Data: s.Data}
}

func (r *SessionRegistry) session(sessionID string) *domain.SearchSession {
	s, ok := r.sessions[sessionID]
	if !ok {
		s = domain.NewSearchSession()
		r.sessions[sessionID] = s
	}
	return s
}
