package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/courtside/win-predictor/internal/form"
)

// SessionCookie names the cookie carrying the session id
const SessionCookie = "wp_session"

var activeSessions = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "winpredict_active_sessions",
	Help: "Number of in-memory form sessions",
})

type session struct {
	state    *form.State
	lastSeen time.Time
}

// SessionStore keeps one form.State per browser session, in memory only.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*session
	ttl      time.Duration
	now      func() time.Time
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Get returns the state for id and refreshes its idle timer.
func (s *SessionStore) Get(id string) (*form.State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	if s.ttl > 0 && s.now().Sub(sess.lastSeen) > s.ttl {
		delete(s.sessions, id)
		activeSessions.Set(float64(len(s.sessions)))
		return nil, false
	}
	sess.lastSeen = s.now()
	return sess.state, true
}

// Create starts a new session with a fresh form state.
func (s *SessionStore) Create() (string, *form.State) {
	id := uuid.New().String()
	state := form.NewState()

	s.mu.Lock()
	s.sessions[id] = &session{state: state, lastSeen: s.now()}
	activeSessions.Set(float64(len(s.sessions)))
	s.mu.Unlock()

	return id, state
}

// Sweep drops sessions idle for longer than the TTL and returns how many.
func (s *SessionStore) Sweep() int {
	if s.ttl <= 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.ttl)
	removed := 0
	for id, sess := range s.sessions {
		if sess.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	activeSessions.Set(float64(len(s.sessions)))
	return removed
}

func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Run sweeps every interval until ctx is canceled.
func (s *SessionStore) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.Sweep()
		}
	}
}

// session resolves the caller's form state, starting a new session and
// setting the cookie when there is none.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) *form.State {
	if c, err := r.Cookie(SessionCookie); err == nil {
		if state, ok := h.sessions.Get(c.Value); ok {
			return state
		}
	}

	id, state := h.sessions.Create()
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	return state
}

// existingSession resolves the caller's state without creating one.
func (h *Handler) existingSession(r *http.Request) (*form.State, bool) {
	c, err := r.Cookie(SessionCookie)
	if err != nil {
		return nil, false
	}
	return h.sessions.Get(c.Value)
}
