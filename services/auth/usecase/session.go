package usecase

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/piresc/fraudguard/internal/pkg/logger"
	"github.com/piresc/fraudguard/internal/pkg/otp"
)

var errShuttingDown = errors.New("auth service is shutting down")

type session struct {
	id        string
	lifecycle *otp.Lifecycle

	mu          sync.Mutex
	maskedPhone string
}

func newSession(lifecycle *otp.Lifecycle) *session {
	return &session{
		id:        uuid.NewString(),
		lifecycle: lifecycle,
	}
}

func (s *session) setMaskedPhone(masked string) {
	s.mu.Lock()
	s.maskedPhone = masked
	s.mu.Unlock()
}

func (s *session) getMaskedPhone() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.maskedPhone
}

type entry struct {
	session  *session
	lastSeen time.Time
}

// sessionStore keeps sessions in memory. Sessions untouched for idleTTL are
// closed by a periodic sweep unless a countdown is running or their code is
// still valid.
type sessionStore struct {
	clock   otp.Clock
	idleTTL time.Duration
	reaper  otp.Task

	mu       sync.Mutex
	sessions map[string]*entry
	closed   bool
}

func newSessionStore(clock otp.Clock, idleTTL time.Duration) *sessionStore {
	s := &sessionStore{
		clock:    clock,
		idleTTL:  idleTTL,
		sessions: make(map[string]*entry),
	}
	if idleTTL > 0 {
		s.reaper = clock.Every(reapInterval(idleTTL), s.reap)
	}
	return s
}

func reapInterval(idleTTL time.Duration) time.Duration {
	if idleTTL < time.Minute {
		return idleTTL
	}
	return time.Minute
}

func (s *sessionStore) add(sess *session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return errShuttingDown
	}
	s.sessions[sess.id] = &entry{session: sess, lastSeen: s.clock.Now()}
	return nil
}

// get returns the session and marks it as recently used
func (s *sessionStore) get(id string) (*session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	e.lastSeen = s.clock.Now()
	return e.session, true
}

// remove unregisters and closes the session
func (s *sessionStore) remove(id string) bool {
	s.mu.Lock()
	e, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if ok {
		e.session.lifecycle.Close()
	}
	return ok
}

// holds reports whether sess is still the registered session for its id
func (s *sessionStore) holds(sess *session) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[sess.id]
	return ok && e.session == sess
}

func (s *sessionStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *sessionStore) reap() {
	now := s.clock.Now()

	s.mu.Lock()
	var idle []*session
	for id, e := range s.sessions {
		if now.Sub(e.lastSeen) <= s.idleTTL || busy(e.session) {
			continue
		}
		idle = append(idle, e.session)
		delete(s.sessions, id)
	}
	s.mu.Unlock()

	for _, sess := range idle {
		sess.lifecycle.Close()
	}
	if len(idle) > 0 {
		logger.Info("Reaped idle OTP sessions", logger.Int("count", len(idle)))
	}
}

func busy(sess *session) bool {
	return sess.lifecycle.CountdownActive() || sess.lifecycle.State() == otp.StateCodeActive
}

// closeAll stops the sweep, closes every session and refuses new ones
func (s *sessionStore) closeAll() int {
	s.mu.Lock()
	s.closed = true
	sessions := s.sessions
	s.sessions = make(map[string]*entry)
	s.mu.Unlock()

	if s.reaper != nil {
		s.reaper.Stop()
	}
	for _, e := range sessions {
		e.session.lifecycle.Close()
	}
	return len(sessions)
}
