package session

import (
	"errors"
	"sync"
	"time"

	"krishi-voice-be/internal/repository/memory"
	"krishi-voice-be/pkg/store"
)

// ErrSessionNotFound is returned when a call's session was evicted mid-turn.
// The caller must restart context; there is nothing to append to.
var ErrSessionNotFound = errors.New("session: not found")

// ErrCallEnded is returned when a turn arrives after the hangup signal.
var ErrCallEnded = errors.New("session: call already ended")

// Manager owns per-call conversational state. Telephony providers redeliver
// and race webhook events, so everything here must be safe under concurrent
// access for the same call id.
type Manager struct {
	sessionRepo *memory.SessionRepository

	mu        sync.Mutex
	locks     map[string]*callLock // per-call serialization, one writer per call at a time
	onEvicted func(callID string, session *store.Session)
}

// callLock is reference-counted so the map entry is only removed once nobody
// holds or waits on it. Dropping a held mutex would let the next Acquire mint
// a fresh one and run concurrently with the holder.
type callLock struct {
	mu   sync.Mutex
	refs int
}

// NewManager creates a new session manager
func NewManager(sessionRepo *memory.SessionRepository) *Manager {
	m := &Manager{
		sessionRepo: sessionRepo,
		locks:       make(map[string]*callLock),
	}
	sessionRepo.OnEvicted(func(callID string, session *store.Session) {
		// Explicit hangups mark Ended before deleting; the caller holds the
		// call lock there and archives the final state itself. Only true
		// inactivity evictions are forwarded.
		if session.Ended || m.onEvicted == nil {
			return
		}
		// The cache janitor fires this hook synchronously on its own
		// goroutine. Take the call lock before handing the session out, so
		// an in-flight turn finishes mutating it first, and do that off the
		// janitor goroutine so the sweep is never blocked on a slow turn.
		go func() {
			unlock := m.Acquire(callID)
			defer unlock()
			m.onEvicted(callID, session)
		}()
	})
	return m
}

// OnEvicted registers a callback fired when a session times out from
// inactivity. Explicit hangups via End do not fire it; the caller already
// holds the final session there. Set once, during wiring.
func (m *Manager) OnEvicted(fn func(callID string, session *store.Session)) {
	m.onEvicted = fn
}

// Acquire locks the per-call mutex so turns for one call serialize while
// distinct calls proceed in parallel. The returned func releases the lock
// and garbage-collects the map entry once the last holder is gone.
func (m *Manager) Acquire(callID string) func() {
	m.mu.Lock()
	lock, ok := m.locks[callID]
	if !ok {
		lock = &callLock{}
		m.locks[callID] = lock
	}
	lock.refs++
	m.mu.Unlock()

	lock.mu.Lock()
	return func() {
		lock.mu.Unlock()
		m.mu.Lock()
		lock.refs--
		if lock.refs == 0 {
			delete(m.locks, callID)
		}
		m.mu.Unlock()
	}
}

// GetOrCreate returns the live session for callID, creating it on the first
// webhook. Concurrent first deliveries converge on a single instance: the
// check-then-create runs under the manager mutex.
func (m *Manager) GetOrCreate(callID string) (*store.Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if session, found := m.sessionRepo.Get(callID); found {
		return session, false
	}
	now := time.Now()
	session := &store.Session{
		CallID:       callID,
		CreatedAt:    now,
		LastActiveAt: now,
	}
	m.sessionRepo.Save(session)
	return session, true
}

// Get returns the live session without creating one.
func (m *Manager) Get(callID string) (*store.Session, bool) {
	return m.sessionRepo.Get(callID)
}

// AppendTurn records a completed turn and refreshes the inactivity clock.
// Fails if the session was evicted while the turn was in flight.
func (m *Manager) AppendTurn(callID string, turn store.Turn) error {
	session, found := m.sessionRepo.Get(callID)
	if !found {
		return ErrSessionNotFound
	}
	if session.Ended {
		return ErrCallEnded
	}
	session.Turns = append(session.Turns, turn)
	session.LastActiveAt = time.Now()
	m.sessionRepo.Save(session)
	return nil
}

// Touch refreshes the inactivity clock on webhook arrival.
func (m *Manager) Touch(callID string) {
	if session, found := m.sessionRepo.Get(callID); found {
		session.LastActiveAt = time.Now()
		m.sessionRepo.Save(session)
	}
}

// End marks the call finished and evicts its session. The returned session
// is the final state, handed to the archiver. In-flight turns observe Ended
// via AppendTurn and are recorded nowhere. Callers serialize via Acquire;
// marking Ended before Delete keeps the eviction hook from archiving the
// same call a second time.
func (m *Manager) End(callID string) (*store.Session, bool) {
	session, found := m.sessionRepo.Get(callID)
	if !found {
		return nil, false
	}
	session.Ended = true
	m.sessionRepo.Delete(callID)
	return session, true
}

// Active returns a snapshot of live sessions for the monitoring endpoint.
func (m *Manager) Active() []*store.Session {
	return m.sessionRepo.All()
}
