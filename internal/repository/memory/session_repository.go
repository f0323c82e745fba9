package memory

import (
	"time"

	"krishi-voice-be/pkg/store"

	"github.com/patrickmn/go-cache"
)

// SessionRepository keeps live call sessions in process memory.
// The cache TTL is the caller-inactivity timeout; the purge interval is the
// background sweep that evicts silent calls. Nothing survives a restart,
// which is fine: a phone call does not outlive the process either.
type SessionRepository struct {
	cache *cache.Cache
}

func NewSessionRepository(inactivityTimeout time.Duration) *SessionRepository {
	sweep := inactivityTimeout / 2
	if sweep < time.Second {
		sweep = time.Second
	}
	c := cache.New(inactivityTimeout, sweep)
	return &SessionRepository{
		cache: c,
	}
}

// Save stores the session and resets its inactivity clock.
func (r *SessionRepository) Save(session *store.Session) {
	r.cache.Set(session.CallID, session, cache.DefaultExpiration)
}

func (r *SessionRepository) Get(callID string) (*store.Session, bool) {
	if x, found := r.cache.Get(callID); found {
		return x.(*store.Session), true
	}
	return nil, false
}

func (r *SessionRepository) Delete(callID string) {
	r.cache.Delete(callID)
}

// All returns a snapshot of the live sessions, for the monitoring endpoint.
func (r *SessionRepository) All() []*store.Session {
	items := r.cache.Items()
	sessions := make([]*store.Session, 0, len(items))
	for _, item := range items {
		sessions = append(sessions, item.Object.(*store.Session))
	}
	return sessions
}

// OnEvicted registers a hook fired when the sweep drops a session. The hook
// also fires on explicit Delete, so callers must tolerate double notification.
func (r *SessionRepository) OnEvicted(fn func(callID string, session *store.Session)) {
	r.cache.OnEvicted(func(key string, value interface{}) {
		if s, ok := value.(*store.Session); ok {
			fn(key, s)
		}
	})
}
