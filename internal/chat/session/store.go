package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"onderwijsloket_backend/platform/logger"
)

// DefaultTTL is how long an idle widget session stays resident.
const DefaultTTL = 30 * time.Minute

type entry struct {
	session  *Session
	lastSeen time.Time
}

// Store keeps the anonymous widget sessions in memory. Idle sessions are
// swept on access; a widget that comes back after the TTL simply gets a
// fresh session.
type Store struct {
	mu          sync.Mutex
	entries     map[uuid.UUID]*entry
	ttl         time.Duration
	completions Streamer
	log         *logger.Logger
	now         func() time.Time
}

// NewStore creates a session store backed by the given completion streamer.
func NewStore(completions Streamer, ttl time.Duration, log *logger.Logger) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		entries:     make(map[uuid.UUID]*entry),
		ttl:         ttl,
		completions: completions,
		log:         log,
		now:         time.Now,
	}
}

// Get returns the session for id, or false when it is unknown or expired.
func (st *Store) Get(id uuid.UUID) (*Session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.sweep()

	e, ok := st.entries[id]
	if !ok {
		return nil, false
	}
	e.lastSeen = st.now()
	return e.session, true
}

// Create opens a new session and returns its id.
func (st *Store) Create() (uuid.UUID, *Session) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.sweep()

	id := uuid.New()
	sess := New(st.completions, st.log)
	st.entries[id] = &entry{session: sess, lastSeen: st.now()}
	return id, sess
}

// Len reports the number of resident sessions.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.entries)
}

// sweep drops sessions idle past the TTL. Caller holds the lock.
func (st *Store) sweep() {
	cutoff := st.now().Add(-st.ttl)
	for id, e := range st.entries {
		if e.lastSeen.Before(cutoff) {
			delete(st.entries, id)
		}
	}
}
