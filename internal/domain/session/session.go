// Package session holds the per-mount session state and the pure routing
// decisions the guards take from it.
package session

import (
	"sync"
	"sync/atomic"
	"time"
)

// Session is the state established once per mount. It is loading until
// exactly one Settle or Fail call; afterwards it never changes. Fields are
// written only inside that call and read only after Done is closed.
type Session struct {
	once      sync.Once
	done      chan struct{}
	unmounted atomic.Bool
	startedAt time.Time

	user         *User
	storeExists  bool
	publications []Publication
	settledAt    time.Time
}

// Snapshot is a read-only view of a Session.
type Snapshot struct {
	Loading      bool          `json:"loading"`
	User         *User         `json:"user"`
	StoreExists  bool          `json:"store_exists"`
	Publications []Publication `json:"publications"`
}

// New returns a loading session.
func New() *Session {
	return &Session{
		done:      make(chan struct{}),
		startedAt: time.Now(),
	}
}

// Settle records the bootstrap outcome and ends loading. Only the first call
// on a session has any effect; it reports whether this call applied the state.
// A session that was unmounted still stops loading but keeps its zero state.
func (s *Session) Settle(user *User, storeExists bool, publications []Publication) bool {
	applied := false
	s.once.Do(func() {
		if !s.unmounted.Load() {
			s.user = user
			s.storeExists = storeExists
			s.publications = publications
			applied = true
		}
		s.settledAt = time.Now()
		close(s.done)
	})
	return applied
}

// Fail settles the session as unauthenticated with no store.
func (s *Session) Fail() bool {
	return s.Settle(nil, false, nil)
}

// Done is closed once the session has settled.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Loading reports whether the session is still waiting for its bootstrap.
func (s *Session) Loading() bool {
	select {
	case <-s.done:
		return false
	default:
		return true
	}
}

// Unmount marks the owner of the session as gone. A settle arriving later is
// dropped.
func (s *Session) Unmount() {
	s.unmounted.Store(true)
}

// Unmounted reports whether Unmount was called.
func (s *Session) Unmounted() bool {
	return s.unmounted.Load()
}

// Elapsed is how long the bootstrap took, or has taken so far.
func (s *Session) Elapsed() time.Duration {
	if s.Loading() {
		return time.Since(s.startedAt)
	}
	return s.settledAt.Sub(s.startedAt)
}

// Snapshot returns the current view of the session.
func (s *Session) Snapshot() Snapshot {
	if s.Loading() {
		return Snapshot{Loading: true}
	}
	return Snapshot{
		User:         s.user,
		StoreExists:  s.storeExists,
		Publications: s.publications,
	}
}
