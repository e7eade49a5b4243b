package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mbcet/alumnimeet/internal/form"
)

// Registry hands out one form controller per visitor session id. Idle
// sessions are dropped after the TTL, and once max sessions are held the
// least recently seen one makes room for a new visitor.
type Registry struct {
	ttl     time.Duration
	max     int
	newForm func() *form.Controller
	onCount func(int)
	now     func() time.Time

	mu       sync.Mutex
	sessions map[string]*entry
}

type entry struct {
	c    *form.Controller
	seen time.Time
}

type Option func(*Registry)

// WithCountObserver is called with the session count whenever it changes.
func WithCountObserver(fn func(int)) Option { return func(r *Registry) { r.onCount = fn } }

func WithClock(now func() time.Time) Option { return func(r *Registry) { r.now = now } }

// WithMaxSessions caps the number of live sessions. Zero means no cap.
func WithMaxSessions(n int) Option { return func(r *Registry) { r.max = n } }

func NewRegistry(ttl time.Duration, newForm func() *form.Controller, opts ...Option) *Registry {
	r := &Registry{
		ttl:      ttl,
		newForm:  newForm,
		now:      time.Now,
		sessions: make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Get returns the controller for id, creating a fresh session when id is empty
// or unknown. The returned id is the one the caller should keep.
func (r *Registry) Get(id string) (*form.Controller, string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.sweep(now)

	if e, ok := r.sessions[id]; ok && id != "" {
		e.seen = now
		return e.c, id, false
	}
	if r.max > 0 && len(r.sessions) >= r.max {
		r.evictOldest()
	}
	id = uuid.NewString()
	e := &entry{c: r.newForm(), seen: now}
	r.sessions[id] = e
	r.notify()
	return e.c, id, true
}

// Lookup returns an existing controller without creating one.
func (r *Registry) Lookup(id string) (*form.Controller, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[id]
	if !ok || r.expired(e, r.now()) {
		return nil, false
	}
	return e.c, true
}

// Detached returns a fresh controller that belongs to no session. It lets a
// first-time visitor see the blank form without holding a session slot.
func (r *Registry) Detached() *form.Controller { return r.newForm() }

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

func (r *Registry) expired(e *entry, now time.Time) bool {
	return r.ttl > 0 && now.Sub(e.seen) > r.ttl
}

func (r *Registry) sweep(now time.Time) {
	removed := false
	for id, e := range r.sessions {
		if r.expired(e, now) {
			delete(r.sessions, id)
			removed = true
		}
	}
	if removed {
		r.notify()
	}
}

func (r *Registry) evictOldest() {
	var oldestID string
	var oldest time.Time
	for id, e := range r.sessions {
		if oldestID == "" || e.seen.Before(oldest) {
			oldestID, oldest = id, e.seen
		}
	}
	delete(r.sessions, oldestID)
}

func (r *Registry) notify() {
	if r.onCount != nil {
		r.onCount(len(r.sessions))
	}
}
