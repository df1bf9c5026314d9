// Package store holds the client-side normalized cart and wishlist.
//
// The store is a cache of server state with a best-effort consistency window.
// Every accepted change carries a version; fetches are stamped with a ticket
// when they start so that a response which resolves after a newer fetch, or
// after an optimistic local mutation, is discarded instead of overwriting
// newer state.
package store

import (
	"sort"
	"sync"

	"learnhub-storefront/internal/model"
)

// Kind names a collection held by the store.
type Kind string

const (
	KindCart     Kind = "cart"
	KindWishlist Kind = "wishlist"
)

// Ticket stamps a fetch with the version it will install if accepted.
type Ticket uint64

// Snapshot is a point-in-time copy of a slice.
type Snapshot struct {
	Kind       Kind             `json:"kind"`
	Collection model.Collection `json:"collection"`
	Version    uint64           `json:"version"`
	Loaded     bool             `json:"loaded"` // false until the first accepted fetch
}

// Slice is one normalized collection with its version and subscribers.
// Safe for concurrent use.
type Slice struct {
	mu        sync.Mutex
	kind      Kind
	seq       uint64 // last issued version
	version   uint64 // version of the current state
	coll      model.Collection
	loaded    bool
	listeners map[int]func(Snapshot)
	nextID    int

	// notifyMu serializes delivery; delivered is the last version handed
	// to listeners.
	notifyMu  sync.Mutex
	delivered uint64
}

// NewSlice creates an empty slice.
func NewSlice(kind Kind) *Slice {
	return &Slice{
		kind:      kind,
		coll:      model.NewCollection("", nil),
		listeners: make(map[int]func(Snapshot)),
	}
}

// Begin issues a ticket for a fetch that is about to start.
func (s *Slice) Begin() Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return Ticket(s.seq)
}

// Apply installs c if the ticket is newer than the current state.
// Returns false when the response is stale and was discarded.
func (s *Slice) Apply(t Ticket, c model.Collection) bool {
	s.mu.Lock()
	if uint64(t) <= s.version {
		s.mu.Unlock()
		return false
	}
	s.version = uint64(t)
	s.coll = c.Clone()
	if s.coll.Items == nil {
		s.coll.Items = []model.Item{}
	}
	s.loaded = true
	snap, listeners := s.snapshotLocked(), s.listenersLocked()
	s.mu.Unlock()

	s.publish(listeners, snap)
	return true
}

// ReplaceAll overwrites items and total from a fresh normalize result.
func (s *Slice) ReplaceAll(c model.Collection) {
	s.Apply(s.Begin(), c)
}

// RemoveOne drops every item keyed by referenceID and recomputes the total.
// Removing an absent id is a no-op and returns false.
func (s *Slice) RemoveOne(referenceID string) bool {
	s.mu.Lock()
	if !s.coll.Contains(referenceID) {
		s.mu.Unlock()
		return false
	}
	s.bumpLocked()
	s.coll = s.coll.Without(referenceID)
	snap, listeners := s.snapshotLocked(), s.listenersLocked()
	s.mu.Unlock()

	s.publish(listeners, snap)
	return true
}

// Clear empties the collection.
func (s *Slice) Clear() {
	s.mu.Lock()
	s.bumpLocked()
	s.coll = s.coll.Emptied()
	snap, listeners := s.snapshotLocked(), s.listenersLocked()
	s.mu.Unlock()

	s.publish(listeners, snap)
}

// Snapshot returns a copy of the current state.
func (s *Slice) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Subscribe registers fn to receive a snapshot after every accepted change.
// Snapshots arrive in increasing Version order; one overtaken by a newer
// change may be skipped. fn must not change the slice itself.
// The returned function unsubscribes; it is safe to call more than once.
func (s *Slice) Subscribe(fn func(Snapshot)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// bumpLocked gives a local mutation a fresh version so in-flight fetches
// started before it are treated as stale.
func (s *Slice) bumpLocked() {
	s.seq++
	s.version = s.seq
}

func (s *Slice) snapshotLocked() Snapshot {
	return Snapshot{
		Kind:       s.kind,
		Collection: s.coll.Clone(),
		Version:    s.version,
		Loaded:     s.loaded,
	}
}

// listenersLocked copies listeners in subscription order so they can be
// called without holding the lock.
func (s *Slice) listenersLocked() []func(Snapshot) {
	ids := make([]int, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	fns := make([]func(Snapshot), len(ids))
	for i, id := range ids {
		fns[i] = s.listeners[id]
	}
	return fns
}

// publish hands snap to listeners in version order. Changes race to publish
// once the state lock is released, so a snapshot older than one already
// delivered is dropped.
func (s *Slice) publish(listeners []func(Snapshot), snap Snapshot) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	if snap.Version <= s.delivered {
		return
	}
	s.delivered = snap.Version
	for _, fn := range listeners {
		fn(snap)
	}
}

// Store is the client-side state container.
type Store struct {
	Cart     *Slice
	Wishlist *Slice
	Pending  *Pending
}

// New creates an empty store.
func New() *Store {
	return &Store{
		Cart:     NewSlice(KindCart),
		Wishlist: NewSlice(KindWishlist),
		Pending:  NewPending(),
	}
}

// Slice returns the slice for kind, or nil for an unknown kind.
func (s *Store) Slice(kind Kind) *Slice {
	switch kind {
	case KindCart:
		return s.Cart
	case KindWishlist:
		return s.Wishlist
	default:
		return nil
	}
}
