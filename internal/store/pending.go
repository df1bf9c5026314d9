package store

import (
	"sort"
	"sync"
)

// Pending tracks which operations are in flight.
// A flag is set before the network call and cleared by the returned done
// func, which callers defer so it runs whatever the outcome.
type Pending struct {
	mu  sync.Mutex
	ops map[string]struct{}
}

// NewPending creates an empty tracker.
func NewPending() *Pending {
	return &Pending{ops: make(map[string]struct{})}
}

// Start marks op as in progress. ok is false if op is already running, in
// which case done is a no-op.
func (p *Pending) Start(op string) (done func(), ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, running := p.ops[op]; running {
		return func() {}, false
	}
	p.ops[op] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			p.mu.Lock()
			delete(p.ops, op)
			p.mu.Unlock()
		})
	}, true
}

// Active reports whether op is in progress.
func (p *Pending) Active(op string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.ops[op]
	return ok
}

// List returns the in-flight operations, sorted.
func (p *Pending) List() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	ops := make([]string, 0, len(p.ops))
	for op := range p.ops {
		ops = append(ops, op)
	}
	sort.Strings(ops)
	return ops
}
