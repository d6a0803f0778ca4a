// ABOUTME: Optimistic change helpers shared by like toggles and comment posts
// ABOUTME: A pending change is either committed or reverted to its snapshot

package gallery

// Pending is a local change applied ahead of its gateway write.
type Pending[T any] struct {
	snapshot T
	revert   func(T)
	settled  bool
}

// Begin applies a local change and remembers how to undo it. apply returns
// the snapshot handed back to revert.
func Begin[T any](apply func() T, revert func(T)) *Pending[T] {
	var snap T
	if apply != nil {
		snap = apply()
	}
	return &Pending[T]{snapshot: snap, revert: revert}
}

// Settle keeps the change when err is nil and reverts it otherwise. It
// returns err unchanged. Settling twice is a no-op.
func (p *Pending[T]) Settle(err error) error {
	if p.settled {
		return err
	}
	p.settled = true
	if err != nil && p.revert != nil {
		p.revert(p.snapshot)
	}
	return err
}

// Guard tracks keys with a request in flight.
type Guard[K comparable] struct {
	active map[K]struct{}
}

// Acquire marks k busy. It returns false if k was already busy.
func (g *Guard[K]) Acquire(k K) bool {
	if g.active == nil {
		g.active = make(map[K]struct{})
	}
	if _, busy := g.active[k]; busy {
		return false
	}
	g.active[k] = struct{}{}
	return true
}

// Release marks k idle.
func (g *Guard[K]) Release(k K) {
	delete(g.active, k)
}

// Active reports whether k is busy.
func (g *Guard[K]) Active(k K) bool {
	_, busy := g.active[k]
	return busy
}

// Reset clears every key.
func (g *Guard[K]) Reset() {
	g.active = nil
}
