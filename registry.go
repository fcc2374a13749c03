package multiworld

import "sync"

// WorldRegistry is the process-wide, append-only collection of every world
// created during this process start. External collaborators (monitoring,
// logging) enumerate active contexts through it.
type WorldRegistry struct {
	mu     sync.Mutex
	worlds []*World
}

func newWorldRegistry() *WorldRegistry {
	return &WorldRegistry{}
}

func (r *WorldRegistry) append(w *World) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.worlds = append(r.worlds, w)
}

// Worlds returns the registered worlds in creation order.
func (r *WorldRegistry) Worlds() []*World {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*World, len(r.worlds))
	copy(out, r.worlds)
	return out
}

func (r *WorldRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.worlds)
}
