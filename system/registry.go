package system

import (
	"slices"
	"sort"
	"sync"

	"github.com/rotisserie/eris"
)

// Registry keeps the registered catalog for each simulation kind.
// Registration order is preserved per kind; maps in Go are unordered so the
// catalog itself is a slice.
type Registry struct {
	mu       sync.RWMutex
	catalogs map[SimulationKind][]Entry
}

func NewRegistry() *Registry {
	return &Registry{
		catalogs: make(map[SimulationKind][]Entry),
	}
}

// Register adds entries to the catalog for the given simulation kind.
// There can only be one entry with a given ID per kind. If any entry is a
// duplicate, an error is returned and none of the entries are registered.
func (r *Registry) Register(kind SimulationKind, entries ...Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]ID, 0, len(entries))
	for _, entry := range entries {
		if entry.ID == "" {
			return eris.Errorf("system %q has an empty ID", entry.Name)
		}
		if slices.Contains(ids, entry.ID) {
			return eris.Errorf("duplicate system %q in slice", entry.ID)
		}
		if r.contains(kind, entry.ID) {
			return eris.Errorf("system %q is already registered for kind %q", entry.ID, kind)
		}
		ids = append(ids, entry.ID)
	}

	r.catalogs[kind] = append(r.catalogs[kind], entries...)
	return nil
}

// GetCatalog returns a copy of the full registered catalog for the given
// simulation kind. An unknown kind is an error; a world cannot run without
// systems.
func (r *Registry) GetCatalog(kind SimulationKind) ([]Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	catalog, ok := r.catalogs[kind]
	if !ok {
		return nil, eris.Errorf("no catalog registered for simulation kind %q", kind)
	}
	out := make([]Entry, len(catalog))
	copy(out, catalog)
	return out, nil
}

func (r *Registry) contains(kind SimulationKind, id ID) bool {
	for _, entry := range r.catalogs[kind] {
		if entry.ID == id {
			return true
		}
	}
	return false
}

// Sort re-sorts a catalog into the execution order the loop requires: by
// stage, then by ID within a stage. Callers must not assume a filtered
// catalog is already in execution order.
func Sort(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Stage != out[j].Stage {
			return out[i].Stage < out[j].Stage
		}
		return out[i].ID < out[j].ID
	})
	return out
}
