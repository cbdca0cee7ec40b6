package taghelper

import (
	"cmp"
	"slices"
	"sync"
)

// Registry holds the tag helper descriptors known to a run.
// It is safe for concurrent use; documents resolve against it in parallel.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]*Descriptor
}

// NewRegistry creates an empty descriptor registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*Descriptor)}
}

// Register adds descriptors to the registry.
// A descriptor with the same name and assembly replaces the earlier one.
func (r *Registry) Register(descs ...*Descriptor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range descs {
		r.byName[key(d.Name, d.Assembly)] = d
	}
}

// Get retrieves a descriptor by type name and assembly.
func (r *Registry) Get(name, assembly string) (*Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.byName[key(name, assembly)]
	return d, ok
}

// All returns every descriptor ordered by assembly, then name.
func (r *Registry) All() []*Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	descs := make([]*Descriptor, 0, len(r.byName))
	for _, d := range r.byName {
		descs = append(descs, d)
	}
	slices.SortFunc(descs, func(a, b *Descriptor) int {
		if c := cmp.Compare(a.Assembly, b.Assembly); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return descs
}

// Lookup returns the descriptors matched by lookup text pattern and assembly,
// in registry order.
func (r *Registry) Lookup(match func(typeName, assembly string) bool) []*Descriptor {
	var out []*Descriptor
	for _, d := range r.All() {
		if match(d.Name, d.Assembly) {
			out = append(out, d)
		}
	}
	return out
}

// Len returns the number of registered descriptors.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byName)
}

func key(name, assembly string) string {
	return assembly + "\x00" + name
}
