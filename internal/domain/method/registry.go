package method

import (
	"errors"
	"sort"
	"sync"
)

// ErrMethodNotFound is returned when no declaration is registered under the
// requested name.
var ErrMethodNotFound = errors.New("method not found")

// Registry holds the current in-memory snapshot of registered declarations.
// It is populated from the declaration store at startup and updated by the
// registrar on registration and removal. Reads vastly outnumber writes, so a
// read-write lock guards the map. Replacing or removing a declaration
// invalidates that name's resolver cache entry via the hook.
type Registry struct {
	mu         sync.RWMutex
	methods    map[string]*Declaration
	invalidate func(name string)
}

// NewRegistry creates an empty Registry. The invalidate hook is called with
// the method name whenever a declaration is replaced or removed; pass nil if
// no resolver cache is attached.
func NewRegistry(invalidate func(name string)) *Registry {
	return &Registry{
		methods:    make(map[string]*Declaration),
		invalidate: invalidate,
	}
}

// Get returns the declaration registered under name.
func (r *Registry) Get(name string) (*Declaration, error) {
	r.mu.RLock()
	d, ok := r.methods[name]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrMethodNotFound
	}
	return d, nil
}

// Put upserts a declaration. A prior declaration with the same name is
// replaced wholesale and its resolver cache entry is invalidated.
func (r *Registry) Put(d *Declaration) {
	r.mu.Lock()
	_, replaced := r.methods[d.Name]
	r.methods[d.Name] = d
	r.mu.Unlock()

	if replaced && r.invalidate != nil {
		r.invalidate(d.Name)
	}
}

// Remove drops the declaration registered under name, invalidating its
// resolver cache entry. Removing an unknown name is a no-op.
func (r *Registry) Remove(name string) {
	r.mu.Lock()
	_, existed := r.methods[name]
	delete(r.methods, name)
	r.mu.Unlock()

	if existed && r.invalidate != nil {
		r.invalidate(name)
	}
}

// List returns all registered declarations sorted by name.
func (r *Registry) List() []*Declaration {
	r.mu.RLock()
	out := make([]*Declaration, 0, len(r.methods))
	for _, d := range r.methods {
		out = append(out, d)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Len returns the number of registered declarations.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.methods)
}
