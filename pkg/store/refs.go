package store

import (
	"sort"
	"sync"
	"weak"

	"github.com/ucom-dev/ucom/pkg/dom"
)

// Refs maps names to weakly held nodes. A ref whose node was collected
// reads as nil.
type Refs struct {
	mu    sync.RWMutex
	nodes map[string]weak.Pointer[dom.Node]
}

// NewRefs creates an empty ref table.
func NewRefs() *Refs {
	return &Refs{nodes: make(map[string]weak.Pointer[dom.Node])}
}

// Set stores a weak reference to n under name.
func (r *Refs) Set(name string, n *dom.Node) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nodes[name] = weak.Make(n)
}

// Get returns the node stored under name.
func (r *Refs) Get(name string) *dom.Node {
	r.mu.RLock()
	p, ok := r.nodes[name]
	r.mu.RUnlock()
	if !ok {
		return nil
	}
	return p.Value()
}

// Delete forgets name.
func (r *Refs) Delete(name string) {
	r.mu.Lock()
	delete(r.nodes, name)
	r.mu.Unlock()
}

// Names returns the names of live refs, sorted.
func (r *Refs) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []string
	for name, p := range r.nodes {
		if p.Value() != nil {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// Map returns the live refs as a plain map, for use in expressions.
func (r *Refs) Map() map[string]any {
	out := make(map[string]any)
	for _, name := range r.Names() {
		if n := r.Get(name); n != nil {
			out[name] = n
		}
	}
	return out
}

// Clone returns an independent copy of r.
func (r *Refs) Clone() *Refs {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c := &Refs{nodes: make(map[string]weak.Pointer[dom.Node], len(r.nodes))}
	for k, v := range r.nodes {
		c.nodes[k] = v
	}
	return c
}

// Clear removes every ref.
func (r *Refs) Clear() {
	r.mu.Lock()
	clear(r.nodes)
	r.mu.Unlock()
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
