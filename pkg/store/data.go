package store

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ucom-dev/ucom/pkg/eval"
	"github.com/ucom-dev/ucom/pkg/reactive"
)

var (
	// ErrDuplicateKey is returned when a key is defined twice.
	ErrDuplicateKey = errors.New("store: duplicate key")

	// ErrUnknownKey is returned when assigning to a key that was never defined.
	ErrUnknownKey = errors.New("store: unknown key")

	// ErrReadOnly is returned when assigning to a computed value or function.
	ErrReadOnly = errors.New("store: read-only key")
)

type entryKind uint8

const (
	kindSignal entryKind = iota
	kindComputed
	kindFunc
	kindLocal
)

type entry struct {
	kind     entryKind
	signal   *reactive.Signal[any]
	computed *reactive.Computed[any]
	value    any // function or plain local value
}

// Data is an ordered map of reactive accessors and bound functions.
// It implements eval.Scope: reads of signal and computed keys subscribe the
// current listener.
type Data struct {
	mu      sync.RWMutex
	keys    []string
	entries map[string]*entry
}

var _ eval.Scope = (*Data)(nil)

// NewData creates an empty Data.
func NewData() *Data {
	return &Data{entries: make(map[string]*entry)}
}

func (d *Data) define(key string, e *entry) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.entries[key]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateKey, key)
	}
	d.entries[key] = e
	d.keys = append(d.keys, key)
	return nil
}

func (d *Data) entry(key string) (*entry, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	e, ok := d.entries[key]
	return e, ok
}

// DefineSignal installs sig under key.
func (d *Data) DefineSignal(key string, sig *reactive.Signal[any]) error {
	return d.define(key, &entry{kind: kindSignal, signal: sig})
}

// DefineComputed installs c under key. The key is read-only.
func (d *Data) DefineComputed(key string, c *reactive.Computed[any]) error {
	return d.define(key, &entry{kind: kindComputed, computed: c})
}

// DefineFunc installs a non-reactive function under key.
func (d *Data) DefineFunc(key string, fn any) error {
	return d.define(key, &entry{kind: kindFunc, value: fn})
}

// DefineLocal installs a plain, non-reactive value under key.
func (d *Data) DefineLocal(key string, v any) error {
	return d.define(key, &entry{kind: kindLocal, value: v})
}

// Keys returns the keys in definition order.
func (d *Data) Keys() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]string, len(d.keys))
	copy(out, d.keys)
	return out
}

// Has reports whether key is defined.
func (d *Data) Has(key string) bool {
	_, ok := d.entry(key)
	return ok
}

// Get returns the value of key, subscribing the current listener when the
// key is reactive. Unknown keys read as nil.
func (d *Data) Get(key string) any {
	v, _ := d.Lookup(key)
	return v
}

// Peek returns the value of key without subscribing.
func (d *Data) Peek(key string) any {
	e, ok := d.entry(key)
	if !ok {
		return nil
	}
	switch e.kind {
	case kindSignal:
		return e.signal.Peek()
	case kindComputed:
		return e.computed.Peek()
	default:
		return e.value
	}
}

// Set writes v to key.
func (d *Data) Set(key string, v any) error {
	return d.Assign(key, v)
}

// Lookup implements eval.Scope.
func (d *Data) Lookup(name string) (any, bool) {
	e, ok := d.entry(name)
	if !ok {
		return nil, false
	}
	switch e.kind {
	case kindSignal:
		return e.signal.Get(), true
	case kindComputed:
		return e.computed.Get(), true
	default:
		return e.value, true
	}
}

// Assign implements eval.Scope.
func (d *Data) Assign(name string, v any) error {
	e, ok := d.entry(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownKey, name)
	}
	switch e.kind {
	case kindSignal:
		e.signal.Set(v)
		return nil
	case kindLocal:
		d.mu.Lock()
		e.value = v
		d.mu.Unlock()
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrReadOnly, name)
	}
}

// Signal returns the signal backing key, or nil when key is not a signal.
func (d *Data) Signal(key string) *reactive.Signal[any] {
	e, ok := d.entry(key)
	if !ok || e.kind != kindSignal {
		return nil
	}
	return e.signal
}

// Extend returns a new Data holding every entry of d followed by locals
// (in sorted order). Signal and computed entries are shared, so writes
// through the child are visible to the parent. A local shadowing an
// existing key replaces it in the child only.
func (d *Data) Extend(locals map[string]any) *Data {
	d.mu.RLock()
	child := &Data{
		keys:    make([]string, len(d.keys), len(d.keys)+len(locals)),
		entries: make(map[string]*entry, len(d.entries)+len(locals)),
	}
	copy(child.keys, d.keys)
	for k, e := range d.entries {
		if e.kind == kindLocal {
			cp := *e
			e = &cp
		}
		child.entries[k] = e
	}
	d.mu.RUnlock()

	for _, k := range sortedKeys(locals) {
		if _, ok := child.entries[k]; !ok {
			child.keys = append(child.keys, k)
		}
		child.entries[k] = &entry{kind: kindLocal, value: locals[k]}
	}
	return child
}

// Snapshot returns the current values of every key without subscribing.
func (d *Data) Snapshot() map[string]any {
	out := make(map[string]any)
	for _, k := range d.Keys() {
		out[k] = d.Peek(k)
	}
	return out
}
