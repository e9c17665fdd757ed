package store

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/goccy/go-json"

	ucomerrors "github.com/ucom-dev/ucom/internal/errors"
	"github.com/ucom-dev/ucom/pkg/persist"
	"github.com/ucom-dev/ucom/pkg/reactive"
)

// Registry holds the signals shared between stores of the same component
// name, the storage backing persisted keys and the global ref table.
// Shared keys are "name:key".
type Registry struct {
	mu        sync.Mutex
	synced    map[string]*reactive.Signal[any]
	persisted map[string]*reactive.Signal[any]

	storage persist.Storage
	owner   *reactive.Owner
	refs    *Refs
	logger  *slog.Logger
	ctx     context.Context
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithStorage sets the storage backing persisted keys.
// The default is an in-memory storage.
func WithStorage(s persist.Storage) RegistryOption {
	return func(r *Registry) {
		r.storage = s
	}
}

// WithRegistryLogger sets the registry logger.
func WithRegistryLogger(l *slog.Logger) RegistryOption {
	return func(r *Registry) {
		r.logger = l
	}
}

// WithContext sets the context used for storage calls.
func WithContext(ctx context.Context) RegistryOption {
	return func(r *Registry) {
		r.ctx = ctx
	}
}

// NewRegistry creates a Registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		synced:    make(map[string]*reactive.Signal[any]),
		persisted: make(map[string]*reactive.Signal[any]),
		owner:     reactive.NewOwner(nil),
		refs:      NewRefs(),
		logger:    slog.Default(),
		ctx:       context.Background(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.storage == nil {
		r.storage = persist.NewMemoryStorage()
	}
	r.logger = r.logger.With("component", "store")
	return r
}

var defaultRegistry atomic.Pointer[Registry]

// Default returns the process-wide registry, creating it on first use.
func Default() *Registry {
	if r := defaultRegistry.Load(); r != nil {
		return r
	}
	defaultRegistry.CompareAndSwap(nil, NewRegistry())
	return defaultRegistry.Load()
}

// SetDefault replaces the process-wide registry.
func SetDefault(r *Registry) {
	defaultRegistry.Store(r)
}

// Storage returns the storage backing persisted keys.
func (r *Registry) Storage() persist.Storage {
	return r.storage
}

// GlobalRefs returns the ref table shared by every component.
func (r *Registry) GlobalRefs() *Refs {
	return r.refs
}

// Reset disposes every persistence mirror and forgets all shared signals
// and global refs.
func (r *Registry) Reset() {
	r.mu.Lock()
	old := r.owner
	r.owner = reactive.NewOwner(nil)
	clear(r.synced)
	clear(r.persisted)
	r.mu.Unlock()

	old.Dispose()
	r.refs.Clear()
}

func sharedKey(name, key string) string {
	return name + ":" + key
}

// Synced returns the signal shared under name:key, creating it with
// initial when absent. Later callers get the existing signal and their
// initial value is ignored.
func (r *Registry) Synced(name, key string, initial any) *reactive.Signal[any] {
	k := sharedKey(name, key)

	r.mu.Lock()
	defer r.mu.Unlock()
	if sig, ok := r.synced[k]; ok {
		return sig
	}
	sig := reactive.NewSignal(initial)
	r.synced[k] = sig
	return sig
}

// Persisted returns the signal persisted under name:key. On creation the
// signal is seeded from storage when a non-null value is stored, and an
// effect writes every value back.
func (r *Registry) Persisted(name, key string, initial any) *reactive.Signal[any] {
	k := sharedKey(name, key)

	r.mu.Lock()
	if sig, ok := r.persisted[k]; ok {
		r.mu.Unlock()
		return sig
	}
	sig := reactive.NewSignal(r.load(k, initial))
	r.persisted[k] = sig
	owner := r.owner
	r.mu.Unlock()

	reactive.Untracked(func() {
		owner.Effect(func() reactive.Cleanup {
			r.save(k, sig.Get())
			return nil
		}, reactive.EffectName("persist "+k))
	})
	return sig
}

func (r *Registry) load(key string, initial any) any {
	raw, ok, err := r.storage.GetItem(r.ctx, key)
	if err != nil {
		r.logger.Error("persist read failed", "key", key,
			"error", ucomerrors.New("E130").Wrap(err))
		return initial
	}
	if !ok {
		return initial
	}

	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		r.logger.Error("persist read failed", "key", key,
			"error", ucomerrors.New("E130").WithDetail("stored value is not JSON").Wrap(err))
		return initial
	}
	if v == nil {
		return initial
	}
	return v
}

func (r *Registry) save(key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		r.logger.Error("persist write failed", "key", key,
			"error", ucomerrors.New("E131").Wrap(err))
		return
	}
	if err := r.storage.SetItem(r.ctx, key, string(raw)); err != nil {
		r.logger.Error("persist write failed", "key", key,
			"error", ucomerrors.New("E131").Wrap(err))
	}
}
