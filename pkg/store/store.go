package store

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"

	ucomerrors "github.com/ucom-dev/ucom/internal/errors"
	"github.com/ucom-dev/ucom/pkg/dom"
	"github.com/ucom-dev/ucom/pkg/reactive"
)

// Method is a function bound to the element owning a store.
type Method func(owner *dom.Node, args ...any) any

// Store is the reactive data of one component instance.
type Store struct {
	owner    *dom.Node
	name     string
	data     *Data
	registry *Registry
	logger   *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithRegistry sets the registry used for synced and persisted keys.
// The default is Default().
func WithRegistry(r *Registry) Option {
	return func(s *Store) {
		s.registry = r
	}
}

// WithLogger sets the store logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		s.logger = l
	}
}

// New creates an empty store for the element owner of component name.
func New(owner *dom.Node, name string, opts ...Option) *Store {
	s := &Store{
		owner:  owner,
		name:   name,
		data:   NewData(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.registry == nil {
		s.registry = Default()
	}
	s.logger = s.logger.With("component", name)
	return s
}

// Data returns the store's accessor map.
func (s *Store) Data() *Data { return s.data }

// Name returns the component name the store belongs to.
func (s *Store) Name() string { return s.name }

// Owner returns the element the store belongs to.
func (s *Store) Owner() *dom.Node { return s.owner }

// Registry returns the registry backing synced and persisted keys.
func (s *Store) Registry() *Registry { return s.registry }

// Signals returns the signal backing every signal key.
func (s *Store) Signals() map[string]*reactive.Signal[any] {
	out := make(map[string]*reactive.Signal[any])
	for _, k := range s.data.Keys() {
		if sig := s.data.Signal(k); sig != nil {
			out[k] = sig
		}
	}
	return out
}

// Add defines key. Functions are installed as bound, non-reactive methods;
// any other value becomes a signal.
func (s *Store) Add(key string, value any) error {
	if fn, ok := s.function(value); ok {
		return s.check(key, s.data.DefineFunc(key, fn))
	}
	return s.check(key, s.data.DefineSignal(key, reactive.NewSignal(value)))
}

// AddRaw adds every entry of values in sorted key order. It keeps going
// after a failure and returns the joined errors.
func (s *Store) AddRaw(values map[string]any) error {
	var errs []error
	for _, k := range sortedKeys(values) {
		if err := s.Add(k, values[k]); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Computed defines a read-only key derived from the whole store.
func (s *Store) Computed(key string, fn func(*Data) any) error {
	c := reactive.NewComputed(func() any { return fn(s.data) })
	return s.check(key, s.data.DefineComputed(key, c))
}

// Sync defines key as a signal shared with every store of the same
// component name. Functions are installed as plain methods.
func (s *Store) Sync(key string, value any) error {
	if _, ok := s.function(value); ok {
		return s.Add(key, value)
	}
	if s.data.Has(key) {
		return s.check(key, fmt.Errorf("%w: %q", ErrDuplicateKey, key))
	}
	return s.check(key, s.data.DefineSignal(key, s.registry.Synced(s.name, key, value)))
}

// Persist is like Sync, but the shared value is seeded from and mirrored
// to the registry's storage.
func (s *Store) Persist(key string, value any) error {
	if _, ok := s.function(value); ok {
		return s.Add(key, value)
	}
	if s.data.Has(key) {
		return s.check(key, fmt.Errorf("%w: %q", ErrDuplicateKey, key))
	}
	return s.check(key, s.data.DefineSignal(key, s.registry.Persisted(s.name, key, value)))
}

// function reports whether v is a function and returns it bound to the
// store's owner when it is a Method.
func (s *Store) function(v any) (any, bool) {
	switch fn := v.(type) {
	case Method:
		owner := s.owner
		return func(args ...any) any { return fn(owner, args...) }, true
	case func(owner *dom.Node, args ...any) any:
		return s.function(Method(fn))
	case nil:
		return nil, false
	}
	if reflect.TypeOf(v).Kind() == reflect.Func {
		return v, true
	}
	return nil, false
}

func (s *Store) check(key string, err error) error {
	if errors.Is(err, ErrDuplicateKey) {
		s.logger.Error("duplicate store key",
			"key", key,
			"error", ucomerrors.New("E102").WithDetail(fmt.Sprintf("key %q is already defined", key)))
	}
	return err
}
