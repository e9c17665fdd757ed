package bind

import (
	"fmt"
	"log/slog"
	"runtime/debug"

	ucomerrors "github.com/ucom-dev/ucom/internal/errors"
	"github.com/ucom-dev/ucom/pkg/dom"
	"github.com/ucom-dev/ucom/pkg/eval"
	"github.com/ucom-dev/ucom/pkg/reactive"
	"github.com/ucom-dev/ucom/pkg/store"
)

// contextKey is the node value slot holding a node's Context.
type contextKey struct{}

// Context is the reactive scope a subtree is bound against.
type Context struct {
	Root *dom.Node
	Data *store.Data
	Refs *store.Refs

	owner    *reactive.Owner
	registry *store.Registry
	walker   *Walker
}

// Option configures a root Context.
type Option func(*Context)

// WithWalker sets the walker used for nested binding. The default is
// NewWalker().
func WithWalker(w *Walker) Option {
	return func(c *Context) {
		c.walker = w
	}
}

// WithRegistry sets the registry providing global refs.
// The default is store.Default().
func WithRegistry(r *store.Registry) Option {
	return func(c *Context) {
		c.registry = r
	}
}

// WithParentOwner makes the context's owner a child of o.
func WithParentOwner(o *reactive.Owner) Option {
	return func(c *Context) {
		c.owner = reactive.NewOwner(o)
	}
}

// NewRootContext creates the context of a component's shadow root and
// attaches it to root.
func NewRootContext(root *dom.Node, data *store.Data, opts ...Option) *Context {
	c := &Context{
		Root: root,
		Data: data,
		Refs: store.NewRefs(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.owner == nil {
		c.owner = reactive.NewOwner(nil)
	}
	if c.walker == nil {
		c.walker = NewWalker()
	}
	if c.registry == nil {
		c.registry = store.Default()
	}
	if c.Data == nil {
		c.Data = store.NewData()
	}
	root.SetValue(contextKey{}, c)
	return c
}

// NewScopedContext creates a child of parent for node. The child sees every
// entry of the parent plus locals; refs are copied.
func NewScopedContext(parent *Context, node *dom.Node, locals map[string]any) *Context {
	c := &Context{
		Root:     node,
		Data:     parent.Data.Extend(locals),
		Refs:     parent.Refs.Clone(),
		owner:    reactive.NewOwner(parent.owner),
		registry: parent.registry,
		walker:   parent.walker,
	}
	node.SetValue(contextKey{}, c)
	return c
}

// Lookup returns the context attached to node, or nil.
func Lookup(node *dom.Node) *Context {
	c, _ := node.Value(contextKey{}).(*Context)
	return c
}

// Cleanup disposes the context attached to node and forgets it. It is a
// no-op for nodes without a context.
func Cleanup(node *dom.Node) {
	if c := Lookup(node); c != nil {
		c.Dispose()
	}
}

// Dispose disposes every effect, listener and child context created under c.
func (c *Context) Dispose() {
	if Lookup(c.Root) == c {
		c.Root.DeleteValue(contextKey{})
	}
	c.owner.Dispose()
}

// Disposed reports whether c was disposed.
func (c *Context) Disposed() bool {
	return c.owner.IsDisposed()
}

// Owner returns the reactive owner of c.
func (c *Context) Owner() *reactive.Owner {
	return c.owner
}

// Registry returns the registry providing global refs.
func (c *Context) Registry() *store.Registry {
	return c.registry
}

// Walker returns the walker used for nested binding.
func (c *Context) Walker() *Walker {
	return c.walker
}

// OnCleanup registers fn to run when c is disposed.
func (c *Context) OnCleanup(fn func()) {
	c.owner.OnCleanup(fn)
}

// Effect runs fn as an effect owned by c. A panic in fn is logged as an
// expression failure and does not escape.
func (c *Context) Effect(name string, fn func()) *reactive.Effect {
	return c.owner.Effect(func() reactive.Cleanup {
		defer func() {
			if r := recover(); r != nil {
				c.walker.logger.Error("binding panicked",
					"directive", name,
					"error", ucomerrors.New("E110").WithDetail(fmt.Sprint(r)),
					"stack", string(debug.Stack()))
			}
		}()
		fn()
		return nil
	}, reactive.EffectName(name))
}

// Scope returns the expression scope of c: its data plus $refs.
func (c *Context) Scope() eval.Scope {
	return contextScope{c}
}

type contextScope struct {
	c *Context
}

func (s contextScope) Lookup(name string) (any, bool) {
	switch name {
	case "$refs":
		return s.c.Refs.Map(), true
	case "$root":
		return s.c.Root, true
	}
	return s.c.Data.Lookup(name)
}

func (s contextScope) Assign(name string, v any) error {
	return s.c.Data.Assign(name, v)
}

func (c *Context) logger(d Directive) *slog.Logger {
	return c.walker.logger.With("directive", d.Name())
}
