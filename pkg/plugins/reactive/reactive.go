package reactive

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"reflect"
	"slices"
	"strings"

	"github.com/ucom-dev/ucom/pkg/bind"
	"github.com/ucom-dev/ucom/pkg/component"
	"github.com/ucom-dev/ucom/pkg/store"
)

// classKey and instanceKey are the value slots holding plugin state on a
// class and on an element.
type (
	classKey    struct{}
	instanceKey struct{}
)

type classState struct {
	props   map[string]Prop
	storeFn StoreFunc
}

type instance struct {
	store    *store.Store
	ctx      *bind.Context
	teardown []func()
}

// Plugin binds the shadow tree of every connected element to a reactive
// store.
type Plugin struct {
	walker   *bind.Walker
	registry *store.Registry
	logger   *slog.Logger
}

// Option configures a Plugin.
type Option func(*Plugin)

// WithWalker sets the directive walker.
func WithWalker(w *bind.Walker) Option {
	return func(p *Plugin) {
		p.walker = w
	}
}

// WithRegistry sets the registry backing synced and persisted keys.
func WithRegistry(r *store.Registry) Option {
	return func(p *Plugin) {
		p.registry = r
	}
}

// WithLogger sets the plugin logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Plugin) {
		p.logger = l
	}
}

// New creates the reactive plugin.
func New(opts ...Option) *Plugin {
	p := &Plugin{logger: slog.Default()}
	for _, opt := range opts {
		opt(p)
	}
	if p.walker == nil {
		p.walker = bind.NewWalker(bind.WithLogger(p.logger))
	}
	if p.registry == nil {
		p.registry = store.Default()
	}
	p.logger = p.logger.With("plugin", "reactive")
	return p
}

// Define reads the component's prop and store declarations and observes
// every prop attribute.
func (p *Plugin) Define(_ context.Context, c *component.Class) error {
	raw := make(map[string]any)
	if d, ok := c.Prototype().(PropsDeclarer); ok {
		maps.Copy(raw, d.Props())
	}

	exports := c.Module().Exports
	switch v := exports[PropsExport].(type) {
	case nil:
	case map[string]any:
		maps.Copy(raw, v)
	case func() map[string]any:
		maps.Copy(raw, v())
	default:
		return fmt.Errorf("%s export has type %T", PropsExport, v)
	}

	cs := &classState{props: makeProps(raw)}
	switch v := exports[StoreExport].(type) {
	case nil:
	case StoreFunc:
		cs.storeFn = v
	case func(Helpers) map[string]any:
		cs.storeFn = v
	default:
		return fmt.Errorf("%s export has type %T", StoreExport, v)
	}

	c.Observe(slices.Sorted(maps.Keys(cs.props))...)
	c.SetValue(classKey{}, cs)
	return nil
}

// AttributeChangedHandler implements component.AttributeChangedProvider.
// Prop attributes are cast and written to the store once connected.
func (p *Plugin) AttributeChangedHandler(el *component.Element) func(component.AttributeChange) {
	cs := classStateOf(el.Class())
	if cs == nil {
		return nil
	}
	return func(ch component.AttributeChange) {
		inst := instanceOf(el)
		prop, ok := cs.props[ch.Name]
		if inst == nil || !ok {
			return
		}

		var raw any = ch.NewValue
		if ch.Removed {
			raw = nil
		}
		v := prop.cast(raw)
		data := inst.store.Data()
		if sameValue(v, data.Peek(ch.Name)) {
			return
		}
		if err := data.Set(ch.Name, v); err != nil {
			p.logger.Warn("prop not writable", "prop", ch.Name, "error", err)
		}
	}
}

// ConnectedHandler implements component.ConnectedProvider. Binding happens
// once per element; later connects are no-ops.
func (p *Plugin) ConnectedHandler(el *component.Element) func() {
	return func() { p.connect(el) }
}

// DisconnectedHandler implements component.DisconnectedProvider.
func (p *Plugin) DisconnectedHandler(el *component.Element) func() {
	return func() {
		inst := instanceOf(el)
		if inst == nil {
			return
		}
		for _, fn := range inst.teardown {
			fn()
		}
	}
}

func (p *Plugin) connect(el *component.Element) {
	if instanceOf(el) != nil {
		return
	}
	inst := &instance{}
	el.SetValue(instanceKey{}, inst)

	inst.store = p.makeStore(el)
	inst.ctx = bind.NewRootContext(el.Shadow, inst.store.Data(),
		bind.WithWalker(p.walker),
		bind.WithRegistry(p.registry),
	)
	p.walker.Bind(el.Shadow, inst.ctx)

	shadow := el.Shadow
	inst.teardown = append(inst.teardown, func() { bind.Cleanup(shadow) })
	p.logger.Debug("element connected", "component", el.Class().Name(), "id", el.ID())
}

// makeStore builds an element's store from its props, methods, function
// exports and store declarations, in that order. Failures are logged by the
// store and skipped.
func (p *Plugin) makeStore(el *component.Element) *store.Store {
	c := el.Class()
	s := store.New(el.Host, c.Name(), store.WithRegistry(p.registry), store.WithLogger(p.logger))

	cs := classStateOf(c)
	if cs == nil {
		cs = &classState{}
	}

	props := make(map[string]any, len(cs.props))
	for k, prop := range cs.props {
		raw := prop.Default
		if v, ok := el.Host.Attr(k); ok {
			raw = v
		}
		props[k] = prop.cast(raw)
	}
	_ = s.AddRaw(props)

	if md, ok := el.Behavior().(MethodsDeclarer); ok {
		methods := md.Methods()
		for _, k := range slices.Sorted(maps.Keys(methods)) {
			_ = s.Add(k, methods[k])
		}
	}

	exports := c.Module().Exports
	for _, k := range slices.Sorted(maps.Keys(exports)) {
		v := exports[k]
		if strings.HasPrefix(k, "$") || v == nil || reflect.TypeOf(v).Kind() != reflect.Func {
			continue
		}
		_ = s.Add(k, v)
	}

	h := Helpers{Props: props}
	entries := make(map[string]any)
	if sd, ok := el.Behavior().(StoreDeclarer); ok {
		maps.Copy(entries, sd.Store(h))
	}
	if cs.storeFn != nil {
		maps.Copy(entries, cs.storeFn(h))
	}
	for _, k := range slices.Sorted(maps.Keys(entries)) {
		switch v := entries[k].(type) {
		case Computed:
			_ = s.Computed(k, v.Fn)
		case Synced:
			_ = s.Sync(k, v.V)
		case Persisted:
			_ = s.Persist(k, v.V)
		default:
			_ = s.Add(k, v)
		}
	}
	return s
}

// DataOf returns the store data of a connected element, or nil.
func DataOf(el *component.Element) *store.Data {
	if inst := instanceOf(el); inst != nil && inst.store != nil {
		return inst.store.Data()
	}
	return nil
}

// ContextOf returns the root binding context of a connected element, or nil.
func ContextOf(el *component.Element) *bind.Context {
	if inst := instanceOf(el); inst != nil {
		return inst.ctx
	}
	return nil
}

func classStateOf(c *component.Class) *classState {
	cs, _ := c.Value(classKey{}).(*classState)
	return cs
}

func instanceOf(el *component.Element) *instance {
	inst, _ := el.Value(instanceKey{}).(*instance)
	return inst
}

// sameValue reports whether a and b are identical comparable values.
func sameValue(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	t := reflect.TypeOf(a)
	if t != reflect.TypeOf(b) || !t.Comparable() {
		return false
	}
	return a == b
}
