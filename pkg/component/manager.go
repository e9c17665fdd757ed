package component

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	ucomerrors "github.com/ucom-dev/ucom/internal/errors"
	"github.com/ucom-dev/ucom/pkg/dom"
)

// tracerName is the name of the manager's tracer.
const tracerName = "github.com/ucom-dev/ucom/pkg/component"

// Manager defines components and creates their elements.
type Manager struct {
	loader    Loader
	evaluator ScriptEvaluator
	plugins   []any
	base      string
	logger    *slog.Logger
	tracer    trace.Tracer

	group   singleflight.Group
	mu      sync.RWMutex
	classes map[string]*Class
}

// Option configures a Manager.
type Option func(*Manager)

// WithLoader sets the template loader. The default loads from the working
// directory.
func WithLoader(l Loader) Option {
	return func(m *Manager) {
		m.loader = l
	}
}

// WithEvaluator sets the script evaluator. The default is an empty
// Behaviors registry.
func WithEvaluator(e ScriptEvaluator) Option {
	return func(m *Manager) {
		m.evaluator = e
	}
}

// WithPlugins appends plugins to the pipeline.
func WithPlugins(plugins ...any) Option {
	return func(m *Manager) {
		m.plugins = append(m.plugins, plugins...)
	}
}

// WithBase sets the URL or directory relative component paths resolve
// against.
func WithBase(base string) Option {
	return func(m *Manager) {
		m.base = base
	}
}

// WithLogger sets the manager logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = l
	}
}

// WithTracerProvider sets the tracer provider. The default is the global
// provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(m *Manager) {
		m.tracer = tp.Tracer(tracerName)
	}
}

// NewManager creates a Manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		logger:  slog.Default(),
		classes: make(map[string]*Class),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.loader == nil {
		m.loader = FSLoader{FS: os.DirFS(".")}
	}
	if m.evaluator == nil {
		m.evaluator = NewBehaviors()
	}
	if m.tracer == nil {
		m.tracer = otel.Tracer(tracerName)
	}
	m.logger = m.logger.With("component", "manager")
	return m
}

// Plugins returns the registered plugins.
func (m *Manager) Plugins() []any {
	return append([]any(nil), m.plugins...)
}

// Start runs every Starter plugin concurrently and waits for them.
func (m *Manager) Start(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, p := range m.plugins {
		if s, ok := p.(Starter); ok {
			g.Go(func() error {
				return s.Start(ctx, m)
			})
		}
	}
	return g.Wait()
}

// Resolve maps a component path to its identity.
func (m *Manager) Resolve(p string) (Identity, error) {
	return Resolve(m.base, p)
}

// Registered reports whether name is defined.
func (m *Manager) Registered(name string) bool {
	_, ok := m.Class(name)
	return ok
}

// Class returns the class of a defined component.
func (m *Manager) Class(name string) (*Class, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.classes[strings.ToLower(name)]
	return c, ok
}

// Definitions returns every definition, sorted by name.
func (m *Manager) Definitions() []*Definition {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Definition, 0, len(m.classes))
	for _, c := range m.classes {
		out = append(out, c.def)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// Define defines a component from a template element or fragment. An
// empty name derives one from a hash of the template.
func (m *Manager) Define(ctx context.Context, name string, tpl *dom.Node) (*Definition, error) {
	if name == "" {
		name = AutoNamePrefix + "-" + strconv.FormatUint(xxhash.Sum64String(tpl.InnerHTML()), 36)
	}
	name = strings.ToLower(name)
	if !ValidName(name) {
		return nil, m.fail(fmt.Errorf("%w: %q", ErrInvalidName, name), "E204")
	}
	return m.get(ctx, Identity{Name: name}, tpl)
}

// Import defines the component at path. A non-nil tpl is used instead of
// loading the template.
func (m *Manager) Import(ctx context.Context, p string, tpl *dom.Node) (*Definition, error) {
	ident, err := m.Resolve(p)
	if err != nil {
		return nil, m.fail(err, "E204")
	}
	return m.get(ctx, ident, tpl)
}

// Create creates a detached element of a defined component.
func (m *Manager) Create(name string) (*Element, error) {
	c, ok := m.Class(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotDefined, name)
	}
	return c.New(), nil
}

// Upgrade turns an existing element of a defined component into an
// Element. Upgrading twice returns the same Element.
func (m *Manager) Upgrade(host *dom.Node) (*Element, error) {
	if el := ElementOf(host); el != nil {
		return el, nil
	}
	c, ok := m.Class(host.Tag)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotDefined, host.Tag)
	}
	return c.upgrade(host), nil
}

// get returns the cached definition of ident, or loads and defines it.
// Concurrent calls for one name share a single definition; failures are
// not cached.
func (m *Manager) get(ctx context.Context, ident Identity, tpl *dom.Node) (*Definition, error) {
	if c, ok := m.Class(ident.Name); ok {
		return c.def, nil
	}

	v, err, _ := m.group.Do(ident.Name, func() (any, error) {
		if c, ok := m.Class(ident.Name); ok {
			return c.def, nil
		}
		if tpl == nil {
			var err error
			if tpl, err = m.loader.Load(ctx, ident.Resolved); err != nil {
				return nil, m.fail(err, "E201")
			}
		}
		return m.define(ctx, ident, tpl)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Definition), nil
}

func (m *Manager) define(ctx context.Context, ident Identity, tpl *dom.Node) (def *Definition, err error) {
	ctx, span := m.tracer.Start(ctx, "ucom.define",
		trace.WithAttributes(
			attribute.String("ucom.component", ident.Name),
			attribute.String("ucom.resolved", ident.Resolved),
		))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	pristine := tpl.Clone(true)
	def = &Definition{name: ident.Name, resolved: ident.Resolved, template: pristine}

	var content *dom.Node
	if pristine.Is("template") {
		content = pristine.TemplateContent()
	} else {
		content = pristine.Clone(true)
	}
	if content.Find(func(n *dom.Node) bool {
		return n.Is("template") && n.HasAttribute("shadowrootmode")
	}) != nil {
		return nil, m.fail(fmt.Errorf("%w: %q", ErrTemplateDSD, ident.Name), "E202")
	}

	for _, p := range m.plugins {
		if pp, ok := p.(Parser); ok {
			if err := pp.Parse(ctx, def, content); err != nil {
				return nil, m.fail(fmt.Errorf("component %q: parse: %w: %w", ident.Name, ErrPlugin, err), "E206")
			}
		}
	}

	script := extractScript(content)
	meta := extractMeta(content)
	module, err := m.evaluator.Evaluate(ctx, def, script)
	if err != nil {
		return nil, m.fail(fmt.Errorf("component %q: %w: %w", ident.Name, ErrScript, err), "E203")
	}

	c := &Class{
		def:      def,
		manager:  m,
		content:  content,
		module:   module,
		meta:     meta,
		observed: make(map[string]bool),
		values:   make(map[any]any),
	}
	if module.Behavior != nil {
		c.prototype = module.Behavior()
	}

	for _, p := range m.plugins {
		if dp, ok := p.(Definer); ok {
			if err := dp.Define(ctx, c); err != nil {
				return nil, m.fail(fmt.Errorf("component %q: define: %w: %w", ident.Name, ErrPlugin, err), "E206")
			}
		}
	}

	m.mu.Lock()
	m.classes[ident.Name] = c
	m.mu.Unlock()

	m.logger.Debug("component defined", "name", ident.Name, "resolved", ident.Resolved)
	return def, nil
}

// fail logs err with code and returns it.
func (m *Manager) fail(err error, code string) error {
	ue := ucomerrors.New(code).Wrap(err)
	var fe *FetchError
	if errors.As(err, &fe) {
		ue = ue.WithDetail(fe.Resolved).WithSuggestion(fe.Reason)
	}
	m.logger.Error("component definition failed", "error", ue)
	return err
}
