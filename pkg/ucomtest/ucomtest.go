package ucomtest

import (
	"context"
	"strings"
	"testing"

	"github.com/ucom-dev/ucom/pkg/bind"
	"github.com/ucom-dev/ucom/pkg/component"
	"github.com/ucom-dev/ucom/pkg/dom"
	"github.com/ucom-dev/ucom/pkg/plugins/reactive"
	"github.com/ucom-dev/ucom/pkg/store"
)

// DefaultName is the component name used when none is set.
const DefaultName = "x-test"

// Builder allows fluent construction of a mounted test component.
type Builder struct {
	name     string
	src      string
	module   component.Module
	attrs    [][2]string
	registry *store.Registry
	walker   []bind.WalkerOption
	plugins  []any
}

// New creates a builder for a component with template src.
//
// Example:
//
//	m := ucomtest.New(`<p u-text="count"></p>`).
//	    WithExports(map[string]any{"$store": ...}).
//	    Mount(t)
func New(src string) *Builder {
	return &Builder{name: DefaultName, src: src}
}

// WithName sets the component name.
func (b *Builder) WithName(name string) *Builder {
	b.name = name
	return b
}

// WithBehavior sets the behavior constructor of the component module.
func (b *Builder) WithBehavior(fn func() any) *Builder {
	b.module.Behavior = fn
	return b
}

// WithExports sets the exports of the component module.
func (b *Builder) WithExports(exports map[string]any) *Builder {
	b.module.Exports = exports
	return b
}

// WithAttr sets a host attribute before the element connects.
func (b *Builder) WithAttr(name, value string) *Builder {
	b.attrs = append(b.attrs, [2]string{name, value})
	return b
}

// WithRegistry shares a registry between mounts. The default is a fresh
// registry per mount.
func (b *Builder) WithRegistry(r *store.Registry) *Builder {
	b.registry = r
	return b
}

// WithWalkerOptions configures the directive walker.
//
// Example:
//
//	ucomtest.New(`<p v-text="x"></p>`).WithWalkerOptions(bind.WithPrefix("v"))
func (b *Builder) WithWalkerOptions(opts ...bind.WalkerOption) *Builder {
	b.walker = append(b.walker, opts...)
	return b
}

// WithPlugins adds plugins after the reactive plugin.
func (b *Builder) WithPlugins(plugins ...any) *Builder {
	b.plugins = append(b.plugins, plugins...)
	return b
}

// Mount defines the component, creates an element and connects it. The
// element is disconnected when the test ends.
func (b *Builder) Mount(t testing.TB) *Mounted {
	t.Helper()

	reg := b.registry
	if reg == nil {
		reg = store.NewRegistry()
		t.Cleanup(reg.Reset)
	}

	behaviors := component.NewBehaviors()
	behaviors.Register(b.name, b.module)

	plugin := reactive.New(
		reactive.WithRegistry(reg),
		reactive.WithWalker(bind.NewWalker(b.walker...)),
	)
	m := component.NewManager(
		component.WithEvaluator(behaviors),
		component.WithPlugins(append([]any{plugin}, b.plugins...)...),
	)

	frag, err := dom.ParseFragment(b.src)
	if err != nil {
		t.Fatalf("parse template: %v", err)
	}
	if _, err := m.Define(context.Background(), b.name, frag); err != nil {
		t.Fatalf("define %s: %v", b.name, err)
	}
	el, err := m.Create(b.name)
	if err != nil {
		t.Fatalf("create %s: %v", b.name, err)
	}
	for _, a := range b.attrs {
		el.Host.SetAttribute(a[0], a[1])
	}
	el.Connect()
	t.Cleanup(el.Disconnect)

	return &Mounted{El: el, Manager: m, Registry: reg}
}

// Mounted is a connected test component.
type Mounted struct {
	El       *component.Element
	Manager  *component.Manager
	Registry *store.Registry
}

// Data returns the element's store data.
func (m *Mounted) Data() *store.Data {
	return reactive.DataOf(m.El)
}

// HTML returns the rendered shadow content.
func (m *Mounted) HTML() string {
	return m.El.Shadow.InnerHTML()
}

// Query returns the first shadow element with the given tag, or nil.
func (m *Mounted) Query(tag string) *dom.Node {
	return m.El.Query(dom.ByTag(tag))
}

// Dispatch dispatches an event of type typ on the first element with the
// given tag.
func (m *Mounted) Dispatch(t testing.TB, tag, typ string, detail any) {
	t.Helper()
	n := m.Query(tag)
	if n == nil {
		t.Fatalf("no <%s> element, got:\n%s", tag, truncate(m.HTML(), 500))
	}
	n.Dispatch(dom.NewEvent(typ, detail))
}

// Click dispatches a click on the first element with the given tag.
func (m *Mounted) Click(t testing.TB, tag string) {
	t.Helper()
	m.Dispatch(t, tag, "click", nil)
}

// ExpectContains asserts that the rendered output contains expected.
func ExpectContains(t testing.TB, m *Mounted, expected string) {
	t.Helper()
	html := m.HTML()
	if !strings.Contains(html, expected) {
		t.Errorf("expected rendered output to contain %q, got:\n%s", expected, truncate(html, 500))
	}
}

// ExpectNotContains asserts that the rendered output does not contain
// unexpected.
func ExpectNotContains(t testing.TB, m *Mounted, unexpected string) {
	t.Helper()
	html := m.HTML()
	if strings.Contains(html, unexpected) {
		t.Errorf("expected rendered output to NOT contain %q, got:\n%s", unexpected, truncate(html, 500))
	}
}

// ExpectText asserts the text content of the first element with the given
// tag.
func ExpectText(t testing.TB, m *Mounted, tag, want string) {
	t.Helper()
	n := m.Query(tag)
	if n == nil {
		t.Errorf("expected a <%s> element, got:\n%s", tag, truncate(m.HTML(), 500))
		return
	}
	if got := n.TextContent(); got != want {
		t.Errorf("<%s> text = %q, want %q", tag, got, want)
	}
}

// ExpectAttribute asserts an attribute of the first element with the given
// tag.
func ExpectAttribute(t testing.TB, m *Mounted, tag, attr, want string) {
	t.Helper()
	n := m.Query(tag)
	if n == nil {
		t.Errorf("expected a <%s> element, got:\n%s", tag, truncate(m.HTML(), 500))
		return
	}
	got, ok := n.Attr(attr)
	if !ok || got != want {
		t.Errorf("<%s %s> = %q (present %v), want %q", tag, attr, got, ok, want)
	}
}

// truncate truncates a string to max length with ellipsis.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
