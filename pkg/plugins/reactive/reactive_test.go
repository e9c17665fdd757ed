package reactive

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/spf13/cast"

	"github.com/ucom-dev/ucom/pkg/component"
	"github.com/ucom-dev/ucom/pkg/dom"
	"github.com/ucom-dev/ucom/pkg/persist"
	"github.com/ucom-dev/ucom/pkg/store"
)

type fixture struct {
	manager   *component.Manager
	behaviors *component.Behaviors
	registry  *store.Registry
	logs      *bytes.Buffer
}

func newFixture(t *testing.T, regOpts ...store.RegistryOption) *fixture {
	t.Helper()
	logs := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(logs, nil))

	reg := store.NewRegistry(regOpts...)
	t.Cleanup(reg.Reset)

	behaviors := component.NewBehaviors()
	m := component.NewManager(
		component.WithEvaluator(behaviors),
		component.WithPlugins(New(WithRegistry(reg), WithLogger(logger))),
		component.WithLogger(logger),
	)
	return &fixture{manager: m, behaviors: behaviors, registry: reg, logs: logs}
}

func (f *fixture) define(t *testing.T, name, src string, mod component.Module) {
	t.Helper()
	f.behaviors.Register(name, mod)
	if _, err := f.manager.Define(context.Background(), name, dom.MustParseFragment(src)); err != nil {
		t.Fatalf("Define: %v", err)
	}
}

func (f *fixture) connect(t *testing.T, name string, attrs ...string) *component.Element {
	t.Helper()
	el, err := f.manager.Create(name)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	for i := 0; i+1 < len(attrs); i += 2 {
		el.Host.SetAttribute(attrs[i], attrs[i+1])
	}
	el.Connect()
	t.Cleanup(el.Disconnect)
	return el
}

func text(t *testing.T, el *component.Element, tag string) string {
	t.Helper()
	n := el.Query(dom.ByTag(tag))
	if n == nil {
		t.Fatalf("no <%s> in %s", tag, el.Shadow.InnerHTML())
	}
	return n.TextContent()
}

func click(t *testing.T, el *component.Element) {
	t.Helper()
	b := el.Query(dom.ByTag("button"))
	if b == nil {
		t.Fatalf("no button in %s", el.Shadow.InnerHTML())
	}
	b.Dispatch(dom.NewEvent("click", nil))
}

type counter struct{}

func (counter) Props() map[string]any {
	return map[string]any{
		"size":  Prop{Default: 1, Cast: Int},
		"label": "hi",
	}
}

func TestPropsFromAttributes(t *testing.T) {
	f := newFixture(t)
	f.define(t, "x-props", `<b u-text="size * 2"></b><i u-text="label"></i>`,
		component.Module{Behavior: func() any { return counter{} }})

	c, _ := f.manager.Class("x-props")
	if got := c.ObservedAttributes(); len(got) != 2 || got[0] != "label" || got[1] != "size" {
		t.Fatalf("observed = %v", got)
	}

	el := f.connect(t, "x-props", "size", "3")
	if got := text(t, el, "b"); got != "6" {
		t.Errorf("size * 2 = %q, want 6", got)
	}
	if got := text(t, el, "i"); got != "hi" {
		t.Errorf("label = %q, want the default", got)
	}

	el.SetAttribute("size", "5")
	if got := text(t, el, "b"); got != "10" {
		t.Errorf("after attribute change = %q, want 10", got)
	}
	if got := DataOf(el).Peek("size"); got != 5 {
		t.Errorf("size should be cast to int, got %#v", got)
	}

	el.SetAttribute("label", "yo")
	if got := text(t, el, "i"); got != "yo" {
		t.Errorf("label = %q, want yo", got)
	}
	el.RemoveAttribute("label")
	if got := text(t, el, "i"); got != "" {
		t.Errorf("removed label = %q, want empty", got)
	}
}

func TestAttributeBeforeConnectIsIgnored(t *testing.T) {
	f := newFixture(t)
	f.define(t, "x-early", `<b u-text="size"></b>`,
		component.Module{Behavior: func() any { return counter{} }})

	el, _ := f.manager.Create("x-early")
	el.SetAttribute("size", "7")
	if DataOf(el) != nil {
		t.Fatal("no data before connect")
	}
	el.Connect()
	t.Cleanup(el.Disconnect)

	if got := text(t, el, "b"); got != "7" {
		t.Errorf("size = %q, want the attribute value", got)
	}
}

func TestSyncAcrossInstances(t *testing.T) {
	f := newFixture(t)
	f.define(t, "x-sync", `<span u-text="count"></span><button @click="count++"></button>`,
		component.Module{Exports: map[string]any{
			StoreExport: StoreFunc(func(h Helpers) map[string]any {
				return map[string]any{"count": h.Synced(0)}
			}),
		}})

	a := f.connect(t, "x-sync")
	b := f.connect(t, "x-sync")

	click(t, a)
	if text(t, a, "span") != "1" || text(t, b, "span") != "1" {
		t.Fatalf("both instances should show 1, got %q and %q", text(t, a, "span"), text(t, b, "span"))
	}

	click(t, b)
	if got := text(t, a, "span"); got != "2" {
		t.Errorf("a = %q, want 2", got)
	}
}

func TestLocalStateIsPerInstance(t *testing.T) {
	f := newFixture(t)
	f.define(t, "x-local", `<span u-text="count"></span><button @click="count++"></button>`,
		component.Module{Exports: map[string]any{
			StoreExport: func(h Helpers) map[string]any {
				return map[string]any{"count": 0}
			},
		}})

	a := f.connect(t, "x-local")
	b := f.connect(t, "x-local")
	click(t, a)

	if text(t, a, "span") != "1" || text(t, b, "span") != "0" {
		t.Errorf("expected 1 and 0, got %q and %q", text(t, a, "span"), text(t, b, "span"))
	}
}

type methods struct{}

func (methods) Methods() map[string]store.Method {
	return map[string]store.Method{
		"inc": func(owner *dom.Node, _ ...any) any {
			data := DataOf(component.ElementOf(owner))
			_ = data.Set("count", cast.ToInt(data.Peek("count"))+10)
			return nil
		},
	}
}

func (methods) Store(h Helpers) map[string]any {
	return map[string]any{
		"count": 0,
		"double": h.Computed(func(d *store.Data) any {
			return cast.ToInt(d.Get("count")) * 2
		}),
	}
}

func TestMethodsAndComputed(t *testing.T) {
	f := newFixture(t)
	f.define(t, "x-methods", `<span u-text="double"></span><button @click="inc"></button>`,
		component.Module{Behavior: func() any { return methods{} }})

	el := f.connect(t, "x-methods")
	click(t, el)
	if got := text(t, el, "span"); got != "20" {
		t.Errorf("double = %q, want 20", got)
	}
}

func TestFunctionExportsAreMethods(t *testing.T) {
	f := newFixture(t)
	calls := 0
	f.define(t, "x-exports", `<button @click="ping"></button>`,
		component.Module{Exports: map[string]any{
			"ping": func() { calls++ },
			"$meta": func() { t.Error("$ exports are not methods") },
		}})

	el := f.connect(t, "x-exports")
	click(t, el)
	if calls != 1 {
		t.Errorf("ping called %d times", calls)
	}
	if DataOf(el).Has("$meta") {
		t.Error("$meta should not be a store key")
	}
}

func TestPersistedEntry(t *testing.T) {
	storage := persist.NewMemoryStorage()
	if err := storage.SetItem(context.Background(), "x-persist:count", "4"); err != nil {
		t.Fatal(err)
	}
	f := newFixture(t, store.WithStorage(storage))
	f.define(t, "x-persist", `<span u-text="count"></span><button @click="count++"></button>`,
		component.Module{Exports: map[string]any{
			StoreExport: StoreFunc(func(h Helpers) map[string]any {
				return map[string]any{"count": h.Persisted(0)}
			}),
		}})

	el := f.connect(t, "x-persist")
	if got := text(t, el, "span"); got != "4" {
		t.Fatalf("count = %q, want the stored 4", got)
	}
	click(t, el)

	v, ok, err := storage.GetItem(context.Background(), "x-persist:count")
	if err != nil || !ok || v != "5" {
		t.Errorf("stored = %q, %v, %v; want 5", v, ok, err)
	}
}

func TestDuplicateStoreKeyKeepsFirst(t *testing.T) {
	f := newFixture(t)
	f.define(t, "x-dup", `<i u-text="label"></i>`,
		component.Module{
			Behavior: func() any { return counter{} },
			Exports: map[string]any{
				StoreExport: StoreFunc(func(h Helpers) map[string]any {
					return map[string]any{"label": "other"}
				}),
			},
		})

	el := f.connect(t, "x-dup")
	if got := text(t, el, "i"); got != "hi" {
		t.Errorf("label = %q, want the prop", got)
	}
	if !bytes.Contains(f.logs.Bytes(), []byte("E102")) {
		t.Errorf("expected E102 in logs, got %s", f.logs.String())
	}
}

func TestDisconnectTearsDown(t *testing.T) {
	f := newFixture(t)
	f.define(t, "x-teardown", `<span u-text="count"></span><button @click="count++"></button>`,
		component.Module{Exports: map[string]any{
			StoreExport: StoreFunc(func(h Helpers) map[string]any {
				return map[string]any{"count": 0}
			}),
		}})

	el := f.connect(t, "x-teardown")
	ctx := ContextOf(el)
	el.Disconnect()

	if !ctx.Disposed() {
		t.Fatal("context should be disposed")
	}
	if n := DataOf(el).Signal("count").Subscribers(); n != 0 {
		t.Errorf("expected no subscribers after disconnect, got %d", n)
	}
	if b := el.Query(dom.ByTag("button")); b.ListenerCount("click") != 0 {
		t.Error("listeners should be removed on disconnect")
	}

	// Reconnecting does not bind again.
	el.Connect()
	if ContextOf(el) != ctx {
		t.Error("reconnect should keep the first context")
	}
}

func TestInvalidPropsExport(t *testing.T) {
	f := newFixture(t)
	f.behaviors.Register("x-bad", component.Module{Exports: map[string]any{PropsExport: 42}})
	if _, err := f.manager.Define(context.Background(), "x-bad", dom.MustParseFragment(`<p></p>`)); err == nil {
		t.Fatal("expected an error for a non-map $props export")
	}
}
