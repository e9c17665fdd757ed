package component

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"testing/fstest"

	"github.com/go-chi/chi/v5"

	"github.com/ucom-dev/ucom/pkg/dom"
)

func quietLogger(buf *bytes.Buffer) *slog.Logger {
	if buf == nil {
		buf = &bytes.Buffer{}
	}
	return slog.New(slog.NewTextHandler(buf, nil))
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		base     string
		path     string
		wantName string
		wantRes  string
	}{
		{"relative file", "", "components/my-card.html", "my-card", "components/my-card.html"},
		{"directory", "", "ui/todo-list.com", "todo-list", "ui/todo-list.com/todo-list.html"},
		{"directory base", "web", "x-y.html", "x-y", "web/x-y.html"},
		{"absolute path", "web", "/abs/my-el.html", "my-el", "/abs/my-el.html"},
		{"url base", "https://cdn.example.com/app/", "widgets/x-y.html", "x-y", "https://cdn.example.com/app/widgets/x-y.html"},
		{"normalized", "", "My Counter.html", "my-counter", "My Counter.html"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := Resolve(tt.base, tt.path)
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if id.Name != tt.wantName {
				t.Errorf("name = %q, want %q", id.Name, tt.wantName)
			}
			if id.Resolved != tt.wantRes {
				t.Errorf("resolved = %q, want %q", id.Resolved, tt.wantRes)
			}
		})
	}
}

func TestResolveInvalid(t *testing.T) {
	for _, p := range []string{"readme.txt", "card.html", "1-x.html"} {
		if _, err := Resolve("", p); !errors.Is(err, ErrInvalidName) {
			t.Errorf("Resolve(%q) error = %v, want ErrInvalidName", p, err)
		}
	}
}

func TestFSLoader(t *testing.T) {
	fsys := fstest.MapFS{
		"components/my-card.html": {Data: []byte(`<p>card</p>`)},
		"components/bad-doc.html": {Data: []byte("\n<!doctype html><html></html>")},
	}
	l := FSLoader{FS: fsys}

	frag, err := l.Load(context.Background(), "/components/my-card.html")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := frag.InnerHTML(); got != "<p>card</p>" {
		t.Errorf("content = %q", got)
	}

	var fe *FetchError
	if _, err := l.Load(context.Background(), "components/bad-doc.html"); !errors.As(err, &fe) {
		t.Fatalf("doctype should fail with FetchError, got %v", err)
	}
	if !strings.Contains(fe.Reason, "DOCTYPE") {
		t.Errorf("reason = %q", fe.Reason)
	}

	if _, err := l.Load(context.Background(), "components/missing-el.html"); !errors.As(err, &fe) {
		t.Fatalf("missing file should fail with FetchError, got %v", err)
	}
}

func TestHTTPLoader(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/ok-card.html", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, `<span>ok</span>`)
	})
	r.Get("/plain-card.html", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		fmt.Fprint(w, `<span>ok</span>`)
	})
	r.Get("/doc-card.html", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, `<!DOCTYPE html><html><body></body></html>`)
	})
	r.Get("/big-card.html", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, strings.Repeat("a", maxTemplateSize+1))
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	l := &HTTPLoader{Client: srv.Client()}
	ctx := context.Background()

	frag, err := l.Load(ctx, srv.URL+"/ok-card.html")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := frag.InnerHTML(); got != "<span>ok</span>" {
		t.Errorf("content = %q", got)
	}

	tests := []struct {
		path   string
		reason string
	}{
		{"/missing-card.html", "status 404"},
		{"/plain-card.html", "content type"},
		{"/doc-card.html", "DOCTYPE"},
		{"/big-card.html", "template too large"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			_, err := l.Load(ctx, srv.URL+tt.path)
			var fe *FetchError
			if !errors.As(err, &fe) {
				t.Fatalf("expected FetchError, got %v", err)
			}
			if fe.Resolved != srv.URL+tt.path {
				t.Errorf("resolved = %q", fe.Resolved)
			}
			if !strings.Contains(fe.Reason, tt.reason) {
				t.Errorf("reason = %q, want it to contain %q", fe.Reason, tt.reason)
			}
		})
	}
}

type countingLoader struct {
	calls atomic.Int32
	src   string
}

func (l *countingLoader) Load(ctx context.Context, resolved string) (*dom.Node, error) {
	l.calls.Add(1)
	return dom.ParseFragment(l.src)
}

func TestImportDefinesOnce(t *testing.T) {
	l := &countingLoader{src: `<p>hi</p>`}
	m := NewManager(WithLoader(l), WithLogger(quietLogger(nil)))

	var wg sync.WaitGroup
	defs := make([]*Definition, 16)
	for i := range defs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d, err := m.Import(context.Background(), "x/hello-world.html", nil)
			if err != nil {
				t.Errorf("Import: %v", err)
				return
			}
			defs[i] = d
		}()
	}
	wg.Wait()

	if n := l.calls.Load(); n != 1 {
		t.Errorf("loader called %d times, want 1", n)
	}
	for i, d := range defs {
		if d != defs[0] {
			t.Errorf("definition %d differs from the first", i)
		}
	}
	if !m.Registered("hello-world") || !m.Registered("HELLO-WORLD") {
		t.Error("hello-world should be registered case-insensitively")
	}
	if got := defs[0].Resolved(); got != "x/hello-world.html" {
		t.Errorf("resolved = %q", got)
	}
}

type failingLoader struct {
	calls atomic.Int32
}

func (l *failingLoader) Load(ctx context.Context, resolved string) (*dom.Node, error) {
	l.calls.Add(1)
	return nil, &FetchError{Resolved: resolved, Reason: "status 500"}
}

func TestImportFailureIsNotCached(t *testing.T) {
	var logs bytes.Buffer
	l := &failingLoader{}
	m := NewManager(WithLoader(l), WithLogger(quietLogger(&logs)))

	for range 2 {
		_, err := m.Import(context.Background(), "my-card.html", nil)
		var fe *FetchError
		if !errors.As(err, &fe) {
			t.Fatalf("expected FetchError, got %v", err)
		}
	}
	if n := l.calls.Load(); n != 2 {
		t.Errorf("failed loads should be retried, loader called %d times", n)
	}
	if m.Registered("my-card") {
		t.Error("failed component should not be registered")
	}
	if !strings.Contains(logs.String(), "E201") {
		t.Errorf("expected E201 in logs, got %q", logs.String())
	}
}

func TestDefineAutoName(t *testing.T) {
	m := NewManager(WithLogger(quietLogger(nil)))
	tpl := dom.MustParseFragment(`<b>anon</b>`)

	d1, err := m.Define(context.Background(), "", tpl)
	if err != nil {
		t.Fatalf("Define: %v", err)
	}
	if !strings.HasPrefix(d1.Name(), AutoNamePrefix+"-") || !ValidName(d1.Name()) {
		t.Errorf("unexpected auto name %q", d1.Name())
	}

	d2, err := m.Define(context.Background(), "", dom.MustParseFragment(`<b>anon</b>`))
	if err != nil {
		t.Fatalf("Define: %v", err)
	}
	if d1 != d2 {
		t.Error("identical templates should map to the same definition")
	}
}

func TestDefineInvalidName(t *testing.T) {
	var logs bytes.Buffer
	m := NewManager(WithLogger(quietLogger(&logs)))
	_, err := m.Define(context.Background(), "card", dom.MustParseFragment(`<b></b>`))
	if !errors.Is(err, ErrInvalidName) {
		t.Fatalf("expected ErrInvalidName, got %v", err)
	}
	if !strings.Contains(logs.String(), "E204") {
		t.Errorf("expected E204 in logs, got %q", logs.String())
	}
}

func TestDefineRejectsDeclarativeShadow(t *testing.T) {
	var logs bytes.Buffer
	m := NewManager(WithLogger(quietLogger(&logs)))
	tpl := dom.MustParseFragment(`<div><template shadowrootmode="open"><p></p></template></div>`)

	_, err := m.Define(context.Background(), "dsd-card", tpl)
	if !errors.Is(err, ErrTemplateDSD) {
		t.Fatalf("expected ErrTemplateDSD, got %v", err)
	}
	if m.Registered("dsd-card") {
		t.Error("rejected component should not be registered")
	}
	if !strings.Contains(logs.String(), "E202") {
		t.Errorf("expected E202 in logs, got %q", logs.String())
	}
}

func TestDefineTemplateElement(t *testing.T) {
	m := NewManager(WithLogger(quietLogger(nil)))
	tpl := dom.MustParseFragment(`<template><p>hi</p></template>`).FirstElementChild()

	d, err := m.Define(context.Background(), "tpl-card", tpl)
	if err != nil {
		t.Fatalf("Define: %v", err)
	}
	c, _ := m.Class("tpl-card")
	if got := c.Content().InnerHTML(); got != "<p>hi</p>" {
		t.Errorf("content = %q", got)
	}

	// The definition keeps a pristine copy.
	d.Template().FirstChild().Remove()
	if d.Template().FirstChild() == nil {
		t.Error("Template should return a copy")
	}
}

func TestScriptAndMetaExtraction(t *testing.T) {
	var got string
	ev := evaluatorFunc(func(ctx context.Context, def *Definition, script string) (Module, error) {
		got = script
		return Module{Exports: map[string]any{"answer": 42}}, nil
	})
	m := NewManager(WithEvaluator(ev), WithLogger(quietLogger(nil)))

	tpl := dom.MustParseFragment(
		`<meta +tag="ui" +version="2"><meta charset="utf-8">` +
			`<script>ignored()</script><script setup>setup()</script><p>body</p>`)
	if _, err := m.Define(context.Background(), "meta-card", tpl); err != nil {
		t.Fatalf("Define: %v", err)
	}

	if got != "setup()" {
		t.Errorf("script = %q, want the setup script", got)
	}
	c, _ := m.Class("meta-card")
	if v, ok := c.Meta("tag"); !ok || v != "ui" {
		t.Errorf("meta tag = %q, %v", v, ok)
	}
	if v, _ := c.Meta("version"); v != "2" {
		t.Errorf("meta version = %q", v)
	}
	content := c.Content().InnerHTML()
	if strings.Contains(content, "setup()") || strings.Contains(content, "+tag") {
		t.Errorf("script and metadata should be removed, got %q", content)
	}
	if !strings.Contains(content, `<meta charset="utf-8">`) {
		t.Errorf("meta without +keys should stay, got %q", content)
	}
	if c.Module().Exports["answer"] != 42 {
		t.Error("module exports not kept")
	}
}

func TestScriptFailure(t *testing.T) {
	ev := evaluatorFunc(func(ctx context.Context, def *Definition, script string) (Module, error) {
		return Module{}, errors.New("syntax error")
	})
	m := NewManager(WithEvaluator(ev), WithLogger(quietLogger(nil)))
	if _, err := m.Define(context.Background(), "bad-script", dom.MustParseFragment(`<script>x</script>`)); err == nil {
		t.Fatal("expected script error")
	}
	if m.Registered("bad-script") {
		t.Error("component with a failing script should not be registered")
	}
}

type evaluatorFunc func(ctx context.Context, def *Definition, script string) (Module, error)

func (f evaluatorFunc) Evaluate(ctx context.Context, def *Definition, script string) (Module, error) {
	return f(ctx, def, script)
}

// recorder implements every plugin capability and records the calls.
type recorder struct {
	name string
	log  *[]string
}

func (r recorder) add(s string) { *r.log = append(*r.log, r.name+":"+s) }

func (r recorder) Start(ctx context.Context, m *Manager) error { return nil }

func (r recorder) Parse(ctx context.Context, def *Definition, content *dom.Node) error {
	r.add("parse")
	return nil
}

func (r recorder) Define(ctx context.Context, c *Class) error {
	r.add("define")
	c.Observe("label")
	return nil
}

func (r recorder) Construct(el *Element) { r.add("construct") }

func (r recorder) AttributeChangedHandler(el *Element) func(AttributeChange) {
	return func(ch AttributeChange) { r.add("attr " + ch.Name + "=" + ch.NewValue) }
}

func (r recorder) ConnectedHandler(el *Element) func() {
	return func() { r.add("connect") }
}

func (r recorder) DisconnectedHandler(el *Element) func() {
	return func() { r.add("disconnect") }
}

type behavior struct {
	log *[]string
}

func (b *behavior) AttributeChanged(el *Element, ch AttributeChange) {
	*b.log = append(*b.log, "behavior:attr "+ch.Name)
}

func (b *behavior) Connected(el *Element)    { *b.log = append(*b.log, "behavior:connect") }
func (b *behavior) Disconnected(el *Element) { *b.log = append(*b.log, "behavior:disconnect") }

func TestPluginPipelineOrder(t *testing.T) {
	var log []string
	behaviors := NewBehaviors()
	behaviors.Register("life-cycle", Module{Behavior: func() any { return &behavior{log: &log} }})

	m := NewManager(
		WithEvaluator(behaviors),
		WithPlugins(recorder{name: "a", log: &log}, recorder{name: "b", log: &log}),
		WithLogger(quietLogger(nil)),
	)
	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if _, err := m.Define(context.Background(), "life-cycle", dom.MustParseFragment(`<p></p>`)); err != nil {
		t.Fatalf("Define: %v", err)
	}

	el, err := m.Create("life-cycle")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	el.Connect()
	el.SetAttribute("label", "x")
	el.SetAttribute("label", "x")
	el.SetAttribute("other", "y")
	el.Disconnect()

	want := []string{
		"a:parse", "b:parse",
		"a:define", "b:define",
		"a:construct", "b:construct",
		"a:connect", "b:connect", "behavior:connect",
		"a:attr label=x", "b:attr label=x", "behavior:attr label",
		"a:attr label=x", "b:attr label=x", "behavior:attr label",
		"a:disconnect", "b:disconnect", "behavior:disconnect",
	}
	if strings.Join(log, ",") != strings.Join(want, ",") {
		t.Errorf("calls:\n got %v\nwant %v", log, want)
	}
	if el.IsConnected() {
		t.Error("element should be disconnected")
	}
}

func TestRemoveObservedAttribute(t *testing.T) {
	var changes []AttributeChange
	m := NewManager(WithPlugins(attrPlugin{&changes}), WithLogger(quietLogger(nil)))
	if _, err := m.Define(context.Background(), "attr-card", dom.MustParseFragment(`<p></p>`)); err != nil {
		t.Fatal(err)
	}
	el, _ := m.Create("attr-card")

	el.RemoveAttribute("size")
	el.SetAttribute("size", "3")
	el.RemoveAttribute("size")

	if len(changes) != 2 {
		t.Fatalf("expected 2 changes, got %+v", changes)
	}
	if !changes[1].Removed || changes[1].OldValue != "3" {
		t.Errorf("unexpected removal %+v", changes[1])
	}
	c, _ := m.Class("attr-card")
	if got := c.ObservedAttributes(); len(got) != 1 || got[0] != "size" {
		t.Errorf("observed = %v", got)
	}
}

func TestSetAttributeSameValue(t *testing.T) {
	var changes []AttributeChange
	m := NewManager(WithPlugins(attrPlugin{&changes}), WithLogger(quietLogger(nil)))
	if _, err := m.Define(context.Background(), "same-card", dom.MustParseFragment(`<p></p>`)); err != nil {
		t.Fatal(err)
	}
	el, _ := m.Create("same-card")

	el.SetAttribute("size", "3")
	el.SetAttribute("size", "3")

	want := []AttributeChange{
		{Name: "size", NewValue: "3"},
		{Name: "size", OldValue: "3", NewValue: "3"},
	}
	if len(changes) != len(want) {
		t.Fatalf("expected %d changes, got %+v", len(want), changes)
	}
	for i, ch := range changes {
		if ch != want[i] {
			t.Errorf("change %d = %+v, want %+v", i, ch, want[i])
		}
	}
}

type attrPlugin struct{ changes *[]AttributeChange }

func (p attrPlugin) Define(ctx context.Context, c *Class) error {
	c.Observe("size")
	return nil
}

func (p attrPlugin) AttributeChangedHandler(el *Element) func(AttributeChange) {
	return func(ch AttributeChange) { *p.changes = append(*p.changes, ch) }
}

func TestParsePluginFailure(t *testing.T) {
	var logs bytes.Buffer
	m := NewManager(WithPlugins(failingParser{}), WithLogger(quietLogger(&logs)))
	if _, err := m.Define(context.Background(), "fail-card", dom.MustParseFragment(`<p></p>`)); err == nil {
		t.Fatal("expected parse failure")
	}
	if !strings.Contains(logs.String(), "E206") {
		t.Errorf("expected E206 in logs, got %q", logs.String())
	}
}

type failingParser struct{}

func (failingParser) Parse(ctx context.Context, def *Definition, content *dom.Node) error {
	return errors.New("boom")
}

func TestCreateAndUpgrade(t *testing.T) {
	m := NewManager(WithLogger(quietLogger(nil)))
	if _, err := m.Create("nope-el"); !errors.Is(err, ErrNotDefined) {
		t.Fatalf("expected ErrNotDefined, got %v", err)
	}
	if _, err := m.Define(context.Background(), "up-card", dom.MustParseFragment(`<i>x</i>`)); err != nil {
		t.Fatal(err)
	}

	host := dom.NewElement("up-card")
	el, err := m.Upgrade(host)
	if err != nil {
		t.Fatalf("Upgrade: %v", err)
	}
	again, _ := m.Upgrade(host)
	if again != el {
		t.Error("Upgrade should be idempotent")
	}
	if ElementOf(host) != el {
		t.Error("ElementOf should return the upgraded element")
	}
	if host.ShadowRoot() != el.Shadow || el.Shadow.InnerHTML() != "<i>x</i>" {
		t.Errorf("shadow content = %q", el.Shadow.InnerHTML())
	}
	if el.Query(dom.ByTag("i")) == nil {
		t.Error("Query should search the shadow root")
	}

	other, _ := m.Create("up-card")
	if other.ID() == el.ID() {
		t.Error("instances should have distinct ids")
	}
}

func TestDefinitionsSorted(t *testing.T) {
	m := NewManager(WithLogger(quietLogger(nil)))
	for _, name := range []string{"zz-top", "aa-one", "mm-mid"} {
		if _, err := m.Define(context.Background(), name, dom.MustParseFragment(`<p></p>`)); err != nil {
			t.Fatal(err)
		}
	}
	var names []string
	for _, d := range m.Definitions() {
		names = append(names, d.Name())
	}
	if got := strings.Join(names, ","); got != "aa-one,mm-mid,zz-top" {
		t.Errorf("definitions = %s", got)
	}
}
