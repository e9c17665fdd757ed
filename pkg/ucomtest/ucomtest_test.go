package ucomtest_test

import (
	"testing"

	"github.com/ucom-dev/ucom/pkg/bind"
	"github.com/ucom-dev/ucom/pkg/plugins/reactive"
	"github.com/ucom-dev/ucom/pkg/store"
	"github.com/ucom-dev/ucom/pkg/ucomtest"
)

func storeOf(entries map[string]any) map[string]any {
	return map[string]any{
		reactive.StoreExport: reactive.StoreFunc(func(h reactive.Helpers) map[string]any {
			return entries
		}),
	}
}

func TestMountCounter(t *testing.T) {
	m := ucomtest.New(`<p u-text="count"></p><button @click="count++">+</button>`).
		WithExports(storeOf(map[string]any{"count": 0})).
		Mount(t)

	ucomtest.ExpectText(t, m, "p", "0")
	m.Click(t, "button")
	m.Click(t, "button")
	ucomtest.ExpectText(t, m, "p", "2")

	if got := m.Data().Peek("count"); got != 2 {
		t.Errorf("count = %v, want 2", got)
	}
}

func TestMountLoopRebuilds(t *testing.T) {
	m := ucomtest.New(`<ul><li u-for="item in items" u-text="item"></li></ul>`).
		WithExports(storeOf(map[string]any{"items": []any{"a", "b"}})).
		Mount(t)

	ucomtest.ExpectContains(t, m, "<li>a</li><li>b</li>")

	if err := m.Data().Set("items", []any{"c"}); err != nil {
		t.Fatal(err)
	}
	ucomtest.ExpectContains(t, m, "<li>c</li>")
	ucomtest.ExpectNotContains(t, m, "<li>a</li>")
}

func TestMountProps(t *testing.T) {
	m := ucomtest.New(`<a :href="url" u-text="label"></a>`).
		WithExports(map[string]any{
			reactive.PropsExport: map[string]any{"url": "/", "label": "home"},
		}).
		WithAttr("url", "/docs").
		Mount(t)

	ucomtest.ExpectAttribute(t, m, "a", "href", "/docs")
	ucomtest.ExpectText(t, m, "a", "home")

	m.El.SetAttribute("label", "docs")
	ucomtest.ExpectText(t, m, "a", "docs")
}

func TestMountCustomPrefix(t *testing.T) {
	m := ucomtest.New(`<p v-text="count"></p>`).
		WithExports(storeOf(map[string]any{"count": 5})).
		WithWalkerOptions(bind.WithPrefix("v")).
		Mount(t)

	ucomtest.ExpectText(t, m, "p", "5")
	ucomtest.ExpectNotContains(t, m, "v-text")
}

func TestSharedRegistrySyncs(t *testing.T) {
	reg := store.NewRegistry()
	t.Cleanup(reg.Reset)

	exports := map[string]any{
		reactive.StoreExport: reactive.StoreFunc(func(h reactive.Helpers) map[string]any {
			return map[string]any{"n": h.Synced(0)}
		}),
	}
	a := ucomtest.New(`<b u-text="n"></b><button @click="n = n + 1"></button>`).
		WithName("x-shared").WithExports(exports).WithRegistry(reg).Mount(t)
	b := ucomtest.New(`<b u-text="n"></b>`).
		WithName("x-shared").WithExports(exports).WithRegistry(reg).Mount(t)

	a.Click(t, "button")
	ucomtest.ExpectText(t, b, "b", "1")
}

func TestExpectContains_Pass(t *testing.T) {
	m := ucomtest.New(`<p>Hello World</p>`).Mount(t)

	mockT := &testing.T{}
	ucomtest.ExpectContains(mockT, m, "Hello")
	ucomtest.ExpectNotContains(mockT, m, "Goodbye")

	if mockT.Failed() {
		t.Error("assertions should have passed")
	}
}
