// Package ucomtest provides testing helpers for ucom components.
//
// A Builder defines a component from a template string, creates one
// element, connects it through the reactive plugin and disconnects it when
// the test ends.
//
// # Quick Start
//
//	func TestCounter(t *testing.T) {
//	    m := ucomtest.New(`<p u-text="count"></p><button @click="count++"></button>`).
//	        WithExports(map[string]any{
//	            "$store": reactive.StoreFunc(func(h reactive.Helpers) map[string]any {
//	                return map[string]any{"count": 0}
//	            }),
//	        }).
//	        Mount(t)
//
//	    m.Click(t, "button")
//	    ucomtest.ExpectText(t, m, "p", "1")
//	}
//
// # Render Assertions
//
//	ucomtest.ExpectContains(t, m, "<li>a</li>")
//	ucomtest.ExpectNotContains(t, m, "u-text")
//	ucomtest.ExpectAttribute(t, m, "a", "href", "/docs")
package ucomtest
