// Package reactive is the component plugin binding every connected
// element's shadow tree to a reactive store.
//
// Declarations come from the component's behavior or its module exports:
//
//	$props   map[string]any or func() map[string]any, or PropsDeclarer
//	$store   StoreFunc, or StoreDeclarer
//	Methods  MethodsDeclarer
//
// Every other function export becomes a store method. Props are observed
// attributes; their values are cast and written through the store when the
// attribute changes.
//
//	func (counter) Props() map[string]any {
//	    return map[string]any{"step": reactive.Prop{Default: 1, Cast: reactive.Int}}
//	}
//
//	func (counter) Store(h reactive.Helpers) map[string]any {
//	    return map[string]any{
//	        "count": h.Persisted(0),
//	        "total": h.Computed(func(d *store.Data) any { return d.Get("count") }),
//	    }
//	}
package reactive
