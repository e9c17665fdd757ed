// Package store holds the per-component reactive data of ucom elements.
//
// A Store owns a Data map whose keys are either bound functions or accessors
// backed by a reactive signal or computed value. Keys keep insertion order
// and are defined at most once.
//
//	s := store.New(host, "x-counter")
//	s.Add("count", 0)
//	s.Add("inc", store.Method(func(owner *dom.Node, _ ...any) any {
//	    return nil
//	}))
//	s.Computed("double", func(d *store.Data) any {
//	    return cast.ToInt(d.Get("count")) * 2
//	})
//
// Synced and persisted keys are shared between every store of the same
// component name through a Registry. Persisted values are additionally
// mirrored into a persist.Storage.
package store
