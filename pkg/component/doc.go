// Package component turns HTML templates into custom element classes.
//
// A Manager resolves component paths, loads their templates through a
// Loader, and defines each component at most once. Defining runs the
// plugin pipeline:
//
//	Parse      rewrite the cloned template content
//	Define     inspect the finished Class
//	Construct  per instance, after the shadow root is filled
//
// Lifecycle callbacks (attribute changes, connect, disconnect) poll every
// plugin for an instance-bound handler, run them in plugin order, then call
// the behavior's own method.
//
//	m := component.NewManager(component.WithPlugins(reactive.New()))
//	if _, err := m.Import(ctx, "/components/x-counter.html", nil); err != nil {
//	    return err
//	}
//	el, _ := m.Create("x-counter")
//	el.Connect()
package component
