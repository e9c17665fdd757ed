// Package dom is a small in-process document tree for component templates.
//
// It models the parts of the browser DOM that components need: elements,
// text, comments, fragments and shadow roots; ordered attributes with class
// list and inline style helpers; event listeners with bubbling; and a
// per-node value slot for runtime associations. Trees are parsed from and
// rendered to HTML.
//
// # Parsing
//
//	frag, err := dom.ParseFragment(`<p u-text="message"></p>`)
//
// ParseFragment parses in a <template> context, so table rows, <param> and
// other context-sensitive elements survive parsing.
//
// # Templates
//
// The children of a <template> element are its content. They are not part
// of the live tree: walkers skip them and TemplateContent returns a cloned
// fragment for instantiation.
//
// # Concurrency
//
// A tree is not safe for concurrent mutation. Components own their tree and
// mutate it from a single goroutine.
package dom
