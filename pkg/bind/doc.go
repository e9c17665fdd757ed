// Package bind binds a node tree to reactive data by interpreting directive
// attributes.
//
// A Walker visits element nodes depth-first. Directives are attributes named
// prefix-key[:modifier] (u-text, u-bind:title, u-on:click) or one of the
// shorthands @event, :attr and $expr. Each directive becomes an effect that
// re-runs synchronously whenever a signal it read changes.
//
// Every bound subtree belongs to a Context. Contexts form a tree mirroring
// loop items and dynamic tags; disposing a context disposes every effect and
// listener created under it.
package bind
