package component

import (
	"sort"
	"sync"

	"github.com/ucom-dev/ucom/pkg/dom"
)

// Class creates the elements of one defined component.
type Class struct {
	def       *Definition
	manager   *Manager
	content   *dom.Node
	module    Module
	prototype any
	meta      map[string]string

	mu       sync.RWMutex
	observed map[string]bool
	values   map[any]any
}

// Definition returns the component definition.
func (c *Class) Definition() *Definition { return c.def }

// Name returns the component name.
func (c *Class) Name() string { return c.def.name }

// Manager returns the manager that defined the class.
func (c *Class) Manager() *Manager { return c.manager }

// Module returns the evaluated component script.
func (c *Class) Module() Module { return c.module }

// Prototype returns a behavior value shared by the class, for inspecting
// declarations. It is nil when the module has no behavior.
func (c *Class) Prototype() any { return c.prototype }

// Meta returns the value of a +key metadata attribute.
func (c *Class) Meta(key string) (string, bool) {
	v, ok := c.meta[key]
	return v, ok
}

// Content returns a copy of the processed shadow content.
func (c *Class) Content() *dom.Node { return c.content.Clone(true) }

// Observe adds names to the observed attributes.
func (c *Class) Observe(names ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, n := range names {
		c.observed[n] = true
	}
}

// Observed reports whether changes of attribute name are delivered.
func (c *Class) Observed(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.observed[name]
}

// ObservedAttributes returns the observed attribute names, sorted.
func (c *Class) ObservedAttributes() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.observed))
	for n := range c.observed {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// SetValue stores plugin state on the class.
func (c *Class) SetValue(key, v any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = v
}

// Value returns plugin state stored on the class.
func (c *Class) Value(key any) any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.values[key]
}

// New creates a detached element of the class.
func (c *Class) New() *Element {
	return c.upgrade(dom.NewElement(c.def.name))
}

func (c *Class) upgrade(host *dom.Node) *Element {
	el := newElement(c, host)
	for _, p := range c.manager.plugins {
		if cp, ok := p.(Constructor); ok {
			cp.Construct(el)
		}
	}
	return el
}
