package component

import (
	"sync"

	"github.com/google/uuid"

	"github.com/ucom-dev/ucom/pkg/dom"
)

// elementKey is the node value slot holding a host's Element.
type elementKey struct{}

// Element is an upgraded component instance.
type Element struct {
	Host   *dom.Node
	Shadow *dom.Node

	id       string
	class    *Class
	behavior any

	mu        sync.Mutex
	connected bool
	values    map[any]any
}

func newElement(c *Class, host *dom.Node) *Element {
	el := &Element{
		Host:   host,
		id:     uuid.NewString(),
		class:  c,
		values: make(map[any]any),
	}
	if c.module.Behavior != nil {
		el.behavior = c.module.Behavior()
	}
	el.Shadow = host.AttachShadow()
	el.Shadow.AppendChild(c.Content())
	host.SetValue(elementKey{}, el)
	return el
}

// ElementOf returns the Element upgraded from host, or nil.
func ElementOf(host *dom.Node) *Element {
	el, _ := host.Value(elementKey{}).(*Element)
	return el
}

// ID returns the instance id.
func (e *Element) ID() string { return e.id }

// Class returns the element's class.
func (e *Element) Class() *Class { return e.class }

// Behavior returns the per-instance behavior value, or nil.
func (e *Element) Behavior() any { return e.behavior }

// IsConnected reports whether the element is connected.
func (e *Element) IsConnected() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.connected
}

// SetValue stores plugin state on the element.
func (e *Element) SetValue(key, v any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.values[key] = v
}

// Value returns plugin state stored on the element.
func (e *Element) Value(key any) any {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.values[key]
}

// SetAttribute sets an attribute on the host and delivers the change when
// the attribute is observed.
func (e *Element) SetAttribute(name, value string) {
	old, _ := e.Host.Attr(name)
	e.Host.SetAttribute(name, value)
	e.attributeChanged(AttributeChange{Name: name, OldValue: old, NewValue: value})
}

// RemoveAttribute removes an attribute from the host and delivers the
// change when the attribute is observed.
func (e *Element) RemoveAttribute(name string) {
	old, had := e.Host.Attr(name)
	if !had {
		return
	}
	e.Host.RemoveAttribute(name)
	e.attributeChanged(AttributeChange{Name: name, OldValue: old, Removed: true})
}

func (e *Element) attributeChanged(ch AttributeChange) {
	if !e.class.Observed(ch.Name) {
		return
	}
	for _, p := range e.class.manager.plugins {
		if pp, ok := p.(AttributeChangedProvider); ok {
			if fn := pp.AttributeChangedHandler(e); fn != nil {
				fn(ch)
			}
		}
	}
	if b, ok := e.behavior.(AttributeChangedCallback); ok {
		b.AttributeChanged(e, ch)
	}
}

// Connect runs the connect handlers.
func (e *Element) Connect() {
	e.mu.Lock()
	e.connected = true
	e.mu.Unlock()

	for _, p := range e.class.manager.plugins {
		if pp, ok := p.(ConnectedProvider); ok {
			if fn := pp.ConnectedHandler(e); fn != nil {
				fn()
			}
		}
	}
	if b, ok := e.behavior.(ConnectedCallback); ok {
		b.Connected(e)
	}
}

// Disconnect runs the disconnect handlers.
func (e *Element) Disconnect() {
	e.mu.Lock()
	e.connected = false
	e.mu.Unlock()

	for _, p := range e.class.manager.plugins {
		if pp, ok := p.(DisconnectedProvider); ok {
			if fn := pp.DisconnectedHandler(e); fn != nil {
				fn()
			}
		}
	}
	if b, ok := e.behavior.(DisconnectedCallback); ok {
		b.Disconnected(e)
	}
}

// Query returns the first shadow descendant matching pred.
func (e *Element) Query(pred func(*dom.Node) bool) *dom.Node {
	return e.Shadow.Find(pred)
}

// QueryAll returns every shadow descendant matching pred.
func (e *Element) QueryAll(pred func(*dom.Node) bool) []*dom.Node {
	return e.Shadow.FindAll(pred)
}
