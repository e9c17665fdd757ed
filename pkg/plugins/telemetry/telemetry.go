// Package telemetry is a component plugin recording definition and
// instance metrics.
package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/ucom-dev/ucom/internal/metrics"
	"github.com/ucom-dev/ucom/pkg/component"
	"github.com/ucom-dev/ucom/pkg/dom"
)

// liveKey marks an element counted as live.
type liveKey struct{}

// Plugin records component metrics.
type Plugin struct {
	m *metrics.Metrics

	// started holds the parse time per component name. A definition that
	// fails after Parse is overwritten by the next attempt.
	mu      sync.Mutex
	started map[string]time.Time
}

// New creates a telemetry plugin recording into m.
func New(m *metrics.Metrics) *Plugin {
	return &Plugin{m: m, started: make(map[string]time.Time)}
}

// Metrics returns the collectors the plugin records into.
func (p *Plugin) Metrics() *metrics.Metrics { return p.m }

// Parse marks the start of a definition.
func (p *Plugin) Parse(_ context.Context, def *component.Definition, _ *dom.Node) error {
	p.mu.Lock()
	p.started[def.Name()] = time.Now()
	p.mu.Unlock()
	return nil
}

// Define counts the definition and observes its duration.
func (p *Plugin) Define(_ context.Context, c *component.Class) error {
	p.mu.Lock()
	start, ok := p.started[c.Name()]
	delete(p.started, c.Name())
	p.mu.Unlock()

	p.m.DefinitionsTotal.Inc()
	if ok {
		p.m.DefineDuration.Observe(time.Since(start).Seconds())
	}
	return nil
}

// Construct counts a new element.
func (p *Plugin) Construct(el *component.Element) {
	p.m.ElementsCreated.WithLabelValues(el.Class().Name()).Inc()
}

// AttributeChangedHandler implements component.AttributeChangedProvider.
func (p *Plugin) AttributeChangedHandler(el *component.Element) func(component.AttributeChange) {
	return func(component.AttributeChange) {
		p.m.AttributeChanges.WithLabelValues(el.Class().Name()).Inc()
	}
}

// ConnectedHandler implements component.ConnectedProvider.
func (p *Plugin) ConnectedHandler(el *component.Element) func() {
	return func() {
		if el.Value(liveKey{}) == true {
			return
		}
		el.SetValue(liveKey{}, true)
		p.m.LiveElements.WithLabelValues(el.Class().Name()).Inc()
	}
}

// DisconnectedHandler implements component.DisconnectedProvider.
func (p *Plugin) DisconnectedHandler(el *component.Element) func() {
	return func() {
		if el.Value(liveKey{}) != true {
			return
		}
		el.SetValue(liveKey{}, false)
		p.m.LiveElements.WithLabelValues(el.Class().Name()).Dec()
	}
}
