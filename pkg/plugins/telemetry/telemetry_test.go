package telemetry

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/ucom-dev/ucom/internal/metrics"
	"github.com/ucom-dev/ucom/pkg/component"
	"github.com/ucom-dev/ucom/pkg/dom"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("counter Write() error: %v", err)
	}
	return m.GetCounter().GetValue()
}

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var m dto.Metric
	if err := g.Write(&m); err != nil {
		t.Fatalf("gauge Write() error: %v", err)
	}
	return m.GetGauge().GetValue()
}

func histogramCount(t *testing.T, h prometheus.Histogram) uint64 {
	t.Helper()
	var m dto.Metric
	if err := h.Write(&m); err != nil {
		t.Fatalf("histogram Write() error: %v", err)
	}
	return m.GetHistogram().GetSampleCount()
}

func TestTelemetryPlugin(t *testing.T) {
	m := metrics.New(metrics.WithRegistry(prometheus.NewRegistry()))
	p := New(m)

	mgr := component.NewManager(
		component.WithPlugins(p),
		component.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	for _, name := range []string{"x-one", "x-two"} {
		if _, err := mgr.Define(context.Background(), name, dom.MustParseFragment(`<p></p>`)); err != nil {
			t.Fatal(err)
		}
	}
	// Defining again hits the cache.
	if _, err := mgr.Define(context.Background(), "x-one", dom.MustParseFragment(`<p></p>`)); err != nil {
		t.Fatal(err)
	}

	if got := counterValue(t, m.DefinitionsTotal); got != 2 {
		t.Errorf("definitions_total = %v, want 2", got)
	}
	if got := histogramCount(t, m.DefineDuration); got != 2 {
		t.Errorf("define_duration samples = %d, want 2", got)
	}

	a, _ := mgr.Create("x-one")
	b, _ := mgr.Create("x-one")
	a.Connect()
	a.Connect()
	b.Connect()

	if got := counterValue(t, m.ElementsCreated.WithLabelValues("x-one")); got != 2 {
		t.Errorf("elements_created = %v, want 2", got)
	}
	live := m.LiveElements.WithLabelValues("x-one")
	if got := gaugeValue(t, live); got != 2 {
		t.Errorf("live_elements = %v, want 2", got)
	}

	a.Disconnect()
	a.Disconnect()
	if got := gaugeValue(t, live); got != 1 {
		t.Errorf("live_elements after disconnect = %v, want 1", got)
	}
}

type failingParser struct{ fail map[string]bool }

func (f failingParser) Parse(_ context.Context, def *component.Definition, _ *dom.Node) error {
	if f.fail[def.Name()] {
		return errors.New("rejected")
	}
	return nil
}

func TestTelemetryFailedDefinitions(t *testing.T) {
	m := metrics.New(metrics.WithRegistry(prometheus.NewRegistry()))
	p := New(m)
	fail := map[string]bool{"x-bad": true, "x-retry": true}
	mgr := component.NewManager(
		component.WithPlugins(p, failingParser{fail: fail}),
		component.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	ctx := context.Background()

	for range 3 {
		for _, name := range []string{"x-bad", "x-retry"} {
			if _, err := mgr.Define(ctx, name, dom.MustParseFragment(`<p></p>`)); err == nil {
				t.Fatalf("Define(%s) should fail", name)
			}
		}
	}
	p.mu.Lock()
	n := len(p.started)
	p.mu.Unlock()
	if n != 2 {
		t.Errorf("pending entries = %d, want 2", n)
	}

	delete(fail, "x-retry")
	if _, err := mgr.Define(ctx, "x-retry", dom.MustParseFragment(`<p></p>`)); err != nil {
		t.Fatal(err)
	}
	p.mu.Lock()
	_, pending := p.started["x-retry"]
	n = len(p.started)
	p.mu.Unlock()
	if pending || n != 1 {
		t.Errorf("x-retry pending = %v, entries = %d, want false and 1", pending, n)
	}
	if got := counterValue(t, m.DefinitionsTotal); got != 1 {
		t.Errorf("definitions_total = %v, want 1", got)
	}
}
