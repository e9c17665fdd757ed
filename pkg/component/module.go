package component

import (
	"context"
	"strings"
	"sync"

	"github.com/ucom-dev/ucom/pkg/dom"
)

// Module is the result of evaluating a component script.
type Module struct {
	// Behavior creates the per-instance behavior value. Its optional
	// lifecycle methods are AttributeChanged, Connected and Disconnected.
	Behavior func() any

	// Exports are the script's named exports.
	Exports map[string]any
}

// ScriptEvaluator evaluates the script embedded in a component template.
type ScriptEvaluator interface {
	Evaluate(ctx context.Context, def *Definition, script string) (Module, error)
}

// AttributeChange describes a change of an observed attribute.
type AttributeChange struct {
	Name     string
	OldValue string
	NewValue string
	// Removed is set when the attribute was removed.
	Removed bool
}

// Behavior lifecycle methods.
type (
	AttributeChangedCallback interface {
		AttributeChanged(el *Element, change AttributeChange)
	}
	ConnectedCallback interface {
		Connected(el *Element)
	}
	DisconnectedCallback interface {
		Disconnected(el *Element)
	}
)

// Behaviors is a ScriptEvaluator backed by Go behaviors registered per
// component name. The script text is not executed.
type Behaviors struct {
	mu      sync.RWMutex
	modules map[string]Module
}

// NewBehaviors creates an empty Behaviors registry.
func NewBehaviors() *Behaviors {
	return &Behaviors{modules: make(map[string]Module)}
}

// Register sets the module of component name.
func (b *Behaviors) Register(name string, m Module) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.modules[strings.ToLower(name)] = m
}

// Evaluate implements ScriptEvaluator. Unknown components get an empty
// module.
func (b *Behaviors) Evaluate(_ context.Context, def *Definition, _ string) (Module, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.modules[def.Name()], nil
}

// extractScript removes the component script from content and returns its
// text: the first script with a setup attribute, else the first script.
func extractScript(content *dom.Node) string {
	script := content.Find(func(n *dom.Node) bool {
		return n.Is("script") && n.HasAttribute("setup")
	})
	if script == nil {
		script = content.Find(dom.ByTag("script"))
	}
	if script == nil {
		return ""
	}
	script.Remove()
	return script.TextContent()
}

// extractMeta collects +key="value" attributes of top-level meta elements
// and removes those elements.
func extractMeta(content *dom.Node) map[string]string {
	meta := make(map[string]string)
	for _, n := range content.Children() {
		if !n.Is("meta") {
			continue
		}
		found := false
		for _, a := range n.Attributes() {
			if key, ok := strings.CutPrefix(a.Name, "+"); ok && key != "" {
				meta[key] = a.Value
				found = true
			}
		}
		if found {
			n.Remove()
		}
	}
	return meta
}
