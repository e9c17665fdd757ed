package component

import (
	"context"

	"github.com/ucom-dev/ucom/pkg/dom"
)

// A plugin is any value implementing one or more of the capability
// interfaces below. Plugins run in registration order.
type (
	// Starter runs once when the manager starts.
	Starter interface {
		Start(ctx context.Context, m *Manager) error
	}

	// Parser rewrites the cloned template content before the script and
	// metadata are extracted.
	Parser interface {
		Parse(ctx context.Context, def *Definition, content *dom.Node) error
	}

	// Definer inspects or extends a finished class.
	Definer interface {
		Define(ctx context.Context, c *Class) error
	}

	// Constructor runs for every new element, after its shadow root is
	// filled.
	Constructor interface {
		Construct(el *Element)
	}

	// AttributeChangedProvider returns the element's attribute change
	// handler, or nil.
	AttributeChangedProvider interface {
		AttributeChangedHandler(el *Element) func(AttributeChange)
	}

	// ConnectedProvider returns the element's connect handler, or nil.
	ConnectedProvider interface {
		ConnectedHandler(el *Element) func()
	}

	// DisconnectedProvider returns the element's disconnect handler, or nil.
	DisconnectedProvider interface {
		DisconnectedHandler(el *Element) func()
	}
)
