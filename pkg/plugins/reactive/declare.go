package reactive

import (
	"github.com/spf13/cast"

	"github.com/ucom-dev/ucom/pkg/store"
)

// Export names read from a component module.
const (
	PropsExport = "$props"
	StoreExport = "$store"
)

// Prop declares an attribute-backed store key.
type Prop struct {
	// Default is used while the attribute is absent. A nil default is "".
	Default any

	// Cast converts the raw value before it is stored. Nil stores the
	// attribute string unchanged.
	Cast func(any) any
}

func (p Prop) cast(v any) any {
	if p.Cast == nil {
		return v
	}
	return p.Cast(v)
}

// Casts for common prop types.
var (
	String = func(v any) any { return cast.ToString(v) }
	Int    = func(v any) any { return cast.ToInt(v) }
	Float  = func(v any) any { return cast.ToFloat64(v) }
	Bool   = func(v any) any { return cast.ToBool(v) }
)

// PropsDeclarer is implemented by behaviors declaring props. Values are
// either a Prop or a plain default.
type PropsDeclarer interface {
	Props() map[string]any
}

// MethodsDeclarer is implemented by behaviors declaring store methods.
type MethodsDeclarer interface {
	Methods() map[string]store.Method
}

// StoreDeclarer is implemented by behaviors declaring additional store
// entries.
type StoreDeclarer interface {
	Store(h Helpers) map[string]any
}

// StoreFunc is the type of a module's $store export.
type StoreFunc func(h Helpers) map[string]any

// Helpers is passed to store declarations.
type Helpers struct {
	// Props holds the initial prop values.
	Props map[string]any
}

// Synced marks a value shared between every instance of the component.
type Synced struct{ V any }

// Persisted marks a synced value that is also saved to storage.
type Persisted struct{ V any }

// Computed marks a value derived from the store.
type Computed struct{ Fn func(*store.Data) any }

// Synced wraps v as a synced entry.
func (Helpers) Synced(v any) Synced { return Synced{V: v} }

// Persisted wraps v as a persisted entry.
func (Helpers) Persisted(v any) Persisted { return Persisted{V: v} }

// Computed wraps fn as a computed entry.
func (Helpers) Computed(fn func(*store.Data) any) Computed { return Computed{Fn: fn} }

// makeProps normalizes raw prop declarations.
func makeProps(raw map[string]any) map[string]Prop {
	props := make(map[string]Prop, len(raw))
	for k, v := range raw {
		p, ok := v.(Prop)
		if !ok {
			p = Prop{Default: v}
		}
		if p.Default == nil {
			p.Default = ""
		}
		props[k] = p
	}
	return props
}
