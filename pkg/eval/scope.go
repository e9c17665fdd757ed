package eval

// Scope resolves the free names of an expression.
type Scope interface {
	// Lookup returns the value bound to name. Reactive implementations
	// subscribe the current listener.
	Lookup(name string) (any, bool)

	// Assign writes value to name.
	Assign(name string, value any) error
}

// MapScope is a plain, non-reactive Scope.
type MapScope map[string]any

// Lookup implements Scope.
func (m MapScope) Lookup(name string) (any, bool) {
	v, ok := m[name]
	return v, ok
}

// Assign implements Scope.
func (m MapScope) Assign(name string, value any) error {
	m[name] = value
	return nil
}

// Overlay is a Scope whose locals shadow a parent scope. Assignments to a
// local name stay local.
type Overlay struct {
	Parent Scope
	Locals map[string]any
}

// Lookup implements Scope.
func (o Overlay) Lookup(name string) (any, bool) {
	if v, ok := o.Locals[name]; ok {
		return v, true
	}
	if o.Parent == nil {
		return nil, false
	}
	return o.Parent.Lookup(name)
}

// Assign implements Scope.
func (o Overlay) Assign(name string, value any) error {
	if _, ok := o.Locals[name]; ok || o.Parent == nil {
		if o.Locals == nil {
			return &Error{Expr: name, Err: errNoTarget}
		}
		o.Locals[name] = value
		return nil
	}
	return o.Parent.Assign(name, value)
}
