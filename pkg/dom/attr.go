package dom

import "strings"

// Attribute is a single name/value attribute.
type Attribute struct {
	Name  string
	Value string
}

// Attributes returns a snapshot of n's attributes in document order.
func (n *Node) Attributes() []Attribute {
	return append([]Attribute(nil), n.attrs...)
}

// Attr returns the value of the named attribute and whether it exists.
func (n *Node) Attr(name string) (string, bool) {
	name = strings.ToLower(name)
	for _, a := range n.attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// GetAttribute returns the value of the named attribute, or "".
func (n *Node) GetAttribute(name string) string {
	v, _ := n.Attr(name)
	return v
}

// HasAttribute reports whether the named attribute exists.
func (n *Node) HasAttribute(name string) bool {
	_, ok := n.Attr(name)
	return ok
}

// SetAttribute sets an attribute, keeping the position of an existing one.
func (n *Node) SetAttribute(name, value string) {
	name = strings.ToLower(name)
	for i := range n.attrs {
		if n.attrs[i].Name == name {
			n.attrs[i].Value = value
			return
		}
	}
	n.attrs = append(n.attrs, Attribute{Name: name, Value: value})
}

// RemoveAttribute removes the named attribute if present.
func (n *Node) RemoveAttribute(name string) {
	name = strings.ToLower(name)
	for i := range n.attrs {
		if n.attrs[i].Name == name {
			n.attrs = append(n.attrs[:i], n.attrs[i+1:]...)
			return
		}
	}
}

// ToggleAttribute adds an empty attribute when on is true and removes it
// otherwise.
func (n *Node) ToggleAttribute(name string, on bool) {
	if on {
		if !n.HasAttribute(name) {
			n.SetAttribute(name, "")
		}
		return
	}
	n.RemoveAttribute(name)
}
