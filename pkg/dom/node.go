package dom

import "strings"

// NodeType is the node type discriminator.
type NodeType uint8

const (
	ElementNode    NodeType = iota // <div>, <template>, custom elements
	TextNode                       // Character data
	CommentNode                    // <!-- ... -->, used as anchors
	FragmentNode                   // Grouping without wrapper
	ShadowRootNode                 // Root of an element's shadow tree
)

// String returns the string representation of the NodeType.
func (t NodeType) String() string {
	switch t {
	case ElementNode:
		return "Element"
	case TextNode:
		return "Text"
	case CommentNode:
		return "Comment"
	case FragmentNode:
		return "Fragment"
	case ShadowRootNode:
		return "ShadowRoot"
	default:
		return "Unknown"
	}
}

// Node is a node in the document tree.
type Node struct {
	Type NodeType
	Tag  string // Lowercase tag name for elements
	Data string // Text for TextNode and CommentNode

	attrs []Attribute

	parent      *Node
	firstChild  *Node
	lastChild   *Node
	prevSibling *Node
	nextSibling *Node

	shadow *Node // Attached shadow root
	host   *Node // Host element of a shadow root

	listeners map[string][]*listener
	values    map[any]any
}

// NewElement creates a detached element.
func NewElement(tag string) *Node {
	return &Node{Type: ElementNode, Tag: strings.ToLower(tag)}
}

// NewText creates a detached text node.
func NewText(data string) *Node {
	return &Node{Type: TextNode, Data: data}
}

// NewComment creates a detached comment node.
func NewComment(data string) *Node {
	return &Node{Type: CommentNode, Data: data}
}

// NewFragment creates an empty fragment.
func NewFragment() *Node {
	return &Node{Type: FragmentNode}
}

// IsElement reports whether n is an element.
func (n *Node) IsElement() bool {
	return n != nil && n.Type == ElementNode
}

// Is reports whether n is an element with the given tag.
func (n *Node) Is(tag string) bool {
	return n.IsElement() && n.Tag == tag
}

// Parent returns the parent node, or nil for a detached or root node.
func (n *Node) Parent() *Node { return n.parent }

// FirstChild returns the first child node.
func (n *Node) FirstChild() *Node { return n.firstChild }

// LastChild returns the last child node.
func (n *Node) LastChild() *Node { return n.lastChild }

// PrevSibling returns the previous sibling node.
func (n *Node) PrevSibling() *Node { return n.prevSibling }

// NextSibling returns the next sibling node.
func (n *Node) NextSibling() *Node { return n.nextSibling }

// ChildNodes returns a snapshot of the child nodes.
func (n *Node) ChildNodes() []*Node {
	var out []*Node
	for c := n.firstChild; c != nil; c = c.nextSibling {
		out = append(out, c)
	}
	return out
}

// Children returns a snapshot of the element children.
func (n *Node) Children() []*Node {
	var out []*Node
	for c := n.firstChild; c != nil; c = c.nextSibling {
		if c.Type == ElementNode {
			out = append(out, c)
		}
	}
	return out
}

// FirstElementChild returns the first element child.
func (n *Node) FirstElementChild() *Node {
	for c := n.firstChild; c != nil; c = c.nextSibling {
		if c.Type == ElementNode {
			return c
		}
	}
	return nil
}

// NextElementSibling returns the next element sibling.
func (n *Node) NextElementSibling() *Node {
	for c := n.nextSibling; c != nil; c = c.nextSibling {
		if c.Type == ElementNode {
			return c
		}
	}
	return nil
}

// detach unlinks n from its parent.
func (n *Node) detach() {
	p := n.parent
	if p == nil {
		return
	}
	if n.prevSibling != nil {
		n.prevSibling.nextSibling = n.nextSibling
	} else {
		p.firstChild = n.nextSibling
	}
	if n.nextSibling != nil {
		n.nextSibling.prevSibling = n.prevSibling
	} else {
		p.lastChild = n.prevSibling
	}
	n.parent = nil
	n.prevSibling = nil
	n.nextSibling = nil
}

// AppendChild appends c to n's children. A fragment moves its children
// instead of itself. c is detached from its previous parent first.
func (n *Node) AppendChild(c *Node) {
	n.InsertBefore(c, nil)
}

// InsertBefore inserts c before ref, or appends when ref is nil.
// A fragment moves its children instead of itself.
func (n *Node) InsertBefore(c, ref *Node) {
	if c == nil {
		return
	}
	if c.Type == FragmentNode {
		for _, child := range c.ChildNodes() {
			n.InsertBefore(child, ref)
		}
		return
	}
	if ref != nil && ref.parent != n {
		ref = nil
	}
	if c == ref {
		return
	}

	c.detach()
	c.parent = n

	if ref == nil {
		c.prevSibling = n.lastChild
		if n.lastChild != nil {
			n.lastChild.nextSibling = c
		} else {
			n.firstChild = c
		}
		n.lastChild = c
		return
	}

	c.nextSibling = ref
	c.prevSibling = ref.prevSibling
	if ref.prevSibling != nil {
		ref.prevSibling.nextSibling = c
	} else {
		n.firstChild = c
	}
	ref.prevSibling = c
}

// RemoveChild removes c if it is a child of n.
func (n *Node) RemoveChild(c *Node) {
	if c != nil && c.parent == n {
		c.detach()
	}
}

// Remove detaches n from its parent.
func (n *Node) Remove() {
	n.detach()
}

// ReplaceWith replaces n in its parent with nodes. A detached n is left
// unchanged.
func (n *Node) ReplaceWith(nodes ...*Node) {
	p := n.parent
	if p == nil {
		return
	}
	next := n.nextSibling
	n.detach()
	for _, r := range nodes {
		p.InsertBefore(r, next)
	}
}

// RemoveChildren removes every child of n.
func (n *Node) RemoveChildren() {
	for n.firstChild != nil {
		n.firstChild.detach()
	}
}

// Contains reports whether other is n or a descendant of n.
func (n *Node) Contains(other *Node) bool {
	for p := other; p != nil; p = p.parent {
		if p == n {
			return true
		}
	}
	return false
}

// Root returns the topmost ancestor of n.
func (n *Node) Root() *Node {
	r := n
	for r.parent != nil {
		r = r.parent
	}
	return r
}

// Clone copies n. A deep clone copies the subtree. Listeners, values and
// shadow roots are not copied.
func (n *Node) Clone(deep bool) *Node {
	c := &Node{
		Type: n.Type,
		Tag:  n.Tag,
		Data: n.Data,
	}
	if len(n.attrs) > 0 {
		c.attrs = append([]Attribute(nil), n.attrs...)
	}
	if deep {
		for child := n.firstChild; child != nil; child = child.nextSibling {
			c.AppendChild(child.Clone(true))
		}
	}
	return c
}

// TemplateContent returns a fragment holding deep clones of a template's
// content.
func (n *Node) TemplateContent() *Node {
	frag := NewFragment()
	for child := n.firstChild; child != nil; child = child.nextSibling {
		frag.AppendChild(child.Clone(true))
	}
	return frag
}

// TextContent returns the concatenated text of n and its descendants.
func (n *Node) TextContent() string {
	switch n.Type {
	case TextNode, CommentNode:
		return n.Data
	}
	var sb strings.Builder
	n.Walk(func(d *Node) bool {
		if d.Type == TextNode {
			sb.WriteString(d.Data)
		}
		return true
	})
	return sb.String()
}

// SetTextContent replaces the children of n with a single text node.
// An empty string leaves n without children.
func (n *Node) SetTextContent(s string) {
	if n.Type == TextNode || n.Type == CommentNode {
		n.Data = s
		return
	}
	n.RemoveChildren()
	if s != "" {
		n.AppendChild(NewText(s))
	}
}

// Walk visits n and its descendants in document order. Returning false from
// fn skips the node's children. Shadow trees are not entered.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for c := n.firstChild; c != nil; {
		next := c.nextSibling
		c.Walk(fn)
		c = next
	}
}

// FindAll returns every descendant of n (excluding n) matching pred, in
// document order.
func (n *Node) FindAll(pred func(*Node) bool) []*Node {
	var out []*Node
	for c := n.firstChild; c != nil; c = c.nextSibling {
		c.Walk(func(d *Node) bool {
			if pred(d) {
				out = append(out, d)
			}
			return true
		})
	}
	return out
}

// Find returns the first descendant of n matching pred.
func (n *Node) Find(pred func(*Node) bool) *Node {
	var found *Node
	for c := n.firstChild; c != nil && found == nil; c = c.nextSibling {
		c.Walk(func(d *Node) bool {
			if found != nil {
				return false
			}
			if pred(d) {
				found = d
				return false
			}
			return true
		})
	}
	return found
}

// ByTag returns a predicate matching elements with the given tag.
func ByTag(tag string) func(*Node) bool {
	return func(n *Node) bool { return n.Is(tag) }
}

// AttachShadow attaches a shadow root to an element and returns it.
// An element that already has one returns the existing root.
func (n *Node) AttachShadow() *Node {
	if n.shadow == nil {
		n.shadow = &Node{Type: ShadowRootNode, host: n}
	}
	return n.shadow
}

// ShadowRoot returns the attached shadow root, or nil.
func (n *Node) ShadowRoot() *Node { return n.shadow }

// Host returns the host element of a shadow root.
func (n *Node) Host() *Node { return n.host }

// SetValue stores v under key on the node.
func (n *Node) SetValue(key, v any) {
	if n.values == nil {
		n.values = make(map[any]any)
	}
	n.values[key] = v
}

// Value returns the value stored under key, or nil.
func (n *Node) Value(key any) any {
	return n.values[key]
}

// DeleteValue removes the value stored under key.
func (n *Node) DeleteValue(key any) {
	delete(n.values, key)
}
