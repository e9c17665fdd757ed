package dom

import "strings"

// Classes returns the tokens of the class attribute.
func (n *Node) Classes() []string {
	return strings.Fields(n.GetAttribute("class"))
}

// HasClass reports whether the class list contains name.
func (n *Node) HasClass(name string) bool {
	for _, c := range n.Classes() {
		if c == name {
			return true
		}
	}
	return false
}

// AddClass adds class names not already present.
func (n *Node) AddClass(names ...string) {
	list := n.Classes()
	changed := false
	for _, name := range names {
		if name == "" || containsString(list, name) {
			continue
		}
		list = append(list, name)
		changed = true
	}
	if changed {
		n.SetAttribute("class", strings.Join(list, " "))
	}
}

// RemoveClass removes class names. The class attribute is kept, possibly
// empty, once it exists.
func (n *Node) RemoveClass(names ...string) {
	if !n.HasAttribute("class") {
		return
	}
	var kept []string
	for _, c := range n.Classes() {
		if !containsString(names, c) {
			kept = append(kept, c)
		}
	}
	n.SetAttribute("class", strings.Join(kept, " "))
}

// ToggleClass adds name when on is true and removes it otherwise.
func (n *Node) ToggleClass(name string, on bool) {
	if on {
		n.AddClass(name)
	} else {
		n.RemoveClass(name)
	}
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
