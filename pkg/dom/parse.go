package dom

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ParseFragment parses HTML in a <template> context and returns a fragment
// holding the parsed nodes.
func ParseFragment(src string) (*Node, error) {
	return ParseFragmentIn(src, "template")
}

// ParseFragmentIn parses HTML as the content of an element with the given
// tag.
func ParseFragmentIn(src, contextTag string) (*Node, error) {
	contextTag = strings.ToLower(contextTag)
	if contextTag == "" {
		contextTag = "template"
	}
	context := &html.Node{
		Type:     html.ElementNode,
		Data:     contextTag,
		DataAtom: atom.Lookup([]byte(contextTag)),
	}

	nodes, err := html.ParseFragment(strings.NewReader(src), context)
	if err != nil {
		return nil, fmt.Errorf("parse fragment: %w", err)
	}

	frag := NewFragment()
	for _, hn := range nodes {
		if n := fromHTML(hn); n != nil {
			frag.AppendChild(n)
		}
	}
	return frag, nil
}

// MustParseFragment is like ParseFragment but panics on error.
func MustParseFragment(src string) *Node {
	frag, err := ParseFragment(src)
	if err != nil {
		panic(err)
	}
	return frag
}

// SetInnerHTML replaces n's children with parsed HTML.
func (n *Node) SetInnerHTML(src string) error {
	tag := n.Tag
	if n.Type != ElementNode {
		tag = "template"
	}
	frag, err := ParseFragmentIn(src, tag)
	if err != nil {
		return err
	}
	n.RemoveChildren()
	n.AppendChild(frag)
	return nil
}

// fromHTML converts a parsed html.Node into a Node. Doctype and document
// nodes are dropped.
func fromHTML(hn *html.Node) *Node {
	var n *Node
	switch hn.Type {
	case html.ElementNode:
		n = NewElement(hn.Data)
		for _, a := range hn.Attr {
			name := a.Key
			if a.Namespace != "" {
				name = a.Namespace + ":" + a.Key
			}
			n.SetAttribute(name, a.Val)
		}
	case html.TextNode:
		n = NewText(hn.Data)
	case html.CommentNode:
		n = NewComment(hn.Data)
	default:
		return nil
	}

	for c := hn.FirstChild; c != nil; c = c.NextSibling {
		if child := fromHTML(c); child != nil {
			n.AppendChild(child)
		}
	}
	return n
}
