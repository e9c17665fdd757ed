package dom

import (
	"bytes"
	"fmt"
	"io"

	"golang.org/x/net/html"
)

// RendererConfig configures the HTML renderer.
type RendererConfig struct {
	// Pretty enables indented output. Intended for debugging only since it
	// adds whitespace text.
	Pretty bool

	// Indent is the string used for each indentation level in pretty mode.
	// Defaults to two spaces if not specified.
	Indent string

	// Shadow renders attached shadow roots as declarative
	// <template shadowrootmode="open"> children of their host.
	Shadow bool
}

// Renderer serializes node trees to HTML.
type Renderer struct {
	config RendererConfig
}

// NewRenderer creates a new Renderer with the given configuration.
func NewRenderer(config RendererConfig) *Renderer {
	if config.Indent == "" {
		config.Indent = "  "
	}
	return &Renderer{config: config}
}

// RenderToString renders a node to an HTML string.
func (r *Renderer) RenderToString(n *Node) (string, error) {
	var buf bytes.Buffer
	if err := r.RenderToWriter(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderToWriter streams a node to the given writer.
func (r *Renderer) RenderToWriter(w io.Writer, n *Node) error {
	return r.renderNode(w, n, 0)
}

func (r *Renderer) renderNode(w io.Writer, n *Node, depth int) error {
	if n == nil {
		return nil
	}

	switch n.Type {
	case ElementNode:
		return r.renderElement(w, n, depth)
	case TextNode:
		text := n.Data
		if n.parent == nil || !isRawTextElement(n.parent.Tag) {
			text = html.EscapeString(text)
		}
		_, err := io.WriteString(w, text)
		return err
	case CommentNode:
		_, err := fmt.Fprintf(w, "<!--%s-->", n.Data)
		return err
	case FragmentNode, ShadowRootNode:
		return r.renderChildren(w, n, depth)
	default:
		return fmt.Errorf("unknown node type: %d", n.Type)
	}
}

func (r *Renderer) renderChildren(w io.Writer, n *Node, depth int) error {
	for c := n.firstChild; c != nil; c = c.nextSibling {
		if err := r.renderNode(w, c, depth); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) renderElement(w io.Writer, n *Node, depth int) error {
	if r.config.Pretty && depth > 0 {
		r.writeIndent(w, depth)
	}

	if _, err := io.WriteString(w, "<"+n.Tag); err != nil {
		return err
	}
	for _, a := range n.attrs {
		if a.Value == "" && IsBooleanAttr(a.Name) {
			if _, err := io.WriteString(w, " "+a.Name); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintf(w, ` %s="%s"`, a.Name, html.EscapeString(a.Value)); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(w, ">"); err != nil {
		return err
	}

	if isVoidElement(n.Tag) {
		if r.config.Pretty {
			io.WriteString(w, "\n")
		}
		return nil
	}

	hasBlockChildren := (n.firstChild != nil || n.shadow != nil) && !isInlineElement(n.Tag)
	if r.config.Pretty && hasBlockChildren {
		io.WriteString(w, "\n")
	}

	if r.config.Shadow && n.shadow != nil {
		if r.config.Pretty {
			r.writeIndent(w, depth+1)
		}
		if _, err := io.WriteString(w, `<template shadowrootmode="open">`); err != nil {
			return err
		}
		if err := r.renderChildren(w, n.shadow, depth+2); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "</template>"); err != nil {
			return err
		}
	}

	for c := n.firstChild; c != nil; c = c.nextSibling {
		if err := r.renderNode(w, c, depth+1); err != nil {
			return err
		}
	}

	if r.config.Pretty && hasBlockChildren {
		r.writeIndent(w, depth)
	}
	if _, err := fmt.Fprintf(w, "</%s>", n.Tag); err != nil {
		return err
	}
	if r.config.Pretty {
		io.WriteString(w, "\n")
	}
	return nil
}

func (r *Renderer) writeIndent(w io.Writer, depth int) {
	for i := 0; i < depth; i++ {
		io.WriteString(w, r.config.Indent)
	}
}

var defaultRenderer = NewRenderer(RendererConfig{})

// OuterHTML renders n including its own tag.
func (n *Node) OuterHTML() string {
	s, _ := defaultRenderer.RenderToString(n)
	return s
}

// InnerHTML renders n's children.
func (n *Node) InnerHTML() string {
	var buf bytes.Buffer
	_ = defaultRenderer.renderChildren(&buf, n, 0)
	return buf.String()
}
