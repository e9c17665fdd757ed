package dom

import (
	"strings"

	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
	"github.com/iancoleman/strcase"
)

// StyleDeclaration is one inline style property.
type StyleDeclaration struct {
	Property  string
	Value     string
	Important bool
}

// CSSPropertyName converts a camelCase property name to its kebab-case CSS
// form. Custom properties and names that are already kebab-case are kept.
func CSSPropertyName(name string) string {
	name = strings.TrimSpace(name)
	if strings.HasPrefix(name, "--") || name == strings.ToLower(name) {
		return name
	}
	return strcase.ToKebab(name)
}

// ParseStyle parses an inline style declaration list such as
// "color: red; display: none".
func ParseStyle(s string) ([]StyleDeclaration, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	decls, err := parser.ParseDeclarations(s)
	if err != nil {
		return nil, err
	}
	out := make([]StyleDeclaration, 0, len(decls))
	for _, d := range decls {
		out = append(out, fromCSS(d))
	}
	return out, nil
}

func fromCSS(d *css.Declaration) StyleDeclaration {
	return StyleDeclaration{
		Property:  strings.ToLower(d.Property),
		Value:     d.Value,
		Important: d.Important,
	}
}

// FormatStyle serializes declarations back into an inline style string.
func FormatStyle(decls []StyleDeclaration) string {
	parts := make([]string, 0, len(decls))
	for _, d := range decls {
		v := d.Value
		if d.Important {
			v += " !important"
		}
		parts = append(parts, d.Property+": "+v+";")
	}
	return strings.Join(parts, " ")
}

// Style returns the parsed inline style. An unparsable style attribute
// yields no declarations.
func (n *Node) Style() []StyleDeclaration {
	decls, err := ParseStyle(n.GetAttribute("style"))
	if err != nil {
		return nil
	}
	return decls
}

// StyleProperty returns the value of an inline style property, or "".
func (n *Node) StyleProperty(name string) string {
	name = CSSPropertyName(name)
	for _, d := range n.Style() {
		if d.Property == name {
			return d.Value
		}
	}
	return ""
}

// SetStyleProperty sets an inline style property. An empty value removes it.
func (n *Node) SetStyleProperty(name, value string) {
	name = CSSPropertyName(name)
	value = strings.TrimSpace(value)
	important := false
	if strings.HasSuffix(value, "!important") {
		important = true
		value = strings.TrimSpace(strings.TrimSuffix(value, "!important"))
	}

	decls := n.Style()
	idx := -1
	for i, d := range decls {
		if d.Property == name {
			idx = i
			break
		}
	}

	switch {
	case value == "" && idx >= 0:
		decls = append(decls[:idx], decls[idx+1:]...)
	case value == "":
		return
	case idx >= 0:
		decls[idx].Value = value
		decls[idx].Important = important
	default:
		decls = append(decls, StyleDeclaration{Property: name, Value: value, Important: important})
	}
	n.setStyle(decls)
}

// RemoveStyleProperty removes an inline style property.
func (n *Node) RemoveStyleProperty(name string) {
	n.SetStyleProperty(name, "")
}

func (n *Node) setStyle(decls []StyleDeclaration) {
	if len(decls) == 0 {
		if n.HasAttribute("style") {
			n.SetAttribute("style", "")
		}
		return
	}
	n.SetAttribute("style", FormatStyle(decls))
}
