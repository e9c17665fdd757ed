package bind

import "strings"

// Directive is one parsed directive attribute.
type Directive struct {
	// Key is the directive name without prefix: "text", "bind", "on".
	Key string
	// Modifier follows the colon: the attribute of bind, the event of on.
	Modifier string
	// Value is the attribute value.
	Value string

	attr string
}

// Name returns the attribute name the directive was parsed from.
func (d Directive) Name() string { return d.attr }

// Expr returns the expression to evaluate. The $ shorthand carries its
// expression in the attribute name.
func (d Directive) Expr() string {
	if d.attr != "" && d.attr[0] == '$' {
		return d.Modifier
	}
	return d.Value
}

var shorthands = map[byte]string{
	'$': "text",
	'@': "on",
	':': "bind",
}

// ParseDirective parses an attribute into a directive. It reports false for
// attributes that are not directives.
func ParseDirective(prefix, name, value string) (Directive, bool) {
	if name == "" {
		return Directive{}, false
	}
	if key, ok := shorthands[name[0]]; ok {
		return Directive{Key: key, Modifier: name[1:], Value: value, attr: name}, true
	}

	rest, ok := strings.CutPrefix(name, prefix+"-")
	if !ok || rest == "" {
		return Directive{}, false
	}
	key, modifier, _ := strings.Cut(rest, ":")
	return Directive{Key: key, Modifier: modifier, Value: value, attr: name}, true
}
