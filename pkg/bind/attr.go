package bind

import (
	"strings"

	ucomerrors "github.com/ucom-dev/ucom/internal/errors"
	"github.com/ucom-dev/ucom/pkg/dom"
	"github.com/ucom-dev/ucom/pkg/eval"
)

// bindAttr binds the attribute named by the modifier. true sets an empty
// attribute, false and nil remove it. class and style merge with the
// static value.
func bindAttr(ctx *Context, el *dom.Node, d Directive) {
	name := strings.ToLower(d.Modifier)
	if name == "" {
		ctx.logger(d).Warn("bind needs an attribute name",
			"error", ucomerrors.New("E101").WithSuggestion("Write "+ctx.walker.prefix+"-bind:title=\"expr\" or :title=\"expr\""))
		return
	}
	x, ok := ctx.compile(d)
	if !ok {
		return
	}
	scope := ctx.Scope()

	switch name {
	case "class":
		static := el.Classes()
		ctx.Effect(d.Name(), func() {
			if v, ok := ctx.eval(d, x, scope); ok {
				applyClass(el, static, v)
			}
		})
	case "style":
		static, hadStyle := el.Attr("style")
		ctx.Effect(d.Name(), func() {
			if v, ok := ctx.eval(d, x, scope); ok {
				applyStyle(el, static, hadStyle, v)
			}
		})
	default:
		ctx.Effect(d.Name(), func() {
			v, ok := ctx.eval(d, x, scope)
			if !ok {
				return
			}
			switch b := v.(type) {
			case bool:
				el.ToggleAttribute(name, b)
			case nil:
				el.RemoveAttribute(name)
			default:
				el.SetAttribute(name, stringify(b))
			}
		})
	}
}

// applyClass sets el's class list to the static classes plus the ones
// selected by v: a space separated string, a map of class to condition, or
// a list of names.
func applyClass(el *dom.Node, static []string, v any) {
	classes := append([]string(nil), static...)
	add := func(c string) {
		if c != "" && !containsClass(classes, c) {
			classes = append(classes, c)
		}
	}

	switch x := v.(type) {
	case string:
		for _, c := range strings.Fields(x) {
			add(c)
		}
	case []string:
		for _, c := range x {
			add(c)
		}
	case []any:
		for _, c := range x {
			if s, ok := c.(string); ok {
				add(s)
			}
		}
	default:
		if keys, m, ok := entries(v); ok {
			for _, k := range keys {
				if eval.Truthy(m[k]) {
					add(k)
				}
			}
		}
	}

	if len(classes) == 0 && len(static) == 0 {
		el.RemoveAttribute("class")
		return
	}
	el.SetAttribute("class", strings.Join(classes, " "))
}

func containsClass(list []string, c string) bool {
	for _, s := range list {
		if s == c {
			return true
		}
	}
	return false
}

// applyStyle resets el's style to the static value and applies v on top: a
// CSS declaration string or a map of property to value. camelCase keys are
// converted to kebab-case; nil values are skipped.
func applyStyle(el *dom.Node, static string, hadStyle bool, v any) {
	if hadStyle {
		el.SetAttribute("style", static)
	} else {
		el.RemoveAttribute("style")
	}

	switch x := v.(type) {
	case nil:
	case string:
		decls, err := dom.ParseStyle(x)
		if err != nil {
			return
		}
		for _, decl := range decls {
			value := decl.Value
			if decl.Important {
				value += " !important"
			}
			el.SetStyleProperty(decl.Property, value)
		}
	default:
		keys, m, ok := entries(v)
		if !ok {
			return
		}
		for _, k := range keys {
			if m[k] == nil {
				continue
			}
			el.SetStyleProperty(dom.CSSPropertyName(k), stringify(m[k]))
		}
	}
}
