package bind

import (
	"strings"

	ucomerrors "github.com/ucom-dev/ucom/internal/errors"
	"github.com/ucom-dev/ucom/pkg/dom"
	"github.com/ucom-dev/ucom/pkg/reactive"
)

// bindIs replaces a template with an element whose tag name is the
// expression's value. The element is rebuilt only when the name changes.
// It reports false when the directive is not on a template, leaving el to
// be walked as usual.
func bindIs(ctx *Context, el *dom.Node, d Directive) (*dom.Node, bool) {
	if el.Tag != "template" {
		ctx.logger(d).Warn("dynamic tag outside a template",
			"error", ucomerrors.New("E120").WithSuggestion("Move "+d.Name()+" onto a <template> element"))
		return nil, false
	}
	next := el.NextSibling()

	parent := el.Parent()
	if parent == nil {
		return next, true
	}
	x, ok := ctx.compile(d)
	if !ok {
		return next, true
	}
	scope := ctx.Scope()

	anchor := dom.NewComment(d.Name())
	el.ReplaceWith(anchor)

	var (
		name   string
		tag    *dom.Node
		scoped *Context
	)
	ctx.Effect(d.Name(), func() {
		v, ok := ctx.eval(d, x, scope)
		if !ok {
			return
		}
		want := strings.ToLower(strings.TrimSpace(stringify(v)))
		if want == "" || want == name {
			return
		}

		if tag != nil {
			if p := tag.Parent(); p != nil {
				p.InsertBefore(anchor, tag)
			}
			scoped.Dispose()
			tag.Remove()
		}
		p := anchor.Parent()
		if p == nil {
			return
		}

		name = want
		tag = makeElementAs(el, name)
		p.InsertBefore(tag, anchor)
		anchor.Remove()

		scoped = NewScopedContext(ctx, tag, nil)
		reactive.Untracked(func() {
			ctx.walker.Walk(tag, scoped)
		})
	})

	return next, true
}
