package bind

import (
	ucomerrors "github.com/ucom-dev/ucom/internal/errors"
	"github.com/ucom-dev/ucom/pkg/dom"
)

// bindText keeps el's text content equal to the expression's value.
func bindText(ctx *Context, el *dom.Node, d Directive) {
	x, ok := ctx.compile(d)
	if !ok {
		return
	}
	scope := ctx.Scope()
	ctx.Effect(d.Name(), func() {
		if v, ok := ctx.eval(d, x, scope); ok {
			el.SetTextContent(stringify(v))
		}
	})
}

// bindHTML replaces el's children with the expression's value parsed as
// HTML. The value is sanitized when the walker has a policy.
func bindHTML(ctx *Context, el *dom.Node, d Directive) {
	x, ok := ctx.compile(d)
	if !ok {
		return
	}
	scope := ctx.Scope()
	policy := ctx.walker.policy
	ctx.Effect(d.Name(), func() {
		v, ok := ctx.eval(d, x, scope)
		if !ok {
			return
		}
		src := stringify(v)
		if policy != nil {
			src = policy.Sanitize(src)
		}
		if err := el.SetInnerHTML(src); err != nil {
			ctx.logger(d).Error("html binding failed",
				"error", ucomerrors.New("E110").Wrap(err))
		}
	})
}
