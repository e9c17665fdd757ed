package bind

import (
	"strings"

	ucomerrors "github.com/ucom-dev/ucom/internal/errors"
	"github.com/ucom-dev/ucom/pkg/dom"
	"github.com/ucom-dev/ucom/pkg/reactive"
)

// voidMeta replaces a <meta> element with a <span> carrying its
// attributes.
func (w *Walker) voidMeta(el *dom.Node) *dom.Node {
	span := makeElementAs(el, "span")
	el.ReplaceWith(span)
	return span
}

// voidParam declares a scoped value from <param $name="expr">. With the
// computed attribute the value is a lazily computed, read-only key.
// Otherwise an effect keeps the key equal to the expression's value,
// defining it as a signal on first run when it does not exist yet.
func (w *Walker) voidParam(ctx *Context, el *dom.Node) *dom.Node {
	next := el.NextSibling()
	el.Remove()

	computed := el.HasAttribute("computed")
	var d Directive
	for _, a := range el.Attributes() {
		if strings.HasPrefix(a.Name, "$") && len(a.Name) > 1 {
			d = Directive{Key: "param", Modifier: a.Name[1:], Value: a.Value, attr: a.Name}
			break
		}
	}
	if d.Modifier == "" {
		w.logger.Warn("param has no name", "error", ucomerrors.New("E105"))
		return next
	}
	key := d.Modifier

	x, ok := ctx.compile(Directive{Key: d.Key, Value: d.Value, attr: "param " + d.attr})
	if !ok {
		return next
	}
	scope := ctx.Scope()

	if computed {
		c := reactive.NewComputed(func() any {
			v, _ := ctx.eval(d, x, scope)
			return v
		})
		if err := ctx.Data.DefineComputed(key, c); err != nil {
			ctx.logger(d).Error("param redefines a key",
				"error", ucomerrors.New("E102").Wrap(err))
		}
		return next
	}

	ctx.Effect("param "+d.attr, func() {
		v, ok := ctx.eval(d, x, scope)
		if !ok {
			return
		}
		if ctx.Data.Has(key) {
			if err := ctx.Data.Assign(key, v); err != nil {
				ctx.logger(d).Error("param assignment failed",
					"error", ucomerrors.New("E110").Wrap(err))
			}
			return
		}
		_ = ctx.Data.DefineSignal(key, reactive.NewSignal(v))
	})
	return next
}
