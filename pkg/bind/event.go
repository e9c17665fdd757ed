package bind

import (
	"fmt"

	ucomerrors "github.com/ucom-dev/ucom/internal/errors"
	"github.com/ucom-dev/ucom/pkg/dom"
	"github.com/ucom-dev/ucom/pkg/eval"
)

// bindEvent runs the statement on every event named by the modifier. The
// event is in scope as event and $event. When the statement yields a
// function, it is called with the event.
func bindEvent(ctx *Context, el *dom.Node, d Directive) {
	if d.Modifier == "" {
		ctx.logger(d).Warn("on needs an event name",
			"error", ucomerrors.New("E101").WithSuggestion("Write "+ctx.walker.prefix+"-on:click=\"...\" or @click=\"...\""))
		return
	}
	x, ok := ctx.compile(d)
	if !ok {
		return
	}
	scope := ctx.Scope()
	log := ctx.logger(d)

	remove := el.AddEventListener(d.Modifier, func(ev *dom.Event) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("event handler failed",
					"event", d.Modifier,
					"error", ucomerrors.New("E111").WithDetail(fmt.Sprint(r)))
			}
		}()

		locals := eval.Overlay{Parent: scope, Locals: map[string]any{"event": ev, "$event": ev}}
		v, err := x.Eval(locals)
		if err != nil {
			log.Error("event handler failed",
				"event", d.Modifier,
				"error", ucomerrors.New("E111").Wrap(err))
			return
		}
		if v != nil {
			invoke(v, ev)
		}
	})
	ctx.OnCleanup(remove)
}

// bindRef records el under the directive's value in the context refs, or
// in the global refs with the global modifier.
func bindRef(ctx *Context, el *dom.Node, d Directive) {
	if d.Value == "" {
		ctx.logger(d).Warn("ref has no name",
			"error", ucomerrors.New("E103").WithDetail(d.Name()))
		return
	}
	refs := ctx.Refs
	if d.Modifier == "global" {
		refs = ctx.registry.GlobalRefs()
	}
	refs.Set(d.Value, el)
}
