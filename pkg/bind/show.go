package bind

import (
	"strings"

	"github.com/ucom-dev/ucom/pkg/dom"
	"github.com/ucom-dev/ucom/pkg/eval"
)

// bindShow toggles display:none on el. With prefix-show-enter and
// prefix-show-leave class lists, the classes are swapped on every change
// and hiding waits for the element's transitionend or animationend.
func bindShow(ctx *Context, el *dom.Node, d Directive) {
	x, ok := ctx.compile(d)
	if !ok {
		return
	}
	scope := ctx.Scope()

	display := el.StyleProperty("display")
	visible := display != "none"
	if display == "none" {
		display = ""
	}

	enter := pullClasses(el, ctx.walker.prefix+"-show-enter")
	leave := pullClasses(el, ctx.walker.prefix+"-show-leave")

	var cancel func()
	stopWaiting := func() {
		if cancel != nil {
			cancel()
			cancel = nil
		}
	}
	ctx.OnCleanup(stopWaiting)

	show := func() {
		if display == "" {
			el.RemoveStyleProperty("display")
		} else {
			el.SetStyleProperty("display", display)
		}
		visible = true
	}
	hide := func() {
		el.SetStyleProperty("display", "none")
		visible = false
	}

	first := true
	ctx.Effect(d.Name(), func() {
		v, ok := ctx.eval(d, x, scope)
		if !ok {
			return
		}
		initial := first
		first = false
		stopWaiting()

		if eval.Truthy(v) {
			show()
			if len(enter) > 0 {
				el.RemoveClass(leave...)
				el.AddClass(enter...)
			}
			return
		}

		if len(leave) == 0 {
			hide()
			return
		}
		el.RemoveClass(enter...)
		el.AddClass(leave...)
		if initial || !visible {
			hide()
			return
		}

		var removers []func()
		done := func(*dom.Event) {
			stopWaiting()
			hide()
		}
		removers = append(removers,
			el.AddEventListener("transitionend", done),
			el.AddEventListener("animationend", done))
		cancel = func() {
			for _, r := range removers {
				r()
			}
		}
	})
}

func pullClasses(el *dom.Node, name string) []string {
	v, ok := el.Attr(name)
	if !ok {
		return nil
	}
	el.RemoveAttribute(name)
	return strings.Fields(v)
}
