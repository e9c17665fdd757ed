package bind

import (
	"regexp"
	"strings"

	ucomerrors "github.com/ucom-dev/ucom/internal/errors"
	"github.com/ucom-dev/ucom/pkg/dom"
	"github.com/ucom-dev/ucom/pkg/reactive"
)

var (
	forAliasRE    = regexp.MustCompile(`(?s)^(.*?)\s+(?:in|of)\s+(.*)$`)
	forIteratorRE = regexp.MustCompile(`,([^,}\]]*)(?:,([^,}\]]*))?$`)
	stripParensRE = regexp.MustCompile(`^\(|\)$`)
	destructureRE = regexp.MustCompile(`^[{\[]\s*((?:[\w$]+\s*,?\s*)+)[\]}]$`)
)

// defaultIndexAs is the index name when the loop does not declare one.
const defaultIndexAs = "index"

// loopSpec is a parsed for expression.
type loopSpec struct {
	items    string
	item     string
	index    string
	bindings []string
	byIndex  bool
}

// parseLoop parses "item in items", "(item, i) of items", "{a, b} in items"
// and "[a, b] in items".
func parseLoop(src string) (loopSpec, bool) {
	m := forAliasRE.FindStringSubmatch(src)
	if m == nil {
		return loopSpec{}, false
	}
	spec := loopSpec{
		items: strings.TrimSpace(m[2]),
		index: defaultIndexAs,
	}
	alias := strings.TrimSpace(stripParensRE.ReplaceAllString(strings.TrimSpace(m[1]), ""))

	if im := forIteratorRE.FindStringSubmatch(alias); im != nil {
		alias = strings.TrimSpace(forIteratorRE.ReplaceAllString(alias, ""))
		spec.index = strings.TrimSpace(im[1])
	}
	if dm := destructureRE.FindStringSubmatch(alias); dm != nil {
		for _, b := range strings.Split(dm[1], ",") {
			if b = strings.TrimSpace(b); b != "" {
				spec.bindings = append(spec.bindings, b)
			}
		}
		spec.byIndex = alias[0] == '['
	}
	spec.item = alias

	if spec.items == "" || (spec.item == "" && spec.bindings == nil) {
		return loopSpec{}, false
	}
	return spec, true
}

// locals returns the scope values of one iteration.
func (s loopSpec) locals(item any, index int) map[string]any {
	out := map[string]any{s.index: index}
	if s.bindings == nil {
		out[s.item] = item
		return out
	}
	for i, b := range s.bindings {
		out[b] = field(item, b, i, s.byIndex)
	}
	return out
}

// bindFor replaces el with one copy per item, rebuilt from scratch on every
// change. A template contributes each of its element children per item.
// Copies live between two comment markers.
func bindFor(ctx *Context, el *dom.Node, d Directive) *dom.Node {
	next := el.NextSibling()

	spec, ok := parseLoop(d.Value)
	if !ok {
		ctx.logger(d).Warn("invalid loop expression",
			"error", ucomerrors.New("E104").WithDetail(d.Value))
		return next
	}
	parent := el.Parent()
	if parent == nil {
		ctx.logger(d).Warn("loop element has no parent",
			"error", ucomerrors.New("E121"))
		return next
	}
	x, ok := ctx.compile(Directive{Key: d.Key, Value: spec.items, attr: d.attr})
	if !ok {
		return next
	}
	scope := ctx.Scope()

	isTemplate := el.Tag == "template"
	tpl := el.Clone(true)

	start := dom.NewComment(d.Name())
	end := dom.NewComment("/" + d.Name())
	parent.InsertBefore(start, el)
	el.ReplaceWith(end)

	var scopes []*Context
	ctx.Effect(d.Name(), func() {
		for _, s := range scopes {
			s.Dispose()
		}
		scopes = scopes[:0]
		for n := start.NextSibling(); n != nil && n != end; {
			following := n.NextSibling()
			n.Remove()
			n = following
		}

		v, ok := ctx.eval(d, x, scope)
		if !ok {
			return
		}

		p := end.Parent()
		if p == nil {
			return
		}
		reactive.Untracked(func() {
			for i, item := range iterate(v) {
				var nodes []*dom.Node
				if isTemplate {
					nodes = tpl.TemplateContent().Children()
				} else {
					nodes = []*dom.Node{tpl.Clone(true)}
				}
				for _, n := range nodes {
					p.InsertBefore(n, end)
					scoped := NewScopedContext(ctx, n, spec.locals(item, i))
					scopes = append(scopes, scoped)
					ctx.walker.Walk(n, scoped)
				}
			}
		})
	})

	return next
}
