package bind

import (
	"strings"

	ucomerrors "github.com/ucom-dev/ucom/internal/errors"
	"github.com/ucom-dev/ucom/pkg/dom"
)

// structural directives are pulled by the walker before the binders run.
var structural = map[string]bool{
	"show": true,
	"for":  true,
	"is":   true,
}

// Problem is one issue found by Check.
type Problem struct {
	// Tag is the element the problem was found on.
	Tag string
	// Attr and Value are the offending attribute. Attr is empty for
	// problems of the element itself.
	Attr  string
	Value string

	Err *ucomerrors.Error
}

// Check reports the problems binding root would log, without binding it.
// Directive syntax is validated and every expression is compiled. Template
// content is checked as well. Problems are in document order.
func (w *Walker) Check(root *dom.Node) []Problem {
	var problems []Problem
	var visit func(n *dom.Node)
	visit = func(n *dom.Node) {
		for _, c := range n.ChildNodes() {
			if c.Type != dom.ElementNode {
				continue
			}
			problems = append(problems, w.checkElement(c)...)
			visit(c)
		}
	}
	visit(root)
	return problems
}

func (w *Walker) checkElement(el *dom.Node) []Problem {
	var problems []Problem
	report := func(attr, value string, errs ...*ucomerrors.Error) {
		for _, err := range errs {
			problems = append(problems, Problem{Tag: el.Tag, Attr: attr, Value: value, Err: err})
		}
	}

	if el.Tag == "param" {
		named := false
		for _, a := range el.Attributes() {
			if strings.HasPrefix(a.Name, "$") && len(a.Name) > 1 {
				named = true
				report(a.Name, a.Value, w.checkExpr(Directive{Key: "param", Value: a.Value, attr: a.Name})...)
				break
			}
		}
		if !named {
			report("", "", ucomerrors.New("E105"))
		}
		return problems
	}

	for _, a := range el.Attributes() {
		d, ok := ParseDirective(w.prefix, a.Name, a.Value)
		if !ok {
			continue
		}
		switch {
		case d.Key == "for":
			spec, ok := parseLoop(d.Value)
			if !ok {
				report(a.Name, a.Value, ucomerrors.New("E104").WithDetail(d.Name()+`="`+d.Value+`"`))
				continue
			}
			report(a.Name, a.Value, w.checkExpr(Directive{Key: d.Key, Value: spec.items, attr: d.attr})...)
		case d.Key == "is":
			if el.Tag != "template" {
				report(a.Name, a.Value, ucomerrors.New("E120").
					WithSuggestion("Move "+d.Name()+" onto a <template> element"))
				continue
			}
			report(a.Name, a.Value, w.checkExpr(d)...)
		case d.Key == "show-enter" || d.Key == "show-leave":
		case d.Key == "ref":
			if strings.TrimSpace(d.Value) == "" {
				report(a.Name, a.Value, ucomerrors.New("E103").WithDetail(d.Name()))
			}
		case structural[d.Key]:
			report(a.Name, a.Value, w.checkExpr(d)...)
		default:
			if _, ok := w.binders[d.Key]; !ok {
				report(a.Name, a.Value, ucomerrors.New("E101").WithDetail("unknown directive "+d.Name()))
				continue
			}
			if (d.Key == "on" || d.Key == "bind") && d.Modifier == "" {
				report(a.Name, a.Value, ucomerrors.New("E101").WithDetail(d.Name()+" needs a name after the colon"))
				continue
			}
			report(a.Name, a.Value, w.checkExpr(d)...)
		}
	}
	return problems
}

func (w *Walker) checkExpr(d Directive) []*ucomerrors.Error {
	src := d.Expr()
	if strings.TrimSpace(src) == "" {
		return []*ucomerrors.Error{ucomerrors.New("E103").WithDetail(d.Name())}
	}
	if _, err := w.compiler.Compile(src); err != nil {
		return []*ucomerrors.Error{ucomerrors.New("E110").WithDetail(d.Name()).Wrap(err)}
	}
	return nil
}
