package bind

import (
	"log/slog"

	"github.com/microcosm-cc/bluemonday"

	ucomerrors "github.com/ucom-dev/ucom/internal/errors"
	"github.com/ucom-dev/ucom/pkg/dom"
	"github.com/ucom-dev/ucom/pkg/eval"
)

// DefaultPrefix is the directive attribute prefix.
const DefaultPrefix = "u"

// binder binds one directive on el.
type binder func(ctx *Context, el *dom.Node, d Directive)

// Walker interprets directives.
type Walker struct {
	prefix   string
	logger   *slog.Logger
	policy   *bluemonday.Policy
	compiler *eval.Compiler
	binders  map[string]binder
}

// WalkerOption configures a Walker.
type WalkerOption func(*Walker)

// WithPrefix sets the directive prefix. The default is "u".
func WithPrefix(prefix string) WalkerOption {
	return func(w *Walker) {
		w.prefix = prefix
	}
}

// WithLogger sets the walker logger.
func WithLogger(l *slog.Logger) WalkerOption {
	return func(w *Walker) {
		w.logger = l
	}
}

// WithSanitizer sanitizes every value bound with the html directive.
func WithSanitizer(p *bluemonday.Policy) WalkerOption {
	return func(w *Walker) {
		w.policy = p
	}
}

// WithCompiler sets the expression compiler.
func WithCompiler(c *eval.Compiler) WalkerOption {
	return func(w *Walker) {
		w.compiler = c
	}
}

// NewWalker creates a Walker.
func NewWalker(opts ...WalkerOption) *Walker {
	w := &Walker{
		prefix:   DefaultPrefix,
		logger:   slog.Default(),
		compiler: eval.NewCompiler(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.binders = map[string]binder{
		"text": bindText,
		"html": bindHTML,
		"bind": bindAttr,
		"on":   bindEvent,
		"ref":  bindRef,
	}
	return w
}

// Prefix returns the directive prefix.
func (w *Walker) Prefix() string { return w.prefix }

// Compiler returns the expression compiler.
func (w *Walker) Compiler() *eval.Compiler { return w.compiler }

// Walk binds node and its subtree, and returns the node to visit next.
// Non-element nodes are skipped.
func (w *Walker) Walk(node *dom.Node, ctx *Context) *dom.Node {
	if node.Type != dom.ElementNode || ctx == nil {
		return node.NextSibling()
	}

	switch node.Tag {
	case "meta":
		return w.Walk(w.voidMeta(node), ctx)
	case "param":
		return w.voidParam(ctx, node)
	}

	if d, ok := w.pull(node, "show"); ok {
		bindShow(ctx, node, d)
	}
	if d, ok := w.pull(node, "for"); ok {
		return bindFor(ctx, node, d)
	}
	if d, ok := w.pull(node, "is"); ok {
		if next, handled := bindIs(ctx, node, d); handled {
			return next
		}
	}

	for _, a := range node.Attributes() {
		d, ok := ParseDirective(w.prefix, a.Name, a.Value)
		if !ok {
			continue
		}
		b, ok := w.binders[d.Key]
		if !ok {
			continue
		}
		node.RemoveAttribute(a.Name)
		b(ctx, node, d)
	}

	// Template content is bound only when instantiated.
	if node.Tag != "template" {
		w.WalkChildren(node, ctx)
	}
	return node.NextSibling()
}

// WalkChildren binds every child of node.
func (w *Walker) WalkChildren(node *dom.Node, ctx *Context) {
	child := node.FirstChild()
	for child != nil {
		child = w.Walk(child, ctx)
	}
}

// Bind binds the children of the context root.
func (w *Walker) Bind(root *dom.Node, ctx *Context) {
	w.WalkChildren(root, ctx)
}

// pull removes the directive attribute prefix-key from el and returns it.
func (w *Walker) pull(el *dom.Node, key string) (Directive, bool) {
	name := w.prefix + "-" + key
	v, ok := el.Attr(name)
	if !ok {
		return Directive{}, false
	}
	el.RemoveAttribute(name)
	return Directive{Key: key, Value: v, attr: name}, true
}

// compile compiles the directive's expression, logging failures.
func (ctx *Context) compile(d Directive) (*eval.Expression, bool) {
	src := d.Expr()
	if src == "" {
		ctx.logger(d).Warn("directive has no value",
			"error", ucomerrors.New("E103").WithDetail(d.Name()))
		return nil, false
	}
	x, err := ctx.walker.compiler.Compile(src)
	if err != nil {
		ctx.logger(d).Error("expression failed",
			"error", ucomerrors.New("E110").Wrap(err))
		return nil, false
	}
	return x, true
}

// eval evaluates x in scope, logging failures.
func (ctx *Context) eval(d Directive, x *eval.Expression, scope eval.Scope) (any, bool) {
	v, err := x.Eval(scope)
	if err != nil {
		ctx.logger(d).Error("expression failed",
			"error", ucomerrors.New("E110").Wrap(err))
		return nil, false
	}
	return v, true
}

// makeElementAs returns a new tag element carrying el's attributes and
// content.
func makeElementAs(el *dom.Node, tag string) *dom.Node {
	n := dom.NewElement(tag)
	for _, a := range el.Attributes() {
		n.SetAttribute(a.Name, a.Value)
	}
	var content *dom.Node
	if el.Tag == "template" {
		content = el.TemplateContent()
	} else {
		content = dom.NewFragment()
		for _, c := range el.ChildNodes() {
			content.AppendChild(c.Clone(true))
		}
	}
	n.AppendChild(content)
	return n
}
