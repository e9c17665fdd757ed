package eval

import (
	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/builtin"
	"github.com/expr-lang/expr/parser"
)

const getFunc = "__get"

var builtinNames = func() map[string]bool {
	names := make(map[string]bool, len(builtin.Builtins))
	for _, fn := range builtin.Builtins {
		names[fn.Name] = true
	}
	return names
}()

// declared collects names introduced with let.
type declared map[string]bool

func (d declared) Visit(node *ast.Node) {
	if v, ok := (*node).(*ast.VariableDeclaratorNode); ok {
		d[v.Name] = true
	}
}

// letNames returns the names declared with let in src.
func letNames(src string) (declared, error) {
	tree, err := parser.Parse(src)
	if err != nil {
		return nil, err
	}
	d := declared{}
	ast.Walk(&tree.Node, d)
	return d, nil
}

// scopeReads rewrites every free identifier x into __get("x") so reads go
// through the Scope at run time. Builtin function callees are left alone.
//
// ast.Walk visits children first, so a builtin callee has already been
// rewritten when its call node is visited and is restored there.
type scopeReads struct {
	locals declared
}

func (p *scopeReads) Visit(node *ast.Node) {
	switch n := (*node).(type) {
	case *ast.IdentifierNode:
		if p.skip(n.Value) {
			return
		}
		ast.Patch(node, &ast.CallNode{
			Callee:    &ast.IdentifierNode{Value: getFunc},
			Arguments: []ast.Node{&ast.StringNode{Value: n.Value}},
		})
	case *ast.CallNode:
		if name, ok := scopeRead(n.Callee); ok && builtinNames[name] {
			n.Callee = &ast.IdentifierNode{Value: name}
		}
	}
}

func (p *scopeReads) skip(name string) bool {
	return name == getFunc || name == "$env" || p.locals[name]
}

// scopeRead reports whether n is a rewritten __get("name") call.
func scopeRead(n ast.Node) (string, bool) {
	call, ok := n.(*ast.CallNode)
	if !ok || len(call.Arguments) != 1 {
		return "", false
	}
	id, ok := call.Callee.(*ast.IdentifierNode)
	if !ok || id.Value != getFunc {
		return "", false
	}
	s, ok := call.Arguments[0].(*ast.StringNode)
	if !ok {
		return "", false
	}
	return s.Value, true
}
