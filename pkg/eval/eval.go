package eval

import (
	"regexp"
	"strings"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// compileEnv declares the helper functions every program may call.
var compileEnv = map[string]any{
	getFunc: (func(string) any)(nil),
}

// Expression is a compiled expression or statement list.
type Expression struct {
	Source string
	stmts  []statement
}

type statement struct {
	target  string // assignment target, "" for a plain expression
	program *vm.Program
}

// Compiler compiles and caches expressions.
type Compiler struct {
	cache sync.Map // source -> *Expression
}

// NewCompiler creates a Compiler with an empty cache.
func NewCompiler() *Compiler {
	return &Compiler{}
}

var defaultCompiler = NewCompiler()

// Compile compiles src with the package-level cache.
func Compile(src string) (*Expression, error) {
	return defaultCompiler.Compile(src)
}

// Eval compiles src with the package-level cache and evaluates it in scope.
func Eval(src string, scope Scope) (any, error) {
	x, err := Compile(src)
	if err != nil {
		return nil, err
	}
	return x.Eval(scope)
}

// Compile compiles src. Results are cached by source text; failures are not.
func (c *Compiler) Compile(src string) (*Expression, error) {
	if v, ok := c.cache.Load(src); ok {
		return v.(*Expression), nil
	}

	parts := splitStatements(src)
	if len(parts) == 0 {
		return nil, &Error{Expr: src, Err: errEmpty}
	}

	x := &Expression{Source: src}
	for _, part := range parts {
		target, body := rewriteAssignment(part)
		program, err := compileProgram(body)
		if err != nil {
			return nil, &Error{Expr: src, Err: err}
		}
		x.stmts = append(x.stmts, statement{target: target, program: program})
	}

	actual, _ := c.cache.LoadOrStore(src, x)
	return actual.(*Expression), nil
}

func compileProgram(body string) (*vm.Program, error) {
	locals, err := letNames(body)
	if err != nil {
		return nil, err
	}
	return expr.Compile(body,
		expr.Env(compileEnv),
		expr.AllowUndefinedVariables(),
		expr.Patch(&scopeReads{locals: locals}),
	)
}

// Eval runs every statement in order and returns the value of the last one.
// An assignment evaluates to the assigned value.
func (x *Expression) Eval(scope Scope) (any, error) {
	env := map[string]any{
		getFunc: func(name string) any {
			v, _ := scope.Lookup(name)
			return v
		},
	}

	var result any
	for _, st := range x.stmts {
		v, err := expr.Run(st.program, env)
		if err != nil {
			return nil, &Error{Expr: x.Source, Err: err}
		}
		if st.target != "" {
			if err := scope.Assign(st.target, v); err != nil {
				return nil, &Error{Expr: x.Source, Err: err}
			}
		}
		result = v
	}
	return result, nil
}

// Bool evaluates x and reports whether the result is truthy.
func (x *Expression) Bool(scope Scope) (bool, error) {
	v, err := x.Eval(scope)
	if err != nil {
		return false, err
	}
	return Truthy(v), nil
}

var (
	assignRE    = regexp.MustCompile(`^\s*([A-Za-z_$][A-Za-z0-9_$]*)\s*(\+=|-=|\*=|/=|=)(.*)$`)
	incrementRE = regexp.MustCompile(`^\s*([A-Za-z_$][A-Za-z0-9_$]*)\s*(\+\+|--)\s*$`)
	strictEqRE  = regexp.MustCompile(`([=!])==`)
)

// rewriteAssignment splits an assignment statement into its target and the
// expression producing the new value.
func rewriteAssignment(stmt string) (target, body string) {
	stmt = replaceOutsideStrings(stmt, func(s string) string {
		return strictEqRE.ReplaceAllString(s, "$1=")
	})

	if m := incrementRE.FindStringSubmatch(stmt); m != nil {
		return m[1], m[1] + " " + m[2][:1] + " 1"
	}
	if m := assignRE.FindStringSubmatch(stmt); m != nil {
		rhs := m[3]
		if m[2] == "=" && strings.HasPrefix(rhs, "=") {
			return "", stmt
		}
		if m[2] == "=" {
			return m[1], strings.TrimSpace(rhs)
		}
		return m[1], m[1] + " " + m[2][:1] + " (" + strings.TrimSpace(rhs) + ")"
	}
	return "", strings.TrimSpace(stmt)
}

// splitStatements splits src on top-level semicolons. Quoted strings and
// bracketed groups are kept intact. Empty statements are dropped.
func splitStatements(src string) []string {
	var (
		out   []string
		depth int
		quote rune
		start int
	)
	runes := []rune(src)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case quote != 0:
			if r == '\\' {
				i++
			} else if r == quote {
				quote = 0
			}
		case r == '"' || r == '\'' || r == '`':
			quote = r
		case r == '(' || r == '[' || r == '{':
			depth++
		case r == ')' || r == ']' || r == '}':
			depth--
		case r == ';' && depth == 0:
			if s := strings.TrimSpace(string(runes[start:i])); s != "" {
				out = append(out, s)
			}
			start = i + 1
		}
	}
	if s := strings.TrimSpace(string(runes[start:])); s != "" {
		out = append(out, s)
	}

	// let declarations scope over the rest of the source.
	for i, s := range out {
		if strings.HasPrefix(s, "let ") {
			return append(out[:i:i], strings.Join(out[i:], "; "))
		}
	}
	return out
}

// replaceOutsideStrings applies fn to the parts of s outside quoted strings.
func replaceOutsideStrings(s string, fn func(string) string) string {
	var (
		sb    strings.Builder
		quote rune
		start int
	)
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if quote != 0 {
			if r == '\\' {
				i++
			} else if r == quote {
				quote = 0
				sb.WriteString(string(runes[start : i+1]))
				start = i + 1
			}
			continue
		}
		if r == '"' || r == '\'' || r == '`' {
			sb.WriteString(fn(string(runes[start:i])))
			start = i
			quote = r
		}
	}
	if quote != 0 {
		sb.WriteString(string(runes[start:]))
	} else {
		sb.WriteString(fn(string(runes[start:])))
	}
	return sb.String()
}
