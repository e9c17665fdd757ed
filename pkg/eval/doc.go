// Package eval compiles and evaluates directive expressions.
//
// Expressions use the expr-lang/expr language. Every free identifier is read
// through a Scope, so evaluating an expression inside an effect subscribes
// the effect to exactly the values it reads:
//
//	x, err := eval.Compile("done ? 'Done' : count + ' left'")
//	v, err := x.Eval(data)
//
// Statements for event handlers may assign to scope names and may be
// separated by semicolons:
//
//	count++; last = event.Detail
//
// Supported assignment forms are name = v, name += v, name -= v,
// name *= v, name /= v, name++ and name--. The strict comparison operators
// === and !== are accepted as aliases of == and !=.
//
// Compiled expressions are cached by source text and are safe for
// concurrent use.
package eval
