// Package errors provides coded, actionable errors for ucom.
//
// Every runtime diagnostic the directive walker, the store and the component
// manager emit carries a code (e.g. "E110") that maps to a short message and
// a longer explanation. The CLI check command prints them with source
// context:
//
//	err := errors.New("E110").
//	    WithLocation("components/todo-list.html", 12, 0).
//	    WithSuggestion("Check the spelling of the store key")
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR E110: Expression failed
//	//
//	//   components/todo-list.html:12
//	//   ...
//
// # Error Categories
//
//   - directive: malformed or misplaced directive attributes
//   - expression: expressions that fail to compile or evaluate
//   - store: data store definition errors
//   - component: definition, import and fetch failures
//   - persist: storage backend failures
//   - config: ucom.json problems
//   - cli: command line usage
//
// Errors implement slog.LogValuer so they log as a group of code, category
// and message attributes.
package errors
