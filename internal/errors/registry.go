package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Definition Errors (E101-E109)
	// ============================================

	"E101": {
		Category: CategoryDirective,
		Message:  "Malformed directive",
		Detail:   "The directive attribute could not be parsed. The directive is skipped and the element is left as written.",
	},
	"E102": {
		Category: CategoryStore,
		Message:  "Duplicate store key",
		Detail:   "A component store key may be defined only once. The first definition is kept; props, methods and store entries share one namespace.",
	},
	"E103": {
		Category: CategoryDirective,
		Message:  "Missing directive value",
		Detail:   "The directive requires an expression or a name but its value is empty.",
	},
	"E104": {
		Category: CategoryDirective,
		Message:  "Invalid loop expression",
		Detail:   "A loop directive must have the form \"item in items\", \"(item, index) in items\" or \"{a, b} of items\".",
	},
	"E105": {
		Category: CategoryDirective,
		Message:  "Parameter has no name",
		Detail:   "A <param> element declares a value with a $name attribute, e.g. <param $total=\"a + b\">.",
	},

	// ============================================
	// Expression Errors (E110-E119)
	// ============================================

	"E110": {
		Category: CategoryExpression,
		Message:  "Expression failed",
		Detail:   "The expression failed to compile or evaluate. The previous output is kept and the expression is retried when one of its inputs changes.",
	},
	"E111": {
		Category: CategoryExpression,
		Message:  "Event handler failed",
		Detail:   "The statement bound to an event listener failed while handling the event.",
	},

	// ============================================
	// Structural Errors (E120-E129)
	// ============================================

	"E120": {
		Category: CategoryDirective,
		Message:  "Dynamic tag directive on a non-template element",
		Detail:   "The is directive may only be placed on a <template> element. The directive is ignored.",
	},
	"E121": {
		Category: CategoryDirective,
		Message:  "Loop directive without a parent",
		Detail:   "A loop element must have a parent node to anchor the rendered items. The directive is ignored.",
	},

	// ============================================
	// Persistence Errors (E130-E139)
	// ============================================

	"E130": {
		Category: CategoryPersist,
		Message:  "Persisted value could not be read",
		Detail:   "The storage backend failed or returned a value that is not valid JSON. The default value is used instead.",
	},
	"E131": {
		Category: CategoryPersist,
		Message:  "Persisted value could not be written",
		Detail:   "The storage backend rejected the write or the value could not be encoded as JSON.",
	},

	// ============================================
	// Component Errors (E201-E219)
	// ============================================

	"E201": {
		Category: CategoryComponent,
		Message:  "Component fetch failed",
		Detail:   "The template could not be loaded: the request failed, the response was not text/html, or the content is a full document starting with <!DOCTYPE.",
	},
	"E202": {
		Category: CategoryComponent,
		Message:  "Declarative shadow DOM template not allowed",
		Detail:   "A component template must not contain <template shadowrootmode>. The component manager attaches the shadow root itself.",
	},
	"E203": {
		Category: CategoryComponent,
		Message:  "Component script failed",
		Detail:   "The script evaluator could not produce a module for the component.",
	},
	"E204": {
		Category: CategoryComponent,
		Message:  "Invalid component name",
		Detail:   "Custom element names must contain a hyphen and start with a lowercase letter.",
	},
	"E205": {
		Category: CategoryComponent,
		Message:  "Component not defined",
		Detail:   "No definition is registered under this name. Define or import it first.",
	},
	"E206": {
		Category: CategoryComponent,
		Message:  "Plugin failed",
		Detail:   "A plugin rejected the component while parsing its template or defining its class.",
	},

	// ============================================
	// Config Errors (E301-E309)
	// ============================================

	"E301": {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
		Detail:   "ucom.json could not be parsed or contains invalid values.",
	},
	"E302": {
		Category: CategoryConfig,
		Message:  "Unknown persistence backend",
		Detail:   "persist.backend must be one of memory, sqlite, postgres, mysql or s3.",
	},

	// ============================================
	// CLI Errors (E401-E409)
	// ============================================

	"E401": {
		Category: CategoryCLI,
		Message:  "Component directory not found",
		Detail:   "The directory holding component templates does not exist. Set components.dir in ucom.json or pass a directory argument.",
	},
}

// GetAllCodes returns all registered error codes in order.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
