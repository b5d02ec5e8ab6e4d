package method

import (
	"fmt"
	"regexp"
)

// Name and description limits enforced at registration time.
const (
	minNameLen        = 2
	maxNameLen        = 100
	maxDescriptionLen = 1000
	maxParamDescLen   = 500
)

var identifierRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// reservedWords may not be used as method, parameter, or function names.
var reservedWords = map[string]struct{}{
	"break": {}, "case": {}, "chan": {}, "const": {}, "continue": {},
	"default": {}, "defer": {}, "else": {}, "fallthrough": {}, "for": {},
	"func": {}, "go": {}, "goto": {}, "if": {}, "import": {},
	"interface": {}, "map": {}, "package": {}, "range": {}, "return": {},
	"select": {}, "struct": {}, "switch": {}, "type": {}, "var": {},
}

// ValidationResult reports every structural defect found in one declaration.
type ValidationResult struct {
	MethodName string   `json:"method_name"`
	Valid      bool     `json:"valid"`
	Errors     []string `json:"errors"`
}

// AddError records a defect and marks the result invalid.
func (r *ValidationResult) AddError(format string, args ...any) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// Validate checks a single declaration for structural well-formedness.
// All rules are evaluated; every defect is accumulated so one call surfaces
// the complete list rather than stopping at the first error. Validate is a
// pure function: it never touches the registry or the store.
func Validate(d Declaration) ValidationResult {
	result := ValidationResult{MethodName: d.Name, Valid: true}

	validateName(&result, d.Name)
	validateDescription(&result, d.Description)
	validateLocator(&result, d.Locator)
	validateReturnKind(&result, d.ReturnKind)
	validateParameters(&result, d.Parameters)

	return result
}

// ValidateAll validates a batch of declarations and additionally detects
// name collisions across the batch. Each colliding declaration receives its
// own duplicate-name error.
func ValidateAll(decls []Declaration) []ValidationResult {
	seen := make(map[string]int, len(decls))
	for _, d := range decls {
		if d.Name != "" {
			seen[d.Name]++
		}
	}

	results := make([]ValidationResult, 0, len(decls))
	for _, d := range decls {
		result := Validate(d)
		if d.Name != "" && seen[d.Name] > 1 {
			result.AddError("duplicate method name %q in batch", d.Name)
		}
		results = append(results, result)
	}
	return results
}

func validateName(r *ValidationResult, name string) {
	if name == "" {
		r.AddError("method name is required and cannot be empty")
		return
	}
	if len(name) < minNameLen {
		r.AddError("method name %q is too short (minimum %d characters)", name, minNameLen)
	}
	if len(name) > maxNameLen {
		r.AddError("method name %q is too long (maximum %d characters)", name, maxNameLen)
	}
	if !isValidIdentifier(name) {
		r.AddError("method name %q is not a valid identifier or is a reserved word", name)
	}
}

func validateDescription(r *ValidationResult, desc string) {
	if desc == "" {
		r.AddError("method description is required and cannot be empty")
		return
	}
	if len(desc) > maxDescriptionLen {
		r.AddError("method description is too long (maximum %d characters, got %d)", maxDescriptionLen, len(desc))
	}
}

func validateLocator(r *ValidationResult, loc Locator) {
	if loc.ModulePath == "" {
		r.AddError("module path is required and cannot be empty")
	} else if !isValidModulePath(loc.ModulePath) {
		r.AddError("module path %q is not valid; expected dot-separated identifiers (e.g. tools.calculator)", loc.ModulePath)
	}

	if loc.FunctionName == "" {
		r.AddError("function name is required and cannot be empty")
	} else if !isValidIdentifier(loc.FunctionName) {
		r.AddError("function name %q is not a valid identifier", loc.FunctionName)
	}
}

func validateReturnKind(r *ValidationResult, kind Kind) {
	if kind == "" {
		r.AddError("return type is required and cannot be empty")
		return
	}
	if !KnownReturnKind(kind) {
		r.AddError("return type %q is not a recognized kind", kind)
	}
}

func validateParameters(r *ValidationResult, params []ParameterSchema) {
	seen := make(map[string]struct{}, len(params))

	for idx, p := range params {
		label := fmt.Sprintf("at index %d", idx)
		if p.Name != "" {
			label = fmt.Sprintf("%q", p.Name)
		}

		if p.Name == "" {
			r.AddError("parameter at index %d is missing required field 'name'", idx)
		} else {
			if _, dup := seen[p.Name]; dup {
				r.AddError("duplicate parameter name %q", p.Name)
			}
			seen[p.Name] = struct{}{}
			if !isValidIdentifier(p.Name) {
				r.AddError("parameter name %q is not a valid identifier", p.Name)
			}
		}

		if p.Kind == "" {
			r.AddError("parameter %s is missing required field 'type'", label)
		} else if !KnownParameterKind(p.Kind) {
			r.AddError("parameter %s has invalid type %q", label, p.Kind)
		}

		if p.Description == "" {
			r.AddError("parameter %s is missing required field 'description'", label)
		} else if len(p.Description) > maxParamDescLen {
			r.AddError("parameter %s description is too long (maximum %d characters, got %d)", label, maxParamDescLen, len(p.Description))
		}

		validateParameterDefault(r, p, label)
	}
}

// validateParameterDefault enforces the default-value invariant: a required
// parameter may not declare a default, and an optional default must be
// convertible to the declared kind.
func validateParameterDefault(r *ValidationResult, p ParameterSchema, label string) {
	if !p.HasDefault() {
		return
	}
	if p.Required {
		r.AddError("parameter %s is required and must not declare a default value", label)
		return
	}
	if !KnownParameterKind(p.Kind) {
		return // kind error already reported; nothing to check the default against
	}
	if _, err := Coerce(p.Default, p.Kind); err != nil {
		r.AddError("parameter %s default value %v is not valid for type %q", label, p.Default, p.Kind)
	}
}

func isValidIdentifier(name string) bool {
	if !identifierRe.MatchString(name) {
		return false
	}
	_, reserved := reservedWords[name]
	return !reserved
}

// isValidModulePath reports whether path is a dot-separated sequence of
// valid identifiers with no empty components.
func isValidModulePath(path string) bool {
	start := 0
	for i := 0; i <= len(path); i++ {
		if i == len(path) || path[i] == '.' {
			if !isValidIdentifier(path[start:i]) {
				return false
			}
			start = i + 1
		}
	}
	return true
}
