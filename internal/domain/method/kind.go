package method

import "strings"

// Kind is the declared type of a parameter or return value.
type Kind string

// Canonical parameter kinds. Declarations may use the aliases below
// (str, int, number, bool, dict, list); NormalizeKind folds them into
// the canonical set.
const (
	KindString  Kind = "string"
	KindInteger Kind = "integer"
	KindFloat   Kind = "float"
	KindBoolean Kind = "boolean"
	KindObject  Kind = "object"
	KindArray   Kind = "array"

	// Return-only kinds.
	KindNone Kind = "none"
	KindAny  Kind = "any"
)

// kindAliases maps accepted spellings onto canonical kinds.
var kindAliases = map[string]Kind{
	"string":  KindString,
	"str":     KindString,
	"integer": KindInteger,
	"int":     KindInteger,
	"float":   KindFloat,
	"number":  KindFloat,
	"boolean": KindBoolean,
	"bool":    KindBoolean,
	"object":  KindObject,
	"dict":    KindObject,
	"array":   KindArray,
	"list":    KindArray,
	"none":    KindNone,
	"null":    KindNone,
	"any":     KindAny,
}

// NormalizeKind folds an alias spelling into its canonical kind.
// Unknown spellings are returned lowercased and unchanged so callers can
// decide whether to reject them (validator) or pass values through (coercion).
func NormalizeKind(s string) Kind {
	lower := strings.ToLower(strings.TrimSpace(s))
	if k, ok := kindAliases[lower]; ok {
		return k
	}
	return Kind(lower)
}

// KnownParameterKind reports whether k names a kind a parameter may declare.
func KnownParameterKind(k Kind) bool {
	switch NormalizeKind(string(k)) {
	case KindString, KindInteger, KindFloat, KindBoolean, KindObject, KindArray:
		return true
	}
	return false
}

// KnownReturnKind reports whether k names a kind a declaration may return.
// The return kind set is the parameter set extended with none and any.
func KnownReturnKind(k Kind) bool {
	if KnownParameterKind(k) {
		return true
	}
	switch NormalizeKind(string(k)) {
	case KindNone, KindAny:
		return true
	}
	return false
}
