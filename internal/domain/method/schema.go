package method

import (
	"encoding/json"
	"fmt"
	"time"
)

// ParameterSchema describes one declared argument of a method.
type ParameterSchema struct {
	Name        string `json:"name"`
	Kind        Kind   `json:"type"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
	Default     any    `json:"default,omitempty"`
}

// HasDefault reports whether the parameter carries a default value.
// A nil default and an absent default are the same thing: at call time the
// parameter is simply omitted when the caller does not supply it.
func (p ParameterSchema) HasDefault() bool {
	return p.Default != nil
}

// Locator identifies where a declaration's executable code lives:
// a dot-separated module path plus a function name within that module.
type Locator struct {
	ModulePath   string `json:"module_path"`
	FunctionName string `json:"function_name"`
}

func (l Locator) String() string {
	return l.ModulePath + "." + l.FunctionName
}

// Declaration is the registered description of a method. It is validated once
// before persistence and immutable afterwards; re-registration under the same
// name replaces the whole declaration.
type Declaration struct {
	ID          string
	Name        string
	Description string
	Parameters  []ParameterSchema
	ReturnKind  Kind
	Locator     Locator
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Parameter returns the declared parameter with the given name, if any.
func (d *Declaration) Parameter(name string) (ParameterSchema, bool) {
	for _, p := range d.Parameters {
		if p.Name == name {
			return p, true
		}
	}
	return ParameterSchema{}, false
}

// EncodeParameters serializes the parameter list for the parameters_json
// column of the declaration store.
func EncodeParameters(params []ParameterSchema) (string, error) {
	raw, err := json.Marshal(params)
	if err != nil {
		return "", fmt.Errorf("encode parameters: %w", err)
	}
	return string(raw), nil
}

// DecodeParameters deserializes a parameters_json column value.
// An empty value decodes to no parameters.
func DecodeParameters(raw string) ([]ParameterSchema, error) {
	if raw == "" || raw == "null" {
		return nil, nil
	}
	var params []ParameterSchema
	if err := json.Unmarshal([]byte(raw), &params); err != nil {
		return nil, fmt.Errorf("decode parameters: %w", err)
	}
	return params, nil
}
