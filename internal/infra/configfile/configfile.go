// Package configfile loads method declarations from registration config
// files. Both JSON and YAML are supported; the format is detected from the
// file extension (.json, .yaml, .yml).
package configfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/y149604146/qwen-agent-scheduler/internal/domain/method"
)

// ErrConfig is wrapped by every failure loading or parsing a config file.
var ErrConfig = errors.New("configuration error")

// methodsFile is the on-disk shape of a registration config.
type methodsFile struct {
	Methods []methodEntry `json:"methods" yaml:"methods"`
}

type methodEntry struct {
	Name         string           `json:"name" yaml:"name"`
	Description  string           `json:"description" yaml:"description"`
	Parameters   []parameterEntry `json:"parameters" yaml:"parameters"`
	ReturnType   string           `json:"return_type" yaml:"return_type"`
	ModulePath   string           `json:"module_path" yaml:"module_path"`
	FunctionName string           `json:"function_name" yaml:"function_name"`
}

type parameterEntry struct {
	Name        string `json:"name" yaml:"name"`
	Type        string `json:"type" yaml:"type"`
	Description string `json:"description" yaml:"description"`
	Required    *bool  `json:"required" yaml:"required"`
	Default     any    `json:"default" yaml:"default"`
}

// LoadMethods reads a registration config file and returns the declared
// methods, unvalidated: the metadata validator is the registration gate, so
// this loader only deals with file syntax.
func LoadMethods(path string) ([]method.Declaration, error) {
	raw, err := readFile(path)
	if err != nil {
		return nil, err
	}

	var file methodsFile
	switch detectFormat(path) {
	case "json":
		if err := json.Unmarshal(raw, &file); err != nil {
			return nil, fmt.Errorf("%w: parse JSON file %s: %v", ErrConfig, path, err)
		}
	case "yaml":
		if err := yaml.Unmarshal(raw, &file); err != nil {
			return nil, fmt.Errorf("%w: parse YAML file %s: %v", ErrConfig, path, err)
		}
	default:
		return nil, fmt.Errorf("%w: unsupported file format %q (supported: .json, .yaml, .yml)", ErrConfig, filepath.Ext(path))
	}

	if len(file.Methods) == 0 {
		return nil, fmt.Errorf("%w: file %s declares no methods", ErrConfig, path)
	}

	decls := make([]method.Declaration, 0, len(file.Methods))
	for _, entry := range file.Methods {
		decls = append(decls, entry.toDeclaration())
	}
	return decls, nil
}

func (e methodEntry) toDeclaration() method.Declaration {
	params := make([]method.ParameterSchema, 0, len(e.Parameters))
	for _, p := range e.Parameters {
		required := true // parameters are required unless the file says otherwise
		if p.Required != nil {
			required = *p.Required
		}
		params = append(params, method.ParameterSchema{
			Name:        p.Name,
			Kind:        method.NormalizeKind(p.Type),
			Description: p.Description,
			Required:    required,
			Default:     p.Default,
		})
	}

	return method.Declaration{
		Name:        e.Name,
		Description: e.Description,
		Parameters:  params,
		ReturnKind:  method.NormalizeKind(e.ReturnType),
		Locator: method.Locator{
			ModulePath:   e.ModulePath,
			FunctionName: e.FunctionName,
		},
	}
}

func readFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: configuration file not found: %s", ErrConfig, path)
	}
	if err == nil && info.IsDir() {
		return nil, fmt.Errorf("%w: configuration path is not a file: %s", ErrConfig, path)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read configuration file %s: %v", ErrConfig, path, err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: configuration file is empty: %s", ErrConfig, path)
	}
	return raw, nil
}

func detectFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return "json"
	case ".yaml", ".yml":
		return "yaml"
	default:
		return ""
	}
}
