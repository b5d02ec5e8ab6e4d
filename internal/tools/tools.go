// Package tools provides the builtin callable modules shipped with the
// scheduler: a calculator and a mock weather lookup. They double as the
// reference targets for demos and integration tests.
package tools

import (
	"github.com/y149604146/qwen-agent-scheduler/internal/domain/method"
)

// Module paths under which the builtin functions are addressable.
const (
	ModuleCalculator = "tools.calculator"
	ModuleWeather    = "tools.weather"
)

// Register makes every builtin function resolvable through the module set.
func Register(ms *method.ModuleSet) {
	ms.RegisterFunc(ModuleCalculator, "add", Add)
	ms.RegisterFunc(ModuleCalculator, "subtract", Subtract)
	ms.RegisterFunc(ModuleCalculator, "multiply", Multiply)
	ms.RegisterFunc(ModuleCalculator, "divide", Divide)
	ms.RegisterFunc(ModuleWeather, "get_weather", GetWeather)
}

// Declarations returns the method declarations for the builtin functions,
// ready to be ensured into the store at startup.
func Declarations() []method.Declaration {
	intParam := func(name, desc string) method.ParameterSchema {
		return method.ParameterSchema{Name: name, Kind: method.KindInteger, Description: desc, Required: true}
	}

	return []method.Declaration{
		{
			Name:        "add",
			Description: "Add two integers and return their sum",
			Parameters: []method.ParameterSchema{
				intParam("a", "First addend"),
				intParam("b", "Second addend"),
			},
			ReturnKind: method.KindInteger,
			Locator:    method.Locator{ModulePath: ModuleCalculator, FunctionName: "add"},
		},
		{
			Name:        "subtract",
			Description: "Subtract b from a and return the difference",
			Parameters: []method.ParameterSchema{
				intParam("a", "Minuend"),
				intParam("b", "Subtrahend"),
			},
			ReturnKind: method.KindInteger,
			Locator:    method.Locator{ModulePath: ModuleCalculator, FunctionName: "subtract"},
		},
		{
			Name:        "multiply",
			Description: "Multiply two integers and return the product",
			Parameters: []method.ParameterSchema{
				intParam("a", "First factor"),
				intParam("b", "Second factor"),
			},
			ReturnKind: method.KindInteger,
			Locator:    method.Locator{ModulePath: ModuleCalculator, FunctionName: "multiply"},
		},
		{
			Name:        "divide",
			Description: "Divide a by b and return the quotient",
			Parameters: []method.ParameterSchema{
				{Name: "a", Kind: method.KindFloat, Description: "Dividend", Required: true},
				{Name: "b", Kind: method.KindFloat, Description: "Divisor", Required: true},
			},
			ReturnKind: method.KindFloat,
			Locator:    method.Locator{ModulePath: ModuleCalculator, FunctionName: "divide"},
		},
		{
			Name:        "get_weather",
			Description: "Look up current weather conditions for a city",
			Parameters: []method.ParameterSchema{
				{Name: "city", Kind: method.KindString, Description: "City name to query", Required: true},
				{Name: "unit", Kind: method.KindString, Description: "Temperature unit, celsius or fahrenheit", Required: false, Default: "celsius"},
			},
			ReturnKind: method.KindObject,
			Locator:    method.Locator{ModulePath: ModuleWeather, FunctionName: "get_weather"},
		},
	}
}
