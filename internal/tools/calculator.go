package tools

import (
	"context"
	"errors"
	"fmt"
)

// ErrDivisionByZero is returned by Divide when the divisor is zero.
var ErrDivisionByZero = errors.New("division by zero")

// Add returns a + b. Arguments arrive already coerced to integers.
func Add(_ context.Context, args map[string]any) (any, error) {
	a, b, err := intPair(args)
	if err != nil {
		return nil, err
	}
	return a + b, nil
}

// Subtract returns a - b.
func Subtract(_ context.Context, args map[string]any) (any, error) {
	a, b, err := intPair(args)
	if err != nil {
		return nil, err
	}
	return a - b, nil
}

// Multiply returns a * b.
func Multiply(_ context.Context, args map[string]any) (any, error) {
	a, b, err := intPair(args)
	if err != nil {
		return nil, err
	}
	return a * b, nil
}

// Divide returns a / b as a float, failing on a zero divisor.
func Divide(_ context.Context, args map[string]any) (any, error) {
	a, err := floatArg(args, "a")
	if err != nil {
		return nil, err
	}
	b, err := floatArg(args, "b")
	if err != nil {
		return nil, err
	}
	if b == 0 {
		return nil, ErrDivisionByZero
	}
	return a / b, nil
}

func intPair(args map[string]any) (int64, int64, error) {
	a, err := intArg(args, "a")
	if err != nil {
		return 0, 0, err
	}
	b, err := intArg(args, "b")
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}

func intArg(args map[string]any, name string) (int64, error) {
	v, ok := args[name].(int64)
	if !ok {
		return 0, fmt.Errorf("argument %q is not an integer", name)
	}
	return v, nil
}

func floatArg(args map[string]any, name string) (float64, error) {
	v, ok := args[name].(float64)
	if !ok {
		return 0, fmt.Errorf("argument %q is not a float", name)
	}
	return v, nil
}
