package method

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/y149604146/qwen-agent-scheduler/internal/infra/eventbus"
)

// ErrorKind is the machine-distinguishable failure category on a Result.
type ErrorKind string

const (
	ErrorKindMethodNotFound       ErrorKind = "method_not_found"
	ErrorKindMissingRequiredParam ErrorKind = "missing_required_parameter"
	ErrorKindUnknownParam         ErrorKind = "unknown_parameter"
	ErrorKindParamConversion      ErrorKind = "parameter_conversion_error"
	ErrorKindMethodLoad           ErrorKind = "method_load_error"
	ErrorKindTimeout              ErrorKind = "timeout"
	ErrorKindCancelled            ErrorKind = "cancelled"
	ErrorKindExecution            ErrorKind = "execution_error"
)

// TopicMethodInvoked is the event bus topic carrying InvokedEvent payloads,
// published after every invocation reaches a terminal state.
const TopicMethodInvoked = "method.invoked"

// InvokedEvent is the payload published on TopicMethodInvoked.
type InvokedEvent struct {
	Method    string
	Success   bool
	ErrorKind ErrorKind
	Duration  time.Duration
}

// Request is one call to execute a named method. It is ephemeral: created per
// call and discarded after producing a Result. A zero Timeout uses the
// engine's default.
type Request struct {
	MethodName string
	Arguments  map[string]any
	Timeout    time.Duration
}

// Result is the structured outcome of one invocation. Exactly one of Value
// and the ErrorKind/ErrorMessage pair is populated; the unexported
// constructors are the only way the engine builds one, so the invariant holds
// by construction. Duration covers the whole invocation, from receipt to the
// terminal state, on every path.
type Result struct {
	Success      bool          `json:"success"`
	Value        any           `json:"value,omitempty"`
	ErrorKind    ErrorKind     `json:"error_kind,omitempty"`
	ErrorMessage string        `json:"error_message,omitempty"`
	Duration     time.Duration `json:"duration"`
	Warnings     []string      `json:"warnings,omitempty"`
}

func succeeded(value any, warnings []string, start time.Time) Result {
	return Result{
		Success:  true,
		Value:    value,
		Duration: time.Since(start),
		Warnings: warnings,
	}
}

func failed(kind ErrorKind, message string, start time.Time) Result {
	return Result{
		Success:      false,
		ErrorKind:    kind,
		ErrorMessage: message,
		Duration:     time.Since(start),
	}
}

// DefaultTimeout bounds callable execution when neither the request nor the
// engine configuration says otherwise.
const DefaultTimeout = 30 * time.Second

// Engine orchestrates one invocation: validation, coercion and defaulting,
// callable resolution, and deadline-bounded execution. It is a single-shot
// evaluator; nothing is retried internally, and no failure corrupts the
// registry or the resolver cache. Safe for concurrent use.
type Engine struct {
	registry       *Registry
	resolver       *CachedResolver
	defaultTimeout time.Duration
	bus            eventbus.EventBus
}

// NewEngine creates an Engine over the given registry and resolver.
// A non-positive defaultTimeout falls back to DefaultTimeout.
func NewEngine(registry *Registry, resolver *CachedResolver, defaultTimeout time.Duration) *Engine {
	if defaultTimeout <= 0 {
		defaultTimeout = DefaultTimeout
	}
	return &Engine{
		registry:       registry,
		resolver:       resolver,
		defaultTimeout: defaultTimeout,
	}
}

// NewEngineWithBus additionally publishes an InvokedEvent on the bus after
// every invocation, successful or not.
func NewEngineWithBus(registry *Registry, resolver *CachedResolver, defaultTimeout time.Duration, bus eventbus.EventBus) *Engine {
	e := NewEngine(registry, resolver, defaultTimeout)
	e.bus = bus
	return e
}

// Invoke runs one invocation to a terminal state and reports the structured
// outcome. Failures never escape as errors or panics; every path, including
// panics inside the callable, produces a Result with a populated error kind.
//
// The timeout contract is best-effort cancellation with a guaranteed
// engine-side deadline: the callable receives a context that is cancelled at
// the deadline, and Invoke returns control to the caller at that point even
// if the callable ignores cancellation and keeps running detached.
func (e *Engine) Invoke(ctx context.Context, req Request) Result {
	start := time.Now()
	result := e.invoke(ctx, req, start)
	if e.bus != nil {
		e.bus.Publish(TopicMethodInvoked, InvokedEvent{
			Method:    req.MethodName,
			Success:   result.Success,
			ErrorKind: result.ErrorKind,
			Duration:  result.Duration,
		})
	}
	return result
}

func (e *Engine) invoke(ctx context.Context, req Request, start time.Time) Result {
	decl, err := e.registry.Get(req.MethodName)
	if err != nil {
		return failed(ErrorKindMethodNotFound, fmt.Sprintf("method %q not found", req.MethodName), start)
	}

	// Validating: a strict gate, unlike the advisory metadata validator.
	// Missing required parameters are collected and reported together.
	if missing := missingRequired(decl, req.Arguments); len(missing) > 0 {
		return failed(ErrorKindMissingRequiredParam,
			fmt.Sprintf("required parameter(s) missing: %s", strings.Join(missing, ", ")), start)
	}
	if unknown := unknownArguments(decl, req.Arguments); len(unknown) > 0 {
		return failed(ErrorKindUnknownParam,
			fmt.Sprintf("unknown parameter(s): %s", strings.Join(unknown, ", ")), start)
	}

	// Converting: coerce supplied values, substitute defaults, and drop
	// optional parameters that were neither supplied nor defaulted.
	args, warnings, err := prepareArguments(decl, req.Arguments)
	if err != nil {
		return failed(ErrorKindParamConversion, err.Error(), start)
	}

	// Resolving.
	fn, err := e.resolver.ResolveDeclaration(decl)
	if err != nil {
		return failed(ErrorKindMethodLoad, err.Error(), start)
	}

	// Executing.
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = e.defaultTimeout
	}
	value, kind, message := e.execute(ctx, fn, args, timeout)
	if kind != "" {
		return failed(kind, message, start)
	}
	return succeeded(value, warnings, start)
}

type callOutcome struct {
	value any
	err   error
}

// execute runs the callable under a deadline on its own goroutine. The
// supervising select returns at the deadline or on external cancellation
// regardless of whether the callable has finished; a recovered panic is
// reported as an execution error, never propagated.
func (e *Engine) execute(ctx context.Context, fn Callable, args map[string]any, timeout time.Duration) (any, ErrorKind, string) {
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan callOutcome, 1)
	go func() {
		defer func() {
			if p := recover(); p != nil {
				done <- callOutcome{err: fmt.Errorf("panic: %v", p)}
			}
		}()
		value, err := fn(callCtx, args)
		done <- callOutcome{value: value, err: err}
	}()

	select {
	case out := <-done:
		if out.err != nil {
			kind, message := classifyCallableError(out.err, timeout)
			return nil, kind, message
		}
		return out.value, "", ""
	case <-callCtx.Done():
		kind, message := classifyDeadline(callCtx.Err(), timeout)
		return nil, kind, message
	}
}

// classifyCallableError maps an error returned by the callable itself onto a
// result kind. Context errors surfaced by a cooperative callable count as
// timeout/cancellation, not as execution failures.
func classifyCallableError(err error, timeout time.Duration) (ErrorKind, string) {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return timeoutFailure(timeout)
	case errors.Is(err, context.Canceled):
		return ErrorKindCancelled, "invocation cancelled"
	default:
		return ErrorKindExecution, fmt.Sprintf("method execution failed: %T: %v", err, err)
	}
}

func classifyDeadline(err error, timeout time.Duration) (ErrorKind, string) {
	if errors.Is(err, context.Canceled) {
		return ErrorKindCancelled, "invocation cancelled"
	}
	return timeoutFailure(timeout)
}

func timeoutFailure(timeout time.Duration) (ErrorKind, string) {
	return ErrorKindTimeout, fmt.Sprintf("method execution exceeded timeout of %s", timeout)
}

// missingRequired returns the names of required parameters absent from the
// supplied arguments, in declaration order.
func missingRequired(decl *Declaration, args map[string]any) []string {
	var missing []string
	for _, p := range decl.Parameters {
		if !p.Required {
			continue
		}
		if _, ok := args[p.Name]; !ok {
			missing = append(missing, p.Name)
		}
	}
	return missing
}

// unknownArguments returns supplied argument names that match no declared
// parameter, sorted for deterministic messages.
func unknownArguments(decl *Declaration, args map[string]any) []string {
	var unknown []string
	for name := range args {
		if _, ok := decl.Parameter(name); !ok {
			unknown = append(unknown, name)
		}
	}
	sort.Strings(unknown)
	return unknown
}

// prepareArguments builds the final argument set for the callable: supplied
// values coerced to their declared kinds, defaults substituted for absent
// optional parameters, and optional parameters without a default omitted
// entirely. Unknown declared kinds pass the value through with a warning.
//
// A substituted default takes the exact same coercion path as a supplied
// value, so omitting a parameter and supplying its default explicitly produce
// the same callable arguments. Declarations loaded from the store carry
// JSON-decoded defaults (numbers arrive as float64) and depend on this.
func prepareArguments(decl *Declaration, args map[string]any) (map[string]any, []string, error) {
	prepared := make(map[string]any, len(decl.Parameters))
	var warnings []string

	for _, p := range decl.Parameters {
		value, supplied := args[p.Name]
		if !supplied {
			if !p.HasDefault() {
				// Optional, not supplied, no default: omitted entirely.
				continue
			}
			value = p.Default
		}

		if !KnownParameterKind(p.Kind) {
			warnings = append(warnings, fmt.Sprintf("parameter %q has unknown type %q; value passed through unchanged", p.Name, p.Kind))
			prepared[p.Name] = value
			continue
		}
		coerced, err := Coerce(value, p.Kind)
		if err != nil {
			return nil, nil, fmt.Errorf("parameter %q: %v", p.Name, err)
		}
		prepared[p.Name] = coerced
	}

	return prepared, warnings, nil
}
