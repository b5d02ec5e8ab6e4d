package method

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"
	"testing"
)

func TestModuleSet_Resolve(t *testing.T) {
	t.Parallel()

	ms := NewModuleSet()
	ms.RegisterFunc("tools.calculator", "add", func(_ context.Context, _ map[string]any) (any, error) {
		return int64(3), nil
	})
	ms.RegisterFunc("tools.calculator", "broken", nil)

	if _, err := ms.Resolve(Locator{ModulePath: "tools.calculator", FunctionName: "add"}); err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}

	_, err := ms.Resolve(Locator{ModulePath: "tools.missing", FunctionName: "add"})
	if !errors.Is(err, ErrModuleNotFound) {
		t.Fatalf("expected ErrModuleNotFound, got: %v", err)
	}
	if !errors.Is(err, ErrResolution) {
		t.Fatalf("module errors must wrap ErrResolution, got: %v", err)
	}

	_, err = ms.Resolve(Locator{ModulePath: "tools.calculator", FunctionName: "missing"})
	if !errors.Is(err, ErrSymbolNotFound) {
		t.Fatalf("expected ErrSymbolNotFound, got: %v", err)
	}

	_, err = ms.Resolve(Locator{ModulePath: "tools.calculator", FunctionName: "broken"})
	if !errors.Is(err, ErrNotInvocable) {
		t.Fatalf("expected ErrNotInvocable, got: %v", err)
	}
}

type countingResolver struct {
	inner Resolver
	calls atomic.Int64
}

func (c *countingResolver) Resolve(loc Locator) (Callable, error) {
	c.calls.Add(1)
	return c.inner.Resolve(loc)
}

func TestCachedResolver_MemoizesByMethodName(t *testing.T) {
	t.Parallel()

	ms := NewModuleSet()
	ms.RegisterFunc("tools.calculator", "add", func(_ context.Context, _ map[string]any) (any, error) {
		return int64(3), nil
	})
	counting := &countingResolver{inner: ms}
	resolver := NewCachedResolver(counting)

	decl := &Declaration{Name: "add", Locator: Locator{ModulePath: "tools.calculator", FunctionName: "add"}}

	first, err := resolver.ResolveDeclaration(decl)
	if err != nil {
		t.Fatalf("ResolveDeclaration returned error: %v", err)
	}
	second, err := resolver.ResolveDeclaration(decl)
	if err != nil {
		t.Fatalf("ResolveDeclaration returned error: %v", err)
	}

	if counting.calls.Load() != 1 {
		t.Fatalf("expected 1 inner resolution, got %d", counting.calls.Load())
	}
	if reflect.ValueOf(first).Pointer() != reflect.ValueOf(second).Pointer() {
		t.Fatalf("repeated resolutions must return the identical handle")
	}
}

func TestCachedResolver_FailuresNotCached(t *testing.T) {
	t.Parallel()

	ms := NewModuleSet()
	counting := &countingResolver{inner: ms}
	resolver := NewCachedResolver(counting)

	decl := &Declaration{Name: "late", Locator: Locator{ModulePath: "tools.late", FunctionName: "run"}}

	if _, err := resolver.ResolveDeclaration(decl); !errors.Is(err, ErrModuleNotFound) {
		t.Fatalf("expected ErrModuleNotFound, got: %v", err)
	}

	// The module shows up after the first failed attempt; resolution must
	// succeed now rather than replaying the cached failure.
	ms.RegisterFunc("tools.late", "run", func(_ context.Context, _ map[string]any) (any, error) {
		return "ok", nil
	})
	if _, err := resolver.ResolveDeclaration(decl); err != nil {
		t.Fatalf("ResolveDeclaration after registration returned error: %v", err)
	}
	if counting.calls.Load() != 2 {
		t.Fatalf("expected 2 inner resolutions, got %d", counting.calls.Load())
	}
}

func TestCachedResolver_InvalidateForcesReresolution(t *testing.T) {
	t.Parallel()

	ms := NewModuleSet()
	ms.RegisterFunc("tools.calculator", "add", func(_ context.Context, _ map[string]any) (any, error) {
		return int64(1), nil
	})
	counting := &countingResolver{inner: ms}
	resolver := NewCachedResolver(counting)

	decl := &Declaration{Name: "add", Locator: Locator{ModulePath: "tools.calculator", FunctionName: "add"}}
	if _, err := resolver.ResolveDeclaration(decl); err != nil {
		t.Fatalf("ResolveDeclaration returned error: %v", err)
	}

	resolver.Invalidate("add")

	if _, err := resolver.ResolveDeclaration(decl); err != nil {
		t.Fatalf("ResolveDeclaration after invalidate returned error: %v", err)
	}
	if counting.calls.Load() != 2 {
		t.Fatalf("expected re-resolution after invalidate, got %d inner calls", counting.calls.Load())
	}
}

func TestCachedResolver_ConcurrentResolutionIsSafe(t *testing.T) {
	t.Parallel()

	ms := NewModuleSet()
	for i := 0; i < 8; i++ {
		name := fmt.Sprintf("fn_%d", i)
		ms.RegisterFunc("tools.concurrent", name, func(_ context.Context, _ map[string]any) (any, error) {
			return name, nil
		})
	}
	resolver := NewCachedResolver(ms)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := fmt.Sprintf("fn_%d", i%8)
			decl := &Declaration{Name: name, Locator: Locator{ModulePath: "tools.concurrent", FunctionName: name}}
			if _, err := resolver.ResolveDeclaration(decl); err != nil {
				t.Errorf("ResolveDeclaration(%s) returned error: %v", name, err)
			}
		}(i)
	}
	wg.Wait()
}
