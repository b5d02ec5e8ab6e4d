package method

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Resolution failure sub-kinds. All wrap ErrResolution so callers can branch
// on the family with a single errors.Is check.
var (
	ErrResolution     = errors.New("method resolution failed")
	ErrModuleNotFound = fmt.Errorf("%w: module not found", ErrResolution)
	ErrSymbolNotFound = fmt.Errorf("%w: symbol not found", ErrResolution)
	ErrNotInvocable   = fmt.Errorf("%w: symbol is not invocable", ErrResolution)
)

// Callable is an invocable handle for a registered method. It receives the
// prepared (validated, coerced, defaulted) arguments keyed by parameter name.
type Callable func(ctx context.Context, args map[string]any) (any, error)

// Resolver turns a locator into an invocable handle. Go has no runtime module
// loading, so concrete resolvers are backed by functions registered at init
// time rather than by dynamic import.
type Resolver interface {
	Resolve(loc Locator) (Callable, error)
}

// ModuleSet is the build-time function registry backing the default Resolver:
// a two-level map of module path to named callables, populated during startup.
type ModuleSet struct {
	mu      sync.Mutex
	modules map[string]map[string]Callable
}

// NewModuleSet returns an empty ModuleSet.
func NewModuleSet() *ModuleSet {
	return &ModuleSet{modules: make(map[string]map[string]Callable)}
}

// RegisterFunc makes fn addressable under the given module path and function
// name. Registering the same symbol twice replaces the earlier function.
// A nil fn is allowed and resolves to ErrNotInvocable, mirroring a module
// attribute that exists but is not callable.
func (m *ModuleSet) RegisterFunc(modulePath, functionName string, fn Callable) {
	m.mu.Lock()
	defer m.mu.Unlock()
	mod, ok := m.modules[modulePath]
	if !ok {
		mod = make(map[string]Callable)
		m.modules[modulePath] = mod
	}
	mod[functionName] = fn
}

// Resolve looks up the locator's module and function.
func (m *ModuleSet) Resolve(loc Locator) (Callable, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	mod, ok := m.modules[loc.ModulePath]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrModuleNotFound, loc.ModulePath)
	}
	fn, ok := mod[loc.FunctionName]
	if !ok {
		return nil, fmt.Errorf("%w: %q in module %q", ErrSymbolNotFound, loc.FunctionName, loc.ModulePath)
	}
	if fn == nil {
		return nil, fmt.Errorf("%w: %q in module %q", ErrNotInvocable, loc.FunctionName, loc.ModulePath)
	}
	return fn, nil
}

// CachedResolver memoizes successful resolutions keyed by method name.
// A cached handle is reused until Invalidate is called for that name, which
// the registry does on re-registration. Failed resolutions are not cached:
// a method may become resolvable after more modules are registered.
type CachedResolver struct {
	inner Resolver

	mu    sync.RWMutex
	cache map[string]Callable
}

// NewCachedResolver wraps inner with a per-method-name memo.
func NewCachedResolver(inner Resolver) *CachedResolver {
	return &CachedResolver{
		inner: inner,
		cache: make(map[string]Callable),
	}
}

// ResolveDeclaration returns the invocable handle for d, resolving through
// the inner resolver on first use and from cache afterwards. Safe for
// concurrent callers resolving the same or different methods.
func (c *CachedResolver) ResolveDeclaration(d *Declaration) (Callable, error) {
	c.mu.RLock()
	fn, ok := c.cache[d.Name]
	c.mu.RUnlock()
	if ok {
		return fn, nil
	}

	fn, err := c.inner.Resolve(d.Locator)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	// Another caller may have resolved concurrently; keep the first handle
	// so repeated resolutions stay identity-stable.
	if cached, ok := c.cache[d.Name]; ok {
		fn = cached
	} else {
		c.cache[d.Name] = fn
	}
	c.mu.Unlock()
	return fn, nil
}

// Invalidate drops the cached handle for a method name. Called by the
// registry when a declaration is replaced.
func (c *CachedResolver) Invalidate(name string) {
	c.mu.Lock()
	delete(c.cache, name)
	c.mu.Unlock()
}
