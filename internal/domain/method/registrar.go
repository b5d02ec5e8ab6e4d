package method

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/y149604146/qwen-agent-scheduler/internal/infra/eventbus"
)

// ErrDeclarationInvalid is returned when a declaration fails metadata
// validation and therefore may not be registered.
var ErrDeclarationInvalid = errors.New("method declaration invalid")

// Event bus topics announced by the registrar.
const (
	TopicMethodRegistered = "method.registered"
	TopicMethodRemoved    = "method.removed"
)

// RegisteredEvent is the payload published on TopicMethodRegistered and
// TopicMethodRemoved.
type RegisteredEvent struct {
	Method  string
	Locator Locator
}

// Registrar is the registration flow guarding what may enter the system:
// every declaration passes the metadata validator before it is persisted and
// made visible in the registry. Registration is an upsert; replacing a name
// drops its resolver cache entry via the registry hook.
type Registrar struct {
	store    *Store
	registry *Registry
	bus      eventbus.EventBus
}

// NewRegistrar wires the registration flow. bus may be nil.
func NewRegistrar(store *Store, registry *Registry, bus eventbus.EventBus) *Registrar {
	return &Registrar{store: store, registry: registry, bus: bus}
}

// Register validates one declaration, persists it, and publishes it into the
// registry. On validation failure the returned ValidationResult lists every
// defect and the error wraps ErrDeclarationInvalid; nothing is persisted.
func (r *Registrar) Register(ctx context.Context, d Declaration) (*Declaration, ValidationResult, error) {
	result := Validate(d)
	if !result.Valid {
		return nil, result, fmt.Errorf("%w: %s", ErrDeclarationInvalid, strings.Join(result.Errors, "; "))
	}

	stored, err := r.store.Save(ctx, d)
	if err != nil {
		return nil, result, err
	}
	r.registry.Put(stored)

	if r.bus != nil {
		r.bus.Publish(TopicMethodRegistered, RegisteredEvent{Method: stored.Name, Locator: stored.Locator})
	}
	return stored, result, nil
}

// RegisterAll validates a batch (including cross-declaration name collisions)
// and registers the declarations that passed. Invalid declarations are
// skipped, not fatal; a storage failure aborts the batch. Returns one
// ValidationResult per input declaration, in input order, plus the number of
// declarations actually registered.
func (r *Registrar) RegisterAll(ctx context.Context, decls []Declaration) ([]ValidationResult, int, error) {
	results := ValidateAll(decls)

	registered := 0
	for i, d := range decls {
		if !results[i].Valid {
			continue
		}
		stored, err := r.store.Save(ctx, d)
		if err != nil {
			return results, registered, err
		}
		r.registry.Put(stored)
		registered++

		if r.bus != nil {
			r.bus.Publish(TopicMethodRegistered, RegisteredEvent{Method: stored.Name, Locator: stored.Locator})
		}
	}
	return results, registered, nil
}

// Remove deletes a declaration from the store and the registry.
func (r *Registrar) Remove(ctx context.Context, name string) error {
	if err := r.store.Delete(ctx, name); err != nil {
		return err
	}
	r.registry.Remove(name)

	if r.bus != nil {
		r.bus.Publish(TopicMethodRemoved, RegisteredEvent{Method: name})
	}
	return nil
}

// LoadRegistry replaces the registry contents with the current store
// snapshot. Called at startup and usable as a refresh hook; declarations in
// the store were validated when registered, so they load as-is.
func (r *Registrar) LoadRegistry(ctx context.Context) (int, error) {
	decls, err := r.store.List(ctx)
	if err != nil {
		return 0, err
	}
	for _, d := range decls {
		r.registry.Put(d)
	}
	return len(decls), nil
}
