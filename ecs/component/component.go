// Package component declares the kart's ECS components and the typed kinds
// the world uses to store them.
package component

import (
	"errors"
	"fmt"
	"sync"
)

var (
	ErrEntityNotAlive       = errors.New("ecs: entity not alive")
	ErrNilComponent         = errors.New("ecs: component is nil")
	ErrInvalidComponentKind = errors.New("ecs: invalid component kind")
)

type ComponentID uint32

// registry names every kind ever created, indexed by ComponentID-1.
var registry struct {
	mu    sync.Mutex
	names []string
}

func register(name string) ComponentID {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.names = append(registry.names, name)
	return ComponentID(len(registry.names))
}

// Name returns the name a kind was registered under, or "" for an unknown id.
func Name(id ComponentID) string {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	if id == 0 || int(id) > len(registry.names) {
		return ""
	}
	return registry.names[id-1]
}

// Registered lists every registered kind name in registration order.
func Registered() []string {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	return append([]string(nil), registry.names...)
}

// ComponentKind identifies one component store. The zero value is invalid.
type ComponentKind[T any] struct {
	id ComponentID
}

// NewComponentKind registers a fresh kind named after T.
func NewComponentKind[T any]() ComponentKind[T] {
	var zero T
	return ComponentKind[T]{id: register(fmt.Sprintf("%T", zero))}
}

func (k ComponentKind[T]) ID() ComponentID { return k.id }
func (k ComponentKind[T]) Valid() bool     { return k.id != 0 }

func (k ComponentKind[T]) String() string {
	if name := Name(k.id); name != "" {
		return name
	}
	return "invalid"
}

// ComponentHandle is the package-level declaration of a kart component, e.g.
// TransformComponent.
type ComponentHandle[T any] struct {
	kind ComponentKind[T]
}

func NewComponent[T any]() ComponentHandle[T] {
	return ComponentHandle[T]{kind: NewComponentKind[T]()}
}

func (h ComponentHandle[T]) Kind() ComponentKind[T] { return h.kind }
