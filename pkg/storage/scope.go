// ABOUTME: Transaction scopes and the factory that creates them
// ABOUTME: Nested scopes start from a full, independent copy of their parent

package storage

import (
	"github.com/google/uuid"
)

// Scope is one level of transactional nesting. It exclusively owns its
// container; no two scopes ever share one.
type Scope[V comparable] struct {
	id   string
	data *Container[V]
}

// ID returns the scope identifier
func (s *Scope[V]) ID() string {
	return s.id
}

// Data returns the container holding this scope's view of the keyspace
func (s *Scope[V]) Data() *Container[V] {
	return s.data
}

// ScopeFactory creates root and nested scopes
type ScopeFactory[V comparable] struct {
	newID func() string
}

// NewScopeFactory creates a factory that identifies scopes with random UUIDs
func NewScopeFactory[V comparable]() *ScopeFactory[V] {
	return NewScopeFactoryWithIDs[V](uuid.NewString)
}

// NewScopeFactoryWithIDs creates a factory using newID to identify scopes
func NewScopeFactoryWithIDs[V comparable](newID func() string) *ScopeFactory[V] {
	return &ScopeFactory[V]{newID: newID}
}

// NewRoot creates a scope with an empty container
func (f *ScopeFactory[V]) NewRoot() *Scope[V] {
	return &Scope[V]{
		id:   f.newID(),
		data: NewContainer[V](),
	}
}

// NewNested creates a scope pre-populated with a copy of every entry in
// parent. Cost is linear in the size of parent.
func (f *ScopeFactory[V]) NewNested(parent *Scope[V]) *Scope[V] {
	data := &Container[V]{memory: make(map[string]V, parent.data.Len())}
	for _, e := range parent.data.Entries() {
		data.Set(e.Key, e.Value)
	}

	return &Scope[V]{
		id:   f.newID(),
		data: data,
	}
}
