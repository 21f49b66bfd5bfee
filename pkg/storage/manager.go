// ABOUTME: Transactional store built on a stack of owned scope snapshots
// ABOUTME: Begin pushes a copy, Commit folds the top into its parent, Rollback drops it

package storage

// Manager is a key-value store with nested transactions. The bottom of the
// stack is the root scope, created once and never removed; the top is the
// active scope that every read and write targets.
//
// Manager is not safe for concurrent use. Callers sharing one instance
// across goroutines must serialize access themselves.
type Manager[V comparable] struct {
	factory *ScopeFactory[V]
	scopes  []*Scope[V]
}

// NewManager creates a store holding only the root scope
func NewManager[V comparable](factory *ScopeFactory[V]) *Manager[V] {
	return &Manager[V]{
		factory: factory,
		scopes:  []*Scope[V]{factory.NewRoot()},
	}
}

// New creates a store with a UUID-backed scope factory
func New[V comparable]() *Manager[V] {
	return NewManager(NewScopeFactory[V]())
}

func (m *Manager[V]) active() *Scope[V] {
	return m.scopes[len(m.scopes)-1]
}

// Get returns the value of key in the active scope
func (m *Manager[V]) Get(key string) (V, error) {
	val, ok := m.active().data.Get(key)
	if !ok {
		var zero V
		return zero, ErrKeyNotFound
	}
	return val, nil
}

// Set inserts or updates key in the active scope
func (m *Manager[V]) Set(key string, value V) {
	m.active().data.Set(key, value)
}

// Delete removes key from the active scope
func (m *Manager[V]) Delete(key string) error {
	data := m.active().data
	if !data.Contains(key) {
		return ErrKeyNotDeletable
	}
	data.Delete(key)
	return nil
}

// Count returns how many keys in the active scope map to value. Ancestor
// scopes are not consulted; the active scope already holds their entries as
// of Begin.
func (m *Manager[V]) Count(value V) int {
	return m.active().data.Count(value)
}

// Begin opens a nested transaction over a copy of the active scope
func (m *Manager[V]) Begin() {
	m.scopes = append(m.scopes, m.factory.NewNested(m.active()))
}

// Commit replaces the parent of the active scope with the active scope and
// closes one level of nesting.
func (m *Manager[V]) Commit() error {
	n := len(m.scopes)
	if n == 1 {
		return ErrNoActiveTransaction
	}

	m.scopes[n-2] = m.scopes[n-1]
	m.scopes[n-1] = nil
	m.scopes = m.scopes[:n-1]
	return nil
}

// Rollback discards the active scope. The parent becomes active again,
// exactly as it was before Begin.
func (m *Manager[V]) Rollback() error {
	n := len(m.scopes)
	if n == 1 {
		return ErrNoActiveTransaction
	}

	m.scopes[n-1] = nil
	m.scopes = m.scopes[:n-1]
	return nil
}

// Depth returns the number of open nested transactions
func (m *Manager[V]) Depth() int {
	return len(m.scopes) - 1
}

// Len returns the number of keys visible in the active scope
func (m *Manager[V]) Len() int {
	return m.active().data.Len()
}

// ActiveID returns the identifier of the active scope
func (m *Manager[V]) ActiveID() string {
	return m.active().id
}
