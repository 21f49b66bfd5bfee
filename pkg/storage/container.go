// ABOUTME: In-memory key-value container backing a single transaction scope
// ABOUTME: Plain map wrapper with value counting and full enumeration for snapshots

package storage

// Entry is a single key-value pair as returned by Container.Entries.
type Entry[V comparable] struct {
	Key   string
	Value V
}

// Container is a mutable mapping from string keys to values.
type Container[V comparable] struct {
	memory map[string]V
}

// NewContainer creates an empty container
func NewContainer[V comparable]() *Container[V] {
	return &Container[V]{memory: make(map[string]V)}
}

// Get retrieves the value stored under key
func (c *Container[V]) Get(key string) (V, bool) {
	val, ok := c.memory[key]
	return val, ok
}

// Set inserts or updates a key-value pair
func (c *Container[V]) Set(key string, value V) {
	c.memory[key] = value
}

// Delete removes key. Deleting an absent key is a no-op.
func (c *Container[V]) Delete(key string) {
	delete(c.memory, key)
}

// Contains reports whether key is present
func (c *Container[V]) Contains(key string) bool {
	_, ok := c.memory[key]
	return ok
}

// Count returns the number of entries whose value equals value
func (c *Container[V]) Count(value V) int {
	n := 0
	for _, v := range c.memory {
		if v == value {
			n++
		}
	}
	return n
}

// Len returns the number of keys
func (c *Container[V]) Len() int {
	return len(c.memory)
}

// Entries returns every key-value pair in no particular order
func (c *Container[V]) Entries() []Entry[V] {
	entries := make([]Entry[V], 0, len(c.memory))
	for k, v := range c.memory {
		entries = append(entries, Entry[V]{Key: k, Value: v})
	}
	return entries
}
