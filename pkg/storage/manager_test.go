// ABOUTME: Tests for the transactional store
// ABOUTME: Covers point operations, begin/commit/rollback, and nested isolation

package storage

import (
	"errors"
	"fmt"
	"testing"
)

func mustGet(t *testing.T, m *Manager[string], key string) string {
	t.Helper()
	val, err := m.Get(key)
	if err != nil {
		t.Fatalf("Get(%q) failed: %v", key, err)
	}
	return val
}

func expectErr(t *testing.T, err, want error) {
	t.Helper()
	if !errors.Is(err, want) {
		t.Fatalf("Expected %v, got %v", want, err)
	}
}

func TestManagerSetGet(t *testing.T) {
	m := New[string]()

	m.Set("key", "value")
	if got := mustGet(t, m, "key"); got != "value" {
		t.Errorf("Expected value, got %q", got)
	}
}

func TestManagerDelete(t *testing.T) {
	m := New[string]()

	m.Set("key", "value")
	if err := m.Delete("key"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	_, err := m.Get("key")
	expectErr(t, err, ErrKeyNotFound)
}

func TestManagerDeleteMissing(t *testing.T) {
	m := New[string]()
	m.Set("other", "value")

	expectErr(t, m.Delete("key"), ErrKeyNotDeletable)

	if m.Len() != 1 || mustGet(t, m, "other") != "value" {
		t.Error("Failed delete must leave state unchanged")
	}
}

func TestManagerGetMissing(t *testing.T) {
	m := New[string]()

	_, err := m.Get("key")
	expectErr(t, err, ErrKeyNotFound)
}

func TestManagerCount(t *testing.T) {
	m := New[string]()
	for _, key := range []string{"key1", "key2", "key3"} {
		m.Set(key, "value")
	}
	m.Set("key4", "other")

	if got := m.Count("value"); got != 3 {
		t.Errorf("Expected 3, got %d", got)
	}
	if got := m.Count("missing"); got != 0 {
		t.Errorf("Expected 0, got %d", got)
	}
}

func TestManagerNoActiveTransaction(t *testing.T) {
	m := New[string]()

	expectErr(t, m.Commit(), ErrNoActiveTransaction)
	expectErr(t, m.Rollback(), ErrNoActiveTransaction)

	if m.Depth() != 0 {
		t.Errorf("Expected depth 0, got %d", m.Depth())
	}
}

func TestManagerDepth(t *testing.T) {
	m := New[string]()

	m.Begin()
	m.Begin()
	if m.Depth() != 2 {
		t.Fatalf("Expected depth 2, got %d", m.Depth())
	}

	if err := m.Commit(); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
	if err := m.Rollback(); err != nil {
		t.Fatalf("Rollback failed: %v", err)
	}
	if m.Depth() != 0 {
		t.Errorf("Expected depth 0, got %d", m.Depth())
	}
}

func TestManagerCommitTransaction(t *testing.T) {
	m := New[string]()

	m.Begin()
	m.Set("key", "value")
	if err := m.Commit(); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	if got := mustGet(t, m, "key"); got != "value" {
		t.Errorf("Expected value after commit, got %q", got)
	}
}

func TestManagerCommitKeepsChildIdentity(t *testing.T) {
	m := NewManager(NewScopeFactoryWithIDs[string](sequentialIDs()))

	m.Begin()
	child := m.ActiveID()
	if err := m.Commit(); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	// The committed scope takes the slot of the root it replaced
	if m.ActiveID() != child {
		t.Errorf("Expected active scope %s, got %s", child, m.ActiveID())
	}
}

func TestManagerCommitPropagation(t *testing.T) {
	m := New[string]()

	m.Set("k", "A")
	m.Begin()
	m.Set("k", "B")
	if err := m.Commit(); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	if got := mustGet(t, m, "k"); got != "B" {
		t.Errorf("Expected B, got %q", got)
	}
}

func TestManagerReadPrefilledValue(t *testing.T) {
	m := New[string]()

	m.Set("key", "value")
	m.Begin()
	if got := mustGet(t, m, "key"); got != "value" {
		t.Errorf("Nested scope should see parent value, got %q", got)
	}
}

func TestManagerRollbackTransaction(t *testing.T) {
	m := New[string]()

	m.Begin()
	m.Set("key", "value")
	if err := m.Rollback(); err != nil {
		t.Fatalf("Rollback failed: %v", err)
	}

	_, err := m.Get("key")
	expectErr(t, err, ErrKeyNotFound)
}

func TestManagerNestedIsolation(t *testing.T) {
	m := New[string]()

	m.Set("k", "A")
	m.Begin()
	m.Set("k", "B")
	if got := mustGet(t, m, "k"); got != "B" {
		t.Errorf("Expected B inside transaction, got %q", got)
	}

	if err := m.Rollback(); err != nil {
		t.Fatalf("Rollback failed: %v", err)
	}
	if got := mustGet(t, m, "k"); got != "A" {
		t.Errorf("Expected A after rollback, got %q", got)
	}
}

func TestManagerCommittedNestedTransaction(t *testing.T) {
	m := New[string]()

	m.Begin()
	m.Set("key1", "value1")

	m.Begin()
	if got := mustGet(t, m, "key1"); got != "value1" {
		t.Errorf("Expected value1, got %q", got)
	}
	m.Set("key2", "value2")
	if err := m.Commit(); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	if got := mustGet(t, m, "key2"); got != "value2" {
		t.Errorf("Expected value2, got %q", got)
	}

	if err := m.Rollback(); err != nil {
		t.Fatalf("Rollback failed: %v", err)
	}

	_, err := m.Get("key1")
	expectErr(t, err, ErrKeyNotFound)
	_, err = m.Get("key2")
	expectErr(t, err, ErrKeyNotFound)
}

func TestManagerRollbackNestedTransaction(t *testing.T) {
	m := New[string]()

	m.Begin()
	m.Set("key1", "value1")

	m.Begin()
	m.Set("key2", "value2")
	if err := m.Rollback(); err != nil {
		t.Fatalf("Rollback failed: %v", err)
	}

	_, err := m.Get("key2")
	expectErr(t, err, ErrKeyNotFound)

	if err := m.Commit(); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
	if got := mustGet(t, m, "key1"); got != "value1" {
		t.Errorf("Expected value1, got %q", got)
	}
	_, err = m.Get("key2")
	expectErr(t, err, ErrKeyNotFound)
}

func TestManagerCommitWithDelete(t *testing.T) {
	m := New[string]()

	m.Set("bar", "123")
	m.Begin()
	m.Set("foo", "456")
	if got := mustGet(t, m, "bar"); got != "123" {
		t.Errorf("Expected 123, got %q", got)
	}
	if err := m.Delete("bar"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := m.Commit(); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	_, err := m.Get("bar")
	expectErr(t, err, ErrKeyNotFound)
	expectErr(t, m.Rollback(), ErrNoActiveTransaction)

	if got := mustGet(t, m, "foo"); got != "456" {
		t.Errorf("Expected 456, got %q", got)
	}
}

func TestManagerRollbackRestoresAll(t *testing.T) {
	m := New[string]()

	m.Set("foo", "123")
	m.Set("bar", "abc")

	m.Begin()
	m.Set("foo", "456")
	m.Set("bar", "def")
	if got := mustGet(t, m, "bar"); got != "def" {
		t.Errorf("Expected def, got %q", got)
	}
	if err := m.Rollback(); err != nil {
		t.Fatalf("Rollback failed: %v", err)
	}

	if got := mustGet(t, m, "foo"); got != "123" {
		t.Errorf("Expected 123, got %q", got)
	}
	if got := mustGet(t, m, "bar"); got != "abc" {
		t.Errorf("Expected abc, got %q", got)
	}
	expectErr(t, m.Commit(), ErrNoActiveTransaction)
}

func TestManagerDoubleNesting(t *testing.T) {
	m := New[string]()

	m.Set("foo", "123")
	m.Set("bar", "456")

	m.Begin()
	m.Set("foo", "456")
	m.Begin()
	if got := m.Count("456"); got != 2 {
		t.Errorf("Expected count 2, got %d", got)
	}
	if got := mustGet(t, m, "foo"); got != "456" {
		t.Errorf("Expected 456, got %q", got)
	}
	m.Set("foo", "789")
	if got := mustGet(t, m, "foo"); got != "789" {
		t.Errorf("Expected 789, got %q", got)
	}
	if err := m.Rollback(); err != nil {
		t.Fatalf("Rollback failed: %v", err)
	}

	if got := mustGet(t, m, "foo"); got != "456" {
		t.Errorf("Expected 456, got %q", got)
	}
	if err := m.Delete("foo"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	_, err := m.Get("foo")
	expectErr(t, err, ErrKeyNotFound)
	if err := m.Rollback(); err != nil {
		t.Fatalf("Rollback failed: %v", err)
	}

	if got := mustGet(t, m, "foo"); got != "123" {
		t.Errorf("Expected 123, got %q", got)
	}
}

func TestManagerCountIsScopedToActive(t *testing.T) {
	m := New[string]()

	m.Set("a", "x")
	m.Begin()
	m.Set("b", "x")
	if err := m.Delete("a"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if got := m.Count("x"); got != 1 {
		t.Errorf("Expected count 1 in active scope, got %d", got)
	}
}

func TestManagerSnapshotIndependence(t *testing.T) {
	m := New[string]()

	for i := 0; i < 100; i++ {
		m.Set(fmt.Sprintf("key%03d", i), fmt.Sprintf("val%03d", i))
	}

	m.Begin()
	for i := 0; i < 1000; i++ {
		m.Set(fmt.Sprintf("key%03d", i), "overwritten")
	}
	for i := 0; i < 50; i++ {
		if err := m.Delete(fmt.Sprintf("key%03d", i)); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
	}
	if err := m.Rollback(); err != nil {
		t.Fatalf("Rollback failed: %v", err)
	}

	if m.Len() != 100 {
		t.Fatalf("Expected 100 keys after rollback, got %d", m.Len())
	}
	for i := 0; i < 100; i++ {
		key := fmt.Sprintf("key%03d", i)
		if got := mustGet(t, m, key); got != fmt.Sprintf("val%03d", i) {
			t.Errorf("%s: expected original value, got %q", key, got)
		}
	}
}

func BenchmarkManagerBegin(b *testing.B) {
	for _, size := range []int{10, 1000, 100000} {
		b.Run(fmt.Sprintf("keys=%d", size), func(b *testing.B) {
			m := New[string]()
			for i := 0; i < size; i++ {
				m.Set(fmt.Sprintf("key%d", i), "value")
			}

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				m.Begin()
				_ = m.Rollback()
			}
		})
	}
}
