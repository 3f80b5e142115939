// Package repofake provides in-memory stores with the same returning
// semantics as the MySQL stores, for use in service and handler tests.
package repofake

import (
	"sort"
	"sync"
	"time"
)

// table is a primary-key map with an auto-increment id and a monotonic
// clock so that newest-first ordering is deterministic.
type table[T any] struct {
	mu    sync.RWMutex
	rows  map[uint64]T
	next  uint64
	clock time.Time
	calls map[string]int
}

func newTable[T any]() *table[T] {
	return &table[T]{
		rows:  make(map[uint64]T),
		next:  1,
		clock: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		calls: make(map[string]int),
	}
}

func (t *table[T]) count(op string) { t.calls[op]++ }

// Calls returns how many times op hit the store.
func (t *table[T]) Calls(op string) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.calls[op]
}

func (t *table[T]) tick() time.Time {
	t.clock = t.clock.Add(time.Second)
	return t.clock
}

func (t *table[T]) allocID() uint64 {
	id := t.next
	t.next++
	return id
}

// sorted returns rows newest first using the given created-at accessor.
func (t *table[T]) sorted(createdAt func(T) time.Time, id func(T) uint64) []T {
	out := make([]T, 0, len(t.rows))
	for _, r := range t.rows {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		ci, cj := createdAt(out[i]), createdAt(out[j])
		if ci.Equal(cj) {
			return id(out[i]) > id(out[j])
		}
		return ci.After(cj)
	})
	return out
}
