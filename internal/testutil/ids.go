// Package testutil provides deterministic id generation for tests.
package testutil

import (
	"fmt"
	"sync"
)

// SequenceIDGenerator hands out ids "prefix-1", "prefix-2", ... so tests
// and golden files see stable constraint ids instead of random UUIDs.
//
// Thread-safety: all methods are safe for concurrent use via internal mutex.
type SequenceIDGenerator struct {
	mu     sync.Mutex
	prefix string
	seq    int64
}

// NewSequenceIDGenerator creates a generator starting at 0.
//
// The first call to Next() returns "<prefix>-1".
func NewSequenceIDGenerator(prefix string) *SequenceIDGenerator {
	return &SequenceIDGenerator{prefix: prefix}
}

// Next increments the sequence and returns the next id.
func (g *SequenceIDGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	return fmt.Sprintf("%s-%d", g.prefix, g.seq)
}

// Current returns the number of ids handed out so far.
func (g *SequenceIDGenerator) Current() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.seq
}

// Reset restarts the sequence. After Reset(), the next call to Next()
// returns "<prefix>-1" again.
func (g *SequenceIDGenerator) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq = 0
}

// FixedIDGenerator returns the same id every time. Useful when a test
// creates exactly one constraint and asserts on its id.
type FixedIDGenerator struct {
	id string
}

// NewFixedIDGenerator creates a generator for the given id. An empty id
// defaults to "test-id-default".
func NewFixedIDGenerator(id string) *FixedIDGenerator {
	if id == "" {
		id = "test-id-default"
	}
	return &FixedIDGenerator{id: id}
}

// Next returns the fixed id.
func (g *FixedIDGenerator) Next() string {
	return g.id
}
