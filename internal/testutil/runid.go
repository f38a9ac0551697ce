package testutil

import (
	"fmt"
	"sync"
)

// SequentialRunIDs hands out "run-0001", "run-0002", ... for deterministic
// result ids and golden output.
//
// Implements analysis.RunIDGenerator. Safe for concurrent use.
type SequentialRunIDs struct {
	mu     sync.Mutex
	prefix string
	seq    int
}

// NewSequentialRunIDs creates a generator. An empty prefix means "run".
// The first call to Generate() returns "<prefix>-0001".
func NewSequentialRunIDs(prefix string) *SequentialRunIDs {
	if prefix == "" {
		prefix = "run"
	}
	return &SequentialRunIDs{prefix: prefix}
}

// Generate returns the next id.
func (g *SequentialRunIDs) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	return fmt.Sprintf("%s-%04d", g.prefix, g.seq)
}

// Reset restarts the sequence so a test can be replayed with identical ids.
func (g *SequentialRunIDs) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq = 0
}

// FixedRunID returns the same id every time.
type FixedRunID string

// Generate returns the fixed id.
func (f FixedRunID) Generate() string {
	return string(f)
}
