package store

import (
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// DefaultIDPrefix is prepended to generated work order ids.
const DefaultIDPrefix = "wo-"

// IDGenerator produces candidate ids for new work orders.
// The store rejects candidates that are already taken and asks again.
type IDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable ids of the form "wo-<uuidv7>".
//
// UUIDv7 embeds a timestamp in the most significant bits, so ids sort by
// creation time, like the millisecond ids the widget originally used, but
// two orders created in the same millisecond still get distinct ids.
//
// Thread-safety: UUIDv7Generator is stateless and safe for concurrent use.
type UUIDv7Generator struct {
	// Prefix defaults to DefaultIDPrefix when empty.
	Prefix string
}

// Generate returns a new id. Panics if the system random source fails.
func (g UUIDv7Generator) Generate() string {
	prefix := g.Prefix
	if prefix == "" {
		prefix = DefaultIDPrefix
	}
	return prefix + uuid.Must(uuid.NewV7()).String()
}

// SequenceGenerator generates "prefix1", "prefix2", ... from a monotonic
// counter. Deterministic, so used by the scenario harness and golden tests.
type SequenceGenerator struct {
	prefix string
	seq    atomic.Int64
}

// NewSequenceGenerator creates a generator whose first id uses start+1.
func NewSequenceGenerator(prefix string, start int64) *SequenceGenerator {
	g := &SequenceGenerator{prefix: prefix}
	g.seq.Store(start)
	return g
}

// Generate returns the next id in the sequence.
func (g *SequenceGenerator) Generate() string {
	return g.prefix + strconv.FormatInt(g.seq.Add(1), 10)
}

// FixedGenerator returns predetermined ids for testing.
//
// Example:
//
//	gen := NewFixedGenerator("wo-a", "wo-b")
//	gen.Generate() // "wo-a"
//	gen.Generate() // "wo-b"
//	gen.Generate() // panic: all ids exhausted
type FixedGenerator struct {
	mu  sync.Mutex
	ids []string
	idx int
}

// NewFixedGenerator creates a generator that returns ids in order.
func NewFixedGenerator(ids ...string) *FixedGenerator {
	return &FixedGenerator{ids: ids}
}

// Generate returns the next predetermined id.
//
// Panics if all ids have been consumed, to catch a test that creates more
// orders than it planned for.
func (g *FixedGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.idx >= len(g.ids) {
		panic("FixedGenerator: all ids exhausted")
	}
	id := g.ids[g.idx]
	g.idx++
	return id
}
