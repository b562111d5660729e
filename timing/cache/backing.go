package cache

import (
	"github.com/mboyer87/mipsim/emu"
)

// MemoryBacking adapts emu.Memory as a BackingStore. Fills and writebacks
// use the direct word accessors: the transfer cost is already accounted for
// by the cache's miss latency.
type MemoryBacking struct {
	memory *emu.Memory
}

// NewMemoryBacking creates a new MemoryBacking adapter.
func NewMemoryBacking(memory *emu.Memory) *MemoryBacking {
	return &MemoryBacking{memory: memory}
}

// ReadWord fetches a word from the backing memory.
func (m *MemoryBacking) ReadWord(addr uint32) uint32 {
	return m.memory.Read32(addr)
}

// WriteWord stores a word to the backing memory.
func (m *MemoryBacking) WriteWord(addr uint32, value uint32) {
	m.memory.Write32(addr, value)
}
