package emu

// Port is the single memory operation the core sees. An implementation
// answers one request per call: when it returns true and doRead is set,
// *readOut holds the 32-bit word at addr; when it returns true and doWrite
// is set, writeValue has been stored at addr. Returning false means the
// request was denied this cycle and must be reissued. Addresses are byte
// addresses assumed word-aligned; misalignment is the caller's problem.
type Port interface {
	Access(addr uint32, readOut *uint32, writeValue uint32, doRead, doWrite bool) bool
}

// Memory is a sparse word-addressable store implementing Port. With
// AccessLatency zero every request is granted immediately; with latency N
// each request is denied N times before the grant, which is what produces
// the pipeline's structural stalls.
type Memory struct {
	words map[uint32]uint32

	// AccessLatency is the number of denied cycles preceding each grant.
	AccessLatency int

	// pending tracks denial counts per outstanding request, keyed by
	// address and direction, so interleaved fetch and data requests each
	// pay the full latency without starving one another.
	pending map[uint64]int
}

// NewMemory creates an empty always-ready memory.
func NewMemory() *Memory {
	return &Memory{words: make(map[uint32]uint32), pending: make(map[uint64]int)}
}

// NewMemoryWithLatency creates a memory that denies each request the given
// number of times before granting it.
func NewMemoryWithLatency(latency int) *Memory {
	m := NewMemory()
	m.AccessLatency = latency
	return m
}

func requestKey(addr uint32, doRead, doWrite bool) uint64 {
	key := uint64(addr)
	if doRead {
		key |= 1 << 32
	}
	if doWrite {
		key |= 1 << 33
	}
	return key
}

// Access implements Port.
func (m *Memory) Access(addr uint32, readOut *uint32, writeValue uint32, doRead, doWrite bool) bool {
	if !doRead && !doWrite {
		return true
	}
	if m.AccessLatency > 0 {
		key := requestKey(addr, doRead, doWrite)
		if m.pending[key] < m.AccessLatency {
			m.pending[key]++
			return false
		}
		delete(m.pending, key)
	}
	if doWrite {
		m.words[addr>>2] = writeValue
	}
	if doRead {
		if readOut != nil {
			*readOut = m.words[addr>>2]
		}
	}
	return true
}

// Read32 reads a word directly, bypassing the port's ready handshake.
// Intended for loaders and tests.
func (m *Memory) Read32(addr uint32) uint32 {
	return m.words[addr>>2]
}

// Write32 writes a word directly, bypassing the port's ready handshake.
func (m *Memory) Write32(addr uint32, value uint32) {
	m.words[addr>>2] = value
}
