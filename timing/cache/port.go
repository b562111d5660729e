package cache

// request tracks an in-flight port request: remaining denied cycles and the
// data captured when the cache access was performed.
type request struct {
	remaining uint64
	data      uint32
}

// CachedMemory puts a Cache behind the core's memory port. The cache access
// runs once when a request first arrives; the port then answers "not ready"
// until the access latency has elapsed and grants the request with the
// captured data. Fetch and data requests count down independently, so the
// shared port never starves one side.
type CachedMemory struct {
	cache   *Cache
	pending map[uint64]request
}

// NewCachedMemory creates a memory port backed by the given cache.
func NewCachedMemory(c *Cache) *CachedMemory {
	return &CachedMemory{
		cache:   c,
		pending: make(map[uint64]request),
	}
}

// Cache returns the underlying cache, for statistics and flushing.
func (m *CachedMemory) Cache() *Cache {
	return m.cache
}

// Flush writes all dirty lines back to the backing memory.
func (m *CachedMemory) Flush() {
	m.cache.Flush()
}

func portKey(addr uint32, doRead, doWrite bool) uint64 {
	key := uint64(addr)
	if doRead {
		key |= 1 << 32
	}
	if doWrite {
		key |= 1 << 33
	}
	return key
}

// Access implements emu.Port.
func (m *CachedMemory) Access(addr uint32, readOut *uint32, writeValue uint32, doRead, doWrite bool) bool {
	if !doRead && !doWrite {
		return true
	}

	key := portKey(addr, doRead, doWrite)
	req, inFlight := m.pending[key]
	if !inFlight {
		var result AccessResult
		if doWrite {
			result = m.cache.Write(addr, writeValue)
		} else {
			result = m.cache.Read(addr)
		}
		if result.Latency <= 1 {
			if doRead && readOut != nil {
				*readOut = result.Data
			}
			return true
		}
		m.pending[key] = request{remaining: result.Latency - 1, data: result.Data}
		return false
	}

	req.remaining--
	if req.remaining > 0 {
		m.pending[key] = req
		return false
	}
	delete(m.pending, key)
	if doRead && readOut != nil {
		*readOut = req.data
	}
	return true
}
