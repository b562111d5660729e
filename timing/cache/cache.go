// Package cache provides an optional cache latency model for the memory
// port, built on Akita cache components.
package cache

import (
	akitacache "github.com/sarchlab/akita/v4/mem/cache"
)

// Config holds cache configuration parameters.
type Config struct {
	// Size in bytes.
	Size int
	// Associativity (number of ways).
	Associativity int
	// BlockSize in bytes (cache line size).
	BlockSize int
	// HitLatency in cycles. 1 means a hit is granted the cycle it is issued.
	HitLatency uint64
	// MissLatency in cycles (includes the backing memory access).
	MissLatency uint64
}

// DefaultConfig returns a small unified cache in the spirit of early MIPS
// parts: 4KB, 2-way, 16B lines, single-cycle hits.
func DefaultConfig() Config {
	return Config{
		Size:          4 * 1024,
		Associativity: 2,
		BlockSize:     16,
		HitLatency:    1,
		MissLatency:   10,
	}
}

// AccessResult contains the result of a cache access.
type AccessResult struct {
	// Hit indicates whether the access was a cache hit.
	Hit bool
	// Latency is the number of cycles this access takes.
	Latency uint64
	// Data is the word read (for read accesses).
	Data uint32
	// Evicted is true if a valid block was evicted.
	Evicted bool
	// EvictedAddr is the block address of the evicted block.
	EvictedAddr uint32
}

// BackingStore is the next level in the memory hierarchy, accessed at word
// granularity.
type BackingStore interface {
	// ReadWord fetches the word at a byte address.
	ReadWord(addr uint32) uint32
	// WriteWord stores a word at a byte address.
	WriteWord(addr uint32, value uint32)
}

// Statistics holds cache performance statistics.
type Statistics struct {
	Reads      uint64
	Writes     uint64
	Hits       uint64
	Misses     uint64
	Evictions  uint64
	Writebacks uint64
}

// Cache is a write-back, write-allocate cache using Akita cache components
// for tag, state and LRU bookkeeping. Accesses are word-granular; partial
// word merging is the memory stage's job.
type Cache struct {
	config Config

	// Akita cache directory for tag/state management.
	directory *akitacache.DirectoryImpl

	// Data storage - indexed by (setID * associativity + wayID), words.
	dataStore [][]uint32

	backing BackingStore

	stats Statistics
}

// New creates a new cache with the given configuration and backing store.
func New(config Config, backing BackingStore) *Cache {
	numSets := config.Size / (config.Associativity * config.BlockSize)
	totalBlocks := numSets * config.Associativity

	dataStore := make([][]uint32, totalBlocks)
	for i := range dataStore {
		dataStore[i] = make([]uint32, config.BlockSize/4)
	}

	return &Cache{
		config: config,
		directory: akitacache.NewDirectory(
			numSets,
			config.Associativity,
			config.BlockSize,
			akitacache.NewLRUVictimFinder(),
		),
		dataStore: dataStore,
		backing:   backing,
	}
}

// Config returns the cache configuration.
func (c *Cache) Config() Config {
	return c.config
}

// Stats returns cache statistics.
func (c *Cache) Stats() Statistics {
	return c.stats
}

// blockIndex computes the index into dataStore for a block.
func (c *Cache) blockIndex(block *akitacache.Block) int {
	return block.SetID*c.config.Associativity + block.WayID
}

func (c *Cache) blockAddr(addr uint32) uint32 {
	return addr / uint32(c.config.BlockSize) * uint32(c.config.BlockSize)
}

func (c *Cache) wordIndex(addr uint32) int {
	return int(addr%uint32(c.config.BlockSize)) / 4
}

// Read performs a word read.
func (c *Cache) Read(addr uint32) AccessResult {
	c.stats.Reads++

	blockAddr := c.blockAddr(addr)
	block := c.directory.Lookup(0, uint64(blockAddr))

	if block != nil && block.IsValid {
		c.stats.Hits++
		c.directory.Visit(block)
		return AccessResult{
			Hit:     true,
			Latency: c.config.HitLatency,
			Data:    c.dataStore[c.blockIndex(block)][c.wordIndex(addr)],
		}
	}

	c.stats.Misses++
	return c.handleMiss(addr, false, 0)
}

// Write performs a word write. Write-allocate: on miss the block is fetched
// first, then written.
func (c *Cache) Write(addr uint32, value uint32) AccessResult {
	c.stats.Writes++

	blockAddr := c.blockAddr(addr)
	block := c.directory.Lookup(0, uint64(blockAddr))

	if block != nil && block.IsValid {
		c.stats.Hits++
		c.directory.Visit(block)
		c.dataStore[c.blockIndex(block)][c.wordIndex(addr)] = value
		block.IsDirty = true
		return AccessResult{
			Hit:     true,
			Latency: c.config.HitLatency,
		}
	}

	c.stats.Misses++
	return c.handleMiss(addr, true, value)
}

// handleMiss fetches the block from the backing store, evicting and writing
// back a victim if needed.
func (c *Cache) handleMiss(addr uint32, isWrite bool, writeValue uint32) AccessResult {
	result := AccessResult{
		Latency: c.config.MissLatency,
	}

	blockAddr := c.blockAddr(addr)
	victim := c.directory.FindVictim(uint64(blockAddr))
	if victim == nil {
		return result
	}

	victimData := c.dataStore[c.blockIndex(victim)]

	if victim.IsValid {
		c.stats.Evictions++
		result.Evicted = true
		result.EvictedAddr = uint32(victim.Tag)

		if victim.IsDirty && c.backing != nil {
			c.stats.Writebacks++
			c.writeBackBlock(uint32(victim.Tag), victimData)
		}
	}

	if c.backing != nil {
		for i := range victimData {
			victimData[i] = c.backing.ReadWord(blockAddr + uint32(i*4))
		}
	} else {
		for i := range victimData {
			victimData[i] = 0
		}
	}

	victim.Tag = uint64(blockAddr)
	victim.IsValid = true
	victim.IsDirty = false

	if isWrite {
		victimData[c.wordIndex(addr)] = writeValue
		victim.IsDirty = true
	} else {
		result.Data = victimData[c.wordIndex(addr)]
	}

	c.directory.Visit(victim)

	return result
}

func (c *Cache) writeBackBlock(blockAddr uint32, data []uint32) {
	for i, w := range data {
		c.backing.WriteWord(blockAddr+uint32(i*4), w)
	}
}

// Flush writes back all dirty blocks and invalidates everything.
func (c *Cache) Flush() {
	for _, set := range c.directory.GetSets() {
		for _, block := range set.Blocks {
			if block.IsValid && block.IsDirty && c.backing != nil {
				c.stats.Writebacks++
				c.writeBackBlock(uint32(block.Tag), c.dataStore[c.blockIndex(block)])
			}
			block.IsValid = false
			block.IsDirty = false
		}
	}
}

// Reset invalidates all cache lines without writeback and clears statistics.
func (c *Cache) Reset() {
	c.directory.Reset()
	c.stats = Statistics{}
}
