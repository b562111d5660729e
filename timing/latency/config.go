// Package latency provides the memory-timing configuration for the
// simulator: flat access latency for the bare word memory, or geometry and
// latencies for the cache model.
package latency

import (
	"encoding/json"
	"fmt"
	"os"
)

// TimingConfig holds memory subsystem timing parameters.
type TimingConfig struct {
	// MemoryAccessLatency is the number of denied cycles preceding each
	// grant on the bare memory port. 0 means always ready. Ignored when
	// UseCache is set.
	MemoryAccessLatency int `json:"memory_access_latency"`

	// UseCache enables the cache latency model in front of memory.
	UseCache bool `json:"use_cache"`

	// CacheSize is the cache capacity in bytes.
	CacheSize int `json:"cache_size"`

	// CacheAssociativity is the number of ways.
	CacheAssociativity int `json:"cache_associativity"`

	// CacheBlockSize is the line size in bytes.
	CacheBlockSize int `json:"cache_block_size"`

	// CacheHitLatency is the hit cost in cycles; 1 grants the issuing cycle.
	CacheHitLatency uint64 `json:"cache_hit_latency"`

	// CacheMissLatency is the miss cost in cycles, backing access included.
	CacheMissLatency uint64 `json:"cache_miss_latency"`
}

// DefaultTimingConfig returns an ideal memory: always ready, no cache.
func DefaultTimingConfig() *TimingConfig {
	return &TimingConfig{
		MemoryAccessLatency: 0,
		UseCache:            false,
		CacheSize:           4 * 1024,
		CacheAssociativity:  2,
		CacheBlockSize:      16,
		CacheHitLatency:     1,
		CacheMissLatency:    10,
	}
}

// LoadConfig reads a TimingConfig from a JSON file. Fields absent from the
// file keep their default values.
func LoadConfig(path string) (*TimingConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read timing config: %w", err)
	}

	config := DefaultTimingConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse timing config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks the configuration for consistency.
func (c *TimingConfig) Validate() error {
	if c.MemoryAccessLatency < 0 {
		return fmt.Errorf("memory_access_latency must be non-negative, got %d", c.MemoryAccessLatency)
	}
	if !c.UseCache {
		return nil
	}
	if c.CacheSize <= 0 || c.CacheAssociativity <= 0 || c.CacheBlockSize <= 0 {
		return fmt.Errorf("cache geometry must be positive: size=%d ways=%d block=%d",
			c.CacheSize, c.CacheAssociativity, c.CacheBlockSize)
	}
	if c.CacheBlockSize%4 != 0 {
		return fmt.Errorf("cache_block_size must be a multiple of 4, got %d", c.CacheBlockSize)
	}
	if c.CacheSize%(c.CacheAssociativity*c.CacheBlockSize) != 0 {
		return fmt.Errorf("cache_size %d is not divisible by ways*block (%d*%d)",
			c.CacheSize, c.CacheAssociativity, c.CacheBlockSize)
	}
	return nil
}
