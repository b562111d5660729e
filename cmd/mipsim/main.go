// Package main provides the mipsim command-line driver.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mboyer87/mipsim/emu"
	"github.com/mboyer87/mipsim/loader"
	"github.com/mboyer87/mipsim/timing/cache"
	"github.com/mboyer87/mipsim/timing/core"
	"github.com/mboyer87/mipsim/timing/latency"
)

var (
	single     = flag.Bool("single", false, "Use the single-cycle reference model")
	maxCycles  = flag.Uint64("cycles", 100000, "Maximum number of cycles to simulate")
	configPath = flag.String("config", "", "Path to memory timing configuration JSON file")
	useCache   = flag.Bool("cache", false, "Enable the cache latency model")
	trace      = flag.Bool("trace", false, "Dump the register file every cycle")
	verbose    = flag.Bool("v", false, "Verbose output")
)

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: mipsim [options] <program.bin|program.elf>\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	prog, err := loader.Load(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading program: %v\n", err)
		os.Exit(1)
	}

	timing := latency.DefaultTimingConfig()
	if *configPath != "" {
		timing, err = latency.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading timing config: %v\n", err)
			os.Exit(1)
		}
	}
	if *useCache {
		timing.UseCache = true
	}

	memory := emu.NewMemoryWithLatency(timing.MemoryAccessLatency)
	prog.Install(memory)

	var port emu.Port = memory
	var cached *cache.CachedMemory
	if timing.UseCache {
		c := cache.New(cache.Config{
			Size:          timing.CacheSize,
			Associativity: timing.CacheAssociativity,
			BlockSize:     timing.CacheBlockSize,
			HitLatency:    timing.CacheHitLatency,
			MissLatency:   timing.CacheMissLatency,
		}, cache.NewMemoryBacking(memory))
		cached = cache.NewCachedMemory(c)
		port = cached
	}

	c := core.New(port)
	if *single {
		c.Initialize(core.OptSingleCycle)
	} else {
		c.Initialize(core.OptPipelined)
	}
	c.SetPC(prog.EntryPoint)

	if *verbose {
		fmt.Printf("Loaded: %s\n", flag.Arg(0))
		fmt.Printf("Entry point: 0x%x\n", prog.EntryPoint)
		fmt.Printf("Image end: 0x%x\n", prog.End())
	}

	end := prog.End()
	var cycle uint64
	for cycle = 1; cycle <= *maxCycles; cycle++ {
		c.Advance()
		if *trace {
			fmt.Printf("CYCLE %d\n", cycle)
			c.PrintRegFile()
		}
		// Stop once the committed PC has run off the loaded image.
		if c.PC() >= end {
			break
		}
	}

	if cached != nil {
		cached.Flush()
	}

	stats := c.Stats()
	fmt.Printf("CYCLE %d\n", stats.Cycles)
	c.PrintRegFile()

	if *verbose {
		fmt.Printf("\nInstructions retired: %d\n", stats.Instructions)
		if !*single {
			fmt.Printf("Bubbles: %d\n", stats.Bubbles)
			fmt.Printf("Memory stalls: %d\n", stats.MemStalls)
			fmt.Printf("Fetch stalls: %d\n", stats.FetchStalls)
			fmt.Printf("Flushes: %d\n", stats.Flushes)
		}
		if cached != nil {
			cs := cached.Cache().Stats()
			fmt.Printf("Cache: %d hits, %d misses, %d writebacks\n",
				cs.Hits, cs.Misses, cs.Writebacks)
		}
	}
}
