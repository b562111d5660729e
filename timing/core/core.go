// Package core provides the public CPU core API: model selection between the
// single-cycle reference implementation and the five-stage pipeline, and the
// per-cycle advance entry point.
package core

import (
	"io"
	"os"

	"github.com/mboyer87/mipsim/emu"
	"github.com/mboyer87/mipsim/timing/pipeline"
)

// Optimization levels accepted by Initialize.
const (
	// OptSingleCycle selects the single-cycle reference model.
	OptSingleCycle = 0
	// OptPipelined selects the five-stage pipeline.
	OptPipelined = 1
)

// Stats holds core performance counters. In single-cycle mode only Cycles
// and Instructions are meaningful.
type Stats struct {
	// Cycles is the total number of cycles simulated.
	Cycles uint64
	// Instructions is the number of architectural instructions retired.
	Instructions uint64
	// Bubbles is the number of load-use bubbles injected.
	Bubbles uint64
	// MemStalls is the number of cycles the memory stage held the pipeline.
	MemStalls uint64
	// FetchStalls is the number of cycles fetch was denied by memory.
	FetchStalls uint64
	// Flushes is the number of taken control transfers.
	Flushes uint64
}

// Core is the MIPS-I processor core. It owns the architectural register file
// and drives whichever execution model Initialize selects against the
// externally owned memory.
type Core struct {
	regFile *emu.RegFile
	memory  emu.Port

	optLevel int
	emulator *emu.Emulator
	pipe     *pipeline.Pipeline

	cycles uint64
}

// New creates a core over the given memory. The core starts in single-cycle
// mode with PC 0; call Initialize to pick a model.
func New(memory emu.Port) *Core {
	c := &Core{
		regFile: &emu.RegFile{},
		memory:  memory,
	}
	c.Initialize(OptSingleCycle)
	return c
}

// RegFile returns the architectural register file.
func (c *Core) RegFile() *emu.RegFile {
	return c.regFile
}

// Initialize selects the execution model: OptSingleCycle for the reference
// model, OptPipelined for the five-stage pipeline. Pipeline latches are
// reset; architectural state is preserved.
func (c *Core) Initialize(optLevel int) {
	c.optLevel = optLevel
	switch optLevel {
	case OptPipelined:
		c.pipe = pipeline.NewPipeline(c.regFile, c.memory)
		c.pipe.SetPC(c.regFile.PC)
		c.emulator = nil
	default:
		c.emulator = emu.NewEmulator(c.regFile, c.memory)
		c.pipe = nil
	}
}

// SetPC sets the committed PC (and, in pipelined mode, the fetch pointer).
func (c *Core) SetPC(pc uint32) {
	c.regFile.PC = pc
	if c.pipe != nil {
		c.pipe.SetPC(pc)
	}
}

// Advance executes one logical cycle of the selected model.
func (c *Core) Advance() {
	switch c.optLevel {
	case OptPipelined:
		c.pipe.Tick()
	default:
		c.cycles++
		c.emulator.Step()
	}
}

// PC returns the committed program counter.
func (c *Core) PC() uint32 {
	return c.regFile.PC
}

// Stats returns performance counters for the selected model.
func (c *Core) Stats() Stats {
	if c.optLevel == OptPipelined {
		ps := c.pipe.Stats()
		return Stats{
			Cycles:       ps.Cycles,
			Instructions: ps.Instructions(),
			Bubbles:      ps.Bubbles,
			MemStalls:    ps.MemStalls,
			FetchStalls:  ps.FetchStalls,
			Flushes:      ps.Flushes,
		}
	}
	return Stats{
		Cycles:       c.cycles,
		Instructions: c.emulator.InstructionCount(),
	}
}

// Pipeline returns the underlying pipeline in pipelined mode, nil otherwise.
func (c *Core) Pipeline() *pipeline.Pipeline {
	return c.pipe
}

// FprintRegFile writes the register file contents to w.
func (c *Core) FprintRegFile(w io.Writer) {
	c.regFile.Fprint(w)
}

// PrintRegFile writes the register file contents to stdout.
func (c *Core) PrintRegFile() {
	c.FprintRegFile(os.Stdout)
}
