// Package emu provides the architectural state and the functional
// (single-cycle) model of the MIPS-I core.
package emu

import (
	"fmt"
	"io"
	"os"
)

// RegFile represents the MIPS register file: 32 general-purpose word
// registers R0..R31 plus the committed program counter. R0 always reads as
// zero and silently discards writes.
type RegFile struct {
	// R holds general-purpose registers R0-R31.
	R [32]uint32

	// PC is the committed program counter: the successor of the last
	// retired instruction.
	PC uint32
}

// ReadReg reads a register value. Register 0 returns 0.
func (r *RegFile) ReadReg(reg uint32) uint32 {
	if reg == 0 || reg >= 32 {
		return 0
	}
	return r.R[reg]
}

// WriteReg writes a value to a register. Writes to register 0 are ignored.
func (r *RegFile) WriteReg(reg uint32, value uint32) {
	if reg == 0 || reg >= 32 {
		return
	}
	r.R[reg] = value
}

// Access models the register file port: two simultaneous reads indexed by
// rs and rt, and an optional write. The write lands before the reads are
// taken, so a writeback and a decode in the same cycle observe the written
// value.
func (r *RegFile) Access(rs, rt uint32, rd1, rd2 *uint32, writeReg uint32, doWrite bool, writeData uint32) {
	if doWrite {
		r.WriteReg(writeReg, writeData)
	}
	if rd1 != nil {
		*rd1 = r.ReadReg(rs)
	}
	if rd2 != nil {
		*rd2 = r.ReadReg(rt)
	}
}

// Fprint writes the register file contents to w, one register per line.
func (r *RegFile) Fprint(w io.Writer) {
	for i := range r.R {
		fmt.Fprintf(w, "R[%d]: %d\n", i, int32(r.ReadReg(uint32(i))))
	}
	fmt.Fprintf(w, "PC: 0x%x\n", r.PC)
}

// Print writes the register file contents to stdout.
func (r *RegFile) Print() {
	r.Fprint(os.Stdout)
}
