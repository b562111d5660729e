// Package pipeline provides the five-stage in-order pipeline model of the
// MIPS-I core.
package pipeline

import "github.com/mboyer87/mipsim/insts"

// IFIDRegister holds state between the Fetch and Decode stages.
type IFIDRegister struct {
	// Valid indicates if this pipeline register contains valid data.
	Valid bool

	// Instruction is the raw 32-bit instruction word.
	Instruction uint32

	// PCPlus4 is the sequential successor of the fetched instruction's address.
	PCPlus4 uint32
}

// Clear resets the IF/ID register to empty state.
func (r *IFIDRegister) Clear() {
	*r = IFIDRegister{}
}

// IDEXRegister holds state between the Decode and Execute stages.
type IDEXRegister struct {
	// Valid indicates if this pipeline register contains valid data.
	// A bubble is Valid with an inert control word.
	Valid bool

	// Ctrl is the decoded control word.
	Ctrl insts.ControlSignals

	// PCPlus4 is carried for branch targets and sequential commit.
	PCPlus4 uint32

	// Register file values read in ID.
	ReadData1 uint32
	ReadData2 uint32

	// Imm is the immediate, already sign- or zero-extended to 32 bits.
	Imm uint32

	// Target is the raw 26-bit jump target field.
	Target uint32

	// Register indices for forwarding and destination selection.
	Rs uint32
	Rt uint32
	Rd uint32

	// Fields consumed by ALU control generation.
	Opcode uint32
	Funct  uint32
	Shamt  uint32
}

// Clear resets the ID/EX register to empty state.
func (r *IDEXRegister) Clear() {
	*r = IDEXRegister{}
}

// EXMEMRegister holds state between the Execute and Memory stages.
type EXMEMRegister struct {
	// Valid indicates if this pipeline register contains valid data.
	Valid bool

	// Writeback-relevant control.
	RegWrite bool
	MemToReg bool
	Link     bool

	// Memory-relevant control.
	MemRead  bool
	MemWrite bool
	Halfword bool
	Byte     bool

	// ALUResult is the computed value, or the address for loads and stores.
	ALUResult uint32

	// WriteData is the store payload, already forwarded.
	WriteData uint32

	// WriteReg is the destination register index.
	WriteReg uint32

	// PCCommit is the PC retired when this instruction reaches WB.
	PCCommit uint32

	// Zero is the ALU zero flag.
	Zero bool
}

// Clear resets the EX/MEM register to empty state.
func (r *EXMEMRegister) Clear() {
	*r = EXMEMRegister{}
}

// MEMWBRegister holds state between the Memory and Writeback stages.
type MEMWBRegister struct {
	// Valid indicates if this pipeline register contains valid data.
	Valid bool

	// Control signals.
	RegWrite bool
	MemToReg bool
	Link     bool

	// ALUResult is the computed value; for link instructions it carries the
	// return address computed in EX.
	ALUResult uint32

	// MemReadData is the loaded value, already masked per load width.
	MemReadData uint32

	// WriteReg is the destination register index.
	WriteReg uint32

	// PCCommit becomes the architectural PC when this instruction retires.
	PCCommit uint32
}

// Clear resets the MEM/WB register to empty state.
func (r *MEMWBRegister) Clear() {
	*r = MEMWBRegister{}
}
