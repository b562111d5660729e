package emu

import (
	"github.com/mboyer87/mipsim/insts"
)

// Emulator is the single-cycle reference model: one Step performs
// IF, ID, EX, MEM and WB for a single instruction, with no latches and no
// forwarding. It is the functional oracle for the pipelined model.
type Emulator struct {
	regFile *RegFile
	memory  Port
	decoder *insts.Decoder
	alu     *ALU

	instructionCount uint64
}

// NewEmulator creates a single-cycle model over the given register file and
// memory port.
func NewEmulator(regFile *RegFile, memory Port) *Emulator {
	return &Emulator{
		regFile: regFile,
		memory:  memory,
		decoder: insts.NewDecoder(),
		alu:     NewALU(),
	}
}

// InstructionCount returns the number of instructions executed.
func (e *Emulator) InstructionCount() uint64 {
	return e.instructionCount
}

// Step executes one instruction. It returns false when a memory request was
// denied, in which case no architectural state changed and the same
// instruction is retried on the next call; every state update is deferred
// until all memory requests of the instruction have been granted.
func (e *Emulator) Step() bool {
	var word uint32
	if !e.memory.Access(e.regFile.PC, &word, 0, true, false) {
		return false
	}

	control := e.decoder.Decode(word)
	rs := insts.Rs(word)
	rt := insts.Rt(word)
	rd := insts.Rd(word)
	shamt := insts.Shamt(word)
	funct := insts.Funct(word)
	imm := insts.ExtendImmediate(word, control.ZeroExtend)

	var readData1, readData2 uint32
	e.regFile.Access(rs, rt, &readData1, &readData2, 0, false, 0)

	operand1 := readData1
	if control.Shift {
		operand1 = shamt
	}
	operand2 := readData2
	if control.ALUSrc {
		operand2 = imm
	}

	e.alu.GenerateControlInputs(control.ALUOp, funct, insts.Opcode(word))
	aluResult, aluZero := e.alu.Execute(operand1, operand2)

	var memData uint32
	if control.MemRead || control.MemWrite {
		if !e.memory.Access(aluResult, &memData, 0, true, false) {
			return false
		}
		if control.MemWrite {
			writeData := readData2
			switch {
			case control.Halfword:
				writeData = memData&0xFFFF0000 | readData2&0xFFFF
			case control.Byte:
				writeData = memData&0xFFFFFF00 | readData2&0xFF
			}
			if !e.memory.Access(aluResult, nil, writeData, false, true) {
				return false
			}
		}
		if control.MemRead {
			switch {
			case control.Halfword:
				memData &= 0xFFFF
			case control.Byte:
				memData &= 0xFF
			}
		}
	}

	pcPlus4 := e.regFile.PC + 4

	writeReg := rt
	if control.Link {
		writeReg = 31
	} else if control.RegDest {
		writeReg = rd
	}
	writeData := aluResult
	switch {
	case control.Link:
		writeData = pcPlus4
	case control.MemToReg:
		writeData = memData
	}
	if control.RegWrite {
		e.regFile.Access(0, 0, nil, nil, writeReg, true, writeData)
	}

	nextPC := pcPlus4
	takeBranch := (control.Branch && !control.BNE && aluZero) ||
		(control.Branch && control.BNE && !aluZero)
	switch {
	case takeBranch:
		nextPC = pcPlus4 + imm<<2
	case control.Jump:
		nextPC = pcPlus4&0xF0000000 | insts.Target(word)<<2
	case control.JumpReg:
		nextPC = readData1
	}
	e.regFile.PC = nextPC

	e.instructionCount++
	return true
}
