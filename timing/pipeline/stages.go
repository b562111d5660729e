package pipeline

import (
	"github.com/mboyer87/mipsim/emu"
	"github.com/mboyer87/mipsim/insts"
)

// FetchStage issues instruction fetches through the memory port.
type FetchStage struct {
	memory emu.Port
}

// NewFetchStage creates a new fetch stage.
func NewFetchStage(memory emu.Port) *FetchStage {
	return &FetchStage{memory: memory}
}

// Fetch reads the instruction at pc into the IF/ID register. It returns
// false when the memory port denies the request, leaving the register
// untouched so the fetch is reissued next cycle.
func (s *FetchStage) Fetch(pc uint32, ifid *IFIDRegister) bool {
	var word uint32
	if !s.memory.Access(pc, &word, 0, true, false) {
		return false
	}
	ifid.Instruction = word
	ifid.PCPlus4 = pc + 4
	ifid.Valid = true
	return true
}

// DecodeStage decodes instruction words and reads the register file.
type DecodeStage struct {
	regFile *emu.RegFile
	decoder *insts.Decoder
}

// NewDecodeStage creates a new decode stage.
func NewDecodeStage(regFile *emu.RegFile) *DecodeStage {
	return &DecodeStage{
		regFile: regFile,
		decoder: insts.NewDecoder(),
	}
}

// Decode produces the ID/EX payload for the instruction in the IF/ID
// register: control word, extended immediate, and both register reads.
func (s *DecodeStage) Decode(ifid *IFIDRegister) IDEXRegister {
	word := ifid.Instruction
	ctrl := s.decoder.Decode(word)

	idex := IDEXRegister{
		Valid:   true,
		Ctrl:    ctrl,
		PCPlus4: ifid.PCPlus4,
		Imm:     insts.ExtendImmediate(word, ctrl.ZeroExtend),
		Target:  insts.Target(word),
		Rs:      insts.Rs(word),
		Rt:      insts.Rt(word),
		Rd:      insts.Rd(word),
		Opcode:  insts.Opcode(word),
		Funct:   insts.Funct(word),
		Shamt:   insts.Shamt(word),
	}
	s.regFile.Access(idex.Rs, idex.Rt, &idex.ReadData1, &idex.ReadData2, 0, false, 0)
	return idex
}

// ExecuteStage performs ALU execution and control-transfer resolution.
type ExecuteStage struct {
	alu *emu.ALU
}

// NewExecuteStage creates a new execute stage.
func NewExecuteStage() *ExecuteStage {
	return &ExecuteStage{alu: emu.NewALU()}
}

// ExecuteResult holds the result of the execute stage.
type ExecuteResult struct {
	// ALUResult is the computed value; for link instructions it carries the
	// return address instead.
	ALUResult uint32

	// Zero is the ALU zero flag.
	Zero bool

	// PCCommit is the architectural next-PC for this instruction.
	PCCommit uint32

	// Redirect indicates a taken branch, jump, or jump-register; Target is
	// where fetch must resume.
	Redirect bool
	Target   uint32
}

// Execute runs the ALU on the forwarded operands and resolves control
// transfers. rsValue and rtValue are the register operands after forwarding;
// the shamt and immediate substitutions happen here.
func (s *ExecuteStage) Execute(idex *IDEXRegister, rsValue, rtValue uint32) ExecuteResult {
	operand1 := rsValue
	if idex.Ctrl.Shift {
		operand1 = idex.Shamt
	}
	operand2 := rtValue
	if idex.Ctrl.ALUSrc {
		operand2 = idex.Imm
	}

	s.alu.GenerateControlInputs(idex.Ctrl.ALUOp, idex.Funct, idex.Opcode)
	aluResult, zero := s.alu.Execute(operand1, operand2)

	result := ExecuteResult{
		ALUResult: aluResult,
		Zero:      zero,
		PCCommit:  idex.PCPlus4,
	}
	if idex.Ctrl.Link {
		// Return address for JAL: the instruction after the jump.
		result.ALUResult = idex.PCPlus4
	}

	takeBranch := (idex.Ctrl.Branch && !idex.Ctrl.BNE && zero) ||
		(idex.Ctrl.Branch && idex.Ctrl.BNE && !zero)
	switch {
	case takeBranch:
		result.Redirect = true
		result.Target = idex.PCPlus4 + idex.Imm<<2
	case idex.Ctrl.Jump:
		result.Redirect = true
		result.Target = idex.PCPlus4&0xF0000000 | idex.Target<<2
	case idex.Ctrl.JumpReg:
		result.Redirect = true
		result.Target = rsValue
	}
	if result.Redirect {
		result.PCCommit = result.Target
	}

	return result
}

// MemoryStage performs load and store accesses through the memory port.
// Partial-word stores are a read-modify-write pair; progress across denied
// cycles is tracked so a granted read is not repeated when only the write
// was denied.
type MemoryStage struct {
	memory emu.Port

	readDone bool
	readData uint32
}

// NewMemoryStage creates a new memory stage.
func NewMemoryStage(memory emu.Port) *MemoryStage {
	return &MemoryStage{memory: memory}
}

// Access performs the memory work for the instruction in EX/MEM and, on
// success, moves it into MEM/WB. It returns false when a memory request was
// denied; EX/MEM is left unchanged and the whole step re-executes next cycle.
func (s *MemoryStage) Access(exmem *EXMEMRegister, memwb *MEMWBRegister) bool {
	if !exmem.Valid {
		return true
	}

	var memData uint32
	switch {
	case exmem.MemWrite && (exmem.Halfword || exmem.Byte):
		if !s.readDone {
			var current uint32
			if !s.memory.Access(exmem.ALUResult, &current, 0, true, false) {
				return false
			}
			s.readData = current
			s.readDone = true
		}
		merged := s.readData&0xFFFFFF00 | exmem.WriteData&0xFF
		if exmem.Halfword {
			merged = s.readData&0xFFFF0000 | exmem.WriteData&0xFFFF
		}
		if !s.memory.Access(exmem.ALUResult, nil, merged, false, true) {
			return false
		}
		s.readDone = false

	case exmem.MemWrite:
		if !s.memory.Access(exmem.ALUResult, nil, exmem.WriteData, false, true) {
			return false
		}

	case exmem.MemRead:
		if !s.memory.Access(exmem.ALUResult, &memData, 0, true, false) {
			return false
		}
		if exmem.Halfword {
			memData &= 0xFFFF
		} else if exmem.Byte {
			memData &= 0xFF
		}
	}

	*memwb = MEMWBRegister{
		Valid:       true,
		RegWrite:    exmem.RegWrite,
		MemToReg:    exmem.MemToReg,
		Link:        exmem.Link,
		ALUResult:   exmem.ALUResult,
		MemReadData: memData,
		WriteReg:    exmem.WriteReg,
		PCCommit:    exmem.PCCommit,
	}
	exmem.Clear()
	return true
}

// WritebackStage commits results to the register file and the architectural PC.
type WritebackStage struct {
	regFile *emu.RegFile
}

// NewWritebackStage creates a new writeback stage.
func NewWritebackStage(regFile *emu.RegFile) *WritebackStage {
	return &WritebackStage{regFile: regFile}
}

// writebackValue selects the value an instruction writes back: the return
// address for links, the loaded word for loads, the ALU result otherwise.
func writebackValue(memwb *MEMWBRegister) uint32 {
	switch {
	case memwb.Link:
		return memwb.ALUResult
	case memwb.MemToReg:
		return memwb.MemReadData
	default:
		return memwb.ALUResult
	}
}

// Writeback retires the instruction in MEM/WB, if any, and reports whether a
// retirement happened. The register write lands in the first half of the
// cycle; decode's reads happen afterwards.
func (s *WritebackStage) Writeback(memwb *MEMWBRegister) bool {
	if !memwb.Valid {
		return false
	}

	if memwb.RegWrite {
		s.regFile.Access(0, 0, nil, nil, memwb.WriteReg, true, writebackValue(memwb))
	}
	s.regFile.PC = memwb.PCCommit

	memwb.Clear()
	return true
}
