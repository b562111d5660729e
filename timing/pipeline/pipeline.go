package pipeline

import (
	"github.com/mboyer87/mipsim/emu"
	"github.com/mboyer87/mipsim/insts"
)

// Statistics holds pipeline performance counters.
type Statistics struct {
	// Cycles is the total number of cycles simulated.
	Cycles uint64
	// Retired is the number of valid retirements in WB, bubbles included.
	Retired uint64
	// Bubbles is the number of load-use bubbles injected in ID.
	Bubbles uint64
	// MemStalls is the number of cycles MEM held the pipeline.
	MemStalls uint64
	// FetchStalls is the number of cycles IF was denied by memory.
	FetchStalls uint64
	// Flushes is the number of taken branches, jumps, and jump-registers.
	Flushes uint64
	// Forwards is the number of operands overridden by forwarding.
	Forwards uint64
}

// Instructions returns the number of architectural instructions retired.
func (s Statistics) Instructions() uint64 {
	return s.Retired - s.Bubbles
}

// CPI returns the cycles per retired instruction.
func (s Statistics) CPI() float64 {
	n := s.Instructions()
	if n == 0 {
		return 0
	}
	return float64(s.Cycles) / float64(n)
}

// Pipeline implements the 5-stage in-order pipeline model:
// Fetch (IF) -> Decode (ID) -> Execute (EX) -> Memory (MEM) -> Writeback (WB).
//
// Data hazards are resolved by forwarding from EX/MEM and MEM/WB; a load
// followed immediately by a consumer stalls one cycle with an injected
// bubble. Branches and jumps resolve in EX, redirect the fetch pointer, and
// flush the two younger stages. A denied memory request in MEM freezes
// everything upstream for the cycle.
type Pipeline struct {
	// Pipeline registers.
	ifid  IFIDRegister
	idex  IDEXRegister
	exmem EXMEMRegister
	memwb MEMWBRegister

	// Pipeline stages.
	fetchStage     *FetchStage
	decodeStage    *DecodeStage
	executeStage   *ExecuteStage
	memoryStage    *MemoryStage
	writebackStage *WritebackStage

	// Hazard detection.
	hazardUnit *HazardUnit

	// Shared resources.
	regFile *emu.RegFile
	memory  emu.Port

	// fetchPC is the speculative fetch pointer. It runs ahead of the
	// committed PC and is the only PC the control-hazard logic redirects.
	fetchPC uint32

	// lastWrite models the register write-port latch: the most recent
	// retired register write. A memory stall can delay a consumer's EX past
	// its producer's retirement, after which neither EX/MEM nor MEM/WB
	// holds the value and the ID-time register read predates the write.
	lastWrite struct {
		valid bool
		reg   uint32
		value uint32
	}

	stats Statistics
}

// NewPipeline creates a new 5-stage pipeline over the given register file
// and memory port.
func NewPipeline(regFile *emu.RegFile, memory emu.Port) *Pipeline {
	return &Pipeline{
		fetchStage:     NewFetchStage(memory),
		decodeStage:    NewDecodeStage(regFile),
		executeStage:   NewExecuteStage(),
		memoryStage:    NewMemoryStage(memory),
		writebackStage: NewWritebackStage(regFile),
		hazardUnit:     NewHazardUnit(),
		regFile:        regFile,
		memory:         memory,
	}
}

// PC returns the committed program counter.
func (p *Pipeline) PC() uint32 {
	return p.regFile.PC
}

// FetchPC returns the speculative fetch pointer.
func (p *Pipeline) FetchPC() uint32 {
	return p.fetchPC
}

// SetPC sets both the committed PC and the fetch pointer.
func (p *Pipeline) SetPC(pc uint32) {
	p.fetchPC = pc
	p.regFile.PC = pc
}

// GetIFID returns the IF/ID pipeline register.
func (p *Pipeline) GetIFID() *IFIDRegister {
	return &p.ifid
}

// GetIDEX returns the ID/EX pipeline register.
func (p *Pipeline) GetIDEX() *IDEXRegister {
	return &p.idex
}

// GetEXMEM returns the EX/MEM pipeline register.
func (p *Pipeline) GetEXMEM() *EXMEMRegister {
	return &p.exmem
}

// GetMEMWB returns the MEM/WB pipeline register.
func (p *Pipeline) GetMEMWB() *MEMWBRegister {
	return &p.memwb
}

// Stats returns pipeline statistics.
func (p *Pipeline) Stats() Statistics {
	return p.stats
}

// Reset clears all pipeline state and statistics.
func (p *Pipeline) Reset() {
	p.ifid.Clear()
	p.idex.Clear()
	p.exmem.Clear()
	p.memwb.Clear()
	p.memoryStage.readDone = false
	p.fetchPC = 0
	p.lastWrite.valid = false
	p.stats = Statistics{}
}

// Tick executes one pipeline cycle.
//
// Stages run in reverse order (WB, MEM, EX, ID, IF): each stage consumes its
// input latch and invalidates it before the upstream stage rewrites it, so
// no double-buffering is needed. Forwarding and load-use decisions are pure
// functions of the start-of-cycle latch snapshot, taken before WB and MEM
// consume their inputs: the instruction one ahead of EX is found in the
// EX/MEM snapshot, the one two ahead in the MEM/WB snapshot.
//
// A denied MEM request ends the cycle after WB: EX, ID and IF keep their
// latches for retry. A load-use hazard ends the cycle after EX with a bubble
// in ID/EX, IF/ID held, and the fetch pointer frozen.
func (p *Pipeline) Tick() {
	p.stats.Cycles++

	exmemSnap := p.exmem
	memwbSnap := p.memwb

	loadUse := p.ifid.Valid && p.hazardUnit.DetectLoadUse(
		&p.idex, insts.Rs(p.ifid.Instruction), insts.Rt(p.ifid.Instruction))

	// Stage 5: Writeback.
	if p.writebackStage.Writeback(&p.memwb) {
		p.stats.Retired++
		if memwbSnap.RegWrite && memwbSnap.WriteReg != 0 {
			p.lastWrite.valid = true
			p.lastWrite.reg = memwbSnap.WriteReg
			p.lastWrite.value = writebackValue(&memwbSnap)
		}
	}

	// Stage 4: Memory. A denied request stalls everything younger.
	if !p.memoryStage.Access(&p.exmem, &p.memwb) {
		p.stats.MemStalls++
		return
	}

	// Stage 3: Execute.
	p.execute(&exmemSnap, &memwbSnap)

	// Stage 2: Decode.
	if loadUse && p.ifid.Valid {
		p.insertBubble()
		p.stats.Bubbles++
		return
	}
	if p.ifid.Valid {
		p.idex = p.decodeStage.Decode(&p.ifid)
		p.ifid.Clear()
	}

	// Stage 1: Fetch.
	if p.fetchStage.Fetch(p.fetchPC, &p.ifid) {
		p.fetchPC += 4
	} else {
		p.stats.FetchStalls++
	}
}

// execute runs the EX stage: operand selection with forwarding, ALU
// execution, control-hazard resolution, and EX/MEM population.
func (p *Pipeline) execute(exmemSnap *EXMEMRegister, memwbSnap *MEMWBRegister) {
	if !p.idex.Valid {
		return
	}
	idex := &p.idex

	rsValue := p.forwardOperand(idex.Rs, idex.ReadData1, exmemSnap, memwbSnap)
	rtValue := p.forwardOperand(idex.Rt, idex.ReadData2, exmemSnap, memwbSnap)

	result := p.executeStage.Execute(idex, rsValue, rtValue)

	writeReg := idex.Rt
	switch {
	case idex.Ctrl.Link:
		writeReg = 31
	case idex.Ctrl.RegDest:
		writeReg = idex.Rd
	}

	p.exmem = EXMEMRegister{
		Valid:     true,
		RegWrite:  idex.Ctrl.RegWrite,
		MemToReg:  idex.Ctrl.MemToReg,
		Link:      idex.Ctrl.Link,
		MemRead:   idex.Ctrl.MemRead,
		MemWrite:  idex.Ctrl.MemWrite,
		Halfword:  idex.Ctrl.Halfword,
		Byte:      idex.Ctrl.Byte,
		ALUResult: result.ALUResult,
		WriteData: rtValue,
		WriteReg:  writeReg,
		PCCommit:  result.PCCommit,
		Zero:      result.Zero,
	}
	p.idex.Clear()

	if result.Redirect {
		p.fetchPC = result.Target
		p.flush()
		p.stats.Flushes++
	}
}

// forwardOperand picks the freshest value for one source register: the
// EX/MEM snapshot, then the MEM/WB snapshot, then the write-port latch for a
// producer that retired while a memory stall held this instruction in EX,
// and finally the value read in ID.
func (p *Pipeline) forwardOperand(reg, idValue uint32, exmemSnap *EXMEMRegister, memwbSnap *MEMWBRegister) uint32 {
	if src := p.hazardUnit.DetectForward(reg, exmemSnap, memwbSnap); src != ForwardNone {
		p.stats.Forwards++
		return p.hazardUnit.ForwardedValue(src, idValue, exmemSnap, memwbSnap)
	}
	if p.lastWrite.valid && reg != 0 && p.lastWrite.reg == reg {
		return p.lastWrite.value
	}
	return idValue
}

// insertBubble replaces ID/EX with an inert instruction while IF/ID keeps
// the stalled instruction for re-decode. The bubble re-commits the previous
// PC so retirement stays monotonic.
func (p *Pipeline) insertBubble() {
	p.idex.Clear()
	p.idex.Valid = true
	p.idex.PCPlus4 = p.ifid.PCPlus4 - 4
}

// flush squashes the speculatively fetched instructions in IF/ID and ID/EX.
func (p *Pipeline) flush() {
	p.ifid.Clear()
	p.idex.Clear()
}
