package insts

// ALUOp selects how the ALU derives its internal operation (2-bit field).
const (
	// ALUOpAdd is used for address computation (loads and stores).
	ALUOpAdd uint32 = 0
	// ALUOpSub is used for branch comparison (BEQ/BNE).
	ALUOpSub uint32 = 1
	// ALUOpRType dispatches on the funct field.
	ALUOpRType uint32 = 2
	// ALUOpImm dispatches on the opcode for immediate-format arithmetic.
	ALUOpImm uint32 = 3
)

// ControlSignals is the per-instruction control word. At most one of
// Branch, Jump, JumpReg is set. Link implies the destination register is 31.
type ControlSignals struct {
	RegDest    bool // destination is rd rather than rt
	ALUSrc     bool // second ALU operand is the immediate
	RegWrite   bool // instruction writes the register file
	MemRead    bool // load
	MemWrite   bool // store
	MemToReg   bool // writeback value comes from memory
	Branch     bool // conditional branch
	BNE        bool // branch condition is not-equal
	Jump       bool // J/JAL
	JumpReg    bool // JR
	Link       bool // JAL: write return address to R31
	Shift      bool // first ALU operand is the shamt field
	ZeroExtend bool // zero-extend the immediate instead of sign-extending
	Halfword   bool // halfword-granular memory access
	Byte       bool // byte-granular memory access
	ALUOp      uint32
}

// Clear resets every control signal, leaving an inert control word.
func (c *ControlSignals) Clear() {
	*c = ControlSignals{}
}

// Decoder extracts control signals from raw instruction words.
type Decoder struct{}

// NewDecoder creates a new instruction decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode computes the control word for an instruction. Unrecognized opcodes
// produce an inert control word: no register write, no memory access, no
// control transfer, so the instruction flows through the pipeline as a no-op.
func (d *Decoder) Decode(word uint32) ControlSignals {
	var c ControlSignals

	switch Opcode(word) {
	case OpcodeRType:
		c.RegDest = true
		c.RegWrite = true
		c.ALUOp = ALUOpRType
		switch Funct(word) {
		case FunctSLL, FunctSRL, FunctSRA:
			c.Shift = true
		case FunctJR:
			c.JumpReg = true
			c.RegWrite = false
		}

	case OpcodeADDI, OpcodeADDIU, OpcodeSLTI, OpcodeSLTIU:
		c.ALUSrc = true
		c.RegWrite = true
		c.ALUOp = ALUOpImm

	case OpcodeANDI, OpcodeORI, OpcodeXORI, OpcodeLUI:
		c.ALUSrc = true
		c.RegWrite = true
		c.ZeroExtend = true
		c.ALUOp = ALUOpImm

	case OpcodeLW, OpcodeLH, OpcodeLHU, OpcodeLB, OpcodeLBU:
		c.ALUSrc = true
		c.MemRead = true
		c.MemToReg = true
		c.RegWrite = true
		c.ALUOp = ALUOpAdd
		switch Opcode(word) {
		case OpcodeLH, OpcodeLHU:
			c.Halfword = true
		case OpcodeLB, OpcodeLBU:
			c.Byte = true
		}

	case OpcodeSW, OpcodeSH, OpcodeSB:
		c.ALUSrc = true
		c.MemWrite = true
		c.ALUOp = ALUOpAdd
		switch Opcode(word) {
		case OpcodeSH:
			c.Halfword = true
		case OpcodeSB:
			c.Byte = true
		}

	case OpcodeBEQ, OpcodeBNE:
		c.Branch = true
		c.BNE = Opcode(word) == OpcodeBNE
		c.ALUOp = ALUOpSub

	case OpcodeJ, OpcodeJAL:
		c.Jump = true
		if Opcode(word) == OpcodeJAL {
			c.Link = true
			c.RegWrite = true
		}
	}

	return c
}

// ExtendImmediate widens the 16-bit immediate field to 32 bits, zero-extending
// when the control word says so and sign-extending otherwise.
func ExtendImmediate(word uint32, zeroExtend bool) uint32 {
	imm := Imm(word)
	if zeroExtend {
		return imm
	}
	if imm&0x8000 != 0 {
		return 0xFFFF0000 | imm
	}
	return imm
}
