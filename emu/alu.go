package emu

import (
	"github.com/mboyer87/mipsim/insts"
)

// aluOperation is the internal operation the ALU performs.
type aluOperation int

const (
	aluAdd aluOperation = iota
	aluSub
	aluAnd
	aluOr
	aluXor
	aluNor
	aluSLT
	aluSLTU
	aluSLL
	aluSRL
	aluSRA
	aluLUI
	aluPass
)

// ALU implements the MIPS integer arithmetic and logic unit. Control inputs
// are latched by GenerateControlInputs and consumed by Execute.
type ALU struct {
	op aluOperation
}

// NewALU creates a new ALU.
func NewALU() *ALU {
	return &ALU{}
}

// GenerateControlInputs derives the internal operation from the 2-bit ALU_op
// selector: R-type dispatches on funct, the immediate class on opcode.
func (a *ALU) GenerateControlInputs(aluOp, funct, opcode uint32) {
	switch aluOp {
	case insts.ALUOpAdd:
		a.op = aluAdd
	case insts.ALUOpSub:
		a.op = aluSub
	case insts.ALUOpRType:
		a.op = rTypeOperation(funct)
	case insts.ALUOpImm:
		a.op = immOperation(opcode)
	default:
		a.op = aluPass
	}
}

func rTypeOperation(funct uint32) aluOperation {
	switch funct {
	case insts.FunctADD, insts.FunctADDU:
		return aluAdd
	case insts.FunctSUB, insts.FunctSUBU:
		return aluSub
	case insts.FunctAND:
		return aluAnd
	case insts.FunctOR:
		return aluOr
	case insts.FunctXOR:
		return aluXor
	case insts.FunctNOR:
		return aluNor
	case insts.FunctSLT:
		return aluSLT
	case insts.FunctSLTU:
		return aluSLTU
	case insts.FunctSLL:
		return aluSLL
	case insts.FunctSRL:
		return aluSRL
	case insts.FunctSRA:
		return aluSRA
	case insts.FunctJR:
		return aluPass
	default:
		return aluPass
	}
}

func immOperation(opcode uint32) aluOperation {
	switch opcode {
	case insts.OpcodeADDI, insts.OpcodeADDIU:
		return aluAdd
	case insts.OpcodeSLTI:
		return aluSLT
	case insts.OpcodeSLTIU:
		return aluSLTU
	case insts.OpcodeANDI:
		return aluAnd
	case insts.OpcodeORI:
		return aluOr
	case insts.OpcodeXORI:
		return aluXor
	case insts.OpcodeLUI:
		return aluLUI
	default:
		return aluPass
	}
}

// Execute performs the latched operation. For shifts op1 carries the shift
// amount and op2 the value being shifted. The second result is the zero
// flag: result == 0.
func (a *ALU) Execute(op1, op2 uint32) (uint32, bool) {
	var result uint32
	switch a.op {
	case aluAdd:
		result = op1 + op2
	case aluSub:
		result = op1 - op2
	case aluAnd:
		result = op1 & op2
	case aluOr:
		result = op1 | op2
	case aluXor:
		result = op1 ^ op2
	case aluNor:
		result = ^(op1 | op2)
	case aluSLT:
		if int32(op1) < int32(op2) {
			result = 1
		}
	case aluSLTU:
		if op1 < op2 {
			result = 1
		}
	case aluSLL:
		result = op2 << (op1 & 0x1F)
	case aluSRL:
		result = op2 >> (op1 & 0x1F)
	case aluSRA:
		result = uint32(int32(op2) >> (op1 & 0x1F))
	case aluLUI:
		result = op2 << 16
	case aluPass:
		result = op1
	}
	return result, result == 0
}
