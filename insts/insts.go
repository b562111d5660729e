// Package insts provides MIPS-I instruction word definitions and control decoding.
package insts

// Instruction word field layout:
//
//	opcode[31:26] rs[25:21] rt[20:16] rd[15:11] shamt[10:6] funct[5:0]
//	imm[15:0] for I-format, target[25:0] for J-format.

// I-format and J-format opcodes.
const (
	OpcodeRType uint32 = 0x00
	OpcodeJ     uint32 = 0x02
	OpcodeJAL   uint32 = 0x03
	OpcodeBEQ   uint32 = 0x04
	OpcodeBNE   uint32 = 0x05
	OpcodeADDI  uint32 = 0x08
	OpcodeADDIU uint32 = 0x09
	OpcodeSLTI  uint32 = 0x0A
	OpcodeSLTIU uint32 = 0x0B
	OpcodeANDI  uint32 = 0x0C
	OpcodeORI   uint32 = 0x0D
	OpcodeXORI  uint32 = 0x0E
	OpcodeLUI   uint32 = 0x0F
	OpcodeLB    uint32 = 0x20
	OpcodeLH    uint32 = 0x21
	OpcodeLW    uint32 = 0x23
	OpcodeLBU   uint32 = 0x24
	OpcodeLHU   uint32 = 0x25
	OpcodeSB    uint32 = 0x28
	OpcodeSH    uint32 = 0x29
	OpcodeSW    uint32 = 0x2B
)

// R-format function codes.
const (
	FunctSLL  uint32 = 0x00
	FunctSRL  uint32 = 0x02
	FunctSRA  uint32 = 0x03
	FunctJR   uint32 = 0x08
	FunctADD  uint32 = 0x20
	FunctADDU uint32 = 0x21
	FunctSUB  uint32 = 0x22
	FunctSUBU uint32 = 0x23
	FunctAND  uint32 = 0x24
	FunctOR   uint32 = 0x25
	FunctXOR  uint32 = 0x26
	FunctNOR  uint32 = 0x27
	FunctSLT  uint32 = 0x2A
	FunctSLTU uint32 = 0x2B
)

// Opcode extracts bits [31:26] of an instruction word.
func Opcode(word uint32) uint32 { return (word >> 26) & 0x3F }

// Rs extracts bits [25:21].
func Rs(word uint32) uint32 { return (word >> 21) & 0x1F }

// Rt extracts bits [20:16].
func Rt(word uint32) uint32 { return (word >> 16) & 0x1F }

// Rd extracts bits [15:11].
func Rd(word uint32) uint32 { return (word >> 11) & 0x1F }

// Shamt extracts bits [10:6].
func Shamt(word uint32) uint32 { return (word >> 6) & 0x1F }

// Funct extracts bits [5:0].
func Funct(word uint32) uint32 { return word & 0x3F }

// Imm extracts the 16-bit immediate field, bits [15:0].
func Imm(word uint32) uint32 { return word & 0xFFFF }

// Target extracts the 26-bit jump target field, bits [25:0].
func Target(word uint32) uint32 { return word & 0x03FFFFFF }

// EncodeR builds an R-format instruction word.
func EncodeR(rs, rt, rd, shamt, funct uint32) uint32 {
	return (rs&0x1F)<<21 | (rt&0x1F)<<16 | (rd&0x1F)<<11 | (shamt&0x1F)<<6 | funct&0x3F
}

// EncodeI builds an I-format instruction word. The immediate is truncated to
// 16 bits, so negative offsets encode naturally.
func EncodeI(opcode, rs, rt, imm uint32) uint32 {
	return (opcode&0x3F)<<26 | (rs&0x1F)<<21 | (rt&0x1F)<<16 | imm&0xFFFF
}

// EncodeJ builds a J-format instruction word from a byte address. The target
// field stores the address in words.
func EncodeJ(opcode, addr uint32) uint32 {
	return (opcode&0x3F)<<26 | (addr>>2)&0x03FFFFFF
}
