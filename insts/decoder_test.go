package insts_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/mboyer87/mipsim/insts"
)

var _ = Describe("Decoder", func() {
	var decoder *insts.Decoder

	BeforeEach(func() {
		decoder = insts.NewDecoder()
	})

	Context("R-type instructions", func() {
		It("should decode add", func() {
			c := decoder.Decode(insts.EncodeR(1, 2, 3, 0, insts.FunctADD))
			Expect(c.RegDest).To(BeTrue())
			Expect(c.RegWrite).To(BeTrue())
			Expect(c.ALUOp).To(Equal(insts.ALUOpRType))
			Expect(c.Shift).To(BeFalse())
			Expect(c.ALUSrc).To(BeFalse())
			Expect(c.MemRead).To(BeFalse())
			Expect(c.MemWrite).To(BeFalse())
		})

		It("should set the shift signal for sll, srl, sra", func() {
			for _, funct := range []uint32{insts.FunctSLL, insts.FunctSRL, insts.FunctSRA} {
				c := decoder.Decode(insts.EncodeR(0, 1, 2, 3, funct))
				Expect(c.Shift).To(BeTrue())
				Expect(c.RegWrite).To(BeTrue())
			}
		})

		It("should decode jr as a register jump without register write", func() {
			c := decoder.Decode(insts.EncodeR(31, 0, 0, 0, insts.FunctJR))
			Expect(c.JumpReg).To(BeTrue())
			Expect(c.RegWrite).To(BeFalse())
			Expect(c.Jump).To(BeFalse())
			Expect(c.Branch).To(BeFalse())
		})
	})

	Context("immediate arithmetic", func() {
		It("should decode addi and slti as sign-extended immediate ops", func() {
			for _, op := range []uint32{insts.OpcodeADDI, insts.OpcodeADDIU, insts.OpcodeSLTI, insts.OpcodeSLTIU} {
				c := decoder.Decode(insts.EncodeI(op, 1, 2, 5))
				Expect(c.ALUSrc).To(BeTrue())
				Expect(c.RegWrite).To(BeTrue())
				Expect(c.ZeroExtend).To(BeFalse())
				Expect(c.RegDest).To(BeFalse())
				Expect(c.ALUOp).To(Equal(insts.ALUOpImm))
			}
		})

		It("should decode andi, ori, xori, lui as zero-extended", func() {
			for _, op := range []uint32{insts.OpcodeANDI, insts.OpcodeORI, insts.OpcodeXORI, insts.OpcodeLUI} {
				c := decoder.Decode(insts.EncodeI(op, 1, 2, 5))
				Expect(c.ALUSrc).To(BeTrue())
				Expect(c.RegWrite).To(BeTrue())
				Expect(c.ZeroExtend).To(BeTrue())
			}
		})
	})

	Context("loads", func() {
		It("should decode lw", func() {
			c := decoder.Decode(insts.EncodeI(insts.OpcodeLW, 1, 2, 0))
			Expect(c.ALUSrc).To(BeTrue())
			Expect(c.MemRead).To(BeTrue())
			Expect(c.MemToReg).To(BeTrue())
			Expect(c.RegWrite).To(BeTrue())
			Expect(c.Halfword).To(BeFalse())
			Expect(c.Byte).To(BeFalse())
		})

		It("should set halfword for lh and lhu", func() {
			for _, op := range []uint32{insts.OpcodeLH, insts.OpcodeLHU} {
				c := decoder.Decode(insts.EncodeI(op, 1, 2, 0))
				Expect(c.MemRead).To(BeTrue())
				Expect(c.Halfword).To(BeTrue())
				Expect(c.Byte).To(BeFalse())
			}
		})

		It("should set byte for lb and lbu", func() {
			for _, op := range []uint32{insts.OpcodeLB, insts.OpcodeLBU} {
				c := decoder.Decode(insts.EncodeI(op, 1, 2, 0))
				Expect(c.MemRead).To(BeTrue())
				Expect(c.Byte).To(BeTrue())
			}
		})
	})

	Context("stores", func() {
		It("should decode sw, sh, sb", func() {
			for op, width := range map[uint32][2]bool{
				insts.OpcodeSW: {false, false},
				insts.OpcodeSH: {true, false},
				insts.OpcodeSB: {false, true},
			} {
				c := decoder.Decode(insts.EncodeI(op, 1, 2, 0))
				Expect(c.ALUSrc).To(BeTrue())
				Expect(c.MemWrite).To(BeTrue())
				Expect(c.RegWrite).To(BeFalse())
				Expect(c.MemRead).To(BeFalse())
				Expect(c.Halfword).To(Equal(width[0]))
				Expect(c.Byte).To(Equal(width[1]))
			}
		})
	})

	Context("control transfers", func() {
		It("should decode beq and bne", func() {
			c := decoder.Decode(insts.EncodeI(insts.OpcodeBEQ, 1, 2, 4))
			Expect(c.Branch).To(BeTrue())
			Expect(c.BNE).To(BeFalse())
			Expect(c.ALUOp).To(Equal(insts.ALUOpSub))

			c = decoder.Decode(insts.EncodeI(insts.OpcodeBNE, 1, 2, 4))
			Expect(c.Branch).To(BeTrue())
			Expect(c.BNE).To(BeTrue())
		})

		It("should decode j", func() {
			c := decoder.Decode(insts.EncodeJ(insts.OpcodeJ, 0x40))
			Expect(c.Jump).To(BeTrue())
			Expect(c.Link).To(BeFalse())
			Expect(c.RegWrite).To(BeFalse())
		})

		It("should decode jal with link to R31", func() {
			c := decoder.Decode(insts.EncodeJ(insts.OpcodeJAL, 0x40))
			Expect(c.Jump).To(BeTrue())
			Expect(c.Link).To(BeTrue())
			Expect(c.RegWrite).To(BeTrue())
		})

		It("should set at most one control transfer signal", func() {
			words := []uint32{
				insts.EncodeI(insts.OpcodeBEQ, 1, 2, 4),
				insts.EncodeJ(insts.OpcodeJ, 0x40),
				insts.EncodeJ(insts.OpcodeJAL, 0x40),
				insts.EncodeR(31, 0, 0, 0, insts.FunctJR),
				insts.EncodeR(1, 2, 3, 0, insts.FunctADD),
			}
			for _, word := range words {
				c := decoder.Decode(word)
				n := 0
				for _, b := range []bool{c.Branch, c.Jump, c.JumpReg} {
					if b {
						n++
					}
				}
				Expect(n).To(BeNumerically("<=", 1))
			}
		})
	})

	Context("unrecognized opcodes", func() {
		It("should produce an inert control word", func() {
			c := decoder.Decode(0xFC000000) // opcode 0x3F
			Expect(c).To(Equal(insts.ControlSignals{}))
		})
	})

	Context("immediate extension", func() {
		It("should sign-extend negative immediates", func() {
			word := insts.EncodeI(insts.OpcodeADDI, 0, 1, 0x8000)
			Expect(insts.ExtendImmediate(word, false)).To(Equal(uint32(0xFFFF8000)))
		})

		It("should not touch positive immediates", func() {
			word := insts.EncodeI(insts.OpcodeADDI, 0, 1, 0x7FFF)
			Expect(insts.ExtendImmediate(word, false)).To(Equal(uint32(0x7FFF)))
		})

		It("should zero-extend when asked", func() {
			word := insts.EncodeI(insts.OpcodeORI, 0, 1, 0x8000)
			Expect(insts.ExtendImmediate(word, true)).To(Equal(uint32(0x8000)))
		})
	})
})
