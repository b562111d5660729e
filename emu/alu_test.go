package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/mboyer87/mipsim/emu"
	"github.com/mboyer87/mipsim/insts"
)

var _ = Describe("ALU", func() {
	var alu *emu.ALU

	BeforeEach(func() {
		alu = emu.NewALU()
	})

	rtype := func(funct uint32) {
		alu.GenerateControlInputs(insts.ALUOpRType, funct, 0)
	}
	itype := func(opcode uint32) {
		alu.GenerateControlInputs(insts.ALUOpImm, 0, opcode)
	}

	Context("R-type dispatch on funct", func() {
		It("should add", func() {
			rtype(insts.FunctADD)
			result, zero := alu.Execute(5, 7)
			Expect(result).To(Equal(uint32(12)))
			Expect(zero).To(BeFalse())
		})

		It("should subtract and raise the zero flag on equality", func() {
			rtype(insts.FunctSUB)
			result, zero := alu.Execute(7, 7)
			Expect(result).To(Equal(uint32(0)))
			Expect(zero).To(BeTrue())
		})

		It("should wrap on overflow like hardware", func() {
			rtype(insts.FunctADDU)
			result, _ := alu.Execute(0xFFFFFFFF, 1)
			Expect(result).To(Equal(uint32(0)))
		})

		It("should and, or, xor, nor", func() {
			rtype(insts.FunctAND)
			result, _ := alu.Execute(0xF0F0, 0xFF00)
			Expect(result).To(Equal(uint32(0xF000)))

			rtype(insts.FunctOR)
			result, _ = alu.Execute(0xF0F0, 0x0F00)
			Expect(result).To(Equal(uint32(0xFFF0)))

			rtype(insts.FunctXOR)
			result, _ = alu.Execute(0xFF00, 0x0FF0)
			Expect(result).To(Equal(uint32(0xF0F0)))

			rtype(insts.FunctNOR)
			result, _ = alu.Execute(0xFFFF0000, 0x0000FFFF)
			Expect(result).To(Equal(uint32(0)))
		})

		It("should compare signed with slt", func() {
			rtype(insts.FunctSLT)
			result, _ := alu.Execute(0xFFFFFFFF, 1) // -1 < 1
			Expect(result).To(Equal(uint32(1)))

			result, _ = alu.Execute(1, 0xFFFFFFFF)
			Expect(result).To(Equal(uint32(0)))
		})

		It("should compare unsigned with sltu", func() {
			rtype(insts.FunctSLTU)
			result, _ := alu.Execute(0xFFFFFFFF, 1)
			Expect(result).To(Equal(uint32(0)))

			result, _ = alu.Execute(1, 0xFFFFFFFF)
			Expect(result).To(Equal(uint32(1)))
		})

		It("should shift with the amount in the first operand", func() {
			rtype(insts.FunctSLL)
			result, _ := alu.Execute(4, 1)
			Expect(result).To(Equal(uint32(16)))

			rtype(insts.FunctSRL)
			result, _ = alu.Execute(4, 0x80000000)
			Expect(result).To(Equal(uint32(0x08000000)))

			rtype(insts.FunctSRA)
			result, _ = alu.Execute(4, 0x80000000)
			Expect(result).To(Equal(uint32(0xF8000000)))
		})
	})

	Context("I-type dispatch on opcode", func() {
		It("should add for addi and addiu", func() {
			itype(insts.OpcodeADDI)
			result, _ := alu.Execute(40, 2)
			Expect(result).To(Equal(uint32(42)))

			itype(insts.OpcodeADDIU)
			result, _ = alu.Execute(40, 0xFFFFFFFE) // + (-2)
			Expect(result).To(Equal(uint32(38)))
		})

		It("should compare for slti and sltiu", func() {
			itype(insts.OpcodeSLTI)
			result, _ := alu.Execute(0xFFFFFFFF, 0)
			Expect(result).To(Equal(uint32(1)))

			itype(insts.OpcodeSLTIU)
			result, _ = alu.Execute(0xFFFFFFFF, 0)
			Expect(result).To(Equal(uint32(0)))
		})

		It("should run the logical immediates", func() {
			itype(insts.OpcodeANDI)
			result, _ := alu.Execute(0xFF, 0x0F)
			Expect(result).To(Equal(uint32(0x0F)))

			itype(insts.OpcodeORI)
			result, _ = alu.Execute(0xF0, 0x0F)
			Expect(result).To(Equal(uint32(0xFF)))

			itype(insts.OpcodeXORI)
			result, _ = alu.Execute(0xFF, 0x0F)
			Expect(result).To(Equal(uint32(0xF0)))
		})

		It("should place the immediate in the upper half for lui", func() {
			itype(insts.OpcodeLUI)
			result, _ := alu.Execute(0, 0x1234)
			Expect(result).To(Equal(uint32(0x12340000)))
		})
	})

	Context("branch comparison", func() {
		It("should subtract so zero means equal", func() {
			alu.GenerateControlInputs(insts.ALUOpSub, 0, 0)
			_, zero := alu.Execute(3, 3)
			Expect(zero).To(BeTrue())

			_, zero = alu.Execute(3, 4)
			Expect(zero).To(BeFalse())
		})
	})

	Context("address computation", func() {
		It("should add base and offset", func() {
			alu.GenerateControlInputs(insts.ALUOpAdd, 0, 0)
			result, _ := alu.Execute(0x100, 8)
			Expect(result).To(Equal(uint32(0x108)))
		})
	})
})
