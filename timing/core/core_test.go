package core_test

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/mboyer87/mipsim/emu"
	"github.com/mboyer87/mipsim/insts"
	"github.com/mboyer87/mipsim/timing/core"
)

// runSingle executes the program on the single-cycle model until the
// committed PC reaches end, returning the core and the dynamic instruction
// count.
func runSingle(memory *emu.Memory, end uint32) (*core.Core, uint64) {
	c := core.New(memory)
	c.Initialize(core.OptSingleCycle)
	for i := 0; i < 10000 && c.PC() < end; i++ {
		c.Advance()
	}
	return c, c.Stats().Instructions
}

// runPipelined executes the program on the pipelined model until n
// instructions have committed.
func runPipelined(memory *emu.Memory, n uint64) *core.Core {
	c := core.New(memory)
	c.Initialize(core.OptPipelined)
	for i := 0; i < 10000 && c.Stats().Instructions < n; i++ {
		c.Advance()
	}
	return c
}

var _ = Describe("Core", func() {
	Describe("API", func() {
		It("should start at PC 0 in single-cycle mode", func() {
			c := core.New(emu.NewMemory())
			Expect(c.PC()).To(Equal(uint32(0)))
			Expect(c.Pipeline()).To(BeNil())
		})

		It("should expose the pipeline in pipelined mode", func() {
			c := core.New(emu.NewMemory())
			c.Initialize(core.OptPipelined)
			Expect(c.Pipeline()).NotTo(BeNil())
		})

		It("should preserve architectural state across Initialize", func() {
			c := core.New(emu.NewMemory())
			c.RegFile().WriteReg(1, 42)
			c.SetPC(0x80)
			c.Initialize(core.OptPipelined)
			Expect(c.RegFile().ReadReg(1)).To(Equal(uint32(42)))
			Expect(c.PC()).To(Equal(uint32(0x80)))
		})

		It("should dump the register file", func() {
			c := core.New(emu.NewMemory())
			c.RegFile().WriteReg(2, 9)

			var sb strings.Builder
			c.FprintRegFile(&sb)
			Expect(sb.String()).To(ContainSubstring("R[2]: 9\n"))
		})
	})

	Describe("functional equivalence of the two models", func() {
		expectEquivalent := func(program []uint32, setup func(*emu.Memory)) {
			memSingle := emu.NewMemory()
			memPipe := emu.NewMemory()
			for i, word := range program {
				memSingle.Write32(uint32(i*4), word)
				memPipe.Write32(uint32(i*4), word)
			}
			if setup != nil {
				setup(memSingle)
				setup(memPipe)
			}
			end := uint32(len(program) * 4)

			single, n := runSingle(memSingle, end)
			pipe := runPipelined(memPipe, n)

			Expect(pipe.RegFile().R).To(Equal(single.RegFile().R))
			Expect(pipe.PC()).To(Equal(single.PC()))
			for addr := uint32(0); addr < 0x200; addr += 4 {
				Expect(memPipe.Read32(addr)).To(Equal(memSingle.Read32(addr)),
					"memory mismatch at 0x%x", addr)
			}
		}

		It("should agree on an ALU chain", func() {
			expectEquivalent([]uint32{
				insts.EncodeI(insts.OpcodeADDI, 0, 1, 5),
				insts.EncodeI(insts.OpcodeADDI, 0, 2, 7),
				insts.EncodeR(1, 2, 3, 0, insts.FunctADD),
				insts.EncodeR(2, 1, 4, 0, insts.FunctSUB),
				insts.EncodeR(1, 2, 5, 0, insts.FunctAND),
				insts.EncodeR(1, 2, 6, 0, insts.FunctOR),
				insts.EncodeR(1, 2, 7, 0, insts.FunctSLT),
			}, nil)
		})

		It("should agree on shifts and upper immediates", func() {
			expectEquivalent([]uint32{
				insts.EncodeI(insts.OpcodeLUI, 0, 1, 0x1234),
				insts.EncodeI(insts.OpcodeORI, 1, 1, 0x5678),
				insts.EncodeR(0, 1, 2, 4, insts.FunctSRL),
				insts.EncodeR(0, 1, 3, 4, insts.FunctSLL),
				insts.EncodeR(0, 1, 4, 8, insts.FunctSRA),
			}, nil)
		})

		It("should agree on loads, stores, and partial words", func() {
			expectEquivalent([]uint32{
				insts.EncodeI(insts.OpcodeADDI, 0, 1, 0x100),
				insts.EncodeI(insts.OpcodeLW, 1, 2, 0),
				insts.EncodeI(insts.OpcodeADDI, 2, 3, 1),
				insts.EncodeI(insts.OpcodeSW, 1, 3, 4),
				insts.EncodeI(insts.OpcodeORI, 0, 4, 0xBEEF),
				insts.EncodeI(insts.OpcodeSH, 1, 4, 8),
				insts.EncodeI(insts.OpcodeLHU, 1, 5, 8),
				insts.EncodeI(insts.OpcodeSB, 1, 4, 12),
				insts.EncodeI(insts.OpcodeLBU, 1, 6, 12),
			}, func(m *emu.Memory) {
				m.Write32(0x100, 0x42)
				m.Write32(0x108, 0x11223344)
				m.Write32(0x10C, 0x55667788)
			})
		})

		It("should agree on a branching loop", func() {
			expectEquivalent([]uint32{
				insts.EncodeI(insts.OpcodeADDI, 0, 1, 5),
				insts.EncodeI(insts.OpcodeADDI, 0, 2, 0),
				insts.EncodeI(insts.OpcodeADDI, 2, 2, 3),              // r2 += 3
				insts.EncodeI(insts.OpcodeADDI, 1, 1, uint32(0xFFFF)), // r1 -= 1
				insts.EncodeI(insts.OpcodeBNE, 1, 0, uint32(0xFFFD)),  // loop
				insts.EncodeI(insts.OpcodeADDI, 0, 3, 1),
			}, nil)
		})

		It("should agree on jal and jr", func() {
			expectEquivalent([]uint32{
				insts.EncodeJ(insts.OpcodeJAL, 0x18),      // call the routine at 0x18
				insts.EncodeI(insts.OpcodeADDI, 0, 6, 55), // 0x04: runs after the return
				insts.EncodeJ(insts.OpcodeJ, 0x20),        // 0x08: hop over the routine
				insts.EncodeI(insts.OpcodeADDI, 0, 7, 9),  // 0x0C: jump shadow, never runs
				insts.EncodeI(insts.OpcodeADDI, 0, 8, 10), // 0x10: never runs
				insts.EncodeI(insts.OpcodeADDI, 0, 9, 11), // 0x14: never runs
				insts.EncodeI(insts.OpcodeADDI, 0, 4, 2),  // 0x18: routine body
				insts.EncodeR(31, 0, 0, 0, insts.FunctJR), // 0x1C: return
				insts.EncodeI(insts.OpcodeADDI, 0, 5, 3),  // 0x20: epilogue
			}, nil)
		})
	})

	Describe("equivalence under a slow memory", func() {
		It("should agree despite structural stalls", func() {
			program := []uint32{
				insts.EncodeI(insts.OpcodeADDI, 0, 1, 0x100),
				insts.EncodeI(insts.OpcodeLW, 1, 2, 0),
				insts.EncodeI(insts.OpcodeADDI, 2, 3, 1),
				insts.EncodeI(insts.OpcodeSW, 1, 3, 4),
			}
			memSingle := emu.NewMemoryWithLatency(1)
			memPipe := emu.NewMemoryWithLatency(1)
			for i, word := range program {
				memSingle.Write32(uint32(i*4), word)
				memPipe.Write32(uint32(i*4), word)
			}
			memSingle.Write32(0x100, 0x42)
			memPipe.Write32(0x100, 0x42)
			end := uint32(len(program) * 4)

			single, n := runSingle(memSingle, end)
			pipe := runPipelined(memPipe, n)

			Expect(pipe.RegFile().R).To(Equal(single.RegFile().R))
			Expect(memPipe.Read32(0x104)).To(Equal(uint32(0x43)))
			Expect(pipe.Stats().MemStalls).To(BeNumerically(">", 0))
		})
	})
})
