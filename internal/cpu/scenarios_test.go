package cpu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/msturtz/mips32sim/internal/cpu"
	"github.com/msturtz/mips32sim/internal/memory"
)

const entry = 0x0040_0000

func rtype(rs, rt, rd, shamt, funct uint32) uint32 {
	return rs<<21 | rt<<16 | rd<<11 | shamt<<6 | funct
}

func itype(opcode, rs, rt uint32, imm16 uint16) uint32 {
	return opcode<<26 | rs<<21 | rt<<16 | uint32(imm16)
}

func jtype(opcode, target uint32) uint32 {
	return opcode<<26 | (target & 0x03FF_FFFF)
}

var _ = Describe("Instruction Executor", func() {
	var (
		mem memory.Memory
		st  cpu.State
	)

	BeforeEach(func() {
		mem = memory.New()
		st = cpu.NewState(entry)
	})

	run := func(n int) {
		for i := 0; i < n; i++ {
			st = cpu.Step(&st, mem)
		}
	}

	Describe("LUI + ORI build a 32-bit constant", func() {
		It("assembles the full immediate across two ticks", func() {
			mem.Write32(entry, itype(0x0F, 0, 1, 0xDEAD))
			mem.Write32(entry+4, itype(0x0D, 1, 1, 0xBEEF))
			run(2)
			Expect(st.Regs[1]).To(Equal(uint32(0xDEAD_BEEF)))
			Expect(st.PC).To(Equal(uint32(entry + 8)))
		})
	})

	Describe("ADDI followed by SLTI", func() {
		It("produces -1 and a true compare against 0", func() {
			mem.Write32(entry, itype(0x08, 0, 1, 0xFFFF))  // ADDI $1,$0,-1
			mem.Write32(entry+4, itype(0x0A, 1, 2, 0x0000)) // SLTI $2,$1,0
			run(2)
			Expect(st.Regs[1]).To(Equal(uint32(0xFFFF_FFFF)))
			Expect(st.Regs[2]).To(Equal(uint32(1)))
		})
	})

	Describe("signed vs unsigned compare", func() {
		It("treats -1 as not below 1 under an unsigned compare", func() {
			mem.Write32(entry, itype(0x08, 0, 1, 0xFFFF)) // ADDI $1,$0,-1
			mem.Write32(entry+4, itype(0x0B, 1, 2, 1))     // SLTIU $2,$1,1
			run(2)
			Expect(st.Regs[2]).To(Equal(uint32(0)))
		})
	})

	Describe("a BNE-driven countdown loop", func() {
		It("runs to completion with the expected final registers", func() {
			st.Regs[1] = 3
			st.Regs[2] = 0
			mem.Write32(entry, itype(0x09, 2, 2, 1))        // ADDIU $2,$2,1
			mem.Write32(entry+4, itype(0x09, 1, 1, 0xFFFF)) // ADDIU $1,$1,-1
			mem.Write32(entry+8, itype(0x05, 1, 0, 0xFFFD)) // BNE $1,$0,-3

			run(9) // three iterations of the three-instruction loop body

			Expect(st.Regs[1]).To(Equal(uint32(0)))
			Expect(st.Regs[2]).To(Equal(uint32(3)))
			Expect(st.PC).To(Equal(uint32(entry + 0xC)))
		})
	})

	Describe("JAL then JR $31", func() {
		It("links the return address and jumps back to it", func() {
			mem.Write32(entry, jtype(0x03, 0x100040))      // JAL 0x100040
			mem.Write32(entry+8, rtype(31, 0, 0, 0, 0x08)) // JR $31

			st = cpu.Step(&st, mem)
			Expect(st.PC).To(Equal(uint32(0x0040_0100)))
			Expect(st.Regs[31]).To(Equal(uint32(entry + 8)))

			mem.Write32(0x0040_0100, rtype(31, 0, 0, 0, 0x08))
			st = cpu.Step(&st, mem)
			Expect(st.PC).To(Equal(uint32(entry + 8)))
		})
	})

	Describe("halt via syscall 10", func() {
		It("clears the run flag and still advances pc", func() {
			st.Regs[2] = 10
			mem.Write32(entry, rtype(0, 0, 0, 0, 0x0C)) // SYSCALL
			run(1)
			Expect(st.Run).To(BeFalse())
			Expect(st.PC).To(Equal(uint32(entry + 4)))
		})
	})

	Describe("invariants", func() {
		It("always restores regs[0] to zero", func() {
			mem.Write32(entry, rtype(1, 1, 0, 0, 0x20)) // ADD $0,$1,$1
			st.Regs[1] = 7
			run(1)
			Expect(st.Regs[0]).To(Equal(uint32(0)))
		})

		It("writes the link register even when a conditional branch is not taken", func() {
			mem.Write32(entry, itype(0x01, 1, 0x11, 0)) // BGEZAL $1, +0
			st.Regs[1] = 0xFFFF_FFFF                    // negative: BGEZ condition false
			run(1)
			Expect(st.Regs[31]).To(Equal(uint32(entry + 8)))
			Expect(st.PC).To(Equal(uint32(entry + 4)))
		})
	})
})
