package cpu

import (
	"github.com/msturtz/mips32sim/internal/isa"
	"github.com/msturtz/mips32sim/internal/memory"
)

// Step fetches the instruction at cur.PC, applies its architectural effect,
// and returns the successor state. cur is never mutated; every source
// operand is read from it before any destination in the returned state is
// written, per the next-state double-buffering discipline: the successor
// starts as a copy of cur with pc+4, and control-transfer instructions
// overwrite PC explicitly.
func Step(cur *State, mem memory.Memory) State {
	next := *cur
	next.PC = cur.PC + 4

	word := isa.Word(mem.Read32(cur.PC))
	d := isa.Decode(word)

	exec(cur, &next, d, mem)

	next.Regs[0] = 0
	return next
}

// exec applies d's semantic rule. cur supplies every source operand (rs,
// rt, HI/LO, the pre-tick pc); next accumulates the writes. pcOfBranch is
// always cur.PC, the address of the instruction being executed.
func exec(cur *State, next *State, d isa.Decoded, mem memory.Memory) {
	pcOfBranch := cur.PC
	rs := cur.Regs[d.Rs]
	rt := cur.Regs[d.Rt]

	switch d.Op {

	// --- shifts ---
	case isa.SLL:
		next.Regs[d.Rd] = rt << d.Shamt
	case isa.SRL:
		next.Regs[d.Rd] = rt >> d.Shamt
	case isa.SRA:
		next.Regs[d.Rd] = uint32(int32(rt) >> d.Shamt)
	case isa.SLLV:
		next.Regs[d.Rd] = rt << (rs & 0x1F)
	case isa.SRLV:
		next.Regs[d.Rd] = rt >> (rs & 0x1F)
	case isa.SRAV:
		next.Regs[d.Rd] = uint32(int32(rt) >> (rs & 0x1F))

	// --- register-indirect control transfer ---
	case isa.JR:
		next.PC = rs
	case isa.JALR:
		next.Regs[d.Rd] = pcOfBranch + 8
		next.PC = rs

	// --- halt convention ---
	case isa.SYSCALL:
		if cur.Regs[2] == 10 {
			next.Run = false
		}

	// --- HI/LO moves ---
	case isa.MFHI:
		next.Regs[d.Rd] = cur.HI
	case isa.MTHI:
		next.HI = rs
	case isa.MFLO:
		next.Regs[d.Rd] = cur.LO
	case isa.MTLO:
		next.LO = rs

	// --- multiply/divide ---
	case isa.MULT:
		product := int64(int32(rs)) * int64(int32(rt))
		next.HI, next.LO = uint32(uint64(product)>>32), uint32(product)
	case isa.MULTU:
		product := uint64(rs) * uint64(rt)
		next.HI, next.LO = uint32(product>>32), uint32(product)
	case isa.DIV:
		if rt != 0 {
			next.LO = uint32(int32(rs) / int32(rt))
			next.HI = uint32(int32(rs) % int32(rt))
		}
	case isa.DIVU:
		if rt != 0 {
			next.LO = rs / rt
			next.HI = rs % rt
		}

	// --- register-register ALU ---
	case isa.ADD, isa.ADDU:
		next.Regs[d.Rd] = rs + rt
	case isa.SUB, isa.SUBU:
		next.Regs[d.Rd] = rs - rt
	case isa.AND:
		next.Regs[d.Rd] = rs & rt
	case isa.OR:
		next.Regs[d.Rd] = rs | rt
	case isa.XOR:
		next.Regs[d.Rd] = rs ^ rt
	case isa.NOR:
		next.Regs[d.Rd] = ^(rs | rt)
	case isa.SLT:
		next.Regs[d.Rd] = boolToReg(int32(rs) < int32(rt))
	case isa.SLTU:
		next.Regs[d.Rd] = boolToReg(rs < rt)

	// --- REGIMM branches ---
	case isa.BLTZ:
		branchIf(next, pcOfBranch, d.Imm16, int32(rs) < 0)
	case isa.BGEZ:
		branchIf(next, pcOfBranch, d.Imm16, int32(rs) >= 0)
	case isa.BLTZAL:
		next.Regs[31] = pcOfBranch + 8
		branchIf(next, pcOfBranch, d.Imm16, int32(rs) < 0)
	case isa.BGEZAL:
		next.Regs[31] = pcOfBranch + 8
		branchIf(next, pcOfBranch, d.Imm16, int32(rs) >= 0)

	// --- absolute jumps ---
	case isa.J:
		next.PC = isa.JumpAddr(pcOfBranch+4, d.Target26)
	case isa.JAL:
		next.Regs[31] = pcOfBranch + 8
		next.PC = isa.JumpAddr(pcOfBranch+4, d.Target26)

	// --- PC-relative compare-branches ---
	case isa.BEQ:
		branchIf(next, pcOfBranch, d.Imm16, rs == rt)
	case isa.BNE:
		branchIf(next, pcOfBranch, d.Imm16, rs != rt)
	case isa.BLEZ:
		branchIf(next, pcOfBranch, d.Imm16, int32(rs) <= 0)
	case isa.BGTZ:
		branchIf(next, pcOfBranch, d.Imm16, int32(rs) > 0)

	// --- immediate ALU ---
	case isa.ADDI, isa.ADDIU:
		next.Regs[d.Rt] = rs + isa.SignExtend16(d.Imm16)
	case isa.SLTI:
		next.Regs[d.Rt] = boolToReg(int32(rs) < int32(isa.SignExtend16(d.Imm16)))
	case isa.SLTIU:
		next.Regs[d.Rt] = boolToReg(rs < isa.SignExtend16(d.Imm16))
	case isa.ANDI:
		next.Regs[d.Rt] = rs & isa.ZeroExtend16(d.Imm16)
	case isa.ORI:
		next.Regs[d.Rt] = rs | isa.ZeroExtend16(d.Imm16)
	case isa.XORI:
		next.Regs[d.Rt] = rs ^ isa.ZeroExtend16(d.Imm16)
	case isa.LUI:
		next.Regs[d.Rt] = isa.SignExtend16(d.Imm16) << 16

	// --- loads ---
	case isa.LB:
		addr := rs + isa.SignExtend16(d.Imm16)
		next.Regs[d.Rt] = uint32(int32(int8(memory.ReadByte(mem, addr))))
	case isa.LH:
		addr := rs + isa.SignExtend16(d.Imm16)
		next.Regs[d.Rt] = uint32(int32(int16(memory.ReadHalf(mem, addr))))
	case isa.LW:
		addr := rs + isa.SignExtend16(d.Imm16)
		next.Regs[d.Rt] = mem.Read32(addr)
	case isa.LBU:
		addr := rs + isa.SignExtend16(d.Imm16)
		next.Regs[d.Rt] = uint32(memory.ReadByte(mem, addr))
	case isa.LHU:
		addr := rs + isa.SignExtend16(d.Imm16)
		next.Regs[d.Rt] = uint32(memory.ReadHalf(mem, addr))

	// --- stores ---
	case isa.SB:
		addr := rs + isa.SignExtend16(d.Imm16)
		memory.WriteByte(mem, addr, uint8(rt))
	case isa.SH:
		addr := rs + isa.SignExtend16(d.Imm16)
		memory.WriteHalf(mem, addr, uint16(rt))
	case isa.SW:
		addr := rs + isa.SignExtend16(d.Imm16)
		mem.Write32(addr, rt)

	case isa.Invalid:
		// silent no-op; next.PC already holds the sequential default.
	}
}

// branchIf overwrites next.PC with the PC-relative target when taken is
// true; otherwise it leaves the sequential default already stored there.
func branchIf(next *State, pcOfBranch uint32, imm16 uint16, taken bool) {
	if taken {
		next.PC = pcOfBranch + 4 + isa.BranchOffset(imm16)
	}
}

func boolToReg(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}
