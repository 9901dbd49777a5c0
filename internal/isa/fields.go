// Package isa decodes MIPS-32 instruction words into a tagged variant and
// provides the bit-field helpers the decode step is built from.
package isa

// Word is a raw 32-bit instruction as fetched from memory.
type Word uint32

// Field-extraction helpers, normative per the opcode/funct/rt layout of the
// MIPS-32 encoding. Kept as small pure functions (mask-and-shift, not the
// shift-left-then-shift-right idiom) so decode stays trivially testable in
// isolation from execution.

// Opcode returns bits [31:26].
func (w Word) Opcode() uint32 { return uint32(w>>26) & 0x3F }

// Rs returns bits [25:21].
func (w Word) Rs() uint32 { return uint32(w>>21) & 0x1F }

// Rt returns bits [20:16].
func (w Word) Rt() uint32 { return uint32(w>>16) & 0x1F }

// Rd returns bits [15:11].
func (w Word) Rd() uint32 { return uint32(w>>11) & 0x1F }

// Shamt returns bits [10:6].
func (w Word) Shamt() uint32 { return uint32(w>>6) & 0x1F }

// Funct returns bits [5:0].
func (w Word) Funct() uint32 { return uint32(w) & 0x3F }

// Imm16 returns bits [15:0], the raw (unextended) immediate field.
func (w Word) Imm16() uint16 { return uint16(w) }

// Target26 returns bits [25:0], the raw jump target field.
func (w Word) Target26() uint32 { return uint32(w) & 0x03FF_FFFF }

// SignExtend16 arithmetically sign-extends a 16-bit immediate to 32 bits.
func SignExtend16(imm uint16) uint32 {
	return uint32(int32(int16(imm)))
}

// ZeroExtend16 zero-extends a 16-bit immediate to 32 bits.
func ZeroExtend16(imm uint16) uint32 {
	return uint32(imm)
}

// BranchOffset returns the signed byte offset encoded by a 16-bit branch
// immediate: sign-extend then scale by the instruction width.
func BranchOffset(imm16 uint16) uint32 {
	return SignExtend16(imm16) << 2
}

// JumpAddr composes an absolute jump target from the PC region of the
// instruction following the jump and the 26-bit target field.
func JumpAddr(pcOfNext uint32, target26 uint32) uint32 {
	return (pcOfNext & 0xF000_0000) | ((target26 << 2) & 0x0FFF_FFFC)
}
