// Package cpu implements the Instruction Executor: given an architectural
// state and a memory, it advances that state by exactly one MIPS-32
// instruction.
package cpu

// State is the MIPS-32 architectural state: the program counter, the 32
// general-purpose registers, the HI/LO multiply/divide registers, and the
// run flag the simulator loop watches for halt. Plain value type, cheap to
// copy — Step reads one through a pointer and returns the successor by value.
type State struct {
	PC     uint32
	Regs   [32]uint32
	HI, LO uint32
	Run    bool
}

// NewState returns a State with Run true and pc set to entry, matching the
// reset values of every other field (all zero).
func NewState(entry uint32) State {
	return State{PC: entry, Run: true}
}

// Equal reports whether two states are identical.
func (s State) Equal(o State) bool {
	return s == o
}
