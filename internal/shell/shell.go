// Package shell is an interactive, single-step debug loop over a running
// simulation: next/run/breakpoint commands plus register and memory dumps.
package shell

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/msturtz/mips32sim/internal/cpu"
	"github.com/msturtz/mips32sim/internal/isa"
	"github.com/msturtz/mips32sim/internal/memory"
)

// errNoSuchBreakpoint is returned by RemoveBreakpoint when addr has none set.
var errNoSuchBreakpoint = errors.New("shell: no breakpoint at that address")

// Shell drives a step-at-a-time debug session over a cpu.State/memory.Memory
// pair, matching the run/next/breakpoint loop of a line-oriented debugger.
type Shell struct {
	State      cpu.State
	Mem        memory.Memory
	breakpoints map[uint32]struct{}
	out        io.Writer
}

// New returns a Shell ready to debug the given state/memory pair, printing
// to out.
func New(st cpu.State, mem memory.Memory, out io.Writer) *Shell {
	return &Shell{State: st, Mem: mem, breakpoints: make(map[uint32]struct{}), out: out}
}

// ToggleBreakpoint sets a breakpoint at addr, or clears it if one was
// already set there.
func (sh *Shell) ToggleBreakpoint(addr uint32) {
	if _, ok := sh.breakpoints[addr]; ok {
		delete(sh.breakpoints, addr)
		return
	}
	sh.breakpoints[addr] = struct{}{}
}

// RemoveBreakpoint clears the breakpoint at addr, or reports
// errNoSuchBreakpoint if none was set.
func (sh *Shell) RemoveBreakpoint(addr uint32) error {
	if _, ok := sh.breakpoints[addr]; !ok {
		return errNoSuchBreakpoint
	}
	delete(sh.breakpoints, addr)
	return nil
}

// Next executes exactly one tick.
func (sh *Shell) Next() {
	sh.State = cpu.Step(&sh.State, sh.Mem)
}

// Run executes ticks until the program halts or hits a breakpoint, and
// reports which of the two stopped it.
func (sh *Shell) Run() (hitBreakpoint bool) {
	for sh.State.Run {
		sh.Next()
		if _, ok := sh.breakpoints[sh.State.PC]; ok {
			return true
		}
	}
	return false
}

// PrintState prints the decoded instruction at pc and the full register
// file.
func (sh *Shell) PrintState() {
	word := isa.Word(sh.Mem.Read32(sh.State.PC))
	d := isa.Decode(word)
	fmt.Fprintf(sh.out, "pc=%#08x  next: %s\n", sh.State.PC, d.Op)
	sh.PrintRegs()
}

// PrintRegs dumps all 32 general registers plus HI/LO.
func (sh *Shell) PrintRegs() {
	for i := 0; i < 32; i += 4 {
		fmt.Fprintf(sh.out, "$%-2d=%#08x  $%-2d=%#08x  $%-2d=%#08x  $%-2d=%#08x\n",
			i, sh.State.Regs[i], i+1, sh.State.Regs[i+1], i+2, sh.State.Regs[i+2], i+3, sh.State.Regs[i+3])
	}
	fmt.Fprintf(sh.out, "hi=%#08x  lo=%#08x\n", sh.State.HI, sh.State.LO)
}

// PrintMem dumps count words starting at addr.
func (sh *Shell) PrintMem(addr uint32, count int) {
	for i := 0; i < count; i++ {
		a := addr + uint32(i*4)
		fmt.Fprintf(sh.out, "%#08x: %#08x\n", a, sh.Mem.Read32(a))
	}
}

// REPL reads commands from in until "quit" or EOF, matching
// RunProgramDebugMode's prompt loop: n/next steps one tick, r/run runs to
// completion or the next breakpoint, "b <addr>" toggles a breakpoint,
// "regs" and "mem <addr> <count>" dump state.
func (sh *Shell) REPL(in io.Reader) {
	fmt.Fprint(sh.out, "commands: n/next, r/run, b <addr>, regs, mem <addr> <count>, quit\n\n")
	sh.PrintState()

	reader := bufio.NewReader(in)
	for sh.State.Run {
		fmt.Fprint(sh.out, "\n-> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "n", "next":
			sh.Next()
			sh.PrintState()
		case "r", "run":
			if sh.Run() {
				fmt.Fprintln(sh.out, "breakpoint")
			}
			sh.PrintState()
		case "b", "break":
			if len(fields) < 2 {
				fmt.Fprintln(sh.out, "usage: b <addr>")
				continue
			}
			addr, err := strconv.ParseUint(fields[1], 0, 32)
			if err != nil {
				fmt.Fprintln(sh.out, "bad address:", err)
				continue
			}
			sh.ToggleBreakpoint(uint32(addr))
		case "regs":
			sh.PrintRegs()
		case "mem":
			if len(fields) < 3 {
				fmt.Fprintln(sh.out, "usage: mem <addr> <count>")
				continue
			}
			addr, err1 := strconv.ParseUint(fields[1], 0, 32)
			count, err2 := strconv.Atoi(fields[2])
			if err1 != nil || err2 != nil {
				fmt.Fprintln(sh.out, "bad arguments")
				continue
			}
			sh.PrintMem(uint32(addr), count)
		case "quit", "q":
			return
		default:
			fmt.Fprintln(sh.out, "unknown command:", fields[0])
		}
	}

	if !sh.State.Run {
		fmt.Fprintln(sh.out, "halted")
	}
}
