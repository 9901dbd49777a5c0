package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/msturtz/mips32sim/internal/cpu"
	"github.com/msturtz/mips32sim/internal/loader"
	"github.com/msturtz/mips32sim/internal/memory"
	"github.com/msturtz/mips32sim/internal/shell"
	"github.com/msturtz/mips32sim/internal/trace"
)

const defaultEntry = 0x0040_0000

func main() {
	rootCmd := &cobra.Command{
		Use:   "mips32sim",
		Short: "MIPS-32 instruction-level simulator",
	}

	var entry uint32

	runCmd := &cobra.Command{
		Use:   "run <image>",
		Short: "Load an image and run it to completion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mem := memory.New()
			st, err := loader.Load(args[0], mem, entry)
			if err != nil {
				return err
			}

			for st.Run {
				st = cpu.Step(&st, mem)
			}

			fmt.Println("halted")
			printRegs(st)
			return nil
		},
	}
	runCmd.Flags().Uint32Var(&entry, "entry", defaultEntry, "entry point address")

	var stepCount int
	stepCmd := &cobra.Command{
		Use:   "step <image>",
		Short: "Execute up to N ticks (stopping at halt) and print state after each one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mem := memory.New()
			st, err := loader.Load(args[0], mem, entry)
			if err != nil {
				return err
			}

			for i := 0; i < stepCount && st.Run; i++ {
				st = cpu.Step(&st, mem)
				fmt.Printf("-- tick %d --\n", i+1)
				printRegs(st)
			}
			return nil
		},
	}
	stepCmd.Flags().Uint32Var(&entry, "entry", defaultEntry, "entry point address")
	stepCmd.Flags().IntVar(&stepCount, "count", 1, "number of ticks to execute")

	debugCmd := &cobra.Command{
		Use:   "debug <image>",
		Short: "Load an image and drop into the interactive debug shell",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mem := memory.New()
			st, err := loader.Load(args[0], mem, entry)
			if err != nil {
				return err
			}
			sh := shell.New(st, mem, os.Stdout)
			sh.REPL(os.Stdin)
			return nil
		},
	}
	debugCmd.Flags().Uint32Var(&entry, "entry", defaultEntry, "entry point address")

	var traceOut string
	dumpCmd := &cobra.Command{
		Use:   "dump <image>",
		Short: "Run to completion while recording a JSON trace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mem := memory.New()
			st, err := loader.Load(args[0], mem, entry)
			if err != nil {
				return err
			}

			var rec trace.Recorder
			for st.Run {
				pre := st
				word := mem.Read32(st.PC)
				st = cpu.Step(&st, mem)
				rec.Record(pre, word, st)
			}

			if err := rec.WriteJSON(traceOut); err != nil {
				return err
			}
			fmt.Printf("wrote %d ticks to %s\n", len(rec.Steps), traceOut)
			return nil
		},
	}
	dumpCmd.Flags().Uint32Var(&entry, "entry", defaultEntry, "entry point address")
	dumpCmd.Flags().StringVar(&traceOut, "out", "trace.json", "trace output path")

	rootCmd.AddCommand(runCmd, stepCmd, debugCmd, dumpCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func printRegs(st cpu.State) {
	for i := 0; i < 32; i += 4 {
		fmt.Printf("$%-2d=%#08x  $%-2d=%#08x  $%-2d=%#08x  $%-2d=%#08x\n",
			i, st.Regs[i], i+1, st.Regs[i+1], i+2, st.Regs[i+2], i+3, st.Regs[i+3])
	}
	fmt.Printf("pc=%#08x  hi=%#08x  lo=%#08x\n", st.PC, st.HI, st.LO)
}
