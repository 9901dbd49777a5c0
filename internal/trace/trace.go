// Package trace records a simulation run, one entry per executed tick, and
// serializes it to JSON for offline inspection.
package trace

import (
	"encoding/json"
	"os"

	"github.com/msturtz/mips32sim/internal/cpu"
	"github.com/msturtz/mips32sim/internal/isa"
)

// Step is one recorded tick: the pc it started from, the mnemonic that
// was decoded, and the resulting register file.
type Step struct {
	PC        uint32    `json:"pc"`
	Mnemonic  string    `json:"mnemonic"`
	Regs      [32]uint32 `json:"regs"`
	HI        uint32    `json:"hi"`
	LO        uint32    `json:"lo"`
}

// Recorder accumulates Steps across a run. Zero value is ready to use.
type Recorder struct {
	Steps []Step
}

// Record appends one tick. pre is the state before the tick, word the
// fetched instruction, post the state Step(pre) produced.
func (r *Recorder) Record(pre cpu.State, word uint32, post cpu.State) {
	r.Steps = append(r.Steps, Step{
		PC:       pre.PC,
		Mnemonic: isa.Decode(isa.Word(word)).Op.String(),
		Regs:     post.Regs,
		HI:       post.HI,
		LO:       post.LO,
	})
}

// WriteJSON writes the recorded steps to path as indented JSON.
func (r *Recorder) WriteJSON(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(r.Steps)
}

// ReadJSON loads a previously written trace back into memory.
func ReadJSON(path string) ([]Step, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var steps []Step
	if err := json.NewDecoder(f).Decode(&steps); err != nil {
		return nil, err
	}
	return steps, nil
}
