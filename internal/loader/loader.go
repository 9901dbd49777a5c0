// Package loader populates a memory.Memory from a flat, big-endian image
// file and produces the cpu.State a run begins from.
package loader

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/msturtz/mips32sim/internal/cpu"
	"github.com/msturtz/mips32sim/internal/memory"
)

// errShortImage is returned when an image's length is not a whole number
// of 32-bit words.
var errShortImage = errors.New("loader: image length is not a multiple of 4 bytes")

// Load reads the image at path as a sequence of big-endian 32-bit words,
// writes them into mem starting at entry, and returns the initial state
// with PC set to entry.
func Load(path string, mem memory.Memory, entry uint32) (cpu.State, error) {
	f, err := os.Open(path)
	if err != nil {
		return cpu.State{}, fmt.Errorf("loader: %w", err)
	}
	defer f.Close()

	data, err := readAll(f)
	if err != nil {
		return cpu.State{}, fmt.Errorf("loader: %w", err)
	}
	if len(data)%4 != 0 {
		return cpu.State{}, errShortImage
	}

	for i := 0; i+4 <= len(data); i += 4 {
		word := binary.BigEndian.Uint32(data[i : i+4])
		mem.Write32(entry+uint32(i), word)
	}

	return cpu.NewState(entry), nil
}

func readAll(f *os.File) ([]byte, error) {
	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	buf := make([]byte, info.Size())
	if _, err := io.ReadFull(f, buf); err != nil {
		return nil, err
	}
	return buf, nil
}
