// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"encoding/binary"
	"fmt"
	"io"
	"iter"
	"maps"

	"github.com/ezrec/dcpu16/cpu"
	"github.com/ezrec/dcpu16/internal"
)

const (
	STEP_LIMIT = 0x100000 // Default runaway guard for Run.
)

var _emulator_defines = map[string]string{
	"STEP_LIMIT": fmt.Sprintf("%v", STEP_LIMIT),
}

// Emulator is one emulation session: a CPU with exclusive ownership of
// its Memory, plus the program listing for source-level diagnostics.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Reference to the currently loaded program listing.

	StepLimit int // Maximum steps for Run; 0 means STEP_LIMIT.
}

// NewEmulator creates a new emulator.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Cpu:     cpu.NewCpu(),
		Program: &cpu.Program{},
	}

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		emu.Cpu.Defines(),
	)
}

// Reset reloads the program into a fresh machine state: RAM zeroed,
// SP at the top of the stack, program words at address 0.
func (emu *Emulator) Reset() (err error) {
	emu.Cpu.Reset()

	for addr, word := range emu.Program.Words() {
		emu.Cpu.Mem.Store(cpu.RamAddress(addr), word)
	}

	return
}

// LoadBinary loads a raw big-endian word image into RAM at address 0,
// replacing any loaded program.
func (emu *Emulator) LoadBinary(input io.Reader) (err error) {
	emu.Cpu.Reset()
	emu.Program = &cpu.Program{}

	scratch := make([]byte, 2)
	var addr uint16
	for {
		_, err = io.ReadFull(input, scratch)
		if err == io.EOF {
			err = nil
			return
		}
		if err != nil {
			return
		}
		emu.Cpu.Mem.Store(cpu.RamAddress(addr), binary.BigEndian.Uint16(scratch))
		addr++
		if addr == 0 {
			// The image filled all of RAM.
			return
		}
	}
}

// LineNo returns the current line number for the executing opcode.
func (emu *Emulator) LineNo() int {
	dbg := emu.Program.Debug(emu.Cpu.Mem.Load(cpu.ADDR_PC))
	if dbg.Opcode == nil {
		return 0
	}

	return dbg.Opcode.LineNo
}

// Tick performs a single step of the emulator. The session is done
// when an instruction jumps back to its own first word, the
// conventional halt idiom (SET PC, <self>).
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: lineno, Err: err}
		}
	}()

	pc := emu.Cpu.Mem.Load(cpu.ADDR_PC)
	err = emu.Cpu.Step()
	if err != nil {
		return
	}

	done = emu.Cpu.Mem.Load(cpu.ADDR_PC) == pc
	return
}

// Run ticks until the program halts or the step limit is exceeded.
func (emu *Emulator) Run() (err error) {
	limit := emu.StepLimit
	if limit == 0 {
		limit = STEP_LIMIT
	}

	for range limit {
		var done bool
		done, err = emu.Tick()
		if done || err != nil {
			return
		}
	}

	err = &ErrRuntime{LineNo: emu.LineNo(), Err: ErrStepLimit}
	return
}
