package cpu

import (
	"fmt"
	"iter"
	"log"
	"maps"
)

var _cpu_defines = map[string]string{
	"RAM_WORDS": fmt.Sprintf("%#v", RAM_WORDS),
	"STACK_TOP": fmt.Sprintf("%#v", STACK_TOP),
}

// Cpu is the execution engine. It exclusively owns one Memory for its
// lifetime; Step is a state transition over that Memory and nothing
// else.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Mem *Memory // The complete machine state.
}

// NewCpu creates a CPU with a fresh Memory.
func NewCpu() (cpu *Cpu) {
	cpu = &Cpu{
		Mem: NewMemory(),
	}
	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// Reset restores the initial machine state.
func (cpu *Cpu) Reset() {
	cpu.Mem.Reset()
}

// LoadProgram writes a word stream into RAM starting at address 0.
// The rest of RAM is left as-is.
func (cpu *Cpu) LoadProgram(words []uint16) {
	for n, word := range words {
		cpu.Mem.Store(RamAddress(uint16(n)), word)
	}
}

// String returns the current machine state as a string.
func (cpu *Cpu) String() (text string) {
	for reg := REG_A; reg <= REG_J; reg++ {
		text += fmt.Sprintf("% 5v: 0x%04x\n", reg, cpu.Mem.Load(RegisterAddress(reg)))
	}
	specials := []struct {
		name string
		addr Address
	}{
		{"pc", ADDR_PC},
		{"sp", ADDR_SP},
		{"o", ADDR_O},
		{"skip", ADDR_SKIP},
	}
	for _, special := range specials {
		text += fmt.Sprintf("% 5s: 0x%04x\n", special.name, cpu.Mem.Load(special.addr))
	}
	return
}

// Value is a resolved operand: a writable cell address, or a read-only
// literal. Stores to a literal are discarded.
type Value struct {
	addr    Address
	literal uint16
	isLit   bool
}

// Literal creates a read-only Value.
func Literal(value uint16) Value {
	return Value{literal: value, isLit: true}
}

// Cell creates a writable Value naming one architectural cell.
func Cell(addr Address) Value {
	return Value{addr: addr}
}

// load reads through a resolved operand.
func (cpu *Cpu) load(val Value) uint16 {
	if val.isLit {
		return val.literal
	}
	return cpu.Mem.Load(val.addr)
}

// store writes through a resolved operand. Literals swallow the write.
func (cpu *Cpu) store(val Value, word uint16) {
	if val.isLit {
		return
	}
	cpu.Mem.Store(val.addr, word)
}

// fetch reads the word at PC and advances PC, wrapping.
func (cpu *Cpu) fetch() (word uint16) {
	pc := cpu.Mem.Load(ADDR_PC)
	word = cpu.Mem.Load(RamAddress(pc))
	cpu.Mem.Store(ADDR_PC, pc+1)
	return
}

// resolve turns an operand specifier into a Value. Modes that take a
// nextword advance PC; PUSH and POP move SP. Callers must resolve
// operand a before operand b so the side effects land in the order the
// encoding implies.
func (cpu *Cpu) resolve(arg Arg) (val Value) {
	mem := cpu.Mem

	switch {
	case arg >= ARG_REG && arg < ARG_REG_IND:
		val = Cell(RegisterAddress(Register(arg - ARG_REG)))
	case arg < ARG_NEXT_REG:
		reg := Register(arg - ARG_REG_IND)
		val = Cell(RamAddress(mem.Load(RegisterAddress(reg))))
	case arg < ARG_POP:
		reg := Register(arg - ARG_NEXT_REG)
		next := cpu.fetch()
		val = Cell(RamAddress(next + mem.Load(RegisterAddress(reg))))
	case arg == ARG_POP:
		sp := mem.Load(ADDR_SP)
		val = Cell(RamAddress(sp))
		mem.Store(ADDR_SP, sp+1)
	case arg == ARG_PEEK:
		val = Cell(RamAddress(mem.Load(ADDR_SP)))
	case arg == ARG_PUSH:
		sp := mem.Load(ADDR_SP) - 1
		mem.Store(ADDR_SP, sp)
		val = Cell(RamAddress(sp))
	case arg == ARG_SP:
		val = Cell(ADDR_SP)
	case arg == ARG_PC:
		val = Cell(ADDR_PC)
	case arg == ARG_O:
		val = Cell(ADDR_O)
	case arg == ARG_NEXT_IND:
		val = Cell(RamAddress(cpu.fetch()))
	case arg == ARG_NEXT:
		val = Literal(cpu.fetch())
	default:
		val = Literal(uint16(arg - ARG_SMALL))
	}

	return
}

// Step advances the machine by one instruction. The operands of a
// skipped instruction are still resolved, so a skip consumes exactly
// the words the instruction would have, and PC ends up at the next
// instruction either way.
func (cpu *Cpu) Step() (err error) {
	mem := cpu.Mem

	skip := mem.Load(ADDR_SKIP) != 0
	pc := mem.Load(ADDR_PC)

	code := Code{Word: cpu.fetch()}

	if cpu.Verbose {
		log.Printf("%04x: %v", pc, code)
	}

	if code.IsBasic() {
		op, arg_a, arg_b := code.BasicDecode()
		a := cpu.resolve(arg_a)
		b := cpu.resolve(arg_b)
		if skip {
			mem.Store(ADDR_SKIP, 0)
			return
		}
		cpu.basic(op, a, b)
		return
	}

	op, arg_a := code.NonBasicDecode()
	if op != NONBASIC_JSR {
		err = ErrIllegal{Word: code.Word, Pc: pc}
		return
	}
	a := cpu.resolve(arg_a)
	if skip {
		mem.Store(ADDR_SKIP, 0)
		return
	}
	cpu.jsr(a)
	return
}

// skipUnless arms the skip latch when the condition fails. The latch
// is known clear here: a conditional under skip never executes.
func (cpu *Cpu) skipUnless(cond bool) {
	if !cond {
		cpu.Mem.Store(ADDR_SKIP, 1)
	}
}

// basic applies a two-operand opcode. Intermediates are widened to 32
// bits so the overflow word comes out right even for shift counts at
// or above 16.
func (cpu *Cpu) basic(op BasicOp, a, b Value) {
	mem := cpu.Mem

	x := cpu.load(a)
	y := cpu.load(b)

	switch op {
	case BASIC_SET:
		cpu.store(a, y)
	case BASIC_ADD:
		sum := uint32(x) + uint32(y)
		cpu.store(a, uint16(sum))
		mem.Store(ADDR_O, uint16(sum>>16))
	case BASIC_SUB:
		diff := int32(x) - int32(y)
		cpu.store(a, uint16(diff))
		if diff < 0 {
			mem.Store(ADDR_O, 0xffff)
		} else {
			mem.Store(ADDR_O, 0)
		}
	case BASIC_MUL:
		prod := uint32(x) * uint32(y)
		cpu.store(a, uint16(prod))
		mem.Store(ADDR_O, uint16(prod>>16))
	case BASIC_DIV:
		if y == 0 {
			cpu.store(a, 0)
			mem.Store(ADDR_O, 0)
		} else {
			cpu.store(a, x/y)
			mem.Store(ADDR_O, uint16((uint32(x)<<16)/uint32(y)))
		}
	case BASIC_MOD:
		if y == 0 {
			cpu.store(a, 0)
		} else {
			cpu.store(a, x%y)
		}
	case BASIC_SHL:
		wide := uint32(x) << y
		cpu.store(a, uint16(wide))
		mem.Store(ADDR_O, uint16(wide>>16))
	case BASIC_SHR:
		cpu.store(a, x>>y)
		mem.Store(ADDR_O, uint16((uint32(x)<<16)>>y))
	case BASIC_AND:
		cpu.store(a, x&y)
	case BASIC_BOR:
		cpu.store(a, x|y)
	case BASIC_XOR:
		cpu.store(a, x^y)
	case BASIC_IFE:
		cpu.skipUnless(x == y)
	case BASIC_IFN:
		cpu.skipUnless(x != y)
	case BASIC_IFG:
		cpu.skipUnless(x > y)
	case BASIC_IFB:
		cpu.skipUnless(x&y != 0)
	}
}

// jsr pushes the return address and jumps. The push mirrors the PUSH
// operand mode: pre-decrement SP, then write.
func (cpu *Cpu) jsr(a Value) {
	mem := cpu.Mem

	target := cpu.load(a)
	sp := mem.Load(ADDR_SP) - 1
	mem.Store(ADDR_SP, sp)
	mem.Store(RamAddress(sp), mem.Load(ADDR_PC))
	mem.Store(ADDR_PC, target)
}
