package cpu

import (
	"encoding/binary"
	"iter"
)

type Program struct {
	Opcodes []Opcode
}

type Debug struct {
	*Opcode
	Index int
}

// Debug finds the source opcode covering a program counter. The Index
// is the word offset within the opcode.
func (prog *Program) Debug(pc uint16) (dbg Debug) {
	for n, op := range prog.Opcodes {
		if pc >= uint16(op.Ip) && pc < uint16(op.Ip)+uint16(op.wordLength()) {
			dbg = Debug{
				Opcode: &prog.Opcodes[n],
				Index:  int(pc - uint16(op.Ip)),
			}
			break
		}
	}

	return
}

// Words iterates the assembled stream as (address, word) pairs, with
// each instruction word followed by its nextwords.
func (prog *Program) Words() iter.Seq2[uint16, uint16] {
	return func(yield func(addr uint16, word uint16) bool) {
		for _, op := range prog.Opcodes {
			addr := uint16(op.Ip)
			for _, code := range op.Codes {
				if !yield(addr, code.Word) {
					return
				}
				addr++
				for _, imm := range code.Immediates {
					if !yield(addr, imm) {
						return
					}
					addr++
				}
			}
		}
	}
}

// Binary emits the big-endian object stream: no header, no relocation
// table, just the raw words.
func (prog *Program) Binary() (out []byte) {
	for _, word := range prog.Words() {
		out = binary.BigEndian.AppendUint16(out, word)
	}

	return
}
