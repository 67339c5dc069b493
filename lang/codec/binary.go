// Package codec converts between the three representations a program passes
// through: textual resolved assembly (labels already folded into relative
// displacements), a slice of decoded isa.Opcode/argument pairs, and the
// 8-byte-per-instruction binary encoding the virtual machine loads directly.
package codec

import (
	"encoding/binary"
	"fmt"

	"github.com/mna/styock/lang/isa"
)

// InstructionSize is the fixed width, in bytes, of one encoded instruction.
const InstructionSize = 8

const (
	opcodeMask = 1<<8 - 1
	argMask    = 1<<56 - 1
)

// Instruction is a single decoded instruction: an opcode and its 56-bit
// argument, already sign- or zero-extended to the full 64 bits as the
// opcode's kind dictates.
type Instruction struct {
	Op  isa.Opcode
	Arg uint64
}

// Encode packs ins into an 8-byte little-endian word: arg occupies the low
// 56 bits, the opcode the high byte.
func Encode(ins Instruction) [InstructionSize]byte {
	word := uint64(ins.Op)<<56 | (uint64(ins.Arg) & argMask)
	var buf [InstructionSize]byte
	binary.LittleEndian.PutUint64(buf[:], word)
	return buf
}

// EncodeProgram encodes a full instruction sequence back to back.
func EncodeProgram(program []Instruction) []byte {
	out := make([]byte, 0, len(program)*InstructionSize)
	for _, ins := range program {
		buf := Encode(ins)
		out = append(out, buf[:]...)
	}
	return out
}

// Decode unpacks one instruction word. It returns an IllegalInstructionTrap
// if the opcode byte does not name a defined instruction.
func Decode(word uint64) (Instruction, error) {
	op := isa.Opcode((word >> 56) & opcodeMask)
	if !op.Valid() {
		return Instruction{}, isa.ErrIllegalInstruction
	}
	raw := word & argMask
	var arg uint64
	if op.SignedArg() {
		arg = signExtend56(raw)
	} else {
		arg = raw
	}
	return Instruction{Op: op, Arg: arg}, nil
}

// DecodeProgram decodes a whole byte slice into a sequence of instructions.
// The length of b must be a multiple of InstructionSize; otherwise the
// returned error wraps an IllegalInstructionTrap.
func DecodeProgram(b []byte) ([]Instruction, error) {
	if len(b)%InstructionSize != 0 {
		return nil, fmt.Errorf("codec: program length %d is not a multiple of %d: %w", len(b), InstructionSize, isa.ErrIllegalInstruction)
	}
	program := make([]Instruction, 0, len(b)/InstructionSize)
	for off := 0; off < len(b); off += InstructionSize {
		word := binary.LittleEndian.Uint64(b[off : off+InstructionSize])
		ins, err := Decode(word)
		if err != nil {
			return nil, fmt.Errorf("codec: at offset %d: %w", off, err)
		}
		program = append(program, ins)
	}
	return program, nil
}

// signExtend56 interprets the low 56 bits of raw as a two's-complement
// signed value and sign-extends it to 64 bits.
func signExtend56(raw uint64) uint64 {
	const signBit = uint64(1) << 55
	if raw&signBit != 0 {
		return raw | ^argMask
	}
	return raw
}
