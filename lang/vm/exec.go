package vm

import (
	"github.com/mna/styock/lang/codec"
	"github.com/mna/styock/lang/isa"
)

// execute runs one instruction against the machine's state. It returns
// (true, nil) for a stop instruction, (false, nil) for ordinary completion,
// and a non-nil error for a trap -- in which case the caller must not have
// any state change survive (execute only mutates m's fields after every
// fallible step of an instruction has already succeeded).
func (m *VM) execute(ins codec.Instruction) (bool, error) {
	switch ins.Op {
	case isa.NOP:
		return false, nil

	case isa.PUSH:
		m.push(ins.Arg)
		return false, nil

	case isa.POP:
		if _, err := m.pop(); err != nil {
			return false, err
		}
		return false, nil

	case isa.SWAP:
		if len(m.operands) < 2 {
			return false, isa.ErrStackUnderflow
		}
		n := len(m.operands)
		m.operands[n-1], m.operands[n-2] = m.operands[n-2], m.operands[n-1]
		return false, nil

	case isa.DUP:
		v, err := m.top()
		if err != nil {
			return false, err
		}
		m.push(v)
		return false, nil

	case isa.ADD:
		return false, m.binary(func(a, b uint64) (uint64, error) { return a + b, nil })
	case isa.SUB:
		return false, m.binary(func(a, b uint64) (uint64, error) { return a - b, nil })
	case isa.MUL:
		return false, m.binary(func(a, b uint64) (uint64, error) { return a * b, nil })
	case isa.DIV:
		return false, m.binary(func(a, b uint64) (uint64, error) {
			if b == 0 {
				return 0, isa.ErrZeroDivision
			}
			return a / b, nil
		})
	case isa.MOD:
		return false, m.binary(func(a, b uint64) (uint64, error) {
			if b == 0 {
				return 0, isa.ErrZeroDivision
			}
			return a % b, nil
		})
	case isa.SHL:
		return false, m.binary(func(a, b uint64) (uint64, error) { return a << (b & 63), nil })
	case isa.SHR:
		return false, m.binary(func(a, b uint64) (uint64, error) { return a >> (b & 63), nil })
	case isa.MAX:
		return false, m.binary(func(a, b uint64) (uint64, error) {
			if a > b {
				return a, nil
			}
			return b, nil
		})
	case isa.MIN:
		return false, m.binary(func(a, b uint64) (uint64, error) {
			if a < b {
				return a, nil
			}
			return b, nil
		})
	case isa.AND:
		return false, m.binary(func(a, b uint64) (uint64, error) { return a & b, nil })
	case isa.OR:
		return false, m.binary(func(a, b uint64) (uint64, error) { return a | b, nil })
	case isa.XOR:
		return false, m.binary(func(a, b uint64) (uint64, error) { return a ^ b, nil })

	case isa.INC:
		return false, m.unary(func(a uint64) uint64 { return a + 1 })
	case isa.DEC:
		return false, m.unary(func(a uint64) uint64 { return a - 1 })
	case isa.NEG:
		return false, m.unary(func(a uint64) uint64 { return -a })
	case isa.NOT:
		return false, m.unary(func(a uint64) uint64 { return ^a })

	case isa.LT:
		return false, m.compare(func(a, b uint64) bool { return a < b })
	case isa.LE:
		return false, m.compare(func(a, b uint64) bool { return a <= b })
	case isa.EQ:
		return false, m.compare(func(a, b uint64) bool { return a == b })
	case isa.NEQ:
		return false, m.compare(func(a, b uint64) bool { return a != b })
	case isa.GE:
		return false, m.compare(func(a, b uint64) bool { return a >= b })
	case isa.GT:
		return false, m.compare(func(a, b uint64) bool { return a > b })

	case isa.LOAD:
		frame := m.curFrame()
		if frame == nil {
			return false, isa.ErrStackUnderflow
		}
		m.push(frame.Load(uint32(ins.Arg)))
		return false, nil

	case isa.STORE:
		frame := m.curFrame()
		if frame == nil {
			return false, isa.ErrStackUnderflow
		}
		v, err := m.pop()
		if err != nil {
			return false, err
		}
		frame.Store(uint32(ins.Arg), v)
		return false, nil

	case isa.CALL:
		m.frames = append(m.frames, newFrame(m.ip))
		m.ip = uint64(int64(m.ip) - 1 + int64(ins.Arg))
		return false, nil

	case isa.RET:
		if len(m.frames) == 0 {
			return false, isa.ErrStackUnderflow
		}
		frame := m.frames[len(m.frames)-1]
		m.frames = m.frames[:len(m.frames)-1]
		m.ip = frame.ReturnAddress
		return false, nil

	case isa.JMP:
		m.ip = uint64(int64(m.ip) - 1 + int64(ins.Arg))
		return false, nil

	case isa.JIFT:
		cond, err := m.pop()
		if err != nil {
			return false, err
		}
		if cond != 0 {
			m.ip = uint64(int64(m.ip) - 1 + int64(ins.Arg))
		}
		return false, nil

	case isa.STOP:
		return true, nil

	default:
		return false, isa.ErrIllegalInstruction
	}
}

func (m *VM) binary(apply func(a, b uint64) (uint64, error)) error {
	if len(m.operands) < 2 {
		return isa.ErrStackUnderflow
	}
	b := m.operands[len(m.operands)-1]
	a := m.operands[len(m.operands)-2]
	v, err := apply(a, b)
	if err != nil {
		return err
	}
	m.operands = m.operands[:len(m.operands)-2]
	m.push(v)
	return nil
}

func (m *VM) unary(apply func(a uint64) uint64) error {
	if len(m.operands) == 0 {
		return isa.ErrStackUnderflow
	}
	top := len(m.operands) - 1
	m.operands[top] = apply(m.operands[top])
	return nil
}

func (m *VM) compare(cmp func(a, b uint64) bool) error {
	return m.binary(func(a, b uint64) (uint64, error) {
		if cmp(a, b) {
			return 1, nil
		}
		return 0, nil
	})
}
