// Package vm implements the virtual machine core: a 64-bit stack machine
// that executes the fixed-width instruction encoding produced by the codec
// package, with single-step execution and breakpoint-aware running for
// debugger front-ends.
package vm

import (
	"github.com/mna/styock/lang/codec"
	"github.com/mna/styock/lang/isa"
)

// VM is a single program's execution state: operand stack, frame stack and
// instruction pointer. It is not safe for concurrent use.
type VM struct {
	program  []codec.Instruction
	operands []uint64
	frames   []*Frame
	ip       uint64
	halted   bool

	breakpoints []Breakpoint
	nextBPID    int
}

// New returns a VM with no program loaded.
func New() *VM {
	return &VM{}
}

// LoadProgram installs program and resets all execution state: operand
// stack, frame stack and instruction pointer. Breakpoints are left in
// place, since they are normally set against source lines before a debug
// session begins and should survive reloading the same program.
func (m *VM) LoadProgram(program []codec.Instruction) {
	m.program = program
	m.operands = m.operands[:0]
	m.frames = m.frames[:0]
	m.ip = 0
	m.halted = false
}

// IP returns the address of the next instruction to execute.
func (m *VM) IP() uint64 { return m.ip }

// Size returns the number of instructions loaded.
func (m *VM) Size() int { return len(m.program) }

// Halted reports whether the program has executed a stop instruction.
func (m *VM) Halted() bool { return m.halted }

// Step executes up to n instructions, stopping early if the program halts.
// It does not stop at breakpoints; use Run for breakpoint-aware execution.
func (m *VM) Step(n int) error {
	for i := 0; i < n && !m.halted; i++ {
		if err := m.step(); err != nil {
			return err
		}
	}
	return nil
}

// Run executes instructions until the program halts or execution reaches
// the address of a breakpoint, in which case it returns with that
// instruction not yet executed (a subsequent Run resumes by executing it
// and then continuing).
func (m *VM) Run() error {
	for {
		if m.halted {
			return nil
		}
		if err := m.step(); err != nil {
			return err
		}
		if m.halted {
			return nil
		}
		if m.atBreakpoint(m.ip) {
			return nil
		}
	}
}

func (m *VM) step() error {
	if m.ip >= uint64(len(m.program)) {
		return isa.NewInvalidAddressTrap(m.ip)
	}
	addr := m.ip
	ins := m.program[addr]
	m.ip++

	halt, err := m.execute(ins)
	if err != nil {
		m.ip = addr // atomic failure: state reverts to just before the op
		return err
	}
	if halt {
		m.halted = true
	}
	return nil
}

func (m *VM) pop() (uint64, error) {
	if len(m.operands) == 0 {
		return 0, isa.ErrStackUnderflow
	}
	v := m.operands[len(m.operands)-1]
	m.operands = m.operands[:len(m.operands)-1]
	return v, nil
}

func (m *VM) push(v uint64) {
	m.operands = append(m.operands, v)
}

func (m *VM) top() (uint64, error) {
	if len(m.operands) == 0 {
		return 0, isa.ErrStackUnderflow
	}
	return m.operands[len(m.operands)-1], nil
}

func (m *VM) curFrame() *Frame {
	if len(m.frames) == 0 {
		return nil
	}
	return m.frames[len(m.frames)-1]
}
