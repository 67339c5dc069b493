package vm

import (
	"github.com/mna/styock/lang/codec"
	"github.com/mna/styock/lang/isa"
)

// Breakpoint is a single registered breakpoint. Id is unique per
// AddBreakpoint call, so two breakpoints on the same Line get distinct ids
// and must be removed independently.
type Breakpoint struct {
	ID   int
	Line uint64
}

// AddBreakpoint registers a breakpoint at the given instruction address and
// returns its id, or -1 if line is out of the loaded program's bounds.
func (m *VM) AddBreakpoint(line uint64) int {
	if line >= uint64(len(m.program)) {
		return -1
	}
	id := m.nextBPID
	m.nextBPID++
	m.breakpoints = append(m.breakpoints, Breakpoint{ID: id, Line: line})
	return id
}

// RemoveBreakpoint deletes the breakpoint with the given id, reporting
// whether one was found.
func (m *VM) RemoveBreakpoint(id int) bool {
	for i, bp := range m.breakpoints {
		if bp.ID == id {
			m.breakpoints = append(m.breakpoints[:i], m.breakpoints[i+1:]...)
			return true
		}
	}
	return false
}

// InfoBreakpoints returns a snapshot of every registered breakpoint.
func (m *VM) InfoBreakpoints() []Breakpoint {
	return append([]Breakpoint(nil), m.breakpoints...)
}

func (m *VM) atBreakpoint(ip uint64) bool {
	for _, bp := range m.breakpoints {
		if bp.Line == ip {
			return true
		}
	}
	return false
}

// InfoOperands returns a snapshot of the operand stack, bottom to top.
func (m *VM) InfoOperands() []uint64 {
	return append([]uint64(nil), m.operands...)
}

// FrameInfo is a read-only snapshot of one call frame for debugger display.
type FrameInfo struct {
	ReturnAddress uint64
	Variables     map[uint32]uint64
}

// InfoFrames returns a snapshot of the frame stack, outermost to innermost.
func (m *VM) InfoFrames() []FrameInfo {
	out := make([]FrameInfo, len(m.frames))
	for i, f := range m.frames {
		out[i] = FrameInfo{ReturnAddress: f.ReturnAddress, Variables: f.Variables()}
	}
	return out
}

// List returns the instruction at addr, or an InvalidAddressTrap if addr is
// out of the loaded program's bounds.
func (m *VM) List(addr uint64) (codec.Instruction, error) {
	if addr >= uint64(len(m.program)) {
		return codec.Instruction{}, isa.NewInvalidAddressTrap(addr)
	}
	return m.program[addr], nil
}

// ListRange returns the loaded program's instructions in [start, end),
// clamped to the program's bounds.
func (m *VM) ListRange(start, end uint64) []codec.Instruction {
	if start > uint64(len(m.program)) {
		start = uint64(len(m.program))
	}
	if end > uint64(len(m.program)) {
		end = uint64(len(m.program))
	}
	if start >= end {
		return nil
	}
	return append([]codec.Instruction(nil), m.program[start:end]...)
}
