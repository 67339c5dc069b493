package vm

import (
	"testing"

	"github.com/mna/styock/lang/codec"
	"github.com/mna/styock/lang/compiler"
	"github.com/mna/styock/lang/isa"
	"github.com/mna/styock/lang/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assembleSource(t *testing.T, src string) []codec.Instruction {
	t.Helper()
	file, err := parser.ParseFile([]byte(src))
	require.NoError(t, err)
	bin, err := compiler.Assemble(file)
	require.NoError(t, err)
	program, err := codec.DecodeProgram(bin)
	require.NoError(t, err)
	return program
}

func runToHalt(t *testing.T, program []codec.Instruction) *VM {
	t.Helper()
	m := New()
	m.LoadProgram(program)
	require.NoError(t, m.Run())
	require.True(t, m.Halted())
	return m
}

func TestVMIntLiteralResult(t *testing.T) {
	m := runToHalt(t, assembleSource(t, "fn main() { 42 }"))
	assert.Equal(t, []uint64{42}, m.InfoOperands())
}

func TestVMArithmeticResult(t *testing.T) {
	m := runToHalt(t, assembleSource(t, "fn main() { 6 + 8 }"))
	assert.Equal(t, []uint64{14}, m.InfoOperands())
}

func TestVMWhileLoopCounts(t *testing.T) {
	src := `fn main() {
		let mut i = 0;
		while i < 10 { i += 1; }
		i
	}`
	m := runToHalt(t, assembleSource(t, src))
	require.Len(t, m.InfoOperands(), 1)
	assert.Equal(t, uint64(10), m.InfoOperands()[0])
}

func TestVMZeroDivisionTrap(t *testing.T) {
	m := New()
	m.LoadProgram([]codec.Instruction{
		{Op: isa.PUSH, Arg: 5},
		{Op: isa.PUSH, Arg: 0},
		{Op: isa.DIV},
		{Op: isa.STOP},
	})
	err := m.Run()
	require.Error(t, err)
	assert.ErrorIs(t, err, isa.ErrZeroDivision)
	assert.False(t, m.Halted())
}

func TestVMStackUnderflowTrapFromEmptyStart(t *testing.T) {
	m := New()
	m.LoadProgram([]codec.Instruction{
		{Op: isa.RET},
		{Op: isa.STOP},
	})
	err := m.Run()
	require.Error(t, err)
	assert.ErrorIs(t, err, isa.ErrStackUnderflow)
}

func TestVMTrapRollsBackInstructionPointer(t *testing.T) {
	m := New()
	m.LoadProgram([]codec.Instruction{
		{Op: isa.PUSH, Arg: 1},
		{Op: isa.PUSH, Arg: 0},
		{Op: isa.DIV},
	})
	require.NoError(t, m.Step(2))
	require.Equal(t, uint64(2), m.IP())
	err := m.Step(1)
	require.Error(t, err)
	assert.Equal(t, uint64(2), m.IP(), "ip must revert to the faulting instruction's own address")
}

func TestVMInvalidAddressTrapPastEnd(t *testing.T) {
	m := New()
	m.LoadProgram([]codec.Instruction{{Op: isa.NOP}})
	require.NoError(t, m.Step(1))
	err := m.Step(1)
	require.Error(t, err)
	var trap *isa.Trap
	require.ErrorAs(t, err, &trap)
	assert.Equal(t, isa.InvalidAddressTrap, trap.Kind)
}

func TestVMIllegalInstructionTrap(t *testing.T) {
	m := New()
	m.LoadProgram([]codec.Instruction{{Op: isa.Opcode(0xfe)}})
	err := m.Run()
	require.Error(t, err)
	assert.ErrorIs(t, err, isa.ErrIllegalInstruction)
}

func TestVMBreakpointStopsBeforeInstruction(t *testing.T) {
	program := []codec.Instruction{
		{Op: isa.PUSH, Arg: 1},
		{Op: isa.PUSH, Arg: 2},
		{Op: isa.STOP},
	}
	m := New()
	m.LoadProgram(program)
	m.AddBreakpoint(1)

	require.NoError(t, m.Run())
	assert.False(t, m.Halted())
	assert.Equal(t, uint64(1), m.IP())
	assert.Equal(t, []uint64{1}, m.InfoOperands())

	require.NoError(t, m.Run())
	assert.True(t, m.Halted())
	assert.Equal(t, []uint64{1, 2}, m.InfoOperands())
}

func TestVMRunAlwaysExecutesAtLeastOneInstruction(t *testing.T) {
	program := []codec.Instruction{
		{Op: isa.PUSH, Arg: 1},
		{Op: isa.STOP},
	}
	m := New()
	m.LoadProgram(program)
	m.AddBreakpoint(0)

	require.NoError(t, m.Run())
	assert.Equal(t, []uint64{1}, m.InfoOperands())
}

func TestVMAddRemoveBreakpoint(t *testing.T) {
	m := New()
	m.LoadProgram([]codec.Instruction{
		{Op: isa.PUSH, Arg: 1},
		{Op: isa.PUSH, Arg: 2},
		{Op: isa.ADD},
		{Op: isa.STOP},
	})

	id := m.AddBreakpoint(3)
	assert.Len(t, m.InfoBreakpoints(), 1)
	assert.True(t, m.RemoveBreakpoint(id))
	assert.Empty(t, m.InfoBreakpoints())
	assert.False(t, m.RemoveBreakpoint(id))
}

func TestVMAddBreakpointOutOfRange(t *testing.T) {
	m := New()
	m.LoadProgram([]codec.Instruction{{Op: isa.STOP}})

	assert.Equal(t, -1, m.AddBreakpoint(1))
	assert.Equal(t, -1, m.AddBreakpoint(100))
	assert.Empty(t, m.InfoBreakpoints())
}

func TestVMStepDoesNotStopAtBreakpoints(t *testing.T) {
	program := []codec.Instruction{
		{Op: isa.PUSH, Arg: 1},
		{Op: isa.PUSH, Arg: 2},
		{Op: isa.STOP},
	}
	m := New()
	m.LoadProgram(program)
	m.AddBreakpoint(1)
	require.NoError(t, m.Step(3))
	assert.True(t, m.Halted())
}

func TestVMList(t *testing.T) {
	program := []codec.Instruction{
		{Op: isa.PUSH, Arg: 1},
		{Op: isa.PUSH, Arg: 2},
		{Op: isa.ADD},
		{Op: isa.STOP},
	}
	m := New()
	m.LoadProgram(program)

	ins, err := m.List(2)
	require.NoError(t, err)
	assert.Equal(t, program[2], ins)
}

func TestVMListOutOfRange(t *testing.T) {
	m := New()
	m.LoadProgram([]codec.Instruction{{Op: isa.STOP}})

	_, err := m.List(5)
	require.Error(t, err)
	var trap *isa.Trap
	require.ErrorAs(t, err, &trap)
	assert.Equal(t, isa.InvalidAddressTrap, trap.Kind)
}

func TestVMListRange(t *testing.T) {
	program := []codec.Instruction{
		{Op: isa.PUSH, Arg: 1},
		{Op: isa.PUSH, Arg: 2},
		{Op: isa.ADD},
		{Op: isa.STOP},
	}
	m := New()
	m.LoadProgram(program)
	assert.Equal(t, program[1:3], m.ListRange(1, 3))
	assert.Empty(t, m.ListRange(10, 20))
}

func TestVMLoadProgramResetsState(t *testing.T) {
	m := New()
	m.LoadProgram([]codec.Instruction{{Op: isa.PUSH, Arg: 1}, {Op: isa.STOP}})
	require.NoError(t, m.Run())
	require.True(t, m.Halted())

	m.LoadProgram([]codec.Instruction{{Op: isa.STOP}})
	assert.False(t, m.Halted())
	assert.Equal(t, uint64(0), m.IP())
	assert.Empty(t, m.InfoOperands())
}
