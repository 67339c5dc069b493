package isa

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookupRoundTrip(t *testing.T) {
	for op := NOP; op < maxOpcode; op++ {
		mnemonic := op.String()
		got, ok := Lookup(mnemonic)
		assert.True(t, ok, "mnemonic %q should resolve", mnemonic)
		assert.Equal(t, op, got)
	}
}

func TestLookupUnknown(t *testing.T) {
	_, ok := Lookup("frobnicate")
	assert.False(t, ok)
}

func TestValid(t *testing.T) {
	assert.True(t, STOP.Valid())
	assert.False(t, maxOpcode.Valid())
	assert.False(t, Opcode(255).Valid())
}

func TestHasArg(t *testing.T) {
	for _, op := range []Opcode{PUSH, LOAD, STORE, CALL, JMP, JIFT} {
		assert.True(t, op.HasArg(), "%s should take an argument", op)
	}
	for _, op := range []Opcode{NOP, POP, SWAP, DUP, ADD, RET, STOP} {
		assert.False(t, op.HasArg(), "%s should not take an argument", op)
	}
}

func TestSignedArg(t *testing.T) {
	for _, op := range []Opcode{CALL, JMP, JIFT} {
		assert.True(t, op.SignedArg(), "%s should be signed", op)
	}
	for _, op := range []Opcode{PUSH, LOAD, STORE} {
		assert.False(t, op.SignedArg(), "%s should be unsigned", op)
	}
}

func TestHalts(t *testing.T) {
	assert.True(t, STOP.Halts())
	assert.False(t, NOP.Halts())
	assert.False(t, RET.Halts())
}

func TestUnknownOpcodeString(t *testing.T) {
	assert.Equal(t, "opcode(255)", Opcode(255).String())
}
