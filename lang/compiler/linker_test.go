package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinkResolvesForwardLabel(t *testing.T) {
	src := "\tcall main\n\tstop\nmain:\n\tpush 0\n\tret\n"
	resolved, err := Link(src)
	require.NoError(t, err)
	assert.Equal(t, "call 2\nstop\npush 0\nret\n", resolved)
}

func TestLinkResolvesBackwardLabel(t *testing.T) {
	src := "loop:\n\tpush 1\n\tjmp loop\n"
	resolved, err := Link(src)
	require.NoError(t, err)
	assert.Equal(t, "push 1\njmp -1\n", resolved)
}

func TestLinkUndefinedLabel(t *testing.T) {
	_, err := Link("\tjmp nowhere\n")
	require.Error(t, err)
	cerr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, UndefinedLabel, cerr.Kind)
}

func TestLinkDuplicateLabel(t *testing.T) {
	_, err := Link("l:\n\tpush 0\nl:\n\tpush 1\n")
	require.Error(t, err)
	cerr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, DuplicateLabel, cerr.Kind)
}

func TestLinkUnknownMnemonic(t *testing.T) {
	_, err := Link("\tfrobnicate 1\n")
	require.Error(t, err)
	cerr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, UnknownMnemonic, cerr.Kind)
}

func TestLinkPassesThroughUnlabeledNumericArg(t *testing.T) {
	resolved, err := Link("\tpush 42\n\tjmp -1\n")
	require.NoError(t, err)
	assert.Equal(t, "push 42\njmp -1\n", resolved)
}

func TestLinkIgnoresBlankLines(t *testing.T) {
	resolved, err := Link("\n\tpush 1\n\n\tstop\n\n")
	require.NoError(t, err)
	assert.Equal(t, "push 1\nstop\n", resolved)
}
