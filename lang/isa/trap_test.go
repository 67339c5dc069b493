package isa

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrapError(t *testing.T) {
	cases := []struct {
		trap *Trap
		want string
	}{
		{ErrStackUnderflow, "stack underflow"},
		{NewInvalidAddressTrap(0xff), "invalid address[0xff] accessed"},
		{ErrIllegalInstruction, "illegal instruction"},
		{ErrZeroDivision, "division by zero"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.trap.Error())
	}
}

func TestTrapIsError(t *testing.T) {
	var err error = ErrStackUnderflow
	assert.EqualError(t, err, "stack underflow")
}
