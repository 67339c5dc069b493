package isa

import "fmt"

// Trap is a deterministic runtime fault raised by instruction execution. The
// machine state is left exactly as it was before the faulting instruction:
// no partial stack or frame mutation survives a trap.
type Trap struct {
	Kind    TrapKind
	Address uint64 // meaningful only for InvalidAddress
}

// TrapKind enumerates the closed set of runtime faults the machine can
// raise. There is no user-extensible trap mechanism.
type TrapKind uint8

const (
	StackUnderflowTrap TrapKind = iota
	InvalidAddressTrap
	IllegalInstructionTrap
	ZeroDivisionTrap
)

func (t *Trap) Error() string {
	switch t.Kind {
	case StackUnderflowTrap:
		return "stack underflow"
	case InvalidAddressTrap:
		return fmt.Sprintf("invalid address[%#x] accessed", t.Address)
	case IllegalInstructionTrap:
		return "illegal instruction"
	case ZeroDivisionTrap:
		return "division by zero"
	default:
		return "unknown trap"
	}
}

// NewInvalidAddressTrap builds an InvalidAddressTrap for the given address.
func NewInvalidAddressTrap(addr uint64) *Trap {
	return &Trap{Kind: InvalidAddressTrap, Address: addr}
}

// Trap singletons for the stateless trap kinds, so callers don't allocate on
// every raise.
var (
	ErrStackUnderflow    = &Trap{Kind: StackUnderflowTrap}
	ErrIllegalInstruction = &Trap{Kind: IllegalInstructionTrap}
	ErrZeroDivision      = &Trap{Kind: ZeroDivisionTrap}
)
