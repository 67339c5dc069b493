package vm

import "github.com/dolthub/swiss"

// Frame is one call frame: the address to resume at on return, and the
// function's parameters/locals addressed by their dense integer id. Frame
// variables are backed by a swiss-table map rather than a slice: the id
// space is dense per function but a frame only ever touches the handful of
// ids that function declares, so a hash map sized to that handful avoids
// allocating for the whole program's variable count on every call.
type Frame struct {
	ReturnAddress uint64
	variables     *swiss.Map[uint32, uint64]
}

func newFrame(returnAddress uint64) *Frame {
	return &Frame{
		ReturnAddress: returnAddress,
		variables:     swiss.NewMap[uint32, uint64](8),
	}
}

// Load returns the value stored at id, or 0 if nothing has been stored
// there yet (an uninitialized local reads as 0, never a trap).
func (f *Frame) Load(id uint32) uint64 {
	v, _ := f.variables.Get(id)
	return v
}

// Store writes v to id, overwriting any previous value.
func (f *Frame) Store(id uint32, v uint64) {
	f.variables.Put(id, v)
}

// Variables returns a snapshot of every id currently holding a value, for
// debugger introspection.
func (f *Frame) Variables() map[uint32]uint64 {
	out := make(map[uint32]uint64, f.variables.Count())
	f.variables.Iter(func(k uint32, v uint64) bool {
		out[k] = v
		return false
	})
	return out
}
