package quasar

import (
	"bytes"
	"encoding/gob"
)

// wireFormat is the persisted shape of a Stack: sp, the frame sequence
// (header words, which fold entry and numSlots in, plus the reference
// slots), and the owning context. No canonical wire format is required
// beyond round-trip fidelity, so this uses the standard library's gob
// encoding (see DESIGN.md for why no third-party serialization library
// has a natural home here).
type wireFormat struct {
	Prims   []uint64
	Refs    []any
	SP      int
	Context any
}

// MarshalBinary serializes the stack, preserving sp, the frame sequence
// (entry, numSlots, slot values), and reference slots, provided any
// concrete reference/context types have been registered with
// gob.Register by the caller.
func (s *Stack) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	w := wireFormat{Prims: s.prims, Refs: s.refs, SP: s.sp, Context: s.context}
	if err := gob.NewEncoder(&buf).Encode(&w); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary restores a stack previously produced by MarshalBinary.
// The transient suspended-continuation slot is not part of the persisted
// format; it starts cleared on the restored stack.
func (s *Stack) UnmarshalBinary(data []byte) error {
	var w wireFormat
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&w); err != nil {
		return err
	}
	s.prims = w.Prims
	s.refs = w.Refs
	s.sp = w.SP
	s.context = w.Context
	s.suspended = nil
	return nil
}
