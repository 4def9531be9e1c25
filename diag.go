package quasar

import (
	"fmt"
	"strings"

	"github.com/b-studios/quasar-go/bits"
)

// Dump produces a human-readable rendering of the stack: one line per
// frame with entry, numSlots, prevNumSlots, followed by one line per slot
// with the primitive value and reference.
func (s *Stack) Dump() string {
	var b strings.Builder
	fmt.Fprintf(&b, "sp=%d\n", s.sp)
	if s.sp == emptySP {
		return b.String()
	}

	pos := 0
	for pos <= s.sp-1 {
		h := s.header(pos)
		entry := bits.Entry(h)
		numSlots := int(bits.NumSlots(h))
		prevNumSlots := bits.PrevNumSlots(h)
		fmt.Fprintf(&b, "frame@%d entry=%d numSlots=%d prevNumSlots=%d\n", pos, entry, numSlots, prevNumSlots)
		for i := 0; i < numSlots; i++ {
			slot := pos + 1 + i
			fmt.Fprintf(&b, "  slot[%d] prim=%#016x ref=%v\n", i, s.prims[slot], s.refs[slot])
		}
		pos += 1 + numSlots
	}
	return b.String()
}

// Clone returns a deep-enough copy of the stack: its backing arrays are
// copied so subsequent mutation of either stack does not observe the
// other. Slot references themselves are aliased; the referent objects
// are out of the stack's scope.
func (s *Stack) Clone() *Stack {
	prims := make([]uint64, len(s.prims))
	copy(prims, s.prims)
	refs := make([]any, len(s.refs))
	copy(refs, s.refs)
	return &Stack{
		prims:     prims,
		refs:      refs,
		sp:        s.sp,
		context:   s.context,
		suspended: s.suspended,
	}
}
