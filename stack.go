// Package quasar implements a shadow-stack runtime: a heap-resident stack
// of frames used to materialize the call chain of a suspendable
// computation so it can be replayed later. It is the data structure half
// of a cooperative-threading system; the other half (a bytecode rewriter
// that emits calls into this package at fixed program points, a fiber
// scheduler, and a delimited-continuation host) is out of scope and
// treated as an external collaborator.
package quasar

import (
	"fmt"

	"github.com/b-studios/quasar-go/bits"
)

// headerReserve is the extra header-word slack added to a caller-supplied
// initial capacity, sizing a fresh operand stack a little above the
// caller's minimum rather than exactly to it.
const headerReserve = 1

// emptySP is the stack-pointer sentinel for "no current frame".
const emptySP = -1

// Stack is a mutable, single-owner container of frames. It uses a packed
// layout: a single growable primitive-word array and a parallel growable
// reference array. A frame occupies one header word (entry, numSlots,
// prevNumSlots bit-packed via package bits) followed by numSlots payload
// words in each array.
//
// A Stack belongs to at most one computation at a time; concurrent access
// from two goroutines is undefined.
type Stack struct {
	prims []uint64
	refs  []any

	// sp is the index of the first payload slot of the current frame, or
	// emptySP if the stack holds no active frame. The current frame's
	// header lives at prims[sp-1].
	sp int

	// context is the immutable owner (fiber/continuation) set at
	// construction; it never changes thereafter.
	context any

	// suspended is the transient one-shot hand-off slot for a captured
	// continuation.
	suspended any
}

// NewStack constructs an empty stack with room for at least
// initialCapacity payload words, owned by context (which may be nil).
func NewStack(initialCapacity int, context any) (*Stack, error) {
	if initialCapacity <= 0 {
		return nil, ErrInvalidCapacity
	}
	n := initialCapacity + headerReserve
	return &Stack{
		prims:   make([]uint64, n),
		refs:    make([]any, n),
		sp:      emptySP,
		context: context,
	}, nil
}

// ensureCapacity grows prims/refs, if necessary, so that index n-1 is
// addressable. Growth doubles the current length repeatedly until it
// suffices, then reallocates and copies; storage never
// shrinks except via popSegmentAbove reducing logical size.
func (s *Stack) ensureCapacity(n int) {
	if n <= len(s.prims) {
		return
	}
	newLen := len(s.prims)
	if newLen == 0 {
		newLen = 1
	}
	for newLen < n {
		newLen *= 2
	}
	newPrims := make([]uint64, newLen)
	copy(newPrims, s.prims)
	s.prims = newPrims

	newRefs := make([]any, newLen)
	copy(newRefs, s.refs)
	s.refs = newRefs
}

// header returns the header word at the given position.
func (s *Stack) header(pos int) uint64 { return s.prims[pos] }

// NextMethodEntry advances the stack pointer to the next frame above the
// caller's current frame and returns that frame's saved entry label, or 0
// if it has never been pushed.
func (s *Stack) NextMethodEntry() uint64 {
	if s.sp == emptySP {
		s.ensureCapacity(1)
		s.sp = 1
		return bits.Entry(s.header(0))
	}

	headerPos := s.sp - 1
	h := s.header(headerPos)
	if h == 0 {
		// Entered but no pushMethod performed yet above this frame: there
		// is nothing to move into.
		return 0
	}

	numSlots := int(bits.NumSlots(h))
	newHeaderPos := headerPos + 1 + numSlots
	s.ensureCapacity(newHeaderPos + 1)

	// Preserve whatever entry/numSlots the new header already carries
	// (set during a prior run, before the computation suspended): only
	// the prevNumSlots field is ours to (re)write here.
	s.prims[newHeaderPos] = bits.SetPrevNumSlots(s.prims[newHeaderPos], uint64(numSlots))

	s.sp = newHeaderPos + 1
	return bits.Entry(s.header(newHeaderPos))
}

// PushMethod writes the caller-chosen continuation label and save-slot
// count into the current frame's metadata, and ensures storage for at
// least numSlots payload words plus one fresh header above is available.
// It fails if called on an empty stack or with an
// out-of-range entry/numSlots.
func (s *Stack) PushMethod(entry, numSlots int) error {
	if s.sp == emptySP {
		return fmt.Errorf("%w: pushMethod\n%s", ErrEmptyStack, s.Dump())
	}
	if entry < 0 || entry >= bits.MaxEntry {
		return fmt.Errorf("%w: entry=%d", ErrEntryOutOfRange, entry)
	}
	if numSlots < 0 || numSlots >= bits.MaxNumSlots {
		return fmt.Errorf("%w: numSlots=%d", ErrNumSlotsOutOfRange, numSlots)
	}

	headerPos := s.sp - 1
	prev := bits.PrevNumSlots(s.header(headerPos))
	s.prims[headerPos] = bits.Encode(uint64(entry), uint64(numSlots), prev)

	nextHeaderPos := headerPos + 1 + numSlots
	s.ensureCapacity(nextHeaderPos + 1)

	// The position right above the frame we just wrote must look fresh
	// to the child's NextMethodEntry.
	s.prims[nextHeaderPos] = 0
	s.refs[nextHeaderPos] = nil
	return nil
}

// PopMethod is invoked on normal (non-suspending) return from an
// instrumented method. It clears the current frame's payload references
// (so held objects become collectible), clears the header metadata, and
// moves sp to the predecessor frame.
func (s *Stack) PopMethod() error {
	if s.sp == emptySP {
		return fmt.Errorf("%w: popMethod\n%s", ErrEmptyStack, s.Dump())
	}

	headerPos := s.sp - 1
	h := s.header(headerPos)
	numSlots := int(bits.NumSlots(h))
	prev := int(bits.PrevNumSlots(h))

	for i := 0; i < numSlots; i++ {
		s.refs[s.sp+i] = nil
	}
	s.prims[headerPos] = 0

	if headerPos == 0 {
		s.sp = emptySP
		return nil
	}
	predHeaderPos := headerPos - 1 - prev
	s.sp = predHeaderPos + 1
	return nil
}

// ResumeStack resets sp to the empty sentinel without disturbing frame
// contents. Called once at the start of replaying a suspended
// computation; the instrumented dispatcher at the bottom-most frame will
// then re-enter NextMethodEntry and the shadow-stack is copied back onto
// the runtime stack one frame at a time as control descends.
func (s *Stack) ResumeStack() {
	s.sp = emptySP
}

// IsFirstInStackOrPushed is a reserved fast-path check. It conservatively
// returns true; the frame protocol is correct for any return value
// (see DESIGN.md).
func (s *Stack) IsFirstInStackOrPushed() bool {
	return true
}

// StackPointer exposes the raw stack pointer for diagnostics and tests;
// it is not part of the instrumented-method contract.
func (s *Stack) StackPointer() int { return s.sp }

// Empty reports whether the stack currently holds no active frame.
func (s *Stack) Empty() bool { return s.sp == emptySP }
