package quasar

import (
	"fmt"

	"github.com/b-studios/quasar-go/bits"
)

// Marker is an opaque position within a specific Stack instance: "the
// frame that was current when this marker was taken". It is only
// meaningful on its originating stack.
type Marker struct {
	pos int // header position, or emptySP if taken while the stack was empty.
}

// GetMarker returns a Marker identifying the current frame.
func (s *Stack) GetMarker() Marker {
	if s.sp == emptySP {
		return Marker{pos: emptySP}
	}
	return Marker{pos: s.sp - 1}
}

// ResumeAt sets sp so that the frame identified by marker becomes
// current. No frames are destroyed; the region above the marker becomes
// logically inactive but remains in storage until overwritten.
func (s *Stack) ResumeAt(m Marker) {
	if m.pos == emptySP {
		s.sp = emptySP
		return
	}
	s.sp = m.pos + 1
}

// Segment is a detached, self-contained sequence of frames captured from
// some marker up to and including the frame that was current when
// popSegmentAbove was called. A segment may be pushed onto the same
// stack it was captured from, or onto any other stack.
type Segment struct {
	prims []uint64
	refs  []any
	sp    int // relative sp within the segment's own arrays, or emptySP if empty.
}

// Empty reports whether the segment holds no frames.
func (g Segment) Empty() bool { return g.sp == emptySP }

// PopSegmentAbove splits the stack at marker. The marker's own frame and
// everything above it are copied into a newly allocated Segment; the
// stack is then truncated so sp identifies the frame immediately below
// the marker. Fails if marker is above sp. If the stack is empty, an
// empty segment is returned and the stack is left unchanged.
//
// Note: a strict reading of "frames above marker" might suggest the
// marker's own frame stays behind, but the documented behavior captures
// the marker's own frame too, leaving the origin stack positioned at the
// marker's predecessor.
func (s *Stack) PopSegmentAbove(m Marker) (Segment, error) {
	if s.sp == emptySP {
		return Segment{sp: emptySP}, nil
	}

	segStart := m.pos
	if segStart == emptySP {
		segStart = 0
	}
	topHeaderPos := s.sp - 1
	if segStart > topHeaderPos {
		return Segment{}, fmt.Errorf("%w: marker=%d sp=%d\n%s", ErrMarkerAboveStackPointer, m.pos, s.sp, s.Dump())
	}

	topNumSlots := int(bits.NumSlots(s.header(topHeaderPos)))
	end := s.sp + topNumSlots // one past the top frame's last payload word

	segPrims := make([]uint64, end-segStart)
	segRefs := make([]any, end-segStart)
	copy(segPrims, s.prims[segStart:end])
	copy(segRefs, s.refs[segStart:end])
	seg := Segment{
		prims: segPrims,
		refs:  segRefs,
		sp:    (topHeaderPos - segStart) + 1,
	}

	// The marker's own header caches its predecessor's slot count; read
	// it before truncating, so we can find the predecessor's header.
	markerHeader := s.header(segStart)
	prev := int(bits.PrevNumSlots(markerHeader))

	for i := segStart; i < end; i++ {
		s.refs[i] = nil
	}
	s.prims[segStart] = 0 // the next header position is zeroed.

	if m.pos == emptySP || segStart == 0 {
		s.sp = emptySP
	} else {
		predHeaderPos := segStart - 1 - prev
		s.sp = predHeaderPos + 1
	}

	return seg, nil
}

// PushSegment appends segment's frames above the current frame, growing
// storage as needed. The segment's first-frame prevNumSlots is rewritten
// to match the current top frame's numSlots (or 0 if the stack is
// empty); sp advances so that the segment's originally-current frame
// becomes current. The source segment is not consumed: its own arrays
// are only read, never aliased into the destination, so it may be pushed
// repeatedly.
func (s *Stack) PushSegment(seg Segment) {
	if seg.Empty() {
		return
	}

	var appendAt int
	var curNumSlots uint64
	if s.sp != emptySP {
		headerPos := s.sp - 1
		curNumSlots = bits.NumSlots(s.header(headerPos))
		appendAt = s.sp + int(curNumSlots)
	} else {
		appendAt = 0
	}

	s.ensureCapacity(appendAt + len(seg.prims) + 1)
	copy(s.prims[appendAt:], seg.prims)
	copy(s.refs[appendAt:], seg.refs)

	s.prims[appendAt] = bits.SetPrevNumSlots(s.prims[appendAt], curNumSlots)

	nextHeaderPos := appendAt + len(seg.prims)
	s.prims[nextHeaderPos] = 0
	s.refs[nextHeaderPos] = nil

	s.sp = appendAt + seg.sp
}
