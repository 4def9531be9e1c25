package quasar

import (
	"testing"

	"github.com/b-studios/quasar-go/bits"
	"github.com/stretchr/testify/require"
)

func TestNewStack_RejectsNonPositiveCapacity(t *testing.T) {
	_, err := NewStack(0, nil)
	require.ErrorIs(t, err, ErrInvalidCapacity)

	_, err = NewStack(-1, nil)
	require.ErrorIs(t, err, ErrInvalidCapacity)
}

func TestFreshEntryUniversality(t *testing.T) {
	s, err := NewStack(16, nil)
	require.NoError(t, err)
	require.Equal(t, uint64(0), s.NextMethodEntry())
}

// TestScenario1 is an end-to-end multi-frame push/resume scenario.
func TestScenario1(t *testing.T) {
	s, err := NewStack(16, nil)
	require.NoError(t, err)

	require.Equal(t, uint64(0), s.NextMethodEntry())
	require.NoError(t, s.PushMethod(1, 2))
	PushObject(s, 0, true)
	PushLong(s, 1, 2)

	require.Equal(t, uint64(0), s.NextMethodEntry())
	require.NoError(t, s.PushMethod(7, 1))
	PushInt(s, 0, 42)

	s.ResumeStack()
	require.Equal(t, uint64(1), s.NextMethodEntry())
	require.Equal(t, true, s.GetObject(0))
	require.Equal(t, int64(2), s.GetLong(1))

	require.Equal(t, uint64(7), s.NextMethodEntry())
	require.Equal(t, int32(42), s.GetInt(0))
}

// TestScenario2 is an end-to-end scenario where every pushed frame
// completes normally instead of suspending.
func TestScenario2(t *testing.T) {
	s, err := NewStack(16, nil)
	require.NoError(t, err)

	require.Equal(t, uint64(0), s.NextMethodEntry())
	require.NoError(t, s.PushMethod(1, 2))
	PushObject(s, 0, true)
	PushLong(s, 1, 2)

	require.Equal(t, uint64(0), s.NextMethodEntry())
	require.NoError(t, s.PushMethod(7, 1))
	PushInt(s, 0, 42)

	require.NoError(t, s.PopMethod())
	require.NoError(t, s.PopMethod())

	require.True(t, s.Empty())
	require.Equal(t, uint64(0), s.NextMethodEntry())
}

// TestScenario4 checks that a tiny initial capacity still grows to hold
// many frames without losing data.
func TestScenario4(t *testing.T) {
	s, err := NewStack(1, nil)
	require.NoError(t, err)

	const frames = 10
	const size = 4
	for i := 0; i < frames; i++ {
		require.Equal(t, uint64(0), s.NextMethodEntry())
		require.NoError(t, s.PushMethod(i+1, size))
		for j := 0; j < size; j++ {
			PushLong(s, j, int64(i*100+j))
		}
	}

	s.ResumeStack()
	for i := 0; i < frames; i++ {
		entry := s.NextMethodEntry()
		require.Equal(t, uint64(i+1), entry)
		for j := 0; j < size; j++ {
			require.Equal(t, int64(i*100+j), s.GetLong(j))
		}
	}
}

// TestScenario6 checks entry/numSlots bounds.
func TestScenario6(t *testing.T) {
	s, err := NewStack(16, nil)
	require.NoError(t, err)
	s.NextMethodEntry()

	require.NoError(t, s.PushMethod(16383, 65535))

	s2, err := NewStack(16, nil)
	require.NoError(t, err)
	s2.NextMethodEntry()
	err = s2.PushMethod(16384, 0)
	require.ErrorIs(t, err, ErrEntryOutOfRange)

	s3, err := NewStack(16, nil)
	require.NoError(t, err)
	s3.NextMethodEntry()
	err = s3.PushMethod(0, 65536)
	require.ErrorIs(t, err, ErrNumSlotsOutOfRange)
}

func TestNestedFramesReturnSPToMatchingEnter(t *testing.T) {
	s, err := NewStack(16, nil)
	require.NoError(t, err)

	s.NextMethodEntry()
	outerSP := s.StackPointer()
	require.NoError(t, s.PushMethod(1, 1))

	s.NextMethodEntry()
	require.NoError(t, s.PushMethod(2, 1))

	s.NextMethodEntry()
	require.NoError(t, s.PopMethod())
	require.NoError(t, s.PopMethod())

	require.Equal(t, outerSP, s.StackPointer())
}

func TestPushMethodOnEmptyStackFails(t *testing.T) {
	s, err := NewStack(16, nil)
	require.NoError(t, err)
	err = s.PushMethod(1, 1)
	require.ErrorIs(t, err, ErrEmptyStack)
}

func TestPopMethodOnEmptyStackFails(t *testing.T) {
	s, err := NewStack(16, nil)
	require.NoError(t, err)
	err = s.PopMethod()
	require.ErrorIs(t, err, ErrEmptyStack)
}

func TestPrevNumSlotsInvariant(t *testing.T) {
	s, err := NewStack(16, nil)
	require.NoError(t, err)

	s.NextMethodEntry()
	require.NoError(t, s.PushMethod(1, 3))
	s.NextMethodEntry() // creates the child frame

	headerPos := s.StackPointer() - 1
	require.Equal(t, uint64(3), bits.PrevNumSlots(s.header(headerPos)))
}

func TestGrowthPreservesState(t *testing.T) {
	small, err := NewStack(1, nil)
	require.NoError(t, err)
	large, err := NewStack(4096, nil)
	require.NoError(t, err)

	run := func(s *Stack) {
		for i := 0; i < 20; i++ {
			s.NextMethodEntry()
			require.NoError(t, s.PushMethod(i, 5))
			for j := 0; j < 5; j++ {
				PushLong(s, j, int64(i*10+j))
			}
		}
	}
	run(small)
	run(large)

	require.Equal(t, large.StackPointer(), small.StackPointer())

	small.ResumeStack()
	large.ResumeStack()
	for i := 0; i < 20; i++ {
		se := small.NextMethodEntry()
		le := large.NextMethodEntry()
		require.Equal(t, le, se)
		for j := 0; j < 5; j++ {
			require.Equal(t, large.GetLong(j), small.GetLong(j))
		}
	}
}

func TestPopMethodClearsReferenceSlots(t *testing.T) {
	s, err := NewStack(16, nil)
	require.NoError(t, err)

	s.NextMethodEntry()
	require.NoError(t, s.PushMethod(1, 2))
	PushObject(s, 0, "held")
	PushObject(s, 1, "also-held")

	payload := s.StackPointer()
	require.NoError(t, s.PopMethod())

	// The popped frame's reference slots must be nil in the backing
	// array so the held objects become collectible.
	require.Nil(t, s.refs[payload])
	require.Nil(t, s.refs[payload+1])
}

func TestIsFirstInStackOrPushedConservativelyTrue(t *testing.T) {
	s, err := NewStack(16, nil)
	require.NoError(t, err)
	require.True(t, s.IsFirstInStackOrPushed())
}
