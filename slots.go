package quasar

import "math"

// Push writes a typed value into slot index of stack's current frame.
// These are free functions, not methods, mirroring the instrumenter's
// call shape: the caller always supplies the stack explicitly at each
// save point.

// PushInt stores v sign-extended to 64 bits.
func PushInt(stack *Stack, index int, v int32) {
	stack.prims[stack.sp+index] = uint64(int64(v))
}

// PushLong stores v verbatim.
func PushLong(stack *Stack, index int, v int64) {
	stack.prims[stack.sp+index] = uint64(v)
}

// PushFloat stores v's raw 32-bit pattern, zero-extended to 64 bits.
func PushFloat(stack *Stack, index int, v float32) {
	stack.prims[stack.sp+index] = uint64(math.Float32bits(v))
}

// PushDouble stores v's raw 64-bit pattern.
func PushDouble(stack *Stack, index int, v float64) {
	stack.prims[stack.sp+index] = math.Float64bits(v)
}

// PushObject stores a reference value in slot index of the current frame.
func PushObject(stack *Stack, index int, v any) {
	stack.refs[stack.sp+index] = v
}

// GetInt reads slot index of the current frame as int, taking the low 32
// bits.
func (s *Stack) GetInt(index int) int32 {
	return int32(uint32(s.prims[s.sp+index]))
}

// GetLong reads slot index of the current frame as the full 64-bit word.
func (s *Stack) GetLong(index int) int64 {
	return int64(s.prims[s.sp+index])
}

// GetFloat reinterprets the low 32 bits of slot index as a float32.
func (s *Stack) GetFloat(index int) float32 {
	return math.Float32frombits(uint32(s.prims[s.sp+index]))
}

// GetDouble reinterprets the full 64-bit word of slot index as a float64.
func (s *Stack) GetDouble(index int) float64 {
	return math.Float64frombits(s.prims[s.sp+index])
}

// GetObject reads the reference slot index of the current frame.
func (s *Stack) GetObject(index int) any {
	return s.refs[s.sp+index]
}
