package common

import (
	"unsafe"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// IsFinite reports whether f is neither NaN nor an infinity.
//
// Parameters:
//   - f: the value to check
//
// Returns:
//   - bool: true if f is a finite number
func IsFinite(f float32) bool {
	return !math32.IsNaN(f) && !math32.IsInf(f, 0)
}

// FiniteOr returns f when it is finite, otherwise fallback.
//
// Parameters:
//   - f: the candidate value
//   - fallback: the value returned when f is NaN or infinite
//
// Returns:
//   - float32: f or fallback
func FiniteOr(f, fallback float32) float32 {
	if IsFinite(f) {
		return f
	}
	return fallback
}

// WrapTime wraps t into the half-open range [0, duration) for looping playback.
// A non-positive duration leaves t untouched, and a non-finite t wraps to 0.
//
// Parameters:
//   - t: the playback time in seconds
//   - duration: the loop length in seconds
//
// Returns:
//   - float32: the wrapped time
func WrapTime(t, duration float32) float32 {
	if !IsFinite(t) {
		return 0
	}
	if duration <= 0 || !IsFinite(duration) {
		return t
	}
	t = math32.Mod(t, duration)
	if t < 0 {
		t += duration
	}
	// t+duration can round up to duration itself for tiny negative inputs.
	if t >= duration {
		t = 0
	}
	return t
}

// Clamp restricts v to the closed range [lo, hi].
//
// Parameters:
//   - v: the value to clamp
//   - lo: the lower bound
//   - hi: the upper bound
//
// Returns:
//   - float32: the clamped value
func Clamp(v, lo, hi float32) float32 {
	return math32.Max(lo, math32.Min(v, hi))
}

// IsFiniteVec3 reports whether every component of v is finite.
//
// Parameters:
//   - v: the vector to check
//
// Returns:
//   - bool: true if all components are finite
func IsFiniteVec3(v mgl32.Vec3) bool {
	return IsFinite(v[0]) && IsFinite(v[1]) && IsFinite(v[2])
}

// IsFiniteQuat reports whether every component of q is finite.
//
// Parameters:
//   - q: the quaternion to check
//
// Returns:
//   - bool: true if all components are finite
func IsFiniteQuat(q mgl32.Quat) bool {
	return IsFinite(q.W) && IsFiniteVec3(q.V)
}

// NormalizeQuat returns q scaled to unit length. When the length is zero or
// the division would produce non-finite components, q is returned unchanged.
//
// Parameters:
//   - q: the quaternion to normalize
//
// Returns:
//   - mgl32.Quat: the normalized quaternion, or q when normalization is impossible
func NormalizeQuat(q mgl32.Quat) mgl32.Quat {
	lenSq := q.Dot(q)
	if lenSq == 0 || !IsFinite(lenSq) {
		return q
	}
	inv := 1 / math32.Sqrt(lenSq)
	n := mgl32.Quat{W: q.W * inv, V: q.V.Mul(inv)}
	if !IsFiniteQuat(n) {
		return q
	}
	return n
}

// SliceToBytes converts any slice to a byte slice for GPU buffer uploads.
// Uses unsafe pointer operations to create a view into the original data.
// WARNING: The returned slice shares memory with the input - do not modify.
//
// Parameters:
//   - data: source slice of any type
//
// Returns:
//   - []byte: byte slice view of the input data, or nil if input is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	size := unsafe.Sizeof(zero)
	totalBytes := int(size) * len(data)
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), totalBytes)
}

// LerpVec3 linearly interpolates between a and b componentwise: a + (b - a) * t.
//
// Parameters:
//   - a: the start value
//   - b: the end value
//   - t: the interpolation factor, 0 yields a and 1 yields b
//
// Returns:
//   - mgl32.Vec3: the interpolated vector
func LerpVec3(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

// Nlerp blends two rotations by linearly interpolating their components and
// renormalizing the result. The target is negated when the two quaternions lie
// in opposite hemispheres so the blend follows the shorter arc.
//
// Parameters:
//   - a: the start rotation
//   - b: the end rotation
//   - t: the interpolation factor, 0 yields a and 1 yields b
//
// Returns:
//   - mgl32.Quat: the blended rotation
func Nlerp(a, b mgl32.Quat, t float32) mgl32.Quat {
	if a.Dot(b) < 0 {
		b = b.Scale(-1)
	}
	return NormalizeQuat(mgl32.Quat{
		W: a.W + (b.W-a.W)*t,
		V: LerpVec3(a.V, b.V, t),
	})
}
