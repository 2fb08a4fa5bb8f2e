// Package skeleton holds the static rig description of an animated model: the
// per-joint local Transform, the flat parent-indexed Pose, and the Skeleton that
// pairs a rest pose with joint names and inverse bind matrices.
package skeleton

import (
	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/go-gl/mathgl/mgl32"
)

// Transform is a decomposed local transform: translation, orientation and scale.
type Transform struct {
	// Translation is the position offset relative to the parent joint.
	Translation mgl32.Vec3

	// Orientation is the unit rotation quaternion.
	Orientation mgl32.Quat

	// Scale is the scale factor along each axis.
	Scale mgl32.Vec3
}

// Identity returns the identity transform: zero translation, identity rotation and unit scale.
//
// Returns:
//   - Transform: the identity transform
func Identity() Transform {
	return Transform{
		Orientation: mgl32.QuatIdent(),
		Scale:       mgl32.Vec3{1, 1, 1},
	}
}

// ToMatrix composes the transform into a 4x4 column-major matrix as Translate * Rotate * Scale.
//
// Returns:
//   - mgl32.Mat4: the composed matrix
func (t Transform) ToMatrix() mgl32.Mat4 {
	m := t.Orientation.Mat4()
	// Scale the rotation columns in place, then drop the translation into column 3.
	for c := 0; c < 3; c++ {
		s := t.Scale[c]
		m[c*4+0] *= s
		m[c*4+1] *= s
		m[c*4+2] *= s
	}
	m[12], m[13], m[14] = t.Translation[0], t.Translation[1], t.Translation[2]
	return m
}

// Mix blends t toward other by factor f. Translation and scale are interpolated
// linearly and the orientation with a normalized lerp along the shorter arc.
//
// Parameters:
//   - other: the transform to blend toward
//   - f: the blend factor, 0 yields t and 1 yields other
//
// Returns:
//   - Transform: the blended transform
func (t Transform) Mix(other Transform, f float32) Transform {
	return Transform{
		Translation: common.LerpVec3(t.Translation, other.Translation, f),
		Orientation: common.Nlerp(t.Orientation, other.Orientation, f),
		Scale:       common.LerpVec3(t.Scale, other.Scale, f),
	}
}

// FromMatrix decomposes an affine TRS matrix into a Transform. Shear is discarded.
// A negative determinant is folded into the X scale.
//
// Parameters:
//   - m: the column-major matrix to decompose
//
// Returns:
//   - Transform: the decomposed transform
func FromMatrix(m mgl32.Mat4) Transform {
	t := Transform{
		Translation: m.Col(3).Vec3(),
		Scale: mgl32.Vec3{
			m.Col(0).Vec3().Len(),
			m.Col(1).Vec3().Len(),
			m.Col(2).Vec3().Len(),
		},
	}
	if m.Det() < 0 {
		t.Scale[0] = -t.Scale[0]
	}

	rot := mgl32.Ident4()
	for c := 0; c < 3; c++ {
		col := m.Col(c).Vec3()
		if s := t.Scale[c]; s != 0 {
			col = col.Mul(1 / s)
		}
		rot.SetCol(c, col.Vec4(0))
	}
	t.Orientation = common.NormalizeQuat(mgl32.Mat4ToQuat(rot))
	return t
}
