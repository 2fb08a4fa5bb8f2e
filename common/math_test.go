package common

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestWrapTime(t *testing.T) {
	cases := []struct {
		name     string
		t, d     float32
		expected float32
	}{
		{"inside", 0.5, 2, 0.5},
		{"exact duration", 2, 2, 0},
		{"several loops", 6.5, 2, 0.5},
		{"negative", -0.5, 2, 1.5},
		{"zero duration", 3.25, 0, 3.25},
		{"negative duration", 3.25, -1, 3.25},
		{"nan time", math32.NaN(), 2, 0},
		{"inf time", math32.Inf(1), 2, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.InDelta(t, c.expected, WrapTime(c.t, c.d), 1e-6)
		})
	}
}

func TestWrapTimeStaysBelowDuration(t *testing.T) {
	got := WrapTime(-1e-9, 1)
	assert.GreaterOrEqual(t, got, float32(0))
	assert.Less(t, got, float32(1))
}

func TestNormalizeQuat(t *testing.T) {
	q := NormalizeQuat(mgl32.Quat{W: 2})
	assert.Equal(t, mgl32.QuatIdent(), q)

	zero := mgl32.Quat{}
	assert.Equal(t, zero, NormalizeQuat(zero))

	n := NormalizeQuat(mgl32.Quat{W: 1, V: mgl32.Vec3{1, 1, 1}})
	assert.InDelta(t, 1, n.Len(), 1e-6)
}

func TestFiniteHelpers(t *testing.T) {
	assert.True(t, IsFinite(1))
	assert.False(t, IsFinite(math32.NaN()))
	assert.Equal(t, float32(3), FiniteOr(math32.Inf(-1), 3))
	assert.False(t, IsFiniteVec3(mgl32.Vec3{0, math32.NaN(), 0}))
	assert.True(t, IsFiniteQuat(mgl32.QuatIdent()))
	assert.Equal(t, float32(1), Clamp(4, 0, 1))
}

func TestSliceToBytes(t *testing.T) {
	assert.Nil(t, SliceToBytes[float32](nil))
	mats := []mgl32.Mat4{mgl32.Ident4(), mgl32.Ident4()}
	assert.Len(t, SliceToBytes(mats), 2*64)
}

func TestNlerp(t *testing.T) {
	a := mgl32.QuatIdent()
	b := mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 1, 0})

	assert.True(t, Nlerp(a, b, 0).ApproxEqualThreshold(a, 1e-6))
	assert.True(t, Nlerp(a, b, 1).ApproxEqualThreshold(b, 1e-6))

	half := Nlerp(a, b, 0.5)
	assert.InDelta(t, 1, half.Len(), 1e-6)
	assert.True(t, half.ApproxEqualThreshold(mgl32.QuatRotate(mgl32.DegToRad(45), mgl32.Vec3{0, 1, 0}), 1e-5))
}

func TestNlerpShortestArc(t *testing.T) {
	a := mgl32.QuatIdent()
	b := mgl32.QuatRotate(mgl32.DegToRad(10), mgl32.Vec3{1, 0, 0}).Scale(-1)

	got := Nlerp(a, b, 1)
	assert.Greater(t, got.W, float32(0))
	assert.True(t, got.ApproxEqualThreshold(b.Scale(-1), 1e-6))
}

func TestLerpVec3(t *testing.T) {
	assert.Equal(t, mgl32.Vec3{0, 1, 0}, LerpVec3(mgl32.Vec3{}, mgl32.Vec3{0, 2, 0}, 0.5))
}
