package skeleton

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

const tol = 1e-5

func TestIdentityToMatrix(t *testing.T) {
	assert.True(t, Identity().ToMatrix().ApproxEqualThreshold(mgl32.Ident4(), tol))
}

func TestToMatrixIsTranslateRotateScale(t *testing.T) {
	tr := Transform{
		Translation: mgl32.Vec3{1, 2, 3},
		Orientation: mgl32.QuatRotate(mgl32.DegToRad(30), mgl32.Vec3{0, 0, 1}),
		Scale:       mgl32.Vec3{2, 3, 4},
	}
	want := mgl32.Translate3D(1, 2, 3).
		Mul4(tr.Orientation.Mat4()).
		Mul4(mgl32.Scale3D(2, 3, 4))

	assert.True(t, tr.ToMatrix().ApproxEqualThreshold(want, tol))
}

func TestFromMatrixRoundTrip(t *testing.T) {
	tr := Transform{
		Translation: mgl32.Vec3{-4, 0.5, 9},
		Orientation: mgl32.QuatRotate(mgl32.DegToRad(120), mgl32.Vec3{1, 1, 0}.Normalize()),
		Scale:       mgl32.Vec3{1.5, 0.5, 2},
	}

	got := FromMatrix(tr.ToMatrix())

	assert.True(t, got.Translation.ApproxEqualThreshold(tr.Translation, tol))
	assert.True(t, got.Scale.ApproxEqualThreshold(tr.Scale, tol))
	assert.True(t, got.ToMatrix().ApproxEqualThreshold(tr.ToMatrix(), 1e-4))
}

func TestMix(t *testing.T) {
	a := Identity()
	b := Transform{
		Translation: mgl32.Vec3{0, 2, 0},
		Orientation: mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 1, 0}),
		Scale:       mgl32.Vec3{3, 3, 3},
	}

	half := a.Mix(b, 0.5)
	assert.True(t, half.Translation.ApproxEqualThreshold(mgl32.Vec3{0, 1, 0}, tol))
	assert.True(t, half.Scale.ApproxEqualThreshold(mgl32.Vec3{2, 2, 2}, tol))
	assert.True(t, half.Orientation.ApproxEqualThreshold(mgl32.QuatRotate(mgl32.DegToRad(45), mgl32.Vec3{0, 1, 0}), tol))

	end := a.Mix(b, 1)
	assert.True(t, end.ToMatrix().ApproxEqualThreshold(b.ToMatrix(), tol))
}
