package animation

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = 1e-5

func vec(t float32, v mgl32.Vec3) VectorFrame {
	return VectorFrame{Time: t, Value: v}
}

func rot(t float32, q mgl32.Quat) QuaternionFrame {
	return QuaternionFrame{Time: t, Value: q}
}

func TestEmptyTrackHasNoValue(t *testing.T) {
	tr := NewVectorTrack(InterpolationLinear)
	_, ok := tr.Sample(0.5)
	assert.False(t, ok)
	assert.True(t, tr.IsEmpty())
	assert.Equal(t, float32(0), tr.EndTime())
}

func TestSingleKeyframeInvariance(t *testing.T) {
	v := mgl32.Vec3{1, 2, 3}
	for _, interp := range []Interpolation{InterpolationConstant, InterpolationLinear, InterpolationCubic} {
		tr := NewVectorTrack(interp, vec(0.7, v))
		for _, at := range []float32{-10, 0, 0.7, 0.71, 3, 1e6} {
			got, ok := tr.Sample(at)
			require.True(t, ok)
			assert.Equal(t, v, got, "%s at %g", interp, at)
		}
	}
}

func TestBoundaryClamping(t *testing.T) {
	first, last := mgl32.Vec3{0, 0, 0}, mgl32.Vec3{4, 4, 4}
	tr := NewVectorTrack(InterpolationLinear,
		vec(1, first),
		vec(2, mgl32.Vec3{1, 1, 1}),
		vec(3, last),
	)

	for _, at := range []float32{-5, 0, 0.999, 1} {
		got, _ := tr.Sample(at)
		assert.Equal(t, first, got, "at %g", at)
	}
	for _, at := range []float32{3, 3.001, 100} {
		got, _ := tr.Sample(at)
		assert.Equal(t, last, got, "at %g", at)
	}
}

func TestExactKeyframeReproduction(t *testing.T) {
	frames := []VectorFrame{
		vec(0, mgl32.Vec3{0.1, 0.2, 0.3}),
		vec(0.3, mgl32.Vec3{-1.7, 2.9, 0.01}),
		vec(0.7, mgl32.Vec3{3.3, -0.4, 8.8}),
		vec(1.1, mgl32.Vec3{0.6, 0.6, 0.6}),
	}
	for _, interp := range []Interpolation{InterpolationConstant, InterpolationLinear, InterpolationCubic} {
		tr := NewVectorTrack(interp, frames...)
		for _, f := range frames {
			got, ok := tr.Sample(f.Time)
			require.True(t, ok)
			assert.Equal(t, f.Value, got, "%s at %g", interp, f.Time)
		}
	}

	q := []QuaternionFrame{
		rot(0, mgl32.QuatIdent()),
		rot(0.5, mgl32.QuatRotate(1.1, mgl32.Vec3{0, 1, 0})),
		rot(2, mgl32.QuatRotate(-0.4, mgl32.Vec3{1, 0, 0})),
	}
	qt := NewQuaternionTrack(InterpolationLinear, q...)
	for _, f := range q {
		got, _ := qt.Sample(f.Time)
		assert.Equal(t, f.Value, got)
	}
}

func TestDuplicateTimestampsSampleFinite(t *testing.T) {
	frames := []VectorFrame{
		vec(0, mgl32.Vec3{0, 0, 0}),
		vec(1, mgl32.Vec3{1, 0, 0}),
		vec(1, mgl32.Vec3{5, 0, 0}),
		vec(2, mgl32.Vec3{6, 0, 0}),
	}
	hermite := NewVectorTrack(InterpolationCubic, frames...)
	hermite.Tangents = true

	cases := []struct {
		name string
		tr   VectorTrack
		want [3]float32 // at 0.5, 1, 1.5
	}{
		{"linear", NewVectorTrack(InterpolationLinear, frames...), [3]float32{0.5, 5, 5.5}},
		{"constant", NewVectorTrack(InterpolationConstant, frames...), [3]float32{0, 5, 5}},
		{"cubic", NewVectorTrack(InterpolationCubic, frames...), [3]float32{0.5, 5, 5.5}},
		{"hermite", hermite, [3]float32{0.5, 5, 5.5}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for i, at := range []float32{0.5, 1, 1.5} {
				var got mgl32.Vec3
				require.NotPanics(t, func() { got, _ = tc.tr.Sample(at) })
				for _, c := range got {
					assert.False(t, math32.IsNaN(c) || math32.IsInf(c, 0), "at %g: %v", at, got)
				}
				assert.InDelta(t, tc.want[i], got.X(), tol, "at %g", at)
			}
		})
	}
}

func TestLinearVector(t *testing.T) {
	tr := NewVectorTrack(InterpolationLinear,
		vec(0, mgl32.Vec3{0, 0, 0}),
		vec(1, mgl32.Vec3{0, 2, 0}),
		vec(3, mgl32.Vec3{0, 2, 8}),
	)

	got, _ := tr.Sample(0.5)
	assert.Equal(t, mgl32.Vec3{0, 1, 0}, got)

	got, _ = tr.Sample(2)
	assert.True(t, got.ApproxEqualThreshold(mgl32.Vec3{0, 2, 4}, tol), "got %v", got)
}

func TestConstantHoldsLowerKeyframe(t *testing.T) {
	tr := NewVectorTrack(InterpolationConstant,
		vec(0, mgl32.Vec3{1, 0, 0}),
		vec(1, mgl32.Vec3{2, 0, 0}),
	)
	got, _ := tr.Sample(0.99)
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, got)
}

func TestLinearQuaternionIsNormalizedNlerp(t *testing.T) {
	axis := mgl32.Vec3{0, 0, 1}
	tr := NewQuaternionTrack(InterpolationLinear,
		rot(0, mgl32.QuatIdent()),
		rot(1, mgl32.QuatRotate(math32.Pi/2, axis)),
	)

	got, ok := tr.Sample(0.5)
	require.True(t, ok)
	assert.InDelta(t, 1, got.Len(), tol)
	assert.True(t, got.ApproxEqualThreshold(mgl32.QuatRotate(math32.Pi/4, axis), tol), "got %v", got)
}

func TestQuaternionTakesShortArc(t *testing.T) {
	axis := mgl32.Vec3{0, 1, 0}
	a := mgl32.QuatRotate(0.2, axis)
	b := mgl32.QuatRotate(0.6, axis).Scale(-1)
	tr := NewQuaternionTrack(InterpolationLinear, rot(0, a), rot(1, b))

	got, _ := tr.Sample(0.5)
	want := mgl32.QuatRotate(0.4, axis)
	assert.InDelta(t, 1, math32.Abs(got.Dot(want)), tol)
}

func TestCubicWithoutTangentsMatchesLinear(t *testing.T) {
	frames := []VectorFrame{
		vec(0, mgl32.Vec3{0, 0, 0}),
		vec(1, mgl32.Vec3{3, -1, 2}),
		vec(2, mgl32.Vec3{0, 5, 0}),
	}
	lin := NewVectorTrack(InterpolationLinear, frames...)
	cub := NewVectorTrack(InterpolationCubic, frames...)

	for _, at := range []float32{0.1, 0.5, 1.25, 1.9} {
		a, _ := lin.Sample(at)
		b, _ := cub.Sample(at)
		assert.Equal(t, a, b, "at %g", at)
	}
}

func TestCubicHermite(t *testing.T) {
	slope := mgl32.Vec3{0, 2, 0}
	tr := NewVectorTrack(InterpolationCubic,
		VectorFrame{Time: 0, Value: mgl32.Vec3{0, 0, 0}, Out: slope},
		VectorFrame{Time: 1, Value: mgl32.Vec3{0, 2, 0}, In: slope},
	)
	tr.Tangents = true

	// Tangents matching the chord reproduce the straight line.
	got, _ := tr.Sample(0.5)
	assert.True(t, got.ApproxEqualThreshold(mgl32.Vec3{0, 1, 0}, tol), "got %v", got)

	// Flat tangents ease in: the curve lags the line early on.
	tr.Frames[0].Out = mgl32.Vec3{}
	tr.Frames[1].In = mgl32.Vec3{}
	got, _ = tr.Sample(0.25)
	assert.InDelta(t, 0.3125, got.Y(), tol)
}

func TestCubicQuaternionStaysNormalized(t *testing.T) {
	axis := mgl32.Vec3{1, 0, 0}
	tr := NewQuaternionTrack(InterpolationCubic,
		QuaternionFrame{Time: 0, Value: mgl32.QuatIdent()},
		QuaternionFrame{Time: 2, Value: mgl32.QuatRotate(1, axis)},
	)
	tr.Tangents = true

	for _, at := range []float32{0.2, 1, 1.7} {
		got, _ := tr.Sample(at)
		assert.InDelta(t, 1, got.Len(), tol)
	}
}

func TestNonFiniteTimeSamplesFirstFrame(t *testing.T) {
	tr := NewVectorTrack(InterpolationLinear,
		vec(0, mgl32.Vec3{7, 7, 7}),
		vec(1, mgl32.Vec3{9, 9, 9}),
	)
	for _, at := range []float32{math32.NaN(), math32.Inf(1), math32.Inf(-1)} {
		got, _ := tr.Sample(at)
		assert.Equal(t, mgl32.Vec3{7, 7, 7}, got)
	}
}

func TestTrackValidate(t *testing.T) {
	ok := NewVectorTrack(InterpolationLinear, vec(0, mgl32.Vec3{}), vec(1, mgl32.Vec3{}))
	assert.NoError(t, ok.Validate())

	unsorted := NewVectorTrack(InterpolationLinear, vec(1, mgl32.Vec3{}), vec(0.5, mgl32.Vec3{}))
	assert.True(t, errors.Is(unsorted.Validate(), ErrUnsortedKeyframes))

	shared := NewVectorTrack(InterpolationLinear, vec(1, mgl32.Vec3{}), vec(1, mgl32.Vec3{}))
	assert.True(t, errors.Is(shared.Validate(), ErrUnsortedKeyframes))

	nan := NewVectorTrack(InterpolationLinear, vec(0, mgl32.Vec3{math32.NaN(), 0, 0}))
	assert.True(t, errors.Is(nan.Validate(), ErrNonFiniteKeyframe))

	badTime := NewQuaternionTrack(InterpolationLinear, rot(math32.Inf(1), mgl32.QuatIdent()))
	assert.True(t, errors.Is(badTime.Validate(), ErrNonFiniteKeyframe))

	badTangent := NewVectorTrack(InterpolationCubic, VectorFrame{In: mgl32.Vec3{0, math32.Inf(-1), 0}})
	assert.NoError(t, badTangent.Validate())
	badTangent.Tangents = true
	assert.True(t, errors.Is(badTangent.Validate(), ErrNonFiniteKeyframe))
}

func TestInterpolationString(t *testing.T) {
	assert.Equal(t, "constant", InterpolationConstant.String())
	assert.Equal(t, "linear", InterpolationLinear.String())
	assert.Equal(t, "cubic", InterpolationCubic.String())
	assert.Equal(t, "Interpolation(9)", Interpolation(9).String())
}
