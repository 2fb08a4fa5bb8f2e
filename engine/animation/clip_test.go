package animation

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-anim/engine/skeleton"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rootAndChild returns a 2-joint pose where the child sits one unit above the root
// and carries a non-trivial rotation and scale.
func rootAndChild() *skeleton.Pose {
	p := skeleton.NewPose(2)
	p.Joints[0].Translation = mgl32.Vec3{5, 0, 0}
	p.SetParent(1, 0)
	p.Joints[1] = skeleton.Transform{
		Translation: mgl32.Vec3{0, 1, 0},
		Orientation: mgl32.QuatRotate(0.3, mgl32.Vec3{0, 0, 1}),
		Scale:       mgl32.Vec3{2, 2, 2},
	}
	return p
}

func TestPartialChannelIndependence(t *testing.T) {
	base := skeleton.Transform{
		Translation: mgl32.Vec3{1, 2, 3},
		Orientation: mgl32.QuatIdent(),
		Scale:       mgl32.Vec3{4, 5, 6},
	}
	target := mgl32.QuatRotate(1, mgl32.Vec3{0, 1, 0})
	tt := NewTransformTrack(0)
	tt.Rotation = NewQuaternionTrack(InterpolationLinear, rot(0, target))

	got := tt.Sample(base, 0.4)

	assert.Equal(t, base.Translation, got.Translation)
	assert.Equal(t, base.Scale, got.Scale)
	assert.Equal(t, target, got.Orientation)
}

func TestEmptyTransformTrackReturnsBase(t *testing.T) {
	base := rootAndChild().Joints[1]
	tt := NewTransformTrack(1)
	assert.True(t, tt.IsEmpty())
	assert.Equal(t, base, tt.Sample(base, 3))
}

func TestTransformTrackEndTime(t *testing.T) {
	tt := NewTransformTrack(0)
	tt.Position = NewVectorTrack(InterpolationLinear, vec(0, mgl32.Vec3{}), vec(1.5, mgl32.Vec3{}))
	tt.Scaling = NewVectorTrack(InterpolationLinear, vec(2.25, mgl32.Vec3{1, 1, 1}))
	assert.Equal(t, float32(2.25), tt.EndTime())
}

func TestClipConcreteScenario(t *testing.T) {
	pose := rootAndChild()
	baseChild := pose.Joints[1]

	tt := NewTransformTrack(1)
	tt.Position = NewVectorTrack(InterpolationLinear,
		vec(0, mgl32.Vec3{0, 0, 0}),
		vec(1, mgl32.Vec3{0, 2, 0}),
	)
	clip := NewClip("Raise", WithTracks(tt))
	require.Equal(t, float32(1), clip.Duration())

	clip.Sample(pose, 0.5)

	child := pose.Local(1)
	assert.Equal(t, mgl32.Vec3{0, 1, 0}, child.Translation)
	assert.Equal(t, baseChild.Orientation, child.Orientation)
	assert.Equal(t, baseChild.Scale, child.Scale)
	assert.Equal(t, mgl32.Vec3{5, 0, 0}, pose.Local(0).Translation)
}

func TestClipSampleClampedHoldsLastFrame(t *testing.T) {
	tt := NewTransformTrack(0)
	tt.Position = NewVectorTrack(InterpolationLinear,
		vec(0, mgl32.Vec3{0, 0, 0}),
		vec(2, mgl32.Vec3{4, 0, 0}),
	)
	clip := NewClip("Once", WithTracks(tt))

	pose := skeleton.NewPose(1)
	assert.Equal(t, float32(2), clip.SampleClamped(pose, 2))
	assert.InDelta(t, 4, pose.Joints[0].Translation.X(), tol)

	// Wrapping playback would land back on the first frame here.
	clip.Sample(pose, 2)
	assert.InDelta(t, 0, pose.Joints[0].Translation.X(), tol)

	assert.Equal(t, float32(0), clip.SampleClamped(pose, -1))
	assert.Equal(t, float32(2), clip.SampleClamped(pose, 7))
}

func TestClipLooping(t *testing.T) {
	tt := NewTransformTrack(0)
	tt.Position = NewVectorTrack(InterpolationLinear,
		vec(0, mgl32.Vec3{0, 0, 0}),
		vec(1, mgl32.Vec3{3, 0, 0}),
		vec(2, mgl32.Vec3{0, 6, 0}),
	)
	tt.Rotation = NewQuaternionTrack(InterpolationLinear,
		rot(0, mgl32.QuatIdent()),
		rot(2, mgl32.QuatRotate(2, mgl32.Vec3{0, 1, 0})),
	)
	clip := NewClip("Loop", WithTracks(tt))
	require.Equal(t, float32(2), clip.Duration())

	ref := skeleton.NewPose(1)
	clip.Sample(ref, 0.5)

	for _, k := range []float32{-3, -1, 1, 2, 5} {
		p := skeleton.NewPose(1)
		wrapped := clip.Sample(p, 0.5+k*clip.Duration())
		assert.InDelta(t, 0.5, wrapped, 1e-6, "k=%g", k)
		assert.True(t, p.Joints[0].ToMatrix().ApproxEqualThreshold(ref.Joints[0].ToMatrix(), tol), "k=%g", k)
	}
}

func TestClipSampleAtDurationWrapsToStart(t *testing.T) {
	tt := NewTransformTrack(0)
	tt.Position = NewVectorTrack(InterpolationLinear,
		vec(0, mgl32.Vec3{1, 0, 0}),
		vec(1, mgl32.Vec3{2, 0, 0}),
	)
	clip := NewClip("Wrap", WithTracks(tt))

	p := skeleton.NewPose(1)
	assert.Equal(t, float32(0), clip.Sample(p, 1))
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, p.Joints[0].Translation)
}

func TestClipLeavesUnanimatedJoints(t *testing.T) {
	pose := rootAndChild()
	want := pose.Joints[0]

	tt := NewTransformTrack(1)
	tt.Scaling = NewVectorTrack(InterpolationLinear, vec(0, mgl32.Vec3{1, 1, 1}))
	NewClip("Child", WithTracks(tt)).Sample(pose, 0.1)

	assert.Equal(t, want, pose.Joints[0])
}

func TestRecalculateDuration(t *testing.T) {
	clip := NewClip("Grow")
	assert.Equal(t, float32(0), clip.Duration())

	a := NewTransformTrack(0)
	a.Position = NewVectorTrack(InterpolationLinear, vec(0, mgl32.Vec3{}), vec(1.25, mgl32.Vec3{}))
	clip.AddTrack(a)
	assert.Equal(t, float32(1.25), clip.Duration())

	b := NewTransformTrack(1)
	b.Rotation = NewQuaternionTrack(InterpolationLinear, rot(3.5, mgl32.QuatIdent()))
	clip.Tracks = append(clip.Tracks, b)
	assert.Equal(t, float32(1.25), clip.Duration(), "duration is only refreshed on demand")

	assert.Equal(t, float32(3.5), clip.RecalculateDuration())
	assert.Equal(t, float32(3.5), clip.Duration())
}

func TestClipTrackFor(t *testing.T) {
	clip := NewClip("Merge")
	first := clip.TrackFor(4)
	require.NotNil(t, first)
	assert.Same(t, first, clip.TrackFor(4))
	assert.Len(t, clip.Tracks, 1)
	assert.Nil(t, clip.Track(5))

	clip.TrackFor(5).Position = NewVectorTrack(InterpolationLinear, vec(2, mgl32.Vec3{}))
	assert.Len(t, clip.Tracks, 2)
	assert.Equal(t, float32(2), clip.RecalculateDuration())
}

func TestClipSkipsOutOfRangeJoint(t *testing.T) {
	bad := NewTransformTrack(7)
	bad.Position = NewVectorTrack(InterpolationLinear, vec(0, mgl32.Vec3{1, 1, 1}))
	good := NewTransformTrack(0)
	good.Position = NewVectorTrack(InterpolationLinear, vec(0, mgl32.Vec3{2, 2, 2}))
	clip := NewClip("Broken", WithTracks(bad, good))

	pose := skeleton.NewPose(2)
	assert.NotPanics(t, func() {
		clip.Sample(pose, 0)
		clip.Sample(pose, 0)
	})
	assert.Equal(t, mgl32.Vec3{2, 2, 2}, pose.Joints[0].Translation)
	assert.True(t, clip.warned.Load())
}

func TestClipValidate(t *testing.T) {
	tt := NewTransformTrack(1)
	tt.Position = NewVectorTrack(InterpolationLinear, vec(0, mgl32.Vec3{}), vec(1, mgl32.Vec3{}))
	clip := NewClip("Valid", WithTracks(tt))
	assert.NoError(t, clip.Validate(2))

	err := clip.Validate(1)
	assert.True(t, errors.Is(err, ErrJointOutOfRange), "got %v", err)

	dup := NewTransformTrack(1)
	clip.AddTrack(dup)
	assert.True(t, errors.Is(clip.Validate(2), ErrDuplicateTrack))

	unsorted := NewTransformTrack(0)
	unsorted.Scaling = NewVectorTrack(InterpolationLinear, vec(1, mgl32.Vec3{}), vec(0, mgl32.Vec3{}))
	err = NewClip("Unsorted", WithTracks(unsorted)).Validate(1)
	assert.True(t, errors.Is(err, ErrUnsortedKeyframes), "got %v", err)
}

func TestWithInterpolation(t *testing.T) {
	tt := NewTransformTrack(0)
	tt.Position = NewVectorTrack(InterpolationLinear,
		vec(0, mgl32.Vec3{0, 0, 0}),
		vec(1, mgl32.Vec3{1, 0, 0}),
	)
	clip := NewClip("Step", WithTracks(tt), WithInterpolation(InterpolationConstant))

	p := skeleton.NewPose(1)
	clip.Sample(p, 0.9)
	assert.Equal(t, mgl32.Vec3{0, 0, 0}, p.Joints[0].Translation)
	assert.Equal(t, InterpolationConstant, tt.Rotation.Interpolation)
}

func BenchmarkClipSample(b *testing.B) {
	const joints = 64
	clip := NewClip("Bench")
	for j := uint32(0); j < joints; j++ {
		tt := clip.TrackFor(j)
		for k := 0; k < 30; k++ {
			at := float32(k) / 30
			tt.Position.Frames = append(tt.Position.Frames, vec(at, mgl32.Vec3{at, float32(j), 0}))
			tt.Rotation.Frames = append(tt.Rotation.Frames, rot(at, mgl32.QuatRotate(at, mgl32.Vec3{0, 1, 0})))
		}
	}
	clip.RecalculateDuration()
	rest := skeleton.NewPose(joints)
	pose := rest.Clone()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		pose.CopyFrom(rest)
		clip.Sample(pose, float32(i)*0.016)
	}
}
