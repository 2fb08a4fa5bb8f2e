package animator

import (
	"sync"
	"testing"

	"github.com/Carmen-Shannon/oxy-anim/engine/animation"
	"github.com/Carmen-Shannon/oxy-anim/engine/model"
	"github.com/Carmen-Shannon/oxy-anim/engine/skeleton"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = 1e-4

// testModel returns a two-joint rig (root, child one unit up) with two clips:
//
//	0 "raise": child Y goes 1 → 3 over 2s
//	1 "slide": root X goes 0 → 4 over 1s
func testModel(t testing.TB) model.Model {
	rest := skeleton.NewPose(2)
	rest.SetParent(1, 0)
	rest.Joints[1].Translation = mgl32.Vec3{0, 1, 0}
	skel, err := skeleton.NewSkeleton([]string{"root", "child"}, rest, skeleton.BindPoseFromRest(rest))
	require.NoError(t, err)

	raise := animation.NewTransformTrack(1)
	raise.Position = animation.NewVectorTrack(animation.InterpolationLinear,
		animation.VectorFrame{Time: 0, Value: mgl32.Vec3{0, 1, 0}},
		animation.VectorFrame{Time: 2, Value: mgl32.Vec3{0, 3, 0}},
	)
	slide := animation.NewTransformTrack(0)
	slide.Position = animation.NewVectorTrack(animation.InterpolationLinear,
		animation.VectorFrame{Time: 0, Value: mgl32.Vec3{0, 0, 0}},
		animation.VectorFrame{Time: 1, Value: mgl32.Vec3{4, 0, 0}},
	)

	m, err := model.NewModel(
		model.WithName("rig"),
		model.WithSkeleton(skel),
		model.WithClips(
			animation.NewClip("raise", animation.WithTracks(raise)),
			animation.NewClip("slide", animation.WithTracks(slide)),
		),
	)
	require.NoError(t, err)
	return m
}

func newTestAnimator(t testing.TB) (Animator, uint32) {
	a := NewAnimator(WithModel(testModel(t)))
	idx, err := a.AddInstance()
	require.NoError(t, err)
	return a, idx
}

func TestAddInstanceRequiresModel(t *testing.T) {
	a := NewAnimator()
	_, err := a.AddInstance()
	assert.ErrorIs(t, err, ErrNoModel)
}

func TestRestPoseFallback(t *testing.T) {
	a, idx := newTestAnimator(t)
	a.PrepareFrame(0.1)

	_, playing := a.ActiveClip(idx)
	assert.False(t, playing)
	palette := a.Palette(idx)
	require.Len(t, palette, 2)
	for i, m := range palette {
		assert.True(t, m.ApproxEqualThreshold(mgl32.Ident4(), tol), "joint %d", i)
	}
}

func TestPlayAnimationLooping(t *testing.T) {
	a, idx := newTestAnimator(t)
	a.PlayAnimation(idx, 0, true)

	a.PrepareFrame(0.5)
	assert.InDelta(t, 0.5, a.AnimationTime(idx), tol)
	assert.InDelta(t, 1.5, a.Pose(idx).Local(1).Translation.Y(), tol)

	a.PrepareFrame(2)
	assert.InDelta(t, 0.5, a.AnimationTime(idx), tol)
	assert.InDelta(t, 1.5, a.Pose(idx).Local(1).Translation.Y(), tol)

	// The child moved 0.5 above its bind position, so its skinning matrix translates by 0.5.
	palette := a.Palette(idx)
	assert.InDelta(t, 0.5, palette[1].Col(3).Y(), tol)
	assert.True(t, palette[0].ApproxEqualThreshold(mgl32.Ident4(), tol))
}

func TestOneShotHoldsLastFrame(t *testing.T) {
	a, idx := newTestAnimator(t)
	a.PlayAnimation(idx, 0, false)

	a.PrepareFrame(5)
	assert.InDelta(t, 2, a.AnimationTime(idx), tol)
	assert.InDelta(t, 3, a.Pose(idx).Local(1).Translation.Y(), tol)

	clip, playing := a.ActiveClip(idx)
	assert.True(t, playing)
	assert.Equal(t, uint32(0), clip)
}

func TestAnimationSpeed(t *testing.T) {
	a, idx := newTestAnimator(t)
	a.PlayAnimation(idx, 0, true)
	a.SetAnimationSpeed(idx, 2)
	a.PrepareFrame(0.25)
	assert.InDelta(t, 0.5, a.AnimationTime(idx), tol)

	a.SetAnimationSpeed(idx, -1)
	a.PrepareFrame(1)
	assert.InDelta(t, 1.5, a.AnimationTime(idx), tol)
}

func TestSetAnimationTime(t *testing.T) {
	a, idx := newTestAnimator(t)
	a.PlayAnimation(idx, 0, true)
	a.SetAnimationTime(idx, 1)
	a.PrepareFrame(0)
	assert.InDelta(t, 2, a.Pose(idx).Local(1).Translation.Y(), tol)
}

func TestBlendToAnimation(t *testing.T) {
	a, idx := newTestAnimator(t)
	a.PlayAnimation(idx, 0, true)
	a.BlendToAnimation(idx, 1, 1)
	require.True(t, a.IsBlending(idx))

	a.PrepareFrame(0.5)
	assert.True(t, a.IsBlending(idx))
	assert.InDelta(t, 0.5, a.BlendProgress(idx), tol)

	pose := a.Pose(idx)
	// Root: rest (0) halfway towards slide at 0.5s (2).
	assert.InDelta(t, 1, pose.Local(0).Translation.X(), tol)
	// Child: raise at 0.5s (1.5) halfway towards rest (1).
	assert.InDelta(t, 1.25, pose.Local(1).Translation.Y(), tol)

	a.PrepareFrame(0.5)
	assert.False(t, a.IsBlending(idx))
	assert.Equal(t, float32(0), a.BlendProgress(idx))
	clip, playing := a.ActiveClip(idx)
	require.True(t, playing)
	assert.Equal(t, uint32(1), clip)
	assert.InDelta(t, 0, a.AnimationTime(idx), tol)
}

func TestBlendWithoutDurationSwitchesImmediately(t *testing.T) {
	a, idx := newTestAnimator(t)
	a.PlayAnimation(idx, 0, true)
	a.BlendToAnimation(idx, 1, 0)

	assert.False(t, a.IsBlending(idx))
	clip, _ := a.ActiveClip(idx)
	assert.Equal(t, uint32(1), clip)
}

func TestCancelBlendKeepsPrimary(t *testing.T) {
	a, idx := newTestAnimator(t)
	a.PlayAnimation(idx, 0, true)
	a.BlendToAnimation(idx, 1, 2)
	a.PrepareFrame(0.5)
	a.CancelBlend(idx)

	assert.False(t, a.IsBlending(idx))
	clip, _ := a.ActiveClip(idx)
	assert.Equal(t, uint32(0), clip)

	a.PrepareFrame(0)
	assert.InDelta(t, 0, a.Pose(idx).Local(0).Translation.X(), tol)
}

func TestStopAnimationReturnsToRest(t *testing.T) {
	a, idx := newTestAnimator(t)
	a.PlayAnimation(idx, 0, true)
	a.PrepareFrame(1)
	a.StopAnimation(idx)
	a.PrepareFrame(1)

	assert.InDelta(t, 1, a.Pose(idx).Local(1).Translation.Y(), tol)
}

func TestInvalidIndicesAreIgnored(t *testing.T) {
	a, idx := newTestAnimator(t)

	a.PlayAnimation(idx, 7, true)
	_, playing := a.ActiveClip(idx)
	assert.False(t, playing)

	a.PlayAnimation(9, 0, true)
	a.SetAnimationTime(9, 1)
	a.CancelBlend(9)
	assert.Nil(t, a.Pose(9))
	assert.Nil(t, a.Palette(9))
	assert.Nil(t, a.PaletteBytes(9))
	assert.False(t, a.IsBlending(9))
	assert.Equal(t, skeleton.Identity(), a.InstanceTransform(9))
}

func TestRemoveInstanceSwaps(t *testing.T) {
	a, first := newTestAnimator(t)
	second, err := a.AddInstance()
	require.NoError(t, err)
	third, err := a.AddInstance()
	require.NoError(t, err)

	a.PlayAnimation(third, 1, true)

	swappedFrom, swapped := a.RemoveInstance(first)
	assert.True(t, swapped)
	assert.Equal(t, third, swappedFrom)
	assert.Equal(t, uint32(2), a.InstanceCount())

	clip, playing := a.ActiveClip(first)
	require.True(t, playing)
	assert.Equal(t, uint32(1), clip)

	_, swapped = a.RemoveInstance(second)
	assert.False(t, swapped)
	_, swapped = a.RemoveInstance(5)
	assert.False(t, swapped)
	assert.Equal(t, uint32(1), a.InstanceCount())
}

func TestAutoGrow(t *testing.T) {
	a := NewAnimator(WithModel(testModel(t)), WithMaxInstances(1))
	assert.Equal(t, uint32(1), a.MaxInstances())

	for range 3 {
		_, err := a.AddInstance()
		require.NoError(t, err)
	}
	assert.Equal(t, uint32(8), a.MaxInstances())
	assert.Equal(t, uint32(3), a.InstanceCount())

	a.Grow(4)
	assert.Equal(t, uint32(8), a.MaxInstances())
	a.Grow(32)
	assert.Equal(t, uint32(32), a.MaxInstances())
}

func TestPaletteIsACopy(t *testing.T) {
	a, idx := newTestAnimator(t)
	a.PrepareFrame(0)

	palette := a.Palette(idx)
	palette[0] = mgl32.Scale3D(9, 9, 9)
	assert.True(t, a.Palette(idx)[0].ApproxEqualThreshold(mgl32.Ident4(), tol))
	assert.Len(t, a.PaletteBytes(idx), 2*64)
}

func TestPaletteBytesIsACopy(t *testing.T) {
	a, idx := newTestAnimator(t)
	a.PlayAnimation(idx, 0, true)

	held := a.PaletteBytes(idx)
	require.Len(t, held, 2*64)
	snapshot := append([]byte(nil), held...)

	a.PrepareFrame(1)
	assert.Equal(t, snapshot, held)
	assert.NotEqual(t, held, a.PaletteBytes(idx))
}

func TestInstanceTransform(t *testing.T) {
	a, idx := newTestAnimator(t)
	world := skeleton.Identity()
	world.Translation = mgl32.Vec3{3, 0, 1}
	a.SetInstanceTransform(idx, world)
	assert.Equal(t, world, a.InstanceTransform(idx))
}

func TestSetModelResetsInstances(t *testing.T) {
	a, idx := newTestAnimator(t)
	a.PlayAnimation(idx, 0, true)
	a.PrepareFrame(1)

	a.SetModel(testModel(t))
	_, playing := a.ActiveClip(idx)
	assert.False(t, playing)
	assert.InDelta(t, 1, a.Pose(idx).Local(1).Translation.Y(), tol)
}

func TestConcurrentAccess(t *testing.T) {
	a, idx := newTestAnimator(t)
	a.PlayAnimation(idx, 0, true)

	var wg sync.WaitGroup
	for i := range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				if i%2 == 0 {
					a.PrepareFrame(0.01)
				} else {
					_ = a.Palette(idx)
					b := a.PaletteBytes(idx)
					_ = append([]byte(nil), b...)
				}
			}
		}()
	}
	wg.Wait()
	assert.InDelta(t, 1, a.AnimationTime(idx), 1e-3)
}

func BenchmarkPrepareFrame(b *testing.B) {
	a := NewAnimator(WithModel(testModel(b)))
	for range 100 {
		idx, err := a.AddInstance()
		require.NoError(b, err)
		a.PlayAnimation(idx, 0, true)
	}
	b.ResetTimer()
	for range b.N {
		a.PrepareFrame(1.0 / 60)
	}
}
