package scene

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-anim/engine/animation"
	"github.com/Carmen-Shannon/oxy-anim/engine/game_object"
	"github.com/Carmen-Shannon/oxy-anim/engine/model"
	"github.com/Carmen-Shannon/oxy-anim/engine/skeleton"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = 1e-4

// liftModel has one joint that rises from y=0 to y=1 over one second.
func liftModel(t *testing.T) model.Model {
	rest := skeleton.NewPose(1)
	skel, err := skeleton.NewSkeleton([]string{"root"}, rest, skeleton.BindPoseFromRest(rest))
	require.NoError(t, err)

	track := animation.NewTransformTrack(0)
	track.Position = animation.NewVectorTrack(animation.InterpolationLinear,
		animation.VectorFrame{Time: 0, Value: mgl32.Vec3{0, 0, 0}},
		animation.VectorFrame{Time: 1, Value: mgl32.Vec3{0, 1, 0}},
	)
	m, err := model.NewModel(
		model.WithName("lift"),
		model.WithSkeleton(skel),
		model.WithClips(animation.NewClip("lift", animation.WithTracks(track))),
	)
	require.NoError(t, err)
	return m
}

func TestAddWiresObjectToAnimator(t *testing.T) {
	m := liftModel(t)
	s := NewScene("main", WithComputeWorkers(2))

	obj := game_object.NewGameObject(
		game_object.WithModel(m),
		game_object.WithPosition(1, 2, 3),
		game_object.WithClip("lift", true),
	)
	id := s.Add(obj)

	assert.NotZero(t, id)
	assert.Same(t, obj, s.Get(id))
	require.NotNil(t, obj.Animator())
	assert.Equal(t, 0, obj.AnimatorInstanceID())
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, obj.Animator().InstanceTransform(0).Translation)
	assert.Equal(t, 1, s.Count())
	assert.Equal(t, 1, s.CountInstances())

	s.PrepareFrame(0.25)
	palette := obj.Palette()
	require.Len(t, palette, 1)
	assert.InDelta(t, 0.25, palette[0].Col(3).Y(), tol)
}

func TestPrepareFrameAcrossAnimatorGroups(t *testing.T) {
	m := liftModel(t)
	s := NewScene("crowd", WithInstancesPerAnimator(2), WithComputeWorkers(3))

	var objs []game_object.GameObject
	for range 5 {
		obj := game_object.NewGameObject(game_object.WithModel(m), game_object.WithClip("lift", false))
		s.Add(obj)
		objs = append(objs, obj)
	}
	assert.Len(t, s.Animators(), 3)
	assert.Equal(t, 5, s.CountInstances())

	s.PrepareFrame(0.5)
	for i, obj := range objs {
		palette := obj.Palette()
		require.Len(t, palette, 1, "object %d", i)
		assert.InDelta(t, 0.5, palette[0].Col(3).Y(), tol, "object %d", i)
	}
}

func TestEphemeralObjectsAreNotRegistered(t *testing.T) {
	s := NewScene("fx")
	obj := game_object.NewGameObject(game_object.WithModel(liftModel(t)), game_object.WithEphemeral(true))
	id := s.Add(obj)

	assert.Nil(t, s.Get(id))
	assert.Equal(t, 0, s.Count())
	assert.Equal(t, 1, s.CountInstances())
}

func TestUnknownClipStaysInRestPose(t *testing.T) {
	s := NewScene("main")
	obj := game_object.NewGameObject(game_object.WithModel(liftModel(t)), game_object.WithClip("jump", true))
	s.Add(obj)

	_, playing := obj.Animator().ActiveClip(uint32(obj.AnimatorInstanceID()))
	assert.False(t, playing)
}

func TestRemoveFixesSwappedIndex(t *testing.T) {
	m := liftModel(t)
	s := NewScene("main")
	a := game_object.NewGameObject(game_object.WithModel(m))
	b := game_object.NewGameObject(game_object.WithModel(m))
	c := game_object.NewGameObject(game_object.WithModel(m), game_object.WithPosition(9, 0, 0))
	s.Add(a)
	s.Add(b)
	s.Add(c)

	s.Remove(a.ID())

	assert.Nil(t, s.Get(a.ID()))
	assert.Equal(t, -1, a.AnimatorInstanceID())
	assert.Nil(t, a.Animator())
	assert.Equal(t, 0, c.AnimatorInstanceID())
	x, _, _ := c.Position()
	assert.Equal(t, float32(9), x)
	assert.Equal(t, 2, s.CountInstances())

	s.Remove(12345)
	assert.Equal(t, 2, s.Count())
}

func TestObjectsSkipsDisabled(t *testing.T) {
	m := liftModel(t)
	s := NewScene("main")
	first := game_object.NewGameObject(game_object.WithModel(m))
	second := game_object.NewGameObject(game_object.WithModel(m), game_object.WithEnabled(false))
	third := game_object.NewGameObject(game_object.WithModel(m))
	s.Add(first)
	s.Add(second)
	s.Add(third)

	objects := s.Objects()
	require.Len(t, objects, 2)
	assert.Same(t, first, objects[0])
	assert.Same(t, third, objects[1])
}

func TestAddWithoutModelPanics(t *testing.T) {
	s := NewScene("main")
	assert.Panics(t, func() { s.Add(game_object.NewGameObject()) })
}

func TestWithObjectsAndClear(t *testing.T) {
	m := liftModel(t)
	obj := game_object.NewGameObject(game_object.WithModel(m))
	s := NewScene("main", WithObjects(obj), WithActive(false))

	assert.False(t, s.Active())
	assert.Equal(t, 1, s.Count())
	assert.NotNil(t, obj.Animator())

	s.Clear()
	assert.Equal(t, 0, s.Count())
	assert.Equal(t, 0, s.CountInstances())
	assert.Nil(t, obj.Animator())
}

func TestNameAndActive(t *testing.T) {
	s := NewScene("a")
	assert.True(t, s.Active())
	s.SetName("b")
	s.SetActive(false)
	assert.Equal(t, "b", s.Name())
	assert.False(t, s.Active())
}
