package main

import (
	"github.com/Carmen-Shannon/oxy-anim/engine/animation"
	"github.com/Carmen-Shannon/oxy-anim/engine/model"
	"github.com/Carmen-Shannon/oxy-anim/engine/skeleton"
	"github.com/go-gl/mathgl/mgl32"
)

// ── Demo Rig ───────────────────────────────────────────────────────
const (
	// armSegment is the length of each arm bone along +Y.
	armSegment = 1.0
	// waveDuration is the length of one full wave cycle in seconds.
	waveDuration = 2.0
	// waveAngle is the shoulder swing amplitude in degrees.
	waveAngle = 30.0
	// elbowAngle is the peak elbow bend in degrees.
	elbowAngle = 45.0
)

var armJoints = []string{"shoulder", "elbow", "wrist"}

// demoArm builds a three joint arm (shoulder → elbow → wrist) with two clips:
// "wave" swings the shoulder and bends the elbow on a loop, "reach" straightens the arm
// and pulls the shoulder forward.
func demoArm() (model.Model, error) {
	rest := skeleton.NewPose(len(armJoints))
	for i := 1; i < len(armJoints); i++ {
		rest.SetParent(i, int32(i-1))
		local := skeleton.Identity()
		local.Translation = mgl32.Vec3{0, armSegment, 0}
		rest.SetLocal(i, local)
	}

	skel, err := skeleton.NewSkeleton(armJoints, rest, skeleton.BindPoseFromRest(rest))
	if err != nil {
		return nil, err
	}

	return model.NewModel(
		model.WithName("demo_arm"),
		model.WithSkeleton(skel),
		model.WithClips(waveClip(), reachClip()),
	)
}

func waveClip() *animation.Clip {
	z := mgl32.Vec3{0, 0, 1}
	swing := func(t, deg float32) animation.QuaternionFrame {
		return animation.QuaternionFrame{Time: t, Value: mgl32.QuatRotate(mgl32.DegToRad(deg), z)}
	}
	quarter := float32(waveDuration / 4)

	shoulder := animation.NewTransformTrack(0)
	shoulder.Rotation = animation.NewQuaternionTrack(animation.InterpolationLinear,
		swing(0, 0),
		swing(quarter, waveAngle),
		swing(2*quarter, 0),
		swing(3*quarter, -waveAngle),
		swing(4*quarter, 0),
	)

	elbow := animation.NewTransformTrack(1)
	elbow.Rotation = animation.NewQuaternionTrack(animation.InterpolationLinear,
		swing(0, 0),
		swing(2*quarter, elbowAngle),
		swing(4*quarter, 0),
	)

	return animation.NewClip("wave", animation.WithTracks(shoulder, elbow))
}

func reachClip() *animation.Clip {
	shoulder := animation.NewTransformTrack(0)
	shoulder.Position = animation.NewVectorTrack(animation.InterpolationLinear,
		animation.VectorFrame{Time: 0, Value: mgl32.Vec3{0, 0, 0}},
		animation.VectorFrame{Time: 1, Value: mgl32.Vec3{0, 0, 0.5}},
	)

	wrist := animation.NewTransformTrack(2)
	wrist.Scaling = animation.NewVectorTrack(animation.InterpolationConstant,
		animation.VectorFrame{Time: 0, Value: mgl32.Vec3{1, 1, 1}},
		animation.VectorFrame{Time: 0.5, Value: mgl32.Vec3{1.2, 1.2, 1.2}},
		animation.VectorFrame{Time: 1, Value: mgl32.Vec3{1, 1, 1}},
	)

	return animation.NewClip("reach", animation.WithTracks(shoulder, wrist))
}
