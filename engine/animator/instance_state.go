package animator

import (
	"github.com/Carmen-Shannon/oxy-anim/engine/skeleton"
	"github.com/Carmen-Shannon/oxy-anim/engine/skinning"
	"github.com/go-gl/mathgl/mgl32"
)

// noClip marks an instance that has no active clip and resolves from the rest pose.
const noClip = -1

// instanceState holds the playback state and per-frame outputs for a single instance.
// PrepareFrame advances the cursor, samples the active clip (and blend target) into pose,
// and resolves palette from it.
type instanceState struct {
	clip int

	time, speed    float32
	loop, blending bool

	blendTo                     int
	blendToTime                 float32
	blendDuration, blendElapsed float32

	world skeleton.Transform

	pose, blendPose *skeleton.Pose
	resolver        skinning.Resolver
	palette         []mgl32.Mat4
}

// newInstanceState returns an idle instance sized for the given skeleton.
func newInstanceState(skel *skeleton.Skeleton) instanceState {
	st := instanceState{
		clip:    noClip,
		blendTo: noClip,
		speed:   1,
		world:   skeleton.Identity(),
	}
	st.reset(skel)
	return st
}

// reset sizes the pose buffers for skel and loads its rest pose.
func (st *instanceState) reset(skel *skeleton.Skeleton) {
	n := 0
	if skel != nil && skel.RestPose != nil {
		n = skel.RestPose.Len()
	}
	if st.pose == nil {
		st.pose = skeleton.NewPose(n)
		st.blendPose = skeleton.NewPose(n)
	}
	if n == 0 {
		st.pose.Resize(0)
		st.blendPose.Resize(0)
	} else {
		st.pose.CopyFrom(skel.RestPose)
		st.blendPose.CopyFrom(skel.RestPose)
	}
	st.palette = st.resolver.Resolve(st.palette, st.pose, skel)
}

// stop clears playback so the instance falls back to the rest pose.
func (st *instanceState) stop() {
	st.clip = noClip
	st.time = 0
	st.loop = false
	st.cancelBlend()
}

func (st *instanceState) cancelBlend() {
	st.blending = false
	st.blendTo = noClip
	st.blendToTime = 0
	st.blendElapsed = 0
	st.blendDuration = 0
}

// progress returns the cross-fade weight of the blend target in [0, 1].
func (st *instanceState) progress() float32 {
	if !st.blending || st.blendDuration <= 0 {
		return 0
	}
	return min(st.blendElapsed/st.blendDuration, 1)
}
