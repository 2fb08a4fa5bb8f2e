package animation

import (
	"sort"

	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// Keyframe is one sample of a channel: a value at a point in time.
// In and Out are the incoming and outgoing tangents used by cubic interpolation;
// they are ignored unless the owning Track has Tangents set.
type Keyframe[T any] struct {
	// Time is the keyframe timestamp in seconds.
	Time float32

	// Value is the channel value at Time.
	Value T

	// In is the incoming tangent, per second.
	In T

	// Out is the outgoing tangent, per second.
	Out T
}

// Track is a time-ordered list of keyframes for a single channel plus the
// interpolation mode used between them. An empty Track is valid and means
// "no animation data for this channel".
//
// Frames must be sorted by ascending Time with no two frames sharing a time;
// Validate checks this and importers are expected to call it before playback.
type Track[T any, M mixer[T]] struct {
	// Frames holds the keyframes in ascending time order.
	Frames []Keyframe[T]

	// Interpolation selects how values between keyframes are computed.
	Interpolation Interpolation

	// Tangents reports whether the keyframes carry In/Out tangents. Cubic
	// interpolation falls back to Linear when it is false.
	Tangents bool

	mix M
}

// VectorTrack is a Track of 3D vectors, used for translation and scale channels.
type VectorTrack = Track[mgl32.Vec3, vectorMixer]

// QuaternionTrack is a Track of rotations.
type QuaternionTrack = Track[mgl32.Quat, quaternionMixer]

// VectorFrame is a keyframe of a VectorTrack.
type VectorFrame = Keyframe[mgl32.Vec3]

// QuaternionFrame is a keyframe of a QuaternionTrack.
type QuaternionFrame = Keyframe[mgl32.Quat]

// NewVectorTrack builds a vector track from the given keyframes.
//
// Parameters:
//   - interpolation: the interpolation mode between keyframes
//   - frames: the keyframes in ascending time order
//
// Returns:
//   - VectorTrack: the new track
func NewVectorTrack(interpolation Interpolation, frames ...VectorFrame) VectorTrack {
	return VectorTrack{Frames: frames, Interpolation: interpolation}
}

// NewQuaternionTrack builds a rotation track from the given keyframes.
//
// Parameters:
//   - interpolation: the interpolation mode between keyframes
//   - frames: the keyframes in ascending time order
//
// Returns:
//   - QuaternionTrack: the new track
func NewQuaternionTrack(interpolation Interpolation, frames ...QuaternionFrame) QuaternionTrack {
	return QuaternionTrack{Frames: frames, Interpolation: interpolation}
}

// Len returns the number of keyframes.
func (t *Track[T, M]) Len() int {
	return len(t.Frames)
}

// IsEmpty reports whether the track has no keyframes.
func (t *Track[T, M]) IsEmpty() bool {
	return len(t.Frames) == 0
}

// StartTime returns the time of the first keyframe, or 0 for an empty track.
func (t *Track[T, M]) StartTime() float32 {
	if len(t.Frames) == 0 {
		return 0
	}
	return t.Frames[0].Time
}

// EndTime returns the time of the last keyframe, or 0 for an empty track.
func (t *Track[T, M]) EndTime() float32 {
	if len(t.Frames) == 0 {
		return 0
	}
	return t.Frames[len(t.Frames)-1].Time
}

// Sample evaluates the track at time. Times outside the keyframe range clamp to the
// nearest boundary keyframe; a time landing exactly on a keyframe returns that
// keyframe's value unchanged.
//
// An empty track produces no value: ok is false and the caller must fall back to
// its own base value.
//
// Parameters:
//   - time: the sample time in seconds
//
// Returns:
//   - T: the sampled value
//   - bool: false if the track has no keyframes
func (t *Track[T, M]) Sample(time float32) (value T, ok bool) {
	frames := t.Frames
	n := len(frames)
	if n == 0 {
		return value, false
	}
	if n == 1 || !common.IsFinite(time) || time <= frames[0].Time {
		return frames[0].Value, true
	}
	if time >= frames[n-1].Time {
		return frames[n-1].Value, true
	}

	i := t.frameIndex(time)
	a, b := &frames[i], &frames[i+1]
	if time == a.Time || t.Interpolation == InterpolationConstant {
		return a.Value, true
	}

	dt := b.Time - a.Time
	var f float32
	if dt > 0 {
		f = common.FiniteOr((time-a.Time)/dt, 0)
	}

	if t.Interpolation == InterpolationCubic && t.Tangents {
		return t.mix.hermite(f, dt, a.Value, a.Out, b.Value, b.In), true
	}
	return t.mix.lerp(a.Value, b.Value, f), true
}

// frameIndex returns the index i such that Frames[i].Time <= time < Frames[i+1].Time.
// The caller guarantees time lies strictly inside the keyframe range.
func (t *Track[T, M]) frameIndex(time float32) int {
	frames := t.Frames
	i := sort.Search(len(frames), func(k int) bool {
		return frames[k].Time > time
	}) - 1
	if i < 0 {
		return 0
	}
	if i > len(frames)-2 {
		return len(frames) - 2
	}
	return i
}

// Validate checks that keyframe times are finite and strictly ascending and that
// every value and tangent is finite.
//
// Returns:
//   - error: ErrUnsortedKeyframes or ErrNonFiniteKeyframe wrapped with the frame index
func (t *Track[T, M]) Validate() error {
	for i := range t.Frames {
		f := &t.Frames[i]
		if !common.IsFinite(f.Time) || !t.mix.finite(f.Value) {
			return errors.Wrapf(ErrNonFiniteKeyframe, "frame %d", i)
		}
		if t.Tangents && (!t.mix.finite(f.In) || !t.mix.finite(f.Out)) {
			return errors.Wrapf(ErrNonFiniteKeyframe, "frame %d tangent", i)
		}
		if i > 0 && f.Time <= t.Frames[i-1].Time {
			return errors.Wrapf(ErrUnsortedKeyframes, "frame %d at %g follows %g", i, f.Time, t.Frames[i-1].Time)
		}
	}
	return nil
}
