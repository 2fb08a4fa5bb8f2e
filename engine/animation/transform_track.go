package animation

import (
	"github.com/Carmen-Shannon/oxy-anim/engine/skeleton"
	"github.com/pkg/errors"
)

// TransformTrack animates the local transform of one joint through three independent
// channels. Any channel may be empty, in which case sampling keeps the caller's base
// value for that component.
type TransformTrack struct {
	// JointID is the index of the animated joint in the skeleton.
	JointID uint32

	// Position animates the joint's local translation.
	Position VectorTrack

	// Rotation animates the joint's local orientation.
	Rotation QuaternionTrack

	// Scaling animates the joint's local scale.
	Scaling VectorTrack
}

// NewTransformTrack creates an empty TransformTrack for the given joint.
//
// Parameters:
//   - jointID: the index of the joint to animate
//
// Returns:
//   - *TransformTrack: the new track with all channels empty
func NewTransformTrack(jointID uint32) *TransformTrack {
	return &TransformTrack{
		JointID:  jointID,
		Position: VectorTrack{Interpolation: InterpolationLinear},
		Rotation: QuaternionTrack{Interpolation: InterpolationLinear},
		Scaling:  VectorTrack{Interpolation: InterpolationLinear},
	}
}

// Sample evaluates every non-empty channel at time and substitutes the matching field of
// base for every empty one.
//
// Parameters:
//   - base: the transform supplying values for channels without keyframes
//   - time: the sample time in seconds
//
// Returns:
//   - skeleton.Transform: the combined transform
func (t *TransformTrack) Sample(base skeleton.Transform, time float32) skeleton.Transform {
	out := base
	if v, ok := t.Position.Sample(time); ok {
		out.Translation = v
	}
	if q, ok := t.Rotation.Sample(time); ok {
		out.Orientation = q
	}
	if v, ok := t.Scaling.Sample(time); ok {
		out.Scale = v
	}
	return out
}

// EndTime returns the latest keyframe time across all three channels.
func (t *TransformTrack) EndTime() float32 {
	return max(t.Position.EndTime(), t.Rotation.EndTime(), t.Scaling.EndTime())
}

// IsEmpty reports whether no channel has keyframes.
func (t *TransformTrack) IsEmpty() bool {
	return t.Position.IsEmpty() && t.Rotation.IsEmpty() && t.Scaling.IsEmpty()
}

// SetInterpolation applies one interpolation mode to all three channels.
func (t *TransformTrack) SetInterpolation(interpolation Interpolation) {
	t.Position.Interpolation = interpolation
	t.Rotation.Interpolation = interpolation
	t.Scaling.Interpolation = interpolation
}

// Validate checks every channel's keyframes.
//
// Returns:
//   - error: the first channel error, naming the joint and channel
func (t *TransformTrack) Validate() error {
	if err := t.Position.Validate(); err != nil {
		return errors.Wrapf(err, "joint %d position", t.JointID)
	}
	if err := t.Rotation.Validate(); err != nil {
		return errors.Wrapf(err, "joint %d rotation", t.JointID)
	}
	if err := t.Scaling.Validate(); err != nil {
		return errors.Wrapf(err, "joint %d scaling", t.JointID)
	}
	return nil
}
