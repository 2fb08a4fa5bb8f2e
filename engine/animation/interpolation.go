// Package animation implements keyframe tracks, per-joint transform tracks and
// clips, and the sampling that turns sparse keyframes into a dense Pose.
package animation

import "fmt"

// Interpolation selects how a Track blends between two neighbouring keyframes.
type Interpolation int

const (
	// InterpolationConstant holds the value of the lower keyframe until the next one (a step).
	InterpolationConstant Interpolation = iota

	// InterpolationLinear blends linearly: componentwise lerp for vectors, nlerp for rotations.
	InterpolationLinear

	// InterpolationCubic blends with a Hermite spline through the keyframes' in/out tangents.
	// Tracks without tangent data sample Cubic exactly like Linear.
	InterpolationCubic
)

func (i Interpolation) String() string {
	switch i {
	case InterpolationConstant:
		return "constant"
	case InterpolationLinear:
		return "linear"
	case InterpolationCubic:
		return "cubic"
	default:
		return fmt.Sprintf("Interpolation(%d)", int(i))
	}
}
