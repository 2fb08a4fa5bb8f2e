package animation

import "github.com/pkg/errors"

var (
	// ErrJointOutOfRange is returned when a track targets a joint the skeleton does not have.
	ErrJointOutOfRange = errors.New("animation: track joint id out of range")

	// ErrUnsortedKeyframes is returned when keyframe times are not strictly ascending.
	ErrUnsortedKeyframes = errors.New("animation: keyframes not in ascending time order")

	// ErrNonFiniteKeyframe is returned when a keyframe time, value or tangent is NaN or infinite.
	ErrNonFiniteKeyframe = errors.New("animation: non-finite keyframe")

	// ErrDuplicateTrack is returned when two tracks of one clip target the same joint.
	ErrDuplicateTrack = errors.New("animation: duplicate track for joint")
)
