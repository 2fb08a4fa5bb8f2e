package skeleton

import "github.com/pkg/errors"

var (
	// ErrEmptySkeleton is returned when a skeleton is built without joints.
	ErrEmptySkeleton = errors.New("skeleton: no joints")

	// ErrLengthMismatch is returned when parallel joint arrays disagree in length.
	ErrLengthMismatch = errors.New("skeleton: joint array length mismatch")

	// ErrParentOutOfRange is returned when a parent index is neither -1 nor a valid joint.
	ErrParentOutOfRange = errors.New("skeleton: parent index out of range")

	// ErrCyclicHierarchy is returned when the parent links do not form a forest.
	ErrCyclicHierarchy = errors.New("skeleton: cyclic joint hierarchy")

	// ErrUnorderedHierarchy is returned when a joint is indexed before its parent.
	ErrUnorderedHierarchy = errors.New("skeleton: parent indexed after child")

	// ErrDuplicateJointName is returned when two joints share a non-empty name.
	ErrDuplicateJointName = errors.New("skeleton: duplicate joint name")
)
