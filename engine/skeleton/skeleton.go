package skeleton

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// Skeleton is the immutable rig of a model: joint names, the rest pose and one
// optional inverse bind matrix per joint. A Skeleton is shared read-only by every
// Clip sampled against it and by every animated instance of its model.
type Skeleton struct {
	// JointNames holds the authored name of every joint.
	JointNames []string

	// RestPose is the unanimated, as-authored pose.
	RestPose *Pose

	// InverseBindPose holds the inverse bind matrix of every joint. A nil entry
	// means the joint has no bind matrix and contributes no skinning correction.
	InverseBindPose []*mgl32.Mat4

	jointIndex map[string]int
}

// NewSkeleton validates and assembles a skeleton. Joint names are interned into a
// name to index map once here so the per-frame path never compares strings.
//
// The rest pose must be a well-formed forest whose parents precede their children.
// A nil inverseBindPose is treated as "no joint has a bind matrix".
//
// Parameters:
//   - jointNames: the name of every joint, indexed like the rest pose
//   - restPose: the rest pose of the rig
//   - inverseBindPose: per-joint inverse bind matrices, nil entries allowed
//
// Returns:
//   - *Skeleton: the validated skeleton
//   - error: a wrapped Err* sentinel describing the first violated invariant
func NewSkeleton(jointNames []string, restPose *Pose, inverseBindPose []*mgl32.Mat4) (*Skeleton, error) {
	if restPose == nil || restPose.Len() == 0 {
		return nil, ErrEmptySkeleton
	}
	n := restPose.Len()
	if len(jointNames) != n {
		return nil, errors.Wrapf(ErrLengthMismatch, "%d joint names, %d rest joints", len(jointNames), n)
	}
	if inverseBindPose == nil {
		inverseBindPose = make([]*mgl32.Mat4, n)
	}
	if len(inverseBindPose) != n {
		return nil, errors.Wrapf(ErrLengthMismatch, "%d inverse bind matrices, %d rest joints", len(inverseBindPose), n)
	}
	if err := restPose.Validate(); err != nil {
		return nil, err
	}
	if !restPose.IsOrdered() {
		for i, parent := range restPose.Parents {
			if parent >= int32(i) {
				return nil, errors.Wrapf(ErrUnorderedHierarchy, "joint %d has parent %d", i, parent)
			}
		}
	}

	index := make(map[string]int, n)
	for i, name := range jointNames {
		if name == "" {
			continue
		}
		if prev, ok := index[name]; ok {
			return nil, errors.Wrapf(ErrDuplicateJointName, "%q used by joints %d and %d", name, prev, i)
		}
		index[name] = i
	}

	return &Skeleton{
		JointNames:      jointNames,
		RestPose:        restPose,
		InverseBindPose: inverseBindPose,
		jointIndex:      index,
	}, nil
}

// JointCount returns the number of joints in the skeleton.
func (s *Skeleton) JointCount() int {
	return s.RestPose.Len()
}

// JointIndex resolves a joint name to its index.
//
// Parameters:
//   - name: the joint name
//
// Returns:
//   - int: the joint index, or -1 if not found
//   - bool: true if the name is known
func (s *Skeleton) JointIndex(name string) (int, bool) {
	i, ok := s.jointIndex[name]
	if !ok {
		return -1, false
	}
	return i, true
}

// InverseBind returns the inverse bind matrix of joint i.
//
// Parameters:
//   - i: the joint index
//
// Returns:
//   - mgl32.Mat4: the inverse bind matrix, or the identity when absent
//   - bool: true if the joint has a bind matrix
func (s *Skeleton) InverseBind(i int) (mgl32.Mat4, bool) {
	if i < 0 || i >= len(s.InverseBindPose) || s.InverseBindPose[i] == nil {
		return mgl32.Ident4(), false
	}
	return *s.InverseBindPose[i], true
}

// NewPose returns a fresh working pose initialized to the rest pose.
//
// Returns:
//   - *Pose: a copy of the rest pose owned by the caller
func (s *Skeleton) NewPose() *Pose {
	return s.RestPose.Clone()
}

// BindPoseFromRest derives inverse bind matrices from a rest pose, inverting the
// global matrix of every joint. Joints whose global matrix is singular get a nil entry.
// Useful for procedurally built rigs that were never bound in an authoring tool.
//
// Parameters:
//   - rest: the rest pose to bind against
//
// Returns:
//   - []*mgl32.Mat4: one inverse bind matrix per joint
func BindPoseFromRest(rest *Pose) []*mgl32.Mat4 {
	out := make([]*mgl32.Mat4, rest.Len())
	for i := range out {
		global := rest.GlobalMatrix(i)
		if global.Det() == 0 {
			continue
		}
		inv := global.Inv()
		out[i] = &inv
	}
	return out
}
