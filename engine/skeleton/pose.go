package skeleton

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// NoParent marks a root joint in Pose.Parents.
const NoParent int32 = -1

// Pose is a flat array of per-joint local transforms with a parallel parent-index
// array describing a rooted forest. Joint i is a root iff Parents[i] == NoParent.
//
// A Pose is either a Skeleton's read-only rest pose or a per-instance working
// buffer that is refreshed from the rest pose before every sampling pass.
type Pose struct {
	// Joints holds the local transform of every joint.
	Joints []Transform

	// Parents holds the parent index of every joint, or NoParent for roots.
	Parents []int32
}

// NewPose allocates a pose of n root joints, all at the identity transform.
//
// Parameters:
//   - n: the number of joints
//
// Returns:
//   - *Pose: the new pose
func NewPose(n int) *Pose {
	p := &Pose{}
	p.Resize(n)
	return p
}

// Len returns the number of joints in the pose.
func (p *Pose) Len() int {
	return len(p.Joints)
}

// Resize sets the joint count to n. Joints added by growing start as identity roots;
// existing joints keep their values.
//
// Parameters:
//   - n: the new joint count
func (p *Pose) Resize(n int) {
	old := len(p.Joints)
	if n <= old {
		p.Joints = p.Joints[:n]
		p.Parents = p.Parents[:n]
		return
	}
	if cap(p.Joints) < n {
		joints := make([]Transform, n)
		copy(joints, p.Joints)
		p.Joints = joints
		parents := make([]int32, n)
		copy(parents, p.Parents)
		p.Parents = parents
	} else {
		p.Joints = p.Joints[:n]
		p.Parents = p.Parents[:n]
	}
	for i := old; i < n; i++ {
		p.Joints[i] = Identity()
		p.Parents[i] = NoParent
	}
}

// Clone returns a deep copy of the pose.
//
// Returns:
//   - *Pose: an independent copy
func (p *Pose) Clone() *Pose {
	c := &Pose{}
	c.CopyFrom(p)
	return c
}

// CopyFrom overwrites p with the contents of src, reusing p's storage when it is large enough.
// This is the per-frame reset of a working pose back to the rest pose.
//
// Parameters:
//   - src: the pose to copy
func (p *Pose) CopyFrom(src *Pose) {
	n := src.Len()
	if cap(p.Joints) < n {
		p.Joints = make([]Transform, n)
	}
	if cap(p.Parents) < n {
		p.Parents = make([]int32, n)
	}
	p.Joints = p.Joints[:n]
	p.Parents = p.Parents[:n]
	copy(p.Joints, src.Joints)
	copy(p.Parents, src.Parents)
}

// Local returns the local transform of joint i.
func (p *Pose) Local(i int) Transform {
	return p.Joints[i]
}

// SetLocal replaces the local transform of joint i.
func (p *Pose) SetLocal(i int, t Transform) {
	p.Joints[i] = t
}

// Parent returns the parent index of joint i, or NoParent for a root.
func (p *Pose) Parent(i int) int32 {
	return p.Parents[i]
}

// SetParent links joint i under parent. Pass NoParent to make i a root.
func (p *Pose) SetParent(i int, parent int32) {
	p.Parents[i] = parent
}

// IsOrdered reports whether every joint's parent has a lower index than the joint itself,
// which lets global transforms be resolved in a single left-to-right pass.
//
// Returns:
//   - bool: true if parents precede children
func (p *Pose) IsOrdered() bool {
	for i, parent := range p.Parents {
		if parent >= int32(i) {
			return false
		}
	}
	return true
}

// Validate checks the structural invariants of the pose: parallel arrays of equal
// length, parent indices in range, and an acyclic hierarchy.
//
// Returns:
//   - error: nil if the pose is well formed
func (p *Pose) Validate() error {
	_, err := p.depths()
	return err
}

// GlobalMatrix computes the model-space matrix of joint i by walking up the parent
// chain: global(i) = global(parent(i)) * local(i).
//
// Parameters:
//   - i: the joint index
//
// Returns:
//   - mgl32.Mat4: the global matrix of the joint
func (p *Pose) GlobalMatrix(i int) mgl32.Mat4 {
	m := p.Joints[i].ToMatrix()
	n := int32(len(p.Joints))
	// The step bound keeps a malformed cyclic pose from looping forever.
	for parent, steps := p.Parents[i], 0; parent >= 0 && parent < n && steps < len(p.Joints); steps++ {
		m = p.Joints[parent].ToMatrix().Mul4(m)
		parent = p.Parents[parent]
	}
	return m
}

// Levels groups joint indices by their depth in the hierarchy. Level 0 holds the roots,
// level k the joints whose parent is on level k-1. All joints of one level can be
// resolved in parallel once the previous level is complete.
//
// Returns:
//   - [][]int: joint indices per depth level, ascending within each level
//   - error: the validation error if the pose is malformed
func (p *Pose) Levels() ([][]int, error) {
	depth, err := p.depths()
	if err != nil {
		return nil, err
	}
	var levels [][]int
	for i, d := range depth {
		for len(levels) <= d {
			levels = append(levels, nil)
		}
		levels[d] = append(levels[d], i)
	}
	return levels, nil
}

// depths returns the hierarchy depth of every joint, validating the pose along the way.
func (p *Pose) depths() ([]int, error) {
	n := len(p.Joints)
	if len(p.Parents) != n {
		return nil, errors.Wrapf(ErrLengthMismatch, "%d joints, %d parents", n, len(p.Parents))
	}
	for i, parent := range p.Parents {
		if parent == NoParent {
			continue
		}
		if parent < 0 || int(parent) >= n {
			return nil, errors.Wrapf(ErrParentOutOfRange, "joint %d has parent %d of %d joints", i, parent, n)
		}
		if int(parent) == i {
			return nil, errors.Wrapf(ErrCyclicHierarchy, "joint %d is its own parent", i)
		}
	}

	const (
		unvisited = -1
		visiting  = -2
	)
	depth := make([]int, n)
	for i := range depth {
		depth[i] = unvisited
	}
	chain := make([]int, 0, 16)
	for i := range depth {
		if depth[i] >= 0 {
			continue
		}
		chain = chain[:0]
		j := i
		for depth[j] == unvisited {
			depth[j] = visiting
			chain = append(chain, j)
			if p.Parents[j] == NoParent {
				break
			}
			j = int(p.Parents[j])
		}
		if depth[j] == visiting && p.Parents[j] != NoParent {
			return nil, errors.Wrapf(ErrCyclicHierarchy, "joint %d is part of a parent cycle", j)
		}
		// Unwind from the topmost joint of the chain down to i.
		for k := len(chain) - 1; k >= 0; k-- {
			c := chain[k]
			if parent := p.Parents[c]; parent == NoParent {
				depth[c] = 0
			} else {
				depth[c] = depth[parent] + 1
			}
		}
	}
	return depth, nil
}
