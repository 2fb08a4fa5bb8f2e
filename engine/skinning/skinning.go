// Package skinning turns a sampled Pose into the per-joint skinning matrices
// (global transform times inverse bind matrix) that a renderer uploads as a palette.
package skinning

import (
	"github.com/Carmen-Shannon/oxy-anim/engine/skeleton"
	"github.com/go-gl/mathgl/mgl32"
)

// Resolver computes skinning palettes and keeps the scratch space for the global
// transforms between calls. A Resolver is not safe for concurrent use; give each
// animated instance (or each worker) its own.
type Resolver struct {
	globals []mgl32.Mat4
}

// Resolve allocates and returns the skinning palette for pose.
//
// Parameters:
//   - pose: the sampled local pose
//   - skel: the skeleton supplying inverse bind matrices
//
// Returns:
//   - []mgl32.Mat4: one matrix per pose joint
func Resolve(pose *skeleton.Pose, skel *skeleton.Skeleton) []mgl32.Mat4 {
	var r Resolver
	return r.Resolve(nil, pose, skel)
}

// Resolve writes the skinning palette for pose into dst, growing it when it is too short,
// and returns the resized slice. Entry i is global(i) * inverseBind(i), or the identity
// when joint i has no inverse bind matrix.
//
// Parameters:
//   - dst: the destination palette, reused when large enough
//   - pose: the sampled local pose
//   - skel: the skeleton supplying inverse bind matrices, may be nil
//
// Returns:
//   - []mgl32.Mat4: the palette, len equal to the pose's joint count
func (r *Resolver) Resolve(dst []mgl32.Mat4, pose *skeleton.Pose, skel *skeleton.Skeleton) []mgl32.Mat4 {
	r.globals = Globals(r.globals, pose)
	dst = grow(dst, len(r.globals))
	for i, g := range r.globals {
		if skel == nil {
			dst[i] = mgl32.Ident4()
			continue
		}
		ibm, ok := skel.InverseBind(i)
		if !ok {
			dst[i] = mgl32.Ident4()
			continue
		}
		dst[i] = g.Mul4(ibm)
	}
	return dst
}

// Globals returns the result of the last Resolve call's global pass. The slice is
// overwritten by the next call.
func (r *Resolver) Globals() []mgl32.Mat4 {
	return r.globals
}

// Globals writes the model-space matrix of every joint of pose into dst and returns it.
//
// Ordered poses, where every parent precedes its children, are resolved in one
// left-to-right pass reusing each parent's result. Any other pose falls back to walking
// each joint's parent chain so the output is still well defined. Parents outside the
// pose are treated as roots, and a pose whose parent array does not match its joints
// resolves every joint as a root.
//
// Parameters:
//   - dst: the destination slice, reused when large enough
//   - pose: the local pose
//
// Returns:
//   - []mgl32.Mat4: one global matrix per joint
func Globals(dst []mgl32.Mat4, pose *skeleton.Pose) []mgl32.Mat4 {
	if pose == nil {
		return dst[:0]
	}
	n := len(pose.Joints)
	dst = grow(dst, n)
	switch {
	case len(pose.Parents) != n:
		for i := range n {
			dst[i] = pose.Joints[i].ToMatrix()
		}
		return dst
	case !pose.IsOrdered():
		for i := range n {
			dst[i] = pose.GlobalMatrix(i)
		}
		return dst
	}

	for i := range n {
		local := pose.Joints[i].ToMatrix()
		if parent := pose.Parents[i]; parent >= 0 {
			dst[i] = dst[parent].Mul4(local)
		} else {
			dst[i] = local
		}
	}
	return dst
}

func grow(s []mgl32.Mat4, n int) []mgl32.Mat4 {
	if cap(s) < n {
		return make([]mgl32.Mat4, n)
	}
	return s[:n]
}
