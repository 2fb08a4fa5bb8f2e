package loader

import (
	"github.com/Carmen-Shannon/oxy-anim/engine/animation"
	"github.com/Carmen-Shannon/oxy-anim/engine/skeleton"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
)

// gltfUnsignedUnit maps a normalized unsigned component to [0, 1].
func gltfUnsignedUnit(maxValue float32) func(float32) float32 {
	return func(c float32) float32 {
		return c / maxValue
	}
}

// gltfSignedUnit maps a normalized signed component to [-1, 1]; the most negative
// value clamps to -1.
func gltfSignedUnit(maxValue float32) func(float32) float32 {
	return func(c float32) float32 {
		return max(c/maxValue, -1)
	}
}

// gltfDenormalize converts quantized vec4 data into floats.
func gltfDenormalize[T int8 | uint8 | int16 | uint16](data [][4]T, unit func(float32) float32) [][4]float32 {
	result := make([][4]float32, len(data))
	for i, v := range data {
		for k := range v {
			result[i][k] = unit(float32(v[k]))
		}
	}
	return result
}

func gltfWiden[T uint8 | uint16](data []T) []uint32 {
	result := make([]uint32, len(data))
	for i, v := range data {
		result[i] = uint32(v)
	}
	return result
}

func gltfWiden4[T uint8 | uint16](data [][4]T) [][4]uint32 {
	result := make([][4]uint32, len(data))
	for i, v := range data {
		result[i] = [4]uint32{uint32(v[0]), uint32(v[1]), uint32(v[2]), uint32(v[3])}
	}
	return result
}

// gltfInterpolation maps a glTF sampler interpolation onto the engine's modes.
// CUBICSPLINE samplers carry in/out tangents, reported by the second result.
func gltfInterpolation(i gltf.Interpolation) (animation.Interpolation, bool) {
	switch i {
	case gltf.InterpolationStep:
		return animation.InterpolationConstant, false
	case gltf.InterpolationCubicSpline:
		return animation.InterpolationCubic, true
	default:
		return animation.InterpolationLinear, false
	}
}

// gltfQuat converts glTF (x, y, z, w) rotation order to a quaternion.
func gltfQuat(v [4]float32) mgl32.Quat {
	return mgl32.Quat{W: v[3], V: mgl32.Vec3{v[0], v[1], v[2]}}
}

// gltfNodeTransform extracts the local TRS transform of a node. Nodes authored with
// a matrix are decomposed. Zero rotation and scale arrays, as left by documents built
// in code, fall back to identity values.
func gltfNodeTransform(node *gltf.Node) skeleton.Transform {
	if node.Matrix != [16]float32{} && mgl32.Mat4(node.Matrix) != mgl32.Ident4() {
		return skeleton.FromMatrix(mgl32.Mat4(node.Matrix))
	}

	t := skeleton.Identity()
	t.Translation = node.Translation
	if node.Rotation != [4]float32{} {
		t.Orientation = gltfQuat(node.Rotation).Normalize()
	}
	if node.Scale != [3]float32{} {
		t.Scale = node.Scale
	}
	return t
}
