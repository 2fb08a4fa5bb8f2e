package model

import (
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/chewxy/math32"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

// MaxJointInfluences is the number of joints that may influence one vertex.
const MaxJointInfluences = 4

// GPUSkinnedVertex is the GPU-aligned representation of a single skinned mesh vertex.
// Matches the layout described by SkinnedVertexBufferLayout.
// Size: 56 bytes (no padding required).
type GPUSkinnedVertex struct {
	Position    [3]float32                  // offset  0: vertex position in bind space (12 bytes)
	Normal      [3]float32                  // offset 12: vertex normal (12 bytes)
	BoneIndices [MaxJointInfluences]uint32  // offset 24: palette indices of up to 4 influencing joints (16 bytes)
	BoneWeights [MaxJointInfluences]float32 // offset 40: blend weights for each joint, summing to 1.0 (16 bytes)
}

// Size returns the size of the GPUSkinnedVertex struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUSkinnedVertex) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUSkinnedVertex struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 56-byte buffer ready for GPU upload.
func (g *GPUSkinnedVertex) Marshal() []byte {
	buf := make([]byte, 56)
	g.marshalInto(buf)
	return buf
}

func (g *GPUSkinnedVertex) marshalInto(buf []byte) {
	put := func(off int, f float32) {
		binary.LittleEndian.PutUint32(buf[off:off+4], math.Float32bits(f))
	}
	for i := 0; i < 3; i++ {
		put(i*4, g.Position[i])
		put(12+i*4, g.Normal[i])
	}
	for i := 0; i < MaxJointInfluences; i++ {
		binary.LittleEndian.PutUint32(buf[24+i*4:28+i*4], g.BoneIndices[i])
		put(40+i*4, g.BoneWeights[i])
	}
}

// NormalizeWeights rescales the bone weights so they sum to 1. A vertex with no
// positive weight is bound fully to its first joint.
func (g *GPUSkinnedVertex) NormalizeWeights() {
	var sum float32
	for i, w := range g.BoneWeights {
		if w < 0 || !common.IsFinite(w) {
			g.BoneWeights[i] = 0
			continue
		}
		sum += w
	}
	if sum <= 0 {
		g.BoneWeights = [MaxJointInfluences]float32{1, 0, 0, 0}
		return
	}
	for i := range g.BoneWeights {
		g.BoneWeights[i] /= sum
	}
}

// MarshalVertices packs a vertex slice into one contiguous little-endian buffer.
//
// Parameters:
//   - vertices: the vertices to pack
//
// Returns:
//   - []byte: the packed vertex buffer, nil for an empty slice
func MarshalVertices(vertices []GPUSkinnedVertex) []byte {
	if len(vertices) == 0 {
		return nil
	}
	const stride = 56
	buf := make([]byte, stride*len(vertices))
	for i := range vertices {
		vertices[i].marshalInto(buf[i*stride : (i+1)*stride])
	}
	return buf
}

// SkinnedVertexBufferLayout returns the vertex buffer layout for GPUSkinnedVertex:
// position at location 0, normal at 1, joint indices at 2 and weights at 3.
//
// Returns:
//   - wgpu.VertexBufferLayout: the layout for a skinned render pipeline
func SkinnedVertexBufferLayout() wgpu.VertexBufferLayout {
	return wgpu.VertexBufferLayout{
		ArrayStride: 56,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
			{Format: wgpu.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1},
			{Format: wgpu.VertexFormatUint32x4, Offset: 24, ShaderLocation: 2},
			{Format: wgpu.VertexFormatFloat32x4, Offset: 40, ShaderLocation: 3},
		},
	}
}

// ComputeBoundingRadius calculates the bounding sphere radius from a slice of
// GPUSkinnedVertex positions. The radius is the maximum distance from the origin
// across all vertices in the slice.
//
// Parameters:
//   - vertices: the vertex data to compute the bounding radius from
//
// Returns:
//   - float32: the maximum distance from the origin
func ComputeBoundingRadius(vertices []GPUSkinnedVertex) float32 {
	var maxDistSq float32
	for _, v := range vertices {
		p := v.Position
		distSq := p[0]*p[0] + p[1]*p[1] + p[2]*p[2]
		if distSq > maxDistSq {
			maxDistSq = distSq
		}
	}
	return math32.Sqrt(maxDistSq)
}

// GPUBoneMatrices returns a byte view of a skinning palette for a uniform or storage
// buffer upload: one column-major mat4x4<f32> per joint, indexed like the skeleton.
// WARNING: The returned slice shares memory with the palette.
//
// Parameters:
//   - palette: the resolved skinning matrices
//
// Returns:
//   - []byte: 64 bytes per joint, or nil for an empty palette
func GPUBoneMatrices(palette []mgl32.Mat4) []byte {
	return common.SliceToBytes(palette)
}
