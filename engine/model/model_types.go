package model

import (
	"github.com/Carmen-Shannon/oxy-anim/engine/animation"
	"github.com/Carmen-Shannon/oxy-anim/engine/skeleton"
)

// ImportedModel represents an animated model loaded from an external format.
// This is the universal format that importers produce before a Model is built.
type ImportedModel struct {
	// Name is the model identifier.
	Name string

	// Skeleton is the joint hierarchy (nil for static models).
	Skeleton *skeleton.Skeleton

	// Clips are all animation clips bundled with the model, with joint ids already
	// remapped to skeleton indices.
	Clips []*animation.Clip

	// Meshes contains the skinned mesh data, possibly split into several primitives.
	Meshes []ImportedMesh
}

// ImportedMesh represents a single skinned primitive within an imported model.
type ImportedMesh struct {
	// Name is the mesh identifier.
	Name string

	// Vertices carry position, normal and up to four joint influences each.
	Vertices []GPUSkinnedVertex

	// Indices are the triangle indices, local to Vertices.
	Indices []uint32
}

// MergedMesh concatenates all meshes into one vertex and index list, offsetting each
// mesh's indices by the vertices that precede it.
//
// Returns:
//   - []GPUSkinnedVertex: all vertices
//   - []uint32: all indices, rebased
func (m *ImportedModel) MergedMesh() ([]GPUSkinnedVertex, []uint32) {
	var vertices []GPUSkinnedVertex
	var indices []uint32
	for _, mesh := range m.Meshes {
		base := uint32(len(vertices))
		vertices = append(vertices, mesh.Vertices...)
		for _, idx := range mesh.Indices {
			indices = append(indices, base+idx)
		}
	}
	return vertices, indices
}
