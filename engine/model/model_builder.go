package model

import (
	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/Carmen-Shannon/oxy-anim/engine/animation"
	"github.com/Carmen-Shannon/oxy-anim/engine/skeleton"
)

// ModelBuilderOption is a functional option for configuring a Model via NewModel.
type ModelBuilderOption func(*model)

// WithName is an option builder that sets the name of the Model.
//
// Parameters:
//   - name: the model identifier
//
// Returns:
//   - ModelBuilderOption: a function that applies the name option to a model
func WithName(name string) ModelBuilderOption {
	return func(m *model) {
		m.name = name
	}
}

// WithSkeleton is an option builder that sets the joint hierarchy of the Model.
//
// Parameters:
//   - skel: the skeleton to set
//
// Returns:
//   - ModelBuilderOption: a function that applies the skeleton option to a model
func WithSkeleton(skel *skeleton.Skeleton) ModelBuilderOption {
	return func(m *model) {
		m.skeleton = skel
	}
}

// WithClips is an option builder that appends animation clips to the Model.
// Clips are validated against the skeleton when NewModel returns.
//
// Parameters:
//   - clips: the animation clips to add
//
// Returns:
//   - ModelBuilderOption: a function that applies the clips option to a model
func WithClips(clips ...*animation.Clip) ModelBuilderOption {
	return func(m *model) {
		m.clips = append(m.clips, clips...)
	}
}

// WithMesh is an option builder that packs a skinned mesh into the Model's vertex and
// index data and derives the bounding radius from the vertex positions.
//
// Parameters:
//   - vertices: the skinned vertices
//   - indices: the triangle indices
//
// Returns:
//   - ModelBuilderOption: a function that applies the mesh option to a model
func WithMesh(vertices []GPUSkinnedVertex, indices []uint32) ModelBuilderOption {
	return func(m *model) {
		m.vertexData = MarshalVertices(vertices)
		m.indexData = append([]byte(nil), common.SliceToBytes(indices)...)
		m.indexCount = len(indices)
		m.boundingRadius = max(m.boundingRadius, ComputeBoundingRadius(vertices))
	}
}

// WithBoundingRadius is an option builder that manually sets the bounding sphere radius.
// Place it after WithMesh to override the computed value.
//
// Parameters:
//   - radius: the bounding radius to set
//
// Returns:
//   - ModelBuilderOption: a function that applies the bounding radius option to a model
func WithBoundingRadius(radius float32) ModelBuilderOption {
	return func(m *model) {
		m.boundingRadius = radius
	}
}

// FromImported is an option builder that copies everything an importer produced into the
// Model: name, skeleton, clips and the concatenated meshes.
//
// Parameters:
//   - imported: the importer output
//
// Returns:
//   - ModelBuilderOption: a function that applies the imported data to a model
func FromImported(imported *ImportedModel) ModelBuilderOption {
	return func(m *model) {
		if imported == nil {
			return
		}
		m.name = common.Coalesce(m.name, imported.Name)
		m.skeleton = imported.Skeleton
		m.clips = append(m.clips, imported.Clips...)
		vertices, indices := imported.MergedMesh()
		if len(vertices) > 0 {
			WithMesh(vertices, indices)(m)
		}
	}
}
