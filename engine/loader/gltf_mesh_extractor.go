package loader

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-anim/engine/model"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
)

// gltfMeshExtractorImpl is the implementation of the gltfMeshExtractor interface.
type gltfMeshExtractorImpl struct {
	parser gltfParser
}

// gltfMeshExtractor defines the interface for extracting skinned mesh data from a parsed glTF document.
// Only the attributes a skinning renderer needs are read: positions, normals, joints and weights.
type gltfMeshExtractor interface {
	// ExtractMesh extracts a single mesh by index.
	// Returns one ImportedMesh per triangle primitive.
	//
	// Parameters:
	//   - meshIndex: the index of the mesh to extract
	//
	// Returns:
	//   - []model.ImportedMesh: one ImportedMesh per primitive
	//   - error: error if extraction fails
	ExtractMesh(meshIndex int) ([]model.ImportedMesh, error)

	// ExtractSkinnedMeshes extracts every mesh instantiated by a node bound to the given skin.
	//
	// Parameters:
	//   - skinIndex: the skin whose meshes to extract
	//
	// Returns:
	//   - []model.ImportedMesh: all primitives of the skin's meshes
	//   - error: error if extraction fails
	ExtractSkinnedMeshes(skinIndex int) ([]model.ImportedMesh, error)
}

var _ gltfMeshExtractor = &gltfMeshExtractorImpl{}

// newGLTFMeshExtractor creates a new mesh extractor for a parsed document.
//
// Parameters:
//   - parser: the parser containing a loaded document
//
// Returns:
//   - gltfMeshExtractor: the mesh extractor
func newGLTFMeshExtractor(parser gltfParser) gltfMeshExtractor {
	return &gltfMeshExtractorImpl{parser: parser}
}

func (e *gltfMeshExtractorImpl) ExtractMesh(meshIndex int) ([]model.ImportedMesh, error) {
	doc := e.parser.Document()
	if doc == nil {
		return nil, errors.New("no document loaded")
	}
	if meshIndex < 0 || meshIndex >= len(doc.Meshes) || doc.Meshes[meshIndex] == nil {
		return nil, errors.Errorf("mesh index %d out of range", meshIndex)
	}

	mesh := doc.Meshes[meshIndex]
	var result []model.ImportedMesh
	for primIdx, prim := range mesh.Primitives {
		if prim == nil || prim.Mode != gltf.PrimitiveTriangles {
			continue
		}
		imported, err := e.extractPrimitive(prim)
		if err != nil {
			return nil, errors.Wrapf(err, "mesh %d primitive %d", meshIndex, primIdx)
		}
		imported.Name = fmt.Sprintf("%s_%d", mesh.Name, primIdx)
		result = append(result, *imported)
	}
	return result, nil
}

func (e *gltfMeshExtractorImpl) ExtractSkinnedMeshes(skinIndex int) ([]model.ImportedMesh, error) {
	doc := e.parser.Document()
	if doc == nil {
		return nil, errors.New("no document loaded")
	}

	seen := make(map[uint32]bool)
	var all []model.ImportedMesh
	for _, node := range doc.Nodes {
		if node == nil || node.Mesh == nil || node.Skin == nil || int(*node.Skin) != skinIndex || seen[*node.Mesh] {
			continue
		}
		seen[*node.Mesh] = true
		meshes, err := e.ExtractMesh(int(*node.Mesh))
		if err != nil {
			return nil, err
		}
		all = append(all, meshes...)
	}
	return all, nil
}

// extractPrimitive extracts a single primitive as an ImportedMesh.
func (e *gltfMeshExtractorImpl) extractPrimitive(prim *gltf.Primitive) (*model.ImportedMesh, error) {
	posAccessor, ok := prim.Attributes["POSITION"]
	if !ok {
		return nil, errors.New("primitive has no POSITION attribute")
	}
	positions, err := e.parser.ReadVec3Accessor(posAccessor)
	if err != nil {
		return nil, errors.Wrap(err, "positions")
	}

	vertices := make([]model.GPUSkinnedVertex, len(positions))
	for i, pos := range positions {
		vertices[i].Position = pos
	}

	if normalAccessor, ok := prim.Attributes["NORMAL"]; ok {
		normals, err := e.parser.ReadVec3Accessor(normalAccessor)
		if err != nil {
			return nil, errors.Wrap(err, "normals")
		}
		for i := range min(len(normals), len(vertices)) {
			vertices[i].Normal = normals[i]
		}
	}

	if jointsAccessor, ok := prim.Attributes["JOINTS_0"]; ok {
		joints, err := e.parser.ReadJointsAccessor(jointsAccessor)
		if err != nil {
			return nil, errors.Wrap(err, "joints")
		}
		for i := range min(len(joints), len(vertices)) {
			vertices[i].BoneIndices = joints[i]
		}
	}

	if weightsAccessor, ok := prim.Attributes["WEIGHTS_0"]; ok {
		weights, err := e.parser.ReadVec4Accessor(weightsAccessor)
		if err != nil {
			return nil, errors.Wrap(err, "weights")
		}
		for i := range min(len(weights), len(vertices)) {
			vertices[i].BoneWeights = weights[i]
		}
	}
	for i := range vertices {
		vertices[i].NormalizeWeights()
	}

	var indices []uint32
	if prim.Indices != nil {
		indices, err = e.parser.ReadIndicesAccessor(*prim.Indices)
		if err != nil {
			return nil, errors.Wrap(err, "indices")
		}
	} else {
		indices = make([]uint32, len(vertices))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}

	return &model.ImportedMesh{
		Vertices: vertices,
		Indices:  indices,
	}, nil
}

// --- Helper Functions ---

// gltfRemapVertexJoints rewrites skin joint slots in vertex data to skeleton joint indices.
// Slots outside the skin are bound to joint 0 with their weight dropped.
func gltfRemapVertexJoints(meshes []model.ImportedMesh, oldToNew []uint32) {
	for i := range meshes {
		for j := range meshes[i].Vertices {
			v := &meshes[i].Vertices[j]
			for k := range v.BoneIndices {
				if int(v.BoneIndices[k]) < len(oldToNew) {
					v.BoneIndices[k] = oldToNew[v.BoneIndices[k]]
				} else {
					v.BoneIndices[k] = 0
					v.BoneWeights[k] = 0
				}
			}
			v.NormalizeWeights()
		}
	}
}
