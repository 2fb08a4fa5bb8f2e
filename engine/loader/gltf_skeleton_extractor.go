package loader

import (
	"fmt"
	"log"

	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/Carmen-Shannon/oxy-anim/engine/skeleton"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// gltfSkeletonExtractorImpl is the implementation of the gltfSkeletonExtractor interface.
type gltfSkeletonExtractorImpl struct {
	parser gltfParser
}

// gltfJointMapping records how a skin's joints were reordered into the skeleton.
type gltfJointMapping struct {
	// nodeToJoint maps a glTF node index to its skeleton joint index.
	nodeToJoint map[uint32]uint32

	// oldToNew maps a skin joint slot (as referenced by JOINTS_0) to its skeleton joint index.
	oldToNew []uint32
}

// gltfSkeletonExtractor defines the interface for extracting skeleton data from a parsed glTF document.
// It converts a glTF skin into a Skeleton whose joints are topologically sorted so parents
// always precede children.
type gltfSkeletonExtractor interface {
	// ExtractSkeleton extracts a skeleton from a skin by index, along with the mapping
	// needed to retarget animation channels and vertex joint indices.
	//
	// Parameters:
	//   - skinIndex: the index of the skin to extract
	//
	// Returns:
	//   - *skeleton.Skeleton: the validated skeleton
	//   - *gltfJointMapping: node and slot remapping into skeleton joint indices
	//   - error: error if extraction or validation fails
	ExtractSkeleton(skinIndex int) (*skeleton.Skeleton, *gltfJointMapping, error)

	// FindSkinForMesh finds which skin is bound to a mesh by scanning the nodes that
	// instantiate it. Returns -1 if no node binds the mesh to a skin.
	//
	// Parameters:
	//   - meshIndex: the mesh index to find a skin for
	//
	// Returns:
	//   - int: the skin index, or -1 if none
	FindSkinForMesh(meshIndex int) int
}

var _ gltfSkeletonExtractor = &gltfSkeletonExtractorImpl{}

// newGLTFSkeletonExtractor creates a new skeleton extractor for a parsed document.
//
// Parameters:
//   - parser: the parser containing a loaded document
//
// Returns:
//   - gltfSkeletonExtractor: the skeleton extractor
func newGLTFSkeletonExtractor(parser gltfParser) gltfSkeletonExtractor {
	return &gltfSkeletonExtractorImpl{parser: parser}
}

func (e *gltfSkeletonExtractorImpl) FindSkinForMesh(meshIndex int) int {
	doc := e.parser.Document()
	if doc == nil {
		return -1
	}
	for _, node := range doc.Nodes {
		if node != nil && node.Mesh != nil && int(*node.Mesh) == meshIndex && node.Skin != nil {
			return int(*node.Skin)
		}
	}
	return -1
}

func (e *gltfSkeletonExtractorImpl) ExtractSkeleton(skinIndex int) (*skeleton.Skeleton, *gltfJointMapping, error) {
	doc := e.parser.Document()
	if doc == nil {
		return nil, nil, errors.New("no document loaded")
	}
	if skinIndex < 0 || skinIndex >= len(doc.Skins) || doc.Skins[skinIndex] == nil {
		return nil, nil, errors.Wrapf(ErrNoSkin, "skin index %d of %d", skinIndex, len(doc.Skins))
	}
	skin := doc.Skins[skinIndex]
	n := len(skin.Joints)
	if n == 0 {
		return nil, nil, errors.Wrapf(ErrNoSkin, "skin %d has no joints", skinIndex)
	}

	// Inverse bind matrices are optional; glTF defines a missing accessor as identity.
	var inverseBind []mgl32.Mat4
	if skin.InverseBindMatrices != nil {
		var err error
		inverseBind, err = e.parser.ReadMat4Accessor(*skin.InverseBindMatrices)
		if err != nil {
			return nil, nil, errors.Wrap(err, "inverse bind matrices")
		}
	}

	slotOfNode := make(map[uint32]int, n)
	for slot, nodeIdx := range skin.Joints {
		if int(nodeIdx) >= len(doc.Nodes) || doc.Nodes[nodeIdx] == nil {
			return nil, nil, errors.Wrapf(skeleton.ErrParentOutOfRange, "joint %d: invalid node index %d", slot, nodeIdx)
		}
		slotOfNode[nodeIdx] = slot
	}

	// One pass over the node graph instead of searching it per joint.
	parentSlot := make([]int, n)
	for i := range parentSlot {
		parentSlot[i] = -1
	}
	for nodeIdx, node := range doc.Nodes {
		if node == nil {
			continue
		}
		parent, isJoint := slotOfNode[uint32(nodeIdx)]
		if !isJoint {
			continue
		}
		for _, child := range node.Children {
			if slot, ok := slotOfNode[child]; ok {
				parentSlot[slot] = parent
			}
		}
	}

	order := gltfTopologicalOrder(parentSlot)
	oldToNew := make([]uint32, n)
	for newIdx, oldIdx := range order {
		oldToNew[oldIdx] = uint32(newIdx)
	}

	rest := skeleton.NewPose(n)
	names := make([]string, n)
	ibms := make([]*mgl32.Mat4, n)
	used := make(map[string]struct{}, n)
	mapping := &gltfJointMapping{
		nodeToJoint: make(map[uint32]uint32, n),
		oldToNew:    oldToNew,
	}

	for newIdx, oldIdx := range order {
		nodeIdx := skin.Joints[oldIdx]
		node := doc.Nodes[nodeIdx]

		name := common.Coalesce(node.Name, fmt.Sprintf("joint_%d", oldIdx))
		if _, dup := used[name]; dup {
			unique := fmt.Sprintf("%s_%d", name, nodeIdx)
			for k := 2; ; k++ {
				if _, taken := used[unique]; !taken {
					break
				}
				unique = fmt.Sprintf("%s_%d_%d", name, nodeIdx, k)
			}
			log.Printf("[Loader] duplicate joint name %q renamed to %q", name, unique)
			name = unique
		}
		used[name] = struct{}{}
		names[newIdx] = name

		rest.Joints[newIdx] = gltfNodeTransform(node)
		if p := parentSlot[oldIdx]; p >= 0 {
			rest.Parents[newIdx] = int32(oldToNew[p])
		}
		if oldIdx < len(inverseBind) {
			m := inverseBind[oldIdx]
			ibms[newIdx] = &m
		} else {
			ident := mgl32.Ident4()
			ibms[newIdx] = &ident
		}
		mapping.nodeToJoint[nodeIdx] = uint32(newIdx)
	}

	skel, err := skeleton.NewSkeleton(names, rest, ibms)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "skin %d", skinIndex)
	}
	return skel, mapping, nil
}

// --- Helper Functions ---

// gltfTopologicalOrder returns joint slots in breadth-first order from the roots, so that
// every parent precedes its children. Slots unreachable from a root (only possible with a
// cyclic parent graph) are appended in their original order and rejected later by
// skeleton validation.
func gltfTopologicalOrder(parent []int) []int {
	n := len(parent)
	children := make([][]int, n)
	queue := make([]int, 0, n)
	for i, p := range parent {
		if p < 0 {
			queue = append(queue, i)
		} else {
			children[p] = append(children[p], i)
		}
	}

	order := make([]int, 0, n)
	visited := make([]bool, n)
	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		order = append(order, i)
		visited[i] = true
		queue = append(queue, children[i]...)
	}
	for i := range visited {
		if !visited[i] {
			order = append(order, i)
		}
	}
	return order
}
