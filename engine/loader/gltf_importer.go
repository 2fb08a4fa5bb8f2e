package loader

import (
	"io"

	"github.com/Carmen-Shannon/oxy-anim/engine/model"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
)

// gltfImporterImpl is the implementation of the gltfImporter interface.
type gltfImporterImpl struct{}

// gltfImporter defines the interface for orchestrating a full glTF/GLB import.
// It combines the parser and all extractors to produce a complete ImportedModel.
type gltfImporter interface {
	// Import loads a glTF/GLB file and extracts skeleton, clips and skinned meshes.
	//
	// Parameters:
	//   - path: the file path to the glTF or GLB file
	//   - skinIndex: the skin to import, or -1 to pick the skin bound to the first skinned mesh
	//
	// Returns:
	//   - *model.ImportedModel: the fully populated imported model
	//   - error: error if import fails
	Import(path string, skinIndex int) (*model.ImportedModel, error)

	// ImportReader decodes a glTF document from a reader and extracts all data.
	//
	// Parameters:
	//   - r: the reader providing glTF/GLB data
	//   - skinIndex: the skin to import, or -1 to pick automatically
	//
	// Returns:
	//   - *model.ImportedModel: the fully populated imported model
	//   - error: error if import fails
	ImportReader(r io.Reader, skinIndex int) (*model.ImportedModel, error)

	// ImportDocument extracts all data from an already decoded document.
	//
	// Parameters:
	//   - doc: the glTF document
	//   - skinIndex: the skin to import, or -1 to pick automatically
	//
	// Returns:
	//   - *model.ImportedModel: the fully populated imported model
	//   - error: error if import fails
	ImportDocument(doc *gltf.Document, skinIndex int) (*model.ImportedModel, error)
}

var _ gltfImporter = &gltfImporterImpl{}

// newGLTFImporter creates a new glTF importer.
//
// Returns:
//   - gltfImporter: the importer
func newGLTFImporter() gltfImporter {
	return &gltfImporterImpl{}
}

func (imp *gltfImporterImpl) Import(path string, skinIndex int) (*model.ImportedModel, error) {
	parser := newGLTFParser()
	if err := parser.Parse(path); err != nil {
		return nil, err
	}
	return imp.importFromParser(parser, skinIndex)
}

func (imp *gltfImporterImpl) ImportReader(r io.Reader, skinIndex int) (*model.ImportedModel, error) {
	parser := newGLTFParser()
	if err := parser.ParseReader(r); err != nil {
		return nil, err
	}
	return imp.importFromParser(parser, skinIndex)
}

func (imp *gltfImporterImpl) ImportDocument(doc *gltf.Document, skinIndex int) (*model.ImportedModel, error) {
	if doc == nil {
		return nil, errors.New("nil document")
	}
	parser := newGLTFParser()
	parser.SetDocument(doc)
	return imp.importFromParser(parser, skinIndex)
}

// importFromParser performs a full import from a parser that has already loaded a document.
func (imp *gltfImporterImpl) importFromParser(parser gltfParser, skinIndex int) (*model.ImportedModel, error) {
	doc := parser.Document()
	skeletonExtractor := newGLTFSkeletonExtractor(parser)

	if skinIndex < 0 {
		skinIndex = gltfDefaultSkin(doc, skeletonExtractor)
	}
	if skinIndex < 0 {
		return nil, ErrNoSkin
	}

	skel, mapping, err := skeletonExtractor.ExtractSkeleton(skinIndex)
	if err != nil {
		return nil, errors.Wrap(err, "skeleton extraction failed")
	}

	clips, err := newGLTFAnimationExtractor(parser).ExtractAnimations(mapping.nodeToJoint)
	if err != nil {
		return nil, errors.Wrap(err, "animation extraction failed")
	}
	for _, c := range clips {
		if err := c.Validate(skel.JointCount()); err != nil {
			return nil, errors.Wrap(err, "animation validation failed")
		}
	}

	meshes, err := newGLTFMeshExtractor(parser).ExtractSkinnedMeshes(skinIndex)
	if err != nil {
		return nil, errors.Wrap(err, "mesh extraction failed")
	}
	gltfRemapVertexJoints(meshes, mapping.oldToNew)

	return &model.ImportedModel{
		Name:     gltfModelName(doc, parser.Name()),
		Skeleton: skel,
		Clips:    clips,
		Meshes:   meshes,
	}, nil
}

// --- Helper Functions ---

// gltfDefaultSkin picks the skin bound to the first skinned mesh, falling back to the
// first skin in the document. Returns -1 when the document has no skins.
func gltfDefaultSkin(doc *gltf.Document, skeletonExtractor gltfSkeletonExtractor) int {
	for i := range doc.Meshes {
		if si := skeletonExtractor.FindSkinForMesh(i); si >= 0 {
			return si
		}
	}
	if len(doc.Skins) > 0 {
		return 0
	}
	return -1
}

// gltfModelName derives a model name from the default scene or the source file name.
func gltfModelName(doc *gltf.Document, fallback string) string {
	if doc.Scene != nil && int(*doc.Scene) < len(doc.Scenes) && doc.Scenes[*doc.Scene] != nil {
		if name := doc.Scenes[*doc.Scene].Name; name != "" {
			return name
		}
	}
	if fallback != "" {
		return fallback
	}
	return "unnamed_model"
}
