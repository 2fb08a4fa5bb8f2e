package loader

import (
	"io"

	"github.com/Carmen-Shannon/oxy-anim/engine/model"
	"github.com/qmuntal/gltf"
)

// gltfLoaderBackendImpl is the implementation of gltfLoaderBackend.
type gltfLoaderBackendImpl struct {
	importer gltfImporter
}

// gltfLoaderBackend is a loaderBackend implementation for glTF/GLB files.
// It delegates to the gltfImporter for parsing and extraction.
type gltfLoaderBackend interface {
	loaderBackend
}

var _ gltfLoaderBackend = &gltfLoaderBackendImpl{}

// newGLTFLoaderBackend creates a new glTF loader backend.
//
// Returns:
//   - gltfLoaderBackend: the loader backend for glTF/GLB files
func newGLTFLoaderBackend() gltfLoaderBackend {
	return &gltfLoaderBackendImpl{
		importer: newGLTFImporter(),
	}
}

func (b *gltfLoaderBackendImpl) Load(path string, skinIndex int) (*model.ImportedModel, error) {
	return b.importer.Import(path, skinIndex)
}

func (b *gltfLoaderBackendImpl) LoadReader(r io.Reader, skinIndex int) (*model.ImportedModel, error) {
	return b.importer.ImportReader(r, skinIndex)
}

func (b *gltfLoaderBackendImpl) LoadDocument(doc *gltf.Document, skinIndex int) (*model.ImportedModel, error) {
	return b.importer.ImportDocument(doc, skinIndex)
}
