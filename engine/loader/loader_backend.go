package loader

import (
	"io"

	"github.com/Carmen-Shannon/oxy-anim/engine/model"
	"github.com/qmuntal/gltf"
)

// loaderBackend defines the generic interface for importing models from files or streams.
// Concrete implementations (e.g., gltfLoaderBackend) handle format-specific details.
type loaderBackend interface {
	// Load performs a full model import from the given file path.
	//
	// Parameters:
	//   - path: the file path to load
	//   - skinIndex: the skin to import, or -1 to pick automatically
	//
	// Returns:
	//   - *model.ImportedModel: the imported model data
	//   - error: error if loading fails
	Load(path string, skinIndex int) (*model.ImportedModel, error)

	// LoadReader imports a model from a reader stream.
	//
	// Parameters:
	//   - r: the reader providing model data
	//   - skinIndex: the skin to import, or -1 to pick automatically
	//
	// Returns:
	//   - *model.ImportedModel: the imported model data
	//   - error: error if loading fails
	LoadReader(r io.Reader, skinIndex int) (*model.ImportedModel, error)

	// LoadDocument imports a model from an in-memory glTF document.
	//
	// Parameters:
	//   - doc: the decoded or programmatically built document
	//   - skinIndex: the skin to import, or -1 to pick automatically
	//
	// Returns:
	//   - *model.ImportedModel: the imported model data
	//   - error: error if loading fails
	LoadDocument(doc *gltf.Document, skinIndex int) (*model.ImportedModel, error)
}
