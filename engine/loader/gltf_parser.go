package loader

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// gltfParserImpl is the implementation of the gltfParser interface.
type gltfParserImpl struct {
	name     string
	document *gltf.Document
}

// gltfParser defines the interface for loading a glTF/GLB document and reading its
// accessors as typed engine data. Decoding and buffer resolution are delegated to
// github.com/qmuntal/gltf; this layer converts accessor payloads into the shapes the
// extractors consume and rejects component layouts the importer cannot use.
// This is internal to the loader package.
type gltfParser interface {
	// Parse loads and parses a glTF/GLB file from the given path.
	//
	// Parameters:
	//   - path: path to the glTF or GLB file
	//
	// Returns:
	//   - error: error if parsing fails
	Parse(path string) error

	// ParseReader decodes a glTF JSON or GLB stream. External buffer URIs cannot be
	// resolved from a stream; use embedded or GLB buffers.
	//
	// Parameters:
	//   - r: reader containing glTF JSON or GLB data
	//
	// Returns:
	//   - error: error if decoding fails
	ParseReader(r io.Reader) error

	// SetDocument adopts an already decoded or programmatically built document.
	//
	// Parameters:
	//   - doc: the document to read from
	SetDocument(doc *gltf.Document)

	// Document returns the parsed glTF document, or nil before a successful parse.
	//
	// Returns:
	//   - *gltf.Document: the parsed document or nil
	Document() *gltf.Document

	// Name returns the base name of the parsed file without extension, or "" for
	// streams and adopted documents.
	//
	// Returns:
	//   - string: the source name
	Name() string

	// ReadScalarAccessor reads an accessor as scalar float data.
	//
	// Parameters:
	//   - accessorIndex: the index of the accessor
	//
	// Returns:
	//   - []float32: the scalar data
	//   - error: error if reading fails
	ReadScalarAccessor(accessorIndex uint32) ([]float32, error)

	// ReadVec3Accessor reads an accessor as vec3 float data.
	//
	// Parameters:
	//   - accessorIndex: the index of the accessor
	//
	// Returns:
	//   - [][3]float32: the vec3 data
	//   - error: error if reading fails
	ReadVec3Accessor(accessorIndex uint32) ([][3]float32, error)

	// ReadVec4Accessor reads an accessor as vec4 float data. Normalized integer
	// accessors (quantized rotations, weights) are converted to floats.
	//
	// Parameters:
	//   - accessorIndex: the index of the accessor
	//
	// Returns:
	//   - [][4]float32: the vec4 data
	//   - error: error if reading fails
	ReadVec4Accessor(accessorIndex uint32) ([][4]float32, error)

	// ReadMat4Accessor reads an accessor as column-major mat4 data.
	//
	// Parameters:
	//   - accessorIndex: the index of the accessor
	//
	// Returns:
	//   - []mgl32.Mat4: the matrices
	//   - error: error if reading fails
	ReadMat4Accessor(accessorIndex uint32) ([]mgl32.Mat4, error)

	// ReadIndicesAccessor reads an accessor as index data.
	// Handles UNSIGNED_BYTE, UNSIGNED_SHORT, and UNSIGNED_INT component types.
	//
	// Parameters:
	//   - accessorIndex: the index of the accessor
	//
	// Returns:
	//   - []uint32: the index data
	//   - error: error if reading fails
	ReadIndicesAccessor(accessorIndex uint32) ([]uint32, error)

	// ReadJointsAccessor reads an accessor as per-vertex joint indices.
	// Handles UNSIGNED_BYTE and UNSIGNED_SHORT component types.
	//
	// Parameters:
	//   - accessorIndex: the index of the accessor
	//
	// Returns:
	//   - [][4]uint32: the joint indices
	//   - error: error if reading fails
	ReadJointsAccessor(accessorIndex uint32) ([][4]uint32, error)
}

var _ gltfParser = &gltfParserImpl{}

// newGLTFParser creates a new glTF parser instance.
//
// Returns:
//   - gltfParser: a new parser instance
func newGLTFParser() gltfParser {
	return &gltfParserImpl{}
}

func (p *gltfParserImpl) Parse(path string) error {
	doc, err := gltf.Open(path)
	if err != nil {
		return errors.Wrapf(err, "open %s", path)
	}
	p.document = doc
	p.name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return nil
}

func (p *gltfParserImpl) ParseReader(r io.Reader) error {
	doc := new(gltf.Document)
	if err := gltf.NewDecoder(r).Decode(doc); err != nil {
		return errors.Wrap(err, "decode glTF stream")
	}
	p.document = doc
	p.name = ""
	return nil
}

func (p *gltfParserImpl) SetDocument(doc *gltf.Document) {
	p.document = doc
	p.name = ""
}

func (p *gltfParserImpl) Document() *gltf.Document {
	return p.document
}

func (p *gltfParserImpl) Name() string {
	return p.name
}

// --- Accessor Data Reading ---

// readAccessor decodes an accessor through the modeler package, returning the typed
// slice it produces (for example []float32 or [][4]uint16).
func (p *gltfParserImpl) readAccessor(accessorIndex uint32) (any, *gltf.Accessor, error) {
	if p.document == nil {
		return nil, nil, errors.New("no document loaded")
	}
	if int(accessorIndex) >= len(p.document.Accessors) {
		return nil, nil, errors.Errorf("accessor index %d out of range", accessorIndex)
	}
	acr := p.document.Accessors[accessorIndex]
	data, err := modeler.ReadAccessor(p.document, acr, nil)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "accessor %d", accessorIndex)
	}
	return data, acr, nil
}

func (p *gltfParserImpl) ReadScalarAccessor(accessorIndex uint32) ([]float32, error) {
	data, _, err := p.readAccessor(accessorIndex)
	if err != nil {
		return nil, err
	}
	if v, ok := data.([]float32); ok {
		return v, nil
	}
	return nil, errors.Wrapf(ErrUnsupportedAccessor, "accessor %d: want SCALAR FLOAT, got %T", accessorIndex, data)
}

func (p *gltfParserImpl) ReadVec3Accessor(accessorIndex uint32) ([][3]float32, error) {
	data, _, err := p.readAccessor(accessorIndex)
	if err != nil {
		return nil, err
	}
	if v, ok := data.([][3]float32); ok {
		return v, nil
	}
	return nil, errors.Wrapf(ErrUnsupportedAccessor, "accessor %d: want VEC3 FLOAT, got %T", accessorIndex, data)
}

func (p *gltfParserImpl) ReadVec4Accessor(accessorIndex uint32) ([][4]float32, error) {
	data, acr, err := p.readAccessor(accessorIndex)
	if err != nil {
		return nil, err
	}
	if v, ok := data.([][4]float32); ok {
		return v, nil
	}
	if !acr.Normalized {
		return nil, errors.Wrapf(ErrUnsupportedAccessor, "accessor %d: want VEC4 FLOAT or normalized integer, got %T", accessorIndex, data)
	}
	switch v := data.(type) {
	case [][4]int8:
		return gltfDenormalize(v, gltfSignedUnit(127)), nil
	case [][4]uint8:
		return gltfDenormalize(v, gltfUnsignedUnit(255)), nil
	case [][4]int16:
		return gltfDenormalize(v, gltfSignedUnit(32767)), nil
	case [][4]uint16:
		return gltfDenormalize(v, gltfUnsignedUnit(65535)), nil
	}
	return nil, errors.Wrapf(ErrUnsupportedAccessor, "accessor %d: normalized %T", accessorIndex, data)
}

func (p *gltfParserImpl) ReadMat4Accessor(accessorIndex uint32) ([]mgl32.Mat4, error) {
	data, _, err := p.readAccessor(accessorIndex)
	if err != nil {
		return nil, err
	}
	cols, ok := data.([][4][4]float32)
	if !ok {
		return nil, errors.Wrapf(ErrUnsupportedAccessor, "accessor %d: want MAT4 FLOAT, got %T", accessorIndex, data)
	}
	result := make([]mgl32.Mat4, len(cols))
	for i, m := range cols {
		for c := 0; c < 4; c++ {
			for r := 0; r < 4; r++ {
				result[i][c*4+r] = m[c][r]
			}
		}
	}
	return result, nil
}

func (p *gltfParserImpl) ReadIndicesAccessor(accessorIndex uint32) ([]uint32, error) {
	data, _, err := p.readAccessor(accessorIndex)
	if err != nil {
		return nil, err
	}
	switch v := data.(type) {
	case []uint32:
		return v, nil
	case []uint16:
		return gltfWiden(v), nil
	case []uint8:
		return gltfWiden(v), nil
	}
	return nil, errors.Wrapf(ErrUnsupportedAccessor, "accessor %d: unsupported index data %T", accessorIndex, data)
}

func (p *gltfParserImpl) ReadJointsAccessor(accessorIndex uint32) ([][4]uint32, error) {
	data, _, err := p.readAccessor(accessorIndex)
	if err != nil {
		return nil, err
	}
	switch v := data.(type) {
	case [][4]uint8:
		return gltfWiden4(v), nil
	case [][4]uint16:
		return gltfWiden4(v), nil
	}
	return nil, errors.Wrapf(ErrUnsupportedAccessor, "accessor %d: unsupported joints data %T", accessorIndex, data)
}
