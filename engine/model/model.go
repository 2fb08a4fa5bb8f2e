package model

import (
	"github.com/Carmen-Shannon/oxy-anim/engine/animation"
	"github.com/Carmen-Shannon/oxy-anim/engine/skeleton"
	"github.com/pkg/errors"
)

// model is the implementation of the Model interface.
type model struct {
	name                  string
	skeleton              *skeleton.Skeleton
	clips                 []*animation.Clip
	boundingRadius        float32
	vertexData, indexData []byte
	indexCount            int
}

// Model defines the interface for a loaded animated model.
// A Model owns a Skeleton, which is shared read-only by every clip and every instance
// animating it, plus the clips themselves and optional skinned mesh data for the renderer.
// It is produced by the Loader or assembled procedurally with NewModel.
type Model interface {
	// Name retrieves the model identifier.
	//
	// Returns:
	//   - string: the model name
	Name() string

	// Skinned reports whether this model carries a skeleton.
	//
	// Returns:
	//   - bool: true if the model has joint data
	Skinned() bool

	// Skeleton retrieves the joint hierarchy for this model.
	// Returns nil for static (non-skinned) models.
	//
	// Returns:
	//   - *skeleton.Skeleton: the skeleton or nil
	Skeleton() *skeleton.Skeleton

	// Clips retrieves all animation clips bundled with this model.
	//
	// Returns:
	//   - []*animation.Clip: the animation clips
	Clips() []*animation.Clip

	// Clip retrieves the clip at the given index, or nil if out of range.
	//
	// Parameters:
	//   - index: the clip index
	//
	// Returns:
	//   - *animation.Clip: the clip or nil
	Clip(index int) *animation.Clip

	// ClipCount returns the number of available animation clips.
	//
	// Returns:
	//   - int: the clip count
	ClipCount() int

	// ClipNames returns the names of all animation clips.
	//
	// Returns:
	//   - []string: the clip names
	ClipNames() []string

	// ClipIndex returns the index of a clip by name, or -1 if not found.
	//
	// Parameters:
	//   - name: the clip name to search for
	//
	// Returns:
	//   - int: the clip index, or -1 if not found
	ClipIndex(name string) int

	// AddClip validates a clip against the model's skeleton and appends it.
	// The clip's duration is recalculated before validation.
	//
	// Parameters:
	//   - clip: the clip to add
	//
	// Returns:
	//   - int: the index of the added clip
	//   - error: the validation error if the clip does not fit the skeleton
	AddClip(clip *animation.Clip) (int, error)

	// Validate checks every clip against the skeleton. A model that fails validation
	// must not be handed to an animator.
	//
	// Returns:
	//   - error: the first validation error, or nil
	Validate() error

	// VertexData returns the raw skinned vertex data for this model's mesh.
	//
	// Returns:
	//   - []byte: the vertex data
	VertexData() []byte

	// IndexData returns the raw index data for this model's mesh.
	//
	// Returns:
	//   - []byte: the index data
	IndexData() []byte

	// IndexCount returns the number of indices in the model's mesh.
	//
	// Returns:
	//   - int: the index count
	IndexCount() int

	// BoundingRadius returns the bounding sphere radius for this model, measured as
	// the maximum vertex distance from the origin.
	//
	// Returns:
	//   - float32: the bounding radius
	BoundingRadius() float32
}

var _ Model = &model{}

// NewModel creates a new Model instance with the specified options applied and validates
// the result.
//
// Parameters:
//   - options: a variadic list of ModelBuilderOption functions to configure the Model
//
// Returns:
//   - Model: a new instance of Model configured with the provided options
//   - error: the validation error if a clip does not fit the skeleton
func NewModel(options ...ModelBuilderOption) (Model, error) {
	m := &model{}
	for _, opt := range options {
		opt(m)
	}
	for _, c := range m.clips {
		c.RecalculateDuration()
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *model) Name() string {
	return m.name
}

func (m *model) Skinned() bool {
	return m.skeleton != nil
}

func (m *model) Skeleton() *skeleton.Skeleton {
	return m.skeleton
}

func (m *model) Clips() []*animation.Clip {
	return m.clips
}

func (m *model) Clip(index int) *animation.Clip {
	if index < 0 || index >= len(m.clips) {
		return nil
	}
	return m.clips[index]
}

func (m *model) ClipCount() int {
	return len(m.clips)
}

func (m *model) ClipNames() []string {
	names := make([]string, len(m.clips))
	for i, c := range m.clips {
		names[i] = c.Name
	}
	return names
}

func (m *model) ClipIndex(name string) int {
	for i, c := range m.clips {
		if c.Name == name {
			return i
		}
	}
	return -1
}

func (m *model) AddClip(clip *animation.Clip) (int, error) {
	if clip == nil {
		return -1, errors.New("model: nil clip")
	}
	clip.RecalculateDuration()
	if err := m.validateClip(clip); err != nil {
		return -1, err
	}
	m.clips = append(m.clips, clip)
	return len(m.clips) - 1, nil
}

func (m *model) Validate() error {
	for _, c := range m.clips {
		if err := m.validateClip(c); err != nil {
			return err
		}
	}
	return nil
}

func (m *model) validateClip(c *animation.Clip) error {
	if c == nil {
		return errors.Errorf("model %q: nil clip", m.name)
	}
	if m.skeleton == nil {
		if len(c.Tracks) > 0 {
			return errors.Wrapf(animation.ErrJointOutOfRange, "model %q has no skeleton for clip %q", m.name, c.Name)
		}
		return nil
	}
	return errors.Wrapf(c.Validate(m.skeleton.JointCount()), "model %q", m.name)
}

func (m *model) VertexData() []byte {
	return m.vertexData
}

func (m *model) IndexData() []byte {
	return m.indexData
}

func (m *model) IndexCount() int {
	return m.indexCount
}

func (m *model) BoundingRadius() float32 {
	return m.boundingRadius
}
