package loader

import (
	"fmt"
	"log"
	"sort"

	"github.com/Carmen-Shannon/oxy-anim/engine/animation"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
)

// gltfAnimationExtractorImpl is the implementation of the gltfAnimationExtractor interface.
type gltfAnimationExtractorImpl struct {
	parser gltfParser
}

// gltfAnimationExtractor defines the interface for extracting animation data from a parsed glTF document.
// It converts glTF animations into Clips with one TransformTrack per animated joint.
//
// The nodeToJoint mapping is produced by the skeleton extractor and retargets channels from
// glTF node indices onto the topologically sorted skeleton.
type gltfAnimationExtractor interface {
	// ExtractAnimation extracts a single animation by index. Channels targeting nodes outside
	// the mapping and morph weight channels are skipped.
	//
	// Parameters:
	//   - animIndex: the index of the animation in the document
	//   - nodeToJoint: maps glTF node index to skeleton joint index
	//
	// Returns:
	//   - *animation.Clip: the extracted clip with its duration computed
	//   - error: error if extraction fails
	ExtractAnimation(animIndex int, nodeToJoint map[uint32]uint32) (*animation.Clip, error)

	// ExtractAnimations extracts every animation that targets at least one mapped joint.
	//
	// Parameters:
	//   - nodeToJoint: maps glTF node index to skeleton joint index
	//
	// Returns:
	//   - []*animation.Clip: the extracted clips in document order
	//   - error: error if extraction fails
	ExtractAnimations(nodeToJoint map[uint32]uint32) ([]*animation.Clip, error)
}

var _ gltfAnimationExtractor = &gltfAnimationExtractorImpl{}

// newGLTFAnimationExtractor creates a new animation extractor for a parsed document.
//
// Parameters:
//   - parser: the parser containing a loaded document
//
// Returns:
//   - gltfAnimationExtractor: the animation extractor
func newGLTFAnimationExtractor(parser gltfParser) gltfAnimationExtractor {
	return &gltfAnimationExtractorImpl{parser: parser}
}

func (e *gltfAnimationExtractorImpl) ExtractAnimation(animIndex int, nodeToJoint map[uint32]uint32) (*animation.Clip, error) {
	doc := e.parser.Document()
	if doc == nil {
		return nil, errors.New("no document loaded")
	}
	if animIndex < 0 || animIndex >= len(doc.Animations) || doc.Animations[animIndex] == nil {
		return nil, errors.Errorf("animation index %d out of range", animIndex)
	}
	anim := doc.Animations[animIndex]

	name := anim.Name
	if name == "" {
		name = fmt.Sprintf("animation_%d", animIndex)
	}

	// Channels for the same joint arrive separately per path; merge them by joint.
	tracks := make(map[uint32]*animation.TransformTrack)
	skipped := 0

	for i, ch := range anim.Channels {
		if ch == nil || ch.Target.Node == nil || ch.Target.Path == gltf.TRSWeights {
			skipped++
			continue
		}
		joint, ok := nodeToJoint[*ch.Target.Node]
		if !ok {
			skipped++
			continue
		}
		if ch.Sampler == nil || int(*ch.Sampler) >= len(anim.Samplers) || anim.Samplers[*ch.Sampler] == nil {
			return nil, errors.Errorf("animation %q channel %d: invalid sampler", name, i)
		}
		sampler := anim.Samplers[*ch.Sampler]
		if sampler.Input == nil || sampler.Output == nil {
			return nil, errors.Errorf("animation %q channel %d: sampler without input or output", name, i)
		}

		times, err := e.parser.ReadScalarAccessor(*sampler.Input)
		if err != nil {
			return nil, errors.Wrapf(err, "animation %q channel %d: timestamps", name, i)
		}

		tt, exists := tracks[joint]
		if !exists {
			tt = animation.NewTransformTrack(joint)
			tracks[joint] = tt
		}

		interp, tangents := gltfInterpolation(sampler.Interpolation)

		switch ch.Target.Path {
		case gltf.TRSTranslation, gltf.TRSScale:
			values, err := e.parser.ReadVec3Accessor(*sampler.Output)
			if err != nil {
				return nil, errors.Wrapf(err, "animation %q channel %d: vector values", name, i)
			}
			track := animation.VectorTrack{Interpolation: interp, Tangents: tangents}
			track.Frames = gltfKeyframes(times, values, tangents, func(v [3]float32) mgl32.Vec3 { return v })
			if ch.Target.Path == gltf.TRSTranslation {
				tt.Position = track
			} else {
				tt.Scaling = track
			}

		case gltf.TRSRotation:
			values, err := e.parser.ReadVec4Accessor(*sampler.Output)
			if err != nil {
				return nil, errors.Wrapf(err, "animation %q channel %d: rotation values", name, i)
			}
			track := animation.QuaternionTrack{Interpolation: interp, Tangents: tangents}
			track.Frames = gltfKeyframes(times, values, tangents, gltfQuat)
			tt.Rotation = track

		default:
			skipped++
		}
	}

	if skipped > 0 {
		log.Printf("[Loader] animation %q: skipped %d channel(s) outside the skeleton or unsupported", name, skipped)
	}

	joints := make([]uint32, 0, len(tracks))
	for j := range tracks {
		joints = append(joints, j)
	}
	sort.Slice(joints, func(a, b int) bool { return joints[a] < joints[b] })

	clip := animation.NewClip(name)
	for _, j := range joints {
		clip.Tracks = append(clip.Tracks, tracks[j])
	}
	clip.RecalculateDuration()
	return clip, nil
}

func (e *gltfAnimationExtractorImpl) ExtractAnimations(nodeToJoint map[uint32]uint32) ([]*animation.Clip, error) {
	doc := e.parser.Document()
	if doc == nil {
		return nil, errors.New("no document loaded")
	}

	var clips []*animation.Clip
	for animIdx, anim := range doc.Animations {
		if anim == nil || !gltfTargetsJoint(anim, nodeToJoint) {
			continue
		}
		clip, err := e.ExtractAnimation(animIdx, nodeToJoint)
		if err != nil {
			return nil, errors.Wrapf(err, "animation %d", animIdx)
		}
		clips = append(clips, clip)
	}
	return clips, nil
}

// --- Helper Functions ---

// gltfTargetsJoint reports whether any channel of anim animates a mapped joint.
func gltfTargetsJoint(anim *gltf.Animation, nodeToJoint map[uint32]uint32) bool {
	for _, ch := range anim.Channels {
		if ch == nil || ch.Target.Node == nil {
			continue
		}
		if _, ok := nodeToJoint[*ch.Target.Node]; ok {
			return true
		}
	}
	return false
}

// gltfKeyframes pairs sampler timestamps with output values. CUBICSPLINE outputs hold
// three elements per keyframe (in-tangent, value, out-tangent). When the output is shorter
// than the input the extra timestamps are dropped.
func gltfKeyframes[S any, T any](times []float32, values []S, tangents bool, conv func(S) T) []animation.Keyframe[T] {
	stride := 1
	if tangents {
		stride = 3
	}
	n := min(len(times), len(values)/stride)
	if n < len(times) {
		log.Printf("[Loader] sampler has %d timestamps but only %d values", len(times), n)
	}
	frames := make([]animation.Keyframe[T], n)
	for k := range frames {
		frames[k].Time = times[k]
		if tangents {
			frames[k].In = conv(values[3*k])
			frames[k].Value = conv(values[3*k+1])
			frames[k].Out = conv(values[3*k+2])
		} else {
			frames[k].Value = conv(values[k])
		}
	}
	return frames
}
