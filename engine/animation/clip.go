package animation

import (
	"log"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/Carmen-Shannon/oxy-anim/engine/skeleton"
	"github.com/pkg/errors"
)

// Clip is a named animation sequence built from per-joint TransformTracks.
//
// The clip's duration is derived from its tracks and is only refreshed by
// RecalculateDuration (AddTrack calls it for you). Callers that edit Tracks directly
// must recalculate before the next playback.
//
// A Clip is read-only during playback and may be sampled from many goroutines at once,
// each writing into its own Pose.
type Clip struct {
	// Name identifies the clip, for example "Walk".
	Name string

	// Tracks holds one TransformTrack per animated joint.
	Tracks []*TransformTrack

	duration float32
	warned   atomic.Bool
}

// NewClip creates a Clip with the given name and applies the provided options.
// The duration is recalculated after all options run.
//
// Parameters:
//   - name: the clip name
//   - options: variadic list of ClipBuilderOption functions to configure the Clip
//
// Returns:
//   - *Clip: the new clip
func NewClip(name string, options ...ClipBuilderOption) *Clip {
	c := &Clip{Name: name}
	for _, opt := range options {
		opt(c)
	}
	c.RecalculateDuration()
	return c
}

// Duration returns the clip length in seconds as of the last RecalculateDuration.
func (c *Clip) Duration() float32 {
	return c.duration
}

// RecalculateDuration sets the duration to the latest keyframe time over every channel
// of every track, or 0 when the clip holds no keyframes.
//
// Returns:
//   - float32: the new duration
func (c *Clip) RecalculateDuration() float32 {
	var d float32
	for _, t := range c.Tracks {
		if t == nil {
			continue
		}
		d = max(d, t.EndTime())
	}
	c.duration = d
	return d
}

// AddTrack appends a track and refreshes the duration.
//
// Parameters:
//   - track: the track to append
func (c *Clip) AddTrack(track *TransformTrack) {
	if track == nil {
		return
	}
	c.Tracks = append(c.Tracks, track)
	c.RecalculateDuration()
}

// Track returns the track animating jointID, or nil if the clip does not animate it.
//
// Parameters:
//   - jointID: the joint index to look up
//
// Returns:
//   - *TransformTrack: the matching track or nil
func (c *Clip) Track(jointID uint32) *TransformTrack {
	for _, t := range c.Tracks {
		if t != nil && t.JointID == jointID {
			return t
		}
	}
	return nil
}

// TrackFor returns the track animating jointID, appending an empty one if none exists.
// The duration is not refreshed; call RecalculateDuration once the track is filled.
//
// Parameters:
//   - jointID: the joint index to look up
//
// Returns:
//   - *TransformTrack: the existing or newly created track
func (c *Clip) TrackFor(jointID uint32) *TransformTrack {
	if t := c.Track(jointID); t != nil {
		return t
	}
	t := NewTransformTrack(jointID)
	c.Tracks = append(c.Tracks, t)
	return t
}

// Sample writes the clip's transforms at time into pose. Time wraps into [0, duration)
// so playback loops seamlessly; one-shot playback must clamp time before calling.
// Joints without a track keep whatever pose already holds.
//
// Tracks whose joint lies outside the pose are skipped. The first occurrence per clip
// is logged; Validate reports them as errors at load time.
//
// Parameters:
//   - pose: the pose to write into, normally a fresh copy of the rest pose
//   - time: the playback time in seconds
//
// Returns:
//   - float32: the wrapped time that was sampled
func (c *Clip) Sample(pose *skeleton.Pose, time float32) float32 {
	time = common.WrapTime(time, c.duration)
	c.sampleAt(pose, time)
	return time
}

// SampleClamped is Sample for one-shot playback: the time is clamped to [0, Duration()]
// instead of wrapped, so the final keyframe holds once the clip has ended.
//
// Parameters:
//   - pose: the pose whose animated joints are overwritten
//   - time: the playback time in seconds
//
// Returns:
//   - float32: the clamped time that was sampled
func (c *Clip) SampleClamped(pose *skeleton.Pose, time float32) float32 {
	time = common.Clamp(common.FiniteOr(time, 0), 0, c.duration)
	c.sampleAt(pose, time)
	return time
}

func (c *Clip) sampleAt(pose *skeleton.Pose, time float32) {
	if pose == nil {
		return
	}
	n := uint32(len(pose.Joints))
	for _, t := range c.Tracks {
		if t == nil {
			continue
		}
		if t.JointID >= n {
			if c.warned.CompareAndSwap(false, true) {
				log.Printf("[Clip] %q: track for joint %d skipped, pose has %d joints", c.Name, t.JointID, n)
			}
			continue
		}
		pose.Joints[t.JointID] = t.Sample(pose.Joints[t.JointID], time)
	}
}

// Validate checks the clip against a skeleton of jointCount joints: every track must
// target an existing joint, no joint may have two tracks, and all keyframes must be
// finite and ascending.
//
// Parameters:
//   - jointCount: the number of joints in the target skeleton
//
// Returns:
//   - error: nil if the clip is safe to sample
func (c *Clip) Validate(jointCount int) error {
	seen := make(map[uint32]struct{}, len(c.Tracks))
	for _, t := range c.Tracks {
		if t == nil {
			continue
		}
		if int64(t.JointID) >= int64(jointCount) {
			return errors.Wrapf(ErrJointOutOfRange, "clip %q: joint %d, skeleton has %d", c.Name, t.JointID, jointCount)
		}
		if _, dup := seen[t.JointID]; dup {
			return errors.Wrapf(ErrDuplicateTrack, "clip %q: joint %d", c.Name, t.JointID)
		}
		seen[t.JointID] = struct{}{}
		if err := t.Validate(); err != nil {
			return errors.Wrapf(err, "clip %q", c.Name)
		}
	}
	return nil
}
