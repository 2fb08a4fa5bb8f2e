package animation

// ClipBuilderOption is a functional option for configuring a Clip during construction.
type ClipBuilderOption func(*Clip)

// WithTracks is an option builder that appends the given tracks to the Clip.
//
// Parameters:
//   - tracks: the tracks to append
//
// Returns:
//   - ClipBuilderOption: a function that applies the tracks option to a clip
func WithTracks(tracks ...*TransformTrack) ClipBuilderOption {
	return func(c *Clip) {
		for _, t := range tracks {
			if t != nil {
				c.Tracks = append(c.Tracks, t)
			}
		}
	}
}

// WithInterpolation is an option builder that sets one interpolation mode on every
// channel of the tracks already added to the Clip. Place it after WithTracks.
//
// Parameters:
//   - interpolation: the interpolation mode to apply
//
// Returns:
//   - ClipBuilderOption: a function that applies the interpolation option to a clip
func WithInterpolation(interpolation Interpolation) ClipBuilderOption {
	return func(c *Clip) {
		for _, t := range c.Tracks {
			if t != nil {
				t.SetInterpolation(interpolation)
			}
		}
	}
}
