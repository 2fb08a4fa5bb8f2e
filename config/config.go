// Package config loads the headless driver configuration from TOML or YAML files.
package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported config format")
	ErrInvalidConfig     = errors.New("invalid config")
)

// Config describes one headless animation run.
type Config struct {
	// Asset is the glTF/GLB file to load. Empty selects the built-in demo rig.
	Asset string `toml:"asset" yaml:"asset"`
	// Clip names the clip every instance plays. Empty selects the model's first clip.
	Clip string `toml:"clip" yaml:"clip"`
	// Skin selects the glTF skin; -1 picks the first skin referenced by a mesh.
	Skin int `toml:"skin" yaml:"skin"`

	Instances int     `toml:"instances" yaml:"instances"`
	TickRate  float64 `toml:"tick_rate" yaml:"tick_rate"`
	// Frames is the number of ticks to run. Zero derives it from Duration.
	Frames   int     `toml:"frames" yaml:"frames"`
	Duration float64 `toml:"duration" yaml:"duration"`
	Speed    float32 `toml:"speed" yaml:"speed"`
	Loop     bool    `toml:"loop" yaml:"loop"`

	// BlendTo cross-fades every instance to this clip after BlendAfter seconds.
	BlendTo      string  `toml:"blend_to" yaml:"blend_to"`
	BlendAfter   float64 `toml:"blend_after" yaml:"blend_after"`
	BlendSeconds float32 `toml:"blend_seconds" yaml:"blend_seconds"`

	Workers              int  `toml:"workers" yaml:"workers"`
	InstancesPerAnimator int  `toml:"instances_per_animator" yaml:"instances_per_animator"`
	FixedStep            bool `toml:"fixed_step" yaml:"fixed_step"`
	Profiling            bool `toml:"profiling" yaml:"profiling"`
}

// Default returns the configuration used when no file is given.
//
// Returns:
//   - Config: the default configuration
func Default() Config {
	return Config{
		Skin:                 -1,
		Instances:            64,
		TickRate:             60,
		Duration:             5,
		Speed:                1,
		Loop:                 true,
		BlendSeconds:         0.25,
		Workers:              4,
		InstancesPerAnimator: 200,
		FixedStep:            true,
	}
}

// Load reads the configuration at path, choosing the decoder from the file extension.
// Fields missing from the file keep their Default values.
//
// Parameters:
//   - path: a .toml, .yaml or .yml file
//
// Returns:
//   - Config: the decoded and validated configuration
//   - error: error if the file cannot be read, decoded or validated
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "opening config %s", path)
	}
	defer f.Close()

	cfg, err := Decode(f, filepath.Ext(path))
	if err != nil {
		return Config{}, errors.Wrapf(err, "loading config %s", path)
	}
	return cfg, nil
}

// Decode reads a configuration from r in the format named by ext.
//
// Parameters:
//   - r: the encoded configuration
//   - ext: the format extension (".toml", ".yaml" or ".yml")
//
// Returns:
//   - Config: the decoded and validated configuration
//   - error: error if the format is unknown or the data is invalid
func Decode(r io.Reader, ext string) (Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Config{}, errors.Wrap(err, "reading config")
	}

	cfg := Default()
	switch strings.ToLower(ext) {
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&cfg)
	case ".yaml", ".yml":
		if len(bytes.TrimSpace(data)) == 0 {
			break
		}
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(&cfg)
	default:
		return Config{}, errors.Wrapf(ErrUnsupportedFormat, "extension %q", ext)
	}
	if err != nil {
		return Config{}, errors.Wrap(err, "decoding config")
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects negative counts, rates and durations.
//
// Returns:
//   - error: ErrInvalidConfig wrapped with the offending field, or nil
func (c Config) Validate() error {
	switch {
	case c.Instances < 0:
		return errors.Wrapf(ErrInvalidConfig, "instances %d is negative", c.Instances)
	case c.TickRate < 0:
		return errors.Wrapf(ErrInvalidConfig, "tick_rate %g is negative", c.TickRate)
	case c.Frames < 0:
		return errors.Wrapf(ErrInvalidConfig, "frames %d is negative", c.Frames)
	case c.Duration < 0:
		return errors.Wrapf(ErrInvalidConfig, "duration %g is negative", c.Duration)
	case c.Speed < 0:
		return errors.Wrapf(ErrInvalidConfig, "speed %g is negative", c.Speed)
	case c.BlendAfter < 0:
		return errors.Wrapf(ErrInvalidConfig, "blend_after %g is negative", c.BlendAfter)
	case c.BlendSeconds < 0:
		return errors.Wrapf(ErrInvalidConfig, "blend_seconds %g is negative", c.BlendSeconds)
	case c.Workers < 0:
		return errors.Wrapf(ErrInvalidConfig, "workers %d is negative", c.Workers)
	case c.InstancesPerAnimator < 0:
		return errors.Wrapf(ErrInvalidConfig, "instances_per_animator %d is negative", c.InstancesPerAnimator)
	case c.Skin < -1:
		return errors.Wrapf(ErrInvalidConfig, "skin %d is below -1", c.Skin)
	}
	return nil
}

// TotalFrames returns the number of ticks the run should last.
// Frames wins when set; otherwise Duration is converted at TickRate.
//
// Returns:
//   - int: the tick count, zero meaning run until stopped
func (c Config) TotalFrames() int {
	if c.Frames > 0 {
		return c.Frames
	}
	rate := c.TickRate
	if rate <= 0 {
		rate = 60
	}
	return int(c.Duration*rate + 0.5)
}
