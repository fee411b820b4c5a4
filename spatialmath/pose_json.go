package spatialmath

import (
	"github.com/golang/geo/r3"
)

// TranslationConfig specifies a distance to translate along each axis, for configs and snapshots.
type TranslationConfig struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// PoseConfig is the JSON form of a Pose, a translation paired with roll, pitch and yaw.
type PoseConfig struct {
	Translation TranslationConfig `json:"translation"`
	Orientation *EulerAngles      `json:"orientation,omitempty"`
}

// NewTranslationConfig creates a config from an r3.Vector.
func NewTranslationConfig(t r3.Vector) TranslationConfig {
	return TranslationConfig{X: t.X, Y: t.Y, Z: t.Z}
}

// ParseConfig converts a TranslationConfig into an r3.Vector.
func (cfg TranslationConfig) ParseConfig() r3.Vector {
	return r3.Vector{X: cfg.X, Y: cfg.Y, Z: cfg.Z}
}

// NewPoseConfig creates a config describing the given pose.
func NewPoseConfig(p Pose) *PoseConfig {
	return &PoseConfig{
		Translation: NewTranslationConfig(p.Point()),
		Orientation: p.Orientation().EulerAngles(),
	}
}

// ParseConfig converts a PoseConfig into a Pose.
func (cfg *PoseConfig) ParseConfig() Pose {
	var o Orientation = NewZeroOrientation()
	if cfg.Orientation != nil {
		o = cfg.Orientation
	}
	return NewPose(cfg.Translation.ParseConfig(), o)
}
