package board

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"LocalBoard/internal/apperr"
)

// CameraConfig bounds the zoom and sets the wheel zoom factor.
type CameraConfig struct {
	MinZoom  float64 `yaml:"min_zoom"`
	MaxZoom  float64 `yaml:"max_zoom"`
	ZoomStep float64 `yaml:"zoom_step"`
}

// DefaultCameraConfig returns the camera defaults.
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{MinZoom: 0.1, MaxZoom: 10, ZoomStep: 1.1}
}

// Validate validates the camera configuration.
func (c *CameraConfig) Validate() error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.MinZoom, validation.Required, validation.Min(0.0)),
		validation.Field(&c.MaxZoom, validation.Required, validation.Min(c.MinZoom)),
		validation.Field(&c.ZoomStep, validation.Required, validation.Min(1.0)),
	)
	if err != nil {
		return fmt.Errorf("camera: %v: %w", err, apperr.ErrInvalidConfig)
	}
	return nil
}
