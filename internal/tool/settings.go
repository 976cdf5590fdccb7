package tool

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"LocalBoard/internal/apperr"
	"LocalBoard/internal/shape"
)

// Settings are the tool parameters. HandleSize and HitTolerance are
// configured in screen pixels; see Scaled.
type Settings struct {
	MinArea      float64     `yaml:"min_area"`
	MinLength    float64     `yaml:"min_length"`
	HandleSize   float64     `yaml:"handle_size"`
	HitTolerance float64     `yaml:"hit_tolerance"`
	Style        shape.Style `yaml:"style"`
	Opacity      float64     `yaml:"opacity"`
	Text         string      `yaml:"text"`
	FontSize     float64     `yaml:"font_size"`
	FontFamily   string      `yaml:"font_family"`
}

// DefaultSettings returns the tool defaults.
func DefaultSettings() Settings {
	return Settings{
		MinArea:      4,
		MinLength:    2,
		HandleSize:   8,
		HitTolerance: 4,
		Style:        shape.Style{Stroke: "#1e1e1e", StrokeWidth: 2},
		Opacity:      1,
		Text:         "Text",
		FontSize:     16,
		FontFamily:   "sans-serif",
	}
}

// Validate validates the tool settings.
func (s *Settings) Validate() error {
	err := validation.ValidateStruct(s,
		validation.Field(&s.MinArea, validation.Min(0.0)),
		validation.Field(&s.MinLength, validation.Min(0.0)),
		validation.Field(&s.HandleSize, validation.Min(0.0)),
		validation.Field(&s.HitTolerance, validation.Min(0.0)),
		validation.Field(&s.Opacity, validation.Min(0.0), validation.Max(1.0)),
		validation.Field(&s.Text, validation.Required),
		validation.Field(&s.FontSize, validation.Required, validation.Min(0.0)),
	)
	if err != nil {
		return fmt.Errorf("tools: %v: %w", err, apperr.ErrInvalidConfig)
	}
	return nil
}

// Scaled returns s with the screen-pixel distances converted to world units
// at the given zoom.
func (s Settings) Scaled(zoom float64) Settings {
	if zoom > 0 {
		s.HandleSize /= zoom
		s.HitTolerance /= zoom
	}
	return s
}

func (s Settings) base(kind shape.Kind) shape.Shape {
	return shape.Shape{Kind: kind, Opacity: s.Opacity, Style: s.Style}
}
