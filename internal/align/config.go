package align

import (
	"encoding/json"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"LocalBoard/internal/apperr"
)

// Modifier names accepted in configuration.
var modifierNames = []any{"", "shift", "ctrl", "alt"}

// Config is the process-wide alignment configuration. Thresholds are in
// screen pixels; the controller converts them to world units per frame.
type Config struct {
	Enabled             bool    `yaml:"enabled"`
	SnapThreshold       float64 `yaml:"snap_threshold"`
	StrongSnapThreshold float64 `yaml:"strong_snap_threshold"`
	ShowGuides          bool    `yaml:"show_guides"`
	StrongSnapModifier  string  `yaml:"strong_snap_modifier"`
	DisableModifier     string  `yaml:"disable_modifier"`
}

// DefaultConfig returns the alignment defaults.
func DefaultConfig() Config {
	return Config{
		Enabled:             true,
		SnapThreshold:       5,
		StrongSnapThreshold: 10,
		ShowGuides:          true,
		StrongSnapModifier:  "ctrl",
		DisableModifier:     "alt",
	}
}

// Validate validates the alignment configuration.
func (c *Config) Validate() error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.SnapThreshold, validation.Min(0.0)),
		validation.Field(&c.StrongSnapThreshold, validation.Min(0.0)),
		validation.Field(&c.StrongSnapModifier, validation.In(modifierNames...)),
		validation.Field(&c.DisableModifier, validation.In(modifierNames...)),
	)
	if err != nil {
		return fmt.Errorf("alignment: %v: %w", err, apperr.ErrInvalidConfig)
	}
	return nil
}

// Options are the per-request alignment settings.
type Options struct {
	SnapEnabled         bool     `json:"snapEnabled"`
	SnapThreshold       float64  `json:"snapThreshold"`
	StrongSnapThreshold float64  `json:"strongSnapThreshold"`
	IsStrongSnap        bool     `json:"isStrongSnap"`
	ExcludeShapeIDs     []string `json:"excludeShapeIds"`
}

// DefaultOptions returns options with snapping on and the default thresholds.
func DefaultOptions() Options {
	d := DefaultConfig()
	return Options{
		SnapEnabled:         true,
		SnapThreshold:       d.SnapThreshold,
		StrongSnapThreshold: d.StrongSnapThreshold,
	}
}

// Validate rejects negative thresholds.
func (o *Options) Validate() error {
	err := validation.ValidateStruct(o,
		validation.Field(&o.SnapThreshold, validation.Min(0.0)),
		validation.Field(&o.StrongSnapThreshold, validation.Min(0.0)),
	)
	if err != nil {
		return fmt.Errorf("alignment options: %v: %w", err, apperr.ErrInvalidConfig)
	}
	return nil
}

// OptionsFromMap builds options from loosely typed input such as a decoded
// JSON object. Recognised keys are snapEnabled, snapThreshold,
// strongSnapThreshold, isStrongSnap and excludeShapeIds; unknown keys are
// ignored and missing keys keep the defaults.
func OptionsFromMap(m map[string]any) (Options, error) {
	o := DefaultOptions()
	for key, v := range m {
		var err error
		switch key {
		case "snapEnabled":
			o.SnapEnabled, err = asBool(key, v)
		case "isStrongSnap":
			o.IsStrongSnap, err = asBool(key, v)
		case "snapThreshold":
			o.SnapThreshold, err = asFloat(key, v)
		case "strongSnapThreshold":
			o.StrongSnapThreshold, err = asFloat(key, v)
		case "excludeShapeIds":
			o.ExcludeShapeIDs, err = asStrings(key, v)
		}
		if err != nil {
			return Options{}, err
		}
	}
	if err := o.Validate(); err != nil {
		return Options{}, err
	}
	return o, nil
}

func badType(key string, v any) error {
	return fmt.Errorf("alignment option %s: unexpected %T: %w", key, v, apperr.ErrInvalidConfig)
}

func asBool(key string, v any) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, badType(key, v)
	}
	return b, nil
}

func asFloat(key string, v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, badType(key, v)
		}
		return f, nil
	}
	return 0, badType(key, v)
}

func asStrings(key string, v any) ([]string, error) {
	switch list := v.(type) {
	case []string:
		return append([]string(nil), list...), nil
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, badType(key, item)
			}
			out = append(out, s)
		}
		return out, nil
	}
	return nil, badType(key, v)
}
