package align

import (
	"encoding/json"
	"errors"
	"testing"

	"LocalBoard/internal/apperr"
)

func TestOptionsFromMapDefaults(t *testing.T) {
	o, err := OptionsFromMap(nil)
	if err != nil {
		t.Fatal(err)
	}
	if !o.SnapEnabled || o.SnapThreshold <= 0 || o.StrongSnapThreshold <= 0 {
		t.Errorf("defaults = %+v", o)
	}
}

func TestOptionsFromMapJSON(t *testing.T) {
	var m map[string]any
	raw := `{"snapThreshold": 3, "isStrongSnap": true, "excludeShapeIds": ["a", "b"], "colour": "red"}`
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		t.Fatal(err)
	}
	o, err := OptionsFromMap(m)
	if err != nil {
		t.Fatal(err)
	}
	if o.SnapThreshold != 3 || !o.IsStrongSnap || !o.SnapEnabled {
		t.Errorf("options = %+v", o)
	}
	if len(o.ExcludeShapeIDs) != 2 || o.ExcludeShapeIDs[1] != "b" {
		t.Errorf("exclude = %v", o.ExcludeShapeIDs)
	}
}

func TestOptionsFromMapRejects(t *testing.T) {
	tests := []map[string]any{
		{"snapThreshold": -1.0},
		{"strongSnapThreshold": -0.5},
		{"snapEnabled": "yes"},
		{"excludeShapeIds": []any{1, 2}},
	}
	for _, m := range tests {
		if _, err := OptionsFromMap(m); !errors.Is(err, apperr.ErrInvalidConfig) {
			t.Errorf("%v: err = %v", m, err)
		}
	}
}
