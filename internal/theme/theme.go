// Package theme defines the serializable theme descriptor and its
// merge and persistence forms.
package theme

import (
	"fmt"
	"math"
)

// Field names accepted by Descriptor.Field and Update merges.
const (
	FieldHue        = "hue"
	FieldSaturation = "saturation"
	FieldLightness  = "lightness"
	FieldAlpha      = "alpha"
	FieldLightText  = "lightText"
)

// Descriptor is the complete theme state. Every rendered color is
// derived from these five fields; nothing else is persisted.
type Descriptor struct {
	// Hue in degrees, conventionally kept in [0,360).
	Hue float64 `json:"hue"`

	// Saturation as a percentage in [0,100].
	Saturation float64 `json:"saturation"`

	// Lightness as a percentage in [0,100].
	Lightness float64 `json:"lightness"`

	// Alpha is the opacity of themed surfaces, in [0,1].
	Alpha float64 `json:"alpha"`

	// LightText forces a light primary text color regardless of
	// computed contrast. It applies to the primary surface only.
	LightText bool `json:"lightText"`
}

// Default returns the compiled-in descriptor used when no persisted
// state exists or after a reset.
func Default() Descriptor {
	return Descriptor{
		Hue:        210,
		Saturation: 41.18,
		Lightness:  93.33,
		Alpha:      0.8,
		LightText:  false,
	}
}

// Update is a partial descriptor change. Nil fields are left untouched
// by Merge.
type Update struct {
	Hue        *float64 `json:"hue,omitempty"`
	Saturation *float64 `json:"saturation,omitempty"`
	Lightness  *float64 `json:"lightness,omitempty"`
	Alpha      *float64 `json:"alpha,omitempty"`
	LightText  *bool    `json:"lightText,omitempty"`
}

// Merge applies the update's set fields onto the descriptor, shallow
// field replace. Unset fields keep their prior values.
func (d *Descriptor) Merge(u Update) {
	if u.Hue != nil {
		d.Hue = *u.Hue
	}
	if u.Saturation != nil {
		d.Saturation = *u.Saturation
	}
	if u.Lightness != nil {
		d.Lightness = *u.Lightness
	}
	if u.Alpha != nil {
		d.Alpha = *u.Alpha
	}
	if u.LightText != nil {
		d.LightText = *u.LightText
	}
}

// Field returns a single descriptor field by name.
func (d Descriptor) Field(name string) (any, error) {
	switch name {
	case FieldHue:
		return d.Hue, nil
	case FieldSaturation:
		return d.Saturation, nil
	case FieldLightness:
		return d.Lightness, nil
	case FieldAlpha:
		return d.Alpha, nil
	case FieldLightText:
		return d.LightText, nil
	default:
		return nil, fmt.Errorf("unknown theme field %q", name)
	}
}

// Normalize wraps the hue into [0,360) and clamps the remaining numeric
// fields into their valid ranges.
func (d *Descriptor) Normalize() {
	d.Hue = math.Mod(d.Hue, 360)
	if d.Hue < 0 {
		d.Hue += 360
	}
	d.Saturation = clamp(d.Saturation, 0, 100)
	d.Lightness = clamp(d.Lightness, 0, 100)
	d.Alpha = clamp(d.Alpha, 0, 1)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Record is the persisted envelope: the descriptor nests under a
// "colors" key so the settings file stays forward-compatible with
// other sections.
type Record struct {
	Colors Update `json:"colors"`
}

// NewRecord builds a record carrying every field of the descriptor,
// the form written back to the store.
func NewRecord(d Descriptor) Record {
	return Record{Colors: Update{
		Hue:        &d.Hue,
		Saturation: &d.Saturation,
		Lightness:  &d.Lightness,
		Alpha:      &d.Alpha,
		LightText:  &d.LightText,
	}}
}
