// Package illum places and routes circular LED-driver boards: N driver lines
// (one resistor plus a fixed number of LEDs each) evenly spaced on a ring,
// connected by arc tracks, copper-fill strips, and offset ring buses for
// power and ground, with an optional power pin header and driving transistor
// pair on the ring diameter.
package illum

import (
	"fmt"
	"math"
	"os"

	"github.com/BurntSushi/toml"
)

// Options is the flat set of knobs controlling placement and routing. Every
// field is independently overridable; zero values that make no sense fall
// back to derived defaults where noted.
type Options struct {
	// NLines is the number of LED driver lines (= number of resistors).
	NLines int `toml:"n_lines"`
	// NLEDsPerLine is the number of LEDs on each driver line.
	NLEDsPerLine int `toml:"n_leds_per_line"`
	// RadiusMM is the radius of the circle the component centers sit on.
	RadiusMM float64 `toml:"radius_mm"`
	// CenterXMM, CenterYMM locate the ring center on the board.
	CenterXMM float64 `toml:"center_x_mm"`
	CenterYMM float64 `toml:"center_y_mm"`
	// RotationRad is the angular offset of the whole design.
	RotationRad float64 `toml:"rotation_rad"`

	// LEDOrientationRad and ResistorOrientationRad are extra orientation
	// offsets applied on top of the tangent rotation of each element type.
	LEDOrientationRad      float64 `toml:"led_orientation_rad"`
	ResistorOrientationRad float64 `toml:"resistor_orientation_rad"`

	// AngularResolutionRad is the angular step used to discretize arcs.
	AngularResolutionRad float64 `toml:"angular_resolution_rad"`

	// PowerRingOnFront and GroundRingOnFront pick the copper layer of the
	// two ring buses.
	PowerRingOnFront  bool `toml:"power_ring_on_front"`
	GroundRingOnFront bool `toml:"ground_ring_on_front"`
	// PowerRingDisplacementMM and GroundRingDisplacementMM are the signed
	// radial offsets of the two ring buses from the component ring.
	PowerRingDisplacementMM  float64 `toml:"power_ring_displacement_mm"`
	GroundRingDisplacementMM float64 `toml:"ground_ring_displacement_mm"`

	// RingOverhangRad is the extra angular travel from a terminal toward its
	// component before turning radially onto a bus. 0 derives a third of the
	// angular pitch between modules.
	RingOverhangRad float64 `toml:"ring_overhang_rad"`

	// LEDFillWidthMM routes LED strips as copper fills of this width instead
	// of bare tracks when positive.
	LEDFillWidthMM float64 `toml:"led_fill_width_mm"`
	// TrackWidthMM is the width of every emitted track segment and via.
	TrackWidthMM float64 `toml:"track_width_mm"`

	// Component naming. A reference starting with LEDPrefix is an LED,
	// ResistorPrefix a resistor; PinName and TransistorName identify the
	// singleton auxiliary pair.
	LEDPrefix      string `toml:"led_prefix"`
	ResistorPrefix string `toml:"resistor_prefix"`
	PinName        string `toml:"pin_name"`
	TransistorName string `toml:"transistor_name"`

	// Fixed orientations of the auxiliary pair, radians.
	PinOrientationRad        float64 `toml:"pin_orientation_rad"`
	TransistorOrientationRad float64 `toml:"transistor_orientation_rad"`
}

// Defaults returns the options of the reference design: 3 lines of 3 LEDs on
// a 30 mm ring around (100, 100).
func Defaults() Options {
	return Options{
		NLines:                   3,
		NLEDsPerLine:             3,
		RadiusMM:                 30,
		CenterXMM:                100,
		CenterYMM:                100,
		RotationRad:              -math.Pi / 12,
		LEDOrientationRad:        math.Pi,
		ResistorOrientationRad:   0,
		AngularResolutionRad:     math.Pi / 40,
		PowerRingOnFront:         true,
		GroundRingOnFront:        true,
		PowerRingDisplacementMM:  -4,
		GroundRingDisplacementMM: 4,
		LEDFillWidthMM:           4,
		TrackWidthMM:             1,
		LEDPrefix:                "LED",
		ResistorPrefix:           "R",
		PinName:                  "J0",
		TransistorName:           "Q0",
	}
}

// LoadOptions reads a TOML options file over the defaults, so a file only
// needs to name the fields it changes.
func LoadOptions(path string) (Options, error) {
	opts := Defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		return opts, fmt.Errorf("failed to read options file: %w", err)
	}
	if err := toml.Unmarshal(data, &opts); err != nil {
		return opts, fmt.Errorf("failed to parse options file %s: %w", path, err)
	}
	return opts, nil
}

// elementCount is the total number of ring elements.
func (o Options) elementCount() int {
	return o.NLines * (1 + o.NLEDsPerLine)
}

// pitch is the angular distance between adjacent ring elements.
func (o Options) pitch() float64 {
	return 2 * math.Pi / float64(o.elementCount())
}

// overhang resolves the ring overhang angle, deriving it from the pitch when
// not set explicitly.
func (o Options) overhang() float64 {
	if o.RingOverhangRad != 0 {
		return o.RingOverhangRad
	}
	return o.pitch() / 3
}

// fillOverhang is the extra angular travel of the overhang fill regions.
// It distributes the angular pitch left over after the track overhangs so
// that neighbouring fills approach each other up to the clearance dictated
// by the inner bus displacement and the track/fill widths.
func (o Options) fillOverhang() float64 {
	residual := o.pitch() - 2*o.overhang()
	minDisp := math.Min(o.PowerRingDisplacementMM, o.GroundRingDisplacementMM)
	target := 2 * math.Asin((-minDisp-o.LEDFillWidthMM/2-o.TrackWidthMM/2)/(2*o.RadiusMM))
	return (residual - target) / 2
}

// resistorName returns the deterministic reference of the line's resistor.
func (o Options) resistorName(line int) string {
	return fmt.Sprintf("%s%d", o.ResistorPrefix, line)
}

// ledName returns the deterministic reference of a LED. LEDs are numbered
// consecutively across lines.
func (o Options) ledName(line, idx int) string {
	return fmt.Sprintf("%s%d", o.LEDPrefix, line*o.NLEDsPerLine+idx)
}
