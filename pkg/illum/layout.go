package illum

import (
	"iter"

	"github.com/ringlight-eda/ringlight/pkg/polar"
)

// Placement is one component's computed position, rotation, and role.
type Placement struct {
	Name  string
	Role  ComponentRole
	Place polar.Place
}

// Placements yields the evenly spaced ring placement for every driver-line
// component: for each line one resistor followed by its LEDs, walking
// clockwise from angle zero, one angular step per element. The sequence is
// finite and restartable.
func (o Options) Placements() iter.Seq[Placement] {
	center := polar.Point{X: o.CenterXMM, Y: o.CenterYMM}
	step := o.pitch()
	return func(yield func(Placement) bool) {
		angle := 0.0
		for line := 0; line < o.NLines; line++ {
			p := Placement{
				Name:  o.resistorName(line),
				Role:  ComponentRole{Kind: RoleResistor, Line: line},
				Place: o.placeAt(center, angle, o.ResistorOrientationRad),
			}
			if !yield(p) {
				return
			}
			angle -= step
			for idx := 0; idx < o.NLEDsPerLine; idx++ {
				p := Placement{
					Name:  o.ledName(line, idx),
					Role:  ComponentRole{Kind: RoleLED, Line: line, Index: idx},
					Place: o.placeAt(center, angle, o.LEDOrientationRad),
				}
				if !yield(p) {
					return
				}
				angle -= step
			}
		}
	}
}

// placeAt computes the placement of one ring element: position on the ring
// at the given angle (offset by the global design rotation), rotation
// tangent to the ring plus the element's own orientation offset.
func (o Options) placeAt(center polar.Point, angle, orientation float64) polar.Place {
	pos := polar.ToCartesian(center, angle+o.RotationRad, o.RadiusMM)
	return polar.Place{
		X:   pos.X,
		Y:   pos.Y,
		Rot: polar.Ortho(angle+o.RotationRad) + orientation,
	}
}
