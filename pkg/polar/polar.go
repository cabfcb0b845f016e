// Package polar provides the polar-coordinate math used to lay out and route
// circular boards: cartesian/polar conversion about an arbitrary center,
// radial and angular shifts, and lazy arc discretization.
//
// All coordinates are millimeters in the KiCad board plane (y grows
// downward). Angles are radians; ToPolar normalizes into [0, 2π).
package polar

import "math"

// Point is a 2D board coordinate in mm.
type Point struct {
	X float64
	Y float64
}

// Place is a position plus an orientation angle in radians.
type Place struct {
	X   float64
	Y   float64
	Rot float64
}

// Point returns the position part of the place.
func (p Place) Point() Point {
	return Point{X: p.X, Y: p.Y}
}

// Ortho returns the angle perpendicular to a, i.e. the tangent direction for
// a component sitting on a ring at radial angle a.
func Ortho(a float64) float64 {
	return a - math.Pi/2
}

// ToCartesian converts a polar coordinate about center into a point.
func ToCartesian(center Point, angle, radius float64) Point {
	return Point{
		X: center.X + radius*math.Cos(angle),
		Y: center.Y + radius*math.Sin(angle),
	}
}

// ToPolar converts p into polar coordinates about center. The returned angle
// is in [0, 2π), resolved from the sign of the y offset so all four quadrants
// map correctly (a bare acos would fold the lower half plane onto the upper).
func ToPolar(center, p Point) (angle, radius float64) {
	dx := p.X - center.X
	dy := p.Y - center.Y
	radius = math.Hypot(dx, dy)
	angle = math.Acos(dx / radius)
	if dy < 0 {
		angle = 2*math.Pi - angle
	}
	return angle, radius
}

// ShiftAlongRadius moves p directly away from center by delta (toward center
// when delta is negative). The direction is the ray from center through p.
func ShiftAlongRadius(center, p Point, delta float64) Point {
	dx := p.X - center.X
	dy := p.Y - center.Y
	scale := delta / math.Hypot(dx, dy)
	return Point{X: p.X + dx*scale, Y: p.Y + dy*scale}
}

// ShiftAlongArc rotates p about center by deltaAngle, preserving its radius.
func ShiftAlongArc(center, p Point, deltaAngle float64) Point {
	angle, radius := ToPolar(center, p)
	return ToCartesian(center, angle+deltaAngle, radius)
}
