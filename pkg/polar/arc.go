package polar

import (
	"iter"
	"math"
)

// Arc describes a discretized arc about Center starting at Start. The end is
// given either as an explicit End point or as a relative Sweep angle, and the
// sampling density either as an explicit Steps count or as an angular
// Resolution. The radius is interpolated linearly from the start radius to
// the end radius across the run, so an arc between points at different radii
// comes out as a spiral segment rather than a circle.
type Arc struct {
	Center Point
	Start  Point

	// End is the explicit arc endpoint. When nil, Sweep is used instead.
	End *Point
	// Sweep is the relative end angle, used only when End is nil.
	Sweep float64

	// Steps is the number of segments. When 0 it is derived from Resolution
	// as ceil(|Δangle| / Resolution), floored at 1.
	Steps int
	// Resolution is the angular step used to derive Steps.
	Resolution float64

	// Excess symmetrically extends both ends of the angular run outward
	// before interpolation. Used to guarantee overlap where two fill
	// outlines must meet without a gap.
	Excess float64

	// IncludeStart emits the i=0 sample as well. Off by default because
	// track emission seeds the chain with the start point itself.
	IncludeStart bool
}

// Between returns an arc from start to end about center, sampled at the given
// angular resolution.
func Between(center, start, end Point, resolution float64) Arc {
	return Arc{Center: center, Start: start, End: &end, Resolution: resolution}
}

// Sweep returns an arc from start spanning the relative angle sweep about
// center, sampled at the given angular resolution.
func Sweep(center, start Point, sweep, resolution float64) Arc {
	return Arc{Center: center, Start: start, Sweep: sweep, Resolution: resolution}
}

// angles resolves the angular run and radii of the arc, applying the
// shorter-arc rule and the excess extension.
func (a Arc) angles() (startAngle, endAngle, startR, endR float64) {
	startAngle, startR = ToPolar(a.Center, a.Start)
	if a.End != nil {
		endAngle, endR = ToPolar(a.Center, *a.End)
	} else {
		endAngle, endR = startAngle+a.Sweep, startR
	}

	// Take the arc under 180 degrees. When the raw difference exceeds π the
	// endpoints straddle the 0/2π seam and the larger angle is wrapped back.
	if math.Abs(endAngle-startAngle) > math.Pi {
		if startAngle < endAngle {
			endAngle -= 2 * math.Pi
		} else {
			startAngle -= 2 * math.Pi
		}
	}

	if a.Excess != 0 {
		if startAngle <= endAngle {
			startAngle -= a.Excess
			endAngle += a.Excess
		} else {
			startAngle += a.Excess
			endAngle -= a.Excess
		}
	}
	return startAngle, endAngle, startR, endR
}

// steps resolves the sample count, deriving it from Resolution when no
// explicit count is set.
func (a Arc) steps(startAngle, endAngle float64) int {
	n := a.Steps
	if n == 0 && a.Resolution != 0 {
		n = int(math.Ceil(math.Abs(endAngle-startAngle) / a.Resolution))
	}
	if n < 1 {
		n = 1
	}
	return n
}

// Points returns the arc samples as a lazy sequence. The sequence is finite
// and restartable; iterating it twice yields the same points.
func (a Arc) Points() iter.Seq[Point] {
	return func(yield func(Point) bool) {
		startAngle, endAngle, startR, endR := a.angles()
		n := a.steps(startAngle, endAngle)
		for i := 0; i <= n; i++ {
			if i == 0 && !a.IncludeStart {
				continue
			}
			frac := float64(i) / float64(n)
			angle := startAngle + frac*(endAngle-startAngle)
			r := startR + frac*(endR-startR)
			if !yield(ToCartesian(a.Center, angle, r)) {
				return
			}
		}
	}
}
