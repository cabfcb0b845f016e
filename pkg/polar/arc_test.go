package polar

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

func collect(a Arc) []Point {
	var pts []Point
	for p := range a.Points() {
		pts = append(pts, p)
	}
	return pts
}

func TestArcStepsFromResolution(t *testing.T) {
	center := Point{X: 0, Y: 0}
	start := ToCartesian(center, 0, 10)
	end := ToCartesian(center, math.Pi/2, 10)

	// 90 degrees at 4.5 degree resolution: 20 steps, start skipped.
	pts := collect(Between(center, start, end, math.Pi/40))
	if len(pts) != 20 {
		t.Fatalf("got %d points, want 20", len(pts))
	}

	// Explicit step count wins over resolution.
	arc := Between(center, start, end, math.Pi/40)
	arc.Steps = 4
	if got := len(collect(arc)); got != 4 {
		t.Errorf("explicit steps: got %d points, want 4", got)
	}

	// Tiny sweeps still produce at least one step.
	small := Sweep(center, start, 1e-6, math.Pi/40)
	if got := len(collect(small)); got != 1 {
		t.Errorf("minimum steps: got %d points, want 1", got)
	}
}

func TestArcEndpointExact(t *testing.T) {
	center := Point{X: 100, Y: 100}
	start := ToCartesian(center, math.Pi/7, 30)
	end := ToCartesian(center, 5*math.Pi/6, 42)

	pts := collect(Between(center, start, end, math.Pi/40))
	last := pts[len(pts)-1]
	if !scalar.EqualWithinAbs(last.X, end.X, 1e-9) || !scalar.EqualWithinAbs(last.Y, end.Y, 1e-9) {
		t.Errorf("last point %v, want end %v", last, end)
	}

	// Radius interpolates linearly between the endpoint radii.
	arc := Between(center, start, end, 0)
	arc.Steps = 2
	mid := collect(arc)[0]
	_, r := ToPolar(center, mid)
	if !scalar.EqualWithinAbs(r, 36, 1e-9) {
		t.Errorf("midpoint radius = %v, want 36", r)
	}

	// With IncludeStart the first sample is the exact start.
	arc = Between(center, start, end, math.Pi/40)
	arc.IncludeStart = true
	first := collect(arc)[0]
	if !scalar.EqualWithinAbs(first.X, start.X, 1e-9) || !scalar.EqualWithinAbs(first.Y, start.Y, 1e-9) {
		t.Errorf("first point %v, want start %v", first, start)
	}
}

func TestArcShortestPath(t *testing.T) {
	center := Point{X: 0, Y: 0}

	// Endpoints straddling the 0/2π seam: 350° to 10° must run through 0°,
	// a 20° arc, not the 340° way round.
	start := ToCartesian(center, 350*math.Pi/180, 10)
	end := ToCartesian(center, 10*math.Pi/180, 10)

	pts := collect(Between(center, start, end, math.Pi/180))
	if len(pts) < 19 || len(pts) > 21 {
		t.Fatalf("got %d points, want about 20 (a 20° arc at 1° resolution)", len(pts))
	}
	startAngle, _ := ToPolar(center, start)
	for _, p := range pts {
		angle, _ := ToPolar(center, p)
		// Angular distance from start, shortest way round.
		d := math.Abs(angle - startAngle)
		if d > math.Pi {
			d = 2*math.Pi - d
		}
		if d > math.Pi/2 {
			t.Fatalf("point at angle %v strayed onto the long arc", angle)
		}
	}
}

func TestArcNeverSpansMoreThanPi(t *testing.T) {
	center := Point{X: 0, Y: 0}

	for i := 0; i < 24; i++ {
		for j := 0; j < 24; j++ {
			a0 := float64(i) / 24 * 2 * math.Pi
			a1 := float64(j) / 24 * 2 * math.Pi
			start := ToCartesian(center, a0, 5)
			end := ToCartesian(center, a1, 5)
			arc := Between(center, start, end, 0)
			arc.Steps = 1
			s0, s1, _, _ := arc.angles()
			if span := math.Abs(s1 - s0); span > math.Pi+1e-9 {
				t.Fatalf("arc %v→%v spans %v > π", a0, a1, span)
			}
		}
	}
}

func TestArcExcessExtendsBothEnds(t *testing.T) {
	center := Point{X: 0, Y: 0}
	start := ToCartesian(center, math.Pi/4, 10)
	end := ToCartesian(center, math.Pi/2, 10)

	arc := Between(center, start, end, 0)
	arc.Steps = 1
	arc.Excess = 0.1
	arc.IncludeStart = true

	pts := collect(arc)
	a0, _ := ToPolar(center, pts[0])
	a1, _ := ToPolar(center, pts[len(pts)-1])
	if !scalar.EqualWithinAbs(a0, math.Pi/4-0.1, 1e-9) {
		t.Errorf("extended start angle = %v, want %v", a0, math.Pi/4-0.1)
	}
	if !scalar.EqualWithinAbs(a1, math.Pi/2+0.1, 1e-9) {
		t.Errorf("extended end angle = %v, want %v", a1, math.Pi/2+0.1)
	}

	// Descending runs extend the other way.
	desc := Between(center, end, start, 0)
	desc.Steps = 1
	desc.Excess = 0.1
	desc.IncludeStart = true
	pts = collect(desc)
	a0, _ = ToPolar(center, pts[0])
	if !scalar.EqualWithinAbs(a0, math.Pi/2+0.1, 1e-9) {
		t.Errorf("descending extended start angle = %v, want %v", a0, math.Pi/2+0.1)
	}
}

func TestArcRestartable(t *testing.T) {
	center := Point{X: 0, Y: 0}
	arc := Sweep(center, ToCartesian(center, 0, 10), math.Pi/3, math.Pi/40)

	first := collect(arc)
	second := collect(arc)
	if len(first) != len(second) {
		t.Fatalf("iterating twice gave %d then %d points", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("point %d differs between iterations: %v vs %v", i, first[i], second[i])
		}
	}
}
