package illum

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats/scalar"

	"github.com/ringlight-eda/ringlight/pkg/board"
	"github.com/ringlight-eda/ringlight/pkg/polar"
)

// excessOverlap is the tiny angular extension applied to fill outlines so
// two fills meant to meet cannot leave a hairline gap from rounding.
const excessOverlap = 1e-4

// angleTol is the tolerance for treating two bus point angles as equal when
// ordering the ring.
const angleTol = 1e-9

// trackSegment emits one straight segment and returns its end point, so
// emission chains naturally.
func (s *Session) trackSegment(start, end polar.Point, code board.NetCode, layer board.Layer) polar.Point {
	s.board.AddTrackSegment(start, end, code, layer, s.opts.TrackWidthMM)
	return end
}

// trackArc emits the discretized arc as chained segments and returns the
// last point reached.
func (s *Session) trackArc(arc polar.Arc, code board.NetCode, layer board.Layer) polar.Point {
	last := arc.Start
	for pt := range arc.Points() {
		last = s.trackSegment(last, pt, code, layer)
	}
	return last
}

// trackArcBetween routes an arc track from start to end about the ring
// center at the configured angular resolution.
func (s *Session) trackArcBetween(start, end polar.Point, code board.NetCode, layer board.Layer) polar.Point {
	return s.trackArc(polar.Between(s.center, start, end, s.opts.AngularResolutionRad), code, layer)
}

// trackRadial emits a straight segment shifting pos radially by the given
// displacement.
func (s *Session) trackRadial(pos polar.Point, displacement float64, code board.NetCode, layer board.Layer) polar.Point {
	end := polar.ShiftAlongRadius(s.center, pos, displacement)
	return s.trackSegment(pos, end, code, layer)
}

// trackHorizontalToRadius emits a horizontal segment from start to the point
// at the given radius on the same y, picking the intersection on start's
// side of the center.
func (s *Session) trackHorizontalToRadius(start polar.Point, radius float64, code board.NetCode, layer board.Layer) polar.Point {
	angle := math.Asin((start.Y - s.center.Y) / radius)
	if start.X < s.center.X {
		angle = math.Pi - angle
	}
	end := polar.Point{X: s.center.X + radius*math.Cos(angle), Y: start.Y}
	return s.trackSegment(start, end, code, layer)
}

// via drops a through via at pos.
func (s *Session) via(pos polar.Point, code board.NetCode) polar.Point {
	s.board.AddVia(pos, code, board.ThroughLayers, s.opts.TrackWidthMM)
	return pos
}

// fillArc creates a filled region hugging the ring between start and end:
// the outline walks the inner edge (half a width inside the two endpoints)
// and returns along the outer edge. Both edges are slightly overextended so
// adjacent fills overlap instead of leaving gaps.
func (s *Session) fillArc(start, end polar.Point, width float64, thermal bool, code board.NetCode, layer board.Layer) {
	inner := polar.Between(s.center,
		polar.ShiftAlongRadius(s.center, start, -width/2),
		polar.ShiftAlongRadius(s.center, end, -width/2),
		s.opts.AngularResolutionRad)
	outer := polar.Between(s.center,
		polar.ShiftAlongRadius(s.center, end, width/2),
		polar.ShiftAlongRadius(s.center, start, width/2),
		s.opts.AngularResolutionRad)
	inner.Excess, inner.IncludeStart = excessOverlap, true
	outer.Excess, outer.IncludeStart = excessOverlap, true

	var outline []polar.Point
	for pt := range inner.Points() {
		outline = append(outline, pt)
	}
	for pt := range outer.Points() {
		outline = append(outline, pt)
	}
	s.board.AddFillRegion(outline, code, layer, thermal)
}

// routeArc connects a two-terminal strip net with a single arc of track
// segments on the front layer.
func (s *Session) routeArc(code board.NetCode, start, end Terminal) {
	s.logger.Info("routing with a single arc",
		"net", s.board.NetName(code), "from", start.Component, "to", end.Component)
	s.trackArcBetween(s.terminalPosition(start), s.terminalPosition(end), code, board.FrontCopper)
}

// routeFillArc routes a strip net with the arc track plus a filled copper
// strip of the configured width, so the fill is the actual conductor.
func (s *Session) routeFillArc(code board.NetCode, start, end Terminal) {
	s.logger.Info("routing with a filled arc region",
		"net", s.board.NetName(code), "from", start.Component, "to", end.Component)
	startPos := s.terminalPosition(start)
	endPos := s.terminalPosition(end)
	s.trackArcBetween(startPos, endPos, code, board.FrontCopper)
	s.fillArc(startPos, endPos, s.opts.LEDFillWidthMM, false, code, board.FrontCopper)
}

// polarPos is a bus point in polar coordinates about the ring center.
type polarPos struct {
	angle  float64
	radius float64
}

// routeRing routes a bus net as an annular track at the given radial
// displacement from the component ring. Every terminal first travels an
// optional angular overhang toward its component (with matching fill), then
// shifts radially onto the bus; a via is dropped when the bus lives on the
// back layer. The bus points plus two synthetic anchors at angles 0 and π
// are then connected in angular order, wrapping around.
func (s *Session) routeRing(code board.NetCode, terminals []Terminal, displacement, overhang float64, layer board.Layer) {
	s.logger.Info("routing as a ring bus",
		"net", s.board.NetName(code), "terminals", len(terminals),
		"displacement", displacement, "layer", string(layer))

	var busPts []polarPos
	for _, terminal := range terminals {
		pt := s.terminalPosition(terminal)
		_, termRadius := polar.ToPolar(s.center, pt)
		if displacement != 0 {
			if overhang != 0 {
				pt = s.routeOverhang(code, terminal, pt, termRadius, overhang)
			}
			pt = s.trackRadial(pt, displacement, code, board.FrontCopper)
		}
		if layer != board.FrontCopper {
			s.via(pt, code)
		}
		angle, radius := polar.ToPolar(s.center, pt)
		busPts = append(busPts, polarPos{angle: angle, radius: radius})
	}

	// Anchor the ring at angles 0 and π so its extremities are covered even
	// with sparse terminals; the pin/transistor connector relies on copper
	// existing exactly there.
	busPts = append(busPts,
		polarPos{angle: 0, radius: s.opts.RadiusMM + displacement},
		polarPos{angle: math.Pi, radius: s.opts.RadiusMM + displacement},
	)
	sort.Slice(busPts, func(i, j int) bool {
		if scalar.EqualWithinAbs(busPts[i].angle, busPts[j].angle, angleTol) {
			return busPts[i].radius < busPts[j].radius
		}
		return busPts[i].angle < busPts[j].angle
	})

	// Connect consecutive points, starting from the wrap segment (last back
	// to first) so the ring closes.
	last := busPts[len(busPts)-1]
	for _, pos := range busPts {
		s.trackArcBetween(
			polar.ToCartesian(s.center, last.angle, last.radius),
			polar.ToCartesian(s.center, pos.angle, pos.radius),
			code, layer)
		last = pos
	}
}

// routeOverhang routes the extra angular travel from a terminal toward its
// owning component's angular position, with the matching fill strip when
// fills are enabled, and returns the new end point.
func (s *Session) routeOverhang(code board.NetCode, terminal Terminal, pt polar.Point, termRadius, overhang float64) polar.Point {
	compAngle, _ := polar.ToPolar(s.center, s.componentPosition(terminal))
	end := polar.ToCartesian(s.center, compAngle+overhang, termRadius)
	s.trackArcBetween(pt, end, code, board.FrontCopper)
	if s.opts.LEDFillWidthMM != 0 {
		fillOverhang := s.opts.fillOverhang()
		if overhang < 0 {
			fillOverhang = -fillOverhang
		}
		fillEnd := polar.ShiftAlongArc(s.center, end, fillOverhang)
		s.fillArc(pt, fillEnd, s.opts.LEDFillWidthMM, false, code, board.FrontCopper)
	}
	return end
}

// routePinAndFet connects the power pin header and the transistor. It runs
// after ring routing because it needs to know which net codes carry power
// and ground. Pads of the two components sharing a net are joined by
// horizontal stubs out to the ring radius plus a back-layer arc; the two
// remaining bus pads are reconnected to their rings through vias at the
// anchor points the ring route guaranteed (angle 0 on the ground ring, by
// the transistor; angle π on the power ring, by the pin).
func (s *Session) routePinAndFet() {
	if s.pin == nil || s.fet == nil {
		return
	}
	s.logger.Info("connecting pin and transistor",
		"pin", s.pin.Reference(), "transistor", s.fet.Reference())

	for _, pinPad := range s.pin.Pads() {
		for _, fetPad := range s.fet.Pads() {
			if fetPad.Net() != pinPad.Net() || fetPad.Net() == board.NoNet {
				continue
			}
			code := fetPad.Net()
			s.clearNet(code)
			fetPt := s.trackHorizontalToRadius(fetPad.Position(), s.opts.RadiusMM, code, board.BackCopper)
			pinPt := s.trackHorizontalToRadius(pinPad.Position(), s.opts.RadiusMM, code, board.BackCopper)
			s.logger.Info("adding connector arc",
				"net", s.board.NetName(code), "pad", fetPad.Name())
			s.trackArcBetween(fetPt, pinPt, code, board.BackCopper)
		}
	}

	if s.hasGround {
		for _, pad := range s.fet.Pads() {
			if pad.Net() != s.groundNet {
				continue
			}
			s.logger.Info("reconnecting transistor pad to ground ring", "pad", pad.Name())
			anchor := polar.ToCartesian(s.center, 0, s.opts.RadiusMM+s.opts.GroundRingDisplacementMM)
			s.via(anchor, s.groundNet)
			s.trackSegment(anchor, pad.Position(), s.groundNet, board.BackCopper)
		}
	}
	if s.hasPower {
		for _, pad := range s.pin.Pads() {
			if pad.Net() != s.powerNet {
				continue
			}
			s.logger.Info("reconnecting pin pad to power ring", "pad", pad.Name())
			anchor := polar.ToCartesian(s.center, math.Pi, s.opts.RadiusMM+s.opts.PowerRingDisplacementMM)
			s.via(anchor, s.powerNet)
			s.trackSegment(anchor, pad.Position(), s.powerNet, board.BackCopper)
		}
	}
}
