package illum

import (
	"errors"
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/ringlight-eda/ringlight/pkg/board"
	"github.com/ringlight-eda/ringlight/pkg/polar"
)

// Sentinel errors for the fatal routing invariants. The board is assumed to
// carry at most one power and one ground bus; hitting a second one means the
// run is operating on a board this tool does not understand, so the pipeline
// aborts instead of overwriting the first bus's copper.
var (
	ErrDuplicatePowerNet  = errors.New("more than one net classified as power")
	ErrDuplicateGroundNet = errors.New("more than one net classified as ground")
	ErrBadStripNet        = errors.New("led strip net does not have exactly two terminals")
)

// Session is one placement-and-routing run over a board. It carries the
// per-run state the pipeline stages share: which components were placed and
// with what role, and which net codes ended up being the power and ground
// buses. A Session is not safe for concurrent use and is meant to be used
// once.
type Session struct {
	board  board.Board
	opts   Options
	logger *log.Logger

	center polar.Point

	// placed maps reference designators to roles, in placement order.
	placed     map[string]ComponentRole
	placeOrder []string

	// The auxiliary pair, nil when the board does not carry it.
	pin board.Component
	fet board.Component

	powerNet  board.NetCode
	groundNet board.NetCode
	hasPower  bool
	hasGround bool
}

// NewSession prepares a run over the given board. A nil logger discards all
// output.
func NewSession(b board.Board, opts Options, logger *log.Logger) *Session {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Session{
		board:  b,
		opts:   opts,
		logger: logger,
		center: polar.Point{X: opts.CenterXMM, Y: opts.CenterYMM},
		placed: make(map[string]ComponentRole),
	}
}

// Run executes the full pipeline: place every ring component and the
// auxiliary pair, then classify and route every net, then connect the pair.
func (s *Session) Run() error {
	s.Place()
	return s.Route()
}

// Place positions every driver-line component on the ring and the
// pin/transistor pair on the diameter. Components missing from the board are
// logged and skipped; a board with neither pin nor transistor is fine.
func (s *Session) Place() {
	for p := range s.opts.Placements() {
		if !s.placeComponent(p.Name, p.Place) {
			s.logger.Warn("component not on board, skipping", "ref", p.Name)
			continue
		}
		s.placed[p.Name] = p.Role
		s.placeOrder = append(s.placeOrder, p.Name)
	}
	s.placePinAndFet()
}

// placeComponent moves one component into place. The rotation is converted
// from radians to KiCad decidegrees (sign flipped: the math angle grows
// clockwise in the y-down plane, KiCad rotation counter-clockwise).
func (s *Session) placeComponent(ref string, place polar.Place) bool {
	comp, ok := s.board.FindComponent(ref)
	if !ok {
		return false
	}
	s.logger.Info("placing component", "ref", ref,
		"x", fmt.Sprintf("%.3f", place.X), "y", fmt.Sprintf("%.3f", place.Y))
	comp.SetPosition(place.Point())
	comp.SetRotation(-place.Rot * 180 / math.Pi * 10)
	return true
}

// placePinAndFet puts the power pin and the transistor at diametrically
// opposite points of the ring, on the back side. A board without both
// components skips this entirely.
func (s *Session) placePinAndFet() {
	pin, pinOK := s.board.FindComponent(s.opts.PinName)
	fet, fetOK := s.board.FindComponent(s.opts.TransistorName)
	if !pinOK || !fetOK {
		return
	}
	s.pin = pin
	s.fet = fet

	if !pin.IsFlipped() {
		pin.Flip(pin.Position())
	}
	if !fet.IsFlipped() {
		fet.Flip(pin.Position())
	}
	s.logger.Info("placing pin and transistor at opposite sides of the ring",
		"pin", pin.Reference(), "transistor", fet.Reference())
	s.placeComponent(pin.Reference(), polar.Place{
		X: s.center.X - s.opts.RadiusMM, Y: s.center.Y, Rot: s.opts.PinOrientationRad,
	})
	s.placeComponent(fet.Reference(), polar.Place{
		X: s.center.X + s.opts.RadiusMM, Y: s.center.Y, Rot: s.opts.TransistorOrientationRad,
	})
}

// Route classifies every net touching the placed ring components and routes
// it with the strategy of its role, then connects the pin/transistor pair.
// Unknown nets are skipped; a duplicate bus role or a malformed strip net
// aborts the run.
func (s *Session) Route() error {
	nets := s.collectNets()
	codes := make([]board.NetCode, 0, len(nets))
	for code := range nets {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })

	for _, code := range codes {
		terminals := nets[code]
		role := Classify(terminals)
		s.logger.Info("classified net",
			"net", s.board.NetName(code), "role", role.String(), "terminals", len(terminals))
		if role == NetUnknown {
			s.logger.Warn("cannot route net of unknown role, skipping",
				"net", s.board.NetName(code))
			continue
		}

		s.clearNet(code)

		switch role {
		case NetLedStrip:
			if len(terminals) != 2 {
				return fmt.Errorf("net %s has %d terminals: %w",
					s.board.NetName(code), len(terminals), ErrBadStripNet)
			}
			if s.opts.LEDFillWidthMM > 0 {
				s.routeFillArc(code, terminals[0], terminals[1])
			} else {
				s.routeArc(code, terminals[0], terminals[1])
			}

		case NetPower:
			if s.hasPower {
				return fmt.Errorf("net %s: %w", s.board.NetName(code), ErrDuplicatePowerNet)
			}
			s.powerNet, s.hasPower = code, true
			s.routeRing(code, terminals,
				s.opts.PowerRingDisplacementMM, s.opts.overhang(), s.busLayer(s.opts.PowerRingOnFront))

		case NetGround:
			if s.hasGround {
				return fmt.Errorf("net %s: %w", s.board.NetName(code), ErrDuplicateGroundNet)
			}
			s.groundNet, s.hasGround = code, true
			s.routeRing(code, terminals,
				s.opts.GroundRingDisplacementMM, -s.opts.overhang(), s.busLayer(s.opts.GroundRingOnFront))
		}
	}

	s.routePinAndFet()
	return nil
}

func (s *Session) busLayer(onFront bool) board.Layer {
	if onFront {
		return board.FrontCopper
	}
	return board.BackCopper
}

// collectNets rebuilds the net map from the live board: every pad of every
// placed ring component, grouped by net code. Unconnected pads (net 0) are
// left out. The map is built fresh on every call, never cached across runs.
func (s *Session) collectNets() map[board.NetCode][]Terminal {
	nets := make(map[board.NetCode][]Terminal)
	for _, ref := range s.placeOrder {
		comp, ok := s.board.FindComponent(ref)
		if !ok {
			continue
		}
		for _, pad := range comp.Pads() {
			code := pad.Net()
			if code == board.NoNet {
				continue
			}
			nets[code] = append(nets[code], Terminal{
				Component: ref,
				Pad:       pad.Name(),
				Role:      s.placed[ref],
			})
		}
	}
	return nets
}

// clearNet deletes all existing tracks, vias, and fill regions bound to the
// net, making re-routing idempotent.
func (s *Session) clearNet(code board.NetCode) {
	for _, t := range s.board.Tracks() {
		if t.Net() == code {
			s.board.DeleteTrack(t)
		}
	}
	for _, r := range s.board.FillRegions() {
		if r.Net() == code {
			s.board.DeleteFillRegion(r)
		}
	}
}

// terminalPosition resolves a terminal to its pad's absolute position.
func (s *Session) terminalPosition(t Terminal) polar.Point {
	comp, ok := s.board.FindComponent(t.Component)
	if !ok {
		return polar.Point{}
	}
	pad, ok := comp.FindPad(t.Pad)
	if !ok {
		return polar.Point{}
	}
	return pad.Position()
}

// componentPosition resolves a terminal's owning component position.
func (s *Session) componentPosition(t Terminal) polar.Point {
	comp, ok := s.board.FindComponent(t.Component)
	if !ok {
		return polar.Point{}
	}
	return comp.Position()
}
