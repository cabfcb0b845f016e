package pcb

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ringlight-eda/ringlight/pkg/board"
)

const sampleBoard = `(kicad_pcb
  (version 20221018)
  (generator "test")
  (net 0 "")
  (net 1 "GND")
  (net 2 "+5V")
  (footprint "lib:R" (layer "F.Cu")
    (at 10 10 90)
    (property "Reference" "R1" (at 0 0) (layer "F.SilkS"))
    (pad "1" thru_hole circle (at 1 0) (size 1.5 1.5) (net 1 "GND"))
    (pad "2" thru_hole circle (at -1 0) (size 1.5 1.5) (net 2 "+5V"))
  )
  (footprint "lib:Q" (layer "B.Cu")
    (at 20 20)
    (property "Reference" "Q1" (at 0 0) (layer "B.SilkS"))
    (pad "1" thru_hole circle (at 0 1) (net 1 "GND"))
  )
  (module "lib:Old" (layer "F.Cu")
    (at 30 30)
    (fp_text reference "J1" (at 0 0))
    (pad "1" thru_hole circle (at 0 0))
  )
  (segment (start 1 2) (end 3 4) (width 0.5) (layer "B.Cu") (net 1))
  (via (at 5 6) (size 0.8) (drill 0.4) (layers "F.Cu" "B.Cu") (net 2))
  (zone (net 1) (net_name "GND") (layer "F.Cu")
    (connect_pads yes (clearance 0.5))
    (polygon (pts (xy 0 0) (xy 1 0) (xy 1 1)))
  )
)`

func TestRead(t *testing.T) {
	m, err := Read(strings.NewReader(sampleBoard))
	if err != nil {
		t.Fatal(err)
	}

	if got := m.NetName(1); got != "GND" {
		t.Errorf("net 1 = %q, want GND", got)
	}
	if got := m.NetName(2); got != "+5V" {
		t.Errorf("net 2 = %q, want +5V", got)
	}

	r1, ok := m.FindComponent("R1")
	if !ok {
		t.Fatal("R1 not found")
	}
	if pos := r1.Position(); pos.X != 10 || pos.Y != 10 {
		t.Errorf("R1 at %v, want (10, 10)", pos)
	}
	if rot := r1.(*board.Footprint).Rotation(); rot != 900 {
		t.Errorf("R1 rotation = %v decidegrees, want 900", rot)
	}
	// Pad offset (1, 0) rotated by 90° in the y-down plane.
	pad, ok := r1.FindPad("1")
	if !ok {
		t.Fatal("R1 pad 1 not found")
	}
	if pos := pad.Position(); !near(pos.X, 10) || !near(pos.Y, 9) {
		t.Errorf("R1 pad 1 at %v, want (10, 9)", pos)
	}
	if pad.Net() != 1 {
		t.Errorf("R1 pad 1 on net %d, want 1", pad.Net())
	}

	q1, ok := m.FindComponent("Q1")
	if !ok {
		t.Fatal("Q1 not found")
	}
	if !q1.IsFlipped() {
		t.Error("back-layer footprint Q1 not flipped")
	}
	if pos := q1.Position(); pos.X != 20 || pos.Y != 20 {
		t.Errorf("Q1 at %v, flipping on read must not move it", pos)
	}
	// Flipped: the pad offset y is mirrored.
	qpad, _ := q1.FindPad("1")
	if pos := qpad.Position(); !near(pos.X, 20) || !near(pos.Y, 19) {
		t.Errorf("Q1 pad 1 at %v, want (20, 19)", pos)
	}

	if _, ok := m.FindComponent("J1"); !ok {
		t.Error("legacy module J1 not found")
	}

	segments := m.Segments()
	if len(segments) != 1 {
		t.Fatalf("%d segments, want 1", len(segments))
	}
	seg := segments[0]
	if seg.Start.X != 1 || seg.Start.Y != 2 || seg.End.X != 3 || seg.End.Y != 4 {
		t.Errorf("segment %v -> %v, want (1,2) -> (3,4)", seg.Start, seg.End)
	}
	if seg.Width != 0.5 || seg.Layer != board.BackCopper || seg.NetCode != 1 {
		t.Errorf("segment width/layer/net = %v/%s/%d", seg.Width, seg.Layer, seg.NetCode)
	}

	vias := m.Vias()
	if len(vias) != 1 {
		t.Fatalf("%d vias, want 1", len(vias))
	}
	if v := vias[0]; v.Position.X != 5 || v.Width != 0.8 || v.NetCode != 2 || v.Layers != board.ThroughLayers {
		t.Errorf("via = %+v", v)
	}

	fills := m.Fills()
	if len(fills) != 1 {
		t.Fatalf("%d fill regions, want 1", len(fills))
	}
	fill := fills[0]
	if fill.Thermal {
		t.Error("zone with (connect_pads yes) read as thermal")
	}
	if len(fill.Outline) != 3 || fill.Outline[1].X != 1 {
		t.Errorf("zone outline = %v", fill.Outline)
	}
}

func near(got, want float64) bool {
	d := got - want
	return d < 1e-9 && d > -1e-9
}

func TestReadRejects(t *testing.T) {
	cases := []struct{ name, input string }{
		{"empty", ""},
		{"not a board", `(kicad_sch (version 20221018))`},
		{"missing version", `(kicad_pcb (net 0 ""))`},
		{"too old", `(kicad_pcb (version 20171130))`},
		{"footprint without reference", `(kicad_pcb (version 20221018) (footprint "x" (at 1 2)))`},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := Read(strings.NewReader(c.input)); err == nil {
				t.Errorf("Read(%q) did not fail", c.input)
			}
		})
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	m := board.NewMemory()
	m.DefineNet(1, "GND")
	m.DefineNet(2, "strip 0")

	fp := m.AddFootprint("LED0", board.Point{X: 101.25, Y: 95.5}, 450)
	fp.AddPad("1", board.Point{X: -1.5, Y: 0}, 2)
	fp.AddPad("2", board.Point{X: 1.5, Y: 0}, 1)
	flipped := m.AddFootprint("Q0", board.Point{X: 130, Y: 100}, 0)
	flipped.AddPad("1", board.Point{X: 0, Y: 1}, 1)
	flipped.Flip(flipped.Position())

	m.AddTrackSegment(board.Point{X: 1, Y: 2}, board.Point{X: 3, Y: 4}, 1, board.BackCopper, 1)
	m.AddVia(board.Point{X: 5, Y: 6}, 1, board.ThroughLayers, 1)
	m.AddFillRegion([]board.Point{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 2}}, 2, board.FrontCopper, false)
	m.AddFillRegion([]board.Point{{X: 5, Y: 5}, {X: 6, Y: 5}, {X: 6, Y: 6}}, 1, board.BackCopper, true)

	var buf bytes.Buffer
	if err := Write(&buf, m); err != nil {
		t.Fatal(err)
	}
	got, err := Read(&buf)
	if err != nil {
		t.Fatalf("reading back the written board failed: %v", err)
	}

	if got.NetName(1) != "GND" || got.NetName(2) != "strip 0" {
		t.Errorf("net names = %q, %q", got.NetName(1), got.NetName(2))
	}

	led, ok := got.FindComponent("LED0")
	if !ok {
		t.Fatal("LED0 lost in round trip")
	}
	if pos := led.Position(); pos.X != 101.25 || pos.Y != 95.5 {
		t.Errorf("LED0 at %v, want (101.25, 95.5)", pos)
	}
	if rot := led.(*board.Footprint).Rotation(); rot != 450 {
		t.Errorf("LED0 rotation = %v decidegrees, want 450", rot)
	}
	pad, _ := led.FindPad("1")
	if pad.Net() != 2 {
		t.Errorf("LED0 pad 1 on net %d, want 2", pad.Net())
	}

	q0, ok := got.FindComponent("Q0")
	if !ok {
		t.Fatal("Q0 lost in round trip")
	}
	if !q0.IsFlipped() {
		t.Error("Q0 lost its back-side placement in round trip")
	}
	if pos := q0.Position(); pos.X != 130 || pos.Y != 100 {
		t.Errorf("Q0 at %v, want (130, 100)", pos)
	}

	if len(got.Segments()) != 1 || got.Segments()[0].Layer != board.BackCopper {
		t.Errorf("segments = %+v", got.Segments())
	}
	if len(got.Vias()) != 1 || got.Vias()[0].NetCode != 1 {
		t.Errorf("vias = %+v", got.Vias())
	}
	fills := got.Fills()
	if len(fills) != 2 {
		t.Fatalf("%d fill regions, want 2", len(fills))
	}
	if fills[0].Thermal || !fills[1].Thermal {
		t.Errorf("thermal flags = %v, %v, want false, true", fills[0].Thermal, fills[1].Thermal)
	}
	if len(fills[0].Outline) != 3 || fills[0].Outline[2].Y != 2 {
		t.Errorf("outline = %v", fills[0].Outline)
	}
}
