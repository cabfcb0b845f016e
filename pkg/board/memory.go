package board

import "math"

// Memory is a complete in-memory Board. The KiCad reader fills one from a
// .kicad_pcb file and the writer serializes it back; tests build small ones
// by hand.
type Memory struct {
	netNames   map[NetCode]string
	netOrder   []NetCode
	footprints []*Footprint
	byRef      map[string]*Footprint

	segments []*Segment
	vias     []*Via
	fills    []*Fill
}

// NewMemory returns an empty in-memory board with only the unconnected net.
func NewMemory() *Memory {
	return &Memory{
		netNames: map[NetCode]string{NoNet: ""},
		netOrder: []NetCode{NoNet},
		byRef:    make(map[string]*Footprint),
	}
}

// DefineNet registers a net code with its name. Re-defining a code updates
// the name in place.
func (m *Memory) DefineNet(code NetCode, name string) {
	if _, ok := m.netNames[code]; !ok {
		m.netOrder = append(m.netOrder, code)
	}
	m.netNames[code] = name
}

// Nets returns all defined net codes in definition order.
func (m *Memory) Nets() []NetCode {
	return m.netOrder
}

// NetName implements Board.
func (m *Memory) NetName(code NetCode) string {
	return m.netNames[code]
}

// AddFootprint adds a footprint at the given position with an orientation in
// tenths of a degree, and returns it so pads can be attached.
func (m *Memory) AddFootprint(ref string, pos Point, decidegrees float64) *Footprint {
	fp := &Footprint{ref: ref, pos: pos, decidegrees: decidegrees}
	m.footprints = append(m.footprints, fp)
	m.byRef[ref] = fp
	return fp
}

// Footprints returns all footprints in insertion order.
func (m *Memory) Footprints() []*Footprint {
	return m.footprints
}

// FindComponent implements Board.
func (m *Memory) FindComponent(ref string) (Component, bool) {
	fp, ok := m.byRef[ref]
	if !ok {
		return nil, false
	}
	return fp, true
}

// Tracks implements Board. Segments and vias are both tracks, matching the
// KiCad board model where vias live in the track list.
func (m *Memory) Tracks() []Track {
	tracks := make([]Track, 0, len(m.segments)+len(m.vias))
	for _, s := range m.segments {
		tracks = append(tracks, s)
	}
	for _, v := range m.vias {
		tracks = append(tracks, v)
	}
	return tracks
}

// DeleteTrack implements Board. Deleting a track that is not on the board is
// a no-op.
func (m *Memory) DeleteTrack(t Track) {
	switch t := t.(type) {
	case *Segment:
		for i, s := range m.segments {
			if s == t {
				m.segments = append(m.segments[:i], m.segments[i+1:]...)
				return
			}
		}
	case *Via:
		for i, v := range m.vias {
			if v == t {
				m.vias = append(m.vias[:i], m.vias[i+1:]...)
				return
			}
		}
	}
}

// FillRegions implements Board.
func (m *Memory) FillRegions() []FillRegion {
	regions := make([]FillRegion, len(m.fills))
	for i, f := range m.fills {
		regions[i] = f
	}
	return regions
}

// DeleteFillRegion implements Board.
func (m *Memory) DeleteFillRegion(r FillRegion) {
	for i, f := range m.fills {
		if FillRegion(f) == r {
			m.fills = append(m.fills[:i], m.fills[i+1:]...)
			return
		}
	}
}

// AddTrackSegment implements Board.
func (m *Memory) AddTrackSegment(start, end Point, net NetCode, layer Layer, widthMM float64) {
	m.segments = append(m.segments, &Segment{
		Start: start, End: end, NetCode: net, Layer: layer, Width: widthMM,
	})
}

// AddVia implements Board.
func (m *Memory) AddVia(pos Point, net NetCode, layers [2]Layer, widthMM float64) {
	m.vias = append(m.vias, &Via{
		Position: pos, NetCode: net, Layers: layers, Width: widthMM,
	})
}

// AddFillRegion implements Board.
func (m *Memory) AddFillRegion(outline []Point, net NetCode, layer Layer, thermal bool) {
	verts := make([]Point, len(outline))
	copy(verts, outline)
	m.fills = append(m.fills, &Fill{
		Outline: verts, NetCode: net, Layer: layer, Thermal: thermal,
	})
}

// Segments returns the concrete track segments, for serialization and tests.
func (m *Memory) Segments() []*Segment { return m.segments }

// Vias returns the concrete vias, for serialization and tests.
func (m *Memory) Vias() []*Via { return m.vias }

// Fills returns the concrete fill regions, for serialization and tests.
func (m *Memory) Fills() []*Fill { return m.fills }

// Segment is a straight copper track segment.
type Segment struct {
	Start   Point
	End     Point
	NetCode NetCode
	Layer   Layer
	Width   float64
}

// Net implements Track.
func (s *Segment) Net() NetCode { return s.NetCode }

// Via is a through via.
type Via struct {
	Position Point
	NetCode  NetCode
	Layers   [2]Layer
	Width    float64
}

// Net implements Track.
func (v *Via) Net() NetCode { return v.NetCode }

// Fill is a filled copper polygon.
type Fill struct {
	Outline []Point
	NetCode NetCode
	Layer   Layer
	Thermal bool
}

// Net implements FillRegion.
func (f *Fill) Net() NetCode { return f.NetCode }

// Footprint is a component on a Memory board. Pads are stored as offsets
// relative to the footprint origin, unrotated; their absolute position is
// derived on demand so moving or rotating the footprint moves its pads.
type Footprint struct {
	ref         string
	pos         Point
	decidegrees float64
	flipped     bool
	pads        []*FootprintPad
}

// AddPad attaches a pad at the given offset from the footprint origin, bound
// to the given net, and returns it.
func (fp *Footprint) AddPad(name string, offset Point, net NetCode) *FootprintPad {
	pad := &FootprintPad{owner: fp, name: name, offset: offset, net: net}
	fp.pads = append(fp.pads, pad)
	return pad
}

// Reference implements Component.
func (fp *Footprint) Reference() string { return fp.ref }

// Position implements Component.
func (fp *Footprint) Position() Point { return fp.pos }

// SetPosition implements Component.
func (fp *Footprint) SetPosition(p Point) { fp.pos = p }

// SetRotation implements Component.
func (fp *Footprint) SetRotation(decidegrees float64) { fp.decidegrees = decidegrees }

// Rotation returns the orientation in tenths of a degree.
func (fp *Footprint) Rotation() float64 { return fp.decidegrees }

// IsFlipped implements Component.
func (fp *Footprint) IsFlipped() bool { return fp.flipped }

// Flip implements Component. The footprint is mirrored vertically about the
// given point and moved to the opposite side, the way KiCad flips a footprint
// about a horizontal axis.
func (fp *Footprint) Flip(about Point) {
	fp.flipped = !fp.flipped
	fp.pos.Y = 2*about.Y - fp.pos.Y
}

// Pads implements Component.
func (fp *Footprint) Pads() []Pad {
	pads := make([]Pad, len(fp.pads))
	for i, p := range fp.pads {
		pads[i] = p
	}
	return pads
}

// FindPad implements Component.
func (fp *Footprint) FindPad(name string) (Pad, bool) {
	for _, p := range fp.pads {
		if p.name == name {
			return p, true
		}
	}
	return nil, false
}

// FootprintPad is a pad of a Memory footprint.
type FootprintPad struct {
	owner  *Footprint
	name   string
	offset Point
	net    NetCode
}

// Name implements Pad.
func (p *FootprintPad) Name() string { return p.name }

// Offset returns the pad offset relative to its footprint origin.
func (p *FootprintPad) Offset() Point { return p.offset }

// Net implements Pad.
func (p *FootprintPad) Net() NetCode { return p.net }

// SetNet rebinds the pad to another net.
func (p *FootprintPad) SetNet(net NetCode) { p.net = net }

// Position implements Pad. The offset is rotated by the footprint
// orientation (KiCad counter-clockwise convention in the y-down plane) and
// mirrored when the footprint sits on the back side.
func (p *FootprintPad) Position() Point {
	ox, oy := p.offset.X, p.offset.Y
	if p.owner.flipped {
		oy = -oy
	}
	rad := p.owner.decidegrees / 10 * math.Pi / 180
	sin, cos := math.Sincos(rad)
	return Point{
		X: p.owner.pos.X + ox*cos + oy*sin,
		Y: p.owner.pos.Y - ox*sin + oy*cos,
	}
}
