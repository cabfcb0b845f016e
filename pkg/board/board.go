// Package board defines the mutation port through which the routing core
// reads and edits a PCB, together with an in-memory implementation of it.
//
// The core never touches a host board model directly; everything goes through
// the Board interface so a Memory board can stand in for a real file-backed
// one in tests, and so file formats stay out of the routing code entirely.
package board

import "github.com/ringlight-eda/ringlight/pkg/polar"

// Point is a board coordinate in mm. Alias of the geometry kernel's point so
// routing code can hand kernel output straight to the port.
type Point = polar.Point

// Layer is a copper layer identified by its KiCad name.
type Layer string

const (
	FrontCopper Layer = "F.Cu"
	BackCopper  Layer = "B.Cu"
)

// NetCode identifies an electrical net. Code 0 is the unconnected net.
type NetCode int

// NoNet is the KiCad "unconnected" net code.
const NoNet NetCode = 0

// ThroughLayers is the layer pair of a through-hole via.
var ThroughLayers = [2]Layer{FrontCopper, BackCopper}

// Pad is one electrical connection point of a component.
type Pad interface {
	// Name returns the pad number/name within its component.
	Name() string
	// Position returns the pad center in absolute board coordinates.
	Position() Point
	// Net returns the code of the net the pad is bound to, or NoNet.
	Net() NetCode
}

// Component is a placed footprint.
type Component interface {
	// Reference returns the reference designator (e.g. "R0", "LED3").
	Reference() string
	Position() Point
	SetPosition(Point)
	// SetRotation sets the orientation in tenths of a degree, KiCad
	// convention (counter-clockwise positive).
	SetRotation(decidegrees float64)
	// IsFlipped reports whether the component sits on the back side.
	IsFlipped() bool
	// Flip mirrors the component to the opposite side about the given point.
	Flip(about Point)
	Pads() []Pad
	FindPad(name string) (Pad, bool)
}

// Track is an existing piece of routed copper: a segment or a via. Only the
// net binding is exposed; the router deletes by net and recreates from
// scratch, it never edits copper in place.
type Track interface {
	Net() NetCode
}

// FillRegion is an existing filled copper polygon.
type FillRegion interface {
	Net() NetCode
}

// Board is the full mutation port. All operations are synchronous and apply
// to a single implicit board instance.
type Board interface {
	// FindComponent looks a component up by reference designator.
	FindComponent(ref string) (Component, bool)
	// NetName resolves a net code to its human-readable name.
	NetName(NetCode) string

	// Tracks enumerates all routed segments and vias on the board.
	Tracks() []Track
	DeleteTrack(Track)
	// FillRegions enumerates all filled copper regions on the board.
	FillRegions() []FillRegion
	DeleteFillRegion(FillRegion)

	AddTrackSegment(start, end Point, net NetCode, layer Layer, widthMM float64)
	AddVia(pos Point, net NetCode, layers [2]Layer, widthMM float64)
	AddFillRegion(outline []Point, net NetCode, layer Layer, thermal bool)
}
