// Package pcb reads and writes KiCad board files (.kicad_pcb), exposing them
// as in-memory boards the routing core can mutate through its port.
//
// Only the constructs the router cares about are modeled: nets, footprints
// with their pads and net bindings, track segments, vias, and zone outlines.
// Everything else in the file is ignored on read and absent on write.
package pcb

import (
	"fmt"
	"io"
	"os"

	"github.com/ringlight-eda/ringlight/pkg/board"
	"github.com/ringlight-eda/ringlight/pkg/kicad/sexp"
)

// MinSupportedVersion is the oldest accepted file format (KiCad 6.0).
const MinSupportedVersion = 20211014

// ReadFile parses a KiCad board file into an in-memory board.
func ReadFile(filename string) (*board.Memory, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return Read(file)
}

// Read parses a KiCad board from a reader.
func Read(r io.Reader) (*board.Memory, error) {
	nodes, err := sexp.Parse(r)
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("empty file or no valid s-expressions found")
	}

	root := nodes[0]
	if root.Key() != "kicad_pcb" {
		return nil, fmt.Errorf("not a KiCad PCB file: expected 'kicad_pcb', got '%s'", root.Key())
	}

	if err := checkVersion(root); err != nil {
		return nil, err
	}

	m := board.NewMemory()

	for _, netNode := range root.Children("net") {
		code, err := netNode.Int(1)
		if err != nil {
			return nil, fmt.Errorf("failed to parse net number: %w", err)
		}
		name, _ := netNode.Str(2)
		m.DefineNet(board.NetCode(code), name)
	}

	for _, fpNode := range root.Children("footprint") {
		if err := readFootprint(m, fpNode); err != nil {
			return nil, fmt.Errorf("failed to parse footprint: %w", err)
		}
	}
	// KiCad 5 files call footprints modules
	for _, fpNode := range root.Children("module") {
		if err := readFootprint(m, fpNode); err != nil {
			return nil, fmt.Errorf("failed to parse module: %w", err)
		}
	}

	for _, segNode := range root.Children("segment") {
		if err := readSegment(m, segNode); err != nil {
			return nil, fmt.Errorf("failed to parse segment: %w", err)
		}
	}

	for _, viaNode := range root.Children("via") {
		if err := readVia(m, viaNode); err != nil {
			return nil, fmt.Errorf("failed to parse via: %w", err)
		}
	}

	for _, zoneNode := range root.Children("zone") {
		if err := readZone(m, zoneNode); err != nil {
			return nil, fmt.Errorf("failed to parse zone: %w", err)
		}
	}

	return m, nil
}

func checkVersion(root *sexp.Node) error {
	versionNode, found := root.Child("version")
	if !found {
		return fmt.Errorf("missing required 'version' field")
	}
	version, err := versionNode.Int(1)
	if err != nil {
		return fmt.Errorf("failed to parse version: %w", err)
	}
	if version < MinSupportedVersion {
		return fmt.Errorf("unsupported KiCad version: %d (minimum required: %d / KiCad 6.0)", version, MinSupportedVersion)
	}
	return nil
}

// readFootprint parses one (footprint ...) node, its reference designator,
// and its pads.
func readFootprint(m *board.Memory, node *sexp.Node) error {
	pos, angleDeg, err := readAt(node)
	if err != nil {
		return err
	}

	ref := footprintReference(node)
	if ref == "" {
		return fmt.Errorf("footprint at (%g, %g) has no reference designator", pos.X, pos.Y)
	}

	fp := m.AddFootprint(ref, pos, angleDeg*10)

	if layerNode, found := node.Child("layer"); found {
		if layer, err := layerNode.Str(1); err == nil && board.Layer(layer) == board.BackCopper {
			// Back-side footprint: flipping about its own position sets the
			// side without moving it.
			fp.Flip(fp.Position())
		}
	}

	for _, padNode := range node.Children("pad") {
		name, err := padNode.Str(1)
		if err != nil {
			return fmt.Errorf("failed to parse pad name: %w", err)
		}
		offset, _, err := readAt(padNode)
		if err != nil {
			return fmt.Errorf("pad %q: %w", name, err)
		}
		net := board.NoNet
		if netNode, found := padNode.Child("net"); found {
			code, err := netNode.Int(1)
			if err != nil {
				return fmt.Errorf("pad %q: failed to parse net: %w", name, err)
			}
			net = board.NetCode(code)
		}
		fp.AddPad(name, offset, net)
	}

	return nil
}

// footprintReference finds the reference designator in either the modern
// (property "Reference" ...) form or the legacy (fp_text reference ...) form.
func footprintReference(node *sexp.Node) string {
	for _, prop := range node.Children("property") {
		if kind, err := prop.Str(1); err == nil && kind == "Reference" {
			if ref, err := prop.Str(2); err == nil {
				return ref
			}
		}
	}
	for _, text := range node.Children("fp_text") {
		if kind, err := text.Str(1); err == nil && kind == "reference" {
			if ref, err := text.Str(2); err == nil {
				return ref
			}
		}
	}
	return ""
}

// readAt parses an (at x y [angle]) child. The angle, when present, is in
// degrees.
func readAt(node *sexp.Node) (board.Point, float64, error) {
	atNode, found := node.Child("at")
	if !found {
		return board.Point{}, 0, fmt.Errorf("missing required 'at' position")
	}
	x, err := atNode.Float(1)
	if err != nil {
		return board.Point{}, 0, fmt.Errorf("failed to parse X position: %w", err)
	}
	y, err := atNode.Float(2)
	if err != nil {
		return board.Point{}, 0, fmt.Errorf("failed to parse Y position: %w", err)
	}
	angle, _ := atNode.Float(3)
	return board.Point{X: x, Y: y}, angle, nil
}

func readSegment(m *board.Memory, node *sexp.Node) error {
	start, err := readXY(node, "start")
	if err != nil {
		return err
	}
	end, err := readXY(node, "end")
	if err != nil {
		return err
	}
	width := 0.0
	if widthNode, found := node.Child("width"); found {
		width, _ = widthNode.Float(1)
	}
	layer := board.FrontCopper
	if layerNode, found := node.Child("layer"); found {
		if name, err := layerNode.Str(1); err == nil {
			layer = board.Layer(name)
		}
	}
	net, err := readNet(node)
	if err != nil {
		return err
	}
	m.AddTrackSegment(start, end, net, layer, width)
	return nil
}

func readVia(m *board.Memory, node *sexp.Node) error {
	pos, _, err := readAt(node)
	if err != nil {
		return err
	}
	size := 0.0
	if sizeNode, found := node.Child("size"); found {
		size, _ = sizeNode.Float(1)
	}
	layers := board.ThroughLayers
	if layersNode, found := node.Child("layers"); found {
		if first, err := layersNode.Str(1); err == nil {
			layers[0] = board.Layer(first)
		}
		if second, err := layersNode.Str(2); err == nil {
			layers[1] = board.Layer(second)
		}
	}
	net, err := readNet(node)
	if err != nil {
		return err
	}
	m.AddVia(pos, net, layers, size)
	return nil
}

func readZone(m *board.Memory, node *sexp.Node) error {
	net, err := readNet(node)
	if err != nil {
		return err
	}
	layer := board.FrontCopper
	if layerNode, found := node.Child("layer"); found {
		if name, err := layerNode.Str(1); err == nil {
			layer = board.Layer(name)
		}
	}
	// Pads connect with thermal reliefs unless the zone says (connect_pads yes).
	thermal := true
	if connectNode, found := node.Child("connect_pads"); found {
		if mode, err := connectNode.Str(1); err == nil && mode == "yes" {
			thermal = false
		}
	}
	polyNode, found := node.Child("polygon")
	if !found {
		return fmt.Errorf("zone has no outline polygon")
	}
	ptsNode, found := polyNode.Child("pts")
	if !found {
		return fmt.Errorf("zone polygon has no points")
	}
	var outline []board.Point
	for _, xyNode := range ptsNode.Children("xy") {
		x, err := xyNode.Float(1)
		if err != nil {
			return fmt.Errorf("failed to parse zone vertex: %w", err)
		}
		y, err := xyNode.Float(2)
		if err != nil {
			return fmt.Errorf("failed to parse zone vertex: %w", err)
		}
		outline = append(outline, board.Point{X: x, Y: y})
	}
	m.AddFillRegion(outline, net, layer, thermal)
	return nil
}

func readXY(node *sexp.Node, key string) (board.Point, error) {
	child, found := node.Child(key)
	if !found {
		return board.Point{}, fmt.Errorf("missing required '%s' field", key)
	}
	x, err := child.Float(1)
	if err != nil {
		return board.Point{}, fmt.Errorf("failed to parse %s: %w", key, err)
	}
	y, err := child.Float(2)
	if err != nil {
		return board.Point{}, fmt.Errorf("failed to parse %s: %w", key, err)
	}
	return board.Point{X: x, Y: y}, nil
}

func readNet(node *sexp.Node) (board.NetCode, error) {
	netNode, found := node.Child("net")
	if !found {
		return board.NoNet, nil
	}
	code, err := netNode.Int(1)
	if err != nil {
		return board.NoNet, fmt.Errorf("failed to parse net: %w", err)
	}
	return board.NetCode(code), nil
}
