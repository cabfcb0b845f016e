package pcb

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/ringlight-eda/ringlight/pkg/board"
	"github.com/ringlight-eda/ringlight/pkg/kicad/sexp"
)

// writtenVersion is the file format version stamped on output (KiCad 7).
const writtenVersion = 20221018

// WriteFile serializes an in-memory board to a KiCad board file.
func WriteFile(filename string, m *board.Memory) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if err := Write(file, m); err != nil {
		return err
	}
	return file.Close()
}

// Write serializes an in-memory board as .kicad_pcb text. Only what the model
// holds is written: nets, footprints with pads, segments, vias, and zones.
// Pad geometry the model does not track (shape, size, drill) is emitted with
// generic through-hole defaults.
func Write(w io.Writer, m *board.Memory) error {
	out := bufio.NewWriter(w)

	fmt.Fprintf(out, "(kicad_pcb\n")
	fmt.Fprintf(out, "  (version %d)\n", writtenVersion)
	fmt.Fprintf(out, "  (generator %s)\n\n", sexp.Quote("ringlight"))

	fmt.Fprintf(out, "  (general\n    (thickness 1.6)\n  )\n\n")
	fmt.Fprintf(out, "  (layers\n    (0 %s signal)\n    (31 %s signal)\n  )\n\n",
		sexp.Quote(string(board.FrontCopper)), sexp.Quote(string(board.BackCopper)))

	for _, code := range m.Nets() {
		fmt.Fprintf(out, "  (net %d %s)\n", code, sexp.Quote(m.NetName(code)))
	}
	out.WriteByte('\n')

	for _, fp := range m.Footprints() {
		writeFootprint(out, m, fp)
	}

	for _, seg := range m.Segments() {
		fmt.Fprintf(out, "  (segment (start %s %s) (end %s %s) (width %s) (layer %s) (net %d))\n",
			f(seg.Start.X), f(seg.Start.Y), f(seg.End.X), f(seg.End.Y),
			f(seg.Width), sexp.Quote(string(seg.Layer)), seg.NetCode)
	}

	for _, via := range m.Vias() {
		fmt.Fprintf(out, "  (via (at %s %s) (size %s) (drill %s) (layers %s %s) (net %d))\n",
			f(via.Position.X), f(via.Position.Y), f(via.Width), f(via.Width/2),
			sexp.Quote(string(via.Layers[0])), sexp.Quote(string(via.Layers[1])), via.NetCode)
	}

	for _, fill := range m.Fills() {
		writeZone(out, m, fill)
	}

	fmt.Fprintf(out, ")\n")
	return out.Flush()
}

func writeFootprint(out io.Writer, m *board.Memory, fp *board.Footprint) {
	layer := board.FrontCopper
	if fp.IsFlipped() {
		layer = board.BackCopper
	}
	pos := fp.Position()
	fmt.Fprintf(out, "  (footprint %s (layer %s)\n", sexp.Quote("ringlight:"+fp.Reference()), sexp.Quote(string(layer)))
	fmt.Fprintf(out, "    (at %s %s %s)\n", f(pos.X), f(pos.Y), f(fp.Rotation()/10))
	fmt.Fprintf(out, "    (property %s %s (at 0 0) (layer %s))\n",
		sexp.Quote("Reference"), sexp.Quote(fp.Reference()), sexp.Quote("F.SilkS"))
	for _, pad := range fp.Pads() {
		mp := pad.(*board.FootprintPad)
		fmt.Fprintf(out, "    (pad %s thru_hole circle (at %s %s) (size 1.5 1.5) (drill 0.8) (layers %s %s) (net %d %s))\n",
			sexp.Quote(mp.Name()), f(mp.Offset().X), f(mp.Offset().Y),
			sexp.Quote("*.Cu"), sexp.Quote("*.Mask"),
			mp.Net(), sexp.Quote(m.NetName(mp.Net())))
	}
	fmt.Fprintf(out, "  )\n")
}

func writeZone(out io.Writer, m *board.Memory, fill *board.Fill) {
	fmt.Fprintf(out, "  (zone (net %d) (net_name %s) (layer %s)\n",
		fill.NetCode, sexp.Quote(m.NetName(fill.NetCode)), sexp.Quote(string(fill.Layer)))
	if fill.Thermal {
		fmt.Fprintf(out, "    (connect_pads (clearance 0.5))\n")
	} else {
		fmt.Fprintf(out, "    (connect_pads yes (clearance 0.5))\n")
	}
	fmt.Fprintf(out, "    (min_thickness 0.25)\n")
	fmt.Fprintf(out, "    (polygon\n      (pts\n")
	for _, v := range fill.Outline {
		fmt.Fprintf(out, "        (xy %s %s)\n", f(v.X), f(v.Y))
	}
	fmt.Fprintf(out, "      )\n    )\n  )\n")
}

// f formats a coordinate the way pcbnew does: shortest decimal form.
func f(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
