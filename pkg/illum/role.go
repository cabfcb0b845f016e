package illum

import (
	"fmt"
	"strconv"
	"strings"
)

// RoleKind discriminates the component roles of a ring design.
type RoleKind int

const (
	RoleResistor RoleKind = iota
	RoleLED
	RolePin
	RoleTransistor
)

// ComponentRole tags a placed component with its function in the design. It
// is assigned once at placement time and carried on every Terminal, so net
// classification never has to inspect reference strings.
type ComponentRole struct {
	Kind RoleKind
	// Line is the driver line index, for resistors and LEDs.
	Line int
	// Index is the LED position within its line.
	Index int
}

func (r ComponentRole) String() string {
	switch r.Kind {
	case RoleResistor:
		return fmt.Sprintf("resistor(line %d)", r.Line)
	case RoleLED:
		return fmt.Sprintf("led(line %d, pos %d)", r.Line, r.Index)
	case RolePin:
		return "pin"
	case RoleTransistor:
		return "transistor"
	default:
		return "unknown"
	}
}

// RoleFor infers a component's role from its reference designator using the
// configured naming scheme. Placement assigns roles directly; this is for
// inspection tooling that looks at a board without placing it.
func (o Options) RoleFor(ref string) (ComponentRole, bool) {
	switch ref {
	case o.PinName:
		return ComponentRole{Kind: RolePin}, true
	case o.TransistorName:
		return ComponentRole{Kind: RoleTransistor}, true
	}
	if idx, ok := numberSuffix(ref, o.LEDPrefix); ok {
		if o.NLEDsPerLine == 0 {
			return ComponentRole{}, false
		}
		return ComponentRole{Kind: RoleLED, Line: idx / o.NLEDsPerLine, Index: idx % o.NLEDsPerLine}, true
	}
	if line, ok := numberSuffix(ref, o.ResistorPrefix); ok {
		return ComponentRole{Kind: RoleResistor, Line: line}, true
	}
	return ComponentRole{}, false
}

// numberSuffix parses "<prefix><n>" references.
func numberSuffix(ref, prefix string) (int, bool) {
	if prefix == "" || !strings.HasPrefix(ref, prefix) {
		return 0, false
	}
	n, err := strconv.Atoi(ref[len(prefix):])
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// Terminal identifies one electrical connection point of a placed component.
type Terminal struct {
	// Component is the owning component's reference designator.
	Component string
	// Pad is the pad name within the component.
	Pad string
	// Role is the owning component's role.
	Role ComponentRole
}
