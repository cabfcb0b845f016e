package illum

// NetRole is the inferred electrical function of a net.
type NetRole int

const (
	// NetUnknown marks a net the classifier cannot place; callers skip it.
	NetUnknown NetRole = iota
	// NetLedStrip is the two-terminal link between consecutive strip
	// elements (LED to LED, or LED to its driving resistor).
	NetLedStrip
	// NetPower is the shared supply bus tying the resistors together.
	NetPower
	// NetGround is the shared return bus the LED lines end on.
	NetGround
)

func (r NetRole) String() string {
	switch r {
	case NetLedStrip:
		return "led strip"
	case NetPower:
		return "power"
	case NetGround:
		return "ground"
	default:
		return "?"
	}
}

// Classify infers the role of a net from the composition of the terminals
// sharing it. This is a heuristic over board topology, not a guaranteed
// classification; treat NetUnknown as "skip", not as an error.
func Classify(terminals []Terminal) NetRole {
	allLEDs := true
	allResistors := true
	for _, t := range terminals {
		switch t.Role.Kind {
		case RoleLED:
			allResistors = false
		case RoleResistor:
			allLEDs = false
		}
	}

	if allLEDs != allResistors {
		if allResistors {
			// Two or more resistor pads tied together: the supply bus.
			return NetPower
		}
		if len(terminals) != 2 {
			// 1 or 3+ LED terminals: the return bus.
			return NetGround
		}
		// Two LED terminals. The same pad name on both components means
		// the tied-together side of the strip, i.e. ground; different pads
		// chain one element to the next.
		if terminals[0].Pad == terminals[1].Pad {
			return NetGround
		}
		return NetLedStrip
	}
	if !allLEDs && len(terminals) == 2 {
		// Mixed resistor/LED two-terminal net: a strip link.
		return NetLedStrip
	}
	return NetUnknown
}
