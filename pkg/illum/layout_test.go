package illum

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"

	"github.com/ringlight-eda/ringlight/pkg/polar"
)

func TestPlacementsCountAndSpacing(t *testing.T) {
	tests := []struct {
		name  string
		lines int
		leds  int
	}{
		{"3x3", 3, 3},
		{"1x0", 1, 0},
		{"5x2", 5, 2},
		{"2x7", 2, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := Defaults()
			opts.NLines = tt.lines
			opts.NLEDsPerLine = tt.leds

			var all []Placement
			for p := range opts.Placements() {
				all = append(all, p)
			}

			want := tt.lines * (1 + tt.leds)
			if len(all) != want {
				t.Fatalf("got %d placements, want %d", len(all), want)
			}

			seen := make(map[string]bool)
			for _, p := range all {
				if seen[p.Name] {
					t.Errorf("duplicate name %q", p.Name)
				}
				seen[p.Name] = true
			}

			// Cumulative angle decreases by exactly one step per element.
			center := polar.Point{X: opts.CenterXMM, Y: opts.CenterYMM}
			step := 2 * math.Pi / float64(want)
			for i, p := range all {
				wantAngle := -float64(i)*step + opts.RotationRad
				gotAngle, gotRadius := polar.ToPolar(center, p.Place.Point())
				diff := math.Mod(gotAngle-wantAngle, 2*math.Pi)
				if diff < -math.Pi {
					diff += 2 * math.Pi
				} else if diff > math.Pi {
					diff -= 2 * math.Pi
				}
				if math.Abs(diff) > 1e-9 {
					t.Errorf("placement %d (%s) at angle %v, want %v", i, p.Name, gotAngle, wantAngle)
				}
				if !scalar.EqualWithinAbs(gotRadius, opts.RadiusMM, 1e-9) {
					t.Errorf("placement %d (%s) at radius %v, want %v", i, p.Name, gotRadius, opts.RadiusMM)
				}
			}
		})
	}
}

func TestPlacementsOrderAndRoles(t *testing.T) {
	opts := Defaults()
	opts.NLines = 2
	opts.NLEDsPerLine = 3

	var names []string
	var roles []ComponentRole
	for p := range opts.Placements() {
		names = append(names, p.Name)
		roles = append(roles, p.Role)
	}

	wantNames := []string{"R0", "LED0", "LED1", "LED2", "R1", "LED3", "LED4", "LED5"}
	for i, want := range wantNames {
		if names[i] != want {
			t.Errorf("placement %d named %q, want %q", i, names[i], want)
		}
	}
	if roles[0] != (ComponentRole{Kind: RoleResistor, Line: 0}) {
		t.Errorf("R0 role = %v", roles[0])
	}
	if roles[6] != (ComponentRole{Kind: RoleLED, Line: 1, Index: 1}) {
		t.Errorf("LED4 role = %v", roles[6])
	}
}

func TestPlacementRotationTangent(t *testing.T) {
	// Each element's rotation is perpendicular to its radius plus its
	// type-specific orientation offset.
	opts := Defaults()
	opts.NLines = 3
	opts.NLEDsPerLine = 3

	center := polar.Point{X: opts.CenterXMM, Y: opts.CenterYMM}
	for p := range opts.Placements() {
		angle, _ := polar.ToPolar(center, p.Place.Point())
		offset := opts.ResistorOrientationRad
		if p.Role.Kind == RoleLED {
			offset = opts.LEDOrientationRad
		}
		want := polar.Ortho(angle) + offset
		diff := math.Mod(p.Place.Rot-want, 2*math.Pi)
		if diff < -math.Pi {
			diff += 2 * math.Pi
		} else if diff > math.Pi {
			diff -= 2 * math.Pi
		}
		if math.Abs(diff) > 1e-9 {
			t.Errorf("%s rotation %v, want %v (mod 2π)", p.Name, p.Place.Rot, want)
		}
	}
}

func TestRoleFor(t *testing.T) {
	opts := Defaults()

	tests := []struct {
		ref  string
		want ComponentRole
		ok   bool
	}{
		{"R0", ComponentRole{Kind: RoleResistor, Line: 0}, true},
		{"R2", ComponentRole{Kind: RoleResistor, Line: 2}, true},
		{"LED0", ComponentRole{Kind: RoleLED, Line: 0, Index: 0}, true},
		{"LED7", ComponentRole{Kind: RoleLED, Line: 2, Index: 1}, true},
		{"J0", ComponentRole{Kind: RolePin}, true},
		{"Q0", ComponentRole{Kind: RoleTransistor}, true},
		{"C1", ComponentRole{}, false},
		{"LEDx", ComponentRole{}, false},
		{"R", ComponentRole{}, false},
	}

	for _, tt := range tests {
		got, ok := opts.RoleFor(tt.ref)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("RoleFor(%q) = %v, %v; want %v, %v", tt.ref, got, ok, tt.want, tt.ok)
		}
	}
}
