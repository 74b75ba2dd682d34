package sim

import (
	"testing"
)

func TestPhaseMachine(t *testing.T) {
	ground := PhaseInput{OnGround: true}
	hover := PhaseInput{Clearance: 500}
	descent := PhaseInput{Clearance: 500, ClimbRate: -5}
	approach := PhaseInput{Clearance: 200, ClimbRate: -5}
	final := PhaseInput{Clearance: 30, ClimbRate: -2}
	lift := PhaseInput{Clearance: 5, ClimbRate: 3}
	ascent := PhaseInput{Clearance: 40, ClimbRate: 5}

	tests := []struct {
		name     string
		sequence []PhaseInput
		expected Phase
	}{
		{"Start Mid-Air (Initial)", []PhaseInput{hover}, PhaseHover},
		{"Start On Ground (Initial)", []PhaseInput{ground}, PhaseGrounded},
		{"Descent Needs Two Samples", []PhaseInput{hover, descent}, PhaseHover},
		{"Descent Confirmed", []PhaseInput{hover, descent, descent}, PhaseDescent},
		{"Single Sample Ignored", []PhaseInput{hover, descent, hover}, PhaseHover},
		{
			"Normal Flow: Descent -> Approach -> Final",
			[]PhaseInput{descent, descent, approach, approach, final, final},
			PhaseFinal,
		},
		{"Lift Off", []PhaseInput{ground, ground, lift, lift}, PhaseLiftOff},
		{"Lift Off Becomes Ascent", []PhaseInput{ground, lift, lift, ascent, ascent}, PhaseAscent},
		{"Mid-Air Start: No Spurious Lift Off", []PhaseInput{lift, lift, lift}, PhaseAscent},
		{"Touchdown", []PhaseInput{final, final, ground, ground}, PhaseGrounded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewPhaseMachine()
			var last Phase
			for _, in := range tt.sequence {
				last = m.Update(in)
			}
			if last != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, last)
			}
			if m.Current() != last {
				t.Errorf("Current() = %s, want %s", m.Current(), last)
			}
		})
	}
}

func TestPhaseMachine_LastTransition(t *testing.T) {
	m := NewPhaseMachine()
	m.Update(PhaseInput{Time: 1, Clearance: 500})
	m.Update(PhaseInput{Time: 2, Clearance: 500, ClimbRate: -5})
	m.Update(PhaseInput{Time: 3, Clearance: 500, ClimbRate: -5})

	if ts, ok := m.LastTransition(PhaseHover); !ok || ts != 1 {
		t.Errorf("hover entered at %v (%v), want 1", ts, ok)
	}
	if ts, ok := m.LastTransition(PhaseDescent); !ok || ts != 3 {
		t.Errorf("descent entered at %v (%v), want 3", ts, ok)
	}
	if _, ok := m.LastTransition(PhaseFinal); ok {
		t.Error("final was never entered")
	}
}

func TestFormatPhase(t *testing.T) {
	tests := []struct {
		in   Phase
		want string
	}{
		{PhaseHover, "Hover"},
		{PhaseLiftOff, "Lift Off"},
		{PhaseFinal, "Final Approach"},
		{"", "Unknown"},
	}

	for _, tt := range tests {
		if got := FormatPhase(tt.in); got != tt.want {
			t.Errorf("FormatPhase(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
