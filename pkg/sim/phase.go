package sim

import "strings"

// Phase is a coarse flight phase derived from sensor telemetry.
type Phase string

const (
	PhaseGrounded Phase = "grounded"
	PhaseLiftOff  Phase = "lift_off"
	PhaseAscent   Phase = "ascent"
	PhaseHover    Phase = "hover"
	PhaseDescent  Phase = "descent"
	PhaseApproach Phase = "approach"
	PhaseFinal    Phase = "final_approach"
)

const (
	climbThreshold   = 1.0   // units per second
	approachHeight   = 300.0 // clearance
	finalHeight      = 50.0
	liftOffClearance = 30.0
)

// PhaseInput is one telemetry sample for the phase machine.
type PhaseInput struct {
	Time      float64
	OnGround  bool
	Clearance float64
	ClimbRate float64
}

// PhaseMachine tracks the flight phase across sensor ticks. A new phase
// must be seen on two consecutive ticks before it is adopted.
type PhaseMachine struct {
	current        Phase
	candidate      Phase
	confirmations  int
	wasOnGround    bool
	lastTransition map[Phase]float64
}

// NewPhaseMachine creates a machine in an uninitialized state.
func NewPhaseMachine() *PhaseMachine {
	return &PhaseMachine{lastTransition: make(map[Phase]float64)}
}

// Update classifies the sample and returns the confirmed phase.
func (m *PhaseMachine) Update(in PhaseInput) Phase {
	if m.current == "" {
		if in.OnGround {
			m.current = PhaseGrounded
			m.wasOnGround = true
		} else {
			m.current = m.airborneCandidate(in)
		}
		m.lastTransition[m.current] = in.Time
		return m.current
	}

	candidate := m.detectCandidate(in)

	switch {
	case candidate == m.current:
		m.candidate = ""
		m.confirmations = 0
	case candidate == m.candidate:
		m.confirmations++
		if m.confirmations >= 1 {
			m.current = candidate
			m.lastTransition[m.current] = in.Time
			m.candidate = ""
			m.confirmations = 0
		}
	default:
		m.candidate = candidate
		m.confirmations = 0
	}

	if in.OnGround {
		m.wasOnGround = true
	}
	switch m.current {
	case PhaseAscent, PhaseHover, PhaseDescent, PhaseApproach:
		m.wasOnGround = false
	}

	return m.current
}

// Current returns the confirmed phase.
func (m *PhaseMachine) Current() Phase {
	return m.current
}

// LastTransition returns the simulation time the phase was last entered.
func (m *PhaseMachine) LastTransition(p Phase) (float64, bool) {
	t, ok := m.lastTransition[p]
	return t, ok
}

func (m *PhaseMachine) detectCandidate(in PhaseInput) Phase {
	if in.OnGround {
		return PhaseGrounded
	}
	if m.wasOnGround && in.Clearance < liftOffClearance && in.ClimbRate > 0 {
		return PhaseLiftOff
	}
	return m.airborneCandidate(in)
}

func (m *PhaseMachine) airborneCandidate(in PhaseInput) Phase {
	switch {
	case in.ClimbRate > climbThreshold:
		return PhaseAscent
	case in.ClimbRate < -climbThreshold:
		if in.Clearance < finalHeight {
			return PhaseFinal
		}
		if in.Clearance < approachHeight {
			return PhaseApproach
		}
		return PhaseDescent
	default:
		return PhaseHover
	}
}

// FormatPhase returns a human-readable title for the phase.
func FormatPhase(p Phase) string {
	if p == "" {
		return "Unknown"
	}
	parts := strings.Split(string(p), "_")
	for i, s := range parts {
		if s != "" {
			parts[i] = strings.ToUpper(s[0:1]) + s[1:]
		}
	}
	return strings.Join(parts, " ")
}
