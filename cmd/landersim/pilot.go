package main

import (
	"math"

	"landersim/pkg/contact"
	"landersim/pkg/sim"
)

// descentPilot is a plain proportional controller: it drifts over the
// nearest radar contact, bleeds off horizontal speed and lets the vertical
// speed target shrink with altitude.
type descentPilot struct {
	gravity  float64
	maxPower float64

	maxTilt    float64
	gainVX     float64
	gainVY     float64
	uprightAlt float64
}

func newDescentPilot(gravity, maxPower float64) *descentPilot {
	return &descentPilot{
		gravity:    gravity,
		maxPower:   maxPower,
		maxTilt:    0.35,
		gainVX:     0.04,
		gainVY:     0.25,
		uprightAlt: 25,
	}
}

// descentRate is the commanded vertical speed (negative is down).
func descentRate(alt float64) float64 {
	switch {
	case alt > 300:
		return -12
	case alt > 80:
		return -6
	case alt > 20:
		return -3
	default:
		return -1.5
	}
}

func (p *descentPilot) Update(_ float64, in sim.PassiveSensors, _ sim.ActiveSensors) sim.Intent {
	if in.State != contact.StateFlying {
		return sim.Intent{TargetThrust: sim.Target(0), TargetAngle: sim.Target(0)}
	}

	// Horizontal speed target: head for the nearest site while high, stop
	// moving sideways once close to the ground.
	wantVX := 0.0
	if len(in.Radar) > 0 && in.Altitude > p.uprightAlt {
		wantVX = clamp(in.Radar[0].RelX*0.05, -15, 15)
	}
	angle := 0.0
	if in.Altitude > p.uprightAlt {
		angle = clamp(p.gainVX*(wantVX-in.VX), -p.maxTilt, p.maxTilt)
	}

	hover := 0.0
	if p.maxPower > 0 {
		hover = in.Mass * p.gravity / (p.maxPower * math.Cos(angle))
	}
	thrust := clamp(hover+p.gainVY*(descentRate(in.Altitude)-in.VY), 0, 1)

	return sim.Intent{TargetThrust: sim.Target(thrust), TargetAngle: sim.Target(angle)}
}

func clamp(v, lo, hi float64) float64 { return math.Max(lo, math.Min(hi, v)) }
