package sim

import (
	"github.com/google/uuid"

	"landersim/pkg/contact"
	"landersim/pkg/geom"
)

// Actor is one lander. The embedded contact.Actor is the authoritative
// kinematic and lifecycle state. The physics body mirrors it.
type Actor struct {
	contact.Actor

	Vehicle Vehicle
	Fuel    float64
	Acc     geom.Vec2
	Start   geom.Vec2

	// Radar enables sensor readings on the sensor cadence.
	Radar    bool
	Readings SensorReadings
	Intent   Intent

	vsi   *VerticalSpeedBuffer
	phase *PhaseMachine
}

// NewActor creates a flying lander at start with a full tank. An empty uid
// gets a generated one.
func NewActor(uid string, v Vehicle, start geom.Vec2) *Actor {
	if uid == "" {
		uid = "lander_" + uuid.NewString()
	}
	if len(v.Hull) > 0 {
		v.Width, v.Height = geom.Extent(v.Hull)
	}
	a := &Actor{
		Actor: contact.Actor{
			UID:       uid,
			State:     contact.StateFlying,
			Pos:       start,
			PrevY:     start.Y,
			Width:     v.Width,
			Height:    v.Height,
			SafeSpeed: v.SafeSpeed,
			SafeAngle: v.SafeAngle,
		},
		Vehicle: v,
		Fuel:    v.MaxFuel,
		Start:   start,
		Radar:   true,
		vsi:     NewVerticalSpeedBuffer(1.0),
		phase:   NewPhaseMachine(),
	}
	return a
}

// Mass is dry mass plus the mass of the remaining fuel.
func (a *Actor) Mass() float64 {
	return a.Vehicle.DryMass + a.Fuel*a.Vehicle.FuelDensity
}

// Hull is the collision geometry in local space.
func (a *Actor) Hull() [][]geom.Vec2 {
	if len(a.Vehicle.Hull) > 0 {
		return a.Vehicle.Hull
	}
	return [][]geom.Vec2{geom.Box(a.Width, a.Height)}
}

// Phase is the last classified flight phase.
func (a *Actor) Phase() Phase { return a.phase.Current() }

// Reset puts the actor back at its start pose with a full tank.
func (a *Actor) Reset() {
	a.Pos = a.Start
	a.PrevY = a.Start.Y
	a.Vel = geom.Vec2{}
	a.Acc = geom.Vec2{}
	a.Rotation = 0
	a.Fuel = a.Vehicle.MaxFuel
	a.Thrust = 0
	a.TargetThrust = 0
	a.TargetAngle = 0
	a.State = contact.StateFlying
	a.Departing = false
	a.Intent = Intent{}
	a.Readings = SensorReadings{}
	a.vsi.Reset()
	a.phase = NewPhaseMachine()
}

// applyIntent copies the pending intent into the engine targets.
func (a *Actor) applyIntent() {
	if a.Intent.TargetThrust != nil {
		a.TargetThrust = geom.Clamp(*a.Intent.TargetThrust, 0, 1)
	}
	if a.Intent.TargetAngle != nil {
		a.TargetAngle = *a.Intent.TargetAngle
	}
}
