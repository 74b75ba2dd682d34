package sim

import (
	"landersim/pkg/contact"
	"landersim/pkg/physics"
	"landersim/pkg/sensor"
)

// SensorReadings are refreshed on the sensor cadence.
type SensorReadings struct {
	Radar     []sensor.RadarContact
	Proximity *sensor.ProximityContact
	ClimbRate float64
}

// PassiveSensors is the snapshot a controller sees each sensor tick.
type PassiveSensors struct {
	X, Y         float64
	Altitude     float64 // clearance between hull bottom and terrain
	TerrainY     float64
	TerrainSlope float64
	VX, VY       float64
	AX, AY       float64
	Angle        float64
	Mass         float64
	Thrust       float64
	Fuel         float64
	State        contact.State
	Phase        Phase
	PhaseAge     float64 // seconds since Phase was entered
	ClimbRate    float64
	Radar        []sensor.RadarContact
	Proximity    *sensor.ProximityContact
}

// ActiveSensors are queries a controller may issue on demand.
type ActiveSensors interface {
	// Raycast casts from the actor along a world angle (0 = +X, CCW).
	// maxRange <= 0 uses the radar inner range.
	Raycast(angle, maxRange float64) physics.RayHit
	// RaycastTerrain marches the sampled terrain only. It ignores sites and
	// other actors and is not limited to the physics window.
	RaycastTerrain(angle, maxRange float64) sensor.RayHit
}

// Controller turns sensor snapshots into control intents.
type Controller interface {
	Update(dt float64, passive PassiveSensors, active ActiveSensors) Intent
}

type activeSensors struct {
	w     *World
	actor *Actor
}

func (s activeSensors) Raycast(angle, maxRange float64) physics.RayHit {
	if maxRange <= 0 {
		maxRange = s.actor.Vehicle.RadarInner
	}
	return s.w.engine.Raycast(s.actor.Pos, angle, maxRange, s.actor.UID)
}

func (s activeSensors) RaycastTerrain(angle, maxRange float64) sensor.RayHit {
	if maxRange <= 0 {
		maxRange = s.actor.Vehicle.RadarInner
	}
	return sensor.Raycast(s.w.sampler, s.actor.Pos, angle, maxRange, 0)
}

func (w *World) passive(a *Actor) PassiveSensors {
	terrainY := w.sampler.Height(a.Pos.X, 0)
	_, slope := sensor.SurfaceMetrics(w.sampler, a.Pos.X)
	return PassiveSensors{
		X:            a.Pos.X,
		Y:            a.Pos.Y,
		Altitude:     a.Bottom() - terrainY,
		TerrainY:     terrainY,
		TerrainSlope: slope,
		VX:           a.Vel.X,
		VY:           a.Vel.Y,
		AX:           a.Acc.X,
		AY:           a.Acc.Y,
		Angle:        a.Rotation,
		Mass:         a.Mass(),
		Thrust:       a.Thrust,
		Fuel:         a.Fuel,
		State:        a.State,
		Phase:        a.Phase(),
		PhaseAge:     w.phaseAge(a, a.Phase()),
		ClimbRate:    a.Readings.ClimbRate,
		Radar:        a.Readings.Radar,
		Proximity:    a.Readings.Proximity,
	}
}

// sense refreshes readings for one actor.
func (w *World) sense(a *Actor) {
	if !a.Radar {
		return
	}
	a.Readings.Radar = sensor.Radar(a.Pos, w.model, a.Vehicle.RadarInner, a.Vehicle.RadarOuter)
	if c, ok := w.proximity.Contact(w.sampler, a.Pos, a.Vehicle.ProximityRange); ok {
		a.Readings.Proximity = &c
	} else {
		a.Readings.Proximity = nil
	}
	a.Readings.ClimbRate = a.vsi.Update(w.elapsed, a.Pos.Y)

	prev := a.phase.Current()
	phase := a.phase.Update(PhaseInput{
		Time:      w.elapsed,
		OnGround:  a.State == contact.StateLanded,
		Clearance: a.Bottom() - w.sampler.Height(a.Pos.X, 0),
		ClimbRate: a.Readings.ClimbRate,
	})
	if phase != prev && prev != "" {
		w.logger.Debug("Flight phase changed",
			"actor", a.UID,
			"from", FormatPhase(prev),
			"to", FormatPhase(phase),
			"held_s", w.phaseAge(a, prev),
		)
	}
}

// phaseAge is the simulated time since the actor last entered p.
func (w *World) phaseAge(a *Actor, p Phase) float64 {
	t, ok := a.phase.LastTransition(p)
	if !ok {
		return 0
	}
	return w.elapsed - t
}
