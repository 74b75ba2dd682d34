package sim

import (
	"math"

	"landersim/pkg/contact"
	"landersim/pkg/geom"
	"landersim/pkg/sites"
)

// easeBand is the angular error below which rotation slows proportionally.
var easeBand = geom.Rad(15)

// propel slews throttle and rotation toward their targets and burns fuel.
func propel(a *Actor, dt float64) {
	v := a.Vehicle
	if a.Fuel <= 0 {
		a.Thrust = 0
		return
	}

	delta := a.TargetThrust - a.Thrust
	if delta > 0 {
		a.Thrust = math.Min(1, a.Thrust+math.Min(v.IncreaseRate*dt, delta))
	} else if delta < 0 {
		a.Thrust = math.Max(0, a.Thrust-math.Min(v.DecreaseRate*dt, -delta))
	}

	diff := geom.AngleDiff(a.Rotation, a.TargetAngle)
	maxStep := v.MaxRotationRate * dt
	step := maxStep
	if math.Abs(diff) < easeBand {
		step = maxStep * math.Abs(diff) / easeBand
	}
	if math.Abs(diff) <= step {
		a.Rotation = a.TargetAngle
	} else {
		a.Rotation += math.Copysign(step, diff)
	}

	burn := v.BurnRate * a.Thrust * dt
	a.Fuel = math.Max(0, a.Fuel-burn)
}

// thrustForce is the world-space engine force for the current throttle.
func thrustForce(a *Actor) (geom.Vec2, bool) {
	if a.Thrust <= 0 {
		return geom.Vec2{}, false
	}
	return geom.Heading(a.Rotation).Scale(a.Thrust * a.Vehicle.MaxPower), true
}

// refuel buys fuel from the nearest site while landed. It returns the
// amount added.
func refuel(a *Actor, model *sites.SurfaceModel, dt float64) float64 {
	if a.State != contact.StateLanded || !a.Intent.Refuel || a.Fuel >= a.Vehicle.MaxFuel {
		return 0
	}
	nearby := model.Sites(geom.RangeFromCenter(a.Pos.X, a.Width))
	if len(nearby) == 0 {
		return 0
	}
	price := nearby[0].Info().FuelPrice

	need := a.Vehicle.MaxFuel - a.Fuel
	byTime := a.Vehicle.RefuelRate * dt
	byCredits := math.Inf(1)
	if price > 0 {
		byCredits = math.Max(0, a.Credits) / price
	}
	add := math.Min(need, math.Min(byTime, byCredits))
	if add <= 0 {
		return 0
	}
	a.Fuel += add
	a.Credits = math.Max(0, a.Credits-add*math.Max(0, price))
	return add
}

// transition applies lifecycle changes that do not depend on contacts. It
// reports whether the actor took off this tick.
func transition(a *Actor) bool {
	tookOff := false
	if a.State == contact.StateLanded && a.TargetThrust > 0 {
		a.State = contact.StateFlying
		a.Departing = true
		a.Pos.Y++
		tookOff = true
	}
	if a.State == contact.StateFlying && a.Fuel <= 0 && a.TargetThrust <= 0 {
		a.State = contact.StateOutOfFuel
	}
	return tookOff
}
