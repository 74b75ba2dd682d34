package contact

import (
	"log/slog"
	"math"

	"landersim/pkg/geom"
	"landersim/pkg/physics"
	"landersim/pkg/sites"
)

// State is the actor lifecycle state.
type State string

const (
	StateFlying    State = "flying"
	StateLanded    State = "landed"
	StateCrashed   State = "crashed"
	StateOutOfFuel State = "out_of_fuel"
)

const (
	DefaultSafeSpeed = 10.0
	// DefaultSafeAngle is 15 degrees.
	DefaultSafeAngle = 15 * math.Pi / 180
	// PlaneTolerance is the base half width of the band around a site plane
	// in which a descending actor counts as touching it.
	PlaneTolerance = 0.5
)

// SiteSource is the landing-site read model.
type SiteSource interface {
	Sites(span geom.Range1D) []sites.Site
	ConsumeAward(uid string) float64
}

// Body is the part of the physics engine the resolver writes back to.
type Body interface {
	Teleport(uid string, pos geom.Vec2, angle *float64, clearVel bool)
}

// Actor is the authoritative kinematic and lifecycle state of one lander.
type Actor struct {
	UID   string
	State State

	Pos      geom.Vec2
	Vel      geom.Vec2
	Rotation float64
	// PrevY and PrevVel are the state at the end of the previous tick. The
	// solver has already arrested the body when a contact is reported, so
	// on contact the faster of Vel and PrevVel is the impact velocity.
	PrevY   float64
	PrevVel geom.Vec2

	Width  float64
	Height float64

	SafeSpeed float64
	SafeAngle float64

	Thrust       float64
	TargetThrust float64
	TargetAngle  float64

	Credits float64

	// Departing is set on takeoff. Landing is suppressed until the actor
	// climbs clear of the surface it left or its throttle target drops to
	// zero.
	Departing bool
}

// Bottom is the y of the actor's lower edge.
func (a *Actor) Bottom() float64 { return a.Pos.Y - a.Height/2 }

// Outcome describes what one resolution did.
type Outcome struct {
	State     State
	Site      string
	AwardPaid float64
}

// Resolver decides landing versus crash once per physics tick.
type Resolver struct {
	Sites  SiteSource
	Engine Body
	Logger *slog.Logger
}

// NewResolver creates a resolver. A nil logger uses slog.Default.
func NewResolver(src SiteSource, engine Body, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{Sites: src, Engine: engine, Logger: logger}
}

// Resolve evaluates the actor against the tick's contact report. Actors
// that are not flying are returned unchanged.
func (r *Resolver) Resolve(a *Actor, report physics.ContactReport, dt float64) Outcome {
	if a == nil {
		return Outcome{}
	}
	if a.State != StateFlying {
		return Outcome{State: a.State}
	}

	var candidates []sites.Site
	if r.Sites != nil {
		candidates = r.Sites.Sites(geom.RangeFromCenter(a.Pos.X, a.Width/2))
	}

	impact := a.Vel
	if report.Colliding && a.PrevVel.Len() > impact.Len() {
		impact = a.PrevVel
	}

	if a.Departing && (a.TargetThrust <= 0 || r.clear(a, report, candidates, dt)) {
		a.Departing = false
	}

	for _, s := range candidates {
		rel := impact.Sub(s.Vel)
		if a.Departing || rel.Y > 0 || !r.safe(a, rel) {
			continue
		}
		if math.Abs(a.Bottom()-s.Y) <= bandTolerance(rel, dt) {
			return r.land(a, s, rel.Len())
		}
	}

	if report.Colliding {
		rel := impact
		var pad *sites.Site
		if len(candidates) > 0 {
			pad = &candidates[0]
			rel = rel.Sub(pad.Vel)
		}
		if rel.Y <= 0 {
			// The terrain under a site sits within a segment radius of it.
			if pad != nil && r.safe(a, rel) && math.Abs(a.Bottom()-pad.Y) <= bandTolerance(rel, dt)+physics.TerrainRadius {
				if a.Departing {
					return Outcome{State: a.State}
				}
				return r.land(a, *pad, rel.Len())
			}
			return r.crash(a, "terrain", rel.Len())
		}
		return Outcome{State: a.State}
	}

	prevBottom := a.PrevY - a.Height/2
	for _, s := range candidates {
		rel := a.Vel.Sub(s.Vel)
		if prevBottom >= s.Y && a.Bottom() < s.Y && rel.Len() > a.safeSpeed() {
			return r.crash(a, s.UID, rel.Len())
		}
	}

	return Outcome{State: a.State}
}

// bandTolerance is the half width of the band around a site plane in which
// a descending actor counts as touching it.
func bandTolerance(rel geom.Vec2, dt float64) float64 {
	return PlaneTolerance + math.Abs(rel.Y)*dt
}

// clear reports whether a departing actor is climbing, out of contact and
// above the band of every site under it.
func (r *Resolver) clear(a *Actor, report physics.ContactReport, candidates []sites.Site, dt float64) bool {
	if report.Colliding || a.Vel.Y <= 0 {
		return false
	}
	for _, s := range candidates {
		if a.Bottom()-s.Y <= bandTolerance(a.Vel.Sub(s.Vel), dt) {
			return false
		}
	}
	return true
}

func (a *Actor) safeSpeed() float64 {
	if a.SafeSpeed <= 0 {
		return DefaultSafeSpeed
	}
	return a.SafeSpeed
}

func (a *Actor) safeAngle() float64 {
	if a.SafeAngle <= 0 {
		return DefaultSafeAngle
	}
	return a.SafeAngle
}

func (r *Resolver) safe(a *Actor, rel geom.Vec2) bool {
	return math.Abs(a.Rotation) <= a.safeAngle() && rel.Len() <= a.safeSpeed()
}

func (r *Resolver) land(a *Actor, s sites.Site, impact float64) Outcome {
	a.State = StateLanded
	a.Vel = geom.Vec2{}
	a.Rotation = 0
	a.Pos.Y = s.Y + a.Height/2
	a.Thrust = 0
	a.TargetThrust = 0
	a.TargetAngle = 0
	a.Departing = false

	paid := 0.0
	if r.Sites != nil {
		paid = r.Sites.ConsumeAward(s.UID)
	}
	a.Credits += paid

	if r.Engine != nil {
		zero := 0.0
		r.Engine.Teleport(a.UID, a.Pos, &zero, true)
	}

	r.Logger.Info("Actor landed",
		"actor", a.UID,
		"site", s.UID,
		"impact_speed", impact,
		"award", paid,
		"credits", a.Credits,
	)
	return Outcome{State: StateLanded, Site: s.UID, AwardPaid: paid}
}

func (r *Resolver) crash(a *Actor, cause string, speed float64) Outcome {
	a.State = StateCrashed
	a.Vel = geom.Vec2{}
	a.Thrust = 0
	a.Departing = false

	if r.Engine != nil {
		rot := a.Rotation
		r.Engine.Teleport(a.UID, a.Pos, &rot, true)
	}

	r.Logger.Info("Actor crashed",
		"actor", a.UID,
		"cause", cause,
		"speed", speed,
		"rotation_deg", geom.Deg(a.Rotation),
	)
	return Outcome{State: StateCrashed}
}
