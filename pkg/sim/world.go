package sim

import (
	"log/slog"
	"math"

	"landersim/pkg/contact"
	"landersim/pkg/geom"
	"landersim/pkg/logging"
	"landersim/pkg/physics"
	"landersim/pkg/sensor"
	"landersim/pkg/sites"
	"landersim/pkg/terrain"
	"landersim/pkg/tracker"
)

const (
	DefaultPhysicsDT   = 1.0 / 120
	DefaultSensorDT    = 1.0 / 60
	DefaultMaxSubSteps = 8
)

// Options configures a World.
type Options struct {
	PhysicsDT   float64
	SensorDT    float64
	MaxSubSteps int

	Physics physics.Options

	ProximityCapacity int
	ProximityQuantize float64

	Logger  *slog.Logger
	Tracker *tracker.Tracker
}

// DefaultOptions returns 120 Hz physics and 60 Hz sensors.
func DefaultOptions() Options {
	return Options{
		PhysicsDT:         DefaultPhysicsDT,
		SensorDT:          DefaultSensorDT,
		MaxSubSteps:       DefaultMaxSubSteps,
		Physics:           physics.DefaultOptions(),
		ProximityCapacity: sensor.DefaultProximityCapacity,
		ProximityQuantize: sensor.DefaultProximityQuantize,
	}
}

// TickStats summarises one Update call.
type TickStats struct {
	PhysicsTicks int
	SensorTicks  int
	Dropped      float64 // seconds discarded by the sub-step cap
}

// World owns the physics engine, the site registry and every actor. It is
// driven from a single goroutine.
type World struct {
	opts   Options
	logger *slog.Logger

	sampler   terrain.Sampler
	engine    *physics.Engine
	registry  *sites.Registry
	model     *sites.SurfaceModel
	resolver  *contact.Resolver
	proximity *sensor.Proximity

	actors      map[string]*Actor
	order       []string
	controllers map[string]Controller

	accPhysics float64
	accSensor  float64
	elapsed    float64
}

// NewWorld builds a world over base terrain. Terrain-bound sites from the
// registry are carved into the terrain every query.
func NewWorld(base terrain.Sampler, registry *sites.Registry, opts Options) *World {
	d := DefaultOptions()
	if opts.PhysicsDT <= 0 {
		opts.PhysicsDT = d.PhysicsDT
	}
	if opts.SensorDT <= 0 {
		opts.SensorDT = d.SensorDT
	}
	if opts.MaxSubSteps <= 0 {
		opts.MaxSubSteps = d.MaxSubSteps
	}
	if opts.ProximityCapacity <= 0 {
		opts.ProximityCapacity = d.ProximityCapacity
	}
	if opts.ProximityQuantize <= 0 {
		opts.ProximityQuantize = d.ProximityQuantize
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Physics.Logger == nil {
		opts.Physics.Logger = logger
	}
	if opts.Physics.Tracker == nil {
		opts.Physics.Tracker = opts.Tracker
	}
	if registry == nil {
		registry = sites.NewRegistry(logger)
	}

	model := sites.NewSurfaceModel()
	sampler := terrain.Modified{Base: base, Modifier: sites.TerrainModifier{Sites: model}}
	engine := physics.New(sampler, opts.Physics)

	w := &World{
		opts:        opts,
		logger:      logger,
		sampler:     sampler,
		engine:      engine,
		registry:    registry,
		model:       model,
		resolver:    contact.NewResolver(model, engine, logger),
		proximity:   sensor.NewProximity(opts.ProximityCapacity, opts.ProximityQuantize, opts.Tracker),
		actors:      make(map[string]*Actor),
		controllers: make(map[string]Controller),
	}
	w.registry.Project(w.model, w)
	w.engine.SetLandingSiteColliders(w.model.All())
	return w
}

// AddActor attaches an actor, replacing any actor with the same uid. The
// first actor becomes the terrain window anchor.
func (w *World) AddActor(a *Actor) {
	if _, ok := w.actors[a.UID]; !ok {
		w.order = append(w.order, a.UID)
	}
	w.actors[a.UID] = a
	w.engine.Attach(a.UID, a.Hull(), a.Mass(), physics.Pose{Pos: a.Pos, Angle: a.Rotation}, physics.DefaultBodyOptions())
	w.logger.Info("Actor added", "actor", a.UID, "x", a.Pos.X, "y", a.Pos.Y, "fuel", a.Fuel)
}

// RemoveActor detaches an actor. Unknown uids are ignored.
func (w *World) RemoveActor(uid string) {
	if _, ok := w.actors[uid]; !ok {
		return
	}
	delete(w.actors, uid)
	delete(w.controllers, uid)
	for i, id := range w.order {
		if id == uid {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
	w.engine.Detach(uid)
}

// ResetActor restores the actor's start state and its body.
func (w *World) ResetActor(uid string) {
	a, ok := w.actors[uid]
	if !ok {
		return
	}
	a.Reset()
	zero := 0.0
	w.engine.Teleport(uid, a.Pos, &zero, true)
	w.engine.SetMass(uid, a.Mass())
}

// SetFocus makes the terrain window follow uid.
func (w *World) SetFocus(uid string) { w.engine.SetAnchor(uid) }

// SetIntent stores the control intent used from the next physics tick.
func (w *World) SetIntent(uid string, in Intent) {
	if a, ok := w.actors[uid]; ok {
		a.Intent = in
	}
}

// SetController lets c drive the actor on the sensor cadence. A nil
// controller removes it.
func (w *World) SetController(uid string, c Controller) {
	if _, ok := w.actors[uid]; !ok {
		return
	}
	if c == nil {
		delete(w.controllers, uid)
		return
	}
	w.controllers[uid] = c
}

// Actor returns the actor registered under uid.
func (w *World) Actor(uid string) (*Actor, bool) {
	a, ok := w.actors[uid]
	return a, ok
}

// Actors returns actors in insertion order.
func (w *World) Actors() []*Actor {
	out := make([]*Actor, 0, len(w.order))
	for _, uid := range w.order {
		out = append(out, w.actors[uid])
	}
	return out
}

func (w *World) Engine() *physics.Engine { return w.engine }
func (w *World) Sites() *sites.SurfaceModel { return w.model }
func (w *World) Registry() *sites.Registry { return w.registry }
func (w *World) Terrain() terrain.Sampler { return w.sampler }
func (w *World) Proximity() *sensor.Proximity { return w.proximity }
func (w *World) Elapsed() float64 { return w.elapsed }
func (w *World) Passive(a *Actor) PassiveSensors { return w.passive(a) }

// ParentState lets sites ride on actors.
func (w *World) ParentState(uid string) (geom.Transform, geom.Vec2, bool) {
	a, ok := w.actors[uid]
	if !ok {
		return geom.Transform{}, geom.Vec2{}, false
	}
	return geom.Transform{Pos: a.Pos, Angle: a.Rotation}, a.Vel, true
}

// Update advances the world by a frame. Physics runs in fixed ticks of
// PhysicsDT, at most MaxSubSteps per call; the rest of the backlog is
// dropped. Sensors and controllers run every SensorDT.
func (w *World) Update(frameDT float64) TickStats {
	var st TickStats
	if frameDT <= 0 || math.IsNaN(frameDT) {
		return st
	}

	w.accPhysics += frameDT
	w.accSensor += frameDT

	for w.accPhysics >= w.opts.PhysicsDT {
		if st.PhysicsTicks == w.opts.MaxSubSteps {
			st.Dropped = w.accPhysics
			w.accPhysics = 0
			break
		}
		w.accPhysics -= w.opts.PhysicsDT
		w.Tick(w.opts.PhysicsDT)
		st.PhysicsTicks++
	}

	for w.accSensor >= w.opts.SensorDT {
		w.accSensor -= w.opts.SensorDT
		w.SensorTick(w.opts.SensorDT)
		st.SensorTicks++
	}

	if st.Dropped > 0 {
		logging.Trace(w.logger, "Physics backlog dropped", "seconds", st.Dropped, "ticks", st.PhysicsTicks)
	}
	return st
}

// Tick runs one physics step: site motion and projection, colliders,
// propulsion, forces, integration, sync, contacts, refuel and transitions.
func (w *World) Tick(dt float64) {
	w.elapsed += dt

	w.registry.Advance(dt, w)
	w.registry.Project(w.model, w)
	w.engine.SetLandingSiteColliders(w.model.All())

	for _, uid := range w.order {
		a := w.actors[uid]
		a.PrevY = a.Pos.Y
		a.PrevVel = a.Vel
		a.applyIntent()

		switch a.State {
		case contact.StateFlying, contact.StateLanded, contact.StateOutOfFuel:
			propel(a, dt)
		default:
			a.Thrust = 0
		}
		w.engine.SetMass(uid, a.Mass())

		if f, ok := thrustForce(a); ok {
			w.engine.ApplyForce(uid, f)
		}
		w.engine.Override(uid, a.Rotation)
	}

	w.engine.Step(dt)

	for _, uid := range w.order {
		a := w.actors[uid]

		pose := w.engine.Pose(uid)
		vel, _ := w.engine.Velocity(uid)
		a.Acc = vel.Sub(a.Vel).Scale(1 / dt)
		a.Pos = pose.Pos
		a.Vel = vel

		out := w.resolver.Resolve(&a.Actor, w.engine.ContactReport(uid), dt)
		if out.State == contact.StateLanded && out.Site != "" {
			a.Intent.TargetThrust = nil
			a.Intent.TargetAngle = nil
		}

		if added := refuel(a, w.model, dt); added > 0 {
			w.engine.SetMass(uid, a.Mass())
		}

		prev := a.State
		if transition(a) {
			w.engine.Teleport(uid, a.Pos, nil, true)
			w.logger.Info("Actor took off", "actor", uid, "fuel", a.Fuel)
		}
		if a.State == contact.StateOutOfFuel && prev != contact.StateOutOfFuel {
			w.logger.Info("Actor out of fuel", "actor", uid, "x", a.Pos.X, "y", a.Pos.Y)
		}
	}
}

// SensorTick refreshes sensor readings and runs controllers.
func (w *World) SensorTick(dt float64) {
	for _, uid := range w.order {
		a := w.actors[uid]
		w.sense(a)

		c, ok := w.controllers[uid]
		if !ok {
			continue
		}
		if a.State != contact.StateFlying && a.State != contact.StateLanded {
			continue
		}
		a.Intent = c.Update(dt, w.passive(a), activeSensors{w: w, actor: a})
	}
}
