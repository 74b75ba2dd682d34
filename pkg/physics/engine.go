// Package physics integrates lander bodies against a rolling window of
// static terrain segments and reports their contacts.
package physics

import (
	"log/slog"
	"math"

	"github.com/jakecoffman/cp"

	"landersim/pkg/geom"
	"landersim/pkg/sensor"
	"landersim/pkg/terrain"
	"landersim/pkg/tracker"
)

const (
	collisionTerrain cp.CollisionType = 1
	collisionActor   cp.CollisionType = 2
	collisionSite    cp.CollisionType = 3

	minSegmentStep = 1.0
	minHalfWidth   = 100.0
	minStep        = 1e-4
	minMass        = 0.001
	minMoment      = 1e-6
	minPolyArea    = 1e-9
)

// TerrainRadius is the thickness of the terrain segments. A body resting on
// the terrain sits this far above the sampled surface.
const TerrainRadius = 1.0

// Options configures an Engine.
type Options struct {
	Gravity         geom.Vec2
	SegmentStep     float64
	HalfWidth       float64
	TerrainFriction float64
	Logger          *slog.Logger
	Tracker         *tracker.Tracker
}

// DefaultOptions returns lunar-lander defaults: 9.8 downward gravity, 10
// unit segments and a 12000 unit half window.
func DefaultOptions() Options {
	return Options{
		Gravity:         geom.V(0, -9.8),
		SegmentStep:     10,
		HalfWidth:       12000,
		TerrainFriction: 0.8,
	}
}

// Pose is a body position and angle. Positive angles rotate clockwise, so
// thrust along the body's +Y axis points at (sin a, cos a).
type Pose struct {
	Pos   geom.Vec2
	Angle float64
}

// BodyOptions are the surface properties of an attached body.
type BodyOptions struct {
	Friction   float64
	Elasticity float64
}

// DefaultBodyOptions matches the stock lander hull.
func DefaultBodyOptions() BodyOptions {
	return BodyOptions{Friction: 0.9}
}

// ContactReport describes the latest collision state of one actor.
type ContactReport struct {
	Colliding bool
	Normal    *geom.Vec2
	RelSpeed  float64
	Point     *geom.Vec2
}

func (r ContactReport) clone() ContactReport {
	out := r
	if r.Normal != nil {
		n := *r.Normal
		out.Normal = &n
	}
	if r.Point != nil {
		p := *r.Point
		out.Point = &p
	}
	return out
}

// RayHit is the first shape hit by a ray.
type RayHit struct {
	Hit      bool
	X        float64
	Y        float64
	Distance float64
}

type actor struct {
	uid    string
	body   *cp.Body
	shapes []*cp.Shape
	group  uint

	thrust float64
	angle  float64

	override *float64
	force    *geom.Vec2

	report   ContactReport
	contacts int
}

// Engine owns the physics space, the actors and the terrain window.
// It is not safe for concurrent use.
type Engine struct {
	space   *cp.Space
	sampler terrain.Sampler
	opts    Options
	logger  *slog.Logger
	tracker *tracker.Tracker

	actors    map[string]*actor
	order     []string
	anchor    string
	nextGroup uint

	window *window
	sites  map[string]siteCollider
}

// New creates an engine sampling terrain from s.
func New(s terrain.Sampler, opts Options) *Engine {
	opts.SegmentStep = math.Max(minSegmentStep, opts.SegmentStep)
	opts.HalfWidth = math.Max(minHalfWidth, opts.HalfWidth)
	if opts.TerrainFriction <= 0 {
		opts.TerrainFriction = DefaultOptions().TerrainFriction
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	space := cp.NewSpace()
	space.SetGravity(cp.Vector{X: opts.Gravity.X, Y: opts.Gravity.Y})

	e := &Engine{
		space:   space,
		sampler: s,
		opts:    opts,
		logger:  logger,
		tracker: opts.Tracker,
		actors:  make(map[string]*actor),
		sites:   make(map[string]siteCollider),
	}
	e.window = newWindow(e)
	e.installHandlers()
	return e
}

// Attach creates a dynamic body from convex polygons in local space and
// replaces any body already registered under uid. Mass is shared between
// the polygons in proportion to their area. Polygons without area are
// skipped, and a hull with none left gets a small default triangle.
func (e *Engine) Attach(uid string, polys [][]geom.Vec2, mass float64, start Pose, opts BodyOptions) {
	if _, ok := e.actors[uid]; ok {
		e.removeBody(uid)
	}
	polys = solidPolygons(polys)
	mass = math.Max(minMass, mass)

	totalArea := 0.0
	for _, p := range polys {
		totalArea += geom.PolygonArea(p)
	}
	if totalArea <= 0 {
		totalArea = 1
	}

	verts := make([][]cp.Vector, len(polys))
	moment := 0.0
	for i, p := range polys {
		verts[i] = toCP(p)
		polyMass := math.Max(1e-6, mass*geom.PolygonArea(p)/totalArea)
		moment += math.Abs(cp.MomentForPoly(polyMass, len(verts[i]), verts[i], cp.Vector{}, 0))
	}
	if math.IsNaN(moment) || math.IsInf(moment, 0) || moment <= 0 {
		moment = minMoment
	}

	body := cp.NewBody(mass, moment)
	body.SetPosition(cp.Vector{X: start.Pos.X, Y: start.Pos.Y})
	body.SetAngle(-start.Angle)
	e.space.AddBody(body)

	e.nextGroup++
	a := &actor{uid: uid, body: body, group: e.nextGroup, angle: start.Angle}
	body.UserData = a

	for _, v := range verts {
		shape := cp.NewPolyShape(body, len(v), v, cp.NewTransformIdentity(), 0)
		shape.SetFriction(opts.Friction)
		shape.SetElasticity(opts.Elasticity)
		shape.SetCollisionType(collisionActor)
		shape.SetFilter(cp.ShapeFilter{Group: a.group, Categories: cp.ALL_CATEGORIES, Mask: cp.ALL_CATEGORIES})
		shape.UserData = a
		e.space.AddShape(shape)
		a.shapes = append(a.shapes, shape)
	}

	e.actors[uid] = a
	e.order = append(e.order, uid)
	if e.anchor == "" {
		e.anchor = uid
	}
	e.window.ensure(e.anchorX())

	e.logger.Debug("Body attached", "uid", uid, "mass", mass, "polygons", len(a.shapes), "x", start.Pos.X, "y", start.Pos.Y)
}

// Detach removes the body. Unknown uids are ignored.
func (e *Engine) Detach(uid string) {
	if _, ok := e.actors[uid]; !ok {
		return
	}
	e.removeBody(uid)
	if e.anchor == uid {
		e.anchor = ""
		if len(e.order) > 0 {
			e.anchor = e.order[0]
		}
	}
	e.logger.Debug("Body detached", "uid", uid, "anchor", e.anchor)
}

func (e *Engine) removeBody(uid string) {
	a := e.actors[uid]
	for _, s := range a.shapes {
		e.space.RemoveShape(s)
	}
	e.space.RemoveBody(a.body)
	delete(e.actors, uid)
	for i, id := range e.order {
		if id == uid {
			e.order = append(e.order[:i], e.order[i+1:]...)
			break
		}
	}
}

// SetAnchor selects the actor the terrain window follows.
func (e *Engine) SetAnchor(uid string) {
	if _, ok := e.actors[uid]; ok {
		e.anchor = uid
	}
}

// Anchor returns the uid the terrain window follows.
func (e *Engine) Anchor() string { return e.anchor }

// SetControls sets the legacy thrust and angle channel. Thrust is clamped at 0.
func (e *Engine) SetControls(uid string, thrust, angle float64) {
	if a, ok := e.actors[uid]; ok {
		a.thrust = math.Max(0, thrust)
		a.angle = angle
	}
}

// Override sets the body angle for the next step.
func (e *Engine) Override(uid string, angle float64) {
	if a, ok := e.actors[uid]; ok {
		a.override = &angle
	}
}

// ApplyForce queues a world-space force at the centre of mass for the next
// step. It takes the place of the legacy thrust for that step.
func (e *Engine) ApplyForce(uid string, force geom.Vec2) {
	if a, ok := e.actors[uid]; ok {
		a.force = &force
	}
}

// Step recentres the window, applies pending controls and advances the
// space by dt (at least 1e-4). With no actors it does nothing.
func (e *Engine) Step(dt float64) {
	if len(e.actors) == 0 {
		return
	}
	e.window.ensure(e.anchorX())

	for _, uid := range e.order {
		e.applyControls(e.actors[uid])
	}
	e.space.Step(math.Max(minStep, dt))
}

func (e *Engine) applyControls(a *actor) {
	overridden := a.override != nil
	if overridden {
		a.body.SetAngle(-*a.override)
		a.override = nil
	}

	pos := a.body.Position()
	if a.force != nil {
		a.body.ApplyForceAtWorldPoint(cp.Vector{X: a.force.X, Y: a.force.Y}, pos)
		a.force = nil
		return
	}

	if !overridden {
		a.body.SetAngle(-a.angle)
	}
	if a.thrust > 0 {
		h := geom.Heading(a.angle).Scale(a.thrust)
		a.body.ApplyForceAtWorldPoint(cp.Vector{X: h.X, Y: h.Y}, pos)
	}
}

func (e *Engine) anchorX() float64 {
	if a, ok := e.actors[e.anchor]; ok {
		return a.body.Position().X
	}
	return 0
}

// ContactReport returns a copy of the actor's latest contact state.
func (e *Engine) ContactReport(uid string) ContactReport {
	if a, ok := e.actors[uid]; ok {
		return a.report.clone()
	}
	return ContactReport{}
}

// Raycast returns the first shape hit along angle (counter-clockwise from
// +X) within maxDist, ignoring the shapes of ignoreUID.
func (e *Engine) Raycast(origin geom.Vec2, angle, maxDist float64, ignoreUID string) RayHit {
	if maxDist <= 0 {
		return RayHit{}
	}
	start := cp.Vector{X: origin.X, Y: origin.Y}
	end := start.Add(cp.Vector{X: math.Cos(angle), Y: math.Sin(angle)}.Mult(maxDist))

	filter := cp.SHAPE_FILTER_ALL
	if a, ok := e.actors[ignoreUID]; ok {
		filter.Group = a.group
	}
	info := e.space.SegmentQueryFirst(start, end, 0, filter)
	if info.Shape == nil {
		return RayHit{}
	}
	return RayHit{Hit: true, X: info.Point.X, Y: info.Point.Y, Distance: info.Alpha * maxDist}
}

// ClosestPoint finds the nearest terrain point within radius of origin.
func (e *Engine) ClosestPoint(origin geom.Vec2, radius float64) (geom.Vec2, float64) {
	x, y, d := sensor.ClosestPointOnTerrain(e.sampler, origin, 0, radius)
	return geom.V(x, y), d
}

// SetMass updates the body mass, floored at 0.001.
func (e *Engine) SetMass(uid string, mass float64) {
	if a, ok := e.actors[uid]; ok {
		a.body.SetMass(math.Max(minMass, mass))
	}
}

// Teleport moves the body. A nil angle keeps the current angle.
func (e *Engine) Teleport(uid string, pos geom.Vec2, angle *float64, clearVel bool) {
	a, ok := e.actors[uid]
	if !ok {
		return
	}
	a.body.SetPosition(cp.Vector{X: pos.X, Y: pos.Y})
	if angle != nil {
		a.body.SetAngle(-*angle)
	}
	if clearVel {
		a.body.SetVelocity(0, 0)
		a.body.SetAngularVelocity(0)
	}
}

// Pose returns the body pose, or the zero pose for unknown uids.
func (e *Engine) Pose(uid string) Pose {
	a, ok := e.actors[uid]
	if !ok {
		return Pose{}
	}
	p := a.body.Position()
	return Pose{Pos: geom.V(p.X, p.Y), Angle: -a.body.Angle()}
}

// Velocity returns linear and angular velocity. Angular velocity is positive clockwise.
func (e *Engine) Velocity(uid string) (geom.Vec2, float64) {
	a, ok := e.actors[uid]
	if !ok {
		return geom.Vec2{}, 0
	}
	v := a.body.Velocity()
	return geom.V(v.X, v.Y), -a.body.AngularVelocity()
}

// Mass returns the body mass, or 0 for unknown uids.
func (e *Engine) Mass(uid string) float64 {
	if a, ok := e.actors[uid]; ok {
		return a.body.Mass()
	}
	return 0
}

// Has reports whether uid is attached.
func (e *Engine) Has(uid string) bool {
	_, ok := e.actors[uid]
	return ok
}

// UIDs returns attached uids in attach order.
func (e *Engine) UIDs() []string {
	return append([]string(nil), e.order...)
}

// WindowVertices returns the current terrain polyline.
func (e *Engine) WindowVertices() []geom.Vec2 {
	return append([]geom.Vec2(nil), e.window.verts...)
}

// WindowCenter returns the x the window was last built around.
func (e *Engine) WindowCenter() (float64, bool) {
	return e.window.center, e.window.built
}

// fallbackHull replaces a hull with no solid polygon.
var fallbackHull = []geom.Vec2{{X: 0, Y: 2}, {X: -2, Y: -2}, {X: 2, Y: -2}}

// solidPolygons drops polygons with fewer than three vertices or no area.
func solidPolygons(polys [][]geom.Vec2) [][]geom.Vec2 {
	out := make([][]geom.Vec2, 0, len(polys))
	for _, p := range polys {
		if len(p) >= 3 && geom.PolygonArea(p) > minPolyArea {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		out = append(out, fallbackHull)
	}
	return out
}

func toCP(poly []geom.Vec2) []cp.Vector {
	out := make([]cp.Vector, len(poly))
	for i, v := range poly {
		out[i] = cp.Vector{X: v.X, Y: v.Y}
	}
	return out
}
