package physics

import (
	"github.com/jakecoffman/cp"

	"landersim/pkg/geom"
)

func (e *Engine) installHandlers() {
	for _, other := range []cp.CollisionType{collisionTerrain, collisionSite} {
		h := e.space.NewCollisionHandler(collisionActor, other)
		h.BeginFunc = onBegin
		h.PostSolveFunc = onPostSolve
		h.SeparateFunc = onSeparate
	}
}

// actorOf returns the actor behind the first shape of the arbiter.
func actorOf(arb *cp.Arbiter) *actor {
	a, _ := arb.Shapes()
	if a == nil {
		return nil
	}
	act, _ := a.UserData.(*actor)
	return act
}

func onBegin(arb *cp.Arbiter, _ *cp.Space, _ interface{}) bool {
	if a := actorOf(arb); a != nil {
		a.contacts++
		a.report = ContactReport{Colliding: true}
	}
	return true
}

func onPostSolve(arb *cp.Arbiter, _ *cp.Space, _ interface{}) {
	a := actorOf(arb)
	if a == nil {
		return
	}
	n := arb.Normal()
	normal := geom.V(n.X, n.Y)

	var point *geom.Vec2
	if set := arb.ContactPointSet(); set.Count > 0 {
		p := geom.V(set.Points[0].PointA.X, set.Points[0].PointA.Y)
		point = &p
	}

	v := a.body.Velocity()
	rel := v.X*n.X + v.Y*n.Y
	if rel < 0 {
		rel = -rel
	}

	a.report = ContactReport{
		Colliding: true,
		Normal:    &normal,
		RelSpeed:  rel,
		Point:     point,
	}
}

// onSeparate clears the report once the actor touches nothing.
func onSeparate(arb *cp.Arbiter, _ *cp.Space, _ interface{}) {
	a := actorOf(arb)
	if a == nil {
		return
	}
	if a.contacts > 0 {
		a.contacts--
	}
	if a.contacts == 0 {
		a.report = ContactReport{}
	}
}
