package sites

import (
	"log/slog"

	"github.com/google/uuid"

	"landersim/pkg/geom"
)

// Economy is the mutable award state of a site.
type Economy struct {
	Award     float64
	FuelPrice float64
	Visited   bool
}

// Entity is the authoritative state of one site.
type Entity struct {
	Seed        Seed
	Pos         geom.Vec2
	Motion      geom.Vec2
	ParentUID   string
	LocalOffset geom.Vec2
	Economy     Economy
}

// ParentSource resolves the pose and velocity of bodies sites can ride on.
type ParentSource interface {
	ParentState(uid string) (pose geom.Transform, vel geom.Vec2, ok bool)
}

// Registry owns every site entity. Sites are added, never removed.
type Registry struct {
	entities map[string]*Entity
	order    []string
	logger   *slog.Logger
}

// NewRegistry creates a registry from seeds.
func NewRegistry(logger *slog.Logger, seeds ...Seed) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Registry{entities: make(map[string]*Entity), logger: logger}
	for _, s := range seeds {
		r.Spawn(s)
	}
	return r
}

// Spawn adds a site and returns its uid. An empty uid gets a generated one.
// Spawning an existing uid replaces that site.
func (r *Registry) Spawn(seed Seed) string {
	seed = seed.WithDefaults()
	if seed.UID == "" {
		seed.UID = "site_" + uuid.NewString()
	}
	price := seed.FuelPrice
	if price == 0 {
		price = DefaultFuelPrice
	}
	if _, exists := r.entities[seed.UID]; !exists {
		r.order = append(r.order, seed.UID)
	}
	r.entities[seed.UID] = &Entity{
		Seed:        seed,
		Pos:         geom.V(seed.X, seed.Y),
		Motion:      seed.Velocity,
		ParentUID:   seed.ParentUID,
		LocalOffset: seed.LocalOffset,
		Economy:     Economy{Award: seed.Award, FuelPrice: price},
	}
	r.logger.Debug("Landing site spawned", "uid", seed.UID, "mode", seed.Mode, "x", seed.X, "y", seed.Y)
	return seed.UID
}

// Entity returns the live entity for uid.
func (r *Registry) Entity(uid string) (*Entity, bool) {
	e, ok := r.entities[uid]
	return e, ok
}

// Len returns the number of sites.
func (r *Registry) Len() int { return len(r.order) }

// MarkVisited records that the site's award has been paid.
func (r *Registry) MarkVisited(uid string) {
	if e, ok := r.Entity(uid); ok {
		e.Economy.Visited = true
	}
}

// Advance moves attached sites to their parent's transform and then applies
// their own motion. parents may be nil.
func (r *Registry) Advance(dt float64, parents ParentSource) {
	for _, uid := range r.order {
		e := r.entities[uid]
		if e.ParentUID != "" && parents != nil {
			if pose, _, ok := parents.ParentState(e.ParentUID); ok {
				e.Pos = pose.Apply(e.LocalOffset)
			}
		}
		e.Pos = e.Pos.Add(e.Motion.Scale(dt))
	}
}

// Project rebuilds the read model from the entities and routes award
// consumption back to the registry.
func (r *Registry) Project(model *SurfaceModel, parents ParentSource) {
	views := make([]Site, 0, len(r.order))
	for _, uid := range r.order {
		e := r.entities[uid]
		vel := e.Motion
		if e.ParentUID != "" && parents != nil {
			if _, pv, ok := parents.ParentState(e.ParentUID); ok {
				vel = vel.Add(pv)
			}
		}
		s := e.Seed
		views = append(views, Site{
			UID:           uid,
			X:             e.Pos.X,
			Y:             e.Pos.Y,
			Size:          s.Size,
			Vel:           vel,
			Award:         e.Economy.Award,
			FuelPrice:     e.Economy.FuelPrice,
			Mode:          s.Mode,
			TerrainBound:  s.TerrainBound,
			BlendMargin:   s.BlendMargin,
			CutDepth:      s.CutDepth,
			SupportHeight: s.SupportHeight,
			Visited:       e.Economy.Visited,
		})
	}
	model.Update(views)
	model.OnConsume = r.MarkVisited
}

// UIDs returns site uids in spawn order.
func (r *Registry) UIDs() []string {
	return append([]string(nil), r.order...)
}
