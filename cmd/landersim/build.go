package main

import (
	"log/slog"

	"landersim/pkg/config"
	"landersim/pkg/geom"
	"landersim/pkg/physics"
	"landersim/pkg/sim"
	"landersim/pkg/sites"
	"landersim/pkg/terrain"
	"landersim/pkg/tracker"
)

func layeredOptions(c config.TerrainConfig) terrain.LayeredOptions {
	return terrain.LayeredOptions{
		BaseHeight:           c.BaseHeight,
		MacroAmplitude:       c.MacroAmplitude,
		MacroFrequency:       c.MacroFrequency,
		StructureAmplitude:   c.StructureAmplitude,
		StructureFrequency:   c.StructureFrequency,
		StructureOctaves:     c.StructureOctaves,
		StructurePersistence: c.StructurePersistence,
		StructureLacunarity:  c.StructureLacunarity,
		RidgeMix:             c.RidgeMix,
		WarpAmplitude:        c.WarpAmplitude,
		WarpFrequency:        c.WarpFrequency,
		FeatureCellSize:      float64(c.FeatureCellSize),
		FeatureDensity:       c.FeatureDensity,
	}
}

// newTerrain builds the seeded generator behind a LOD grid.
func newTerrain(c config.TerrainConfig) *terrain.LodGrid {
	gen := terrain.NewLayered(c.Seed, layeredOptions(c))
	return terrain.NewLodGrid(gen.At, float64(c.BaseResolution), c.ChunkElements)
}

func worldOptions(cfg *config.Config, logger *slog.Logger, tr *tracker.Tracker) sim.Options {
	opts := sim.DefaultOptions()
	opts.PhysicsDT = cfg.Physics.Step.Seconds()
	opts.SensorDT = cfg.Physics.SensorStep.Seconds()
	opts.MaxSubSteps = cfg.Physics.MaxSubSteps
	opts.Physics = physics.Options{
		Gravity:         geom.V(0, -cfg.Physics.Gravity),
		SegmentStep:     float64(cfg.Physics.SegmentStep),
		HalfWidth:       float64(cfg.Physics.HalfWidth),
		TerrainFriction: cfg.Physics.TerrainFriction,
	}
	opts.ProximityCapacity = cfg.Sensor.ProximityCapacity
	opts.ProximityQuantize = float64(cfg.Sensor.ProximityQuantize)
	opts.Logger = logger
	opts.Tracker = tr
	return opts
}

func vehicle(cfg *config.Config) sim.Vehicle {
	v := cfg.Vehicle
	return sim.Vehicle{
		Width:           v.Width,
		Height:          v.Height,
		Hull:            hull(v.Hull),
		DryMass:         v.DryMass,
		FuelDensity:     v.FuelDensity,
		MaxFuel:         v.MaxFuel,
		BurnRate:        v.BurnRate,
		MaxPower:        v.MaxPower,
		IncreaseRate:    v.IncreaseRate,
		DecreaseRate:    v.DecreaseRate,
		MaxRotationRate: geom.Rad(v.MaxRotationDeg),
		RefuelRate:      v.RefuelRate,
		SafeSpeed:       cfg.Contact.SafeSpeed,
		SafeAngle:       geom.Rad(cfg.Contact.SafeAngleDeg),
		RadarInner:      float64(cfg.Sensor.RadarInner),
		RadarOuter:      float64(cfg.Sensor.RadarOuter),
		ProximityRange:  float64(cfg.Sensor.ProximityRange),
	}
}

// hull converts configured [x, y] pairs. Validate has already checked the shape.
func hull(polys [][][]float64) [][]geom.Vec2 {
	if len(polys) == 0 {
		return nil
	}
	out := make([][]geom.Vec2, len(polys))
	for i, poly := range polys {
		out[i] = make([]geom.Vec2, len(poly))
		for j, pt := range poly {
			out[i][j] = geom.V(pt[0], pt[1])
		}
	}
	return out
}

// buildWorld wires terrain, seeded sites and one actor. The actor starts
// start_y above the raw terrain at start_x.
func buildWorld(cfg *config.Config, logger *slog.Logger, tr *tracker.Tracker) (*sim.World, *sim.Actor) {
	ground := newTerrain(cfg.Terrain)
	height := func(x float64) float64 { return ground.Height(x, 0) }

	var seeds []sites.Seed
	if cfg.Sites.Enabled {
		seeds = sites.BuildSeeded(height, cfg.Terrain.Seed, cfg.Sites.EachSide)
	}
	registry := sites.NewRegistry(logger, seeds...)

	world := sim.NewWorld(ground, registry, worldOptions(cfg, logger, tr))

	start := geom.V(cfg.Run.StartX, height(cfg.Run.StartX)+cfg.Run.StartY)
	actor := sim.NewActor("", vehicle(cfg), start)
	world.AddActor(actor)

	if cfg.Run.Pilot == "descent" {
		world.SetController(actor.UID, newDescentPilot(cfg.Physics.Gravity, cfg.Vehicle.MaxPower))
	}

	logger.Info("World built",
		"seed", cfg.Terrain.Seed,
		"sites", registry.Len(),
		"actor", actor.UID,
		"start_x", start.X,
		"start_y", start.Y,
		"pilot", cfg.Run.Pilot,
	)
	return world, actor
}
