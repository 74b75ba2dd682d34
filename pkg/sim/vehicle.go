// Package sim runs landers, landing sites and sensors on a fixed-step loop
// around the physics engine and the contact resolver.
package sim

import (
	"math"

	"landersim/pkg/contact"
	"landersim/pkg/geom"
	"landersim/pkg/sensor"
)

// Vehicle holds the static parameters of a lander type.
type Vehicle struct {
	Width  float64
	Height float64
	// Hull is a set of convex polygons centred on the body origin. When
	// set, it replaces the Width x Height box and its extent sets both.
	Hull [][]geom.Vec2

	DryMass     float64
	FuelDensity float64 // mass per fuel unit
	MaxFuel     float64
	BurnRate    float64 // fuel units per second at full thrust

	MaxPower        float64 // thrust force at full throttle
	IncreaseRate    float64 // throttle per second
	DecreaseRate    float64 // throttle per second
	MaxRotationRate float64 // radians per second

	RefuelRate float64 // fuel units per second

	SafeSpeed float64
	SafeAngle float64

	RadarInner     float64
	RadarOuter     float64
	ProximityRange float64
}

// DefaultVehicle returns the stock 8x8 lander.
func DefaultVehicle() Vehicle {
	return Vehicle{
		Width:           8,
		Height:          8,
		DryMass:         1,
		FuelDensity:     0.01,
		MaxFuel:         100,
		BurnRate:        1,
		MaxPower:        50,
		IncreaseRate:    2,
		DecreaseRate:    4,
		MaxRotationRate: math.Pi / 2,
		RefuelRate:      1,
		SafeSpeed:       contact.DefaultSafeSpeed,
		SafeAngle:       contact.DefaultSafeAngle,
		RadarInner:      sensor.DefaultRadarInner,
		RadarOuter:      sensor.DefaultRadarOuter,
		ProximityRange:  sensor.DefaultProximityRange,
	}
}

// Intent is the per-frame control input of one actor. Nil targets leave the
// previous target in place.
type Intent struct {
	TargetThrust *float64
	TargetAngle  *float64
	Refuel       bool
}

// Target returns a pointer for Intent fields.
func Target(v float64) *float64 { return &v }
