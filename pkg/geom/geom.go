package geom

import "math"

// Vec2 is a 2D vector in world units. Y points up.
type Vec2 struct {
	X float64
	Y float64
}

func V(x, y float64) Vec2 { return Vec2{X: x, Y: y} }

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

func (v Vec2) Dot(o Vec2) float64 { return v.X*o.X + v.Y*o.Y }

// Len returns the Euclidean length.
func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }

// Normalize returns the unit vector, or the zero vector for a zero input.
func (v Vec2) Normalize() Vec2 {
	l := v.Len()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Y / l}
}

// Finite reports whether both components are finite numbers.
func (v Vec2) Finite() bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) && !math.IsNaN(v.Y) && !math.IsInf(v.Y, 0)
}

// Range1D is a closed interval on the x axis.
type Range1D struct {
	Min float64
	Max float64
}

// RangeFromCenter returns [center-half, center+half]. A negative half is treated as zero.
func RangeFromCenter(center, half float64) Range1D {
	half = math.Max(0, half)
	return Range1D{Min: center - half, Max: center + half}
}

func (r Range1D) Center() float64 { return (r.Min + r.Max) * 0.5 }

func (r Range1D) HalfSpan() float64 { return (r.Max - r.Min) * 0.5 }

func (r Range1D) Contains(x float64) bool { return x >= r.Min && x <= r.Max }

// Overlaps reports whether the two closed intervals share at least one point.
func (r Range1D) Overlaps(o Range1D) bool { return r.Min <= o.Max && o.Min <= r.Max }

// Transform is a rigid 2D pose. Positive angles rotate clockwise, so a body
// at angle a points along (sin a, cos a).
type Transform struct {
	Pos   Vec2
	Angle float64
}

// Apply maps a local point into world space.
func (t Transform) Apply(p Vec2) Vec2 {
	c, s := math.Cos(t.Angle), math.Sin(t.Angle)
	return Vec2{
		X: t.Pos.X + p.X*c + p.Y*s,
		Y: t.Pos.Y - p.X*s + p.Y*c,
	}
}

// Heading returns the unit direction the body's local +Y axis points to.
func Heading(angle float64) Vec2 {
	return Vec2{math.Sin(angle), math.Cos(angle)}
}

// NormalizeAngle wraps radians into [-pi, pi].
func NormalizeAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a < -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// AngleDiff returns the shortest signed rotation from a to b.
func AngleDiff(a, b float64) float64 {
	return NormalizeAngle(b - a)
}

func Deg(rad float64) float64 { return rad * 180 / math.Pi }

func Rad(deg float64) float64 { return deg * math.Pi / 180 }

func Lerp(a, b, t float64) float64 { return a + (b-a)*t }

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
