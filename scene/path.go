package scene

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/r3"
)

var (
	axisX = r3.Vec{X: 1}
	axisY = r3.Vec{Y: 1}
	axisZ = r3.Vec{Z: 1}
)

// Path is anything a marker can ride along, parametrized by progress in [0,1].
type Path interface {
	At(progress float64) r3.Vec
	Start() r3.Vec
	End() r3.Vec
}

type Segment struct {
	From, To r3.Vec
}

func (s Segment) Start() r3.Vec { return s.From }
func (s Segment) End() r3.Vec   { return s.To }

func (s Segment) At(progress float64) r3.Vec {
	switch {
	case progress <= 0:
		return s.From
	case progress >= 1:
		return s.To
	}
	return r3.Add(s.From, r3.Scale(progress, r3.Sub(s.To, s.From)))
}

func (s Segment) Length() float64 { return r3.Norm(r3.Sub(s.To, s.From)) }

func (s Segment) Mid() r3.Vec { return r3.Scale(0.5, r3.Add(s.From, s.To)) }

// Connector is a thin cylinder between two points. The cylinder is modelled along +Z
// and turned onto the segment by rotating Angle radians around Axis.
type Connector struct {
	Segment
	Center r3.Vec
	Height float64
	Radius float64
	Axis   r3.Vec
	Angle  float64
}

func NewConnector(p1, p2 r3.Vec, radius float64) Connector {
	v := r3.Sub(p2, p1)
	length := r3.Norm(v)
	if length < Epsilon {
		length = Epsilon
	}
	c := Connector{
		Segment: Segment{From: p1, To: p2},
		Center:  r3.Scale(0.5, r3.Add(p1, p2)),
		Height:  length,
		Radius:  radius,
		Axis:    axisZ,
	}

	dir := r3.Scale(1/length, v)
	axis := r3.Cross(axisZ, dir)
	// Parallel (or coincident) vectors leave the cylinder unrotated.
	if n := r3.Norm(axis); n > Epsilon {
		c.Axis = r3.Scale(1/n, axis)
		c.Angle = math.Acos(clamp(r3.Dot(axisZ, dir), -1, 1))
	}
	return c
}

// Rotate applies the connector's orientation to a point in cylinder space.
func (c Connector) Rotate(p r3.Vec) r3.Vec {
	if c.Angle == 0 {
		return p
	}
	return r3.NewRotation(c.Angle, c.Axis).Rotate(p)
}

const curveSamples = 64

// Curve is a cubic Bézier whose At walks it by arc length, so a pulse moves at an
// even pace regardless of how the control points bunch up.
type Curve struct {
	P0, P1, P2, P3 r3.Vec
	lengths        []float64
}

// NewCurve arches a cubic from p1 to p2 sideways by archOut and downwards by
// archDown. Coincident endpoints fall back to an x-pointing direction so the side
// vector is never a zero-length normalization.
func NewCurve(p1, p2 r3.Vec, archOut, archDown float64) *Curve {
	v := r3.Sub(p2, p1)
	if r3.Norm(v) < Epsilon {
		v = axisX
	}
	side := r3.Cross(v, axisZ)
	if r3.Norm(side) < Epsilon {
		side = axisY
	}
	side = r3.Unit(side)

	lift := r3.Add(r3.Scale(archOut, side), r3.Scale(-archDown, axisY))
	c1 := r3.Add(r3.Add(p1, r3.Scale(0.25, v)), lift)
	c2 := r3.Add(r3.Sub(p2, r3.Scale(0.25, v)), lift)
	return Bezier(p1, c1, c2, p2)
}

func Bezier(p0, p1, p2, p3 r3.Vec) *Curve {
	c := &Curve{P0: p0, P1: p1, P2: p2, P3: p3}
	c.lengths = make([]float64, curveSamples+1)
	prev := p0
	for i := 1; i <= curveSamples; i++ {
		pt := c.Point(float64(i) / curveSamples)
		c.lengths[i] = c.lengths[i-1] + r3.Norm(r3.Sub(pt, prev))
		prev = pt
	}
	return c
}

func (c *Curve) Start() r3.Vec { return c.P0 }
func (c *Curve) End() r3.Vec   { return c.P3 }

func (c *Curve) Length() float64 { return c.lengths[len(c.lengths)-1] }

func (c *Curve) Controls() []r3.Vec { return []r3.Vec{c.P0, c.P1, c.P2, c.P3} }

// Point evaluates the raw Bernstein form at parameter t.
func (c *Curve) Point(t float64) r3.Vec {
	u := 1 - t
	b0 := u * u * u
	b1 := 3 * u * u * t
	b2 := 3 * u * t * t
	b3 := t * t * t
	return r3.Add(
		r3.Add(r3.Scale(b0, c.P0), r3.Scale(b1, c.P1)),
		r3.Add(r3.Scale(b2, c.P2), r3.Scale(b3, c.P3)),
	)
}

func (c *Curve) At(progress float64) r3.Vec {
	switch {
	case progress <= 0:
		return c.P0
	case progress >= 1:
		return c.P3
	}
	total := c.Length()
	if total < Epsilon {
		return c.Point(progress)
	}
	target := progress * total
	i := sort.SearchFloat64s(c.lengths, target)
	if i <= 0 {
		return c.P0
	}
	if i > curveSamples {
		return c.P3
	}
	lo, hi := c.lengths[i-1], c.lengths[i]
	frac := 0.0
	if hi > lo {
		frac = (target - lo) / (hi - lo)
	}
	return c.Point((float64(i-1) + frac) / curveSamples)
}

const (
	PathStraight = "straight"
	PathCurve    = "curve"
)

// PathSpec is the serializable description of a path; Path builds the geometry.
type PathSpec struct {
	Kind     string  `yaml:"kind" json:"kind"`
	From     r3.Vec  `yaml:"from" json:"from"`
	To       r3.Vec  `yaml:"to" json:"to"`
	ArchOut  float64 `yaml:"arch_out,omitempty" json:"archOut,omitempty"`
	ArchDown float64 `yaml:"arch_down,omitempty" json:"archDown,omitempty"`
}

func (s PathSpec) Path() Path {
	if s.Kind == PathCurve {
		return NewCurve(s.From, s.To, s.ArchOut, s.ArchDown)
	}
	return Segment{From: s.From, To: s.To}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
