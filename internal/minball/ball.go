package minball

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Dim is the dimension of the space the balls live in.
const Dim = 2

// Ball2D is a disk in the plane: a centre and a non-negative radius.
// The JSON layout matches the array-of-structs the C boundary uses.
type Ball2D struct {
	Center [Dim]float64 `json:"center"`
	Radius float64      `json:"radius"`
}

// NewBall2D builds a ball from its centre coordinates and radius.
func NewBall2D(x, y, radius float64) Ball2D {
	return Ball2D{Center: [Dim]float64{x, y}, Radius: radius}
}

// Vec returns the centre as a gonum vector.
func (b Ball2D) Vec() r2.Vec {
	return r2.Vec{X: b.Center[0], Y: b.Center[1]}
}

func fromVec(c r2.Vec, radius float64) Ball2D {
	return Ball2D{Center: [Dim]float64{c.X, c.Y}, Radius: radius}
}

// Distance returns the distance between the centres of b and other.
func (b Ball2D) Distance(other Ball2D) float64 {
	return r2.Norm(r2.Sub(b.Vec(), other.Vec()))
}

// Violation returns how far other sticks out of b. It is
// |c_b - c_other| + r_other - r_b, so values <= 0 mean other is contained.
func (b Ball2D) Violation(other Ball2D) float64 {
	return b.Distance(other) + other.Radius - b.Radius
}

// Contains reports whether other lies inside b, allowing an absolute slack
// of tol.
func (b Ball2D) Contains(other Ball2D, tol float64) bool {
	return b.Violation(other) <= tol
}

// ContainsPoint reports whether the point (x, y) lies inside b.
func (b Ball2D) ContainsPoint(x, y, tol float64) bool {
	return b.Contains(NewBall2D(x, y, 0), tol)
}

// IsFinite reports whether every coordinate and the radius are finite.
func (b Ball2D) IsFinite() bool {
	for _, v := range [...]float64{b.Center[0], b.Center[1], b.Radius} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (b Ball2D) String() string {
	return fmt.Sprintf("Ball2D{center=(%g, %g) r=%g}", b.Center[0], b.Center[1], b.Radius)
}

// roundoffUlps bounds, in units of the float64 machine epsilon relative to
// the largest coordinate, the error of a distance between two inputs.
const roundoffUlps = 8

// absTolerance turns the relative tolerance rel into an absolute slack for
// balls. The relative part scales with the extent of the input, the reach
// of every ball from the first centre, so translating the input does not
// change it. The second part is the rounding error of coordinates as large
// as the input's.
func absTolerance(balls []Ball2D, rel float64) float64 {
	if len(balls) == 0 {
		return rel
	}
	first := balls[0]
	extent, magnitude := 0.0, 0.0
	for _, b := range balls {
		extent = math.Max(extent, first.Distance(b)+b.Radius)
		m := math.Max(math.Abs(b.Center[0]), math.Abs(b.Center[1])) + b.Radius
		magnitude = math.Max(magnitude, m)
	}
	if extent == 0 {
		extent = 1
	}
	return rel*extent + roundoffUlps*0x1p-52*magnitude
}

// translate returns b moved by (dx, dy).
func (b Ball2D) translate(dx, dy float64) Ball2D {
	return NewBall2D(b.Center[0]+dx, b.Center[1]+dy, b.Radius)
}
