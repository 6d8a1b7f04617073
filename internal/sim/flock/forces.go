package flock

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"flocksim.ai/internal/sim/flock/logic/mathx"
)

// WallEpsilon floors |d / WallDistance| so an agent sitting exactly on a wall gets a
// large but finite push (WallWeight / WallEpsilon).
const WallEpsilon = 1e-3

// Wall slots in Forces.Walls, in summation order.
const (
	WallMinX = iota
	WallMinY
	WallMinZ
	WallMaxX
	WallMaxY
	WallMaxZ
	wallCount
)

var wallInward = [wallCount]mgl64.Vec3{
	WallMinX: {1, 0, 0},
	WallMinY: {0, 1, 0},
	WallMinZ: {0, 0, 1},
	WallMaxX: {-1, 0, 0},
	WallMaxY: {0, -1, 0},
	WallMaxZ: {0, 0, -1},
}

// Forces is the acceleration accumulated by one agent during one tick, kept per term.
// It lives only for the duration of that tick.
type Forces struct {
	Walls      [wallCount]mgl64.Vec3
	Wall       mgl64.Vec3
	Separation mgl64.Vec3
	Alignment  mgl64.Vec3
	Cohesion   mgl64.Vec3

	Neighbors int
}

// Sum is the total acceleration, accumulated wall -> separation -> alignment -> cohesion.
func (f Forces) Sum() mgl64.Vec3 {
	return f.Wall.Add(f.Separation).Add(f.Alignment).Add(f.Cohesion)
}

// Acceleration senses the view and computes every steering term without mutating a.
func (a *Agent) Acceleration(view View) Forces {
	var f Forces
	if view == nil {
		return f
	}
	neighbors := a.Neighbors(view)
	f.Neighbors = len(neighbors)

	f.Walls = wallForces(a.params, a.pos, view.BoundsHalfExtents())
	for _, w := range f.Walls {
		f.Wall = f.Wall.Add(w)
	}

	if len(neighbors) > 0 {
		f.Separation = a.separation(neighbors)
		f.Alignment = a.alignment(neighbors)
		f.Cohesion = a.cohesion(neighbors)
	}
	return f
}

// wallForces evaluates the six axis-aligned walls of a box of half-extents h centred at
// the origin. d is measured along each wall's inward axis: -h-p for the min walls and
// h-p for the max walls.
func wallForces(p *AgentParams, pos, h mgl64.Vec3) [wallCount]mgl64.Vec3 {
	var out [wallCount]mgl64.Vec3
	for axis := 0; axis < 3; axis++ {
		out[WallMinX+axis] = wallForce(p, -h[axis]-pos[axis], wallInward[WallMinX+axis])
		out[WallMaxX+axis] = wallForce(p, +h[axis]-pos[axis], wallInward[WallMaxX+axis])
	}
	return out
}

func wallForce(p *AgentParams, d float64, inward mgl64.Vec3) mgl64.Vec3 {
	if !(p.WallDistance > 0) || !(d < p.WallDistance) {
		return mgl64.Vec3{}
	}
	ratio := math.Abs(d / p.WallDistance)
	if ratio < WallEpsilon {
		ratio = WallEpsilon
	}
	return inward.Mul(p.WallWeight / ratio)
}

func (a *Agent) separation(neighbors []*Agent) mgl64.Vec3 {
	var force mgl64.Vec3
	for _, n := range neighbors {
		force = force.Add(mathx.Normalize(a.pos.Sub(n.pos)))
	}
	force = mathx.Div(force, float64(len(neighbors)))
	return force.Mul(a.params.SeparationWeight)
}

func (a *Agent) alignment(neighbors []*Agent) mgl64.Vec3 {
	var avg mgl64.Vec3
	for _, n := range neighbors {
		avg = avg.Add(n.vel)
	}
	avg = mathx.Div(avg, float64(len(neighbors)))
	return avg.Sub(a.vel).Mul(a.params.AlignmentWeight)
}

func (a *Agent) cohesion(neighbors []*Agent) mgl64.Vec3 {
	var avg mgl64.Vec3
	for _, n := range neighbors {
		avg = avg.Add(n.pos)
	}
	avg = mathx.Div(avg, float64(len(neighbors)))
	return avg.Sub(a.pos).Mul(a.params.CohesionWeight)
}
