package flock

import (
	"github.com/go-gl/mathgl/mgl64"

	"flocksim.ai/internal/sim/flock/logic/mathx"
)

// Apply integrates f over dt: velocity += acceleration*dt, speed clamped to
// [MinSpeed, MaxSpeed], position += velocity*dt, orientation re-derived from the new
// velocity. The accumulator is consumed; nothing carries over to the next tick.
//
// A velocity that cancels out to exactly zero keeps the previous heading so the speed
// clamp still holds. If the result would not be finite the agent keeps its previous
// state and Apply reports false.
func (a *Agent) Apply(f Forces, dt float64) bool {
	p := a.params
	acc := f.Sum()

	vel := a.vel.Add(acc.Mul(dt))
	dir := mathx.Normalize(vel)
	speed := vel.Len()
	if mathx.IsZero(dir) {
		dir = a.heading()
	}
	vel = dir.Mul(mathx.Clamp(speed, p.MinSpeed, p.MaxSpeed))
	pos := a.pos.Add(vel.Mul(dt))

	if !mathx.IsFiniteVec(vel) || !mathx.IsFiniteVec(pos) {
		return false
	}
	a.vel = vel
	a.pos = pos
	if rot, ok := mathx.LookRotation(vel); ok {
		a.rot = rot
	}
	return true
}

// heading is the last known facing: the current velocity direction, else the
// orientation's forward axis.
func (a *Agent) heading() mgl64.Vec3 {
	if dir := mathx.Normalize(a.vel); !mathx.IsZero(dir) {
		return dir
	}
	return a.Forward()
}
