package flock

import (
	"github.com/go-gl/mathgl/mgl64"

	"flocksim.ai/internal/sim/flock/logic/mathx"
)

// Agent is one flocking entity. Position and velocity are only changed by Tick/Apply;
// orientation is derived from the velocity after every integration.
type Agent struct {
	id     string
	params *AgentParams

	pos mgl64.Vec3
	vel mgl64.Vec3
	rot mgl64.Quat
}

// NewAgent spawns an agent at pos heading along forward with the params' initial speed.
func NewAgent(id string, pos, forward mgl64.Vec3, params *AgentParams) *Agent {
	dir := mathx.Normalize(forward)
	a := &Agent{
		id:     id,
		params: params,
		pos:    pos,
		vel:    dir.Mul(params.spawnSpeed()),
	}
	a.rot, _ = mathx.LookRotation(dir)
	return a
}

// NewAgentWithVelocity places an agent with an explicit velocity. The velocity is taken
// as given (not clamped); the orientation follows it when it is non-zero.
func NewAgentWithVelocity(id string, pos, vel mgl64.Vec3, params *AgentParams) *Agent {
	a := &Agent{
		id:     id,
		params: params,
		pos:    pos,
		vel:    vel,
	}
	a.rot, _ = mathx.LookRotation(vel)
	return a
}

func (a *Agent) ID() string              { return a.id }
func (a *Agent) Params() *AgentParams    { return a.params }
func (a *Agent) Position() mgl64.Vec3    { return a.pos }
func (a *Agent) Velocity() mgl64.Vec3    { return a.vel }
func (a *Agent) Orientation() mgl64.Quat { return a.rot }
func (a *Agent) Speed() float64          { return a.vel.Len() }
func (a *Agent) Forward() mgl64.Vec3     { return a.rot.Rotate(mathx.Forward) }

// Tick advances the agent by dt: sense neighbors through view, sum the steering forces,
// integrate, clamp speed and re-derive the orientation. A nil view skips neighbor and wall
// sensing and only integrates.
//
// It reports false when the step was degenerate and the previous state was kept.
func (a *Agent) Tick(view View, dt float64) bool {
	return a.Apply(a.Acceleration(view), dt)
}
