package flock

import (
	"github.com/go-gl/mathgl/mgl64"

	"flocksim.ai/internal/sim/flock/logic/mathx"
)

// View is what an agent reads from its container during a tick.
type View interface {
	Agents() []*Agent
	BoundsHalfExtents() mgl64.Vec3
}

// CandidateSource is optionally implemented by a View that can narrow the agents worth
// testing against self within radius. Candidates must include every agent that could pass
// the exact test and must keep the View's enumeration order.
type CandidateSource interface {
	Candidates(self *Agent, radius float64) []*Agent
}

// Neighbors returns the agents a currently perceives: closer than NeighborDistance and
// inside the forward cone of half-angle NeighborFov. Both comparisons are strict.
// The relation is not symmetric since each agent uses its own heading.
func (a *Agent) Neighbors(view View) []*Agent {
	if view == nil {
		return nil
	}
	distThresh := a.params.NeighborDistance
	if !(distThresh > 0) {
		return nil
	}
	prodThresh := a.params.FovCos()
	fwd := mathx.Normalize(a.vel)

	pool := view.Agents()
	if cs, ok := view.(CandidateSource); ok {
		pool = cs.Candidates(a, distThresh)
	}

	var out []*Agent
	for _, other := range pool {
		if other == a {
			continue
		}
		to := other.pos.Sub(a.pos)
		dist := to.Len()
		if !(dist < distThresh) {
			continue
		}
		dir := mathx.Normalize(to)
		if fwd.Dot(dir) > prodThresh {
			out = append(out, other)
		}
	}
	return out
}
