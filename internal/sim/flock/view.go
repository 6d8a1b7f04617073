package flock

import (
	"github.com/go-gl/mathgl/mgl64"

	"flocksim.ai/internal/sim/flock/logic/spatial"
)

// tickView picks the view agents sense through for one tick.
func (s *Simulator) tickView(dt float64) View {
	if s.cfg.Index != IndexRTree || len(s.agents) < 2 {
		return s
	}
	points := make([]mgl64.Vec3, len(s.agents))
	for i, a := range s.agents {
		points[i] = a.pos
	}
	idx, err := spatial.Build(points)
	if err != nil {
		s.logf("spatial index: %v; falling back to pairwise scan", err)
		return s
	}
	return &indexedView{sim: s, idx: idx, pad: s.movementPad(dt)}
}

// movementPad is how far an agent can move within one pass. In a SinglePass tick agents
// earlier in the order have already moved when later ones query the index built from
// pre-tick positions, so queries are widened by it.
func (s *Simulator) movementPad(dt float64) float64 {
	if s.cfg.Model != SinglePass {
		return 0
	}
	if dt < 0 {
		dt = -dt
	}
	var maxSpeed float64
	for _, a := range s.agents {
		if a.params.MaxSpeed > maxSpeed {
			maxSpeed = a.params.MaxSpeed
		}
		if sp := a.Speed(); sp > maxSpeed {
			maxSpeed = sp
		}
	}
	return maxSpeed * dt * (1 + 1e-9)
}

// indexedView narrows neighbor candidates with an R-tree over the pre-tick positions.
// The exact distance and FOV tests still run on live state, so the neighbor sets match
// the pairwise scan.
type indexedView struct {
	sim *Simulator
	idx *spatial.Index
	pad float64
}

func (v *indexedView) Agents() []*Agent              { return v.sim.agents }
func (v *indexedView) BoundsHalfExtents() mgl64.Vec3 { return v.sim.cfg.HalfExtents }

func (v *indexedView) Candidates(self *Agent, radius float64) []*Agent {
	slots := v.idx.Query(self.pos, radius+v.pad+spatial.Slack)
	out := make([]*Agent, 0, len(slots))
	for _, i := range slots {
		out = append(out, v.sim.agents[i])
	}
	return out
}
