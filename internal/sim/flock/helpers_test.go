package flock

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

// sliceView is a fixed View over a hand-built agent set.
type sliceView struct {
	agents []*Agent
	half   mgl64.Vec3
}

func (v sliceView) Agents() []*Agent              { return v.agents }
func (v sliceView) BoundsHalfExtents() mgl64.Vec3 { return v.half }

func quietParams() *AgentParams {
	p := DefaultAgentParams()
	p.SeparationWeight = 0
	p.AlignmentWeight = 0
	p.CohesionWeight = 0
	p.WallWeight = 0
	return &p
}

func newTestSim(t *testing.T, cfg Config) *Simulator {
	t.Helper()
	if cfg.HalfExtents == (mgl64.Vec3{}) {
		cfg.HalfExtents = mgl64.Vec3{5, 5, 5}
	}
	s, err := New(cfg)
	if err != nil {
		t.Fatalf("new simulator: %v", err)
	}
	return s
}

// populate adds n agents with seeded positions inside fill*half and random headings.
func populate(t *testing.T, s *Simulator, n int, seed int64, fill float64, params *AgentParams) {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	half := s.BoundsHalfExtents()
	for i := 0; i < n; i++ {
		var pos mgl64.Vec3
		for k := 0; k < 3; k++ {
			pos[k] = (rng.Float64()*2 - 1) * half[k] * fill
		}
		dir := mgl64.Vec3{rng.NormFloat64(), rng.NormFloat64(), rng.NormFloat64()}
		if err := s.Add(NewAgent(fmt.Sprintf("a%03d", i), pos, dir, params)); err != nil {
			t.Fatalf("add agent %d: %v", i, err)
		}
	}
}

// approxVec compares by absolute distance, so zero components tolerate rounding residue.
func approxVec(a, b mgl64.Vec3, eps float64) bool {
	return a.Sub(b).Len() < eps
}
