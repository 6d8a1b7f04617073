package spawn

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"flocksim.ai/internal/sim/flock"
)

// Namespace scopes the name-based agent ids so they stay stable across runs.
var Namespace = uuid.MustParse("6f1c1c5e-3d0b-4c52-9a53-5b7f2f7d9a10")

type Config struct {
	Seed  int64
	Count int
	// HalfExtents of the bounding volume; agents are placed within Fill of it.
	HalfExtents mgl64.Vec3
	Fill        float64
}

// AgentID is the deterministic id of the i-th agent spawned with seed.
func AgentID(seed int64, i int) string {
	return uuid.NewSHA1(Namespace, []byte(fmt.Sprintf("%d/%d", seed, i))).String()
}

// Flock places cfg.Count agents uniformly inside the (filled) volume, each heading in a
// uniformly random direction. The same Config always yields the same flock.
func Flock(cfg Config, params *flock.AgentParams) ([]*flock.Agent, error) {
	if cfg.Count < 0 {
		return nil, fmt.Errorf("agent count must be >= 0, got %d", cfg.Count)
	}
	fill := cfg.Fill
	if fill <= 0 || fill > 1 {
		return nil, fmt.Errorf("spawn fill must be in (0, 1], got %v", fill)
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	out := make([]*flock.Agent, 0, cfg.Count)
	for i := 0; i < cfg.Count; i++ {
		var pos mgl64.Vec3
		for axis := 0; axis < 3; axis++ {
			pos[axis] = (2*rng.Float64() - 1) * cfg.HalfExtents[axis] * fill
		}
		out = append(out, flock.NewAgent(AgentID(cfg.Seed, i), pos, unitVector(rng), params))
	}
	return out, nil
}

// unitVector samples a direction uniformly on the sphere.
func unitVector(rng *rand.Rand) mgl64.Vec3 {
	z := 2*rng.Float64() - 1
	phi := 2 * math.Pi * rng.Float64()
	r := math.Sqrt(1 - z*z)
	sin, cos := math.Sincos(phi)
	return mgl64.Vec3{r * cos, r * sin, z}
}

// Populate spawns the flock described by cfg into sim.
func Populate(sim *flock.Simulator, cfg Config, params *flock.AgentParams) error {
	agents, err := Flock(cfg, params)
	if err != nil {
		return err
	}
	for _, a := range agents {
		if err := sim.Add(a); err != nil {
			return err
		}
	}
	return nil
}
