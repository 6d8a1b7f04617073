package tuning

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"flocksim.ai/internal/sim/flock"
	"flocksim.ai/internal/sim/spawn"
)

type Tuning struct {
	Agent flock.AgentParams `yaml:"agent" toml:"agent" json:"agent"`
	World World             `yaml:"world" toml:"world" json:"world"`

	TickRateHz int     `yaml:"tick_rate_hz" toml:"tick_rate_hz" json:"tick_rate_hz"`
	Dt         float64 `yaml:"dt" toml:"dt" json:"dt"`

	UpdateModel  string `yaml:"update_model" toml:"update_model" json:"update_model"`
	SpatialIndex string `yaml:"spatial_index" toml:"spatial_index" json:"spatial_index"`
	Workers      int    `yaml:"workers" toml:"workers" json:"workers"`

	LogEveryTicks int `yaml:"log_every_ticks" toml:"log_every_ticks" json:"log_every_ticks"`
}

type World struct {
	HalfExtents [3]float64 `yaml:"half_extents" toml:"half_extents" json:"half_extents"`
	AgentCount  int        `yaml:"agent_count" toml:"agent_count" json:"agent_count"`
	Seed        int64      `yaml:"seed" toml:"seed" json:"seed"`
	SpawnFill   float64    `yaml:"spawn_fill" toml:"spawn_fill" json:"spawn_fill"`
}

func Defaults() Tuning {
	t := Tuning{
		Agent: flock.DefaultAgentParams(),
		World: World{
			HalfExtents: [3]float64{5, 5, 5},
			AgentCount:  100,
			Seed:        1337,
			SpawnFill:   0.8,
		},
		TickRateHz:    60,
		UpdateModel:   string(flock.TwoPhase),
		SpatialIndex:  string(flock.IndexPairwise),
		LogEveryTicks: 600,
	}
	t.Normalize()
	return t
}

// Load reads a yaml (.yaml/.yml) or toml (.toml) tuning file over the defaults.
// An empty path yields the defaults.
func Load(path string) (Tuning, error) {
	t := Defaults()
	t.Dt = 0 // re-derived from tick_rate_hz unless the file sets it
	if strings.TrimSpace(path) == "" {
		t.Normalize()
		return t, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	name := filepath.Base(path)

	var doc any
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, &t); err != nil {
			return t, fmt.Errorf("%s: %w", name, err)
		}
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return t, fmt.Errorf("%s: %w", name, err)
		}
	case ".toml":
		if _, err := toml.Decode(string(raw), &t); err != nil {
			return t, fmt.Errorf("%s: %w", name, err)
		}
		var m map[string]any
		if _, err := toml.Decode(string(raw), &m); err != nil {
			return t, fmt.Errorf("%s: %w", name, err)
		}
		doc = m
	default:
		return t, fmt.Errorf("%s: unsupported tuning format %q (want .yaml, .yml or .toml)", name, ext)
	}

	if err := ValidateDocument(doc); err != nil {
		return t, fmt.Errorf("%s: %w", name, err)
	}
	t.Normalize()
	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("%s: %w", name, err)
	}
	return t, nil
}

func (t *Tuning) Normalize() {
	if t == nil {
		return
	}
	if t.UpdateModel == "" {
		t.UpdateModel = string(flock.TwoPhase)
	}
	if t.SpatialIndex == "" {
		t.SpatialIndex = string(flock.IndexPairwise)
	}
	if t.Dt == 0 && t.TickRateHz > 0 {
		t.Dt = 1 / float64(t.TickRateHz)
	}
	if t.World.SpawnFill == 0 {
		t.World.SpawnFill = 0.8
	}
	if t.Workers < 0 {
		t.Workers = 0
	}
}

func (t Tuning) Validate() error {
	a := t.Agent
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"agent.init_speed", a.InitSpeed},
		{"agent.neighbor_distance", a.NeighborDistance},
		{"agent.neighbor_fov", a.NeighborFov},
		{"agent.separation_weight", a.SeparationWeight},
		{"agent.alignment_weight", a.AlignmentWeight},
		{"agent.cohesion_weight", a.CohesionWeight},
		{"agent.wall_distance", a.WallDistance},
		{"agent.wall_weight", a.WallWeight},
		{"agent.min_speed", a.MinSpeed},
		{"agent.max_speed", a.MaxSpeed},
		{"dt", t.Dt},
	} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return fmt.Errorf("%s must be finite", f.name)
		}
		if f.v < 0 {
			return fmt.Errorf("%s must be >= 0", f.name)
		}
	}
	if a.NeighborFov > 180 {
		return fmt.Errorf("agent.neighbor_fov must be in [0, 180]")
	}
	if a.MinSpeed > a.MaxSpeed {
		return fmt.Errorf("agent.min_speed (%v) must be <= agent.max_speed (%v)", a.MinSpeed, a.MaxSpeed)
	}
	if a.WallDistance == 0 {
		return fmt.Errorf("agent.wall_distance must be > 0")
	}
	for i, h := range t.World.HalfExtents {
		if !(h > 0) || math.IsInf(h, 0) {
			return fmt.Errorf("world.half_extents[%d] must be a finite value > 0", i)
		}
	}
	if t.World.AgentCount < 0 {
		return fmt.Errorf("world.agent_count must be >= 0")
	}
	if t.World.SpawnFill <= 0 || t.World.SpawnFill > 1 {
		return fmt.Errorf("world.spawn_fill must be in (0, 1]")
	}
	if t.TickRateHz <= 0 {
		return fmt.Errorf("tick_rate_hz must be > 0")
	}
	if t.Dt == 0 {
		return fmt.Errorf("dt must be > 0")
	}
	switch flock.UpdateModel(t.UpdateModel) {
	case flock.SinglePass, flock.TwoPhase:
	default:
		return fmt.Errorf("update_model must be %q or %q, got %q", flock.SinglePass, flock.TwoPhase, t.UpdateModel)
	}
	switch flock.IndexKind(t.SpatialIndex) {
	case flock.IndexPairwise, flock.IndexRTree:
	default:
		return fmt.Errorf("spatial_index must be %q or %q, got %q", flock.IndexPairwise, flock.IndexRTree, t.SpatialIndex)
	}
	if t.LogEveryTicks < 0 {
		return fmt.Errorf("log_every_ticks must be >= 0")
	}
	return nil
}

func (t Tuning) HalfExtents() mgl64.Vec3 {
	return mgl64.Vec3(t.World.HalfExtents)
}

func (t Tuning) FlockConfig() flock.Config {
	return flock.Config{
		HalfExtents: t.HalfExtents(),
		Model:       flock.UpdateModel(t.UpdateModel),
		Index:       flock.IndexKind(t.SpatialIndex),
		Workers:     t.Workers,
		TickRateHz:  t.TickRateHz,
		Dt:          t.Dt,
	}
}

func (t Tuning) SpawnConfig() spawn.Config {
	return spawn.Config{
		Seed:        t.World.Seed,
		Count:       t.World.AgentCount,
		HalfExtents: t.HalfExtents(),
		Fill:        t.World.SpawnFill,
	}
}

//go:embed tuning.schema.json
var schemaJSON []byte

const schemaURL = "https://flocksim.ai/schemas/tuning.schema.json"

var compileSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
		return nil, err
	}
	return c.Compile(schemaURL)
})

// ValidateDocument checks a decoded tuning document (yaml or toml) against the tuning
// JSON schema. It catches misspelled keys and out-of-range values before defaults hide them.
func ValidateDocument(doc any) error {
	if doc == nil {
		return nil
	}
	s, err := compileSchema()
	if err != nil {
		return fmt.Errorf("compile tuning schema: %w", err)
	}
	// Round-trip through JSON so yaml/toml scalar types match what the validator expects.
	b, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("tuning document: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return fmt.Errorf("tuning document: %w", err)
	}
	if err := s.Validate(v); err != nil {
		return fmt.Errorf("schema: %w", err)
	}
	return nil
}

// NewSimulator builds a simulator from t and spawns its initial flock. Every agent
// shares one copy of t.Agent.
func (t Tuning) NewSimulator() (*flock.Simulator, error) {
	sim, err := flock.New(t.FlockConfig())
	if err != nil {
		return nil, err
	}
	params := t.Agent
	if err := spawn.Populate(sim, t.SpawnConfig(), &params); err != nil {
		return nil, fmt.Errorf("spawn: %w", err)
	}
	return sim, nil
}
