package flock

import (
	"math"

	"flocksim.ai/internal/sim/flock/logic/mathx"
)

// AgentParams holds the tunable constants shared by every agent of a flock.
// It is read-only once the simulation starts.
type AgentParams struct {
	InitSpeed float64 `yaml:"init_speed" toml:"init_speed" json:"init_speed"`

	NeighborDistance float64 `yaml:"neighbor_distance" toml:"neighbor_distance" json:"neighbor_distance"`
	NeighborFov      float64 `yaml:"neighbor_fov" toml:"neighbor_fov" json:"neighbor_fov"` // half-angle, degrees

	SeparationWeight float64 `yaml:"separation_weight" toml:"separation_weight" json:"separation_weight"`
	AlignmentWeight  float64 `yaml:"alignment_weight" toml:"alignment_weight" json:"alignment_weight"`
	CohesionWeight   float64 `yaml:"cohesion_weight" toml:"cohesion_weight" json:"cohesion_weight"`

	WallDistance float64 `yaml:"wall_distance" toml:"wall_distance" json:"wall_distance"`
	WallWeight   float64 `yaml:"wall_weight" toml:"wall_weight" json:"wall_weight"`

	MinSpeed float64 `yaml:"min_speed" toml:"min_speed" json:"min_speed"`
	MaxSpeed float64 `yaml:"max_speed" toml:"max_speed" json:"max_speed"`

	// ClampInitSpeed clamps InitSpeed into [MinSpeed, MaxSpeed] at construction.
	// Off by default: the spawn speed is used as given.
	ClampInitSpeed bool `yaml:"clamp_init_speed" toml:"clamp_init_speed" json:"clamp_init_speed,omitempty"`
}

// DefaultAgentParams are the stock flocking constants.
func DefaultAgentParams() AgentParams {
	return AgentParams{
		InitSpeed:        2,
		NeighborDistance: 1,
		NeighborFov:      90,
		SeparationWeight: 5,
		AlignmentWeight:  2,
		CohesionWeight:   3,
		WallDistance:     3,
		WallWeight:       1,
		MinSpeed:         2,
		MaxSpeed:         5,
	}
}

// FovCos is the dot-product threshold a neighbor direction must exceed.
func (p *AgentParams) FovCos() float64 {
	return math.Cos(mathx.Deg2Rad(p.NeighborFov))
}

func (p *AgentParams) spawnSpeed() float64 {
	if p.ClampInitSpeed {
		return mathx.Clamp(p.InitSpeed, p.MinSpeed, p.MaxSpeed)
	}
	return p.InitSpeed
}
