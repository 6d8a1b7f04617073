package flock

type UpdateModel string

const (
	// SinglePass updates agents one after another; later agents observe the already
	// integrated state of earlier ones within the same tick.
	SinglePass UpdateModel = "single_pass"
	// TwoPhase computes every agent's forces against the pre-tick state, then applies them.
	TwoPhase UpdateModel = "two_phase"
)

type IndexKind string

const (
	IndexPairwise IndexKind = "pairwise"
	IndexRTree    IndexKind = "rtree"
)

type TickLogger interface {
	WriteTick(entry TickLogEntry) error
}

type TickLogEntry struct {
	Tick   uint64   `json:"tick"`
	Dt     float64  `json:"dt"`
	Joins  []string `json:"joins,omitempty"`
	Leaves []string `json:"leaves,omitempty"`
	Digest string   `json:"digest"`
}

// JoinRequest adds an agent at the next tick boundary of a running simulator.
// Resp, if set, receives nil or the rejection reason.
type JoinRequest struct {
	Agent *Agent
	Resp  chan error
}

type Stats struct {
	Ticks      uint64
	Agents     int
	Neighbors  int // neighbor links seen during the last tick
	Degenerate uint64
}

// MeanNeighbors is the average neighbor count per agent over the last tick.
func (s Stats) MeanNeighbors() float64 {
	if s.Agents == 0 {
		return 0
	}
	return float64(s.Neighbors) / float64(s.Agents)
}
