package flock

import (
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl64"
)

type Config struct {
	HalfExtents mgl64.Vec3
	Model       UpdateModel
	Index       IndexKind
	// Workers bounds the goroutines used by the TwoPhase compute phase; <= 1 runs inline.
	Workers int

	TickRateHz int
	Dt         float64
}

// Simulator owns the live agent set and the bounding volume. Membership must only
// change between ticks: Add/Remove are not safe to call concurrently with Step, and a
// running simulator takes membership changes through Join/Leave instead.
type Simulator struct {
	cfg Config

	agents []*Agent
	byID   map[string]*Agent

	tick  atomic.Uint64
	stats Stats

	logger     *log.Logger
	tickLogger TickLogger

	join     chan JoinRequest
	leave    chan string
	stop     chan struct{}
	stopOnce sync.Once
}

func New(cfg Config) (*Simulator, error) {
	switch cfg.Model {
	case "":
		cfg.Model = TwoPhase
	case SinglePass, TwoPhase:
	default:
		return nil, fmt.Errorf("unknown update model: %q", cfg.Model)
	}
	switch cfg.Index {
	case "":
		cfg.Index = IndexPairwise
	case IndexPairwise, IndexRTree:
	default:
		return nil, fmt.Errorf("unknown spatial index: %q", cfg.Index)
	}
	for i := 0; i < 3; i++ {
		if !(cfg.HalfExtents[i] > 0) {
			return nil, fmt.Errorf("half extents must be > 0, got %v", cfg.HalfExtents)
		}
	}
	return &Simulator{
		cfg:   cfg,
		byID:  map[string]*Agent{},
		join:  make(chan JoinRequest, 64),
		leave: make(chan string, 64),
		stop:  make(chan struct{}),
	}, nil
}

func (s *Simulator) SetLogger(l *log.Logger)       { s.logger = l }
func (s *Simulator) SetTickLogger(l TickLogger)    { s.tickLogger = l }
func (s *Simulator) Join() chan<- JoinRequest      { return s.join }
func (s *Simulator) Leave() chan<- string          { return s.leave }
func (s *Simulator) CurrentTick() uint64           { return s.tick.Load() }
func (s *Simulator) Config() Config                { return s.cfg }
func (s *Simulator) Stats() Stats                  { return s.stats }
func (s *Simulator) Agents() []*Agent              { return s.agents }
func (s *Simulator) BoundsHalfExtents() mgl64.Vec3 { return s.cfg.HalfExtents }

func (s *Simulator) Agent(id string) *Agent { return s.byID[id] }

// Add appends a to the enumeration order.
func (s *Simulator) Add(a *Agent) error {
	if a == nil {
		return fmt.Errorf("nil agent")
	}
	if a.id == "" {
		return fmt.Errorf("agent id must not be empty")
	}
	if _, ok := s.byID[a.id]; ok {
		return fmt.Errorf("duplicate agent id: %s", a.id)
	}
	s.agents = append(s.agents, a)
	s.byID[a.id] = a
	return nil
}

// Remove drops the agent with the given id, preserving the order of the rest.
func (s *Simulator) Remove(id string) bool {
	a, ok := s.byID[id]
	if !ok {
		return false
	}
	delete(s.byID, id)
	// Fresh backing array: slices handed out by Agents() keep their contents.
	kept := make([]*Agent, 0, len(s.agents)-1)
	for _, b := range s.agents {
		if b != a {
			kept = append(kept, b)
		}
	}
	s.agents = kept
	return true
}

func (s *Simulator) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}
