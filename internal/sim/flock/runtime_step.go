package flock

import (
	"golang.org/x/sync/errgroup"
)

// Step runs one full tick pass over the current agent set and returns the tick that was
// simulated together with the post-tick state digest.
func (s *Simulator) Step(dt float64) (tick uint64, digest string) {
	return s.stepInternal(nil, nil, dt)
}

func (s *Simulator) stepInternal(joins []JoinRequest, leaves []string, dt float64) (uint64, string) {
	nowTick := s.tick.Load()

	// Membership changes land at the tick boundary, leaves first.
	recordedLeaves := make([]string, 0, len(leaves))
	for _, id := range leaves {
		if s.Remove(id) {
			recordedLeaves = append(recordedLeaves, id)
		}
	}
	recordedJoins := make([]string, 0, len(joins))
	for _, req := range joins {
		err := s.Add(req.Agent)
		if req.Resp != nil {
			req.Resp <- err
		}
		if err != nil {
			s.logf("tick %d: join rejected: %v", nowTick, err)
			continue
		}
		recordedJoins = append(recordedJoins, req.Agent.id)
	}
	if len(recordedJoins) > 0 || len(recordedLeaves) > 0 {
		s.logf("tick %d: joins=%d leaves=%d agents=%d", nowTick, len(recordedJoins), len(recordedLeaves), len(s.agents))
	}

	view := s.tickView(dt)

	var neighbors int
	var degenerate uint64
	switch s.cfg.Model {
	case SinglePass:
		for _, a := range s.agents {
			f := a.Acceleration(view)
			neighbors += f.Neighbors
			if !a.Apply(f, dt) {
				degenerate++
			}
		}
	default:
		forces := s.computeForces(view)
		for i, a := range s.agents {
			neighbors += forces[i].Neighbors
			if !a.Apply(forces[i], dt) {
				degenerate++
			}
		}
	}
	if degenerate > 0 {
		s.logf("tick %d: %d agents kept their previous state (non-finite step)", nowTick, degenerate)
	}

	s.stats.Ticks++
	s.stats.Agents = len(s.agents)
	s.stats.Neighbors = neighbors
	s.stats.Degenerate += degenerate

	digest := s.stateDigest(nowTick)
	s.tick.Add(1)

	if s.tickLogger != nil {
		entry := TickLogEntry{Tick: nowTick, Dt: dt, Joins: recordedJoins, Leaves: recordedLeaves, Digest: digest}
		if err := s.tickLogger.WriteTick(entry); err != nil {
			s.logf("tick %d: write tick log: %v", nowTick, err)
		}
	}
	return nowTick, digest
}

// computeForces is the read-only phase of a TwoPhase tick. Each worker writes only its
// own slots of the result.
func (s *Simulator) computeForces(view View) []Forces {
	out := make([]Forces, len(s.agents))
	n := len(s.agents)
	workers := s.cfg.Workers
	if workers <= 1 || n < 2 {
		for i, a := range s.agents {
			out[i] = a.Acceleration(view)
		}
		return out
	}
	if workers > n {
		workers = n
	}

	chunk := (n + workers - 1) / workers
	var g errgroup.Group
	g.SetLimit(workers)
	for start := 0; start < n; start += chunk {
		lo, hi := start, min(start+chunk, n)
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				out[i] = s.agents[i].Acceleration(view)
			}
			return nil
		})
	}
	_ = g.Wait()
	return out
}
