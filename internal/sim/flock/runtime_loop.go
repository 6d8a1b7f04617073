package flock

import (
	"context"
	"fmt"
	"time"
)

// Run drives the simulator in real time: one Step of cfg.Dt per 1/TickRateHz. Join and
// Leave requests are queued and applied at the next tick boundary.
func (s *Simulator) Run(ctx context.Context) error {
	if s.cfg.TickRateHz <= 0 {
		return fmt.Errorf("tick rate must be > 0, got %d", s.cfg.TickRateHz)
	}
	interval := time.Second / time.Duration(s.cfg.TickRateHz)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var pendingJoins []JoinRequest
	var pendingLeaves []string

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.stop:
			return nil
		case req := <-s.join:
			pendingJoins = append(pendingJoins, req)
		case id := <-s.leave:
			pendingLeaves = append(pendingLeaves, id)
		case <-ticker.C:
			s.stepInternal(pendingJoins, pendingLeaves, s.cfg.Dt)
			pendingJoins = pendingJoins[:0]
			pendingLeaves = pendingLeaves[:0]
		}
	}
}

func (s *Simulator) Stop() { s.stopOnce.Do(func() { close(s.stop) }) }

// StepOnce advances by a single tick of dt with the given membership changes, using the
// same ordering as Run. It is meant for deterministic replays and tests.
func (s *Simulator) StepOnce(joins []JoinRequest, leaves []string, dt float64) (tick uint64, digest string) {
	return s.stepInternal(joins, leaves, dt)
}
