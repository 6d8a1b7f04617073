package replay

import (
	"fmt"
	"log"

	"flocksim.ai/internal/sim/flock"
	"flocksim.ai/internal/tracelog"
)

type Options struct {
	// FromTick skips digest comparison before this tick (the ticks are still simulated).
	FromTick uint64
	// ToTick stops after this tick when non-zero.
	ToTick uint64
	Logger *log.Logger
}

type Result struct {
	Runs    int
	Checked uint64
}

// Verify re-simulates every run recorded in the trace directory from its header tuning
// and checks each tick's digest against the recorded one.
func Verify(dir string, opts Options) (Result, error) {
	var res Result
	var sim *flock.Simulator
	done := false

	err := tracelog.ReadDir(dir, func(rec tracelog.Record) error {
		switch rec.Kind {
		case tracelog.KindHeader:
			if rec.Header == nil {
				return fmt.Errorf("header record without header")
			}
			if rec.Header.Version != tracelog.Version {
				return fmt.Errorf("unsupported trace version %d", rec.Header.Version)
			}
			s, err := rec.Header.Tuning.NewSimulator()
			if err != nil {
				return fmt.Errorf("rebuild run %d: %w", res.Runs+1, err)
			}
			sim = s
			done = false
			res.Runs++
			if opts.Logger != nil {
				opts.Logger.Printf("run %d: started_at=%s agents=%d model=%s index=%s",
					res.Runs, rec.Header.StartedAt, len(sim.Agents()), sim.Config().Model, sim.Config().Index)
			}
		case tracelog.KindTick:
			if rec.Tick == nil {
				return fmt.Errorf("tick record without tick")
			}
			if sim == nil {
				return fmt.Errorf("tick %d recorded before any header", rec.Tick.Tick)
			}
			if done {
				return nil
			}
			return verifyTick(sim, *rec.Tick, opts, &res, &done)
		default:
			return fmt.Errorf("unknown record kind %q", rec.Kind)
		}
		return nil
	})
	return res, err
}

func verifyTick(sim *flock.Simulator, e flock.TickLogEntry, opts Options, res *Result, done *bool) error {
	if e.Tick != sim.CurrentTick() {
		return fmt.Errorf("tick mismatch: want=%d got=%d", sim.CurrentTick(), e.Tick)
	}
	if len(e.Joins) > 0 {
		return fmt.Errorf("tick %d: joins are not replayable (agent state is not traced)", e.Tick)
	}
	tick, digest := sim.StepOnce(nil, e.Leaves, e.Dt)
	if tick != e.Tick {
		return fmt.Errorf("internal tick mismatch: stepped=%d entry=%d", tick, e.Tick)
	}
	if tick >= opts.FromTick {
		res.Checked++
		if digest != e.Digest {
			return fmt.Errorf("digest mismatch at tick %d: got=%s want=%s", tick, digest, e.Digest)
		}
	}
	if opts.ToTick != 0 && tick >= opts.ToTick {
		*done = true
	}
	return nil
}
