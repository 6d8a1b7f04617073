package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/cheggaaa/pb"

	"flocksim.ai/internal/sim/flock"
	"flocksim.ai/internal/sim/tuning"
	"flocksim.ai/internal/tracelog"
)

type options struct {
	tuningPath string
	ticks      int
	traceDir   string
	progress   bool
	model      string
	index      string
	workers    int
}

func main() {
	var opts options
	flag.StringVar(&opts.tuningPath, "tuning", "", "path to tuning.yaml or tuning.toml (default: built-in defaults)")
	flag.IntVar(&opts.ticks, "ticks", 0, "run this many ticks as fast as possible, then exit (0: run in real time until interrupted)")
	flag.StringVar(&opts.traceDir, "trace", "", "directory for the compressed tick trace (empty to disable)")
	flag.BoolVar(&opts.progress, "progress", true, "show a progress bar in batch mode")
	flag.StringVar(&opts.model, "model", "", "override update_model (single_pass|two_phase)")
	flag.StringVar(&opts.index, "index", "", "override spatial_index (pairwise|rtree)")
	flag.IntVar(&opts.workers, "workers", -1, "override workers for the two_phase compute phase (-1: keep tuning)")
	flag.Parse()

	logger := log.New(os.Stdout, "[flocksim] ", log.LstdFlags|log.Lmicroseconds)
	if err := run(opts, logger); err != nil {
		logger.Fatalf("%v", err)
	}
}

// run owns every resource it opens, so all cleanup happens before main exits.
func run(opts options, logger *log.Logger) (err error) {
	tune, err := tuning.Load(opts.tuningPath)
	if err != nil {
		return fmt.Errorf("load tuning: %w", err)
	}
	if s := strings.TrimSpace(opts.model); s != "" {
		tune.UpdateModel = s
	}
	if s := strings.TrimSpace(opts.index); s != "" {
		tune.SpatialIndex = s
	}
	if opts.workers >= 0 {
		tune.Workers = opts.workers
	}
	if err := tune.Validate(); err != nil {
		return fmt.Errorf("tuning: %w", err)
	}

	sim, err := tune.NewSimulator()
	if err != nil {
		return fmt.Errorf("simulator: %w", err)
	}
	sim.SetLogger(logger)

	sl := &statsLogger{
		sim:    sim,
		every:  uint64(tune.LogEveryTicks),
		logger: logger,
	}
	if dir := strings.TrimSpace(opts.traceDir); dir != "" {
		trace := tracelog.NewTickLogger(dir)
		defer func() {
			if cerr := trace.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("close trace: %w", cerr)
			}
			records, files := trace.Stats()
			logger.Printf("trace: records=%d files=%v", records, files)
		}()
		if err := trace.WriteHeader(tune); err != nil {
			return fmt.Errorf("write trace header: %w", err)
		}
		sl.next = trace
	}
	sim.SetTickLogger(sl)

	logger.Printf("agents=%d bounds=%v model=%s index=%s workers=%d dt=%g",
		len(sim.Agents()), tune.World.HalfExtents, tune.UpdateModel, tune.SpatialIndex, tune.Workers, tune.Dt)

	if opts.ticks > 0 {
		runBatch(sim, tune.Dt, opts.ticks, opts.progress)
	} else {
		ctx, cancel := signalContext()
		defer cancel()
		logger.Printf("running at %d Hz, ctrl-c to stop", tune.TickRateHz)
		if err := sim.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("run: %w", err)
		}
	}

	st := sim.Stats()
	logger.Printf("done: ticks=%d agents=%d mean_neighbors=%.2f degenerate=%d digest=%s",
		st.Ticks, st.Agents, st.MeanNeighbors(), st.Degenerate, sim.Digest())
	return nil
}

func runBatch(sim *flock.Simulator, dt float64, ticks int, progress bool) {
	var bar *pb.ProgressBar
	if progress {
		bar = pb.New(ticks)
		bar.Output = os.Stderr
		bar.ShowSpeed = true
		bar.SetWidth(80)
		bar.Start()
	}
	for i := 0; i < ticks; i++ {
		sim.Step(dt)
		if bar != nil {
			bar.Increment()
		}
	}
	if bar != nil {
		bar.Finish()
	}
}

// statsLogger forwards tick entries to the trace and logs flock statistics every
// `every` ticks. It runs on the simulation goroutine.
type statsLogger struct {
	sim    *flock.Simulator
	next   flock.TickLogger
	every  uint64
	logger *log.Logger
}

func (l *statsLogger) WriteTick(e flock.TickLogEntry) error {
	if l.every > 0 && (e.Tick+1)%l.every == 0 {
		st := l.sim.Stats()
		l.logger.Printf("tick=%d agents=%d mean_neighbors=%.2f degenerate=%d digest=%s",
			e.Tick, st.Agents, st.MeanNeighbors(), st.Degenerate, e.Digest[:12])
	}
	if l.next == nil {
		return nil
	}
	return l.next.WriteTick(e)
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ch
		cancel()
	}()
	return ctx, cancel
}
