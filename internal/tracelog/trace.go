package tracelog

import (
	"time"

	"flocksim.ai/internal/sim/flock"
	"flocksim.ai/internal/sim/tuning"
)

const (
	FilePrefix = "trace"
	Version    = 1

	KindHeader = "header"
	KindTick   = "tick"
)

// Header opens a run: everything needed to rebuild the initial flock.
type Header struct {
	Version   int           `json:"version"`
	StartedAt string        `json:"started_at"`
	Tuning    tuning.Tuning `json:"tuning"`
}

// Record is one line of a trace file.
type Record struct {
	Kind   string              `json:"kind"`
	Header *Header             `json:"header,omitempty"`
	Tick   *flock.TickLogEntry `json:"tick,omitempty"`
}

// TickLogger writes a run's header and one record per simulated tick (compressed).
type TickLogger struct{ w *segmentWriter }

func NewTickLogger(dir string) *TickLogger {
	return &TickLogger{w: newSegmentWriter(dir, FilePrefix)}
}

func (l *TickLogger) WriteHeader(t tuning.Tuning) error {
	return l.w.write(Record{Kind: KindHeader, Header: &Header{
		Version:   Version,
		StartedAt: l.w.now().UTC().Format(time.RFC3339),
		Tuning:    t,
	}})
}

func (l *TickLogger) WriteTick(e flock.TickLogEntry) error {
	return l.w.write(Record{Kind: KindTick, Tick: &e})
}

// Stats is the number of records written so far and the segment files they landed in.
func (l *TickLogger) Stats() (records uint64, files []string) { return l.w.stats() }

func (l *TickLogger) Close() error { return l.w.close() }
