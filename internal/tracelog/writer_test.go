package tracelog

import (
	"path/filepath"
	"testing"
	"time"

	"flocksim.ai/internal/sim/flock"
	"flocksim.ai/internal/sim/tuning"
)

func TestTickLogger_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	l := NewTickLogger(dir)
	tu := tuning.Defaults()
	if err := l.WriteHeader(tu); err != nil {
		t.Fatalf("header: %v", err)
	}
	for i := uint64(0); i < 5; i++ {
		e := flock.TickLogEntry{Tick: i, Dt: 0.02, Digest: "d"}
		if i == 3 {
			e.Leaves = []string{"x"}
		}
		if err := l.WriteTick(e); err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
	}
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	var recs []Record
	if err := ReadDir(dir, func(r Record) error {
		recs = append(recs, r)
		return nil
	}); err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(recs) != 6 {
		t.Fatalf("records=%d want 6", len(recs))
	}
	if recs[0].Kind != KindHeader || recs[0].Header == nil || recs[0].Header.Version != Version {
		t.Fatalf("header record=%+v", recs[0])
	}
	if recs[0].Header.Tuning != tu {
		t.Fatalf("tuning did not round-trip: %+v", recs[0].Header.Tuning)
	}
	for i, r := range recs[1:] {
		if r.Kind != KindTick || r.Tick == nil || r.Tick.Tick != uint64(i) || r.Tick.Dt != 0.02 {
			t.Fatalf("tick record %d=%+v", i, r)
		}
	}
	if got := recs[4].Tick.Leaves; len(got) != 1 || got[0] != "x" {
		t.Fatalf("leaves=%v", got)
	}
}

func TestTickLogger_RotatesHourly(t *testing.T) {
	dir := t.TempDir()
	l := NewTickLogger(dir)
	now := time.Date(2024, 3, 1, 10, 59, 0, 0, time.UTC)
	l.w.now = func() time.Time { return now }

	write := func(tick uint64) {
		t.Helper()
		if err := l.WriteTick(flock.TickLogEntry{Tick: tick}); err != nil {
			t.Fatalf("write %d: %v", tick, err)
		}
	}
	write(0)
	now = now.Add(2 * time.Minute)
	write(1)
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	// Reopening the same hour appends a new zstd frame to the existing file.
	write(2)
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	records, segs := l.Stats()
	if records != 3 || len(segs) != 2 {
		t.Fatalf("stats: records=%d segments=%v", records, segs)
	}
	files, err := ListFiles(dir)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("files=%v", files)
	}
	if got, want := filepath.Base(files[0]), "trace-2024-03-01-10.jsonl.zst"; got != want {
		t.Fatalf("first file=%s want %s", got, want)
	}

	var ticks []uint64
	if err := ReadDir(dir, func(r Record) error {
		ticks = append(ticks, r.Tick.Tick)
		return nil
	}); err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(ticks) != 3 || ticks[0] != 0 || ticks[1] != 1 || ticks[2] != 2 {
		t.Fatalf("ticks=%v", ticks)
	}
}

func TestReadDir_Empty(t *testing.T) {
	if err := ReadDir(t.TempDir(), func(Record) error { return nil }); err == nil {
		t.Fatalf("expected error for a directory without traces")
	}
}
