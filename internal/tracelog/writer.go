package tracelog

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
)

const segmentLayout = "2006-01-02-15"

// segmentWriter appends trace records to hourly segments named
// <prefix>-YYYY-MM-DD-HH.jsonl.zst. Reopening a segment appends a new zstd frame.
type segmentWriter struct {
	dir    string
	prefix string
	now    func() time.Time

	mu       sync.Mutex
	segment  string
	f        *os.File
	zw       *zstd.Encoder
	bw       *bufio.Writer
	enc      *json.Encoder
	written  uint64
	segments []string
}

func newSegmentWriter(dir, prefix string) *segmentWriter {
	return &segmentWriter{dir: dir, prefix: prefix, now: time.Now}
}

// write encodes rec as one line and flushes it through the compressor.
func (w *segmentWriter) write(rec Record) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if seg := w.now().UTC().Format(segmentLayout); seg != w.segment {
		if err := w.openLocked(seg); err != nil {
			return fmt.Errorf("open trace segment %s: %w", seg, err)
		}
	}
	if err := w.enc.Encode(rec); err != nil {
		return err
	}
	if err := w.bw.Flush(); err != nil {
		return err
	}
	w.written++
	return w.zw.Flush()
}

func (w *segmentWriter) openLocked(seg string) error {
	if err := w.closeLocked(); err != nil {
		return err
	}
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(w.dir, fmt.Sprintf("%s-%s.jsonl.zst", w.prefix, seg))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	zw, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return err
	}
	w.f, w.zw = f, zw
	w.bw = bufio.NewWriterSize(zw, 64*1024)
	w.enc = json.NewEncoder(w.bw)
	w.segment = seg
	if n := len(w.segments); n == 0 || w.segments[n-1] != path {
		w.segments = append(w.segments, path)
	}
	return nil
}

func (w *segmentWriter) close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closeLocked()
}

func (w *segmentWriter) closeLocked() error {
	var err error
	if w.bw != nil {
		err = w.bw.Flush()
	}
	if w.zw != nil {
		if cerr := w.zw.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	if w.f != nil {
		if cerr := w.f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	w.f, w.zw, w.bw, w.enc = nil, nil, nil, nil
	w.segment = ""
	return err
}

// stats reports how many records were written and which segment files they went to.
func (w *segmentWriter) stats() (records uint64, segments []string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.written, append([]string(nil), w.segments...)
}
