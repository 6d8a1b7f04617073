package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"flocksim.ai/internal/sim/replay"
)

func main() {
	var (
		traceDir = flag.String("trace", "", "trace dir containing trace-*.jsonl.zst")
		fromTick = flag.Uint64("from_tick", 0, "start verifying from tick (inclusive, optional)")
		toTick   = flag.Uint64("to_tick", 0, "stop at tick (inclusive, optional)")
		verbose  = flag.Bool("v", false, "log each run as it is rebuilt")
	)
	flag.Parse()

	if *traceDir == "" {
		fmt.Fprintln(os.Stderr, "missing -trace")
		os.Exit(2)
	}

	opts := replay.Options{FromTick: *fromTick, ToTick: *toTick}
	if *verbose {
		opts.Logger = log.New(os.Stderr, "[replay] ", log.LstdFlags)
	}
	res, err := replay.Verify(*traceDir, opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, "replay:", err)
		os.Exit(1)
	}
	fmt.Printf("replay ok: runs=%d checked=%d ticks\n", res.Runs, res.Checked)
}
