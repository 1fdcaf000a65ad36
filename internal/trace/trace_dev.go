//go:build dev

// Package trace provides runtime tracing for development builds.
//
// Usage:
//
//	REEF_TRACE=trace.out reef complete --line 'git ' --cursor 4
//	go tool trace trace.out
package trace

import (
	"context"
	"fmt"
	"os"
	"runtime/trace"
	"sync"
)

var (
	traceFile   *os.File
	traceMu     sync.Mutex
	traceActive bool
)

// Init starts tracing when REEF_TRACE names a file path. The returned
// cleanup function must be deferred by the caller.
func Init() func() {
	tracePath := os.Getenv("REEF_TRACE")
	if tracePath == "" {
		return func() {}
	}

	traceMu.Lock()
	defer traceMu.Unlock()

	var err error
	traceFile, err = os.Create(tracePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "reef: failed to create trace file %s: %v\n", tracePath, err)
		return func() {}
	}

	if err := trace.Start(traceFile); err != nil {
		fmt.Fprintf(os.Stderr, "reef: failed to start trace: %v\n", err)
		traceFile.Close()
		traceFile = nil
		return func() {}
	}

	traceActive = true

	return func() {
		traceMu.Lock()
		defer traceMu.Unlock()

		if traceActive {
			trace.Stop()
			traceActive = false
		}
		if traceFile != nil {
			traceFile.Close()
			traceFile = nil
		}
	}
}

// Region marks a traced region; end it by calling the returned func.
func Region(ctx context.Context, name string) func() {
	region := trace.StartRegion(ctx, name)
	return region.End
}
