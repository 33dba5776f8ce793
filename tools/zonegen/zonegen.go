// Command zonegen is a synthetic load generator for the temporal-lens
// client runtime, adapted from the teacher's tools/dataset_gen (a flag-
// driven standalone generator meant to be run outside `go test`). Where the
// teacher emits a dataset of keys for offline benchmarking, zonegen instead
// drives the client runtime itself: N goroutines open/close zones at a
// configurable rate against whatever collector (real or test-harness) is
// currently attached at the well-known shared-region path, plus one frame
// delimiter and one plot series on the main goroutine. It never writes a
// dataset file — there is nothing to serialize, the whole point is to
// exercise Payload push/drain and the attach retry loop under load.
//
// Usage:
//
//	go run ./tools/zonegen -goroutines 8 -duration 10s -rate 2000
//
// Flags:
//
//	-goroutines  number of concurrent zone-emitting goroutines (default 4)
//	-duration    how long to run before exiting (default 10s)
//	-rate        target zone Begin/End pairs per second, per goroutine
//	-zone        the zone name recorded on every emitted ZoneData
//
// © 2026 temporal-lens authors. MIT License.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/temporal-lens/lens/pkg/lens"
)

func main() {
	var (
		goroutines = flag.Int("goroutines", 4, "number of concurrent zone-emitting goroutines")
		duration   = flag.Duration("duration", 10*time.Second, "how long to run before exiting")
		rate       = flag.Int("rate", 500, "target zone Begin/End pairs per second, per goroutine")
		zoneName   = flag.String("zone", "zonegen.work", "zone name recorded on every emitted ZoneData")
	)
	flag.Parse()

	if *goroutines <= 0 || *rate <= 0 {
		fmt.Fprintln(os.Stderr, "zonegen: -goroutines and -rate must be positive")
		os.Exit(1)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintln(os.Stderr, "zonegen: build logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	lens.Preinit(lens.WithLogger(logger))

	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	info := lens.NewZoneInfo(*zoneName, lens.DefaultZoneColor)

	var wg sync.WaitGroup
	for i := 0; i < *goroutines; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			runWorker(ctx, workerID, *rate, info)
		}(i)
	}

	frame := lens.NewFrameDelimiter()
	ticker := time.NewTicker(16 * time.Millisecond)
	defer ticker.Stop()

	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))

loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case <-ticker.C:
			frame.Mark()
			lens.SubmitPlot("zonegen.jitter", rnd.Float64()*100, 0x00E06C75)
		}
	}

	wg.Wait()
	logger.Info("zonegen finished", zap.Int("goroutines", *goroutines), zap.Duration("duration", *duration))
}

func runWorker(ctx context.Context, workerID int, rate int, info *lens.ZoneInfo) {
	tc := lens.NewThreadContext(fmt.Sprintf("zonegen-%d", workerID))
	interval := time.Second / time.Duration(rate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			z := lens.Begin(tc, info)
			z.End()
		}
	}
}
