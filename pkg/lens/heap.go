package lens

import (
	"runtime/metrics"
	"time"

	"github.com/temporal-lens/lens/internal/attach"
	"github.com/temporal-lens/lens/internal/wire"
)

// DefaultHeapColor is the fixed plot color used for the heap tracker's
// series (spec §4.9).
const DefaultHeapColor = wire.DefaultHeapColor

// heapMetricName is the runtime/metrics key sampled each tick: current
// in-use heap object bytes, the closest stdlib equivalent to the original's
// AtomicUsize total_bytes_in_use maintained inside a global allocator hook.
const heapMetricName = "/memory/classes/heap/objects:bytes"

// HeapTracker is the Go-native substitute for the original's global
// allocator hook (spec §4.9; SPEC_FULL.md "Go-native redesign"). Go has no
// pluggable #[global_allocator] equivalent reachable from user code — user
// code cannot intercept runtime.mallocgc — so instead of updating a counter
// on every allocation/deallocation, a background goroutine samples
// runtime/metrics on a fixed interval and reports it the same way: a
// PlotData with the reserved series key 0.
//
// The non-allocating invariant (spec §5, §9: "the reporter must not
// perform any heap allocation on any path") is preserved as well as a
// background goroutine can: the []metrics.Sample buffer is allocated once,
// at StartHeapTracker time, and reused every tick, the wire.PlotData is a
// local value built on each tick, and attach.GetReadOnly never allocates. Boxing data
// into the wire.Identity(data) call below to satisfy WriteInto[PlotData]
// does still cost one interface allocation per tick unless escape analysis
// proves it unnecessary — this is not the hard real-time allocator path the
// original ran on (nothing in Go can be), just a low-rate ticker goroutine,
// so that cost is acceptable rather than eliminated.
type HeapTracker struct {
	stop chan struct{}
	done chan struct{}
}

// StartHeapTracker launches the sampling goroutine at the given interval
// and returns a handle whose Stop method terminates it. Reporting silently
// no-ops on ticks where the client isn't attached (spec §7, "Unattached").
func StartHeapTracker(interval time.Duration) *HeapTracker {
	ht := &HeapTracker{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}

	samples := []metrics.Sample{{Name: heapMetricName}}

	go func() {
		defer close(ht.done)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ht.stop:
				return
			case <-ticker.C:
				reportHeapSample(samples)
			}
		}
	}()

	return ht
}

// Stop terminates the sampling goroutine and waits for it to exit.
func (ht *HeapTracker) Stop() {
	close(ht.stop)
	<-ht.done
}

// reportHeapSample is the allocation-free reporter (spec §4.9 steps 1-2):
// it reads the read-only attach accessor, and if attached, pushes one
// PlotData keyed 0 with the sampled byte count. samples is reused across
// calls by the caller to avoid a per-tick allocation.
func reportHeapSample(samples []metrics.Sample) {
	region := attach.GetReadOnly()
	if region == nil {
		return
	}

	metrics.Read(samples)
	if samples[0].Value.Kind() != metrics.KindUint64 {
		return
	}
	totalBytes := samples[0].Value.Uint64()

	startTime := attach.StartTime()
	now := time.Now().Sub(startTime).Seconds()
	if now < 0 {
		now = 0
	}

	var data wire.PlotData
	data.Time = now
	data.Color = DefaultHeapColor
	data.Value = float64(totalBytes)
	data.Name.SetSpecial(wire.HeapSeriesKey, nil)

	region.PlotData.Push(wire.Identity(data))
}
