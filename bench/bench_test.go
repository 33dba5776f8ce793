// Package bench provides reproducible micro-benchmarks for the
// temporal-lens client runtime's hot paths, adapted from the teacher's
// bench/bench_test.go (same -bench/-benchmem/-cpu harness style, same
// ReportAllocs/ResetTimer discipline). Where the teacher measures
// Put/Get/GetOrLoad against the cache, this measures SpinLock contention,
// Payload push/drain throughput, and the full Zone Begin/End round trip —
// the paths spec §5 and §9 call out as needing to stay allocation-free and
// bounded-wait.
//
// Run via: go test ./bench -bench=. -benchmem -cpu 1,4,16
//
// © 2026 temporal-lens authors. MIT License.
package bench

import (
	"path/filepath"
	"sync"
	"testing"

	"github.com/temporal-lens/lens/internal/attach"
	"github.com/temporal-lens/lens/internal/shmbacking"
	"github.com/temporal-lens/lens/internal/spinlock"
	"github.com/temporal-lens/lens/internal/wire"
	"github.com/temporal-lens/lens/pkg/lens"
)

func setupAttachedRegion(b *testing.B) {
	b.Helper()
	attach.ResetForTest()
	shmbacking.PathOverride = filepath.Join(b.TempDir(), "shmem")
	backing, err := shmbacking.Create()
	if err != nil {
		b.Fatal(err)
	}
	b.Cleanup(func() {
		backing.Close()
		attach.ResetForTest()
	})
}

func BenchmarkSpinLockUncontended(b *testing.B) {
	var lock spinlock.SpinLock
	lock.Init()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		lock.Lock()
		lock.Unlock()
	}
}

func BenchmarkSpinLockContended(b *testing.B) {
	var lock spinlock.SpinLock
	lock.Init()

	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			lock.Lock()
			lock.Unlock()
		}
	})
}

func BenchmarkPayloadPush(b *testing.B) {
	var p wire.Payload[wire.ZoneData]
	p.Init()

	entry := wire.ZoneData{Uid: 1, Color: 0x00FF00, End: 1.0, Duration: 1000}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p.Push(wire.Identity(entry))
		if i%wire.NumEntries == 0 {
			dst := make([]wire.ZoneData, wire.NumEntries)
			p.Drain(dst)
		}
	}
}

func BenchmarkPayloadPushParallel(b *testing.B) {
	var p wire.Payload[wire.ZoneData]
	p.Init()

	entry := wire.ZoneData{Uid: 1, Color: 0x00FF00, End: 1.0, Duration: 1000}

	b.ReportAllocs()
	b.ResetTimer()
	var drainMu sync.Mutex
	counter := 0
	b.RunParallel(func(pb *testing.PB) {
		dst := make([]wire.ZoneData, wire.NumEntries)
		for pb.Next() {
			p.Push(wire.Identity(entry))

			drainMu.Lock()
			counter++
			shouldDrain := counter%wire.NumEntries == 0
			drainMu.Unlock()

			if shouldDrain {
				p.Drain(dst)
			}
		}
	})
}

func BenchmarkZoneBeginEnd(b *testing.B) {
	setupAttachedRegion(b)

	tc := lens.NewThreadContext("bench-worker")
	info := lens.NewZoneInfo("bench.work", lens.DefaultZoneColor)
	region, _ := attach.Get()
	dst := make([]wire.ZoneData, wire.NumEntries)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		z := lens.Begin(tc, info)
		z.End()
		if i%wire.NumEntries == 0 {
			region.ZoneData.Drain(dst)
		}
	}
}

func BenchmarkZoneBeginEndUnattached(b *testing.B) {
	attach.ResetForTest()
	shmbacking.PathOverride = filepath.Join(b.TempDir(), "shmem")
	b.Cleanup(attach.ResetForTest)

	tc := lens.NewThreadContext("bench-worker")
	info := lens.NewZoneInfo("bench.work", lens.DefaultZoneColor)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		z := lens.Begin(tc, info)
		z.End()
	}
}

func BenchmarkSubmitPlot(b *testing.B) {
	setupAttachedRegion(b)
	region, _ := attach.Get()
	dst := make([]wire.PlotData, wire.NumEntries)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		lens.SubmitPlot("bench.series", float64(i), 0x00FF00)
		if i%wire.NumEntries == 0 {
			region.PlotData.Drain(dst)
		}
	}
}
