// Package spinlock implements the single-word mutual-exclusion primitive
// used to guard the short, fixed-size critical sections inside the shared
// memory region (see internal/wire.Payload and internal/wire.SharedRegion's
// log ring).
//
// A SpinLock is trivially constructible in pre-zeroed shared memory: the
// zero value is "unlocked", matching the collector's responsibility to zero
// the region before any producer attaches (spec §6, "creator
// responsibilities").
//
// © 2026 temporal-lens authors. MIT License.
package spinlock

import (
	"runtime"
	"sync/atomic"
)

// SpinLock is a non-reentrant, unfair mutex over a single uint32 word. It is
// safe to embed by value inside a memory-mapped struct: there is no pointer
// indirection, no finalizer, nothing the Go runtime needs to track.
//
// Fairness is intentionally not provided — acceptable because every critical
// section guarded by a SpinLock in this package is O(sizeof(one wire entry)),
// a fixed-size memcpy-class operation (spec §4.1).
type SpinLock struct {
	state uint32
}

const (
	unlocked uint32 = 0
	locked   uint32 = 1
)

// busyThreshold is the backoff tier boundary, per spec §4.1: iterations 0-3
// busy spin, everything from 4 on yields the OS thread. The original's
// three named tiers (busy spin / CPU pause hint / OS yield) collapse to two
// here — Go has no exported PAUSE/YIELD CPU intrinsic (unlike the
// original's spin_loop_hint), so the "pause" and "yield" tiers both do the
// only thing available, runtime.Gosched(), and are worth keeping as one
// tier rather than two branches with identical bodies. These bounds are
// deliberately small; the lock is expected to be held for nanoseconds.
const busyThreshold = 4

// Lock blocks until the lock is acquired. Acquisition uses an atomic
// compare-and-swap with acquire ordering so that everything written by the
// previous holder before Unlock becomes visible here.
func (l *SpinLock) Lock() {
	if atomic.CompareAndSwapUint32(&l.state, unlocked, locked) {
		return
	}

	for i := 0; ; i++ {
		if atomic.CompareAndSwapUint32(&l.state, unlocked, locked) {
			return
		}

		if i >= busyThreshold {
			runtime.Gosched()
		}
		// i < busyThreshold: busy-spin, re-test immediately.
	}
}

// Unlock releases the lock with release ordering, publishing every write
// made inside the critical section to the next acquirer.
func (l *SpinLock) Unlock() {
	atomic.StoreUint32(&l.state, unlocked)
}

// TryLock attempts a single non-blocking acquisition. It is not part of the
// original spec's surface but is a natural, idiomatic Go addition (mirrors
// sync.Mutex.TryLock) used by tests that need to assert contention without
// spinning a goroutine.
func (l *SpinLock) TryLock() bool {
	return atomic.CompareAndSwapUint32(&l.state, unlocked, locked)
}

// Init resets the lock to its unlocked state. Exists for parity with the
// original's `Payload::init`, which "unlocks" a freshly mapped (but
// non-zeroed, e.g. reused) segment as a bootstrap step (spec §4.3).
func (l *SpinLock) Init() {
	atomic.StoreUint32(&l.state, unlocked)
}
