package wire

import "github.com/temporal-lens/lens/internal/spinlock"

// WriteInto lets a producer-side value serialize itself directly into a
// Payload slot without an intermediate
// copy, mirroring the original's `WriteInto<T>` trait (spec §4.3,
// SPEC_FULL.md section C.2).
type WriteInto[T any] interface {
	WriteInto(dst *T)
}

// identityWrite lets a bare T satisfy WriteInto[T] by plain assignment,
// used by tests and by every producer in pkg/lens (Zone, FrameDelimiter,
// SubmitPlot, the heap tracker), each of which builds a complete T first.
type identityWrite[T any] struct{ value T }

func (w identityWrite[T]) WriteInto(dst *T) { *dst = w.value }

// Identity wraps a plain value of T as a WriteInto[T].
func Identity[T any](v T) WriteInto[T] { return identityWrite[T]{value: v} }

// Payload is a fixed-capacity, lock-protected producer queue of T (spec
// §3, §4.3). Size counts every attempted push since the last Drain, not
// the number actually held — this is what lets Drain report an exact loss
// count without a separate field or producer/consumer coordination (spec
// §4.3's rationale).
//
// Payload must be placed by value inside SharedRegion: it has no pointers,
// so it is safe to live in memory owned by an mmap, not the Go heap.
type Payload[T any] struct {
	Lock spinlock.SpinLock
	Size uint64
	Data [NumEntries]T
}

// Init zeroes Size and unlocks the lock. The lock is already unlocked in
// freshly mmap'd (zeroed) memory; Init exists for the rare case of
// re-initializing a region the collector is reusing (spec §4.3, §6
// "creator responsibilities").
func (p *Payload[T]) Init() {
	p.Lock.Init()
	p.Size = 0
}

// Push writes entry into the next free slot if one exists and unconditionally
// increments Size. It returns true iff the entry was actually stored, i.e.
// the push won a slot before the channel was full (spec §4.3).
func (p *Payload[T]) Push(entry WriteInto[T]) bool {
	p.Lock.Lock()

	var ok bool
	if p.Size < NumEntries {
		entry.WriteInto(&p.Data[p.Size])
		ok = true
	}
	p.Size++

	p.Lock.Unlock()
	return ok
}

// Drain atomically reads and clears the payload: it copies
// min(Size, NumEntries) entries into dst and returns (retrieved, lost)
// where lost = max(0, Size-NumEntries) (spec §4.3, §8).
//
// Drain panics if len(dst) < NumEntries, mirroring the original's
// `assert!(dst.len() >= NUM_ENTRIES, ...)` (spec §4.3) — an undersized
// destination buffer is a caller bug, not a runtime condition to recover
// from gracefully.
func (p *Payload[T]) Drain(dst []T) (retrieved, lost int) {
	if len(dst) < NumEntries {
		panic("wire: Payload.Drain destination slice has insufficient capacity")
	}

	p.Lock.Lock()

	if p.Size <= NumEntries {
		retrieved = int(p.Size)
		lost = 0
	} else {
		retrieved = NumEntries
		lost = int(p.Size) - NumEntries
	}

	copy(dst[:retrieved], p.Data[:retrieved])
	p.Size = 0

	p.Lock.Unlock()
	return retrieved, lost
}
