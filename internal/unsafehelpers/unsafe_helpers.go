// Package unsafehelpers centralises every unavoidable use of the `unsafe`
// package so the rest of the client runtime stays easy to audit. Each
// helper documents its pre/post-conditions.
//
// These functions exist because the wire format (internal/wire) is a set of
// plain, fixed-size value types copied byte-for-byte into a region of
// memory shared with an out-of-process reader: there is no allocation
// budget for the usual string<->[]byte copies on a profiling hot path.
//
// ⚠️  These helpers deliberately step outside the normal Go memory-safety
// model for zero-allocation conversions. They are not part of the public
// API and may change without notice. Misuse leads to data races or memory
// corruption.
//
// © 2026 temporal-lens authors. MIT License.
package unsafehelpers

import "unsafe"

/* -------------------------------------------------------------------------
   1. Zero-copy string/[]byte conversions
   ------------------------------------------------------------------------- */

// BytesToString converts a byte slice to a string without allocating. The
// caller must guarantee b is never modified for the lifetime of the
// returned string.
func BytesToString(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return unsafe.String(&b[0], len(b))
}

// StringToBytes reinterprets string data as a byte slice without
// allocating. The returned slice MUST be treated as read-only; writing to
// it corrupts Go's immutable string storage.
func StringToBytes(s string) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice(unsafe.StringData(s), len(s))
}

// CopyStringInto copies s into dst without an intermediate []byte
// allocation. Returns the number of bytes written. The caller must ensure
// len(dst) >= len(s); used by wire.SharedString.Set to fill its inline
// Contents array straight from a Go string.
func CopyStringInto(dst []byte, s string) int {
	return copy(dst, StringToBytes(s))
}

/* -------------------------------------------------------------------------
   2. Generic pointer <-> slice helpers
   ------------------------------------------------------------------------- */

// PtrSlice converts a *T pointer plus an element count into a []T without
// copying. Nothing in this module calls it at present.
func PtrSlice[T any](ptr *T, n int) []T {
	if n == 0 {
		return nil
	}
	return unsafe.Slice(ptr, n)
}

// ByteSliceFrom returns a []byte view of raw memory starting at ptr with
// the given length. The caller must ensure the memory block is at least
// length bytes. Nothing in this module calls it at present
// (internal/shmbacking maps the region through unix.Mmap's own []byte).
func ByteSliceFrom(ptr unsafe.Pointer, length uintptr) []byte {
	return unsafe.Slice((*byte)(ptr), length)
}

// AddrOf returns the address a pointer holds, as a stable uint64 identity.
// Used for the Key interning scheme (spec §3, §9): the address of a static
// *ZoneInfo is a process-lifetime-stable handle (the zone's uid and name
// key) the collector can use to deduplicate strings.
func AddrOf(p unsafe.Pointer) uint64 {
	return uint64(uintptr(p))
}

/* -------------------------------------------------------------------------
   3. Alignment helpers
   ------------------------------------------------------------------------- */

// AlignUp rounds x up to the nearest multiple of align (which must be a
// power of two).
func AlignUp(x, align uintptr) uintptr {
	return (x + align - 1) &^ (align - 1)
}

// IsPowerOfTwo returns true if x is a power of two (exactly one bit set).
func IsPowerOfTwo(x uintptr) bool {
	return x != 0 && (x&(x-1)) == 0
}
