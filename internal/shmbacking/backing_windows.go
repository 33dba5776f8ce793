//go:build windows

package shmbacking

import "errors"

// Windows is not a supported target for this build: the client's shared
// region backing here is implemented directly against POSIX mmap
// (internal/shmbacking/backing_unix.go), grounded on the
// other_examples AlephTX seqlock ring buffer, which is itself
// /dev/shm-only. A Windows backing would need CreateFileMapping /
// MapViewOfFile instead of unix.Mmap; nothing in the retrieved example
// pack demonstrates that API, so rather than fabricate an ungrounded
// implementation this build simply reports the platform as unsupported,
// same as the rest of the client: attach failures are never fatal (spec
// §6, "Error surface"), so a process built for Windows runs with the
// profiler permanently unattached instead of failing to start.
func createMapping(path string, size int) (*Backing, error) {
	return nil, errors.New("shmbacking: shared memory backing is not implemented on this platform")
}

func openMapping(path string, size int) (*Backing, error) {
	return nil, errors.New("shmbacking: shared memory backing is not implemented on this platform")
}
