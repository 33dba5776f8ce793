//go:build unix

package shmbacking

import (
	"errors"
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/temporal-lens/lens/internal/wire"
)

// createMapping and openMapping are grounded on the same
// open-file-then-mmap-it-MAP_SHARED pattern used by the AlephTX seqlock
// ring buffer (other_examples/.../feeder/shm/seqlock.go), swapping the raw
// syscall.Mmap call for golang.org/x/sys/unix's typed wrapper (already an
// indirect dependency of the teacher repo, promoted here to direct use).

func createMapping(path string, size int) (*Backing, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("shmbacking: open %s: %w", path, err)
	}
	defer f.Close()

	if err := f.Truncate(int64(size)); err != nil {
		return nil, fmt.Errorf("shmbacking: truncate %s: %w", path, err)
	}

	return mapFile(f, size)
}

func openMapping(path string, size int) (*Backing, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("shmbacking: open %s: %w", path, err)
	}
	defer f.Close()

	return mapFile(f, size)
}

func mapFile(f *os.File, size int) (*Backing, error) {
	data, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("shmbacking: mmap: %w", err)
	}

	region := (*wire.SharedRegion)(unsafe.Pointer(&data[0]))

	return &Backing{
		region: region,
		closer: func() error { return unix.Munmap(data) },
	}, nil
}
