// Package shmbacking implements SharedMemoryBacking (spec §2, component
// C5): the OS-level create/open of the shared region at a well-known path,
// exposing a raw base pointer the rest of the client reinterprets as a
// *wire.SharedRegion.
//
// Everything above this package (internal/attach, pkg/lens) only calls
// Create/Open and never touches file descriptors or mmap directly — this
// is the single place that does, mirroring how the teacher's
// internal/arena package is "a thin wrapper ... hides its verbose
// low-level API behind a tiny, stable surface."
//
// © 2026 temporal-lens authors. MIT License.
package shmbacking

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"unsafe"

	"github.com/temporal-lens/lens/internal/wire"
)

// ErrNotFound is returned by Open when no collector has created the region
// yet. Callers (internal/attach) treat this exactly like any other
// BackingError: retry later, never surface it synchronously to producers
// (spec §7, "Unattached").
var ErrNotFound = errors.New("shmbacking: shared region does not exist")

// regionSize is sizeof(wire.SharedRegion) on this platform/build: the byte
// size of the file the collector creates and the client maps (spec §6,
// "The region size equals sizeof(SharedRegion) at the current platform's
// pointer width").
var regionSize = int(unsafe.Sizeof(wire.SharedRegion{}))

// PathOverride, when non-empty, replaces the well-known region path
// entirely. It exists for tests and for internal/config's non-binding
// "region path override" knob (SPEC_FULL.md section A) — never for
// anything that would change the wire format itself.
var PathOverride string

// Path returns the well-known location of the shared region:
// <user-data-dir>/temporal-lens/shmem (spec §6), or PathOverride if set. It
// panics if the platform has no resolvable per-user config/data directory,
// which would indicate a badly broken environment (no $HOME, no %APPDATA%,
// ...) rather than a recoverable condition.
func Path() string {
	if PathOverride != "" {
		return PathOverride
	}

	dir, err := os.UserConfigDir()
	if err != nil {
		panic(fmt.Sprintf("shmbacking: could not resolve user data directory: %v", err))
	}
	return filepath.Join(dir, "temporal-lens", "shmem")
}

// Backing owns the memory mapping backing a *wire.SharedRegion. Closing it
// unmaps the region; the pointer returned by Region() must not be used
// after Close.
type Backing struct {
	region *wire.SharedRegion
	closer func() error
}

// Region exposes the mapped SharedRegion.
func (b *Backing) Region() *wire.SharedRegion { return b.region }

// Close unmaps the backing memory.
func (b *Backing) Close() error {
	if b.closer == nil {
		return nil
	}
	return b.closer()
}

// Create maps a brand-new region at Path(), creating the path's directory
// and file if needed, truncating the file to exactly sizeof(SharedRegion),
// and running SharedRegion.Init() on it (spec §6, "Creator
// responsibilities"). This is the collector's side of the handshake; the
// client-side port exposes it so tests (and anything standing in for the
// collector in-process) can set up a valid region without a second
// process.
func Create() (*Backing, error) {
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("shmbacking: create directory: %w", err)
	}

	b, err := createMapping(path, regionSize)
	if err != nil {
		return nil, err
	}

	b.region.Init()
	return b, nil
}

// Open maps an existing region at Path() for read/write producer access.
// It does not validate the handshake — that's internal/attach's job, since
// only it knows how to turn a mismatch into the right typed OpenError and
// decide whether to retry (spec §4.4, §6, §7).
func Open() (*Backing, error) {
	return openMapping(Path(), regionSize)
}
