// Package wire defines the byte-for-byte layout of the shared memory region:
// the header, the per-event-kind Payload channels, the variable-length log
// ring, and the SharedString string-interning format. Every type here must
// stay compatible with an independent, out-of-process reader (the
// collector) built against the same constants (spec §3, §6).
//
// Nothing in this package allocates on a Payload push/drain hot path; the
// allocation-bearing operations are decoding a SharedString's contents into
// a Go string, which readers only do once per distinct key (spec §4.2), and
// the log ring's encode/decode/drain helpers.
//
// © 2026 temporal-lens authors. MIT License.
package wire

// Time is seconds since process start, stored as a 64-bit float so both
// very short and very long-running processes are representable without a
// separate epoch.
type Time = float64

// Duration is nanoseconds, matching Go's own time.Duration representation
// but kept as a plain alias (not time.Duration) because the wire value must
// be an unsigned fixed-width integer, not a signed one.
type Duration = uint64

// Color is a packed 24-bit RGB value: 0x00RRGGBB.
type Color = uint32

// Key is the pointer-wide identity used to intern strings (zone names,
// thread names, plot series names) across the process boundary. On the Go
// side a zone name's key is the address of its *ZoneInfo, a thread name's
// key is the ThreadContext's thread id, and a plot series name's key is a
// hash of the name; the client never dereferences a key.
type Key = uint64

// Binding wire-format constants. Changing any of these breaks compatibility
// with an independent reader built against the same protocol version, so
// none of them are exposed as runtime configuration (see SPEC_FULL.md,
// ambient "Configuration" section).
const (
	// Magic identifies a temporal-lens shared region versus an unrelated
	// mapping that happens to share the well-known path.
	Magic uint32 = 0x1DC45EF1

	// ProtocolVersion is packed major.minor.patch as 0x00_MM_NNPP.
	ProtocolVersion uint32 = 0x00_01_0004

	// NumEntries is the fixed capacity of every Payload channel.
	NumEntries = 256

	// LogDataSize is the size in bytes of the variable-length log ring.
	LogDataSize = 8192

	// SharedStringMaxSize bounds the inline byte storage of a SharedString.
	SharedStringMaxSize = 128

	// HeapSeriesKey is the reserved PlotData.Name.Key used by the heap
	// tracker's "current bytes in use" series (spec §3, §4.9).
	HeapSeriesKey Key = 0

	// DefaultHeapColor is the fixed color used for the heap tracker's plot
	// series (spec §4.9).
	DefaultHeapColor Color = 0x0098c379
)
// AttachRetryIntervalSeconds is the minimum spacing, in seconds, between two
// OS-level attach attempts made by the AttachmentManager while unattached
// (spec §3, §4.4). Declared here because it is a protocol-adjacent constant
// used by internal/attach.
const AttachRetryIntervalSeconds = 10
