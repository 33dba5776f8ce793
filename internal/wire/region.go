package wire

import (
	"encoding/binary"
	"math"

	"github.com/temporal-lens/lens/internal/spinlock"
)

// SharedRegion is the top-level aggregate placed in shared memory: a
// magic/version/platform header, one Payload channel per event kind, and a
// variable-length log ring (spec §3, "SharedRegion (layout-sensitive)").
//
// Field order matters and must not change without bumping ProtocolVersion:
// Magic, ProtocolVersion, SizeOfPointer, FrameData, ZoneData, HeapData,
// PlotData, LogLock, LogCount, LogBytes — exactly the order given in spec
// §3. Go (unlike some languages' struct layout optimizers) lays out struct
// fields in declaration order, inserting only the padding each field's own
// alignment requires, so this declaration order *is* the wire order.
// Payload[T]'s Size field is a uint64, so every Payload in this struct is
// 8-byte aligned; the compiler inserts 4 bytes of padding before the first
// Payload (after the three uint32 header fields) to satisfy that on its
// own, with no help needed from this package.
//
// This type is only meaningful while backed by shared memory (see
// internal/shmbacking): it must never be copied by value once mapped, and
// must never be allocated on the Go heap (its address is handed out once,
// by internal/attach, and held for the lifetime of the process).
type SharedRegion struct {
	MagicValue    uint32
	ProtocolValue uint32
	SizeOfPointer uint32
	FrameData     Payload[FrameData]
	ZoneData      Payload[ZoneData]
	HeapData      Payload[HeapData]
	PlotData      Payload[PlotData]
	LogLock       spinlock.SpinLock
	LogCount      uint32
	LogBytes      [LogDataSize]byte
}

// OpenError enumerates the distinct, typed handshake failures a client can
// observe when opening an existing region (spec §7). CapacityDrop and
// Unattached are not OpenErrors: they never surface to callers (spec §7).
type OpenError int

const (
	// ErrNone is the zero value, returned by Validate when the handshake
	// succeeds.
	ErrNone OpenError = iota
	// ErrBadMagic means the mapped region's MagicValue didn't match Magic —
	// most likely an unrelated mapping at the same well-known path.
	ErrBadMagic
	// ErrProtocolMismatch means ProtocolValue didn't match ProtocolVersion.
	ErrProtocolMismatch
	// ErrPlatformMismatch means SizeOfPointer didn't match this process's
	// pointer width (e.g. a 32-bit client against a 64-bit collector).
	ErrPlatformMismatch
)

func (e OpenError) String() string {
	switch e {
	case ErrBadMagic:
		return "bad magic"
	case ErrProtocolMismatch:
		return "protocol mismatch"
	case ErrPlatformMismatch:
		return "platform mismatch"
	default:
		return "none"
	}
}

// Validate performs the three-step handshake from spec §6 ("Handshake on
// open"), in order: magic, then protocol version, then pointer width. It
// returns the first mismatch found, or ErrNone if the region is usable.
func (r *SharedRegion) Validate() OpenError {
	if r.MagicValue != Magic {
		return ErrBadMagic
	}
	if r.ProtocolValue != ProtocolVersion {
		return ErrProtocolMismatch
	}
	if r.SizeOfPointer != uint32(sizeOfPointer) {
		return ErrPlatformMismatch
	}
	return ErrNone
}

// Init performs the collector's "creator responsibilities" (spec §6): set
// header fields, unlock every SpinLock, zero every Size/LogCount. Only
// after Init may producers safely open the region. The client-side port
// exposes this so tests (and any embedder that also plays the collector's
// role, e.g. in-process integration tests) can construct a valid region
// without a separate process.
func (r *SharedRegion) Init() {
	r.MagicValue = Magic
	r.ProtocolValue = ProtocolVersion
	r.SizeOfPointer = uint32(sizeOfPointer)

	r.FrameData.Init()
	r.ZoneData.Init()
	r.HeapData.Init()
	r.PlotData.Init()

	r.LogLock.Init()
	r.LogCount = 0
}

// AppendLog writes one log entry (header + raw message bytes) into the log
// ring, guarded by LogLock. Unlike a Payload[T], the ring has no dedicated
// "size" field wide enough to recover a byte offset by itself, so AppendLog
// derives the current write offset by walking the entries already written
// since the last drain (bounded by LogCount, and by LogDataSize in total
// bytes — a handful of kilobytes at most, and logging is explicitly not a
// hot path per spec §5).
//
// Returns false (without writing anything) if the entry would not fit in
// the remaining ring capacity — the log ring's equivalent of a Payload's
// capacity drop (spec §4.3's rationale, applied to the variable-length
// channel).
func (r *SharedRegion) AppendLog(color Color, timestamp Time, message string) bool {
	encoded := EncodeLogEntry(timestamp, color, message)

	r.LogLock.Lock()
	defer r.LogLock.Unlock()

	offset := r.logWriteOffsetLocked()
	if offset+len(encoded) > len(r.LogBytes) {
		return false
	}

	copy(r.LogBytes[offset:], encoded)
	r.LogCount++
	return true
}

// logWriteOffsetLocked walks LogCount already-written entries to find the
// first free byte. Caller must hold LogLock.
func (r *SharedRegion) logWriteOffsetLocked() int {
	offset := 0
	for i := uint32(0); i < r.LogCount; i++ {
		_, _, consumed, ok := DecodeLogEntry(r.LogBytes[offset:])
		if !ok {
			break
		}
		offset += consumed
	}
	return offset
}

// DrainLog copies the raw log ring bytes out and resets the ring to empty.
// Returns the number of log entries drained (LogCount at the time of the
// call) and the raw bytes, which the caller (the collector, or an
// in-process test standing in for one) decodes entry-by-entry with
// DecodeLogEntry.
func (r *SharedRegion) DrainLog() (count uint32, data []byte) {
	r.LogLock.Lock()
	defer r.LogLock.Unlock()

	count = r.LogCount
	offset := r.logWriteOffsetLocked()
	data = make([]byte, offset)
	copy(data, r.LogBytes[:offset])

	r.LogCount = 0
	return count, data
}

// logEntryHeaderSize is the packed, padding-free byte size of
// LogEntryHeader (spec §3: "packed, no padding"): 8 bytes Time + 4 bytes
// Color + 8 bytes Length.
const logEntryHeaderSize = 8 + 4 + 8

// EncodeLogEntry packs a LogEntryHeader followed by message's bytes using
// an explicit, padding-free little-endian layout. Go cannot express
// repr(packed) via native struct layout when field alignments differ (a
// plain Go struct with a float64 before a uint32 before a uint64 would
// carry trailing padding), so the log ring — the one part of the wire
// format that is explicitly specified as packed — is serialized by hand
// instead of relying on unsafe struct reinterpretation.
func EncodeLogEntry(timestamp Time, color Color, message string) []byte {
	buf := make([]byte, logEntryHeaderSize+len(message))
	binary.LittleEndian.PutUint64(buf[0:8], math.Float64bits(timestamp))
	binary.LittleEndian.PutUint32(buf[8:12], color)
	binary.LittleEndian.PutUint64(buf[12:20], uint64(len(message)))
	copy(buf[20:], message)
	return buf
}

// DecodeLogEntry reads one LogEntryHeader plus its message from buf,
// returning the message and the number of bytes consumed. ok is false if
// buf is too short to contain a full entry.
func DecodeLogEntry(buf []byte) (header LogEntryHeader, message string, consumed int, ok bool) {
	if len(buf) < logEntryHeaderSize {
		return LogEntryHeader{}, "", 0, false
	}

	header.Time = math.Float64frombits(binary.LittleEndian.Uint64(buf[0:8]))
	header.Color = binary.LittleEndian.Uint32(buf[8:12])
	header.Length = binary.LittleEndian.Uint64(buf[12:20])

	end := logEntryHeaderSize + int(header.Length)
	if end > len(buf) {
		return LogEntryHeader{}, "", 0, false
	}

	message = string(buf[logEntryHeaderSize:end])
	return header, message, end, true
}
