package wire

// ZoneData is one timed scope event (spec §3). Uid identifies the static
// call-site descriptor; the collector groups events by Uid. Depth is the
// call-stack depth at entry (0 = outermost).
//
// The original anchors the event on `start`; this port normalizes on `end`
// per spec §9's "Open questions" resolution ("the original sometimes
// stores start and sometimes end ... this spec normalizes on end").
type ZoneData struct {
	Uid      Key
	Color    Color
	End      Time
	Duration Duration
	Depth    uint32
	Name     SharedString
	Thread   SharedString
}

// FrameData delimits one application frame (spec §3, §4.7). Number is a
// monotonically increasing frame counter.
type FrameData struct {
	Number   uint64
	End      Time
	Duration Duration
}

// PlotData is one sample of a named numeric time series (spec §3, §4.8).
// Series are identified by Name.Key; the heap tracker reuses this type
// with the reserved HeapSeriesKey (spec §4.9).
type PlotData struct {
	Time  Time
	Color Color
	Value float64
	Name  SharedString
}

// HeapData records one allocation or deallocation event (spec §3). Not
// used by the Go port's heap tracker (see pkg/lens/heap.go and
// SPEC_FULL.md's "Go-native redesign" section for why), but kept as part
// of the wire format and Payload channel set because the collector-facing
// layout must still reserve the field (a client built against a future Go
// allocator-hook API, or a non-Go client sharing the same collector, may
// populate it).
type HeapData struct {
	Time   Time
	Addr   Key
	Size   uint64
	IsFree bool
}

// LogEntryHeader precedes Length raw bytes in the log ring (spec §3). In
// the ring the header is packed with no padding (20 bytes); this Go struct
// is not, so the ring is written with EncodeLogEntry and read back with
// DecodeLogEntry rather than by reinterpreting ring bytes as this struct.
type LogEntryHeader struct {
	Time   Time
	Color  Color
	Length uint64
}
