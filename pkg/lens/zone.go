package lens

import (
	"time"
	"unsafe"

	"github.com/temporal-lens/lens/internal/attach"
	"github.com/temporal-lens/lens/internal/unsafehelpers"
	"github.com/temporal-lens/lens/internal/wire"
)

// DefaultZoneColor is the color a Zone carries when the call site doesn't
// specify one, matching the original macro's default (SPEC_FULL.md section
// C.7).
const DefaultZoneColor wire.Color = 0x0003FCA5

// ZoneInfo is the static, per-call-site descriptor (spec §4.6, §9: "each
// profiled scope gets a static ZoneInfo object whose address is its stable
// uid"). Declare exactly one ZoneInfo per textual call site (typically as a
// package-level var) and reuse its address across every Begin call from
// that site.
type ZoneInfo struct {
	Color wire.Color
	Name  string

	// copyName starts true and is flipped false the first time a Zone built
	// from this descriptor successfully pushes its name (spec §4.6 step 6,
	// §9 "Static mutable copy_name"). It is intentionally read/written
	// without synchronization: extra sends from a benign data race are
	// harmless, the only thing that must never happen is zero sends, which
	// starting at true guarantees. Do not "fix" this with an atomic —
	// that would just move the race, not remove the reason it's safe.
	copyName bool
}

// NewZoneInfo builds a call-site descriptor with the given name and color.
// Callers declare one of these per call site, e.g.:
//
//	var computeZone = lens.NewZoneInfo("compute", lens.DefaultZoneColor)
func NewZoneInfo(name string, color wire.Color) *ZoneInfo {
	return &ZoneInfo{Color: color, Name: name, copyName: true}
}

// uid returns this descriptor's stable identity: its own address
// (spec §9).
func (zi *ZoneInfo) uid() wire.Key {
	return unsafehelpers.AddrOf(unsafe.Pointer(zi))
}

// Zone is an RAII-style scoped timer (spec §4.6, C8). Begin records entry;
// End (its sole publication point) computes the duration and pushes a
// ZoneData to the shared region, or silently no-ops if unattached.
//
// A Zone must be ended on the same ThreadContext (and conceptually the same
// goroutine) that began it, and must not outlive that ThreadContext.
type Zone struct {
	info      *ZoneInfo
	tc        *ThreadContext
	start     time.Time
	threadID  wire.Key
	nameBytes []byte
	depth     uint32
	ended     bool
}

// Begin opens a zone on tc for the call site described by info (spec §4.6,
// steps 1-3).
func Begin(tc *ThreadContext, info *ZoneInfo) *Zone {
	id, nameBytes, depth := tc.enter()

	return &Zone{
		info:      info,
		tc:        tc,
		start:     time.Now(),
		threadID:  id,
		nameBytes: nameBytes,
		depth:     depth,
	}
}

// End computes end/duration, builds and pushes the ZoneData, and releases
// this thread's depth counter (spec §4.6 steps 4-7). Calling End more than
// once is a no-op after the first call.
func (z *Zone) End() {
	if z.ended {
		return
	}
	z.ended = true

	end := time.Now()

	region, startTime := attach.Get()
	if region == nil {
		z.tc.leave(false, false)
		return
	}

	endTime := end.Sub(startTime).Seconds()
	if endTime < 0 {
		endTime = 0
	}
	duration := end.Sub(z.start).Nanoseconds()
	if duration < 0 {
		duration = 0
	}

	copyName := loadCopyName(z.info)

	var data wire.ZoneData
	data.Uid = z.info.uid()
	data.Color = z.info.Color
	data.End = endTime
	data.Duration = uint64(duration)
	data.Depth = z.depth
	data.Name.Set(data.Uid, z.info.Name, copyName)
	data.Thread.SetSpecial(z.threadID, z.nameBytes)

	ok := region.ZoneData.Push(wire.Identity(data))
	if ok {
		storeCopyNameFalse(z.info)
	}

	z.tc.leave(ok, z.nameBytes != nil)
}

// loadCopyName/storeCopyNameFalse are split out from ZoneInfo's field
// access only to keep the intentional-race comment in one place (on the
// field itself) rather than scattered across call sites.
func loadCopyName(zi *ZoneInfo) bool { return zi.copyName }

func storeCopyNameFalse(zi *ZoneInfo) { zi.copyName = false }
