package lens

import (
	"time"

	"github.com/temporal-lens/lens/internal/attach"
	"github.com/temporal-lens/lens/internal/wire"
)

// FrameDelimiter tracks one application frame loop's timing (spec §4.7,
// C9). It is explicitly not thread-safe — intended for a single call site
// in the app's main frame loop, matching the original's "per-site static"
// state.
type FrameDelimiter struct {
	last   *time.Time
	number uint64
}

// NewFrameDelimiter constructs an empty delimiter. Declare one per frame
// loop and call Mark() once per frame.
func NewFrameDelimiter() *FrameDelimiter {
	return &FrameDelimiter{}
}

// Mark records one frame boundary (spec §4.7): if a previous boundary was
// recorded, pushes a FrameData covering the interval since then, then
// advances the frame counter. The very first call only primes last and
// pushes nothing, since there's no preceding frame to report a duration
// for.
func (fd *FrameDelimiter) Mark() {
	now := time.Now()

	if fd.last != nil {
		region, startTime := attach.Get()
		if region != nil {
			end := now.Sub(startTime).Seconds()
			if end < 0 {
				end = 0
			}
			duration := now.Sub(*fd.last).Nanoseconds()
			if duration < 0 {
				duration = 0
			}

			data := wire.FrameData{
				Number:   fd.number,
				End:      end,
				Duration: uint64(duration),
			}
			region.FrameData.Push(wire.Identity(data))
		}
	}

	fd.last = &now
	fd.number++
}
