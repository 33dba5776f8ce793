package lens

import (
	"hash/fnv"
	"sync"

	"github.com/temporal-lens/lens/internal/wire"
)

// Plot series names are ordinary runtime strings (unlike Zone's static
// per-call-site descriptors), so there is no call-site address to use as
// the interning Key. Instead each distinct name is hashed once to a stable
// Key and its "have we sent the contents yet" bit is tracked in this
// process-wide table — the same semantics as ZoneInfo.copyName, just keyed
// by string instead of living on a static descriptor.
var (
	plotSeriesMu    sync.Mutex
	plotSeriesState = map[string]*plotSeriesEntry{}
)

type plotSeriesEntry struct {
	key  wire.Key
	sent bool
}

// plotSeriesKey returns the stable Key for name and whether this is the
// first time the caller has asked for it (i.e. contents should be carried
// on this push).
func plotSeriesKey(name string) (key wire.Key, firstSight bool) {
	plotSeriesMu.Lock()
	defer plotSeriesMu.Unlock()

	entry, ok := plotSeriesState[name]
	if !ok {
		entry = &plotSeriesEntry{key: hashSeriesName(name)}
		plotSeriesState[name] = entry
	}
	return entry.key, !entry.sent
}

// markPlotSeriesSent records that name's contents have been successfully
// pushed at least once (spec §4.2: "never sent zero times").
func markPlotSeriesSent(name string) {
	plotSeriesMu.Lock()
	defer plotSeriesMu.Unlock()

	if entry, ok := plotSeriesState[name]; ok {
		entry.sent = true
	}
}

func hashSeriesName(name string) wire.Key {
	h := fnv.New64a()
	_, _ = h.Write([]byte(name))
	return h.Sum64()
}

// resetPlotSeriesForTest clears the process-wide series table; tests use
// it between cases so one test's "already sent" state doesn't leak into
// another's assertions. Production code never calls this.
func resetPlotSeriesForTest() {
	plotSeriesMu.Lock()
	defer plotSeriesMu.Unlock()
	plotSeriesState = map[string]*plotSeriesEntry{}
}
