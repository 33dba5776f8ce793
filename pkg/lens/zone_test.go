package lens

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temporal-lens/lens/internal/attach"
	"github.com/temporal-lens/lens/internal/wire"
)

func TestZoneSilentlyNoOpsWhenUnattached(t *testing.T) {
	withoutRegion(t)

	tc := NewThreadContext("worker")
	info := NewZoneInfo("compute", DefaultZoneColor)

	require.NotPanics(t, func() {
		z := Begin(tc, info)
		z.End()
	})
	require.Equal(t, uint32(0), tc.Depth())
}

func TestZoneColdStartThenAttach(t *testing.T) {
	// Scenario 1 (spec §8): 50 zones fire before the region exists and are
	// silently dropped; after attaching, 50 more succeed.
	withoutRegion(t)

	tc := NewThreadContext("worker")
	info := NewZoneInfo("compute", DefaultZoneColor)

	for i := 0; i < 50; i++ {
		z := Begin(tc, info)
		z.End()
	}

	withAttachedRegion(t)

	for i := 0; i < 50; i++ {
		z := Begin(tc, info)
		z.End()
	}

	region, _ := attach.Get()
	dst := make([]wire.ZoneData, wire.NumEntries)
	retrieved, lost := region.ZoneData.Drain(dst)
	require.Equal(t, 50, retrieved)
	require.Equal(t, 0, lost)
}

func TestZoneOverflowCounting(t *testing.T) {
	// Scenario 2 (spec §8): 300 zones with no drain -> 256 retrieved, 44 lost.
	withAttachedRegion(t)

	tc := NewThreadContext("worker")
	info := NewZoneInfo("compute", DefaultZoneColor)

	for i := 0; i < 300; i++ {
		z := Begin(tc, info)
		z.End()
	}

	region, _ := attach.Get()
	dst := make([]wire.ZoneData, wire.NumEntries)
	retrieved, lost := region.ZoneData.Drain(dst)
	require.Equal(t, wire.NumEntries, retrieved)
	require.Equal(t, 44, lost)
}

func TestZoneNameInterningSendsContentsOnlyOnce(t *testing.T) {
	// Scenario 3 (spec §8).
	withAttachedRegion(t)

	tc := NewThreadContext("worker-1")
	info := NewZoneInfo("compute", DefaultZoneColor)

	for i := 0; i < 10; i++ {
		z := Begin(tc, info)
		z.End()
	}

	region, _ := attach.Get()
	dst := make([]wire.ZoneData, wire.NumEntries)
	retrieved, lost := region.ZoneData.Drain(dst)
	require.Equal(t, 10, retrieved)
	require.Equal(t, 0, lost)

	nameContentsCount, threadContentsCount := 0, 0
	var nameKey, threadKey wire.Key
	for i := 0; i < retrieved; i++ {
		if dst[i].Name.HasContents {
			nameContentsCount++
			nameKey = dst[i].Name.KeyValue
		}
		if dst[i].Thread.HasContents {
			threadContentsCount++
			threadKey = dst[i].Thread.KeyValue
		}
		require.Equal(t, info.uid(), dst[i].Name.KeyValue, "key must stay identical across sightings")
	}

	require.Equal(t, 1, nameContentsCount, "exactly the first push should carry zone name contents")
	require.Equal(t, 1, threadContentsCount, "exactly the first push should carry thread name contents")
	require.NotZero(t, nameKey)
	require.NotZero(t, threadKey)
}

func TestZoneDepthTracksEnclosingScopes(t *testing.T) {
	// Scenario 6 (spec §8): enter A, enter B inside A, exit B, exit A ->
	// depth 0 for A, 1 for B.
	withAttachedRegion(t)

	tc := NewThreadContext("worker")
	zoneA := NewZoneInfo("A", DefaultZoneColor)
	zoneB := NewZoneInfo("B", DefaultZoneColor)

	a := Begin(tc, zoneA)
	b := Begin(tc, zoneB)
	b.End()
	a.End()

	region, _ := attach.Get()
	dst := make([]wire.ZoneData, wire.NumEntries)
	retrieved, _ := region.ZoneData.Drain(dst)
	require.Equal(t, 2, retrieved)

	depths := map[wire.Key]uint32{}
	for i := 0; i < retrieved; i++ {
		depths[dst[i].Uid] = dst[i].Depth
	}
	require.Equal(t, uint32(0), depths[zoneA.uid()])
	require.Equal(t, uint32(1), depths[zoneB.uid()])
}

func TestZoneEndIsIdempotent(t *testing.T) {
	withAttachedRegion(t)

	tc := NewThreadContext("worker")
	info := NewZoneInfo("compute", DefaultZoneColor)

	z := Begin(tc, info)
	z.End()
	z.End()

	require.Equal(t, uint32(0), tc.Depth())

	region, _ := attach.Get()
	dst := make([]wire.ZoneData, wire.NumEntries)
	retrieved, _ := region.ZoneData.Drain(dst)
	require.Equal(t, 1, retrieved, "a second End() must not push a second event")
}
