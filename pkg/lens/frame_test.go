package lens

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/temporal-lens/lens/internal/attach"
	"github.com/temporal-lens/lens/internal/wire"
)

func TestFrameDelimiterFirstMarkPushesNothing(t *testing.T) {
	withAttachedRegion(t)

	fd := NewFrameDelimiter()
	fd.Mark()

	region, _ := attach.Get()
	dst := make([]wire.FrameData, wire.NumEntries)
	retrieved, _ := region.FrameData.Drain(dst)
	require.Equal(t, 0, retrieved)
}

func TestFrameDelimiterReportsDurationsAndNumbers(t *testing.T) {
	// Scenario 4 (spec §8): marks at t=0, 16ms, 33ms -> two entries,
	// number=1 duration~16ms, number=2 duration~17ms.
	withAttachedRegion(t)

	fd := NewFrameDelimiter()
	fd.Mark()
	time.Sleep(16 * time.Millisecond)
	fd.Mark()
	time.Sleep(17 * time.Millisecond)
	fd.Mark()

	region, _ := attach.Get()
	dst := make([]wire.FrameData, wire.NumEntries)
	retrieved, lost := region.FrameData.Drain(dst)
	require.Equal(t, 2, retrieved)
	require.Equal(t, 0, lost)

	require.Equal(t, uint64(1), dst[0].Number)
	require.Equal(t, uint64(2), dst[1].Number)

	require.InDelta(t, 16*time.Millisecond, time.Duration(dst[0].Duration), float64(5*time.Millisecond))
	require.InDelta(t, 17*time.Millisecond, time.Duration(dst[1].Duration), float64(5*time.Millisecond))
}

func TestFrameDelimiterSilentlyNoOpsWhenUnattached(t *testing.T) {
	withoutRegion(t)

	fd := NewFrameDelimiter()
	require.NotPanics(t, func() {
		fd.Mark()
		fd.Mark()
	})
}
