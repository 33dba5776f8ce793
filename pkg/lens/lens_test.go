package lens

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temporal-lens/lens/internal/attach"
	"github.com/temporal-lens/lens/internal/shmbacking"
)

// withAttachedRegion creates a fresh shared region backed by a temp file
// and resets the AttachmentManager so the next attach.Get() picks it up,
// exactly as if an out-of-process collector had just created it.
func withAttachedRegion(t *testing.T) {
	t.Helper()

	attach.ResetForTest()
	resetPlotSeriesForTest()
	prevPath := shmbacking.PathOverride
	shmbacking.PathOverride = filepath.Join(t.TempDir(), "shmem")

	backing, err := shmbacking.Create()
	require.NoError(t, err)

	t.Cleanup(func() {
		backing.Close()
		attach.ResetForTest()
		shmbacking.PathOverride = prevPath
	})

	region, _ := attach.Get()
	require.NotNil(t, region, "attach must succeed once the region exists")
}

// withoutRegion resets the AttachmentManager and points it at a path with
// nothing backing it, so every attach attempt fails (spec §7,
// "Unattached").
func withoutRegion(t *testing.T) {
	t.Helper()

	attach.ResetForTest()
	resetPlotSeriesForTest()
	prevPath := shmbacking.PathOverride
	shmbacking.PathOverride = filepath.Join(t.TempDir(), "shmem")

	t.Cleanup(func() {
		attach.ResetForTest()
		shmbacking.PathOverride = prevPath
	})
}
