package wire

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSharedStringSetCopyRoundTrips(t *testing.T) {
	var s SharedString
	s.Set(42, "compute", true)

	value, ok := s.Decode()
	require.True(t, ok)
	require.Equal(t, "compute", value)
	require.Equal(t, Key(42), s.KeyValue)
}

func TestSharedStringSetNoCopyPreservesKeyOnly(t *testing.T) {
	var s SharedString
	s.Set(7, "compute", false)

	_, ok := s.Decode()
	require.False(t, ok)
	require.Equal(t, Key(7), s.KeyValue)
}

func TestSharedStringExactly128BytesAccepted(t *testing.T) {
	var s SharedString
	str := strings.Repeat("a", SharedStringMaxSize)

	require.NotPanics(t, func() {
		s.Set(1, str, true)
	})

	value, ok := s.Decode()
	require.True(t, ok)
	require.Equal(t, str, value)
}

func TestSharedString129BytesPanics(t *testing.T) {
	var s SharedString
	str := strings.Repeat("a", SharedStringMaxSize+1)

	require.Panics(t, func() {
		s.Set(1, str, true)
	})
}

func TestSharedStringSetSpecialWithNilContents(t *testing.T) {
	var s SharedString
	s.SetSpecial(HeapSeriesKey, nil)

	_, ok := s.Decode()
	require.False(t, ok)
	require.Equal(t, HeapSeriesKey, s.KeyValue)
}

func TestSharedStringSetSpecialWithContents(t *testing.T) {
	var s SharedString
	s.SetSpecial(99, []byte("worker-1"))

	value, ok := s.Decode()
	require.True(t, ok)
	require.Equal(t, "worker-1", value)
}
