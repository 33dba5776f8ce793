package wire

import (
	"fmt"

	"github.com/temporal-lens/lens/internal/unsafehelpers"
)

// SharedString is a fixed-capacity, inline-stored string carrying an
// integer Key that deduplicates it across the process boundary. Contents
// are only meaningful the first time a given Key is observed by the
// collector; subsequent sightings may omit them (spec §3, §4.2).
//
// Layout must not gain indirect fields (slices, pointers, strings): the
// struct is copied byte-for-byte into shared memory.
type SharedString struct {
	KeyValue    Key
	Size        uint8
	HasContents bool
	Contents    [SharedStringMaxSize]byte
}

// Set populates the SharedString from a static string. If copy is false,
// only the key is updated and HasContents is cleared — used when the
// caller already knows the collector has seen this key's contents before
// (spec §4.2, "the key is the interning handle; contents are sent the
// first time a given key is observed").
//
// Set panics if the string is longer than SharedStringMaxSize, mirroring
// the original's `assert!` (spec §4.2): this is a build-time/call-site
// error (a profiled name that is too long), not a runtime condition to
// recover from.
func (s *SharedString) Set(key Key, str string, copy bool) {
	if len(str) > SharedStringMaxSize {
		panic(fmt.Sprintf("wire: SharedString contents limited to %d bytes, got %d", SharedStringMaxSize, len(str)))
	}

	s.KeyValue = key
	if copy {
		s.Size = uint8(len(str))
		n := unsafehelpers.CopyStringInto(s.Contents[:], str)
		_ = n
		s.HasContents = true
	} else {
		s.HasContents = false
	}
}

// SetSpecial mirrors the original's `set_special`: the caller supplies an
// arbitrary key (e.g. an OS thread id, or the reserved heap series key 0)
// and an optional byte slice of contents. Used for thread names and the
// heap tracker's series name (spec §4.2, §4.9).
func (s *SharedString) SetSpecial(key Key, contents []byte) {
	s.KeyValue = key

	if contents == nil {
		s.HasContents = false
		return
	}

	if len(contents) > SharedStringMaxSize {
		panic(fmt.Sprintf("wire: SharedString contents limited to %d bytes, got %d", SharedStringMaxSize, len(contents)))
	}

	s.Size = uint8(len(contents))
	copy(s.Contents[:], contents)
	s.HasContents = true
}

// Decode returns the string view of Contents[:Size] if HasContents is set,
// or ok==false otherwise. The returned string is a fresh copy; SharedString
// values living in shared memory may be overwritten by a producer
// concurrently with a reader's drain, so returning a string backed by the
// live buffer would be unsound.
func (s *SharedString) Decode() (value string, ok bool) {
	if !s.HasContents {
		return "", false
	}
	return string(s.Contents[:s.Size]), true
}
