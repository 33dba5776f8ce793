package lens

import (
	"github.com/temporal-lens/lens/internal/unsafehelpers"
	"github.com/temporal-lens/lens/internal/wire"
)

// ThreadContext is the Go-native replacement for the original's
// OS-thread-local state (spec §4.5, C7; SPEC_FULL.md's "Go-native
// redesign"). Go has no per-OS-thread storage reachable from ordinary code
// — goroutines are scheduled M:N onto OS threads and may migrate between
// them — so instead of an implicit thread-local, callers hold one
// ThreadContext explicitly per goroutine (or per OS thread, if they've
// pinned one with runtime.LockOSThread) and pass it to every Zone they
// open on it. A ThreadContext must never be shared between two
// concurrently-executing goroutines: the same invariant the original
// places on "the thread-local owning the bytes," just made an explicit API
// contract instead of a language guarantee.
type ThreadContext struct {
	id       wire.Key
	name     string
	nameSent bool
	depth    uint32
}

// NewThreadContext captures the calling OS thread's id (via
// osThreadID, platform-specific) and records name, the process-local
// owned string later interned as the zone's "thread" SharedString. name's
// backing bytes must outlive every Zone opened on this context, which
// holds trivially since strings are immutable and name is copied into the
// ThreadContext's own field.
func NewThreadContext(name string) *ThreadContext {
	return &ThreadContext{
		id:   osThreadID(),
		name: name,
	}
}

// Depth returns the current call-stack depth on this thread context (spec
// §8: "ZoneData.depth at entry equals the count of enclosing unfinished
// zones on the same thread at the moment of entry").
func (tc *ThreadContext) Depth() uint32 { return tc.depth }

// enter mirrors ThreadContext::enter from spec §4.5: returns the thread id,
// the name bytes if not yet sent (nil otherwise), and the depth *before*
// incrementing; then increments depth.
func (tc *ThreadContext) enter() (id wire.Key, nameBytes []byte, depthBefore uint32) {
	depthBefore = tc.depth

	if !tc.nameSent {
		nameBytes = unsafehelpers.StringToBytes(tc.name)
	}

	tc.depth++
	return tc.id, nameBytes, depthBefore
}

// leave mirrors ThreadContext::leave: marks the name as sent only if this
// exit's push both succeeded and actually carried the name, guaranteeing
// at-least-once delivery (spec §4.5, §4.6 step 7).
func (tc *ThreadContext) leave(pushSucceeded, carriedName bool) {
	if pushSucceeded && carriedName {
		tc.nameSent = true
	}
	tc.depth--
}
