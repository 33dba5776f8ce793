//go:build linux

package lens

import "golang.org/x/sys/unix"

// osThreadID returns the calling OS thread's id via gettid(2). Note this is
// captured once, at ThreadContext construction time: if the calling
// goroutine is later rescheduled onto a different OS thread, the recorded
// id goes stale. Callers that need a stable id across the goroutine's
// lifetime should pin it with runtime.LockOSThread before calling
// NewThreadContext, the same caveat the original places on "the thread
// owning the bytes."
func osThreadID() uint64 {
	return uint64(unix.Gettid())
}
