package spinlock

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSpinLockZeroValueIsUnlocked(t *testing.T) {
	var l SpinLock
	require.True(t, l.TryLock(), "zero-valued SpinLock must start unlocked")
	l.Unlock()
}

func TestSpinLockMutualExclusion(t *testing.T) {
	var l SpinLock
	var counter int
	var wg sync.WaitGroup

	const goroutines = 64
	const incsPerGoroutine = 1000

	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < incsPerGoroutine; j++ {
				l.Lock()
				counter++
				l.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Equal(t, goroutines*incsPerGoroutine, counter)
}

func TestSpinLockTryLock(t *testing.T) {
	var l SpinLock
	require.True(t, l.TryLock())
	require.False(t, l.TryLock(), "second TryLock while held must fail")
	l.Unlock()
	require.True(t, l.TryLock())
	l.Unlock()
}

func TestSpinLockInit(t *testing.T) {
	var l SpinLock
	l.Lock()
	l.Init()
	require.True(t, l.TryLock(), "Init must force the lock back to unlocked")
}
