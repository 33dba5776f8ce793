// Package attach implements the AttachmentManager (spec §3, §4.4, component
// C6): the process-global, lazily-initialized, thread-safe holder of the
// client's attachment to the collector's shared region.
//
// This is a direct port of original_source/src/core.rs's
// get_shmem_data_and_start_time: a process-wide singleton built with a
// one-time initializer, a fast-path "ready" flag read without locking, and a
// slow path that retries the OS-level open at most once every
// AttachRetryIntervalSeconds, coalescing concurrent callers through
// singleflight rather than a mutex held across the open. core.rs's own
// comment explains why a plain
// package-level var isn't enough ("we would also need a static mutex"); Go
// has the same problem in reverse — a bare sync.Mutex can be a zero-value
// package var, but the thing it protects (a *shmbacking.Backing plus a
// "when did we last retry" timestamp) still needs one-time construction
// before any goroutine touches it, hence sync.Once.
//
// © 2026 temporal-lens authors. MIT License.
package attach

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/temporal-lens/lens/internal/metrics"
	"github.com/temporal-lens/lens/internal/shmbacking"
	"github.com/temporal-lens/lens/internal/wire"
)

// errRetryTooSoon is returned by attemptOpen (never logged) when the retry
// throttle hasn't elapsed yet; it never escapes Get.
var errRetryTooSoon = errors.New("attach: retry interval not elapsed")

// logger and metricsSink are process-wide, set once at startup (normally
// from pkg/lens's Preinit/Option surface) and read without synchronization
// thereafter. They default to silent/no-op so the library behaves
// identically whether or not the host application opts in, matching the
// teacher's zap.NewNop()/noopMetrics defaults.
var (
	logger      = zap.NewNop()
	metricsSink = metrics.New(nil)

	retryInterval atomic.Int64 // nanoseconds; 0 means "use the built-in default"
)

// SetLogger installs the logger used for non-hot-path attachment
// diagnostics (spec §7: attach failures are never surfaced to callers, but
// the teacher's ambient stack still logs them for operators).
func SetLogger(l *zap.Logger) {
	if l != nil {
		logger = l
	}
}

// SetMetricsSink installs the sink used to report attach-state transitions.
func SetMetricsSink(s metrics.Sink) {
	if s != nil {
		metricsSink = s
	}
}

// SetRetryInterval overrides the built-in AttachRetryIntervalSeconds gate,
// e.g. from a loaded internal/config.Config. Passing zero restores the
// built-in default.
func SetRetryInterval(d time.Duration) {
	retryInterval.Store(int64(d))
}

// manager is the process-global attachment state. Exactly one exists per
// process, built lazily on first use by initOnce.
//
// mu guards only the retry-throttle timestamp and the published backing
// pointer — never the actual shmbacking.Open() call, which runs inside
// group so that goroutines racing the very first attach genuinely
// coalesce onto one underlying open instead of serializing on mu.
type manager struct {
	ready atomic.Bool

	mu          sync.Mutex
	backing     *shmbacking.Backing
	lastCheck   time.Time
	haveChecked bool

	group singleflight.Group

	startTime time.Time
}

var (
	initOnce sync.Once
	core     *manager
)

// retryPolicy gates how often a failed attach may be retried: a fixed
// 10-second interval with no growth, matching core.rs's plain
// "now.saturating_duration_since(x).as_secs() >= 10" check. backoff/v5's
// constant policy is used here purely as the retry-gate vocabulary the rest
// of the client's ambient stack already speaks (SPEC_FULL.md section A),
// not because this path needs exponential growth.
func retryPolicy() backoff.BackOff {
	return backoff.NewConstantBackOff(wire.AttachRetryIntervalSeconds * time.Second)
}

// nextRetryInterval asks the retry policy for its (constant) wait duration.
// Kept as a function rather than a bare constant so the retry gate reads
// from the same backoff.BackOff vocabulary the rest of the client's ambient
// stack uses, even though this particular policy never grows.
func nextRetryInterval() time.Duration {
	if override := time.Duration(retryInterval.Load()); override > 0 {
		return override
	}

	d, err := retryPolicy().NextBackOff()
	if err != nil {
		return wire.AttachRetryIntervalSeconds * time.Second
	}
	return d
}

func ensureInit() *manager {
	initOnce.Do(func() {
		core = &manager{startTime: time.Now()}
	})
	return core
}

// Get returns the shared region and the process's start time, attempting an
// attach (subject to the retry throttle) if not already attached. It
// mirrors core.rs's double-checked-ready algorithm: a lock-free fast path
// when already attached, then a slow path run entirely inside
// m.group.Do — so goroutines racing the very first attach (or a later
// retry) share one underlying shmbacking.Open() call and its
// validate/publish side effects exactly once, rather than each redundantly
// repeating them after the call returns (spec §4.4, SPEC_FULL.md section
// C.4).
//
// Returns (nil, startTime) when unattached; callers (pkg/lens) must treat a
// nil region as "silently drop the event," never as an error to the
// application (spec §4.4, §7: "Unattached").
func Get() (*wire.SharedRegion, time.Time) {
	m := ensureInit()

	if m.ready.Load() {
		return m.backing.Region(), m.startTime
	}

	result, err, _ := m.group.Do("attach", func() (any, error) {
		return m.attemptOpen()
	})

	if err != nil {
		if !errors.Is(err, errRetryTooSoon) {
			logger.Debug("temporal-lens: attach attempt failed", zap.Error(err))
		}
		return nil, m.startTime
	}

	return result.(*wire.SharedRegion), m.startTime
}

// attemptOpen re-checks ready under mu (the second half of the
// double-checked read), then does the gated open/validate/publish. It runs at most
// once per m.group.Do call, so every goroutine waiting on that call
// observes the same result without redoing the work itself.
func (m *manager) attemptOpen() (*wire.SharedRegion, error) {
	m.mu.Lock()
	if m.ready.Load() {
		b := m.backing
		m.mu.Unlock()
		return b.Region(), nil
	}
	now := time.Now()
	if m.haveChecked && now.Sub(m.lastCheck) < nextRetryInterval() {
		m.mu.Unlock()
		return nil, errRetryTooSoon
	}
	m.haveChecked = true
	m.lastCheck = now
	m.mu.Unlock()

	b, err := shmbacking.Open()
	if err != nil {
		return nil, err
	}

	if verr := b.Region().Validate(); verr != wire.ErrNone {
		logger.Warn("temporal-lens: mapped region failed handshake", zap.String("reason", verr.String()))
		b.Close()
		return nil, fmt.Errorf("attach: handshake failed: %s", verr)
	}

	m.mu.Lock()
	m.backing = b
	m.mu.Unlock()
	m.ready.Store(true)

	metricsSink.SetAttached(true)
	logger.Info("temporal-lens: attached to shared region")
	return b.Region(), nil
}

// GetReadOnly returns the shared region without attempting to attach or
// taking any lock — a pure atomic load of the fast-path flag (spec §4.9:
// the heap tracker's sampling loop must never block on, or trigger, an
// attach attempt). Returns nil if not currently attached; callers must not
// retry attachment themselves, since only Get() is allowed to drive that
// state machine.
func GetReadOnly() *wire.SharedRegion {
	m := ensureInit()
	if !m.ready.Load() {
		return nil
	}
	return m.backing.Region()
}

// StartTime returns the process start time recorded the first time the
// AttachmentManager was touched, regardless of whether attachment ever
// succeeded (spec §4.4: timestamps are relative to process start, not
// attach time).
func StartTime() time.Time {
	return ensureInit().startTime
}

// reset tears down process-global attachment state; it exists only for
// tests that need a clean AttachmentManager between cases; production code
// never calls it.
func reset() {
	initOnce = sync.Once{}
	core = nil
	retryInterval.Store(0)
}

// ResetForTest exposes reset to other packages' tests (pkg/lens in
// particular, which needs a clean AttachmentManager between cases just as
// much as this package's own tests do). Production code must never call
// this.
func ResetForTest() {
	reset()
}
