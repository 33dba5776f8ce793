// Package lens is the public API of the temporal-lens client runtime (spec
// §6, "Public API of the client library"): Zone/ThreadContext for scope
// timing, FrameDelimiter for per-frame timing, SubmitPlot for numeric
// series, StartHeapTracker for the optional allocation-tracking sampler,
// and Preinit to force attachment setup early.
//
// Every producer-facing call in this package silently no-ops while
// unattached (spec §7): attachment failures are never surfaced as errors to
// application code, only logged (see WithLogger); with a metrics registry
// (see WithMetricsRegistry) the attached gauge shows whether attachment has
// succeeded.
package lens

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/temporal-lens/lens/internal/attach"
	"github.com/temporal-lens/lens/internal/config"
	"github.com/temporal-lens/lens/internal/metrics"
	"github.com/temporal-lens/lens/internal/shmbacking"
)

// Option configures the client's ambient stack: logging, metrics, and the
// non-binding operational knobs described in SPEC_FULL.md section A. None
// of these touch the wire-format binding constants in internal/wire.
type Option func(*options)

type options struct {
	logger            *zap.Logger
	registry          *prometheus.Registry
	attachRetryPeriod time.Duration
}

func defaultOptions() *options {
	return &options{logger: zap.NewNop()}
}

// preinitSinks holds the metrics sink built for each registry passed to
// Preinit, so a repeated call with the same registry reuses it instead of
// registering the collectors a second time.
var preinitSinks = map[*prometheus.Registry]metrics.Sink{}

// WithLogger plugs an external zap.Logger for non-hot-path diagnostics
// (attach failures, handshake mismatches). The client never logs on a
// Zone/Frame/Plot push path. Modeled on the teacher's WithLogger option in
// pkg/config.go.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetricsRegistry enables Prometheus metrics collection. Passing nil
// leaves metrics disabled (the default), mirroring the teacher's
// WithMetrics option.
func WithMetricsRegistry(reg *prometheus.Registry) Option {
	return func(o *options) { o.registry = reg }
}

// WithAttachRetryInterval overrides the built-in 10-second attach retry
// throttle (spec §3's binding constant is unaffected on the wire; this only
// changes how often *this process* retries a failed open).
func WithAttachRetryInterval(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.attachRetryPeriod = d
		}
	}
}

// Preinit applies opts to the ambient stack and forces an immediate
// attachment attempt (spec §6: "preinit() — optional; forces attachment
// setup early"), so the first real Zone/Frame/Plot call doesn't pay for a
// cold attach. Safe to call multiple times or not at all — every producer
// call lazily attaches on its own otherwise.
func Preinit(opts ...Option) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	attach.SetLogger(o.logger)
	sink, ok := preinitSinks[o.registry]
	if !ok {
		sink = metrics.New(o.registry)
		preinitSinks[o.registry] = sink
	}
	attach.SetMetricsSink(sink)
	if o.attachRetryPeriod > 0 {
		attach.SetRetryInterval(o.attachRetryPeriod)
	}

	attach.Get()
}

// PreinitFromConfig loads the optional YAML configuration file
// (internal/config), applies its region path override and attach retry
// interval, and then calls Preinit, letting a host application defer its
// ambient-stack setup to a config file instead of hardcoded Options. It
// does not build a logger from cfg.LogLevel and does not start the heap
// tracker; it returns the loaded config so the caller can act on
// cfg.LogLevel and cfg.HeapTrackerWanted() itself.
func PreinitFromConfig(path string) (*config.Config, error) {
	var cfg *config.Config
	var err error

	if path == "" {
		cfg, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(path)
	}
	if err != nil {
		return nil, err
	}

	if cfg.RegionPath != "" {
		shmbacking.PathOverride = cfg.RegionPath
	}

	var opts []Option
	if interval := cfg.AttachRetryInterval(0); interval > 0 {
		opts = append(opts, WithAttachRetryInterval(interval))
	}

	Preinit(opts...)
	return cfg, nil
}
