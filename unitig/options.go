package unitig

import (
	"runtime"

	"github.com/zhk8111/megahit"
)

type options struct {
	logger  *megahit.Logger
	metrics megahit.MetricsCollector
	workers int
}

// Option configures a Graph.
type Option func(*options)

// WithLogger sets the logger for the graph.
func WithLogger(l *megahit.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetrics sets the collector that receives degree-cache and refresh
// statistics.
func WithMetrics(mc megahit.MetricsCollector) Option {
	return func(o *options) {
		if mc != nil {
			o.metrics = mc
		}
	}
}

// WithWorkers bounds the goroutines used by construction and Refresh.
// Defaults to GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.workers = n
		}
	}
}

func defaultOptions() options {
	return options{
		logger:  megahit.NoopLogger(),
		metrics: megahit.NoopMetricsCollector{},
		workers: runtime.GOMAXPROCS(0),
	}
}
