package lexgo

import (
	"log/slog"

	"github.com/hupe1980/lexgo/codec"
	"github.com/hupe1980/lexgo/resource"
)

type options struct {
	codec            codec.Codec
	metricsCollector MetricsCollector
	logger           *Logger
	compression      Compression
	compressionSet   bool
	resources        *resource.Controller
	ioLimit          int64
}

// Option configures constructor/load behavior.
//
// Options exist to avoid exploding the API surface
// (e.g. codec-specific load variants).
type Option func(*options)

// WithCodec configures the codec used for the model artifact payload.
//
// At load time the artifact header is authoritative for decoding; this
// option sets the codec recorded by subsequent saves. If nil is passed,
// codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithCompression configures the block compression for subsequent saves.
// A loaded index otherwise keeps the compression recorded in its manifest.
func WithCompression(c Compression) Option {
	return func(o *options) {
		o.compression = c
		o.compressionSet = true
	}
}

// WithMetricsCollector routes operation counts and latencies to mc.
// Nil disables collection.
//
//	metrics := &lexgo.BasicMetricsCollector{}
//	ix, _ := lexgo.Load[Meta](ctx, store, lexgo.WithMetricsCollector(metrics))
//	// ... use ix ...
//	stats := metrics.GetStats()
//	fmt.Printf("Searches: %d, Avg latency: %dns\n", stats.SearchCount, stats.SearchAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithLogger attaches a structured logger to fit, search, save, and load.
// Nil disables logging.
//
//	logger := lexgo.NewJSONLogger(slog.LevelInfo)
//	ix, _ := lexgo.Load[Meta](ctx, store, lexgo.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithResourceController configures resource governance (IO rate limiting,
// staging memory limits, background worker slots) for save and load.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.resources = rc
	}
}

// WithIOLimit caps artifact read/write throughput at bytesPerSec.
// Convenience wrapper that creates a resource controller with only an IO
// limit; ignored if WithResourceController is also given.
func WithIOLimit(bytesPerSec int64) Option {
	return func(o *options) {
		o.ioLimit = bytesPerSec
	}
}

func applyOptions(optFns []Option) options {
	var o options

	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}

	// Normalize so callers never branch on nil collaborators.
	if o.resources == nil && o.ioLimit > 0 {
		o.resources = resource.NewController(resource.Config{IOLimitBytesPerSec: o.ioLimit})
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	if o.metricsCollector == nil {
		o.metricsCollector = NoopMetricsCollector{}
	}

	return o
}
