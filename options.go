package grassgo

import (
	"log/slog"
	"runtime"

	"github.com/hupe1980/grassgo/grassmann"
)

type options struct {
	rank             int
	elementWise      bool
	karcherTolerance float64
	karcherMaxIter   int
	maxParallel      int
	logger           *Logger
	metricsCollector MetricsCollector
}

// Option configures Interpolator behavior.
type Option func(*options)

// WithRank sets the common reduced rank used when projecting samples onto
// the manifold. The default is grassmann.RankMax: the minimum effective rank
// across all samples. An explicit rank above any sample's effective rank
// fails fast at Fit.
func WithRank(rank int) Option {
	return func(o *options) {
		o.rank = rank
	}
}

// WithElementWise switches interpolation from whole-matrix mode (each
// tangent matrix flattened into one vector, one fit) to element-wise mode
// (one independent scalar fit per matrix entry across the N samples).
func WithElementWise(elementWise bool) Option {
	return func(o *options) {
		o.elementWise = elementWise
	}
}

// WithKarcherTolerance sets the convergence tolerance of the Karcher mean
// solver: the threshold on the Frobenius norm of the averaged tangent.
func WithKarcherTolerance(tol float64) Option {
	return func(o *options) {
		if tol > 0 {
			o.karcherTolerance = tol
		}
	}
}

// WithKarcherMaxIterations bounds the Karcher mean gradient descent.
// When exhausted, the best estimate is used and a warning is logged;
// inspect Model.Converged for a hard guarantee.
func WithKarcherMaxIterations(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.karcherMaxIter = n
		}
	}
}

// WithMaxParallel bounds the number of goroutines used for element-wise
// fitting and batch prediction. Defaults to GOMAXPROCS.
func WithMaxParallel(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxParallel = n
		}
	}
}

// WithMetricsCollector configures a metrics collector for monitoring
// operations. Pass nil to disable metrics collection.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
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

func applyOptions(optFns []Option) options {
	o := options{
		rank:             grassmann.RankMax,
		karcherTolerance: 1e-6,
		karcherMaxIter:   1000,
		maxParallel:      runtime.GOMAXPROCS(0),
		logger:           NoopLogger(),
		metricsCollector: NoopMetricsCollector{},
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
