package grassgo

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordFit is called after each model fit.
	// samples is the number of input samples, duration is the total time
	// taken, err is nil if successful.
	RecordFit(samples int, duration time.Duration, err error)

	// RecordKarcherMean is called after each Karcher mean computation.
	// converged is false when the iteration budget was exhausted.
	RecordKarcherMean(converged bool, duration time.Duration)

	// RecordPredict is called after each predict operation (one query).
	RecordPredict(duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordFit(int, time.Duration, error)   {}
func (NoopMetricsCollector) RecordKarcherMean(bool, time.Duration) {}
func (NoopMetricsCollector) RecordPredict(time.Duration, error)    {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	FitCount            atomic.Int64
	FitErrors           atomic.Int64
	FitTotalNanos       atomic.Int64
	KarcherCount        atomic.Int64
	KarcherNonConverged atomic.Int64
	PredictCount        atomic.Int64
	PredictErrors       atomic.Int64
	PredictTotalNanos   atomic.Int64
}

// RecordFit implements MetricsCollector.
func (b *BasicMetricsCollector) RecordFit(samples int, duration time.Duration, err error) {
	b.FitCount.Add(1)
	b.FitTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.FitErrors.Add(1)
	}
}

// RecordKarcherMean implements MetricsCollector.
func (b *BasicMetricsCollector) RecordKarcherMean(converged bool, duration time.Duration) {
	b.KarcherCount.Add(1)
	if !converged {
		b.KarcherNonConverged.Add(1)
	}
}

// RecordPredict implements MetricsCollector.
func (b *BasicMetricsCollector) RecordPredict(duration time.Duration, err error) {
	b.PredictCount.Add(1)
	b.PredictTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.PredictErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		FitCount:            b.FitCount.Load(),
		FitErrors:           b.FitErrors.Load(),
		FitAvgNanos:         avgNanos(b.FitTotalNanos.Load(), b.FitCount.Load()),
		KarcherCount:        b.KarcherCount.Load(),
		KarcherNonConverged: b.KarcherNonConverged.Load(),
		PredictCount:        b.PredictCount.Load(),
		PredictErrors:       b.PredictErrors.Load(),
		PredictAvgNanos:     avgNanos(b.PredictTotalNanos.Load(), b.PredictCount.Load()),
	}
}

func avgNanos(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	FitCount            int64
	FitErrors           int64
	FitAvgNanos         int64
	KarcherCount        int64
	KarcherNonConverged int64
	PredictCount        int64
	PredictErrors       int64
	PredictAvgNanos     int64
}
