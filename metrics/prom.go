package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PromSink records solve outcomes in Prometheus metrics.
type PromSink struct {
	solves    *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	entries   prometheus.Counter
	conflicts prometheus.Counter
}

// NewPromSink registers solve metrics on the provided Prometheus registerer.
// If reg is nil, the default registerer is used. If the collectors are already
// registered, the existing ones are reused.
func NewPromSink(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	solves := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pitchplan_solves_total",
		Help: "Total number of schedule solves by outcome",
	}, []string{"status"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pitchplan_solve_duration_seconds",
		Help:    "Wall-clock time spent solving",
		Buckets: prometheus.DefBuckets,
	}, []string{"status"})
	entries := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pitchplan_entries_total",
		Help: "Total number of scheduled entries produced",
	})
	conflicts := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pitchplan_conflicts_total",
		Help: "Total number of subfield conflicts and residual double bookings",
	})

	if err := reg.Register(solves); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			solves = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(duration); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			duration = are.ExistingCollector.(*prometheus.HistogramVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(entries); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			entries = are.ExistingCollector.(prometheus.Counter)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(conflicts); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			conflicts = are.ExistingCollector.(prometheus.Counter)
		} else {
			return nil, err
		}
	}

	return &PromSink{solves: solves, duration: duration, entries: entries, conflicts: conflicts}, nil
}

// RecordSolve implements SolveSink.
func (s *PromSink) RecordSolve(rec SolveRecord) error {
	status := rec.Status.String()
	s.solves.WithLabelValues(status).Inc()
	s.duration.WithLabelValues(status).Observe(rec.Duration.Seconds())
	s.entries.Add(float64(rec.Entries))
	s.conflicts.Add(float64(rec.Conflicts))
	return nil
}
