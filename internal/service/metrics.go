package service

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"ldapsync/internal/model"
)

// Metrics holds the sync collectors. A nil *Metrics records nothing.
type Metrics struct {
	runs      *prometheus.CounterVec
	changes   *prometheus.CounterVec
	unmatched prometheus.Counter
	duration  prometheus.Histogram
}

// NewMetrics creates the sync collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ldapsync_sync_runs_total",
				Help: "Group synchronizations by outcome.",
			},
			[]string{"status", "dry_run"},
		),
		changes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ldapsync_membership_changes_total",
				Help: "Membership rows added or removed by synchronization.",
			},
			[]string{"op"},
		),
		unmatched: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ldapsync_unmatched_persons_total",
			Help: "Directory persons with no matching user record.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "ldapsync_sync_duration_seconds",
			Help:    "Time taken to synchronize one group.",
			Buckets: prometheus.DefBuckets,
		}),
	}

	for _, c := range []prometheus.Collector{m.runs, m.changes, m.unmatched, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observe(status string, res *SyncResult, elapsed time.Duration) {
	if m == nil {
		return
	}
	dry := "false"
	if res.DryRun {
		dry = "true"
	}
	m.runs.WithLabelValues(status, dry).Inc()
	m.duration.Observe(elapsed.Seconds())
	// Dry runs change nothing and failed runs roll back.
	if res.DryRun || status == model.SyncFailed {
		return
	}
	m.changes.WithLabelValues("add").Add(float64(len(res.Added)))
	m.changes.WithLabelValues("remove").Add(float64(len(res.Removed)))
	m.unmatched.Add(float64(len(res.Unmatched)))
}
