package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/mbcet/alumnimeet/internal/form"
	"github.com/mbcet/alumnimeet/internal/models"
)

// Metrics holds the Prometheus instruments for the registration lifecycle.
type Metrics struct {
	Submissions    *prometheus.CounterVec
	InvalidFields  *prometheus.CounterVec
	StoreLatency   prometheus.Histogram
	ActiveSessions prometheus.Gauge
}

// New creates and registers all metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Submissions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "alumni_submissions_total",
			Help: "Submit attempts by outcome (invalid, succeeded, failed, ignored, duplicate)",
		}, []string{"outcome"}),
		InvalidFields: f.NewCounterVec(prometheus.CounterOpts{
			Name: "alumni_invalid_fields_total",
			Help: "Validation failures by field name",
		}, []string{"field"}),
		StoreLatency: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "alumni_store_create_seconds",
			Help:    "Latency of record store create calls",
			Buckets: prometheus.DefBuckets,
		}),
		ActiveSessions: f.NewGauge(prometheus.GaugeOpts{
			Name: "alumni_sessions_active",
			Help: "Form sessions currently held in memory",
		}),
	}
}

// Hooks counts lifecycle outcomes.
func (m *Metrics) Hooks() form.Hooks {
	return form.Hooks{
		Invalid: func(errs form.ErrorMap) {
			m.Submissions.WithLabelValues("invalid").Inc()
			for field := range errs {
				m.InvalidFields.WithLabelValues(field).Inc()
			}
		},
		Ignored: func(reason error) {
			if errors.Is(reason, form.ErrAlreadySubmitted) {
				m.Submissions.WithLabelValues("duplicate").Inc()
				return
			}
			m.Submissions.WithLabelValues("ignored").Inc()
		},
		Submitted: func(context.Context, string, models.Registration) {
			m.Submissions.WithLabelValues("succeeded").Inc()
		},
		Failed: func(error) { m.Submissions.WithLabelValues("failed").Inc() },
	}
}

// SetActiveSessions records the current session count.
func (m *Metrics) SetActiveSessions(n int) {
	m.ActiveSessions.Set(float64(n))
}

// InstrumentStore times every create call made through s.
func (m *Metrics) InstrumentStore(s form.RecordStore) form.RecordStore {
	return timedStore{next: s, hist: m.StoreLatency}
}

type timedStore struct {
	next form.RecordStore
	hist prometheus.Histogram
}

func (t timedStore) CreateRecord(ctx context.Context, rec models.Registration) (string, error) {
	start := time.Now()
	defer func() { t.hist.Observe(time.Since(start).Seconds()) }()
	return t.next.CreateRecord(ctx, rec)
}
