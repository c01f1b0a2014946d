package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	// OutcomeSuccess labels successful external deliveries and calls.
	OutcomeSuccess = "success"
	// OutcomeError labels failed external deliveries and calls.
	OutcomeError = "error"
	// OutcomeSkipped labels calls that were not attempted because the integration is not configured.
	OutcomeSkipped = "skipped"
)

var (
	alertsUpsertedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wardwatch",
			Name:      "alerts_upserted_total",
			Help:      "Alerts written by the deduplicator, partitioned by type, severity and whether a row was created or refreshed.",
		},
		[]string{"type", "severity", "result"},
	)

	alertRecipients = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "wardwatch",
			Name:      "alert_recipients",
			Help:      "Number of staff members selected per routed alert.",
			Buckets:   []float64{0, 1, 2, 3, 4, 6, 8, 12, 20},
		},
		[]string{"strategy"},
	)

	riskAssessmentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wardwatch",
			Name:      "risk_assessments_total",
			Help:      "Risk assessments computed, partitioned by resulting level.",
		},
		[]string{"level"},
	)

	riskAnalysisSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "wardwatch",
			Name:      "risk_analysis_seconds",
			Help:      "Latency of a single patient risk analysis, advisory call included.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 4, 8, 12},
		},
	)

	externalCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wardwatch",
			Name:      "external_calls_total",
			Help:      "Best-effort external calls (webhook, advisory, push, stream), partitioned by target and outcome.",
		},
		[]string{"target", "outcome"},
	)

	sweepDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "wardwatch",
			Name:      "sweep_seconds",
			Help:      "Duration of periodic sweeps.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"sweep"},
	)

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wardwatch",
			Name:      "http_requests_total",
			Help:      "HTTP requests served, partitioned by method, route template and status code.",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "wardwatch",
			Name:      "http_request_seconds",
			Help:      "HTTP request latency by method and route template.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// Register attaches wardwatch collectors to the supplied Prometheus registerer.
func Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		alertsUpsertedTotal,
		alertRecipients,
		riskAssessmentsTotal,
		riskAnalysisSeconds,
		externalCallsTotal,
		sweepDurationSeconds,
		httpRequestsTotal,
		httpRequestSeconds,
	}

	for _, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return err
		}
	}
	return nil
}

// ObserveAlertUpsert counts one deduplicator write.
func ObserveAlertUpsert(alertType, severity string, created bool) {
	result := "refreshed"
	if created {
		result = "created"
	}
	alertsUpsertedTotal.WithLabelValues(alertType, severity, result).Inc()
}

// ObserveRouting records how many recipients a routing strategy selected.
func ObserveRouting(strategy string, recipients int) {
	alertRecipients.WithLabelValues(strategy).Observe(float64(recipients))
}

// ObserveRiskAssessment records a risk analysis duration and resulting level.
func ObserveRiskAssessment(duration time.Duration, level string) {
	riskAssessmentsTotal.WithLabelValues(level).Inc()
	if duration < 0 {
		duration = 0
	}
	riskAnalysisSeconds.Observe(duration.Seconds())
}

// ObserveExternalCall counts a best-effort external call by target and outcome.
func ObserveExternalCall(target, outcome string) {
	externalCallsTotal.WithLabelValues(target, outcome).Inc()
}

// ObserveSweep records the duration of a periodic sweep.
func ObserveSweep(sweep string, duration time.Duration) {
	sweepDurationSeconds.WithLabelValues(sweep).Observe(duration.Seconds())
}

// ObserveHTTPRequest records one served request. Unmatched routes share the
// "unmatched" label to keep cardinality bounded.
func ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpRequestSeconds.WithLabelValues(method, route).Observe(duration.Seconds())
}
