package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "surveydesk"

// Metrics exposes Prometheus collectors for submissions, logins and the read cache.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	submissions *prometheus.CounterVec
	cache       *prometheus.CounterVec
	logins      *prometheus.CounterVec
}

// MustNewMetrics constructs a Metrics instance using the provided registerer.
// Tests pass a fresh prometheus.NewRegistry(); registration errors panic.
func MustNewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	submissions := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "survey",
			Name:      "submissions_total",
			Help:      "Questionnaire submissions by questionnaire and outcome.",
		},
		[]string{"questionnaire", "outcome"},
	)
	cache := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "survey",
			Name:      "cache_requests_total",
			Help:      "Cached response reads by cache key and result.",
		},
		[]string{"key", "result"},
	)
	logins := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "logins_total",
			Help:      "Login attempts by outcome.",
		},
		[]string{"outcome"},
	)

	reg.MustRegister(submissions, cache, logins)
	return &Metrics{submissions: submissions, cache: cache, logins: logins}
}

// ObserveSubmission counts one submission; a non-nil err counts as a failure.
func (m *Metrics) ObserveSubmission(questionnaire string, err error) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(questionnaire, outcome(err)).Inc()
}

// ObserveCache counts a cache lookup.
func (m *Metrics) ObserveCache(key string, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cache.WithLabelValues(key, result).Inc()
}

// ObserveLogin counts a login attempt.
func (m *Metrics) ObserveLogin(err error) {
	if m == nil {
		return
	}
	m.logins.WithLabelValues(outcome(err)).Inc()
}

func outcome(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}
