package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Fallback reasons recorded by the model-backed extractor.
const (
	ReasonUnavailable = "unavailable"
	ReasonFailure     = "inference_failure"
	ReasonTimeout     = "timeout"
	ReasonCanceled    = "canceled"
)

// Extraction modes.
const (
	ModeDictionary = "dictionary"
	ModeModel      = "model"
	ModeFallback   = "fallback"
)

var (
	// ModelFallbacks counts model-backed extractions that degraded to dictionary output.
	ModelFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "skillmatch",
			Name:      "model_fallbacks_total",
			Help:      "Model-backed skill extractions that fell back to dictionary output",
		},
		[]string{"reason"},
	)

	// Extractions counts skill extraction calls by the signal that produced them.
	Extractions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "skillmatch",
			Name:      "extractions_total",
			Help:      "Skill extraction calls",
		},
		[]string{"mode"},
	)

	// InferenceDuration observes entity recognizer latency.
	InferenceDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "skillmatch",
			Name:      "inference_duration_seconds",
			Help:      "Entity recognizer call duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)

	// MatchCacheLookups counts match cache hits and misses.
	MatchCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "skillmatch",
			Name:      "match_cache_lookups_total",
			Help:      "Match result cache lookups",
		},
		[]string{"result"},
	)
)

// HTTPMetrics records request counts and latencies for the API server.
type HTTPMetrics struct {
	Duration *prometheus.SummaryVec
	Requests *prometheus.CounterVec
}

// NewHTTPMetrics registers the HTTP collectors with reg.
func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	factory := promauto.With(reg)
	return &HTTPMetrics{
		Duration: factory.NewSummaryVec(
			prometheus.SummaryOpts{
				Name: "http_request_duration_seconds",
				Help: "HTTP request duration in seconds",
				Objectives: map[float64]float64{
					0.5:  0.05,
					0.9:  0.01,
					0.95: 0.005,
					0.99: 0.001,
				},
			},
			[]string{"method", "path", "status_code"},
		),
		Requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
	}
}
