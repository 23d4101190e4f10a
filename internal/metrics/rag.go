package metrics

import "github.com/prometheus/client_golang/prometheus"

// Ask pipeline Prometheus metrics.
var (
	AskRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "campusqa",
			Name:      "ask_requests_total",
			Help:      "Total number of ask pipeline executions",
		},
		[]string{"outcome"}, // "answered" / "no_context" / "rejected" / "error"
	)

	RetrievedDocuments = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "campusqa",
			Name:      "retrieved_documents",
			Help:      "Number of documents retrieved per question",
			Buckets:   []float64{0, 1, 2, 3, 4},
		},
	)

	GenerationRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "campusqa",
			Name:      "generation_requests_total",
			Help:      "Total number of generation requests",
		},
		[]string{"provider", "model", "status"},
	)

	GenerationRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "campusqa",
			Name:      "generation_request_duration_seconds",
			Help:      "Generation request duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"provider", "model"},
	)

	GenerationTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "campusqa",
			Name:      "generation_tokens_total",
			Help:      "Total generation tokens consumed",
		},
		[]string{"provider", "model", "type"},
	)
)

var ragMetricsRegistered bool

// RegisterRAGMetrics registers Prometheus ask pipeline metrics. Must be called once from main.
func RegisterRAGMetrics() {
	if ragMetricsRegistered {
		return
	}
	prometheus.MustRegister(AskRequestsTotal)
	prometheus.MustRegister(RetrievedDocuments)
	prometheus.MustRegister(GenerationRequestsTotal)
	prometheus.MustRegister(GenerationRequestDuration)
	prometheus.MustRegister(GenerationTokensTotal)
	ragMetricsRegistered = true
}
