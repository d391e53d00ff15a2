package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	responseTime = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "response_time",
			Help:    "http response time.",
			Buckets: []float64{0.005, 0.025, 0.1, 0.5, 1, 5},
		},
	)

	totalHttpRequestsFromRole = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "total_http_requests_from_role", Help: "http requests from role"},
		[]string{"role"},
	)

	totalHttpRequestsToUri = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "total_http_requests_to_uri", Help: "http requests to uri"},
		[]string{"code", "uri", "method"},
	)

	totalHttpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "total_http_requests", Help: "http requests by code, and method"},
		[]string{"code", "method"},
	)

	variantOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "variant_operations_total", Help: "tagged variant encodes and decodes by family, operation and outcome"},
		[]string{"family", "op", "outcome"},
	)

	variantLabels = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "variant_labels_total", Help: "successfully coded variants by family and label"},
		[]string{"family", "label"},
	)
)

func init() {
	prometheus.MustRegister(
		responseTime,
		totalHttpRequestsFromRole,
		totalHttpRequestsToUri,
		totalHttpRequests,
		variantOperations,
		variantLabels,
	)
}
