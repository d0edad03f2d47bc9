// Package metrics defines the Prometheus collectors the app exports on
// /metrics and a storage decorator that counts store operations.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "persons", Name: "http_requests_total", Help: "Number of HTTP requests by route and status code."},
		[]string{"route", "code"},
	)
	StoreOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "persons", Name: "store_operations_total", Help: "Number of storage operations by operation and result."},
		[]string{"op", "result"},
	)
	RateLimitRejected = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "persons", Name: "rate_limit_rejected_total", Help: "Number of requests rejected by the rate limiter."},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(HTTPRequests)
	reg.MustRegister(StoreOperations)
	reg.MustRegister(RateLimitRejected)
}
