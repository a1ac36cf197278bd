// Package metrics defines the Prometheus collectors exported by sparkredd.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// CacheOps counts cache operations by cache name and outcome (hit|miss|expired|evicted).
	CacheOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sparkred_cache_operations_total",
			Help: "Cache operations",
		},
		[]string{"cache", "op"},
	)

	// CacheSize reports the number of entries currently held per cache.
	CacheSize = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "sparkred_cache_size",
			Help: "Number of entries currently in cache",
		},
		[]string{"cache"},
	)

	// UpstreamRequests counts calls to the catalog gateway by endpoint and result.
	UpstreamRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sparkred_upstream_requests_total",
			Help: "Requests sent to the movie catalog",
		},
		[]string{"endpoint", "result"}, // search|movie, ok|not_found|error
	)

	// HTTPRequests counts API requests by method and status code.
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sparkred_http_requests_total",
			Help: "HTTP requests served",
		},
		[]string{"method", "status"},
	)
)

// MustRegister registers all collectors with the given registerer.
// Passing nil registers with the default registry.
func MustRegister(reg prometheus.Registerer) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(CacheOps, CacheSize, UpstreamRequests, HTTPRequests)
}
