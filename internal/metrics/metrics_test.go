package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMustRegister_Exposition(t *testing.T) {
	reg := prometheus.NewRegistry()
	MustRegister(reg)

	CacheOps.WithLabelValues("test", "hit").Inc()
	CacheSize.WithLabelValues("test").Set(3)
	UpstreamRequests.WithLabelValues("search", "ok").Inc()
	HTTPRequests.WithLabelValues("GET", "200").Inc()

	srv := httptest.NewServer(promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	for _, name := range []string{
		`sparkred_cache_operations_total{cache="test",op="hit"}`,
		`sparkred_cache_size{cache="test"} 3`,
		`sparkred_upstream_requests_total{endpoint="search",result="ok"}`,
		`sparkred_http_requests_total{method="GET",status="200"}`,
	} {
		assert.Contains(t, string(body), name)
	}
}

func TestMustRegister_Twice(t *testing.T) {
	reg := prometheus.NewRegistry()
	MustRegister(reg)
	assert.Panics(t, func() { MustRegister(reg) })
}
