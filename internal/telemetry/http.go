package telemetry

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var gatewayRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "triviadesk",
	Subsystem: "gateway",
	Name:      "request_duration_seconds",
	Help:      "Duration of backend requests issued by the gateway.",
	Buckets:   prometheus.DefBuckets,
}, []string{"operation", "code"})

// ObserveGatewayRequest records one backend round trip. A zero status
// means the request never produced a response (transport error).
func ObserveGatewayRequest(operation string, status int, started time.Time) {
	code := "error"
	if status > 0 {
		code = strconv.Itoa(status)
	}

	gatewayRequestDuration.WithLabelValues(operation, code).Observe(time.Since(started).Seconds())
}
