package transport

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	requests  *prometheus.CounterVec
	refreshes *prometheus.CounterVec
	waiters   prometheus.Histogram
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "blogclient_transport_requests_total",
			Help: "Requests sent to the API by response status code (0 for network errors).",
		}, []string{"code"}),
		refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "blogclient_transport_refreshes_total",
			Help: "Token refresh cycles by result.",
		}, []string{"result"}),
		waiters: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "blogclient_transport_refresh_waiters",
			Help:    "Requests queued behind one token refresh.",
			Buckets: []float64{0, 1, 2, 5, 10, 25, 50},
		}),
	}
	reg.MustRegister(m.requests, m.refreshes, m.waiters)
	return m
}

func (m *metrics) request(code int) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(strconv.Itoa(code)).Inc()
}

func (m *metrics) refresh(result string, waiters int) {
	if m == nil {
		return
	}
	m.refreshes.WithLabelValues(result).Inc()
	m.waiters.Observe(float64(waiters))
}
