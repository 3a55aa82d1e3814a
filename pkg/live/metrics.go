package live

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/vtree/pkg/dom"
)

const namespace = "vtree"

// metrics holds the Prometheus collectors of one server.
type metrics struct {
	activeSessions prometheus.Gauge
	sessionsTotal  prometheus.Counter
	pagesTotal     *prometheus.CounterVec
	syncsTotal     *prometheus.CounterVec
	syncDuration   prometheus.Histogram
	opsTotal       *prometheus.CounterVec
	framesSent     prometheus.Counter
	bytesSent      prometheus.Counter
	eventsTotal    *prometheus.CounterVec
	wsErrors       *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	factory := promauto.With(reg)

	return &metrics{
		activeSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Number of sessions with a connected WebSocket",
		}),

		sessionsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_total",
			Help:      "Total number of sessions created",
		}),

		pagesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pages_total",
			Help:      "Server-rendered pages by status",
		}, []string{"status"}),

		syncsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "syncs_total",
			Help:      "Session updates by result",
		}, []string{"result"}),

		syncDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sync_duration_seconds",
			Help:      "Time spent reconciling one session update",
			Buckets:   []float64{.0001, .00025, .0005, .001, .0025, .005, .01, .025, .05, .1},
		}),

		opsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ops_total",
			Help:      "Target mutations sent to clients by kind",
		}, []string{"op"}),

		framesSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_sent_total",
			Help:      "Total number of frames written to clients",
		}),

		bytesSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bytes_sent_total",
			Help:      "Total number of frame bytes written to clients",
		}),

		eventsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "Client events by type and status",
		}, []string{"type", "status"}),

		wsErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "websocket_errors_total",
			Help:      "WebSocket errors by type",
		}, []string{"type"}),
	}
}

// recordOps counts a batch of ops by kind.
func (m *metrics) recordOps(ops []dom.Op) {
	var counts [dom.OpSetInnerHTML + 1]int
	for _, op := range ops {
		if op.Kind <= dom.OpSetInnerHTML {
			counts[op.Kind]++
		}
	}
	for k, n := range counts {
		if n > 0 {
			m.opsTotal.WithLabelValues(dom.OpKind(k).String()).Add(float64(n))
		}
	}
}
