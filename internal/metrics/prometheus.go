package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusMetrics implements Metrics by registering a small set of
// counters and histograms into a caller-supplied registry (or the default
// one via prometheus.DefaultRegisterer if nil).
type PrometheusMetrics struct {
	commandDuration *prometheus.HistogramVec
	commandTotal    *prometheus.CounterVec
	bytesSent       prometheus.Counter
	bytesReceived   prometheus.Counter
	pendingRetries  *prometheus.CounterVec
}

// NewPrometheusMetrics registers the client's metrics with registerer
// (typically prometheus.DefaultRegisterer or a testutil registry).
func NewPrometheusMetrics(registerer prometheus.Registerer) *PrometheusMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	m := &PrometheusMetrics{
		commandDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "smb3_client",
			Name:      "command_duration_seconds",
			Help:      "Duration of SMB2/3 command round trips.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"command"}),
		commandTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "smb3_client",
			Name:      "commands_total",
			Help:      "Total SMB2/3 commands issued, by command and terminal status.",
		}, []string{"command", "status"}),
		bytesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "smb3_client",
			Name:      "bytes_sent_total",
			Help:      "Total bytes written to the transport.",
		}),
		bytesReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "smb3_client",
			Name:      "bytes_received_total",
			Help:      "Total bytes read from the transport.",
		}),
		pendingRetries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "smb3_client",
			Name:      "pending_retries_total",
			Help:      "Total STATUS_PENDING reschedules, by command.",
		}, []string{"command"}),
	}
	registerer.MustRegister(m.commandDuration, m.commandTotal, m.bytesSent, m.bytesReceived, m.pendingRetries)
	return m
}

func (m *PrometheusMetrics) RecordCommand(command string, duration time.Duration, status string) {
	m.commandDuration.WithLabelValues(command).Observe(duration.Seconds())
	m.commandTotal.WithLabelValues(command, status).Inc()
}

func (m *PrometheusMetrics) RecordBytesSent(n int) { m.bytesSent.Add(float64(n)) }

func (m *PrometheusMetrics) RecordBytesReceived(n int) { m.bytesReceived.Add(float64(n)) }

func (m *PrometheusMetrics) RecordPendingRetry(command string) {
	m.pendingRetries.WithLabelValues(command).Inc()
}
