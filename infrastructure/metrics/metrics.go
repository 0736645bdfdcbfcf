package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Push outcomes recorded for every third party subtitle push.
const (
	PushSuccess = "success"
	PushFail    = "fail"
)

// Recorder is the metrics surface used by the mirror engine and the widget RPC handlers.
type Recorder interface {
	// RecordPush counts one push.request plus a push.success or push.fail.
	RecordPush(provider string, success bool)
	// RecordRPCCall counts a widget call per transport (rpc, xd_rpc, jsonp).
	RecordRPCCall(transport string)
}

var _ Recorder = (*Metrics)(nil)

// Metrics holds the Prometheus collectors.
type Metrics struct {
	PushRequestsTotal *prometheus.CounterVec
	PushResultsTotal  *prometheus.CounterVec
	RPCCallsTotal     *prometheus.CounterVec
}

var (
	defaultMetrics *Metrics
	once           sync.Once
)

// Init returns Prometheus metrics when enabled and a no-op recorder otherwise.
// Collectors are registered once per process.
func Init(enabled bool) Recorder {
	if !enabled {
		return NewNoopMetrics()
	}
	once.Do(func() {
		defaultMetrics = newMetrics(prometheus.DefaultRegisterer)
	})
	return defaultMetrics
}

func newMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		PushRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "subtitle_push_requests_total",
				Help: "Total number of subtitle pushes attempted against third party providers",
			},
			[]string{"provider"},
		),
		PushResultsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "subtitle_push_results_total",
				Help: "Subtitle pushes by outcome",
			},
			[]string{"provider", "result"}, // success, fail
		),
		RPCCallsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "widget_rpc_calls_total",
				Help: "Widget RPC calls by transport",
			},
			[]string{"transport"},
		),
	}
}

func (m *Metrics) RecordPush(provider string, success bool) {
	result := PushFail
	if success {
		result = PushSuccess
	}
	m.PushResultsTotal.WithLabelValues(provider, result).Inc()
	m.PushRequestsTotal.WithLabelValues(provider).Inc()
}

func (m *Metrics) RecordRPCCall(transport string) {
	m.RPCCallsTotal.WithLabelValues(transport).Inc()
}
