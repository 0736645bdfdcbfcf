package metrics

// NoopMetrics discards everything; used when metrics are disabled.
type NoopMetrics struct{}

var _ Recorder = (*NoopMetrics)(nil)

func NewNoopMetrics() Recorder {
	return &NoopMetrics{}
}

func (n *NoopMetrics) RecordPush(provider string, success bool) {}
func (n *NoopMetrics) RecordRPCCall(transport string)           {}
