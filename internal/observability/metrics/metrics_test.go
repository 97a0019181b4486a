package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipelineMetricsRegisterAndObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewPipelineMetrics(reg)

	m.ObserveMessage("safe")
	m.ObserveMessage("crisis")
	m.ObserveCrisis("suicide")
	m.ObserveComposeLatency(0.02)
	m.ObserveStoreFallback()

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["therabot_pipeline_messages_total"])
	assert.True(t, names["therabot_pipeline_crisis_total"])
	assert.True(t, names["therabot_pipeline_compose_latency_seconds"])
	assert.True(t, names["therabot_session_store_fallback_total"])
}

func TestPipelineMetricsNilReceiver(t *testing.T) {
	var m *PipelineMetrics
	m.ObserveMessage("safe")
	m.ObserveCrisis("suicide")
	m.ObserveComposeLatency(0.1)
	m.ObserveStoreFallback()
}
