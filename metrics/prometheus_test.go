package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder_Counts(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec, err := NewPrometheusRecorder(reg)
	require.NoError(t, err)

	labels := map[string]string{"network": "testnet"}
	rec.IncCounter("transaction_sent", labels)
	rec.IncCounter("transaction_sent", labels)
	rec.IncCounter("transaction_failure", labels)
	rec.ObserveLatency("send_transaction", 250*time.Millisecond, labels)

	assert.Equal(t, 2.0, testutil.ToFloat64(rec.counters.WithLabelValues("transaction_sent", "testnet")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.counters.WithLabelValues("transaction_failure", "testnet")))
	assert.Equal(t, 1, testutil.CollectAndCount(rec.histogram))
}

func TestPrometheusRecorder_ReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewPrometheusRecorder(reg)
	require.NoError(t, err)

	second, err := NewPrometheusRecorder(reg)
	require.NoError(t, err)

	second.IncCounter("status_connected", map[string]string{"network": "mainnet"})
	assert.Equal(t, 1.0, testutil.ToFloat64(first.counters.WithLabelValues("status_connected", "mainnet")))
}
