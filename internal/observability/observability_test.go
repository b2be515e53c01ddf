package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "debug", "json")

	logger.Debug("feed fetched", "station", "46026")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "feed fetched", line["msg"])
	assert.Equal(t, "46026", line["station"])
}

func TestNewLogger_UnknownLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "chatty", "text")

	assert.False(t, logger.Enabled(context.Background(), -4))
	assert.True(t, logger.Enabled(context.Background(), 0))
}

func TestNewMetricsForTesting_Independent(t *testing.T) {
	a := NewMetricsForTesting()
	b := NewMetricsForTesting()

	a.ProviderAttempts.WithLabelValues("cdip", "hit").Inc()

	assert.InDelta(t, 1, testutil.ToFloat64(a.ProviderAttempts.WithLabelValues("cdip", "hit")), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(b.ProviderAttempts.WithLabelValues("cdip", "hit")), 0)
}
