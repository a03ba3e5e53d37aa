package ckan

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/saeondata/jsonapi-facade/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleCount(t *testing.T, action string) uint64 {
	t.Helper()
	observer, err := actionDuration.GetMetricWithLabelValues(action)
	require.NoError(t, err)
	var m dto.Metric
	require.NoError(t, observer.(prometheus.Metric).Write(&m))
	return m.GetHistogram().GetSampleCount()
}

func TestCallAction_TransportFailureObservesDuration(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client, err := NewClient(config.CKANConfig{URL: url, TimeoutSeconds: 1},
		slog.New(slog.NewJSONHandler(io.Discard, nil)))
	require.NoError(t, err)

	const action = "organization_purge"
	before := sampleCount(t, action)

	_, err = client.Call(context.Background(), "k", NewActionCall(action, nil))
	require.Error(t, err)

	assert.Equal(t, before+1, sampleCount(t, action))
}
