package observability

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupMetricsExposesInstruments(t *testing.T) {
	tel, err := Setup(Config{ServiceName: "test", MetricsEnabled: true})
	require.NoError(t, err)
	defer tel.Shutdown(context.Background())

	counter, err := tel.Meter.Int64Counter("companion_operations")
	require.NoError(t, err)
	counter.Add(context.Background(), 1)

	w := httptest.NewRecorder()
	tel.MetricsHandler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "companion_operations")
}

func TestSetupTracingWritesSpans(t *testing.T) {
	var out bytes.Buffer
	tel, err := Setup(Config{ServiceName: "test", TracingEnabled: true, TraceOutput: &out})
	require.NoError(t, err)

	_, span := tel.Tracer.Start(context.Background(), "op")
	span.End()
	require.NoError(t, tel.Shutdown(context.Background()))

	assert.Contains(t, out.String(), `"Name":"op"`)
}

func TestNoop(t *testing.T) {
	tel := Noop()
	assert.NoError(t, tel.Shutdown(context.Background()))
	_, span := tel.Tracer.Start(context.Background(), "op")
	span.End()
}
