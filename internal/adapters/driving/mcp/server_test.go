package mcp

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer(t *testing.T) {
	t.Run("nil classifier returns error", func(t *testing.T) {
		server, err := NewServer(&Ports{})
		require.Error(t, err)
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingClassifier)
	})

	t.Run("valid ports creates server", func(t *testing.T) {
		server, err := NewServer(&Ports{Classifier: &mockClassifierService{}})
		require.NoError(t, err)
		assert.NotNil(t, server)
	})
}

func TestPorts_Validate(t *testing.T) {
	t.Run("nil ports", func(t *testing.T) {
		var ports *Ports
		assert.ErrorIs(t, ports.Validate(), ErrMissingClassifier)
	})

	t.Run("nil classifier returns error", func(t *testing.T) {
		ports := &Ports{History: &mockHistoryService{}}
		assert.ErrorIs(t, ports.Validate(), ErrMissingClassifier)
	})

	t.Run("classifier only is valid", func(t *testing.T) {
		ports := &Ports{Classifier: &mockClassifierService{}}
		assert.NoError(t, ports.Validate())
	})

	t.Run("all ports is valid", func(t *testing.T) {
		ports := &Ports{Classifier: &mockClassifierService{}, History: &mockHistoryService{}}
		assert.NoError(t, ports.Validate())
	})
}

func TestServer_Handler_Metrics(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "sniff_classifications_total 1\n")
	})

	server, err := NewServer(&Ports{Classifier: &mockClassifierService{}}, WithMetricsHandler(metrics))
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, MetricsPath, nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "sniff_classifications_total")
}

func TestServer_Handler_NoMetrics(t *testing.T) {
	server, err := NewServer(&Ports{Classifier: &mockClassifierService{}})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, MetricsPath, nil))

	// Without a metrics handler the path falls through to the MCP endpoint,
	// which rejects a plain GET without a session.
	assert.NotEqual(t, http.StatusOK, rec.Code)
}
