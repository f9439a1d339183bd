package report

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Black-And-White-Club/fantasy-frolf-bot/internal/observability"
	"github.com/Black-And-White-Club/fantasy-frolf-bot/internal/observability/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sheetsCall struct {
	method string
	path   string
	body   map[string]interface{}
}

func newSheetsTestServer(t *testing.T, columnA [][]string, calls *[]sheetsCall) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		call := sheetsCall{method: r.Method, path: r.URL.Path}
		if r.Body != nil && r.Method != http.MethodGet {
			_ = json.NewDecoder(r.Body).Decode(&call.body)
		}
		*calls = append(*calls, call)

		if r.Method == http.MethodGet {
			require.NoError(t, json.NewEncoder(rw).Encode(map[string]interface{}{"values": columnA}))
			return
		}
		rw.WriteHeader(http.StatusOK)
		_, _ = rw.Write([]byte("{}"))
	}))
}

func TestSheetsPublisher_UpdateSeasonRow(t *testing.T) {
	obs := observability.NewNoOp()
	teamOrder := []string{"Chain Gang", "Hyzer Flippers"}
	totals := map[string]float64{"Chain Gang": 16, "Hyzer Flippers": 9}

	t.Run("existing event updates its row", func(t *testing.T) {
		var calls []sheetsCall
		srv := newSheetsTestServer(t, [][]string{{"Event"}, {"Supreme Flight Open"}, {"Jonesboro Open"}}, &calls)
		defer srv.Close()

		p := newSheetsPublisherForTest(srv.URL, "sheet-id", "SEASON SCORE", obs.Logger, metrics.NoOpMetrics{})
		require.NoError(t, p.UpdateSeasonRow(context.Background(), "Jonesboro Open", teamOrder, totals))

		require.Len(t, calls, 2)
		assert.Equal(t, http.MethodGet, calls[0].method)

		update := calls[1]
		assert.Equal(t, http.MethodPut, update.method)
		assert.Contains(t, update.path, "A3", "Jonesboro Open sits on sheet row 3")

		values := update.body["values"].([]interface{})[0].([]interface{})
		assert.Equal(t, "Jonesboro Open", values[0])
		assert.Equal(t, 16.0, values[1])
		assert.Equal(t, 9.0, values[2])
	})

	t.Run("unknown event appends a row", func(t *testing.T) {
		var calls []sheetsCall
		srv := newSheetsTestServer(t, [][]string{{"Event"}}, &calls)
		defer srv.Close()

		p := newSheetsPublisherForTest(srv.URL, "sheet-id", "SEASON SCORE", obs.Logger, metrics.NoOpMetrics{})
		require.NoError(t, p.UpdateSeasonRow(context.Background(), "USDGC", teamOrder, totals))

		require.Len(t, calls, 2)
		assert.Equal(t, http.MethodPost, calls[1].method)
		assert.True(t, strings.HasSuffix(calls[1].path, ":append"), "expected append call, got %s", calls[1].path)
	})

	t.Run("event match is case-insensitive", func(t *testing.T) {
		var calls []sheetsCall
		srv := newSheetsTestServer(t, [][]string{{"JONESBORO OPEN"}}, &calls)
		defer srv.Close()

		p := newSheetsPublisherForTest(srv.URL, "sheet-id", "SEASON SCORE", obs.Logger, metrics.NoOpMetrics{})
		require.NoError(t, p.UpdateSeasonRow(context.Background(), "Jonesboro Open", teamOrder, totals))

		require.Len(t, calls, 2)
		assert.Equal(t, http.MethodPut, calls[1].method)
		assert.Contains(t, calls[1].path, "A1")
	})

	t.Run("API failure propagates", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, _ *http.Request) {
			rw.WriteHeader(http.StatusForbidden)
		}))
		defer srv.Close()

		p := newSheetsPublisherForTest(srv.URL, "sheet-id", "SEASON SCORE", obs.Logger, metrics.NoOpMetrics{})
		err := p.UpdateSeasonRow(context.Background(), "Jonesboro Open", teamOrder, totals)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 403")
	})
}
