package server_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/UnknownOlympus/functions/internal/dataset"
	"github.com/UnknownOlympus/functions/internal/functions"
	"github.com/UnknownOlympus/functions/internal/metrics"
	"github.com/UnknownOlympus/functions/internal/server"
	"github.com/UnknownOlympus/functions/internal/service"
	"github.com/UnknownOlympus/functions/test/mocks"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type errorBody struct {
	Status     string   `json:"status"`
	Error      string   `json:"error"`
	Validation []string `json:"validation"`
}

func newTestServer(t *testing.T) (*httptest.Server, *metrics.Metrics) {
	t.Helper()
	logger := slog.Default()

	schools, err := dataset.Load("")
	require.NoError(t, err)

	broken := mocks.NewFunction(t)
	broken.On("Name").Return("broken")
	broken.On("Invoke", mock.Anything, mock.Anything).Return(nil, assert.AnError).Maybe()

	panicking := mocks.NewFunction(t)
	panicking.On("Name").Return("panicking")
	panicking.On("Invoke", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
		panic("boom")
	}).Return(nil, nil).Maybe()

	registry := functions.NewRegistry(
		functions.NewProcessLargeData(schools, nil, logger),
		functions.NewInvocationEvent(logger),
		functions.NewEnvironment("", logger),
		broken,
		panicking,
	)

	appMetrics := metrics.NewMetrics(prometheus.NewRegistry())
	invoker := service.NewInvoker(logger, registry, appMetrics)
	srv := httptest.NewServer(server.NewRouter(invoker, appMetrics, logger))
	t.Cleanup(srv.Close)

	return srv, appMetrics
}

func post(t *testing.T, srv *httptest.Server, name, body string, headers map[string]string) *http.Response {
	t.Helper()
	req, err := http.NewRequestWithContext(t.Context(), http.MethodPost, srv.URL+"/functions/"+name, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestListFunctions(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := srv.Client().Get(srv.URL + "/functions")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody[map[string][]string](t, resp)
	assert.Equal(t,
		[]string{"broken", "environment", "invocationevent", "panicking", "processlargedata"},
		body["functions"])
}

func TestInvoke(t *testing.T) {
	srv, appMetrics := newTestServer(t)

	t.Run("nearest schools", func(t *testing.T) {
		resp := post(t, srv, "processlargedata", `{"latitude": 36.169090, "longitude": -115.140579, "length": 3}`, nil)

		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, resp.Header.Get("Content-Type"), "application/json")

		body := decodeBody[struct {
			Schools []struct {
				Name     string  `json:"name"`
				Distance float64 `json:"distance"`
			} `json:"schools"`
		}](t, resp)
		require.Len(t, body.Schools, 3)
		assert.Equal(t, "Downtown Arts Academy", body.Schools[0].Name)
		assert.InDelta(t, 0.235389, body.Schools[2].Distance, 1e-6)
	})

	t.Run("missing coordinates", func(t *testing.T) {
		resp := post(t, srv, "processlargedata", `{}`, nil)

		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		body := decodeBody[errorBody](t, resp)
		assert.Equal(t, "Invalid request.", body.Status)
		assert.Contains(t, body.Error, "please provide latitude and longitude")
	})

	t.Run("validation failure lists fields", func(t *testing.T) {
		resp := post(t, srv, "processlargedata", `{"latitude": 1, "longitude": 1, "length": -4}`, nil)

		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		body := decodeBody[errorBody](t, resp)
		assert.Equal(t, []string{"length must be 0 or greater"}, body.Validation)
	})

	t.Run("cloud event headers", func(t *testing.T) {
		resp := post(t, srv, "invocationevent", `{"b": 1, "a": 2}`, map[string]string{
			"ce-id":     "evt-42",
			"ce-source": "urn:test",
			"ce-type":   "com.example.test",
			"ce-time":   "2026-03-01T12:00:00Z",
		})

		require.Equal(t, http.StatusOK, resp.StatusCode)
		body := decodeBody[map[string]any](t, resp)
		assert.Equal(t, "evt-42", body["id"])
		assert.Equal(t, "urn:test", body["source"])
		assert.Equal(t, "com.example.test", body["type"])
		assert.Equal(t, "application/json", body["dataContentType"])
		assert.Equal(t, "2026-03-01T12:00:00Z", body["time"])
		assert.Equal(t, map[string]any{"type": "object", "keys": []any{"b", "a"}}, body["payloadInfo"])
	})

	t.Run("event defaults", func(t *testing.T) {
		resp := post(t, srv, "invocationevent", ``, nil)

		require.Equal(t, http.StatusOK, resp.StatusCode)
		body := decodeBody[map[string]any](t, resp)
		_, err := uuid.Parse(body["id"].(string))
		require.NoError(t, err)
		assert.Equal(t, "/functions/invocationevent", body["source"])
		assert.Equal(t, "com.functions.invoke", body["type"])

		at, err := time.Parse(time.RFC3339Nano, body["time"].(string))
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now(), at, time.Minute)
	})

	t.Run("invalid ce-time", func(t *testing.T) {
		resp := post(t, srv, "invocationevent", `{}`, map[string]string{"ce-time": "yesterday"})

		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("unknown function", func(t *testing.T) {
		resp := post(t, srv, "nope", `{}`, nil)

		require.Equal(t, http.StatusNotFound, resp.StatusCode)
		body := decodeBody[errorBody](t, resp)
		assert.Equal(t, "Not found.", body.Status)
	})

	t.Run("unconfigured resource", func(t *testing.T) {
		resp := post(t, srv, "environment", `{"password": "test"}`, nil)

		require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	})

	t.Run("internal errors are hidden", func(t *testing.T) {
		resp := post(t, srv, "broken", `{}`, nil)

		require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		body := decodeBody[errorBody](t, resp)
		assert.Equal(t, "internal server error", body.Error)
		assert.NotContains(t, body.Error, assert.AnError.Error())
	})

	t.Run("panics are recovered", func(t *testing.T) {
		resp := post(t, srv, "panicking", `{}`, nil)

		require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	})

	t.Run("payload too large", func(t *testing.T) {
		payload := `{"padding": "` + strings.Repeat("x", 1<<20) + `"}`
		resp := post(t, srv, "invocationevent", payload, nil)

		require.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
	})

	t.Run("route metrics", func(t *testing.T) {
		count := testutil.ToFloat64(appMetrics.HTTPRequests.WithLabelValues("/functions/{name}", http.MethodPost, "404"))
		assert.InDelta(t, 1.0, count, 1e-9)
	})
}
