package web

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/launchdash/internal/dataset"
	"github.com/verte-zerg/launchdash/internal/model"
	"github.com/verte-zerg/launchdash/internal/view"
)

func sample() *dataset.Dataset {
	return dataset.New([]model.Record{
		{LaunchSite: "A", PayloadMassKg: 100, Class: 1, BoosterVersionCategory: "FT", BoosterVersion: "B1"},
		{LaunchSite: "A", PayloadMassKg: 500, Class: 0, BoosterVersionCategory: "v1.1", BoosterVersion: "B2"},
		{LaunchSite: "B", PayloadMassKg: 1000, Class: 1, BoosterVersionCategory: "FT", BoosterVersion: "B3"},
		{LaunchSite: "B", PayloadMassKg: 5000, Class: 1, BoosterVersionCategory: "B4", BoosterVersion: "B4"},
	})
}

func newTestServer(t *testing.T) (*httptest.Server, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	srv := New(sample(), slog.New(slog.NewTextHandler(&logs, nil)))
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, &logs
}

func get(t *testing.T, ts *httptest.Server, path string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(ts.URL + path)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func TestIndexPage(t *testing.T) {
	ts, _ := newTestServer(t)
	resp, body := get(t, ts, "/")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")

	page := string(body)
	assert.Contains(t, page, "SpaceX Launch Records Dashboard")
	assert.Contains(t, page, `id="site-dropdown"`)
	assert.Contains(t, page, `<option value="ALL" selected>All Sites</option>`)
	assert.Contains(t, page, `<option value="A">site1</option>`)
	assert.Contains(t, page, `<option value="B">site2</option>`)
	assert.Contains(t, page, `id="success-pie-chart"`)
	assert.Contains(t, page, `id="success-payload-scatter-chart"`)
	assert.Contains(t, page, `step="1000"`)
	assert.Contains(t, page, `value="100"`)
	assert.Contains(t, page, `value="5000"`)
}

func TestUnknownPathIsNotFound(t *testing.T) {
	ts, _ := newTestServer(t)
	resp, _ := get(t, ts, "/nope")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHealthz(t *testing.T) {
	ts, _ := newTestServer(t)
	resp, body := get(t, ts, "/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok\n", string(body))
}

func TestOptions(t *testing.T) {
	ts, _ := newTestServer(t)
	resp, body := get(t, ts, "/api/options")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var layout view.Layout
	require.NoError(t, json.Unmarshal(body, &layout))
	assert.Len(t, layout.Dropdown.Options, 3)
	assert.Equal(t, model.PayloadRange{Low: 100, High: 5000}, layout.Slider.Value)
}

func TestPieAPI(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, body := get(t, ts, "/api/pie")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var all model.PieChart
	require.NoError(t, json.Unmarshal(body, &all))
	assert.Equal(t, []model.Slice{{Label: "A", Value: 1}, {Label: "B", Value: 2}}, all.Slices)

	resp, body = get(t, ts, "/api/pie?site=A")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var siteA model.PieChart
	require.NoError(t, json.Unmarshal(body, &siteA))
	assert.Equal(t, "Success Rate for A", siteA.Title)
	assert.Equal(t, []model.Slice{{Label: "0", Value: 1}, {Label: "1", Value: 1}}, siteA.Slices)
}

func TestScatterAPI(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, body := get(t, ts, "/api/scatter")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var def model.ScatterChart
	require.NoError(t, json.Unmarshal(body, &def))
	assert.Equal(t, 2, def.PointCount())

	resp, body = get(t, ts, "/api/scatter?site=ALL&low=0&high=10000")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var full model.ScatterChart
	require.NoError(t, json.Unmarshal(body, &full))
	assert.Equal(t, 4, full.PointCount())

	resp, body = get(t, ts, "/api/scatter?site=B&low=0")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var siteB model.ScatterChart
	require.NoError(t, json.Unmarshal(body, &siteB))
	assert.Equal(t, "Payload Vs Class For B", siteB.Title)
	assert.Equal(t, 1, siteB.PointCount())
}

func TestBadRequests(t *testing.T) {
	ts, _ := newTestServer(t)
	for _, path := range []string{
		"/api/pie?site=Z",
		"/api/scatter?low=abc",
		"/api/scatter?high=NaN",
		"/api/scatter?low=5000&high=100",
		"/chart/pie.svg?site=nowhere",
		"/chart/scatter.svg?low=9&high=1",
	} {
		resp, body := get(t, ts, path)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, path)
		var e errorBody
		require.NoError(t, json.Unmarshal(body, &e), path)
		assert.NotEmpty(t, e.Error, path)
		assert.Equal(t, resp.Header.Get(RequestIDHeader), e.RequestID, path)
	}
}

func TestSVGCharts(t *testing.T) {
	ts, _ := newTestServer(t)
	for _, path := range []string{
		"/chart/pie.svg",
		"/chart/pie.svg?site=B",
		"/chart/scatter.svg?low=0&high=10000",
		"/chart/scatter.svg?low=2000&high=3000",
	} {
		resp, body := get(t, ts, path)
		require.Equal(t, http.StatusOK, resp.StatusCode, path)
		assert.Equal(t, "image/svg+xml", resp.Header.Get("Content-Type"), path)
		assert.Contains(t, string(body), "<svg", path)
	}
}

func TestRequestIDAndLogging(t *testing.T) {
	ts, logs := newTestServer(t)
	resp, _ := get(t, ts, "/healthz")
	id := resp.Header.Get(RequestIDHeader)
	require.Len(t, id, 36)

	resp2, _ := get(t, ts, "/healthz")
	assert.NotEqual(t, id, resp2.Header.Get(RequestIDHeader))

	out := logs.String()
	assert.Contains(t, out, "id="+id)
	assert.Contains(t, out, "path=/healthz")
	assert.Contains(t, out, "status=200")
}

func TestServeShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := New(sample(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	url := "http://" + ln.Addr().String() + "/healthz"
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestRunRejectsBadAddr(t *testing.T) {
	srv := New(sample(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	err := srv.Run(context.Background(), "not-an-addr")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "listen on"))
}
