package main

import (
	"BattingNarrativeApi/internal/data"
	"BattingNarrativeApi/internal/jsonlog"
	"BattingNarrativeApi/internal/scene"
	"bytes"
	"context"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

func testTable() *data.Table {
	return data.NewTable([]data.Record{
		{Year: 2019, FirstName: "Mike", LastName: "Trout", BattingAvg: 0.291, SwingPercent: 39.6,
			OnBasePercent: 0.438, SlgPercent: 0.645, HomeRun: 45, Walk: 110, Strikeout: 120,
			Single: 70, Double: 27, Triple: 2},
		{Year: 2019, FirstName: "Pete", LastName: "Alonso", BattingAvg: 0.261, SwingPercent: 49.2,
			HomeRun: 53, Walk: 72, Strikeout: 183, Single: 80, Double: 30, Triple: 2},
		{Year: 2020, FirstName: "Juan", LastName: "Soto", BattingAvg: 0.351, SwingPercent: 38.0,
			HomeRun: 13, Walk: 41, Strikeout: 28, Single: 32, Double: 14},
		{Year: 2021, FirstName: "Bad", LastName: "Row", BattingAvg: math.NaN(), SwingPercent: 40},
	})
}

// testContext is cancelled when t finishes.
func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx
}

func newTestApplication(t *testing.T) *application {
	t.Helper()

	logger := jsonlog.New(io.Discard, jsonlog.LevelInfo)
	table := testTable()

	app := &application{
		logger: logger,
		table:  table,
	}
	app.config.env = "testing"
	app.config.version = "test"
	app.navigator = scene.NewNavigator(table, app.sceneSnapshot, logger)

	go app.navigator.Run(testContext(t))

	return app
}

type testServer struct {
	*httptest.Server
}

func newTestServer(t *testing.T, h http.Handler) *testServer {
	t.Helper()

	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)

	return &testServer{ts}
}

func (ts *testServer) do(t *testing.T, method, urlPath, body string,
	headers map[string]string) (int, http.Header, string) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}

	req, err := http.NewRequest(method, ts.URL+urlPath, reader)
	if err != nil {
		t.Fatal(err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rs, err := ts.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer rs.Body.Close()

	respBody, err := io.ReadAll(rs.Body)
	if err != nil {
		t.Fatal(err)
	}

	return rs.StatusCode, rs.Header, string(bytes.TrimSpace(respBody))
}

type memoryCache struct {
	mu    sync.Mutex
	items map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{items: make(map[string][]byte)}
}

func (c *memoryCache) GetSVG(_ context.Context, sceneKey string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	svg, ok := c.items[sceneKey]
	return svg, ok, nil
}

func (c *memoryCache) SetSVG(_ context.Context, sceneKey string, svg []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[sceneKey] = svg
	return nil
}
