package main

import (
	"BattingNarrativeApi/internal/assert"
	"BattingNarrativeApi/internal/data"
	"BattingNarrativeApi/internal/mailer"
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestHealthCheck(t *testing.T) {
	app := newTestApplication(t)
	ts := newTestServer(t, app.routes(testContext(t)))

	code, _, body := ts.do(t, http.MethodGet, "/v1/healthcheck", "", nil)

	assert.Equal(t, code, http.StatusOK)
	assert.StringContains(t, body, `"status": "available"`)
	assert.StringContains(t, body, `"records": 4`)
}

func TestRouting(t *testing.T) {
	app := newTestApplication(t)
	ts := newTestServer(t, app.routes(testContext(t)))

	code, _, _ := ts.do(t, http.MethodGet, "/v1/unknown", "", nil)
	assert.Equal(t, code, http.StatusNotFound)

	code, _, body := ts.do(t, http.MethodPost, "/v1/years", "", nil)
	assert.Equal(t, code, http.StatusMethodNotAllowed)
	assert.StringContains(t, body, "POST method is not supported")
}

func TestSceneNavigation(t *testing.T) {
	app := newTestApplication(t)
	ts := newTestServer(t, app.routes(testContext(t)))

	steps := []struct {
		name     string
		method   string
		urlPath  string
		body     string
		wantCode int
		wantBody []string
	}{
		{
			name:     "Initial overview",
			method:   http.MethodGet,
			urlPath:  "/v1/scene",
			wantCode: http.StatusOK,
			wantBody: []string{`"scene": "overview"`, `"selected_year": null`, "League Batting Average"},
		},
		{
			name:     "Select year",
			method:   http.MethodPost,
			urlPath:  "/v1/scene/year",
			body:     `{"year": 2019}`,
			wantCode: http.StatusOK,
			wantBody: []string{`"scene": "drill_down"`, `"selected_year": 2019`, "HR leader: Pete Alonso (53)"},
		},
		{
			name:     "Unknown year",
			method:   http.MethodPost,
			urlPath:  "/v1/scene/year",
			body:     `{"year": 1999}`,
			wantCode: http.StatusUnprocessableEntity,
			wantBody: []string{`"year": "must be a year present in the data"`},
		},
		{
			name:     "Player from another year",
			method:   http.MethodPost,
			urlPath:  "/v1/scene/player",
			body:     `{"player_id": 2}`,
			wantCode: http.StatusUnprocessableEntity,
			wantBody: []string{"must belong to the selected year"},
		},
		{
			name:     "State unchanged after rejection",
			method:   http.MethodGet,
			urlPath:  "/v1/scene",
			wantCode: http.StatusOK,
			wantBody: []string{`"selected_year": 2019`},
		},
		{
			name:     "Select player",
			method:   http.MethodPost,
			urlPath:  "/v1/scene/player",
			body:     `{"player_id": 0}`,
			wantCode: http.StatusOK,
			wantBody: []string{`"scene": "player_detail"`, "Mike Trout, 2019: Hits by Type"},
		},
		{
			name:     "Back to drill down",
			method:   http.MethodPost,
			urlPath:  "/v1/scene/back",
			wantCode: http.StatusOK,
			wantBody: []string{`"scene": "drill_down"`, `"selected_player": null`},
		},
		{
			name:     "Back to overview",
			method:   http.MethodPost,
			urlPath:  "/v1/scene/back",
			wantCode: http.StatusOK,
			wantBody: []string{`"scene": "overview"`},
		},
		{
			name:     "Back at overview",
			method:   http.MethodPost,
			urlPath:  "/v1/scene/back",
			wantCode: http.StatusOK,
			wantBody: []string{`"scene": "overview"`},
		},
		{
			name:     "Player before year",
			method:   http.MethodPost,
			urlPath:  "/v1/scene/player",
			body:     `{"player_id": 0}`,
			wantCode: http.StatusUnprocessableEntity,
			wantBody: []string{"cannot be selected before a year"},
		},
		{
			name:     "Select another year",
			method:   http.MethodPost,
			urlPath:  "/v1/scene/year",
			body:     `{"year": 2020}`,
			wantCode: http.StatusOK,
			wantBody: []string{`"selected_year": 2020`},
		},
		{
			name:     "Reset",
			method:   http.MethodPost,
			urlPath:  "/v1/scene/reset",
			wantCode: http.StatusOK,
			wantBody: []string{`"scene": "overview"`},
		},
		{
			name:     "Missing year",
			method:   http.MethodPost,
			urlPath:  "/v1/scene/year",
			body:     `{}`,
			wantCode: http.StatusUnprocessableEntity,
			wantBody: []string{`"year": "must be provided"`},
		},
		{
			name:     "Wrong type",
			method:   http.MethodPost,
			urlPath:  "/v1/scene/year",
			body:     `{"year": "2019"}`,
			wantCode: http.StatusBadRequest,
			wantBody: []string{`incorrect JSON type for field \"year\"`},
		},
		{
			name:     "Unknown key",
			method:   http.MethodPost,
			urlPath:  "/v1/scene/player",
			body:     `{"player": 0}`,
			wantCode: http.StatusBadRequest,
			wantBody: []string{"unknown key"},
		},
	}

	for _, tt := range steps {
		t.Run(tt.name, func(t *testing.T) {
			code, _, body := ts.do(t, tt.method, tt.urlPath, tt.body, nil)

			assert.Equal(t, code, tt.wantCode)
			for _, want := range tt.wantBody {
				assert.StringContains(t, body, want)
			}
		})
	}
}

func TestSceneWithoutPlottableValues(t *testing.T) {
	app := newTestApplication(t)
	ts := newTestServer(t, app.routes(testContext(t)))

	code, _, body := ts.do(t, http.MethodPost, "/v1/scene/year", `{"year": 2021}`, nil)
	assert.Equal(t, code, http.StatusOK)
	assert.StringContains(t, body, `"frame": null`)

	code, _, _ = ts.do(t, http.MethodGet, "/v1/scene/svg", "", nil)
	assert.Equal(t, code, http.StatusUnprocessableEntity)
}

func TestSceneSVG(t *testing.T) {
	app := newTestApplication(t)
	app.svgCache = newMemoryCache()
	ts := newTestServer(t, app.routes(testContext(t)))

	code, headers, body := ts.do(t, http.MethodGet, "/v1/scene/svg", "", nil)
	assert.Equal(t, code, http.StatusOK)
	assert.Equal(t, headers.Get("Content-Type"), "image/svg+xml")
	assert.Equal(t, headers.Get("X-Cache"), "MISS")
	assert.StringContains(t, body, "<svg")

	code, headers, cached := ts.do(t, http.MethodGet, "/v1/scene/svg", "", nil)
	assert.Equal(t, code, http.StatusOK)
	assert.Equal(t, headers.Get("X-Cache"), "HIT")
	assert.Equal(t, cached, body)

	ts.do(t, http.MethodPost, "/v1/scene/year", `{"year": 2019}`, nil)

	code, headers, body = ts.do(t, http.MethodGet, "/v1/scene/svg", "", nil)
	assert.Equal(t, code, http.StatusOK)
	assert.Equal(t, headers.Get("X-Cache"), "MISS")
	assert.StringContains(t, body, "</svg>")
}

func TestPresenterKey(t *testing.T) {
	app := newTestApplication(t)

	app.presenterKey = new(data.PresenterKey)
	if err := app.presenterKey.Set("correct-horse"); err != nil {
		t.Fatal(err)
	}

	ts := newTestServer(t, app.routes(testContext(t)))

	tests := []struct {
		name     string
		header   string
		wantCode int
	}{
		{"Missing key", "", http.StatusUnauthorized},
		{"Wrong key", "Bearer battery-staple", http.StatusUnauthorized},
		{"Wrong scheme", "Basic correct-horse", http.StatusUnauthorized},
		{"Correct key", "Bearer correct-horse", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := map[string]string{}
			if tt.header != "" {
				headers["Authorization"] = tt.header
			}

			code, rsHeaders, _ := ts.do(t, http.MethodPost, "/v1/scene/year", `{"year": 2019}`, headers)
			assert.Equal(t, code, tt.wantCode)
			if tt.wantCode == http.StatusUnauthorized {
				assert.Equal(t, rsHeaders.Get("WWW-Authenticate"), "Bearer")
			}
		})
	}

	code, _, _ := ts.do(t, http.MethodGet, "/v1/scene", "", nil)
	assert.Equal(t, code, http.StatusOK)
}

func TestYears(t *testing.T) {
	app := newTestApplication(t)
	ts := newTestServer(t, app.routes(testContext(t)))

	tests := []struct {
		name     string
		urlPath  string
		wantCode int
		wantBody []string
	}{
		{"Yearly averages", "/v1/years", http.StatusOK, []string{`"year": 2019`, `"avg_avg": 0.276`, `"avg_avg": null`}},
		{"Year summary", "/v1/years/2019", http.StatusOK, []string{`"players": 2`, "Pete Alonso"}},
		{"Unknown year", "/v1/years/1999", http.StatusNotFound, nil},
		{"Non-numeric year", "/v1/years/abc", http.StatusNotFound, nil},
		{"Year without values", "/v1/years/2021", http.StatusUnprocessableEntity, nil},
		{"Players", "/v1/years/2019/players", http.StatusOK, []string{`"total_records": 2`}},
		{"Bad sort", "/v1/years/2019/players?sort=salary", http.StatusUnprocessableEntity,
			[]string{`"sort": "invalid sort value"`}},
		{"Bad page", "/v1/years/2019/players?page=x", http.StatusUnprocessableEntity,
			[]string{`"page": "must be an integer value"`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, body := ts.do(t, http.MethodGet, tt.urlPath, "", nil)

			assert.Equal(t, code, tt.wantCode)
			for _, want := range tt.wantBody {
				assert.StringContains(t, body, want)
			}
		})
	}
}

func TestYearPlayersSortAndPage(t *testing.T) {
	app := newTestApplication(t)
	ts := newTestServer(t, app.routes(testContext(t)))

	_, _, body := ts.do(t, http.MethodGet, "/v1/years/2019/players?sort=-home_run", "", nil)
	alonso, trout := strings.Index(body, "Alonso"), strings.Index(body, "Trout")
	if alonso == -1 || trout == -1 || alonso > trout {
		t.Errorf("expected Alonso before Trout in %s", body)
	}

	_, _, body = ts.do(t, http.MethodGet, "/v1/years/2019/players?page=2&page_size=1", "", nil)
	assert.StringContains(t, body, "Alonso")
	assert.StringContains(t, body, `"last_page": 2`)
	if strings.Contains(body, "Trout") {
		t.Errorf("second page should not contain Trout: %s", body)
	}
}

func TestShowPlayer(t *testing.T) {
	app := newTestApplication(t)
	ts := newTestServer(t, app.routes(testContext(t)))

	code, _, body := ts.do(t, http.MethodGet, "/v1/players/0", "", nil)
	assert.Equal(t, code, http.StatusOK)
	assert.StringContains(t, body, `"name": "Mike Trout"`)
	assert.StringContains(t, body, `"type": "home_run"`)

	code, _, _ = ts.do(t, http.MethodGet, "/v1/players/99", "", nil)
	assert.Equal(t, code, http.StatusNotFound)
}

func TestShareSceneValidation(t *testing.T) {
	app := newTestApplication(t)
	ts := newTestServer(t, app.routes(testContext(t)))

	code, _, body := ts.do(t, http.MethodPost, "/v1/scene/share", `{"email": "not-an-address"}`, nil)
	assert.Equal(t, code, http.StatusUnprocessableEntity)
	assert.StringContains(t, body, "must be a valid email address")
}

func TestShareScene(t *testing.T) {
	app := newTestApplication(t)
	cache := newMemoryCache()
	app.svgCache = cache
	// Nothing listens on port 1, so delivery fails in the background.
	app.mailer = mailer.New("127.0.0.1", 1, "", "", "Batting <no-reply@batting.test>")
	ts := newTestServer(t, app.routes(testContext(t)))
	t.Cleanup(app.wg.Wait)

	code, _, _ := ts.do(t, http.MethodPost, "/v1/scene/year", `{"year": 2019}`, nil)
	assert.Equal(t, code, http.StatusOK)

	code, _, body := ts.do(t, http.MethodPost, "/v1/scene/share", `{"email": "fan@batting.test"}`, nil)
	assert.Equal(t, code, http.StatusAccepted)
	assert.StringContains(t, body, "DrillDown(2019)")

	svg, ok, err := cache.GetSVG(context.Background(), "year:2019")
	assert.NilError(t, err)
	assert.Equal(t, ok, true)
	assert.StringContains(t, string(svg), "<svg")

	code, header, _ := ts.do(t, http.MethodGet, "/v1/scene/svg", "", nil)
	assert.Equal(t, code, http.StatusOK)
	assert.Equal(t, header.Get("X-Cache"), "HIT")

	code, _, _ = ts.do(t, http.MethodPost, "/v1/scene/year", `{"year": 2021}`, nil)
	assert.Equal(t, code, http.StatusOK)

	code, _, _ = ts.do(t, http.MethodPost, "/v1/scene/share", `{"email": "fan@batting.test"}`, nil)
	assert.Equal(t, code, http.StatusUnprocessableEntity)
}

func TestSweepEveryStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	swept := make(chan struct{}, 1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		sweepEvery(ctx, time.Millisecond, func() {
			select {
			case swept <- struct{}{}:
			default:
			}
		})
	}()

	select {
	case <-swept:
	case <-time.After(2 * time.Second):
		t.Fatal("sweep never ran")
	}

	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("sweep kept running after cancel")
	}
}

func TestRateLimit(t *testing.T) {
	app := newTestApplication(t)
	app.config.limiter.enabled = true
	app.config.limiter.rps = 1
	app.config.limiter.burst = 1
	ts := newTestServer(t, app.routes(testContext(t)))

	code, _, _ := ts.do(t, http.MethodGet, "/v1/healthcheck", "", nil)
	assert.Equal(t, code, http.StatusOK)

	code, _, body := ts.do(t, http.MethodGet, "/v1/healthcheck", "", nil)
	assert.Equal(t, code, http.StatusTooManyRequests)
	assert.StringContains(t, body, "rate limit exceeded")
}

func TestWatchScene(t *testing.T) {
	app := newTestApplication(t)
	ts := newTestServer(t, app.routes(testContext(t)))

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/v1/scene/watch"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	read := func() string {
		t.Helper()
		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			t.Fatal(err)
		}
		return string(msg)
	}

	assert.StringContains(t, read(), `"scene":"overview"`)

	code, _, _ := ts.do(t, http.MethodPost, "/v1/scene/year", `{"year": 2019}`, nil)
	assert.Equal(t, code, http.StatusOK)
	assert.StringContains(t, read(), `"scene":"drill_down"`)

	code, _, _ = ts.do(t, http.MethodPost, "/v1/scene/player", `{"player_id": 1}`, nil)
	assert.Equal(t, code, http.StatusOK)
	assert.StringContains(t, read(), "Pete Alonso, 2019")
}
