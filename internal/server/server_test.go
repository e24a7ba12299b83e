package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pagePerception/internal/browser"
	"pagePerception/internal/config"
	"pagePerception/internal/database"
	"pagePerception/internal/logger"
	"pagePerception/internal/perception"
)

type fakeBrowser struct {
	calls    []string
	view     *browser.PageView
	err      error
	launched bool
}

func (f *fakeBrowser) record(format string, args ...interface{}) error {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
	if !f.launched {
		return browser.ErrNotLaunched
	}
	return f.err
}

func (f *fakeBrowser) Launch(ctx context.Context) error { return f.record("launch") }
func (f *fakeBrowser) Restart(ctx context.Context, url string) error {
	return f.record("restart %s", url)
}
func (f *fakeBrowser) Navigate(ctx context.Context, url string) error {
	return f.record("navigate %s", url)
}
func (f *fakeBrowser) View(ctx context.Context) (*browser.PageView, error) {
	return f.view, f.record("view")
}
func (f *fakeBrowser) VisibleContent(ctx context.Context) (*browser.PageView, error) {
	return f.view, f.record("visible")
}
func (f *fakeBrowser) InteractiveElements(ctx context.Context) (*browser.PageView, error) {
	return f.view, f.record("interactive")
}
func (f *fakeBrowser) ClickIndex(ctx context.Context, index int) error {
	return f.record("click %d", index)
}
func (f *fakeBrowser) ClickAt(ctx context.Context, x, y float64) error {
	return f.record("click-at %v %v", x, y)
}
func (f *fakeBrowser) InputIndex(ctx context.Context, index int, text string, pressEnter bool) error {
	return f.record("input %d %s %v", index, text, pressEnter)
}
func (f *fakeBrowser) InputAt(ctx context.Context, x, y float64, text string, pressEnter bool) error {
	return f.record("input-at %v %v %s %v", x, y, text, pressEnter)
}
func (f *fakeBrowser) MoveMouse(ctx context.Context, x, y float64) error {
	return f.record("move %v %v", x, y)
}
func (f *fakeBrowser) PressKey(ctx context.Context, key string) error {
	return f.record("key %s", key)
}
func (f *fakeBrowser) SelectOption(ctx context.Context, index, option int) error {
	return f.record("select %d %d", index, option)
}
func (f *fakeBrowser) ScrollUp(ctx context.Context, toTop bool) error {
	return f.record("scroll-up %v", toTop)
}
func (f *fakeBrowser) ScrollDown(ctx context.Context, toBottom bool) error {
	return f.record("scroll-down %v", toBottom)
}
func (f *fakeBrowser) Screenshot(ctx context.Context, fullPage bool) ([]byte, error) {
	return []byte("png"), f.record("screenshot %v", fullPage)
}
func (f *fakeBrowser) ConsoleExec(ctx context.Context, script string) (interface{}, error) {
	return float64(2), f.record("exec %s", script)
}
func (f *fakeBrowser) ConsoleView(ctx context.Context, maxLines int) ([]browser.ConsoleMessage, error) {
	return []browser.ConsoleMessage{{Type: "log", Text: "hi"}}, f.record("console %d", maxLines)
}
func (f *fakeBrowser) Close() error { return nil }

type fakeStore struct {
	snapshots map[uint]*database.Snapshot
	limit     int
	offset    int
}

func (f *fakeStore) List(ctx context.Context, limit, offset int) ([]database.Snapshot, error) {
	f.limit, f.offset = limit, offset
	var out []database.Snapshot
	for _, s := range f.snapshots {
		out = append(out, *s)
	}
	return out, nil
}

func (f *fakeStore) GetByID(ctx context.Context, id uint) (*database.Snapshot, error) {
	s, ok := f.snapshots[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", database.ErrNotFound, id)
	}
	return s, nil
}

func newTestServer(br browser.Browser, store SnapshotStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Cfg{App: config.App{Host: "127.0.0.1", Port: 8080}}
	return New(cfg, &logger.Zap{Logger: zap.NewNop()}, br, store).Router()
}

func do(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	r := newTestServer(&fakeBrowser{}, nil)

	w := do(t, r, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestInteractive(t *testing.T) {
	br := &fakeBrowser{launched: true, view: &browser.PageView{
		URL:   "https://example.com",
		Title: "Example",
		Elements: []perception.ElementRecord{
			{Index: 0, Tag: "a", Text: "Home", Selector: `[data-manus-id="manus-element-0"]`},
		},
	}}
	r := newTestServer(br, nil)

	w := do(t, r, http.MethodGet, "/api/interactive", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"url": "https://example.com",
		"title": "Example",
		"elements": [{"index": 0, "tag": "a", "text": "Home", "selector": "[data-manus-id=\"manus-element-0\"]"}]
	}`, w.Body.String())
	assert.Equal(t, []string{"interactive"}, br.calls)
}

func TestActions(t *testing.T) {
	cases := []struct {
		name   string
		method string
		path   string
		body   string
		call   string
	}{
		{"navigate", http.MethodPost, "/api/navigate", `{"url":"https://example.com"}`, "navigate https://example.com"},
		{"click index", http.MethodPost, "/api/click", `{"index":3}`, "click 3"},
		{"click point", http.MethodPost, "/api/click", `{"x":10,"y":20.5}`, "click-at 10 20.5"},
		{"input index", http.MethodPost, "/api/input", `{"index":1,"text":"hello","press_enter":true}`, "input 1 hello true"},
		{"input point", http.MethodPost, "/api/input", `{"x":5,"y":6,"text":"hi"}`, "input-at 5 6 hi false"},
		{"select", http.MethodPost, "/api/select", `{"index":2,"option":1}`, "select 2 1"},
		{"scroll up", http.MethodPost, "/api/scroll", `{"direction":"up","to_end":true}`, "scroll-up true"},
		{"scroll down", http.MethodPost, "/api/scroll", `{"direction":"down"}`, "scroll-down false"},
		{"move", http.MethodPost, "/api/move", `{"x":1,"y":2}`, "move 1 2"},
		{"key", http.MethodPost, "/api/key", `{"key":"Enter"}`, "key Enter"},
		{"console view", http.MethodGet, "/api/console?lines=5", "", "console 5"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			br := &fakeBrowser{launched: true}
			r := newTestServer(br, nil)

			w := do(t, r, tc.method, tc.path, tc.body)

			assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
			assert.Equal(t, []string{tc.call}, br.calls)
		})
	}
}

func TestBadRequests(t *testing.T) {
	cases := []struct {
		name string
		path string
		body string
	}{
		{"navigate without url", "/api/navigate", `{}`},
		{"click without target", "/api/click", `{}`},
		{"input without target", "/api/input", `{"text":"x"}`},
		{"scroll bad direction", "/api/scroll", `{"direction":"left"}`},
		{"key without key", "/api/key", `{}`},
		{"broken json", "/api/select", `{`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			br := &fakeBrowser{launched: true}
			r := newTestServer(br, nil)

			w := do(t, r, http.MethodPost, tc.path, tc.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Empty(t, br.calls)
		})
	}
}

func TestErrorStatus(t *testing.T) {
	cases := []struct {
		name string
		br   *fakeBrowser
		want int
	}{
		{"not launched", &fakeBrowser{}, http.StatusServiceUnavailable},
		{"unknown index", &fakeBrowser{launched: true, err: fmt.Errorf("%w: 9", browser.ErrUnknownIndex)}, http.StatusNotFound},
		{"circuit open", &fakeBrowser{launched: true, err: browser.ErrCircuitOpen}, http.StatusServiceUnavailable},
		{"blocked url", &fakeBrowser{launched: true, err: browser.ErrBlockedURL}, http.StatusForbidden},
		{"timeout", &fakeBrowser{launched: true, err: context.DeadlineExceeded}, http.StatusGatewayTimeout},
		{"other", &fakeBrowser{launched: true, err: fmt.Errorf("boom")}, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestServer(tc.br, nil)

			w := do(t, r, http.MethodPost, "/api/click", `{"index":9}`)

			assert.Equal(t, tc.want, w.Code)
		})
	}
}

func TestScreenshot(t *testing.T) {
	br := &fakeBrowser{launched: true}
	r := newTestServer(br, nil)

	w := do(t, r, http.MethodGet, "/api/screenshot?full=true", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, "png", w.Body.String())
	assert.Equal(t, []string{"screenshot true"}, br.calls)
}

func TestConsoleExec(t *testing.T) {
	br := &fakeBrowser{launched: true}
	r := newTestServer(br, nil)

	w := do(t, r, http.MethodPost, "/api/console", `{"script":"1+1"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"result":2}`, w.Body.String())
}

func TestSnapshots(t *testing.T) {
	store := &fakeStore{snapshots: map[uint]*database.Snapshot{
		1: {ID: 1, Kind: "interactive", URL: "https://example.com", ElementCount: 1, Elements: []database.SnapshotElement{
			{Position: 0, Tag: "a", Text: "Home", Selector: "s"},
		}},
	}}
	r := newTestServer(&fakeBrowser{}, store)

	t.Run("get", func(t *testing.T) {
		w := do(t, r, http.MethodGet, "/api/snapshots/1", "")

		require.Equal(t, http.StatusOK, w.Code)
		var got database.Snapshot
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, "interactive", got.Kind)
		require.Len(t, got.Elements, 1)
		assert.Equal(t, "Home", got.Elements[0].Text)
	})

	t.Run("missing", func(t *testing.T) {
		w := do(t, r, http.MethodGet, "/api/snapshots/2", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("bad id", func(t *testing.T) {
		w := do(t, r, http.MethodGet, "/api/snapshots/abc", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("list limit clamped", func(t *testing.T) {
		w := do(t, r, http.MethodGet, "/api/snapshots?limit=10000&offset=5", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, maxSnapshotLimit, store.limit)
		assert.Equal(t, 5, store.offset)
	})
}

func TestSnapshotsDisabled(t *testing.T) {
	r := newTestServer(&fakeBrowser{}, nil)

	w := do(t, r, http.MethodGet, "/api/snapshots", "")

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
