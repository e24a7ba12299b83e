package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pagePerception/internal/browser"
	"pagePerception/internal/logger"
	"pagePerception/internal/perception"
)

type fakeBrowser struct {
	browser.Browser
	calls []string
	err   error
}

func (f *fakeBrowser) record(format string, args ...interface{}) error {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
	return f.err
}

func (f *fakeBrowser) Navigate(ctx context.Context, url string) error {
	return f.record("navigate %s", url)
}
func (f *fakeBrowser) Restart(ctx context.Context, url string) error {
	return f.record("restart %s", url)
}
func (f *fakeBrowser) InteractiveElements(ctx context.Context) (*browser.PageView, error) {
	return &browser.PageView{
		URL:   "https://example.com",
		Title: "Example",
		Elements: []perception.ElementRecord{
			{Index: 0, Tag: "BUTTON", Text: "Send", Selector: `[data-manus-id="manus-element-0"]`},
		},
	}, f.record("interactive")
}
func (f *fakeBrowser) VisibleContent(ctx context.Context) (*browser.PageView, error) {
	return &browser.PageView{URL: "https://example.com", Content: "<div>Hello</div>"}, f.record("visible")
}
func (f *fakeBrowser) ClickIndex(ctx context.Context, index int) error {
	return f.record("click %d", index)
}
func (f *fakeBrowser) ClickAt(ctx context.Context, x, y float64) error {
	return f.record("click-at %v %v", x, y)
}
func (f *fakeBrowser) InputIndex(ctx context.Context, index int, text string, pressEnter bool) error {
	return f.record("input %d %q %v", index, text, pressEnter)
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
func (f *fakeBrowser) PressKey(ctx context.Context, key string) error {
	return f.record("key %s", key)
}
func (f *fakeBrowser) ConsoleExec(ctx context.Context, script string) (interface{}, error) {
	return "2", f.record("js %s", script)
}

func newTestCLI(br browser.Browser) (*CLI, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return newCLI(&logger.Zap{Logger: zap.NewNop()}, br, nil, strings.NewReader(""), out), out
}

func TestHandleCommand(t *testing.T) {
	cases := []struct {
		line string
		want []string
	}{
		{"open example.com", []string{"navigate https://example.com"}},
		{"open http://localhost:8080", []string{"navigate http://localhost:8080"}},
		{"restart", []string{"restart "}},
		{"restart example.com", []string{"restart https://example.com"}},
		{"elements", []string{"interactive"}},
		{"visible", []string{"visible"}},
		{"click 3", []string{"click 3"}},
		{"click 10 20.5", []string{"click-at 10 20.5"}},
		{"type 1 hello world", []string{`input 1 "hello world" false`}},
		{"submit 2 query", []string{`input 2 "query" true`}},
		{"select 4 1", []string{"select 4 1"}},
		{"scroll up", []string{"scroll-up false"}},
		{"scroll down end", []string{"scroll-down true"}},
		{"key Control+A", []string{"key Control+A"}},
		{"js document.title.length", []string{"js document.title.length"}},
	}

	for _, tc := range cases {
		t.Run(tc.line, func(t *testing.T) {
			br := &fakeBrowser{}
			c, _ := newTestCLI(br)

			assert.True(t, c.handleCommand(context.Background(), tc.line))
			assert.Equal(t, tc.want, br.calls)
		})
	}
}

func TestHandleCommandRejectsBadArgs(t *testing.T) {
	lines := []string{
		"click",
		"click -1",
		"click a b",
		"type 1",
		"type x hello",
		"select 1",
		"scroll left",
		"scroll up forever",
		"open",
		"key",
	}

	for _, line := range lines {
		t.Run(line, func(t *testing.T) {
			br := &fakeBrowser{}
			c, _ := newTestCLI(br)

			c.handleCommand(context.Background(), line)

			assert.Empty(t, br.calls)
		})
	}
}

func TestHandleCommandPrintsElements(t *testing.T) {
	c, out := newTestCLI(&fakeBrowser{})

	c.handleCommand(context.Background(), "elements")

	assert.Contains(t, out.String(), "[0]")
	assert.Contains(t, out.String(), "<button> Send")
}

func TestHandleCommandReportsError(t *testing.T) {
	c, out := newTestCLI(&fakeBrowser{err: browser.ErrUnknownIndex})

	c.handleCommand(context.Background(), "click 7")

	assert.Contains(t, out.String(), browser.ErrUnknownIndex.Error())
}

func TestHandleCommandExit(t *testing.T) {
	c, _ := newTestCLI(&fakeBrowser{})

	assert.False(t, c.handleCommand(context.Background(), "exit"))
	assert.False(t, c.handleCommand(context.Background(), "quit"))
}

func TestHistoryWithoutDatabase(t *testing.T) {
	c, out := newTestCLI(&fakeBrowser{})

	c.handleCommand(context.Background(), "history")

	assert.Contains(t, out.String(), "История отключена")
}

func TestUnknownCommandPrintsHelp(t *testing.T) {
	c, out := newTestCLI(&fakeBrowser{})

	assert.True(t, c.handleCommand(context.Background(), "dance"))
	assert.Contains(t, out.String(), "Доступные команды")
}

func TestLineReader(t *testing.T) {
	r := newLineReader(strings.NewReader("view\n  click 1  \nlast"), io.Discard)

	line, err := r.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "view", line)

	line, err = r.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "click 1", line)

	line, err = r.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "last", line)

	_, err = r.ReadLine()
	assert.ErrorIs(t, err, io.EOF)
}

func TestRunStopsOnEOF(t *testing.T) {
	br := &fakeBrowser{}
	out := &bytes.Buffer{}
	c := newCLI(&logger.Zap{Logger: zap.NewNop()}, br, nil, strings.NewReader("click 1\nelements\n"), out)

	c.Run(context.Background())

	assert.Equal(t, []string{"click 1", "interactive"}, br.calls)
}
