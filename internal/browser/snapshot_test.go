package browser

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoButtonsPayload = `{
	"url": "https://example.com/",
	"title": "Example",
	"viewport": {"width": 1280, "height": 720},
	"nodes": [
		{"kind": "element", "handle": 0, "parent": -1, "tag": "body", "ns": "http://www.w3.org/1999/xhtml", "attrs": [],
		 "rect": {"x": 0, "y": 0, "width": 1280, "height": 720, "top": 0, "right": 1280, "bottom": 720, "left": 0},
		 "style": {"display": "block", "visibility": "visible", "opacity": "1"}, "innerText": "Save\nCancel", "value": ""},
		{"kind": "element", "handle": 1, "parent": 0, "tag": "button", "ns": "http://www.w3.org/1999/xhtml", "attrs": [],
		 "rect": {"x": 10, "y": 10, "width": 80, "height": 20, "top": 10, "right": 90, "bottom": 30, "left": 10},
		 "style": {"display": "inline-block", "visibility": "visible", "opacity": "1"}, "innerText": "Save", "value": ""},
		{"kind": "text", "handle": -1, "parent": 1, "data": "Save"},
		{"kind": "element", "handle": 2, "parent": 0, "tag": "button", "ns": "http://www.w3.org/1999/xhtml", "attrs": [],
		 "rect": {"x": 10, "y": 40, "width": 80, "height": 20, "top": 40, "right": 90, "bottom": 60, "left": 10},
		 "style": {"display": "inline-block", "visibility": "visible", "opacity": "1"}, "innerText": "Cancel", "value": ""},
		{"kind": "text", "handle": -1, "parent": 2, "data": "Cancel"}
	]
}`

const emptyBodyPayload = `{
	"url": "https://example.com/empty",
	"title": "Empty",
	"viewport": {"width": 1280, "height": 720},
	"nodes": [
		{"kind": "element", "handle": 0, "parent": -1, "tag": "body", "ns": "http://www.w3.org/1999/xhtml", "attrs": [],
		 "rect": {"x": 0, "y": 0, "width": 1280, "height": 720, "top": 0, "right": 1280, "bottom": 720, "left": 0},
		 "style": {"display": "block", "visibility": "visible", "opacity": "1"}, "innerText": "", "value": ""}
	]
}`

// scriptedPage отвечает на скрипты восприятия заранее заданными данными.
type scriptedPage struct {
	playwright.Page

	mu       sync.Mutex
	payload  string
	missing  []interface{}
	probeLag time.Duration
	// registry - реестр на странице занят незавершенным проходом
	registry bool
	overlaps int
	consoles int
}

func (p *scriptedPage) Evaluate(expression string, arg ...interface{}) (interface{}, error) {
	switch {
	case strings.Contains(expression, "document.readyState"):
		return true, nil
	case len(arg) > 0:
		p.mu.Lock()
		defer p.mu.Unlock()
		return p.missing, nil
	case strings.Contains(expression, "delete window"):
		p.mu.Lock()
		defer p.mu.Unlock()
		p.registry = false
		return nil, nil
	}

	p.mu.Lock()
	if p.registry {
		p.overlaps++
	}
	p.registry = true
	payload, lag := p.payload, p.probeLag
	p.mu.Unlock()

	time.Sleep(lag)
	return payload, nil
}

func (p *scriptedPage) reportMissing(handles ...interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.missing = handles
}

func (p *scriptedPage) URL() string                                { return "https://example.com/" }
func (p *scriptedPage) IsClosed() bool                             { return false }
func (p *scriptedPage) SetDefaultTimeout(timeout float64)          {}
func (p *scriptedPage) OnFrameNavigated(fn func(playwright.Frame)) {}
func (p *scriptedPage) OnConsole(fn func(playwright.ConsoleMessage)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.consoles++
}

type tabsContext struct {
	playwright.BrowserContext
	pages []playwright.Page
}

func (c *tabsContext) Pages() []playwright.Page { return c.pages }

func newScriptedBrowser(t *testing.T, page *scriptedPage) *PlaywrightBrowser {
	t.Helper()
	b, err := New(Config{PerceiveRetries: 1, LoadTimeout: time.Second}, nil)
	require.NoError(t, err)
	b.setPage(page)
	return b
}

func TestInteractiveElementsResolvesIndexes(t *testing.T) {
	page := &scriptedPage{payload: twoButtonsPayload}
	b := newScriptedBrowser(t, page)

	view, err := b.InteractiveElements(context.Background())
	require.NoError(t, err)
	require.Len(t, view.Elements, 2)
	assert.Equal(t, "Save", view.Elements[0].Text)
	assert.Equal(t, "Cancel", view.Elements[1].Text)

	r, err := b.records.resolve(1)
	require.NoError(t, err)
	assert.Equal(t, `[data-manus-id="manus-element-1"]`, r.Selector)
}

func TestFailedInteractivePassDropsOldIndexes(t *testing.T) {
	page := &scriptedPage{payload: twoButtonsPayload}
	b := newScriptedBrowser(t, page)
	ctx := context.Background()

	_, err := b.InteractiveElements(ctx)
	require.NoError(t, err)
	_, err = b.records.resolve(1)
	require.NoError(t, err)

	page.reportMissing(float64(2))
	_, err = b.InteractiveElements(ctx)
	require.ErrorIs(t, err, ErrStaleTags)

	_, err = b.records.resolve(1)
	assert.ErrorIs(t, err, ErrUnknownIndex)
	_, err = b.records.resolve(0)
	assert.ErrorIs(t, err, ErrUnknownIndex)
}

func TestVisibleContentKeepsIndexes(t *testing.T) {
	page := &scriptedPage{payload: twoButtonsPayload}
	b := newScriptedBrowser(t, page)
	ctx := context.Background()

	_, err := b.InteractiveElements(ctx)
	require.NoError(t, err)

	view, err := b.VisibleContent(ctx)
	require.NoError(t, err)
	assert.Nil(t, view.Elements)
	assert.Equal(t, 2, b.records.size())
}

func TestPerceptionPassesDoNotOverlap(t *testing.T) {
	page := &scriptedPage{payload: twoButtonsPayload, probeLag: 20 * time.Millisecond}
	b := newScriptedBrowser(t, page)

	var wg sync.WaitGroup
	errs := make(chan error, 4)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := b.InteractiveElements(context.Background())
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	assert.Zero(t, page.overlaps)
	assert.Equal(t, 2, b.records.size())
}

func TestEmptyInteractiveViewEncodesEmptyList(t *testing.T) {
	page := &scriptedPage{payload: emptyBodyPayload}
	b := newScriptedBrowser(t, page)
	ctx := context.Background()

	view, err := b.InteractiveElements(ctx)
	require.NoError(t, err)
	data, err := json.Marshal(view)
	require.NoError(t, err)
	assert.JSONEq(t, `{"url":"https://example.com/empty","title":"Empty","elements":[]}`, string(data))

	view, err = b.VisibleContent(ctx)
	require.NoError(t, err)
	data, err = json.Marshal(view)
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"elements"`)
}

func TestTabSwitchSubscribesOnce(t *testing.T) {
	first := &scriptedPage{payload: emptyBodyPayload}
	second := &scriptedPage{payload: emptyBodyPayload}
	b := newScriptedBrowser(t, first)
	tabs := &tabsContext{pages: []playwright.Page{first, second}}
	b.context = tabs

	page, err := b.getPage()
	require.NoError(t, err)
	assert.Same(t, second, page)

	tabs.pages = []playwright.Page{first}
	page, err = b.getPage()
	require.NoError(t, err)
	assert.Same(t, first, page)

	tabs.pages = []playwright.Page{first, second}
	_, err = b.getPage()
	require.NoError(t, err)

	assert.Equal(t, 1, first.consoles)
	assert.Equal(t, 1, second.consoles)
}
