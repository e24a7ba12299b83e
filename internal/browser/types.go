package browser

import (
	"context"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	"pagePerception/internal/perception"
)

type Browser interface {
	Launch(ctx context.Context) error
	Restart(ctx context.Context, url string) error
	Navigate(ctx context.Context, url string) error
	View(ctx context.Context) (*PageView, error)
	VisibleContent(ctx context.Context) (*PageView, error)
	InteractiveElements(ctx context.Context) (*PageView, error)
	ClickIndex(ctx context.Context, index int) error
	ClickAt(ctx context.Context, x, y float64) error
	InputIndex(ctx context.Context, index int, text string, pressEnter bool) error
	InputAt(ctx context.Context, x, y float64, text string, pressEnter bool) error
	MoveMouse(ctx context.Context, x, y float64) error
	PressKey(ctx context.Context, key string) error
	SelectOption(ctx context.Context, index, option int) error
	ScrollUp(ctx context.Context, toTop bool) error
	ScrollDown(ctx context.Context, toBottom bool) error
	Screenshot(ctx context.Context, fullPage bool) ([]byte, error)
	ConsoleExec(ctx context.Context, script string) (interface{}, error)
	ConsoleView(ctx context.Context, maxLines int) ([]ConsoleMessage, error)
	Close() error
}

// PageView - то, что получает агент: адрес, заголовок и результаты сборщиков.
// Content пуст, если запрашивались только элементы, и наоборот.
// Elements равен nil, только если элементы не запрашивались.
type PageView struct {
	URL      string                     `json:"url"`
	Title    string                     `json:"title"`
	Content  string                     `json:"content,omitempty"`
	Elements []perception.ElementRecord `json:"elements,omitzero"`
}

type ConsoleMessage struct {
	Type string    `json:"type"`
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

// Redactor скрывает чувствительные данные в тексте перед отдачей наружу.
type Redactor interface {
	Redact(text string) string
}

// Recorder сохраняет результат прохода восприятия.
type Recorder interface {
	Record(ctx context.Context, kind string, view *PageView) error
}

const (
	KindView        = "view"
	KindVisible     = "visible"
	KindInteractive = "interactive"
)

var _ Browser = (*PlaywrightBrowser)(nil)

type PlaywrightBrowser struct {
	mu        sync.RWMutex
	pw        *playwright.Playwright
	browser   playwright.Browser
	context   playwright.BrowserContext
	page      playwright.Page
	cfg       Config
	log       *zap.Logger
	collector *perception.Collector
	records   recordSet
	console   *consoleBuffer
	redactor  Redactor
	recorder  Recorder
	breaker   *circuitBreaker
	guard     urlGuard

	// perceiveMu: проходы восприятия делят реестр на странице и атрибут меток
	perceiveMu sync.Mutex
	// attached - страницы, на которые уже подписаны обработчики
	attached map[playwright.Page]struct{}
}

type Config struct {
	Headless        bool
	UserDataDir     string
	BrowsersPath    string
	Display         string
	CDPURL          string
	Timeout         time.Duration
	NavigateTimeout time.Duration
	ActionTimeout   time.Duration
	LoadTimeout     time.Duration
	ConnectRetries  int
	PerceiveRetries int
	ConsoleLines    int
	TagAttribute    string
	TagPrefix       string
	MaxLabel        int
	BlockedURLs     []string
	BreakerFailures int
	BreakerReset    time.Duration
}
