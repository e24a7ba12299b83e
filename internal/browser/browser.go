package browser

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	"pagePerception/internal/perception"
)

func New(cfg Config, log *zap.Logger) (*PlaywrightBrowser, error) {
	// Установка дефолтных таймаутов
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.NavigateTimeout == 0 {
		cfg.NavigateTimeout = 60 * time.Second
	}
	if cfg.ActionTimeout == 0 {
		cfg.ActionTimeout = 10 * time.Second
	}
	if cfg.LoadTimeout == 0 {
		cfg.LoadTimeout = 15 * time.Second
	}
	if cfg.ConnectRetries <= 0 {
		cfg.ConnectRetries = 5
	}
	if cfg.PerceiveRetries <= 0 {
		cfg.PerceiveRetries = 3
	}
	if cfg.ConsoleLines <= 0 {
		cfg.ConsoleLines = 500
	}
	if cfg.TagAttribute == "" {
		cfg.TagAttribute = perception.DefaultTagAttribute
	}
	if cfg.TagPrefix == "" {
		cfg.TagPrefix = perception.DefaultTagPrefix
	}
	if log == nil {
		log = zap.NewNop()
	}

	collector, err := perception.NewCollector(
		perception.WithTag(cfg.TagAttribute, cfg.TagPrefix),
		perception.WithLabelLimit(cfg.MaxLabel),
	)
	if err != nil {
		return nil, fmt.Errorf("ошибка настройки восприятия: %w", err)
	}

	return &PlaywrightBrowser{
		cfg:       cfg,
		log:       log,
		collector: collector,
		console:   newConsoleBuffer(cfg.ConsoleLines),
		breaker:   newCircuitBreaker(cfg.BreakerFailures, cfg.BreakerReset),
		guard:     newURLGuard(cfg.BlockedURLs),
	}, nil
}

func (b *PlaywrightBrowser) SetRedactor(r Redactor) {
	b.redactor = r
}

func (b *PlaywrightBrowser) SetRecorder(r Recorder) {
	b.recorder = r
}

// getPage возвращает страницу, с которой сейчас работаем. Если в контексте
// открылась новая вкладка, переключаемся на самую последнюю.
func (b *PlaywrightBrowser) getPage() (playwright.Page, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.page == nil {
		return nil, ErrNotLaunched
	}

	if b.context != nil {
		if pages := b.context.Pages(); len(pages) > 0 {
			if latest := pages[len(pages)-1]; latest != b.page {
				b.attachLocked(latest)
			}
		}
	}

	if b.page.IsClosed() {
		return nil, fmt.Errorf("%w: страница закрыта", ErrNotLaunched)
	}
	return b.page, nil
}

func (b *PlaywrightBrowser) setPage(page playwright.Page) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.attachLocked(page)
}

// attachLocked делает page текущей: подписывается на консоль и переходы,
// сбрасывает набор элементов прошлой страницы.
func (b *PlaywrightBrowser) attachLocked(page playwright.Page) {
	b.page = page
	b.records.invalidate()
	if _, ok := b.attached[page]; ok {
		return
	}
	if b.attached == nil {
		b.attached = make(map[playwright.Page]struct{})
	}
	b.attached[page] = struct{}{}
	page.SetDefaultTimeout(float64(b.cfg.Timeout.Milliseconds()))

	page.OnConsole(func(msg playwright.ConsoleMessage) {
		b.console.add(ConsoleMessage{Type: msg.Type(), Text: msg.Text(), At: time.Now()})
	})
	page.OnFrameNavigated(func(frame playwright.Frame) {
		if frame == page.MainFrame() {
			b.records.invalidate()
		}
	})
}

func (b *PlaywrightBrowser) getBrowserArgs() []string {
	return []string{
		"--no-sandbox",
	}
}

func (b *PlaywrightBrowser) getEnvMap() map[string]string {
	if b.cfg.Display != "" {
		return map[string]string{
			"DISPLAY": b.cfg.Display,
		}
	}
	return nil
}

func (b *PlaywrightBrowser) launchPersistent(pw *playwright.Playwright) error {
	opts := playwright.BrowserTypeLaunchPersistentContextOptions{
		Headless: playwright.Bool(b.cfg.Headless),
		Args:     b.getBrowserArgs(),
	}

	if env := b.getEnvMap(); env != nil {
		opts.Env = env
	}

	browserContext, err := pw.Chromium.LaunchPersistentContext(b.cfg.UserDataDir, opts)
	if err != nil {
		return err
	}

	b.mu.Lock()
	b.context = browserContext
	b.mu.Unlock()

	pages := browserContext.Pages()
	var page playwright.Page
	if len(pages) == 0 {
		page, err = browserContext.NewPage()
		if err != nil {
			return err
		}
	} else {
		page = pages[0]
	}

	b.setPage(page)
	return nil
}

func (b *PlaywrightBrowser) launchStandard(pw *playwright.Playwright) error {
	opts := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(b.cfg.Headless),
		Args:     b.getBrowserArgs(),
	}

	if env := b.getEnvMap(); env != nil {
		opts.Env = env
	}

	browser, err := pw.Chromium.Launch(opts)
	if err != nil {
		return err
	}

	browserContext, err := browser.NewContext()
	if err != nil {
		return err
	}

	b.mu.Lock()
	b.browser = browser
	b.context = browserContext
	b.mu.Unlock()

	page, err := browserContext.NewPage()
	if err != nil {
		return err
	}

	b.setPage(page)
	return nil
}

func (b *PlaywrightBrowser) Launch(ctx context.Context) error {
	if b.cfg.BrowsersPath != "" {
		if err := os.Setenv("PLAYWRIGHT_BROWSERS_PATH", b.cfg.BrowsersPath); err != nil {
			return err
		}
	}

	if b.cfg.CDPURL != "" {
		return b.connectWithRetry(ctx)
	}

	pw, err := playwright.Run()
	if err != nil {
		return err
	}
	b.pw = pw

	if b.cfg.UserDataDir != "" {
		return b.launchPersistent(pw)
	}

	return b.launchStandard(pw)
}

// Restart закрывает браузер, поднимает его заново и открывает url.
func (b *PlaywrightBrowser) Restart(ctx context.Context, url string) error {
	if err := b.Close(); err != nil {
		b.log.Warn("Ошибка закрытия браузера перед перезапуском", zap.Error(err))
	}
	if err := b.Launch(ctx); err != nil {
		return fmt.Errorf("ошибка перезапуска браузера: %w", err)
	}
	if url == "" {
		return nil
	}
	return b.Navigate(ctx, url)
}

func (b *PlaywrightBrowser) Navigate(ctx context.Context, url string) error {
	if err := b.guard.check(url); err != nil {
		return err
	}

	page, err := b.getPage()
	if err != nil {
		return err
	}

	opts := WaitNavigationOptions{
		Timeout:   b.cfg.NavigateTimeout,
		WaitUntil: "load",
	}

	navCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	errChan := make(chan error, 1)
	go func() {
		_, err := page.Goto(url, playwright.PageGotoOptions{
			WaitUntil: waitUntilState(opts.WaitUntil),
			Timeout:   playwright.Float(float64(opts.Timeout.Milliseconds())),
		})
		errChan <- err
	}()

	select {
	case <-navCtx.Done():
		return fmt.Errorf("navigate timeout after %v", opts.Timeout)
	case err := <-errChan:
		if err != nil {
			return err
		}
	}

	b.records.invalidate()
	b.breaker.reset()
	b.log.Info("Переход выполнен", zap.String("url", page.URL()))

	if !b.WaitForPageLoad(ctx, b.cfg.LoadTimeout) {
		b.log.Warn("Страница не догрузилась за отведенное время", zap.String("url", page.URL()))
	}
	return nil
}

func (b *PlaywrightBrowser) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.records.invalidate()
	b.breaker.reset()
	page, browserContext, browser, pw := b.page, b.context, b.browser, b.pw
	b.page, b.context, b.browser, b.pw = nil, nil, nil, nil
	b.attached = nil

	if page != nil && !page.IsClosed() && b.cfg.CDPURL != "" {
		// во внешнем браузере закрываем только свою вкладку
		if err := page.Close(); err != nil {
			return err
		}
	}
	if browserContext != nil && b.cfg.CDPURL == "" {
		if err := browserContext.Close(); err != nil {
			return err
		}
	}
	if browser != nil {
		if err := browser.Close(); err != nil {
			return err
		}
	}
	if pw != nil {
		return pw.Stop()
	}
	return nil
}
