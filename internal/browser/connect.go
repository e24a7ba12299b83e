package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"
)

// blankPages - адреса вкладки, которую браузер открывает сам при старте.
var blankPages = map[string]bool{
	"":                       true,
	"about:blank":            true,
	"chrome://newtab/":       true,
	"chrome://new-tab-page/": true,
}

// connectWithRetry подключается к уже запущенному Chromium по CDP.
// Между попытками пауза растет вдвое, но не больше 10 секунд.
func (b *PlaywrightBrowser) connectWithRetry(ctx context.Context) error {
	var lastErr error
	for attempt := 0; attempt < b.cfg.ConnectRetries; attempt++ {
		if attempt > 0 {
			delay := backoff(attempt-1, time.Second, 10*time.Second)
			b.log.Warn("Не удалось подключиться к браузеру, повтор",
				zap.Int("attempt", attempt),
				zap.Int("max", b.cfg.ConnectRetries),
				zap.Duration("delay", delay),
				zap.Error(lastErr),
			)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		lastErr = b.connect()
		if lastErr == nil {
			return nil
		}
		b.cleanupFailedConnect()
	}

	b.log.Error("Подключение к браузеру не удалось",
		zap.String("cdp_url", b.cfg.CDPURL),
		zap.Int("attempts", b.cfg.ConnectRetries),
		zap.Error(lastErr),
	)
	return fmt.Errorf("подключение по CDP %s после %d попыток: %w", b.cfg.CDPURL, b.cfg.ConnectRetries, lastErr)
}

func (b *PlaywrightBrowser) connect() error {
	pw, err := playwright.Run()
	if err != nil {
		return err
	}
	b.pw = pw

	browser, err := pw.Chromium.ConnectOverCDP(b.cfg.CDPURL)
	if err != nil {
		return err
	}

	b.mu.Lock()
	b.browser = browser
	b.mu.Unlock()

	var browserContext playwright.BrowserContext
	if contexts := browser.Contexts(); len(contexts) > 0 {
		browserContext = contexts[0]
	} else {
		browserContext, err = browser.NewContext()
		if err != nil {
			return err
		}
	}

	b.mu.Lock()
	b.context = browserContext
	b.mu.Unlock()

	page, err := pickPage(browserContext)
	if err != nil {
		return err
	}
	b.setPage(page)
	return nil
}

// pickPage берет единственную пустую стартовую вкладку, иначе открывает новую.
func pickPage(browserContext playwright.BrowserContext) (playwright.Page, error) {
	if pages := browserContext.Pages(); len(pages) == 1 && blankPages[pages[0].URL()] {
		return pages[0], nil
	}
	return browserContext.NewPage()
}

func (b *PlaywrightBrowser) cleanupFailedConnect() {
	b.mu.Lock()
	browser, pw := b.browser, b.pw
	b.page, b.context, b.browser, b.pw = nil, nil, nil, nil
	b.mu.Unlock()

	if browser != nil {
		_ = browser.Close()
	}
	if pw != nil {
		_ = pw.Stop()
	}
}
