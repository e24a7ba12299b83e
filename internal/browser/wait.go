package browser

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
)

const readyStatePoll = 500 * time.Millisecond

// WaitForSelector ждет, пока элемент появится в DOM.
func (b *PlaywrightBrowser) WaitForSelector(ctx context.Context, selector string) error {
	page, err := b.getPage()
	if err != nil {
		return err
	}

	if strings.TrimSpace(selector) == "" {
		return fmt.Errorf("селектор не может быть пустым")
	}

	opts := playwright.PageWaitForSelectorOptions{
		State:   playwright.WaitForSelectorStateAttached,
		Timeout: playwright.Float(float64(b.cfg.ActionTimeout.Milliseconds())),
	}

	_, err = page.WaitForSelector(selector, opts)
	return err
}

func loadState(state string) *playwright.LoadState {
	switch strings.ToLower(state) {
	case "domcontentloaded":
		return playwright.LoadStateDomcontentloaded
	case "networkidle":
		return playwright.LoadStateNetworkidle
	default:
		return playwright.LoadStateLoad
	}
}

func waitUntilState(state string) *playwright.WaitUntilState {
	switch strings.ToLower(state) {
	case "domcontentloaded":
		return playwright.WaitUntilStateDomcontentloaded
	case "networkidle":
		return playwright.WaitUntilStateNetworkidle
	case "commit":
		return playwright.WaitUntilStateCommit
	default:
		return playwright.WaitUntilStateLoad
	}
}

func (b *PlaywrightBrowser) WaitForLoadState(ctx context.Context, state string, timeout time.Duration) error {
	page, err := b.getPage()
	if err != nil {
		return err
	}
	if timeout == 0 {
		timeout = b.cfg.Timeout
	}

	opts := playwright.PageWaitForLoadStateOptions{
		State:   loadState(state),
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	}

	return page.WaitForLoadState(opts)
}

// WaitForPageLoad опрашивает document.readyState, пока он не станет complete
// или не выйдет timeout. Ошибки выполнения скрипта (страница еще переходит)
// считаются "не готово".
func (b *PlaywrightBrowser) WaitForPageLoad(ctx context.Context, timeout time.Duration) bool {
	page, err := b.getPage()
	if err != nil {
		return false
	}

	deadline := time.Now().Add(timeout)
	for {
		result, err := page.Evaluate(`() => document.readyState === 'complete'`)
		if err == nil {
			if done, ok := result.(bool); ok && done {
				return true
			}
		}
		if time.Now().After(deadline) {
			return false
		}

		select {
		case <-ctx.Done():
			return false
		case <-time.After(readyStatePoll):
		}
	}
}
