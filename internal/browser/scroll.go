package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"
)

const scrollPause = 300 * time.Millisecond

// ScrollToElement прокручивает страницу к элементу, если он вне экрана.
func (b *PlaywrightBrowser) ScrollToElement(ctx context.Context, selector string) error {
	page, err := b.getPage()
	if err != nil {
		return err
	}

	element, err := page.QuerySelector(selector)
	if err != nil {
		return fmt.Errorf("элемент не найден: %w", err)
	}
	if element == nil {
		return fmt.Errorf("элемент с селектором %s не найден", selector)
	}

	inView, err := isElementInViewport(element)
	if err == nil && inView {
		return nil
	}

	err = element.ScrollIntoViewIfNeeded(playwright.ElementHandleScrollIntoViewIfNeededOptions{
		Timeout: playwright.Float(float64(b.cfg.ActionTimeout.Milliseconds())),
	})
	if err != nil {
		// запасной путь для элементов, которые playwright считает нестабильными
		_, err = element.Evaluate(`el => el.scrollIntoView({ behavior: 'auto', block: 'center', inline: 'center' })`)
		if err != nil {
			return fmt.Errorf("ошибка прокрутки к элементу: %w", err)
		}
		time.Sleep(200 * time.Millisecond)
	}

	return nil
}

func isElementInViewport(element playwright.ElementHandle) (bool, error) {
	result, err := element.Evaluate(`el => {
		const rect = el.getBoundingClientRect();
		const h = window.innerHeight || document.documentElement.clientHeight;
		const w = window.innerWidth || document.documentElement.clientWidth;
		return rect.top >= 0 && rect.left >= 0 && rect.bottom <= h && rect.right <= w;
	}`)
	if err != nil {
		return false, err
	}

	inView, _ := result.(bool)
	return inView, nil
}

// ScrollUp прокручивает на один экран вверх или в самое начало страницы.
func (b *PlaywrightBrowser) ScrollUp(ctx context.Context, toTop bool) error {
	script := `() => window.scrollBy(0, -window.innerHeight)`
	if toTop {
		script = `() => window.scrollTo(0, 0)`
	}
	return b.scroll(ctx, script)
}

// ScrollDown прокручивает на один экран вниз или в самый конец страницы.
func (b *PlaywrightBrowser) ScrollDown(ctx context.Context, toBottom bool) error {
	script := `() => window.scrollBy(0, window.innerHeight)`
	if toBottom {
		script = `() => window.scrollTo(0, document.documentElement.scrollHeight)`
	}
	return b.scroll(ctx, script)
}

func (b *PlaywrightBrowser) scroll(ctx context.Context, script string) error {
	page, err := b.getPage()
	if err != nil {
		return err
	}

	if _, err := page.Evaluate(script); err != nil {
		return fmt.Errorf("ошибка прокрутки: %w", err)
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(scrollPause):
	}
	return nil
}
