package browser

import (
	"context"
	"fmt"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"
)

// target находит селектор элемента по индексу последнего прохода и готовит
// элемент к действию: ждет появления и прокручивает к нему.
func (b *PlaywrightBrowser) target(ctx context.Context, index int) (playwright.Page, string, error) {
	page, err := b.getPage()
	if err != nil {
		return nil, "", err
	}

	record, err := b.records.resolve(index)
	if err != nil {
		return nil, "", err
	}

	if err := b.WaitForSelector(ctx, record.Selector); err != nil {
		return nil, "", fmt.Errorf("элемент %d (%s) не найден: %w", index, record.Selector, err)
	}
	if err := b.ScrollToElement(ctx, record.Selector); err != nil {
		return nil, "", fmt.Errorf("ошибка прокрутки к элементу %d: %w", index, err)
	}
	return page, record.Selector, nil
}

func (b *PlaywrightBrowser) actionTimeout() *float64 {
	return playwright.Float(float64(b.cfg.ActionTimeout.Milliseconds()))
}

func (b *PlaywrightBrowser) ClickIndex(ctx context.Context, index int) error {
	page, selector, err := b.target(ctx, index)
	if err != nil {
		return err
	}

	if err := page.Click(selector, playwright.PageClickOptions{Timeout: b.actionTimeout()}); err != nil {
		return fmt.Errorf("ошибка клика по элементу %d: %w", index, err)
	}
	b.log.Info("Клик по элементу", zap.Int("index", index), zap.String("selector", selector))

	b.settle(ctx)
	return nil
}

func (b *PlaywrightBrowser) ClickAt(ctx context.Context, x, y float64) error {
	page, err := b.getPage()
	if err != nil {
		return err
	}

	if err := page.Mouse().Click(x, y); err != nil {
		return fmt.Errorf("ошибка клика по координатам (%.0f, %.0f): %w", x, y, err)
	}
	b.log.Info("Клик по координатам", zap.Float64("x", x), zap.Float64("y", y))

	b.settle(ctx)
	return nil
}

// InputIndex заменяет текст поля и при необходимости нажимает Enter.
func (b *PlaywrightBrowser) InputIndex(ctx context.Context, index int, text string, pressEnter bool) error {
	page, selector, err := b.target(ctx, index)
	if err != nil {
		return err
	}

	if err := page.Fill(selector, text, playwright.PageFillOptions{Timeout: b.actionTimeout()}); err != nil {
		return fmt.Errorf("ошибка ввода в элемент %d: %w", index, err)
	}
	if pressEnter {
		if err := page.Press(selector, "Enter", playwright.PagePressOptions{Timeout: b.actionTimeout()}); err != nil {
			return fmt.Errorf("ошибка нажатия Enter в элементе %d: %w", index, err)
		}
		b.settle(ctx)
	}
	b.log.Info("Ввод в элемент", zap.Int("index", index), zap.Int("length", len(text)), zap.Bool("enter", pressEnter))
	return nil
}

// InputAt кликает в точку, очищает сфокусированное поле и печатает текст.
func (b *PlaywrightBrowser) InputAt(ctx context.Context, x, y float64, text string, pressEnter bool) error {
	page, err := b.getPage()
	if err != nil {
		return err
	}

	if err := page.Mouse().Click(x, y); err != nil {
		return fmt.Errorf("ошибка клика по координатам (%.0f, %.0f): %w", x, y, err)
	}
	if err := page.Keyboard().Press("ControlOrMeta+A"); err != nil {
		return fmt.Errorf("ошибка выделения текста: %w", err)
	}
	if err := page.Keyboard().Type(text); err != nil {
		return fmt.Errorf("ошибка ввода текста: %w", err)
	}
	if pressEnter {
		if err := page.Keyboard().Press("Enter"); err != nil {
			return fmt.Errorf("ошибка нажатия Enter: %w", err)
		}
		b.settle(ctx)
	}
	return nil
}

func (b *PlaywrightBrowser) MoveMouse(ctx context.Context, x, y float64) error {
	page, err := b.getPage()
	if err != nil {
		return err
	}
	if err := page.Mouse().Move(x, y); err != nil {
		return fmt.Errorf("ошибка перемещения мыши: %w", err)
	}
	return nil
}

// PressKey нажимает клавишу или сочетание (например, Control+Enter).
func (b *PlaywrightBrowser) PressKey(ctx context.Context, key string) error {
	page, err := b.getPage()
	if err != nil {
		return err
	}
	if err := page.Keyboard().Press(key); err != nil {
		return fmt.Errorf("ошибка нажатия %s: %w", key, err)
	}
	b.settle(ctx)
	return nil
}

// SelectOption выбирает в выпадающем списке option-й вариант (с нуля).
func (b *PlaywrightBrowser) SelectOption(ctx context.Context, index, option int) error {
	if option < 0 {
		return fmt.Errorf("номер варианта не может быть отрицательным: %d", option)
	}

	page, selector, err := b.target(ctx, index)
	if err != nil {
		return err
	}

	_, err = page.SelectOption(selector, playwright.SelectOptionValues{Indexes: &[]int{option}},
		playwright.PageSelectOptionOptions{Timeout: b.actionTimeout()})
	if err != nil {
		return fmt.Errorf("ошибка выбора варианта %d в элементе %d: %w", option, index, err)
	}
	b.log.Info("Выбран вариант", zap.Int("index", index), zap.Int("option", option))
	return nil
}

func (b *PlaywrightBrowser) Screenshot(ctx context.Context, fullPage bool) ([]byte, error) {
	page, err := b.getPage()
	if err != nil {
		return nil, err
	}

	shot, err := page.Screenshot(playwright.PageScreenshotOptions{
		FullPage: playwright.Bool(fullPage),
		Type:     playwright.ScreenshotTypePng,
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка снимка экрана: %w", err)
	}
	return shot, nil
}
