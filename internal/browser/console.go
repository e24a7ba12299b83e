package browser

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// consoleBuffer держит последние limit сообщений консоли страницы.
type consoleBuffer struct {
	mu    sync.Mutex
	limit int
	lines []ConsoleMessage
}

func newConsoleBuffer(limit int) *consoleBuffer {
	return &consoleBuffer{limit: limit}
}

func (c *consoleBuffer) add(msg ConsoleMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = append(c.lines, msg)
	if over := len(c.lines) - c.limit; over > 0 {
		c.lines = append(c.lines[:0:0], c.lines[over:]...)
	}
}

// tail возвращает последние n сообщений (все, если n <= 0).
func (c *consoleBuffer) tail(n int) []ConsoleMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	start := 0
	if n > 0 && n < len(c.lines) {
		start = len(c.lines) - n
	}
	out := make([]ConsoleMessage, len(c.lines)-start)
	copy(out, c.lines[start:])
	return out
}

// ConsoleExec выполняет произвольный JavaScript в контексте страницы и
// возвращает результат в том виде, в каком его сериализовал playwright.
func (b *PlaywrightBrowser) ConsoleExec(ctx context.Context, script string) (interface{}, error) {
	page, err := b.getPage()
	if err != nil {
		return nil, err
	}

	result, err := page.Evaluate(script)
	if err != nil {
		return nil, fmt.Errorf("ошибка выполнения скрипта: %w", err)
	}
	b.log.Debug("Скрипт выполнен в консоли", zap.Int("length", len(script)))
	return result, nil
}

func (b *PlaywrightBrowser) ConsoleView(ctx context.Context, maxLines int) ([]ConsoleMessage, error) {
	if _, err := b.getPage(); err != nil {
		return nil, err
	}
	return b.console.tail(maxLines), nil
}
