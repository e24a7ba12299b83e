package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	"pagePerception/internal/extractor"
	"pagePerception/internal/perception"
)

const perceiveRetryDelay = 300 * time.Millisecond

type perceiveMode struct {
	kind     string
	content  bool
	elements bool
}

var (
	modeView        = perceiveMode{kind: KindView, content: true, elements: true}
	modeVisible     = perceiveMode{kind: KindVisible, content: true}
	modeInteractive = perceiveMode{kind: KindInteractive, elements: true}
)

// View возвращает видимый контент и интерактивные элементы, снятые с одного снимка.
func (b *PlaywrightBrowser) View(ctx context.Context) (*PageView, error) {
	return b.perceive(ctx, modeView)
}

func (b *PlaywrightBrowser) VisibleContent(ctx context.Context) (*PageView, error) {
	return b.perceive(ctx, modeVisible)
}

// InteractiveElements размечает страницу заново; индексы прошлых вызовов
// после этого недействительны.
func (b *PlaywrightBrowser) InteractiveElements(ctx context.Context) (*PageView, error) {
	return b.perceive(ctx, modeInteractive)
}

func (b *PlaywrightBrowser) perceive(ctx context.Context, mode perceiveMode) (*PageView, error) {
	page, err := b.getPage()
	if err != nil {
		return nil, err
	}

	if !b.WaitForPageLoad(ctx, b.cfg.LoadTimeout) {
		b.log.Debug("Снимаем страницу до завершения загрузки", zap.String("url", page.URL()))
	}

	b.perceiveMu.Lock()
	defer b.perceiveMu.Unlock()

	if mode.elements {
		// старые метки снимаются первым же проходом
		b.records.invalidate()
	}

	var view *PageView
	err = b.breaker.call(func() error {
		return retryAction(ctx, mode.kind, b.cfg.PerceiveRetries, perceiveRetryDelay, func() error {
			v, err := b.perceiveOnce(page, mode)
			if err != nil {
				b.log.Debug("Проход восприятия не удался", zap.String("kind", mode.kind), zap.Error(err))
				return err
			}
			view = v
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	if mode.elements {
		b.records.replace(view.URL, view.Elements)
	}
	b.redact(view)
	b.log.Info("Страница воспринята",
		zap.String("kind", mode.kind),
		zap.String("url", view.URL),
		zap.Int("elements", len(view.Elements)),
		zap.Int("content_bytes", len(view.Content)),
	)

	if b.recorder != nil {
		if err := b.recorder.Record(ctx, mode.kind, view); err != nil {
			b.log.Warn("Не удалось сохранить проход в историю", zap.Error(err))
		}
	}
	return view, nil
}

// perceiveOnce - один снимок: probe, сборщики на снимке, перенос меток на страницу.
func (b *PlaywrightBrowser) perceiveOnce(page playwright.Page, mode perceiveMode) (*PageView, error) {
	snap, err := extractor.Probe(page)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := extractor.Release(page); err != nil {
			b.log.Debug("Реестр элементов не очищен", zap.Error(err))
		}
	}()

	view := &PageView{URL: snap.URL, Title: snap.Title}

	if mode.content {
		content, err := b.collector.VisibleContent(snap.Document)
		if err != nil {
			return nil, fmt.Errorf("ошибка сборки видимого контента: %w", err)
		}
		view.Content = content
	}

	if mode.elements {
		records := b.collector.InteractiveElements(snap.Document)
		missing, err := extractor.Apply(page, snap.Document.Journal())
		if err != nil {
			return nil, err
		}
		if len(missing) > 0 {
			return nil, fmt.Errorf("%w: не найдены элементы %v", ErrStaleTags, missing)
		}
		view.Elements = records
		if view.Elements == nil {
			view.Elements = []perception.ElementRecord{}
		}
	}

	return view, nil
}

// redact прогоняет подписи и разметку через Redactor. Селекторы не трогаем:
// по ним выполняются действия.
func (b *PlaywrightBrowser) redact(view *PageView) {
	if b.redactor == nil {
		return
	}
	view.Content = b.redactor.Redact(view.Content)
	for i := range view.Elements {
		view.Elements[i].Text = b.redactor.Redact(view.Elements[i].Text)
	}
}
