package browser

import (
	"context"
	"time"
)

// settleTimeout - сколько ждем сетевой тишины после действия, прежде чем вернуть управление.
const settleTimeout = 2 * time.Second

// WaitForNavigation ждет нужного состояния загрузки после действия, которое могло
// увести страницу.
func (b *PlaywrightBrowser) WaitForNavigation(ctx context.Context, options ...WaitNavigationOption) error {
	opts := WaitNavigationOptions{
		Timeout:   b.cfg.Timeout,
		WaitUntil: "load",
	}

	for _, opt := range options {
		opt(&opts)
	}

	return b.WaitForLoadState(ctx, opts.WaitUntil, opts.Timeout)
}

// settle дает странице отработать XHR после клика или ввода. Долгие фоновые
// запросы не считаются ошибкой действия.
func (b *PlaywrightBrowser) settle(ctx context.Context) {
	_ = b.WaitForNavigation(ctx,
		WithNavigationTimeout(settleTimeout),
		WithNavigationWaitUntil("networkidle"),
	)
}

type WaitNavigationOptions struct {
	Timeout   time.Duration
	WaitUntil string
}

type WaitNavigationOption func(*WaitNavigationOptions)

func WithNavigationTimeout(timeout time.Duration) WaitNavigationOption {
	return func(opts *WaitNavigationOptions) {
		opts.Timeout = timeout
	}
}

func WithNavigationWaitUntil(waitUntil string) WaitNavigationOption {
	return func(opts *WaitNavigationOptions) {
		opts.WaitUntil = waitUntil
	}
}
