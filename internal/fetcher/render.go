package fetcher

import (
	"context"
	"fmt"

	"github.com/chromedp/chromedp"
)

// browser returns the shared headless browser context, starting it on first use.
// One browser serves all renders; each render opens its own tab.
func (f *Fetcher) browser() context.Context {
	f.browserOnce.Do(func() {
		opts := append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.DisableGPU,
			chromedp.NoSandbox,
			chromedp.Headless,
		)

		allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)

		f.browserCtx, f.browserCancel = chromedp.NewContext(allocCtx)
		f.allocCancel = allocCancel
	})

	return f.browserCtx
}

// Close releases the shared headless browser. Safe to call when no render
// ever ran.
func (f *Fetcher) Close() {
	if f.browserCancel != nil {
		f.browserCancel()
	}

	if f.allocCancel != nil {
		f.allocCancel()
	}
}

// render loads the page in a fresh browser tab and returns the DOM after
// scripts have run
func (f *Fetcher) render(pageURL string) (string, error) {
	tabCtx, cancel := chromedp.NewContext(f.browser())
	defer cancel()

	timeoutCtx, timeoutCancel := context.WithTimeout(tabCtx, f.renderTimeout)
	defer timeoutCancel()

	var html string

	err := chromedp.Run(timeoutCtx,
		chromedp.Navigate(pageURL),
		chromedp.WaitReady("body"),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}

	return html, nil
}
