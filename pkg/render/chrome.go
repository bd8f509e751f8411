package render

import (
	"context"
	"encoding/base64"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/matzehuels/depviz/pkg/errors"
)

// DefaultChromeTimeout bounds a single Chrome screenshot.
const DefaultChromeTimeout = 30 * time.Second

// Chrome converts SVG to PNG by screenshotting it in headless Chrome.
// It only produces PNG (and JPEG through [Export]).
type Chrome struct {
	// Scale is the device scale factor. Zero means 2.
	Scale float64
	// Timeout bounds the whole browser session. Zero means DefaultChromeTimeout.
	Timeout time.Duration
	// ExecPath overrides the Chrome binary lookup.
	ExecPath string
}

func (Chrome) Name() string { return "chrome" }

// Convert implements [Converter].
func (c Chrome) Convert(ctx context.Context, svg []byte, format Format) ([]byte, error) {
	if format != FormatPNG {
		return nil, errors.New(errors.ErrCodeUnsupported, "chrome converter cannot produce %s", format)
	}
	return c.screenshot(ctx, svg)
}

func (c Chrome) screenshot(ctx context.Context, svg []byte) ([]byte, error) {
	timeout := c.Timeout
	if timeout == 0 {
		timeout = DefaultChromeTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:], chromedp.Headless, chromedp.DisableGPU)
	if c.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(c.ExecPath))
	}
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	scale := c.Scale
	if scale <= 0 {
		scale = 2
	}

	dataURI := "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString(svg)
	var buf []byte
	err := chromedp.Run(browserCtx,
		chromedp.EmulateViewport(1920, 1080, chromedp.EmulateScale(scale)),
		chromedp.Navigate(dataURI),
		chromedp.WaitVisible(`svg`, chromedp.ByQuery),
		chromedp.Screenshot(`svg`, &buf, chromedp.ByQuery),
	)
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.Wrap(errors.ErrCodeTimeout, err, "chrome screenshot")
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "chrome screenshot")
	}
	if len(buf) == 0 {
		return nil, errors.New(errors.ErrCodeInternal, "chrome screenshot is empty")
	}
	return buf, nil
}
