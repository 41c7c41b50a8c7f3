// internal/browser/session.go
package browser

import (
	"context"
	"fmt"
	"time"

	cdpdom "github.com/chromedp/cdproto/dom"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/xkilldash9x/descry-cli/internal/config"
)

const defaultNavigationTimeout = 60 * time.Second

// Snapshot is a serialized photo of the document at capture time. The raw
// HTML is immutable once captured; everything downstream (reference
// resolution, descriptor computation) reads from it and never from the live
// page again.
type Snapshot struct {
	PageURL    string
	HTML       string
	CapturedAt time.Time
}

// Session owns a single headless browser tab. It is the only component in the
// pipeline that performs real I/O.
type Session struct {
	logger      *zap.Logger
	cfg         config.BrowserConfig
	ctx         context.Context
	tabCancel   context.CancelFunc
	allocCancel context.CancelFunc
}

// NewSession launches a browser and opens a tab according to cfg. The tab
// context derives from ctx, so cancelling ctx tears the browser down.
func NewSession(ctx context.Context, cfg config.BrowserConfig, logger *zap.Logger) (*Session, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if cfg.IgnoreTLSErrors {
		opts = append(opts, chromedp.Flag("ignore-certificate-errors", true))
	}
	if cfg.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(cfg.UserAgent))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)

	return &Session{
		logger:      logger.Named("browser"),
		cfg:         cfg,
		ctx:         tabCtx,
		tabCancel:   tabCancel,
		allocCancel: allocCancel,
	}, nil
}

// Navigate loads the target URL, waits for the document body, then observes
// the configured post-load settle period.
func (s *Session) Navigate(ctx context.Context, url string) error {
	timeout := s.cfg.NavigationTimeout
	if timeout <= 0 {
		timeout = defaultNavigationTimeout
	}
	runCtx, cancel := context.WithTimeout(s.ctx, timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	s.logger.Info("Navigating", zap.String("url", url))
	if err := chromedp.Run(runCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	); err != nil {
		return fmt.Errorf("navigation to %s failed: %w", url, err)
	}

	if s.cfg.PostLoadWait > 0 {
		if err := chromedp.Run(runCtx, chromedp.Sleep(s.cfg.PostLoadWait)); err != nil {
			return fmt.Errorf("post-load wait interrupted: %w", err)
		}
	}
	return nil
}

// CaptureSnapshot serializes the current document and records its final URL.
func (s *Session) CaptureSnapshot(ctx context.Context) (*Snapshot, error) {
	timeout := s.cfg.NavigationTimeout
	if timeout <= 0 {
		timeout = defaultNavigationTimeout
	}
	runCtx, cancel := context.WithTimeout(s.ctx, timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	var outerHTML, location string
	err := chromedp.Run(runCtx,
		chromedp.Location(&location),
		chromedp.ActionFunc(func(ctx context.Context) error {
			root, err := cdpdom.GetDocument().Do(ctx)
			if err != nil {
				return err
			}
			outerHTML, err = cdpdom.GetOuterHTML().WithNodeID(root.NodeID).Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("dom snapshot failed: %w", err)
	}

	s.logger.Debug("Captured DOM snapshot",
		zap.String("url", location),
		zap.Int("bytes", len(outerHTML)),
	)
	return &Snapshot{
		PageURL:    location,
		HTML:       outerHTML,
		CapturedAt: time.Now(),
	}, nil
}

// Close tears down the tab and the browser process.
func (s *Session) Close() {
	s.tabCancel()
	s.allocCancel()
}
