// Package rod provides a legalfeed.Transport backed by headless Chrome for
// source pages that only render, or only pass bot checks, in a real browser.
package rod

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fwojciec/legalfeed"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultFetchTimeout bounds one page load, matching the HTTP transport.
const DefaultFetchTimeout = 30 * time.Second

// DefaultMaxPages is the number of pages served before the browser is
// relaunched. Chrome's memory baseline creeps up over long sessions.
const DefaultMaxPages = 75

// Ensure Transport implements legalfeed.Transport at compile time.
var _ legalfeed.Transport = (*Transport)(nil)

// Transport retrieves rendered HTML with Chrome browser automation.
// Transport is safe for concurrent use by multiple goroutines.
type Transport struct {
	timeout  time.Duration
	maxPages int64

	mu        sync.Mutex
	browser   *rod.Browser
	launcher  *launcher.Launcher
	pageCount atomic.Int64
	closed    atomic.Bool
}

// Option configures a Transport.
type Option func(*Transport)

// WithFetchTimeout sets the page load timeout.
func WithFetchTimeout(d time.Duration) Option {
	return func(t *Transport) {
		t.timeout = d
	}
}

// WithMaxPages sets how many pages are served before the browser is
// relaunched.
func WithMaxPages(n int64) Option {
	return func(t *Transport) {
		t.maxPages = n
	}
}

// NewTransport launches a headless Chrome browser.
// Close must be called when the Transport is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewTransport(opts ...Option) (*Transport, error) {
	t := &Transport{
		timeout:  DefaultFetchTimeout,
		maxPages: DefaultMaxPages,
	}
	for _, opt := range opts {
		opt(t)
	}

	browser, l, err := launch()
	if err != nil {
		return nil, err
	}
	t.browser, t.launcher = browser, l
	return t, nil
}

func launch() (*rod.Browser, *launcher.Launcher, error) {
	l := launcher.New().
		Set("disable-dev-shm-usage").
		Set("disable-background-timer-throttling").
		Leakless(true).
		Headless(true)

	u, err := l.Launch()
	if err != nil {
		return nil, nil, fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, nil, fmt.Errorf("connecting to browser: %w", err)
	}
	return browser, l, nil
}

// current returns the live browser, relaunching it once maxPages pages have
// been served. If the relaunch fails the old browser keeps serving.
func (t *Transport) current() *rod.Browser {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.maxPages > 0 && t.pageCount.Load() >= t.maxPages {
		if browser, l, err := launch(); err == nil {
			_ = t.browser.Close()
			t.launcher.Kill()
			t.browser, t.launcher = browser, l
			t.pageCount.Store(0)
		}
	}
	return t.browser
}

// Get navigates to url and returns the rendered HTML. A main-document
// response of 400 or above is returned as *legalfeed.StatusError.
func (t *Transport) Get(ctx context.Context, url string) ([]byte, error) {
	if t.closed.Load() {
		return nil, legalfeed.Errorf(legalfeed.EINVALID, "browser transport is closed")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	page, err := t.current().Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, err
	}
	defer page.Close()
	t.pageCount.Add(1)

	page = page.Context(ctx)

	var status atomic.Int64
	wait := page.EachEvent(func(e *proto.NetworkResponseReceived) bool {
		if e.Type == proto.NetworkResourceTypeDocument {
			status.Store(int64(e.Response.Status))
			return true
		}
		return false
	})
	go wait()

	if err := page.Navigate(url); err != nil {
		return nil, err
	}
	if err := page.WaitLoad(); err != nil {
		return nil, err
	}

	if code := int(status.Load()); code >= 400 {
		return nil, &legalfeed.StatusError{StatusCode: code, URL: url}
	}

	html, err := page.HTML()
	if err != nil {
		return nil, err
	}
	return []byte(html), nil
}

// LauncherPID returns the process ID of the browser launcher.
// This method exists for testing purposes to verify proper cleanup.
func (t *Transport) LauncherPID() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.launcher == nil {
		return 0
	}
	return t.launcher.PID()
}

// Close releases browser resources. Close is safe to call multiple times.
func (t *Transport) Close() error {
	if !t.closed.CompareAndSwap(false, true) {
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	var err error
	if t.browser != nil {
		err = t.browser.Close()
		t.browser = nil
	}
	if t.launcher != nil {
		t.launcher.Kill()
		t.launcher = nil
	}
	return err
}
