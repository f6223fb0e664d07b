// Package playwrightengine implements the browser capability surface on top
// of Playwright-driven Chromium.
package playwrightengine

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/entrhq/actionspace/pkg/browser"
	"github.com/playwright-community/playwright-go"
)

const (
	DefaultViewportWidth  = 1280
	DefaultViewportHeight = 720
)

// Options configures the engine at startup.
type Options struct {
	Headless bool

	// SkipInstall assumes the Playwright driver and browsers are already
	// present instead of installing them on Start.
	SkipInstall bool

	ViewportWidth  int
	ViewportHeight int
}

// Engine owns the Playwright driver process and one launched Chromium
// instance. Browsing contexts created from it are isolated from each other;
// each carries its own cookies, storage and tabs.
type Engine struct {
	mu      sync.Mutex
	opts    Options
	pw      *playwright.Playwright
	chrome  playwright.Browser
	started bool
}

// New creates an engine. Call Start before creating contexts.
func New(opts Options) *Engine {
	if opts.ViewportWidth == 0 {
		opts.ViewportWidth = DefaultViewportWidth
	}
	if opts.ViewportHeight == 0 {
		opts.ViewportHeight = DefaultViewportHeight
	}
	return &Engine{opts: opts}
}

// Start installs (unless skipped) and runs the Playwright driver, then
// launches Chromium. Safe to call more than once; subsequent calls are
// no-ops.
func (e *Engine) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.started {
		return nil
	}

	// Driver output is discarded so it cannot interleave with the caller's
	// own terminal output.
	runOpts := &playwright.RunOptions{
		Verbose: false,
		Stdout:  io.Discard,
		Stderr:  io.Discard,
	}

	if !e.opts.SkipInstall {
		if err := playwright.Install(runOpts); err != nil {
			return fmt.Errorf("failed to install playwright: %w", err)
		}
	}

	pw, err := playwright.Run(runOpts)
	if err != nil {
		return fmt.Errorf("failed to start playwright: %w", err)
	}

	chrome, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(e.opts.Headless),
	})
	if err != nil {
		pw.Stop()
		return fmt.Errorf("failed to launch browser: %w", err)
	}

	e.pw = pw
	e.chrome = chrome
	e.started = true
	return nil
}

// NewContext creates an isolated browsing context with one open page.
func (e *Engine) NewContext() (browser.BrowsingContext, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.started {
		return nil, fmt.Errorf("engine not started")
	}

	pwCtx, err := e.chrome.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  e.opts.ViewportWidth,
			Height: e.opts.ViewportHeight,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create context: %w", err)
	}

	bctx := &browsingContext{pwCtx: pwCtx, pages: make(map[playwright.Page]*page)}
	if _, err := bctx.NewPage(context.Background()); err != nil {
		pwCtx.Close()
		return nil, err
	}
	return bctx, nil
}

// Stop closes the browser and shuts down the Playwright driver.
func (e *Engine) Stop() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.started {
		return nil
	}

	var errs []error
	if err := e.chrome.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := e.pw.Stop(); err != nil {
		errs = append(errs, err)
	}
	e.started = false
	e.pw = nil
	e.chrome = nil

	if len(errs) > 0 {
		return fmt.Errorf("errors stopping engine: %v", errs)
	}
	return nil
}
