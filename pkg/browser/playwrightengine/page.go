package playwrightengine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/entrhq/actionspace/pkg/browser"
	"github.com/playwright-community/playwright-go"
)

// bidSelector matches the element carrying the given bid attribute.
func bidSelector(bid string) string {
	return fmt.Sprintf(`[bid=%q]`, bid)
}

type browsingContext struct {
	mu    sync.Mutex
	pwCtx playwright.BrowserContext

	// pages maps driver pages to their adapters so the same tab always
	// yields the same Page value.
	pages map[playwright.Page]*page
}

func (c *browsingContext) Pages() []browser.Page {
	c.mu.Lock()
	defer c.mu.Unlock()

	pwPages := c.pwCtx.Pages()
	out := make([]browser.Page, 0, len(pwPages))
	live := make(map[playwright.Page]bool, len(pwPages))
	for _, pwPage := range pwPages {
		live[pwPage] = true
		out = append(out, c.adapt(pwPage))
	}
	// Prune adapters of closed tabs.
	for pwPage := range c.pages {
		if !live[pwPage] {
			delete(c.pages, pwPage)
		}
	}
	return out
}

func (c *browsingContext) NewPage(ctx context.Context) (browser.Page, error) {
	pwPage, err := c.pwCtx.NewPage()
	if err != nil {
		return nil, fmt.Errorf("failed to open tab: %w", err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.adapt(pwPage), nil
}

// adapt returns the cached adapter for a driver page, creating one if
// needed. Callers hold c.mu.
func (c *browsingContext) adapt(pwPage playwright.Page) *page {
	if p, ok := c.pages[pwPage]; ok {
		return p
	}
	p := &page{pwPage: pwPage, bctx: c}
	c.pages[pwPage] = p
	return p
}

type page struct {
	pwPage playwright.Page
	bctx   *browsingContext
}

func (p *page) Goto(ctx context.Context, url string) error {
	if _, err := p.pwPage.Goto(url); err != nil {
		return classifyNavigation(url, err)
	}
	return nil
}

func (p *page) GoBack(ctx context.Context) error {
	// A nil response means there was no previous history entry; that is
	// not a failure.
	if _, err := p.pwPage.GoBack(); err != nil {
		return classifyNavigation("back", err)
	}
	return nil
}

func (p *page) GoForward(ctx context.Context) error {
	if _, err := p.pwPage.GoForward(); err != nil {
		return classifyNavigation("forward", err)
	}
	return nil
}

func (p *page) ElementByBid(ctx context.Context, bid string) (browser.Element, error) {
	loc := p.pwPage.Locator(bidSelector(bid))
	count, err := loc.Count()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve bid %q: %w", bid, err)
	}
	if count == 0 {
		return nil, &browser.ElementNotFoundError{Bid: bid}
	}
	if count > 1 {
		return nil, fmt.Errorf("bid %q matches %d elements, want exactly one", bid, count)
	}
	return &element{loc: loc, bid: bid}, nil
}

func (p *page) Mouse() browser.Mouse       { return &mouse{pw: p.pwPage.Mouse()} }
func (p *page) Keyboard() browser.Keyboard { return &keyboard{pw: p.pwPage.Keyboard()} }

func (p *page) Evaluate(ctx context.Context, script string) (any, error) {
	return p.pwPage.Evaluate(script)
}

func (p *page) ExpectFileChooser(ctx context.Context, trigger func() error) (browser.FileChooser, error) {
	pwChooser, err := p.pwPage.ExpectFileChooser(trigger)
	if err != nil {
		return nil, fmt.Errorf("no file chooser appeared: %w", err)
	}
	return &fileChooser{pw: pwChooser}, nil
}

func (p *page) BringToFront(ctx context.Context) error {
	return p.pwPage.BringToFront()
}

func (p *page) Close(ctx context.Context) error {
	return p.pwPage.Close()
}

func (p *page) BrowsingContext() browser.BrowsingContext { return p.bctx }

type element struct {
	loc playwright.Locator
	bid string
}

func timeoutMS(opts browser.ActionOptions) *float64 {
	if opts.Timeout <= 0 {
		return nil
	}
	return playwright.Float(float64(opts.Timeout.Milliseconds()))
}

func pwButton(b browser.MouseButton) *playwright.MouseButton {
	if b == "" {
		b = browser.ButtonLeft
	}
	button := playwright.MouseButton(string(b))
	return &button
}

func pwModifiers(mods []browser.KeyModifier) []playwright.KeyboardModifier {
	if len(mods) == 0 {
		return nil
	}
	out := make([]playwright.KeyboardModifier, len(mods))
	for i, m := range mods {
		out[i] = playwright.KeyboardModifier(string(m))
	}
	return out
}

func (e *element) Click(ctx context.Context, opts browser.ClickOptions) error {
	return classifyElementOp("click", e.bid, e.loc.Click(playwright.LocatorClickOptions{
		Button:    pwButton(opts.Button),
		Modifiers: pwModifiers(opts.Modifiers),
		Force:     playwright.Bool(opts.Force),
		Timeout:   timeoutMS(opts.ActionOptions),
	}))
}

func (e *element) DblClick(ctx context.Context, opts browser.ClickOptions) error {
	return classifyElementOp("dblclick", e.bid, e.loc.Dblclick(playwright.LocatorDblclickOptions{
		Button:    pwButton(opts.Button),
		Modifiers: pwModifiers(opts.Modifiers),
		Force:     playwright.Bool(opts.Force),
		Timeout:   timeoutMS(opts.ActionOptions),
	}))
}

func (e *element) Hover(ctx context.Context, opts browser.ActionOptions) error {
	return classifyElementOp("hover", e.bid, e.loc.Hover(playwright.LocatorHoverOptions{
		Force:   playwright.Bool(opts.Force),
		Timeout: timeoutMS(opts),
	}))
}

func (e *element) Check(ctx context.Context, opts browser.ActionOptions) error {
	return classifyElementOp("check", e.bid, e.loc.Check(playwright.LocatorCheckOptions{
		Force:   playwright.Bool(opts.Force),
		Timeout: timeoutMS(opts),
	}))
}

func (e *element) Uncheck(ctx context.Context, opts browser.ActionOptions) error {
	return classifyElementOp("uncheck", e.bid, e.loc.Uncheck(playwright.LocatorUncheckOptions{
		Force:   playwright.Bool(opts.Force),
		Timeout: timeoutMS(opts),
	}))
}

func (e *element) Fill(ctx context.Context, value string, opts browser.ActionOptions) error {
	return classifyElementOp("fill", e.bid, e.loc.Fill(value, playwright.LocatorFillOptions{
		Force:   playwright.Bool(opts.Force),
		Timeout: timeoutMS(opts),
	}))
}

func (e *element) Clear(ctx context.Context, opts browser.ActionOptions) error {
	return classifyElementOp("clear", e.bid, e.loc.Clear(playwright.LocatorClearOptions{
		Force:   playwright.Bool(opts.Force),
		Timeout: timeoutMS(opts),
	}))
}

func (e *element) Type(ctx context.Context, text string, delay time.Duration) error {
	return classifyElementOp("type", e.bid, e.loc.PressSequentially(text, playwright.LocatorPressSequentiallyOptions{
		Delay: playwright.Float(float64(delay.Milliseconds())),
	}))
}

func (e *element) Press(ctx context.Context, keyComb string, opts browser.ActionOptions) error {
	return classifyElementOp("press", e.bid, e.loc.Press(keyComb, playwright.LocatorPressOptions{
		Timeout: timeoutMS(opts),
	}))
}

func (e *element) Focus(ctx context.Context, opts browser.ActionOptions) error {
	return classifyElementOp("focus", e.bid, e.loc.Focus(playwright.LocatorFocusOptions{
		Timeout: timeoutMS(opts),
	}))
}

func (e *element) SelectOption(ctx context.Context, values []string, opts browser.ActionOptions) error {
	_, err := e.loc.SelectOption(playwright.SelectOptionValues{
		ValuesOrLabels: &values,
	}, playwright.LocatorSelectOptionOptions{
		Force:   playwright.Bool(opts.Force),
		Timeout: timeoutMS(opts),
	})
	return classifyElementOp("select_option", e.bid, err)
}

func (e *element) BoundingBox(ctx context.Context) (*browser.Rect, error) {
	box, err := e.loc.BoundingBox()
	if err != nil {
		return nil, fmt.Errorf("bounding box failed for bid %q: %w", e.bid, err)
	}
	if box == nil {
		return nil, nil
	}
	return &browser.Rect{X: box.X, Y: box.Y, Width: box.Width, Height: box.Height}, nil
}

func (e *element) ScrollIntoView(ctx context.Context) error {
	return e.loc.ScrollIntoViewIfNeeded()
}

type mouse struct {
	pw playwright.Mouse
}

func (m *mouse) Move(ctx context.Context, x, y float64) error {
	return m.pw.Move(x, y)
}

func (m *mouse) Down(ctx context.Context, button browser.MouseButton) error {
	return m.pw.Down(playwright.MouseDownOptions{Button: pwButton(button)})
}

func (m *mouse) Up(ctx context.Context, button browser.MouseButton) error {
	return m.pw.Up(playwright.MouseUpOptions{Button: pwButton(button)})
}

func (m *mouse) Click(ctx context.Context, x, y float64, button browser.MouseButton) error {
	return m.pw.Click(x, y, playwright.MouseClickOptions{Button: pwButton(button)})
}

func (m *mouse) DblClick(ctx context.Context, x, y float64, button browser.MouseButton) error {
	return m.pw.Dblclick(x, y, playwright.MouseDblclickOptions{Button: pwButton(button)})
}

func (m *mouse) Wheel(ctx context.Context, deltaX, deltaY float64) error {
	return m.pw.Wheel(deltaX, deltaY)
}

type keyboard struct {
	pw playwright.Keyboard
}

func (k *keyboard) Press(ctx context.Context, keyComb string) error {
	return k.pw.Press(keyComb)
}

func (k *keyboard) Down(ctx context.Context, key string) error {
	return k.pw.Down(key)
}

func (k *keyboard) Up(ctx context.Context, key string) error {
	return k.pw.Up(key)
}

func (k *keyboard) Type(ctx context.Context, text string, delay time.Duration) error {
	return k.pw.Type(text, playwright.KeyboardTypeOptions{
		Delay: playwright.Float(float64(delay.Milliseconds())),
	})
}

func (k *keyboard) InsertText(ctx context.Context, text string) error {
	return k.pw.InsertText(text)
}

type fileChooser struct {
	pw playwright.FileChooser
}

func (f *fileChooser) SetFiles(ctx context.Context, paths []string) error {
	return f.pw.SetFiles(paths)
}
