package actions

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/entrhq/actionspace/pkg/browser"
)

// In-memory engine fakes. Every operation appends a line to a shared
// recorder so tests assert on the exact sequence of engine calls an action
// produced.

type recorder struct {
	ops []string
}

func (r *recorder) record(format string, v ...any) {
	r.ops = append(r.ops, fmt.Sprintf(format, v...))
}

func (r *recorder) joined() string {
	return strings.Join(r.ops, "\n")
}

type fakeElement struct {
	rec *recorder
	bid string

	// box is what BoundingBox reports; nil simulates an invisible element.
	box *browser.Rect

	// failWith makes the named operations fail. When forceClears is set the
	// failure only fires with Force disabled, simulating an actionability
	// problem that force bypasses.
	failWith    map[string]error
	forceClears bool
}

func (e *fakeElement) fail(op string, force bool) error {
	err, ok := e.failWith[op]
	if !ok {
		return nil
	}
	if e.forceClears && force {
		return nil
	}
	return err
}

func (e *fakeElement) Click(ctx context.Context, opts browser.ClickOptions) error {
	button := opts.Button
	if button == "" {
		button = browser.ButtonLeft
	}
	e.rec.record("element[%s].click button=%s modifiers=%v force=%v", e.bid, button, opts.Modifiers, opts.Force)
	return e.fail("click", opts.Force)
}

func (e *fakeElement) DblClick(ctx context.Context, opts browser.ClickOptions) error {
	button := opts.Button
	if button == "" {
		button = browser.ButtonLeft
	}
	e.rec.record("element[%s].dblclick button=%s modifiers=%v force=%v", e.bid, button, opts.Modifiers, opts.Force)
	return e.fail("dblclick", opts.Force)
}

func (e *fakeElement) Hover(ctx context.Context, opts browser.ActionOptions) error {
	e.rec.record("element[%s].hover force=%v", e.bid, opts.Force)
	return e.fail("hover", opts.Force)
}

func (e *fakeElement) Check(ctx context.Context, opts browser.ActionOptions) error {
	e.rec.record("element[%s].check force=%v", e.bid, opts.Force)
	return e.fail("check", opts.Force)
}

func (e *fakeElement) Uncheck(ctx context.Context, opts browser.ActionOptions) error {
	e.rec.record("element[%s].uncheck force=%v", e.bid, opts.Force)
	return e.fail("uncheck", opts.Force)
}

func (e *fakeElement) Fill(ctx context.Context, value string, opts browser.ActionOptions) error {
	e.rec.record("element[%s].fill %q force=%v", e.bid, value, opts.Force)
	return e.fail("fill", opts.Force)
}

func (e *fakeElement) Clear(ctx context.Context, opts browser.ActionOptions) error {
	e.rec.record("element[%s].clear force=%v", e.bid, opts.Force)
	return e.fail("clear", opts.Force)
}

func (e *fakeElement) Type(ctx context.Context, text string, delay time.Duration) error {
	e.rec.record("element[%s].type %q delay=%s", e.bid, text, delay)
	return e.fail("type", false)
}

func (e *fakeElement) Press(ctx context.Context, keyComb string, opts browser.ActionOptions) error {
	e.rec.record("element[%s].press %s force=%v", e.bid, keyComb, opts.Force)
	return e.fail("press", opts.Force)
}

func (e *fakeElement) Focus(ctx context.Context, opts browser.ActionOptions) error {
	e.rec.record("element[%s].focus force=%v", e.bid, opts.Force)
	return e.fail("focus", opts.Force)
}

func (e *fakeElement) SelectOption(ctx context.Context, values []string, opts browser.ActionOptions) error {
	e.rec.record("element[%s].select_option %v force=%v", e.bid, values, opts.Force)
	return e.fail("select_option", opts.Force)
}

func (e *fakeElement) BoundingBox(ctx context.Context) (*browser.Rect, error) {
	return e.box, nil
}

func (e *fakeElement) ScrollIntoView(ctx context.Context) error {
	e.rec.record("element[%s].scroll_into_view", e.bid)
	return nil
}

type fakeMouse struct {
	rec *recorder
}

func (m *fakeMouse) Move(ctx context.Context, x, y float64) error {
	m.rec.record("mouse.move %.1f,%.1f", x, y)
	return nil
}

func (m *fakeMouse) Down(ctx context.Context, button browser.MouseButton) error {
	m.rec.record("mouse.down %s", button)
	return nil
}

func (m *fakeMouse) Up(ctx context.Context, button browser.MouseButton) error {
	m.rec.record("mouse.up %s", button)
	return nil
}

func (m *fakeMouse) Click(ctx context.Context, x, y float64, button browser.MouseButton) error {
	m.rec.record("mouse.click %.1f,%.1f %s", x, y, button)
	return nil
}

func (m *fakeMouse) DblClick(ctx context.Context, x, y float64, button browser.MouseButton) error {
	m.rec.record("mouse.dblclick %.1f,%.1f %s", x, y, button)
	return nil
}

func (m *fakeMouse) Wheel(ctx context.Context, deltaX, deltaY float64) error {
	m.rec.record("mouse.wheel %.1f,%.1f", deltaX, deltaY)
	return nil
}

type fakeKeyboard struct {
	rec *recorder
}

func (k *fakeKeyboard) Press(ctx context.Context, keyComb string) error {
	k.rec.record("keyboard.press %s", keyComb)
	return nil
}

func (k *fakeKeyboard) Down(ctx context.Context, key string) error {
	k.rec.record("keyboard.down %s", key)
	return nil
}

func (k *fakeKeyboard) Up(ctx context.Context, key string) error {
	k.rec.record("keyboard.up %s", key)
	return nil
}

func (k *fakeKeyboard) Type(ctx context.Context, text string, delay time.Duration) error {
	k.rec.record("keyboard.type %q delay=%s", text, delay)
	return nil
}

func (k *fakeKeyboard) InsertText(ctx context.Context, text string) error {
	k.rec.record("keyboard.insert_text %q", text)
	return nil
}

type fakeChooser struct {
	rec *recorder
}

func (f *fakeChooser) SetFiles(ctx context.Context, paths []string) error {
	f.rec.record("chooser.set_files %v", paths)
	return nil
}

type fakeContext struct {
	rec   *recorder
	pages []browser.Page
}

func (c *fakeContext) Pages() []browser.Page {
	out := make([]browser.Page, len(c.pages))
	copy(out, c.pages)
	return out
}

func (c *fakeContext) NewPage(ctx context.Context) (browser.Page, error) {
	page := newFakePage(c.rec, c)
	c.pages = append(c.pages, page)
	c.rec.record("context.new_page -> %s", page.name)
	return page, nil
}

func (c *fakeContext) remove(page browser.Page) {
	for i, p := range c.pages {
		if p == page {
			c.pages = append(c.pages[:i], c.pages[i+1:]...)
			return
		}
	}
}

var fakePageCounter atomic.Int64

type fakePage struct {
	rec     *recorder
	bctx    *fakeContext
	name    string
	elems   map[string]*fakeElement
	mouse   *fakeMouse
	kbd     *fakeKeyboard
	chooser *fakeChooser

	// scripts evaluated on this page, in order.
	scripts []string
}

func newFakePage(rec *recorder, bctx *fakeContext) *fakePage {
	return &fakePage{
		rec:     rec,
		bctx:    bctx,
		name:    fmt.Sprintf("page%d", fakePageCounter.Add(1)),
		elems:   make(map[string]*fakeElement),
		mouse:   &fakeMouse{rec: rec},
		kbd:     &fakeKeyboard{rec: rec},
		chooser: &fakeChooser{rec: rec},
	}
}

// newFakeEnv builds a browsing context with one open page and a fresh
// recorder.
func newFakeEnv() (*fakePage, *recorder) {
	rec := &recorder{}
	bctx := &fakeContext{rec: rec}
	page := newFakePage(rec, bctx)
	bctx.pages = append(bctx.pages, page)
	return page, rec
}

// addElement registers a visible element under the given bid.
func (p *fakePage) addElement(bid string) *fakeElement {
	elem := &fakeElement{
		rec: p.rec,
		bid: bid,
		box: &browser.Rect{X: 10, Y: 20, Width: 100, Height: 30},
	}
	p.elems[bid] = elem
	return elem
}

func (p *fakePage) Goto(ctx context.Context, url string) error {
	p.rec.record("%s.goto %s", p.name, url)
	return nil
}

func (p *fakePage) GoBack(ctx context.Context) error {
	p.rec.record("%s.go_back", p.name)
	return nil
}

func (p *fakePage) GoForward(ctx context.Context) error {
	p.rec.record("%s.go_forward", p.name)
	return nil
}

func (p *fakePage) ElementByBid(ctx context.Context, bid string) (browser.Element, error) {
	elem, ok := p.elems[bid]
	if !ok {
		return nil, &browser.ElementNotFoundError{Bid: bid}
	}
	return elem, nil
}

func (p *fakePage) Mouse() browser.Mouse       { return p.mouse }
func (p *fakePage) Keyboard() browser.Keyboard { return p.kbd }

func (p *fakePage) Evaluate(ctx context.Context, script string) (any, error) {
	p.scripts = append(p.scripts, script)
	return nil, nil
}

func (p *fakePage) ExpectFileChooser(ctx context.Context, trigger func() error) (browser.FileChooser, error) {
	if err := trigger(); err != nil {
		return nil, err
	}
	return p.chooser, nil
}

func (p *fakePage) BringToFront(ctx context.Context) error {
	p.rec.record("%s.bring_to_front", p.name)
	return nil
}

func (p *fakePage) Close(ctx context.Context) error {
	p.rec.record("%s.close", p.name)
	p.bctx.remove(p)
	return nil
}

func (p *fakePage) BrowsingContext() browser.BrowsingContext { return p.bctx }

// testScope binds a fresh scope over the page to a background context.
func testScope(page browser.Page) (context.Context, *Scope) {
	scope := NewScope(page, nil, nil, DemoOff, false)
	return WithScope(context.Background(), scope), scope
}
