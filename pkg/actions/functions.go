package actions

import (
	"context"
	"fmt"
	"time"

	"github.com/entrhq/actionspace/pkg/browser"
)

// actionTimeout bounds every element-level engine operation. There is no
// cancellation token through the catalog; this budget is what limits the
// worst-case hang per step.
const actionTimeout = 500 * time.Millisecond

// pageShowScript dispatches a synthetic pageshow event so the surrounding
// environment observes which page became active after a tab switch.
const pageShowScript = `window.dispatchEvent(new Event('pageshow', { bubbles: true, cancelable: false }))`

// elementByBid resolves a bid on the scope's active page. In demo mode the
// element is scrolled into view first so the highlight and cursor land on
// screen; scroll failures are not fatal.
func elementByBid(ctx context.Context, scope *Scope, bid string) (browser.Element, error) {
	elem, err := scope.Page().ElementByBid(ctx, bid)
	if err != nil {
		return nil, err
	}
	if scope.DemoMode() != DemoOff {
		if err := elem.ScrollIntoView(ctx); err != nil {
			demoLog().Debugf("scroll into view failed for bid %s: %v", bid, err)
		}
	}
	return elem, nil
}

func timed(force bool) browser.ActionOptions {
	return browser.ActionOptions{Force: force, Timeout: actionTimeout}
}

// SendMsgToUser sends a message to the user through the scope callback.
func SendMsgToUser(ctx context.Context, text string) error {
	scope, err := FromContext(ctx)
	if err != nil {
		return err
	}
	return scope.SendMessage()(ctx, text)
}

// ReportInfeasible notifies the user that their instructions are infeasible.
func ReportInfeasible(ctx context.Context, reason string) error {
	scope, err := FromContext(ctx)
	if err != nil {
		return err
	}
	return scope.ReportInfeasible()(ctx, reason)
}

// Noop does nothing, optionally waiting for the given time in milliseconds.
func Noop(ctx context.Context, waitMS float64) error {
	if _, err := FromContext(ctx); err != nil {
		return err
	}
	if waitMS <= 0 {
		return nil
	}
	timer := time.NewTimer(time.Duration(waitMS * float64(time.Millisecond)))
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Fill fills out a form field. In demo mode the value is typed key by key at
// a watchable pace instead of being set atomically.
func Fill(ctx context.Context, bid, value string) error {
	scope, err := FromContext(ctx)
	if err != nil {
		return err
	}
	elem, err := elementByBid(ctx, scope, bid)
	if err != nil {
		return err
	}
	mode := scope.DemoMode()
	addDemoEffects(ctx, scope.Page(), elem, bid, mode, false, true)

	do := func(force bool) error {
		if mode != DemoOff {
			if err := elem.Clear(ctx, timed(force)); err != nil {
				return err
			}
			// No timeout on the slowed typing itself; long values
			// legitimately take seconds in demo mode.
			return elem.Type(ctx, value, typingDelay(mode, value))
		}
		return elem.Fill(ctx, value, timed(force))
	}
	return CallWithForceRetry(do, scope.RetryWithForce())
}

// Check ensures a checkbox or radio element is checked.
func Check(ctx context.Context, bid string) error {
	return checkedAction(ctx, bid, func(ctx context.Context, elem browser.Element, force bool) error {
		return elem.Check(ctx, timed(force))
	})
}

// Uncheck ensures a checkbox or radio element is unchecked.
func Uncheck(ctx context.Context, bid string) error {
	return checkedAction(ctx, bid, func(ctx context.Context, elem browser.Element, force bool) error {
		return elem.Uncheck(ctx, timed(force))
	})
}

// checkedAction is the shared resolve -> decorate -> retry-invoke pipeline
// for check and uncheck.
func checkedAction(ctx context.Context, bid string, op func(context.Context, browser.Element, bool) error) error {
	scope, err := FromContext(ctx)
	if err != nil {
		return err
	}
	elem, err := elementByBid(ctx, scope, bid)
	if err != nil {
		return err
	}
	addDemoEffects(ctx, scope.Page(), elem, bid, scope.DemoMode(), true, true)
	return CallWithForceRetry(func(force bool) error {
		return op(ctx, elem, force)
	}, scope.RetryWithForce())
}

// SelectOption selects one or multiple options in a <select> element, by
// option value or label.
func SelectOption(ctx context.Context, bid string, options []string) error {
	scope, err := FromContext(ctx)
	if err != nil {
		return err
	}
	elem, err := elementByBid(ctx, scope, bid)
	if err != nil {
		return err
	}
	addDemoEffects(ctx, scope.Page(), elem, bid, scope.DemoMode(), false, true)
	return CallWithForceRetry(func(force bool) error {
		return elem.SelectOption(ctx, options, timed(force))
	}, scope.RetryWithForce())
}

// Click clicks an element.
func Click(ctx context.Context, bid string, button browser.MouseButton, modifiers []browser.KeyModifier) error {
	scope, err := FromContext(ctx)
	if err != nil {
		return err
	}
	elem, err := elementByBid(ctx, scope, bid)
	if err != nil {
		return err
	}
	addDemoEffects(ctx, scope.Page(), elem, bid, scope.DemoMode(), true, true)
	return CallWithForceRetry(func(force bool) error {
		return elem.Click(ctx, browser.ClickOptions{
			ActionOptions: timed(force),
			Button:        button,
			Modifiers:     modifiers,
		})
	}, scope.RetryWithForce())
}

// DblClick double clicks an element.
func DblClick(ctx context.Context, bid string, button browser.MouseButton, modifiers []browser.KeyModifier) error {
	scope, err := FromContext(ctx)
	if err != nil {
		return err
	}
	elem, err := elementByBid(ctx, scope, bid)
	if err != nil {
		return err
	}
	addDemoEffects(ctx, scope.Page(), elem, bid, scope.DemoMode(), true, true)
	return CallWithForceRetry(func(force bool) error {
		return elem.DblClick(ctx, browser.ClickOptions{
			ActionOptions: timed(force),
			Button:        button,
			Modifiers:     modifiers,
		})
	}, scope.RetryWithForce())
}

// Hover hovers over an element. The cursor animation already communicates
// the target, so hover skips the box highlight.
func Hover(ctx context.Context, bid string) error {
	scope, err := FromContext(ctx)
	if err != nil {
		return err
	}
	elem, err := elementByBid(ctx, scope, bid)
	if err != nil {
		return err
	}
	addDemoEffects(ctx, scope.Page(), elem, bid, scope.DemoMode(), true, false)
	return CallWithForceRetry(func(force bool) error {
		return elem.Hover(ctx, timed(force))
	}, scope.RetryWithForce())
}

// Press focuses the matching element and presses a combination of keys.
func Press(ctx context.Context, bid, keyComb string) error {
	scope, err := FromContext(ctx)
	if err != nil {
		return err
	}
	elem, err := elementByBid(ctx, scope, bid)
	if err != nil {
		return err
	}
	addDemoEffects(ctx, scope.Page(), elem, bid, scope.DemoMode(), false, true)
	return elem.Press(ctx, keyComb, browser.ActionOptions{Timeout: actionTimeout})
}

// Focus focuses the matching element.
func Focus(ctx context.Context, bid string) error {
	scope, err := FromContext(ctx)
	if err != nil {
		return err
	}
	elem, err := elementByBid(ctx, scope, bid)
	if err != nil {
		return err
	}
	addDemoEffects(ctx, scope.Page(), elem, bid, scope.DemoMode(), false, true)
	return elem.Focus(ctx, browser.ActionOptions{Timeout: actionTimeout})
}

// Clear clears an input field.
func Clear(ctx context.Context, bid string) error {
	scope, err := FromContext(ctx)
	if err != nil {
		return err
	}
	elem, err := elementByBid(ctx, scope, bid)
	if err != nil {
		return err
	}
	addDemoEffects(ctx, scope.Page(), elem, bid, scope.DemoMode(), false, true)
	return elem.Clear(ctx, browser.ActionOptions{Timeout: actionTimeout})
}

// DragAndDrop hovers the source element, presses the left mouse button,
// moves to the target element and releases.
func DragAndDrop(ctx context.Context, fromBid, toBid string) error {
	scope, err := FromContext(ctx)
	if err != nil {
		return err
	}
	page := scope.Page()
	mode := scope.DemoMode()

	fromElem, err := elementByBid(ctx, scope, fromBid)
	if err != nil {
		return err
	}
	addDemoEffects(ctx, page, fromElem, fromBid, mode, true, true)
	if err := fromElem.Hover(ctx, browser.ActionOptions{Timeout: actionTimeout}); err != nil {
		return err
	}
	if err := page.Mouse().Down(ctx, browser.ButtonLeft); err != nil {
		return err
	}

	toElem, err := elementByBid(ctx, scope, toBid)
	if err != nil {
		return err
	}
	addDemoEffects(ctx, page, toElem, toBid, mode, true, true)
	if err := toElem.Hover(ctx, browser.ActionOptions{Timeout: actionTimeout}); err != nil {
		return err
	}
	return page.Mouse().Up(ctx, browser.ButtonLeft)
}

// Scroll scrolls horizontally and vertically by the given pixel amounts.
// Positive is right/down. Dispatches a wheel event.
func Scroll(ctx context.Context, deltaX, deltaY float64) error {
	scope, err := FromContext(ctx)
	if err != nil {
		return err
	}
	return scope.Page().Mouse().Wheel(ctx, deltaX, deltaY)
}

// MouseMove moves the mouse to a location in absolute client coordinates.
func MouseMove(ctx context.Context, x, y float64) error {
	scope, err := FromContext(ctx)
	if err != nil {
		return err
	}
	if scope.DemoMode() != DemoOff {
		if err := smoothMoveVisualCursorTo(ctx, scope.Page(), x, y); err != nil {
			demoLog().Warnf("visual cursor move failed at (%.1f, %.1f): %v", x, y, err)
		}
	}
	return scope.Page().Mouse().Move(ctx, x, y)
}

// MouseUp moves the mouse to a location then releases a mouse button.
func MouseUp(ctx context.Context, x, y float64, button browser.MouseButton) error {
	scope, err := FromContext(ctx)
	if err != nil {
		return err
	}
	coordinateDemoEffects(ctx, scope.Page(), scope.DemoMode(), x, y)
	if err := scope.Page().Mouse().Move(ctx, x, y); err != nil {
		return err
	}
	return scope.Page().Mouse().Up(ctx, button)
}

// MouseDown moves the mouse to a location then presses and holds a button.
func MouseDown(ctx context.Context, x, y float64, button browser.MouseButton) error {
	scope, err := FromContext(ctx)
	if err != nil {
		return err
	}
	coordinateDemoEffects(ctx, scope.Page(), scope.DemoMode(), x, y)
	if err := scope.Page().Mouse().Move(ctx, x, y); err != nil {
		return err
	}
	return scope.Page().Mouse().Down(ctx, button)
}

// MouseClick moves the mouse to a location and clicks.
func MouseClick(ctx context.Context, x, y float64, button browser.MouseButton) error {
	scope, err := FromContext(ctx)
	if err != nil {
		return err
	}
	coordinateDemoEffects(ctx, scope.Page(), scope.DemoMode(), x, y)
	return scope.Page().Mouse().Click(ctx, x, y, button)
}

// MouseDblClick moves the mouse to a location and double clicks.
func MouseDblClick(ctx context.Context, x, y float64, button browser.MouseButton) error {
	scope, err := FromContext(ctx)
	if err != nil {
		return err
	}
	coordinateDemoEffects(ctx, scope.Page(), scope.DemoMode(), x, y)
	return scope.Page().Mouse().DblClick(ctx, x, y, button)
}

// MouseDragAndDrop drags from one location to another using raw mouse
// events.
func MouseDragAndDrop(ctx context.Context, fromX, fromY, toX, toY float64) error {
	scope, err := FromContext(ctx)
	if err != nil {
		return err
	}
	page := scope.Page()
	mode := scope.DemoMode()

	coordinateDemoEffects(ctx, page, mode, fromX, fromY)
	if err := page.Mouse().Move(ctx, fromX, fromY); err != nil {
		return err
	}
	if err := page.Mouse().Down(ctx, browser.ButtonLeft); err != nil {
		return err
	}
	coordinateDemoEffects(ctx, page, mode, toX, toY)
	if err := page.Mouse().Move(ctx, toX, toY); err != nil {
		return err
	}
	return page.Mouse().Up(ctx, browser.ButtonLeft)
}

// KeyboardPress presses a combination of keys.
func KeyboardPress(ctx context.Context, keyComb string) error {
	scope, err := FromContext(ctx)
	if err != nil {
		return err
	}
	return scope.Page().Keyboard().Press(ctx, keyComb)
}

// KeyboardUp releases a keyboard key.
func KeyboardUp(ctx context.Context, key string) error {
	scope, err := FromContext(ctx)
	if err != nil {
		return err
	}
	return scope.Page().Keyboard().Up(ctx, key)
}

// KeyboardDown presses and holds a keyboard key.
func KeyboardDown(ctx context.Context, key string) error {
	scope, err := FromContext(ctx)
	if err != nil {
		return err
	}
	return scope.Page().Keyboard().Down(ctx, key)
}

// KeyboardType types a string of text through the keyboard, slowed to a
// watchable pace in demo mode.
func KeyboardType(ctx context.Context, text string) error {
	scope, err := FromContext(ctx)
	if err != nil {
		return err
	}
	return scope.Page().Keyboard().Type(ctx, text, typingDelay(scope.DemoMode(), text))
}

// KeyboardInsertText inserts text into the currently focused element,
// dispatching only an input event.
func KeyboardInsertText(ctx context.Context, text string) error {
	scope, err := FromContext(ctx)
	if err != nil {
		return err
	}
	return scope.Page().Keyboard().InsertText(ctx, text)
}

// Goto navigates the active page to a url. Navigation failures are not
// actionability errors, so there is no retry wrapping here.
func Goto(ctx context.Context, url string) error {
	scope, err := FromContext(ctx)
	if err != nil {
		return err
	}
	return scope.Page().Goto(ctx, url)
}

// GoBack navigates to the previous page in history.
func GoBack(ctx context.Context) error {
	scope, err := FromContext(ctx)
	if err != nil {
		return err
	}
	return scope.Page().GoBack(ctx)
}

// GoForward navigates to the next page in history.
func GoForward(ctx context.Context) error {
	scope, err := FromContext(ctx)
	if err != nil {
		return err
	}
	return scope.Page().GoForward(ctx)
}

// activatePage makes page the scope's active page and synthesizes a
// pageshow notification so the environment tracks the switch.
func activatePage(ctx context.Context, scope *Scope, page browser.Page) error {
	if _, err := page.Evaluate(ctx, pageShowScript); err != nil {
		return fmt.Errorf("failed to notify active page change: %w", err)
	}
	scope.SetPage(page)
	return nil
}

// NewTab opens a new tab in the current browsing context and makes it the
// active page.
func NewTab(ctx context.Context) error {
	scope, err := FromContext(ctx)
	if err != nil {
		return err
	}
	page, err := scope.Page().BrowsingContext().NewPage(ctx)
	if err != nil {
		return err
	}
	return activatePage(ctx, scope, page)
}

// TabClose closes the current tab. The most recently opened remaining tab
// becomes active; closing the last tab opens a fresh replacement so the
// scope never ends up without a page.
func TabClose(ctx context.Context) error {
	scope, err := FromContext(ctx)
	if err != nil {
		return err
	}
	bc := scope.Page().BrowsingContext()
	if err := scope.Page().Close(ctx); err != nil {
		return err
	}

	var page browser.Page
	if pages := bc.Pages(); len(pages) > 0 {
		page = pages[len(pages)-1]
	} else {
		page, err = bc.NewPage(ctx)
		if err != nil {
			return err
		}
	}
	return activatePage(ctx, scope, page)
}

// TabFocus brings the tab at the given index to the front and makes it the
// active page.
func TabFocus(ctx context.Context, index int) error {
	scope, err := FromContext(ctx)
	if err != nil {
		return err
	}
	pages := scope.Page().BrowsingContext().Pages()
	if index < 0 || index >= len(pages) {
		return fmt.Errorf("tab index %d out of range (have %d tabs)", index, len(pages))
	}
	page := pages[index]
	if err := page.BringToFront(ctx); err != nil {
		return err
	}
	return activatePage(ctx, scope, page)
}

// UploadFile clicks an element, waits for the file chooser it opens and
// selects the given files. An empty list clears previously selected files.
func UploadFile(ctx context.Context, bid string, files []string) error {
	scope, err := FromContext(ctx)
	if err != nil {
		return err
	}
	elem, err := elementByBid(ctx, scope, bid)
	if err != nil {
		return err
	}
	addDemoEffects(ctx, scope.Page(), elem, bid, scope.DemoMode(), true, true)

	chooser, err := scope.Page().ExpectFileChooser(ctx, func() error {
		return elem.Click(ctx, browser.ClickOptions{ActionOptions: browser.ActionOptions{Timeout: actionTimeout}})
	})
	if err != nil {
		return err
	}
	return chooser.SetFiles(ctx, files)
}

// MouseUploadFile clicks a location, waits for the file chooser it opens
// and selects the given files. An empty list clears previously selected
// files.
func MouseUploadFile(ctx context.Context, x, y float64, files []string) error {
	scope, err := FromContext(ctx)
	if err != nil {
		return err
	}
	coordinateDemoEffects(ctx, scope.Page(), scope.DemoMode(), x, y)

	chooser, err := scope.Page().ExpectFileChooser(ctx, func() error {
		return scope.Page().Mouse().Click(ctx, x, y, browser.ButtonLeft)
	})
	if err != nil {
		return err
	}
	return chooser.SetFiles(ctx, files)
}
