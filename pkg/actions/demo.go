package actions

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/entrhq/actionspace/pkg/browser"
	"github.com/entrhq/actionspace/pkg/logging"
)

// Demo-mode effects make automated runs watchable by a human: targets get a
// short-lived bounding-box highlight and a synthetic cursor sprite glides to
// the target before the real input fires. Effects are strictly cosmetic, so
// any failure here (element detached mid-animation, page navigated away) is
// logged and swallowed rather than failing the action.

var (
	demoLogOnce sync.Once
	demoLogger  *logging.Logger
)

func demoLog() *logging.Logger {
	demoLogOnce.Do(func() {
		demoLogger, _ = logging.New("demo")
	})
	return demoLogger
}

// typingDelay returns the per-character delay for typing actions: slow
// enough to watch in demo mode (2000ms spread over the text, floored at
// 10ms per character), zero otherwise.
func typingDelay(mode DemoMode, text string) time.Duration {
	if mode == DemoOff || len(text) == 0 {
		return 0
	}
	ms := 2000.0 / float64(len(text))
	if ms < 10 {
		ms = 10
	}
	return time.Duration(ms * float64(time.Millisecond))
}

func highlightColor(mode DemoMode) string {
	if mode == DemoAllBlue {
		return "#3399ff"
	}
	return "#ff3333"
}

// addDemoEffects applies the visual decoration for one element-level action:
// optionally animates the cursor to the element's center, then optionally
// highlights its bounding box. A no-op when mode is DemoOff. With
// DemoOnlyVisible, elements without a visible box are left unannotated.
func addDemoEffects(ctx context.Context, page browser.Page, elem browser.Element, bid string, mode DemoMode, moveCursor, highlightBox bool) {
	if mode == DemoOff {
		return
	}

	box, err := elem.BoundingBox(ctx)
	if err != nil {
		demoLog().Warnf("demo effects skipped for bid %s: bounding box failed: %v", bid, err)
		return
	}
	if box == nil {
		if mode == DemoOnlyVisible {
			return
		}
		demoLog().Debugf("demo effects skipped for bid %s: element has no visible box", bid)
		return
	}

	if moveCursor {
		centerX := box.X + box.Width/2
		centerY := box.Y + box.Height/2
		if err := smoothMoveVisualCursorTo(ctx, page, centerX, centerY); err != nil {
			demoLog().Warnf("visual cursor move failed for bid %s: %v", bid, err)
		}
	}
	if highlightBox {
		if err := highlightByBox(ctx, page, *box, highlightColor(mode)); err != nil {
			demoLog().Warnf("highlight failed for bid %s: %v", bid, err)
		}
	}
}

// coordinateDemoEffects decorates raw-coordinate mouse actions: cursor move
// to the point plus a 1x1 highlight marking the click location.
func coordinateDemoEffects(ctx context.Context, page browser.Page, mode DemoMode, x, y float64) {
	if mode == DemoOff {
		return
	}
	if err := smoothMoveVisualCursorTo(ctx, page, x, y); err != nil {
		demoLog().Warnf("visual cursor move failed at (%.1f, %.1f): %v", x, y, err)
	}
	if err := highlightByBox(ctx, page, browser.Rect{X: x, Y: y, Width: 1, Height: 1}, highlightColor(mode)); err != nil {
		demoLog().Warnf("highlight failed at (%.1f, %.1f): %v", x, y, err)
	}
}

// highlightByBox flashes a border overlay around the given box. The overlay
// removes itself after a short delay so stacked actions don't accumulate
// artifacts.
func highlightByBox(ctx context.Context, page browser.Page, box browser.Rect, color string) error {
	script := fmt.Sprintf(`(() => {
	const overlay = document.createElement('div');
	overlay.style.position = 'fixed';
	overlay.style.left = '%[1]fpx';
	overlay.style.top = '%[2]fpx';
	overlay.style.width = '%[3]fpx';
	overlay.style.height = '%[4]fpx';
	overlay.style.border = '2px solid %[5]s';
	overlay.style.borderRadius = '3px';
	overlay.style.pointerEvents = 'none';
	overlay.style.zIndex = '2147483646';
	overlay.style.boxSizing = 'border-box';
	document.body.appendChild(overlay);
	setTimeout(() => overlay.remove(), 1000);
})()`, box.X, box.Y, box.Width, box.Height, color)

	_, err := page.Evaluate(ctx, script)
	return err
}

// smoothMoveVisualCursorTo animates the synthetic cursor sprite from its
// last known position to (x, y). The sprite is created on first use and
// persists on the page so consecutive actions animate from where the
// previous one ended. The returned promise resolves when the transition
// completes, keeping the cursor ahead of the real input event.
func smoothMoveVisualCursorTo(ctx context.Context, page browser.Page, x, y float64) error {
	script := fmt.Sprintf(`(() => {
	let cursor = document.getElementById('actionspace-visual-cursor');
	if (!cursor) {
		cursor = document.createElement('div');
		cursor.id = 'actionspace-visual-cursor';
		cursor.style.position = 'fixed';
		cursor.style.left = '0px';
		cursor.style.top = '0px';
		cursor.style.width = '14px';
		cursor.style.height = '14px';
		cursor.style.background = 'rgba(0, 0, 0, 0.7)';
		cursor.style.border = '2px solid white';
		cursor.style.borderRadius = '50%%';
		cursor.style.pointerEvents = 'none';
		cursor.style.zIndex = '2147483647';
		cursor.style.transition = 'left 0.3s ease, top 0.3s ease';
		document.body.appendChild(cursor);
	}
	return new Promise(resolve => {
		requestAnimationFrame(() => {
			cursor.style.left = '%[1]fpx';
			cursor.style.top = '%[2]fpx';
			setTimeout(resolve, 300);
		});
	});
})()`, x-7, y-7)

	_, err := page.Evaluate(ctx, script)
	return err
}
