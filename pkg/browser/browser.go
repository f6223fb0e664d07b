// Package browser defines the page-automation capability surface consumed by
// the action catalog. The interfaces here are deliberately narrow: they cover
// exactly the operations the catalog dispatches (navigation, element
// interaction by bid, raw mouse and keyboard input, tab management, file
// chooser handling and script evaluation), nothing more. Concrete engines live
// in subpackages; see playwrightengine for the Playwright-backed one.
package browser

import (
	"context"
	"time"
)

// MouseButton identifies a mouse button for click and press operations.
type MouseButton string

const (
	ButtonLeft   MouseButton = "left"
	ButtonMiddle MouseButton = "middle"
	ButtonRight  MouseButton = "right"
)

// KeyModifier is a modifier key held during a pointer action.
// ControlOrMeta resolves to Control on Windows/Linux and Meta on macOS.
type KeyModifier string

const (
	ModifierAlt           KeyModifier = "Alt"
	ModifierControl       KeyModifier = "Control"
	ModifierControlOrMeta KeyModifier = "ControlOrMeta"
	ModifierMeta          KeyModifier = "Meta"
	ModifierShift         KeyModifier = "Shift"
)

// Rect is an element bounding box in CSS pixels, relative to the main frame.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// ActionOptions carries the common knobs for element-level operations.
type ActionOptions struct {
	// Force bypasses the engine's actionability checks (visibility,
	// stability, pointer-event interception).
	Force bool

	// Timeout bounds the operation. Zero means no timeout.
	Timeout time.Duration
}

// ClickOptions extends ActionOptions with pointer-specific parameters.
type ClickOptions struct {
	ActionOptions

	// Button defaults to ButtonLeft when empty.
	Button MouseButton

	// Modifiers are held for the duration of the click.
	Modifiers []KeyModifier
}

// Element is a page element resolved from a bid. Handles are short-lived:
// callers resolve a fresh handle per action rather than caching one across
// DOM mutations.
type Element interface {
	Click(ctx context.Context, opts ClickOptions) error
	DblClick(ctx context.Context, opts ClickOptions) error
	Hover(ctx context.Context, opts ActionOptions) error
	Check(ctx context.Context, opts ActionOptions) error
	Uncheck(ctx context.Context, opts ActionOptions) error
	Fill(ctx context.Context, value string, opts ActionOptions) error
	Clear(ctx context.Context, opts ActionOptions) error

	// Type presses the value key by key, waiting delay between keystrokes.
	Type(ctx context.Context, text string, delay time.Duration) error

	Press(ctx context.Context, keyComb string, opts ActionOptions) error
	Focus(ctx context.Context, opts ActionOptions) error
	SelectOption(ctx context.Context, values []string, opts ActionOptions) error

	// BoundingBox returns nil (and no error) when the element has no
	// visible box, e.g. display:none.
	BoundingBox(ctx context.Context) (*Rect, error)

	ScrollIntoView(ctx context.Context) error
}

// Mouse exposes raw pointer primitives in absolute client coordinates.
type Mouse interface {
	Move(ctx context.Context, x, y float64) error
	Down(ctx context.Context, button MouseButton) error
	Up(ctx context.Context, button MouseButton) error
	Click(ctx context.Context, x, y float64, button MouseButton) error
	DblClick(ctx context.Context, x, y float64, button MouseButton) error
	Wheel(ctx context.Context, deltaX, deltaY float64) error
}

// Keyboard exposes raw keyboard primitives.
type Keyboard interface {
	Press(ctx context.Context, keyComb string) error
	Down(ctx context.Context, key string) error
	Up(ctx context.Context, key string) error

	// Type sends keydown/keypress/keyup per character, waiting delay
	// between characters.
	Type(ctx context.Context, text string, delay time.Duration) error

	// InsertText dispatches only an input event, no key events.
	InsertText(ctx context.Context, text string) error
}

// FileChooser is the chooser produced by a file-input click.
type FileChooser interface {
	// SetFiles attaches the given paths. An empty slice clears any
	// previously selected files.
	SetFiles(ctx context.Context, paths []string) error
}

// BrowsingContext groups the tabs (pages) of one isolated browser context.
type BrowsingContext interface {
	// Pages returns the open pages in creation order.
	Pages() []Page

	NewPage(ctx context.Context) (Page, error)
}

// Page is one tab. Implementations map failures into the typed error kinds
// declared in this package so the catalog's retry policy can classify them.
type Page interface {
	Goto(ctx context.Context, url string) error
	GoBack(ctx context.Context) error
	GoForward(ctx context.Context) error

	// ElementByBid resolves the element carrying the given bid attribute.
	// Returns ElementNotFoundError when no such element exists.
	ElementByBid(ctx context.Context, bid string) (Element, error)

	Mouse() Mouse
	Keyboard() Keyboard

	// Evaluate runs a script in the page and returns its result.
	Evaluate(ctx context.Context, script string) (any, error)

	// ExpectFileChooser runs trigger and waits for the file chooser it
	// opens.
	ExpectFileChooser(ctx context.Context, trigger func() error) (FileChooser, error)

	BringToFront(ctx context.Context) error
	Close(ctx context.Context) error

	// BrowsingContext returns the tab group this page belongs to.
	BrowsingContext() BrowsingContext
}
