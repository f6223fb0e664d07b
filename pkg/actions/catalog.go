package actions

import (
	"context"
	"fmt"
	"sync"

	"github.com/entrhq/actionspace/pkg/browser"
)

// Subset groups catalog actions by capability so callers can expose a
// reduced action space to the agent.
type Subset string

const (
	// SubsetChat exposes send_msg_to_user.
	SubsetChat Subset = "chat"

	// SubsetInfeas exposes report_infeasible.
	SubsetInfeas Subset = "infeas"

	// SubsetBid exposes element-targeted actions addressed by bid.
	SubsetBid Subset = "bid"

	// SubsetCoord exposes raw-coordinate mouse and keyboard actions.
	SubsetCoord Subset = "coord"

	// SubsetNav exposes page navigation.
	SubsetNav Subset = "nav"

	// SubsetTab exposes tab management.
	SubsetTab Subset = "tab"
)

// ActionSpec describes one catalog action: its agent-facing documentation
// and its dispatcher. The rendered signature, description and examples are
// the contract surfaced to the calling agent.
type ActionSpec struct {
	Name        string
	Signature   string
	Description string
	Examples    []string
	Subsets     []Subset

	run func(ctx context.Context, call *Call) error
}

// InSubset reports whether the action belongs to the given subset.
func (s *ActionSpec) InSubset(subset Subset) bool {
	for _, sub := range s.Subsets {
		if sub == subset {
			return true
		}
	}
	return false
}

var (
	catalogOnce  sync.Once
	catalogSpecs []*ActionSpec
)

// Catalog returns the full action catalog in its canonical order. The
// catalog template is built once per process and shared by every ActionSet;
// per-execution values are bound through the Scope, never stored here.
func Catalog() []*ActionSpec {
	catalogOnce.Do(buildCatalog)
	return catalogSpecs
}

// Argument extraction helpers. The parser produces untyped literals; these
// validate them against the action's documented signature.

func (c *Call) checkKwargs(allowed ...string) error {
	for name := range c.Kwargs {
		ok := false
		for _, a := range allowed {
			if name == a {
				ok = true
				break
			}
		}
		if !ok {
			return fmt.Errorf("%s() got an unexpected keyword argument %q", c.Name, name)
		}
	}
	return nil
}

func (c *Call) checkArgCount(min, max int) error {
	if len(c.Args) < min || len(c.Args) > max {
		if min == max {
			return fmt.Errorf("%s() takes %d positional arguments, got %d", c.Name, min, len(c.Args))
		}
		return fmt.Errorf("%s() takes %d to %d positional arguments, got %d", c.Name, min, max, len(c.Args))
	}
	return nil
}

func (c *Call) str(i int, name string) (string, error) {
	v, ok := c.Args[i].(string)
	if !ok {
		return "", fmt.Errorf("%s() argument %q must be a string, got %v", c.Name, name, c.Args[i])
	}
	return v, nil
}

func (c *Call) num(i int, name string) (float64, error) {
	v, ok := c.Args[i].(float64)
	if !ok {
		return 0, fmt.Errorf("%s() argument %q must be a number, got %v", c.Name, name, c.Args[i])
	}
	return v, nil
}

func (c *Call) intArg(i int, name string) (int, error) {
	v, err := c.num(i, name)
	if err != nil {
		return 0, err
	}
	n := int(v)
	if float64(n) != v {
		return 0, fmt.Errorf("%s() argument %q must be an integer, got %v", c.Name, name, v)
	}
	return n, nil
}

// optValue resolves an optional parameter that may be passed positionally at
// index i or as a keyword argument.
func (c *Call) optValue(i int, name string) (any, bool) {
	if i < len(c.Args) {
		return c.Args[i], true
	}
	if v, ok := c.Kwargs[name]; ok {
		return v, true
	}
	return nil, false
}

func (c *Call) button(i int) (browser.MouseButton, error) {
	v, ok := c.optValue(i, "button")
	if !ok {
		return browser.ButtonLeft, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%s() argument \"button\" must be a string, got %v", c.Name, v)
	}
	switch browser.MouseButton(s) {
	case browser.ButtonLeft, browser.ButtonMiddle, browser.ButtonRight:
		return browser.MouseButton(s), nil
	default:
		return "", fmt.Errorf("%s() argument \"button\" must be \"left\", \"middle\" or \"right\", got %q", c.Name, s)
	}
}

func (c *Call) modifiers(i int) ([]browser.KeyModifier, error) {
	v, ok := c.optValue(i, "modifiers")
	if !ok {
		return nil, nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%s() argument \"modifiers\" must be a list, got %v", c.Name, v)
	}
	mods := make([]browser.KeyModifier, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("%s() modifiers must be strings, got %v", c.Name, item)
		}
		switch browser.KeyModifier(s) {
		case browser.ModifierAlt, browser.ModifierControl, browser.ModifierControlOrMeta,
			browser.ModifierMeta, browser.ModifierShift:
			mods = append(mods, browser.KeyModifier(s))
		default:
			return nil, fmt.Errorf("%s() unknown modifier %q", c.Name, s)
		}
	}
	return mods, nil
}

// fileList accepts a single path or a list of paths, matching the
// documented upload signatures.
func (c *Call) fileList(i int, name string) ([]string, error) {
	switch v := c.Args[i].(type) {
	case string:
		return []string{v}, nil
	case []any:
		files := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%s() argument %q must contain strings, got %v", c.Name, name, item)
			}
			files = append(files, s)
		}
		return files, nil
	default:
		return nil, fmt.Errorf("%s() argument %q must be a string or a list of strings, got %v", c.Name, name, v)
	}
}

// stringOrList accepts a single string or a list of strings, for
// select_option values.
func (c *Call) stringOrList(i int, name string) ([]string, error) {
	return c.fileList(i, name)
}

func buildCatalog() {
	catalogSpecs = []*ActionSpec{
		{
			Name:        "send_msg_to_user",
			Signature:   `send_msg_to_user(text)`,
			Description: "Sends a message to the user.",
			Examples: []string{
				`send_msg_to_user('Based on the results of my search, the city was built in 1751.')`,
			},
			Subsets: []Subset{SubsetChat},
			run: func(ctx context.Context, c *Call) error {
				if err := c.checkArgCount(1, 1); err != nil {
					return err
				}
				if err := c.checkKwargs(); err != nil {
					return err
				}
				text, err := c.str(0, "text")
				if err != nil {
					return err
				}
				return SendMsgToUser(ctx, text)
			},
		},
		{
			Name:        "report_infeasible",
			Signature:   `report_infeasible(reason)`,
			Description: "Notifies the user that their instructions are infeasible.",
			Examples: []string{
				`report_infeasible('I cannot follow these instructions because there is no email field in this form.')`,
			},
			Subsets: []Subset{SubsetInfeas},
			run: func(ctx context.Context, c *Call) error {
				if err := c.checkArgCount(1, 1); err != nil {
					return err
				}
				if err := c.checkKwargs(); err != nil {
					return err
				}
				reason, err := c.str(0, "reason")
				if err != nil {
					return err
				}
				return ReportInfeasible(ctx, reason)
			},
		},
		{
			Name:        "noop",
			Signature:   `noop(wait_ms=1000)`,
			Description: "Do nothing, and optionally wait for the given time (in milliseconds).",
			Examples: []string{
				`noop()`,
				`noop(500)`,
			},
			Subsets: nil, // always included
			run: func(ctx context.Context, c *Call) error {
				if err := c.checkArgCount(0, 1); err != nil {
					return err
				}
				if err := c.checkKwargs("wait_ms"); err != nil {
					return err
				}
				waitMS := 1000.0
				if v, ok := c.optValue(0, "wait_ms"); ok {
					f, isNum := v.(float64)
					if !isNum {
						return fmt.Errorf("noop() argument \"wait_ms\" must be a number, got %v", v)
					}
					waitMS = f
				}
				return Noop(ctx, waitMS)
			},
		},
		{
			Name:      "fill",
			Signature: `fill(bid, value)`,
			Description: "Fill out a form field. It focuses the element and triggers an input event " +
				"with the entered text. It works for <input>, <textarea> and [contenteditable] elements.",
			Examples: []string{
				`fill('237', 'example value')`,
				`fill('45', 'multi-line\nexample')`,
				`fill('a12', 'example with "quotes"')`,
			},
			Subsets: []Subset{SubsetBid},
			run: func(ctx context.Context, c *Call) error {
				if err := c.checkArgCount(2, 2); err != nil {
					return err
				}
				if err := c.checkKwargs(); err != nil {
					return err
				}
				bid, err := c.str(0, "bid")
				if err != nil {
					return err
				}
				value, err := c.str(1, "value")
				if err != nil {
					return err
				}
				return Fill(ctx, bid, value)
			},
		},
		{
			Name:        "check",
			Signature:   `check(bid)`,
			Description: "Ensure a checkbox or radio element is checked.",
			Examples: []string{
				`check('55')`,
			},
			Subsets: []Subset{SubsetBid},
			run:     bidOnly(Check),
		},
		{
			Name:        "uncheck",
			Signature:   `uncheck(bid)`,
			Description: "Ensure a checkbox or radio element is unchecked.",
			Examples: []string{
				`uncheck('a5289')`,
			},
			Subsets: []Subset{SubsetBid},
			run:     bidOnly(Uncheck),
		},
		{
			Name:      "select_option",
			Signature: `select_option(bid, options)`,
			Description: "Select one or multiple options in a <select> element. You can specify option " +
				"value or label to select. Multiple options can be selected.",
			Examples: []string{
				`select_option('a48', 'blue')`,
				`select_option('c48', ['red', 'green', 'blue'])`,
			},
			Subsets: []Subset{SubsetBid},
			run: func(ctx context.Context, c *Call) error {
				if err := c.checkArgCount(2, 2); err != nil {
					return err
				}
				if err := c.checkKwargs(); err != nil {
					return err
				}
				bid, err := c.str(0, "bid")
				if err != nil {
					return err
				}
				options, err := c.stringOrList(1, "options")
				if err != nil {
					return err
				}
				return SelectOption(ctx, bid, options)
			},
		},
		{
			Name:        "click",
			Signature:   `click(bid, button="left", modifiers=[])`,
			Description: "Click an element.",
			Examples: []string{
				`click('a51')`,
				`click('b22', button="right")`,
				`click('48', button="middle", modifiers=["Shift"])`,
			},
			Subsets: []Subset{SubsetBid},
			run: func(ctx context.Context, c *Call) error {
				return clickLike(ctx, c, Click)
			},
		},
		{
			Name:        "dblclick",
			Signature:   `dblclick(bid, button="left", modifiers=[])`,
			Description: "Double click an element.",
			Examples: []string{
				`dblclick('12')`,
				`dblclick('ca42', button="right")`,
				`dblclick('178', button="middle", modifiers=["Shift"])`,
			},
			Subsets: []Subset{SubsetBid},
			run: func(ctx context.Context, c *Call) error {
				return clickLike(ctx, c, DblClick)
			},
		},
		{
			Name:        "hover",
			Signature:   `hover(bid)`,
			Description: "Hover over an element.",
			Examples: []string{
				`hover('b8')`,
			},
			Subsets: []Subset{SubsetBid},
			run:     bidOnly(Hover),
		},
		{
			Name:      "press",
			Signature: `press(bid, key_comb)`,
			Description: "Focus the matching element and press a combination of keys. It accepts the " +
				"logical key names that are emitted in the keyboardEvent.key property of the keyboard " +
				"events: Backquote, Minus, Equal, Backslash, Backspace, Tab, Delete, Escape, ArrowDown, " +
				"End, Enter, Home, Insert, PageDown, PageUp, ArrowRight, ArrowUp, F1 - F12, Digit0 - " +
				"Digit9, KeyA - KeyZ, etc. You can alternatively specify a single character you'd like " +
				"to produce such as \"a\" or \"#\". Following modification shortcuts are also supported: " +
				"Shift, Control, Alt, Meta, ShiftLeft, ControlOrMeta. ControlOrMeta resolves to Control " +
				"on Windows and Linux and to Meta on macOS.",
			Examples: []string{
				`press('88', 'Backspace')`,
				`press('a26', 'ControlOrMeta+a')`,
				`press('a61', 'Meta+Shift+t')`,
			},
			Subsets: []Subset{SubsetBid},
			run: func(ctx context.Context, c *Call) error {
				if err := c.checkArgCount(2, 2); err != nil {
					return err
				}
				if err := c.checkKwargs(); err != nil {
					return err
				}
				bid, err := c.str(0, "bid")
				if err != nil {
					return err
				}
				keyComb, err := c.str(1, "key_comb")
				if err != nil {
					return err
				}
				return Press(ctx, bid, keyComb)
			},
		},
		{
			Name:        "focus",
			Signature:   `focus(bid)`,
			Description: "Focus the matching element.",
			Examples: []string{
				`focus('b455')`,
			},
			Subsets: []Subset{SubsetBid},
			run:     bidOnly(Focus),
		},
		{
			Name:        "clear",
			Signature:   `clear(bid)`,
			Description: "Clear the input field.",
			Examples: []string{
				`clear('996')`,
			},
			Subsets: []Subset{SubsetBid},
			run:     bidOnly(Clear),
		},
		{
			Name:      "drag_and_drop",
			Signature: `drag_and_drop(from_bid, to_bid)`,
			Description: "Perform a drag & drop. Hover the element that will be dragged. Press left " +
				"mouse button. Move mouse to the element that will receive the drop. Release left " +
				"mouse button.",
			Examples: []string{
				`drag_and_drop('56', '498')`,
			},
			Subsets: []Subset{SubsetBid},
			run: func(ctx context.Context, c *Call) error {
				if err := c.checkArgCount(2, 2); err != nil {
					return err
				}
				if err := c.checkKwargs(); err != nil {
					return err
				}
				fromBid, err := c.str(0, "from_bid")
				if err != nil {
					return err
				}
				toBid, err := c.str(1, "to_bid")
				if err != nil {
					return err
				}
				return DragAndDrop(ctx, fromBid, toBid)
			},
		},
		{
			Name:      "scroll",
			Signature: `scroll(delta_x, delta_y)`,
			Description: "Scroll horizontally and vertically. Amounts in pixels, positive for right or " +
				"down scrolling, negative for left or up scrolling. Dispatches a wheel event.",
			Examples: []string{
				`scroll(0, 200)`,
				`scroll(-50.2, -100.5)`,
			},
			Subsets: []Subset{SubsetBid, SubsetCoord},
			run: func(ctx context.Context, c *Call) error {
				if err := c.checkArgCount(2, 2); err != nil {
					return err
				}
				if err := c.checkKwargs(); err != nil {
					return err
				}
				dx, err := c.num(0, "delta_x")
				if err != nil {
					return err
				}
				dy, err := c.num(1, "delta_y")
				if err != nil {
					return err
				}
				return Scroll(ctx, dx, dy)
			},
		},
		{
			Name:      "mouse_move",
			Signature: `mouse_move(x, y)`,
			Description: "Move the mouse to a location. Uses absolute client coordinates in pixels. " +
				"Dispatches a mousemove event.",
			Examples: []string{
				`mouse_move(65.2, 158.5)`,
			},
			Subsets: []Subset{SubsetCoord},
			run: func(ctx context.Context, c *Call) error {
				if err := c.checkArgCount(2, 2); err != nil {
					return err
				}
				if err := c.checkKwargs(); err != nil {
					return err
				}
				x, err := c.num(0, "x")
				if err != nil {
					return err
				}
				y, err := c.num(1, "y")
				if err != nil {
					return err
				}
				return MouseMove(ctx, x, y)
			},
		},
		{
			Name:      "mouse_up",
			Signature: `mouse_up(x, y, button="left")`,
			Description: "Move the mouse to a location then release a mouse button. Dispatches " +
				"mousemove and mouseup events.",
			Examples: []string{
				`mouse_up(250, 120)`,
				`mouse_up(47, 252, 'right')`,
			},
			Subsets: []Subset{SubsetCoord},
			run: func(ctx context.Context, c *Call) error {
				return mouseButtonAt(ctx, c, MouseUp)
			},
		},
		{
			Name:      "mouse_down",
			Signature: `mouse_down(x, y, button="left")`,
			Description: "Move the mouse to a location then press and hold a mouse button. Dispatches " +
				"mousemove and mousedown events.",
			Examples: []string{
				`mouse_down(140.2, 580.1)`,
				`mouse_down(458, 254.5, 'middle')`,
			},
			Subsets: []Subset{SubsetCoord},
			run: func(ctx context.Context, c *Call) error {
				return mouseButtonAt(ctx, c, MouseDown)
			},
		},
		{
			Name:      "mouse_click",
			Signature: `mouse_click(x, y, button="left")`,
			Description: "Move the mouse to a location and click a mouse button. Dispatches mousemove, " +
				"mousedown and mouseup events.",
			Examples: []string{
				`mouse_click(887.2, 68)`,
				`mouse_click(56, 712.56, 'right')`,
			},
			Subsets: []Subset{SubsetCoord},
			run: func(ctx context.Context, c *Call) error {
				return mouseButtonAt(ctx, c, MouseClick)
			},
		},
		{
			Name:      "mouse_dblclick",
			Signature: `mouse_dblclick(x, y, button="left")`,
			Description: "Move the mouse to a location and double click a mouse button. Dispatches " +
				"mousemove, mousedown and mouseup events.",
			Examples: []string{
				`mouse_dblclick(5, 236)`,
				`mouse_dblclick(87.5, 354, 'right')`,
			},
			Subsets: []Subset{SubsetCoord},
			run: func(ctx context.Context, c *Call) error {
				return mouseButtonAt(ctx, c, MouseDblClick)
			},
		},
		{
			Name:      "mouse_drag_and_drop",
			Signature: `mouse_drag_and_drop(from_x, from_y, to_x, to_y)`,
			Description: "Drag and drop from a location to a location. Uses absolute client " +
				"coordinates in pixels. Dispatches mousemove, mousedown and mouseup events.",
			Examples: []string{
				`mouse_drag_and_drop(10.7, 325, 235.6, 24.54)`,
			},
			Subsets: []Subset{SubsetCoord},
			run: func(ctx context.Context, c *Call) error {
				if err := c.checkArgCount(4, 4); err != nil {
					return err
				}
				if err := c.checkKwargs(); err != nil {
					return err
				}
				coords := make([]float64, 4)
				names := []string{"from_x", "from_y", "to_x", "to_y"}
				for i := range coords {
					v, err := c.num(i, names[i])
					if err != nil {
						return err
					}
					coords[i] = v
				}
				return MouseDragAndDrop(ctx, coords[0], coords[1], coords[2], coords[3])
			},
		},
		{
			Name:      "keyboard_press",
			Signature: `keyboard_press(key_comb)`,
			Description: "Press a combination of keys. Accepts the logical key names that are emitted " +
				"in the keyboardEvent.key property of the keyboard events: Backquote, Minus, Equal, " +
				"Backslash, Backspace, Tab, Delete, Escape, ArrowDown, End, Enter, Home, Insert, " +
				"PageDown, PageUp, ArrowRight, ArrowUp, F1 - F12, Digit0 - Digit9, KeyA - KeyZ, etc. " +
				"You can alternatively specify a single character you'd like to produce such as \"a\" " +
				"or \"#\". Following modification shortcuts are also supported: Shift, Control, Alt, " +
				"Meta, ShiftLeft, ControlOrMeta. ControlOrMeta resolves to Control on Windows and " +
				"Linux and to Meta on macOS.",
			Examples: []string{
				`keyboard_press('Backspace')`,
				`keyboard_press('ControlOrMeta+a')`,
				`keyboard_press('Meta+Shift+t')`,
			},
			Subsets: []Subset{SubsetCoord},
			run:     textOnly("key_comb", KeyboardPress),
		},
		{
			Name:      "keyboard_up",
			Signature: `keyboard_up(key)`,
			Description: "Release a keyboard key. Dispatches a keyup event. Accepts the logical key " +
				"names that are emitted in the keyboardEvent.key property of the keyboard events, or " +
				"a single character you'd like to produce such as \"a\" or \"#\".",
			Examples: []string{
				`keyboard_up('Shift')`,
				`keyboard_up('c')`,
			},
			Subsets: []Subset{SubsetCoord},
			run:     textOnly("key", KeyboardUp),
		},
		{
			Name:      "keyboard_down",
			Signature: `keyboard_down(key)`,
			Description: "Press and holds a keyboard key. Dispatches a keydown event. Accepts the " +
				"logical key names that are emitted in the keyboardEvent.key property of the keyboard " +
				"events, or a single character you'd like to produce such as \"a\" or \"#\".",
			Examples: []string{
				`keyboard_down('Shift')`,
				`keyboard_down('c')`,
			},
			Subsets: []Subset{SubsetCoord},
			run:     textOnly("key", KeyboardDown),
		},
		{
			Name:      "keyboard_type",
			Signature: `keyboard_type(text)`,
			Description: "Types a string of text through the keyboard. Sends a keydown, " +
				"keypress/input, and keyup event for each character in the text. Modifier keys DO NOT " +
				"affect keyboard_type. Holding down Shift will not type the text in upper case.",
			Examples: []string{
				`keyboard_type('Hello world!')`,
			},
			Subsets: []Subset{SubsetCoord},
			run:     textOnly("text", KeyboardType),
		},
		{
			Name:      "keyboard_insert_text",
			Signature: `keyboard_insert_text(text)`,
			Description: "Insert a string of text in the currently focused element. Dispatches only " +
				"input event, does not emit the keydown, keyup or keypress events. Modifier keys DO " +
				"NOT affect keyboard_insert_text. Holding down Shift will not type the text in upper " +
				"case.",
			Examples: []string{
				`keyboard_insert_text('Hello world!')`,
			},
			Subsets: []Subset{SubsetCoord},
			run:     textOnly("text", KeyboardInsertText),
		},
		{
			Name:        "goto",
			Signature:   `goto(url)`,
			Description: "Navigate to a url.",
			Examples: []string{
				`goto('http://www.example.com')`,
			},
			Subsets: []Subset{SubsetNav},
			run:     textOnly("url", Goto),
		},
		{
			Name:        "go_back",
			Signature:   `go_back()`,
			Description: "Navigate to the previous page in history.",
			Examples: []string{
				`go_back()`,
			},
			Subsets: []Subset{SubsetNav},
			run:     noArgs(GoBack),
		},
		{
			Name:        "go_forward",
			Signature:   `go_forward()`,
			Description: "Navigate to the next page in history.",
			Examples: []string{
				`go_forward()`,
			},
			Subsets: []Subset{SubsetNav},
			run:     noArgs(GoForward),
		},
		{
			Name:        "new_tab",
			Signature:   `new_tab()`,
			Description: "Open a new tab. It will become the active one.",
			Examples: []string{
				`new_tab()`,
			},
			Subsets: []Subset{SubsetTab},
			run:     noArgs(NewTab),
		},
		{
			Name:        "tab_close",
			Signature:   `tab_close()`,
			Description: "Close the current tab.",
			Examples: []string{
				`tab_close()`,
			},
			Subsets: []Subset{SubsetTab},
			run:     noArgs(TabClose),
		},
		{
			Name:        "tab_focus",
			Signature:   `tab_focus(index)`,
			Description: "Bring tab to front (activate tab).",
			Examples: []string{
				`tab_focus(2)`,
			},
			Subsets: []Subset{SubsetTab},
			run: func(ctx context.Context, c *Call) error {
				if err := c.checkArgCount(1, 1); err != nil {
					return err
				}
				if err := c.checkKwargs(); err != nil {
					return err
				}
				index, err := c.intArg(0, "index")
				if err != nil {
					return err
				}
				return TabFocus(ctx, index)
			},
		},
		{
			Name:      "upload_file",
			Signature: `upload_file(bid, file)`,
			Description: "Click an element and wait for a \"filechooser\" event, then select one or " +
				"multiple input files for upload. Relative file paths are resolved relative to the " +
				"current working directory. An empty list clears the selected files.",
			Examples: []string{
				`upload_file('572', 'my_receipt.pdf')`,
				`upload_file('63', ['/home/bob/Documents/image.jpg', '/home/bob/Documents/file.zip'])`,
			},
			Subsets: []Subset{SubsetBid},
			run: func(ctx context.Context, c *Call) error {
				if err := c.checkArgCount(2, 2); err != nil {
					return err
				}
				if err := c.checkKwargs(); err != nil {
					return err
				}
				bid, err := c.str(0, "bid")
				if err != nil {
					return err
				}
				files, err := c.fileList(1, "file")
				if err != nil {
					return err
				}
				return UploadFile(ctx, bid, files)
			},
		},
		{
			Name:      "mouse_upload_file",
			Signature: `mouse_upload_file(x, y, file)`,
			Description: "Click a location and wait for a \"filechooser\" event, then select one or " +
				"multiple input files for upload. Relative file paths are resolved relative to the " +
				"current working directory. An empty list clears the selected files.",
			Examples: []string{
				`mouse_upload_file(132.1, 547, 'my_receipt.pdf')`,
				`mouse_upload_file(328, 812, ['/home/bob/Documents/image.jpg', '/home/bob/Documents/file.zip'])`,
			},
			Subsets: []Subset{SubsetCoord},
			run: func(ctx context.Context, c *Call) error {
				if err := c.checkArgCount(3, 3); err != nil {
					return err
				}
				if err := c.checkKwargs(); err != nil {
					return err
				}
				x, err := c.num(0, "x")
				if err != nil {
					return err
				}
				y, err := c.num(1, "y")
				if err != nil {
					return err
				}
				files, err := c.fileList(2, "file")
				if err != nil {
					return err
				}
				return MouseUploadFile(ctx, x, y, files)
			},
		},
	}
}

// Dispatcher builders for the recurring argument shapes.

func bidOnly(fn func(ctx context.Context, bid string) error) func(context.Context, *Call) error {
	return func(ctx context.Context, c *Call) error {
		if err := c.checkArgCount(1, 1); err != nil {
			return err
		}
		if err := c.checkKwargs(); err != nil {
			return err
		}
		bid, err := c.str(0, "bid")
		if err != nil {
			return err
		}
		return fn(ctx, bid)
	}
}

func textOnly(name string, fn func(ctx context.Context, text string) error) func(context.Context, *Call) error {
	return func(ctx context.Context, c *Call) error {
		if err := c.checkArgCount(1, 1); err != nil {
			return err
		}
		if err := c.checkKwargs(); err != nil {
			return err
		}
		text, err := c.str(0, name)
		if err != nil {
			return err
		}
		return fn(ctx, text)
	}
}

func noArgs(fn func(ctx context.Context) error) func(context.Context, *Call) error {
	return func(ctx context.Context, c *Call) error {
		if err := c.checkArgCount(0, 0); err != nil {
			return err
		}
		if err := c.checkKwargs(); err != nil {
			return err
		}
		return fn(ctx)
	}
}

func clickLike(ctx context.Context, c *Call, fn func(ctx context.Context, bid string, button browser.MouseButton, modifiers []browser.KeyModifier) error) error {
	if err := c.checkArgCount(1, 3); err != nil {
		return err
	}
	if err := c.checkKwargs("button", "modifiers"); err != nil {
		return err
	}
	bid, err := c.str(0, "bid")
	if err != nil {
		return err
	}
	button, err := c.button(1)
	if err != nil {
		return err
	}
	modifiers, err := c.modifiers(2)
	if err != nil {
		return err
	}
	return fn(ctx, bid, button, modifiers)
}

func mouseButtonAt(ctx context.Context, c *Call, fn func(ctx context.Context, x, y float64, button browser.MouseButton) error) error {
	if err := c.checkArgCount(2, 3); err != nil {
		return err
	}
	if err := c.checkKwargs("button"); err != nil {
		return err
	}
	x, err := c.num(0, "x")
	if err != nil {
		return err
	}
	y, err := c.num(1, "y")
	if err != nil {
		return err
	}
	button, err := c.button(2)
	if err != nil {
		return err
	}
	return fn(ctx, x, y, button)
}
