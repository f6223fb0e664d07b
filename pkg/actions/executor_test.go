package actions

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/entrhq/actionspace/pkg/browser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allSubsets() Option {
	return WithSubsets(SubsetChat, SubsetInfeas, SubsetBid, SubsetCoord, SubsetNav, SubsetTab)
}

func TestExecute(t *testing.T) {
	set, err := NewActionSet(allSubsets())
	require.NoError(t, err)

	page, rec := newFakeEnv()
	page.addElement("a51")
	page.addElement("237")

	code := "goto('http://example.com')\nfill('237', 'value')\nclick('a51')"
	require.NoError(t, set.Execute(context.Background(), code, page, nil, nil))
	assert.Equal(t, []string{
		page.name + ".goto http://example.com",
		`element[237].fill "value" force=false`,
		"element[a51].click button=left modifiers=[] force=false",
	}, rec.ops)
}

func TestExecuteEveryCatalogExample(t *testing.T) {
	// Each documented example must run end to end against the fakes.
	set, err := NewActionSet(allSubsets())
	require.NoError(t, err)

	for _, spec := range Catalog() {
		for _, example := range spec.Examples {
			t.Run(example, func(t *testing.T) {
				page, _ := newFakeEnv()
				for _, bid := range []string{
					"237", "45", "a12", "55", "a5289", "a48", "c48", "a51",
					"b22", "48", "12", "ca42", "178", "b8", "88", "a26",
					"a61", "b455", "996", "56", "498", "572", "63",
				} {
					page.addElement(bid)
				}
				// Give tab_focus a second tab to land on.
				_, err := page.bctx.NewPage(context.Background())
				require.NoError(t, err)
				_, err = page.bctx.NewPage(context.Background())
				require.NoError(t, err)

				sink := func(ctx context.Context, text string) error { return nil }
				assert.NoError(t, set.Execute(context.Background(), example, page, sink, sink))
			})
		}
	}
}

func TestExecuteRejectsUnknownAction(t *testing.T) {
	set, err := NewActionSet(WithSubsets(SubsetChat))
	require.NoError(t, err)

	page, _ := newFakeEnv()
	err = set.Execute(context.Background(), `click('a51')`, page, nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown action "click"`)
}

func TestExecuteRejectsEmptyCode(t *testing.T) {
	set, err := NewActionSet()
	require.NoError(t, err)

	page, _ := newFakeEnv()
	for _, code := range []string{"", "# just a comment\n", "\n\n"} {
		err := set.Execute(context.Background(), code, page, nil, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no action found")
	}
}

func TestExecuteMultiActionPolicy(t *testing.T) {
	page, _ := newFakeEnv()
	page.addElement("a51")
	code := "click('a51')\nclick('a51')"

	t.Run("allowed by default", func(t *testing.T) {
		set, err := NewActionSet()
		require.NoError(t, err)
		assert.NoError(t, set.Execute(context.Background(), code, page, nil, nil))
	})

	t.Run("rejected with WithoutMultiAction", func(t *testing.T) {
		set, err := NewActionSet(WithoutMultiAction())
		require.NoError(t, err)
		err = set.Execute(context.Background(), code, page, nil, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "only one action is allowed")
	})
}

func TestExecuteStrictMode(t *testing.T) {
	page, _ := newFakeEnv()
	page.addElement("a51")
	code := "x = 5\nclick('a51')"

	t.Run("lenient skips non-call lines", func(t *testing.T) {
		set, err := NewActionSet()
		require.NoError(t, err)
		assert.NoError(t, set.Execute(context.Background(), code, page, nil, nil))
	})

	t.Run("strict fails on them", func(t *testing.T) {
		set, err := NewActionSet(WithStrict())
		require.NoError(t, err)
		err = set.Execute(context.Background(), code, page, nil, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse agent code")
	})
}

func TestExecuteStopsAtFirstFailure(t *testing.T) {
	set, err := NewActionSet()
	require.NoError(t, err)

	page, rec := newFakeEnv()
	page.addElement("a51")
	// 'missing' is not on the page; the trailing goto must never run.
	code := "click('a51')\nclick('missing')\ngoto('http://example.com')"

	err = set.Execute(context.Background(), code, page, nil, nil)
	require.Error(t, err)

	var userErr *UserCodeError
	require.ErrorAs(t, err, &userErr)
	assert.Equal(t, "click", userErr.Action)
	assert.Equal(t, []string{
		"element[a51].click button=left modifiers=[] force=false",
	}, rec.ops)
}

func TestExecuteArgumentValidation(t *testing.T) {
	set, err := NewActionSet(allSubsets())
	require.NoError(t, err)

	tests := []struct {
		name    string
		code    string
		wantMsg string
	}{
		{"wrong arity", `click()`, "positional arguments"},
		{"wrong type", `click(42)`, "must be a string"},
		{"unknown kwarg", `click('a51', speed='fast')`, "unexpected keyword argument"},
		{"bad button", `click('a51', button='side')`, `"button" must be`},
		{"bad modifier", `click('a51', modifiers=['Hyper'])`, "unknown modifier"},
		{"fractional tab index", `tab_focus(1.5)`, "must be an integer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, _ := newFakeEnv()
			page.addElement("a51")
			err := set.Execute(context.Background(), tt.code, page, nil, nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestExecuteForceRetryMarker(t *testing.T) {
	tests := []struct {
		name      string
		code      string
		setOpts   []Option
		wantForce bool
	}{
		{
			name:      "marker in a comment enables the retry",
			code:      "# OVERRIDE_RETRY_WITH_FORCE=True\nclick('a51')",
			wantForce: true,
		},
		{
			name:      "marker in a string literal also triggers",
			code:      "send_msg_to_user('OVERRIDE_RETRY_WITH_FORCE=True')\nclick('a51')",
			wantForce: true,
		},
		{
			name:      "no marker, no retry",
			code:      "click('a51')",
			wantForce: false,
		},
		{
			name:      "set-level option without marker",
			code:      "click('a51')",
			setOpts:   []Option{WithRetryWithForce()},
			wantForce: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := append([]Option{allSubsets()}, tt.setOpts...)
			set, err := NewActionSet(opts...)
			require.NoError(t, err)

			page, rec := newFakeEnv()
			elem := page.addElement("a51")
			elem.failWith = map[string]error{"click": &browser.ActionabilityError{Op: "click", Err: errors.New("covered")}}
			elem.forceClears = true

			sink := func(ctx context.Context, text string) error { return nil }
			execErr := set.Execute(context.Background(), tt.code, page, sink, sink)
			if tt.wantForce {
				assert.NoError(t, execErr)
				assert.Contains(t, rec.joined(), "force=true")
			} else {
				require.Error(t, execErr)
				assert.NotContains(t, rec.joined(), "force=true")
			}
		})
	}
}

func TestExecuteDemoModeSelection(t *testing.T) {
	t.Run("set-level demo mode wins", func(t *testing.T) {
		set, err := NewActionSet(WithDemoMode(DemoDefault))
		require.NoError(t, err)

		page, rec := newFakeEnv()
		page.addElement("237")
		require.NoError(t, set.Execute(context.Background(), `fill('237', 'hi')`, page, nil, nil))
		// Demo-mode fill clears then types instead of filling atomically.
		assert.Contains(t, rec.joined(), "element[237].clear")
		assert.Contains(t, rec.joined(), `element[237].type "hi"`)
	})

	t.Run("global demo mode applies when the set has none", func(t *testing.T) {
		SetGlobalDemoMode(true)
		t.Cleanup(func() { SetGlobalDemoMode(false) })

		set, err := NewActionSet()
		require.NoError(t, err)

		page, rec := newFakeEnv()
		page.addElement("237")
		require.NoError(t, set.Execute(context.Background(), `fill('237', 'hi')`, page, nil, nil))
		assert.Contains(t, rec.joined(), "element[237].clear")
	})

	t.Run("off without either", func(t *testing.T) {
		set, err := NewActionSet()
		require.NoError(t, err)

		page, rec := newFakeEnv()
		page.addElement("237")
		require.NoError(t, set.Execute(context.Background(), `fill('237', 'hi')`, page, nil, nil))
		assert.Contains(t, rec.joined(), `element[237].fill "hi"`)
		assert.NotContains(t, rec.joined(), "clear")
	})
}

func TestExecuteMissingCallbacks(t *testing.T) {
	set, err := NewActionSet()
	require.NoError(t, err)

	page, _ := newFakeEnv()
	err = set.Execute(context.Background(), `send_msg_to_user('hi')`, page, nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no callback was provided")
}

func TestExecuteConcurrentIsolation(t *testing.T) {
	set, err := NewActionSet(allSubsets())
	require.NoError(t, err)

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)
	recs := make([]*recorder, workers)
	urls := make([]string, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			page, rec := newFakeEnv()
			recs[i] = rec
			urls[i] = fmt.Sprintf("http://example.com/%d", i)
			code := fmt.Sprintf("goto('%s')\nnew_tab()\ntab_close()", urls[i])
			errs[i] = set.Execute(context.Background(), code, page, nil, nil)
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i], "worker %d", i)
		// Each run saw exactly its own navigation.
		assert.Contains(t, recs[i].joined(), urls[i])
		for j := 0; j < workers; j++ {
			if j != i {
				assert.NotContains(t, recs[i].joined(), urls[j])
			}
		}
	}
}
