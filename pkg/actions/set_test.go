package actions

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewActionSetDefaults(t *testing.T) {
	set, err := NewActionSet()
	require.NoError(t, err)

	names := set.Names()
	assert.Contains(t, names, "noop")
	assert.Contains(t, names, "send_msg_to_user")
	assert.Contains(t, names, "report_infeasible")
	assert.Contains(t, names, "click")
	assert.Contains(t, names, "goto")
	assert.Contains(t, names, "tab_focus")

	// Coordinate actions are not part of the default subsets.
	assert.NotContains(t, names, "mouse_click")
	assert.NotContains(t, names, "keyboard_type")
}

func TestNewActionSetSubsets(t *testing.T) {
	tests := []struct {
		name        string
		subsets     []Subset
		wantHas     []string
		wantMissing []string
	}{
		{
			name:        "chat only",
			subsets:     []Subset{SubsetChat},
			wantHas:     []string{"send_msg_to_user", "noop"},
			wantMissing: []string{"click", "goto", "mouse_click"},
		},
		{
			name:        "coord includes scroll",
			subsets:     []Subset{SubsetCoord},
			wantHas:     []string{"scroll", "mouse_click", "keyboard_press", "mouse_upload_file"},
			wantMissing: []string{"click", "fill"},
		},
		{
			name:        "bid includes scroll too",
			subsets:     []Subset{SubsetBid},
			wantHas:     []string{"scroll", "click", "fill", "upload_file"},
			wantMissing: []string{"mouse_click", "goto"},
		},
		{
			name:        "nav and tab",
			subsets:     []Subset{SubsetNav, SubsetTab},
			wantHas:     []string{"goto", "go_back", "go_forward", "new_tab", "tab_close", "tab_focus"},
			wantMissing: []string{"click", "send_msg_to_user"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := NewActionSet(WithSubsets(tt.subsets...))
			require.NoError(t, err)
			names := set.Names()
			for _, want := range tt.wantHas {
				assert.Contains(t, names, want)
			}
			for _, missing := range tt.wantMissing {
				assert.NotContains(t, names, missing)
			}
		})
	}
}

func TestNewActionSetUnknownSubset(t *testing.T) {
	_, err := NewActionSet(WithSubsets("telepathy"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown action subset")
}

func TestWithAllowedActions(t *testing.T) {
	set, err := NewActionSet(
		WithSubsets(SubsetBid, SubsetTab),
		WithAllowedActions("click", "tab_*"),
	)
	require.NoError(t, err)

	names := set.Names()
	assert.Contains(t, names, "click")
	assert.Contains(t, names, "tab_close")
	assert.Contains(t, names, "tab_focus")
	assert.Contains(t, names, "noop") // subset-less, always present
	assert.NotContains(t, names, "fill")
	assert.NotContains(t, names, "dblclick")
}

func TestWithAllowedActionsInvalidPattern(t *testing.T) {
	_, err := NewActionSet(WithAllowedActions("[invalid"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid action pattern")
}

func TestNewActionSetEmpty(t *testing.T) {
	_, err := NewActionSet(
		WithSubsets(SubsetNav),
		WithAllowedActions("mouse_*"),
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "action set is empty")
}

func TestWithDemoModeValidation(t *testing.T) {
	_, err := NewActionSet(WithDemoMode("sparkles"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown demo mode")

	set, err := NewActionSet(WithDemoMode(DemoAllBlue))
	require.NoError(t, err)
	assert.Equal(t, DemoAllBlue, set.demoMode)
}

func TestDescribe(t *testing.T) {
	set, err := NewActionSet(WithSubsets(SubsetChat))
	require.NoError(t, err)

	t.Run("signatures only", func(t *testing.T) {
		doc := set.Describe(false, false)
		assert.Contains(t, doc, "send_msg_to_user(text)")
		assert.Contains(t, doc, "noop(wait_ms=1000)")
		assert.NotContains(t, doc, "Description:")
		assert.NotContains(t, doc, "Examples:")
	})

	t.Run("with descriptions and examples", func(t *testing.T) {
		doc := set.Describe(true, true)
		assert.Contains(t, doc, "Description: Sends a message to the user.")
		assert.Contains(t, doc, "Examples:")
		assert.Contains(t, doc, "send_msg_to_user('Based on the results")
	})

	t.Run("deterministic", func(t *testing.T) {
		assert.Equal(t, set.Describe(true, true), set.Describe(true, true))
	})
}

func TestDescribeCoversEverySignature(t *testing.T) {
	set, err := NewActionSet(WithSubsets(SubsetChat, SubsetInfeas, SubsetBid, SubsetCoord, SubsetNav, SubsetTab))
	require.NoError(t, err)

	doc := set.Describe(false, false)
	for _, spec := range Catalog() {
		assert.Contains(t, doc, spec.Signature)
	}
}

func TestExampleAction(t *testing.T) {
	set, err := NewActionSet()
	require.NoError(t, err)

	t.Run("abstract placeholder", func(t *testing.T) {
		assert.Contains(t, set.ExampleAction(true), "One single action")
	})

	t.Run("concrete example comes from the set", func(t *testing.T) {
		example := set.ExampleAction(false)
		require.NotEmpty(t, example)
		found := false
		for _, spec := range set.Actions() {
			for _, ex := range spec.Examples {
				if ex == example {
					found = true
				}
			}
		}
		assert.True(t, found, "example %q not drawn from the set", example)
	})
}

func TestPromptTokensUnknownEncoding(t *testing.T) {
	set, err := NewActionSet()
	require.NoError(t, err)

	_, err = set.PromptTokens("not-a-real-encoding", true, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load encoding")
}

func TestToCodeRoundTrip(t *testing.T) {
	tests := []string{
		`click('a51')`,
		`click('b22', button='right')`,
		`click('48', button='middle', modifiers=['Shift'])`,
		`fill('45', 'multi-line\nexample')`,
		`fill('a12', 'example with "quotes"')`,
		`scroll(-50.2, -100.5)`,
		`noop(500)`,
		`select_option('c48', ['red', 'green', 'blue'])`,
		`tab_focus(2)`,
		`go_back()`,
	}

	for _, code := range tests {
		t.Run(code, func(t *testing.T) {
			calls, err := ParseCalls(code, true)
			require.NoError(t, err)
			require.Len(t, calls, 1)

			rendered := ToCode(calls[0])
			reparsed, err := ParseCalls(rendered, true)
			require.NoError(t, err, "rendered form %q must reparse", rendered)
			assert.Equal(t, calls, reparsed)
		})
	}
}

func TestToCodeFormatting(t *testing.T) {
	call := &Call{
		Name:   "click",
		Args:   []any{"a51"},
		Kwargs: map[string]any{"modifiers": []any{"Shift"}, "button": "right"},
	}
	// Kwargs render sorted for a stable output.
	assert.Equal(t, `click('a51', button='right', modifiers=['Shift'])`, ToCode(call))

	assert.Equal(t, `scroll(0, 200)`, ToCode(&Call{Name: "scroll", Args: []any{0.0, 200.0}}))
	assert.Equal(t, `fill('1', 'a\'b')`, ToCode(&Call{Name: "fill", Args: []any{"1", "a'b"}}))
}

func TestCatalogMetadata(t *testing.T) {
	seen := make(map[string]bool)
	for _, spec := range Catalog() {
		assert.False(t, seen[spec.Name], "duplicate action %q", spec.Name)
		seen[spec.Name] = true

		assert.NotEmpty(t, spec.Signature, "%s has no signature", spec.Name)
		assert.True(t, strings.HasPrefix(spec.Signature, spec.Name+"("), "%s signature %q does not match its name", spec.Name, spec.Signature)
		assert.NotEmpty(t, spec.Description, "%s has no description", spec.Name)
		assert.NotEmpty(t, spec.Examples, "%s has no examples", spec.Name)
		assert.NotNil(t, spec.run, "%s has no dispatcher", spec.Name)
	}
	assert.Len(t, seen, 34)
}

func TestCatalogExamplesParseAndDispatch(t *testing.T) {
	// Every documented example must parse and validate against its own
	// action's argument rules.
	for _, spec := range Catalog() {
		for _, example := range spec.Examples {
			t.Run(example, func(t *testing.T) {
				calls, err := ParseCalls(example, true)
				require.NoError(t, err)
				require.Len(t, calls, 1)
				assert.Equal(t, spec.Name, calls[0].Name)
			})
		}
	}
}
