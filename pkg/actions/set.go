package actions

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"

	"github.com/gobwas/glob"
	"github.com/pkoukk/tiktoken-go"
)

// ActionSet is a configured slice of the catalog: the subsets to expose, an
// optional glob allowlist over action names, and the execution policy
// (demo mode, force retry, strictness, multi-action). Sets are immutable
// after construction and safe for concurrent use.
type ActionSet struct {
	specs  []*ActionSpec
	byName map[string]*ActionSpec

	demoMode       DemoMode
	retryWithForce bool
	multiAction    bool
	strict         bool
}

// Option configures an ActionSet under construction.
type Option func(*setConfig) error

type setConfig struct {
	subsets        []Subset
	allowPatterns  []string
	demoMode       DemoMode
	retryWithForce bool
	multiAction    bool
	strict         bool
}

// WithSubsets limits the set to the named capability subsets. noop is always
// included. Defaults to chat, infeas, bid, nav and tab when not given.
func WithSubsets(subsets ...Subset) Option {
	return func(c *setConfig) error {
		for _, s := range subsets {
			switch s {
			case SubsetChat, SubsetInfeas, SubsetBid, SubsetCoord, SubsetNav, SubsetTab:
			default:
				return fmt.Errorf("unknown action subset %q", s)
			}
		}
		c.subsets = subsets
		return nil
	}
}

// WithAllowedActions further restricts the set to actions whose name matches
// at least one of the given glob patterns, e.g. "click", "mouse_*", "tab_*".
func WithAllowedActions(patterns ...string) Option {
	return func(c *setConfig) error {
		for _, p := range patterns {
			if _, err := glob.Compile(p); err != nil {
				return fmt.Errorf("invalid action pattern %q: %w", p, err)
			}
		}
		c.allowPatterns = patterns
		return nil
	}
}

// WithDemoMode sets the visual-feedback mode applied to every execution of
// this set. The global demo mode applies when this is left unset.
func WithDemoMode(mode DemoMode) Option {
	return func(c *setConfig) error {
		switch mode {
		case DemoOff, DemoDefault, DemoAllBlue, DemoOnlyVisible:
			c.demoMode = mode
			return nil
		default:
			return fmt.Errorf("unknown demo mode %q", mode)
		}
	}
}

// WithRetryWithForce permits one forced retry after a failed actionability
// check, for every execution of this set.
func WithRetryWithForce() Option {
	return func(c *setConfig) error {
		c.retryWithForce = true
		return nil
	}
}

// WithoutMultiAction rejects submitted code containing more than one action.
func WithoutMultiAction() Option {
	return func(c *setConfig) error {
		c.multiAction = false
		return nil
	}
}

// WithStrict makes statements that are not valid action calls fail the whole
// execution instead of being skipped.
func WithStrict() Option {
	return func(c *setConfig) error {
		c.strict = true
		return nil
	}
}

// NewActionSet builds an action set from the catalog.
func NewActionSet(opts ...Option) (*ActionSet, error) {
	cfg := setConfig{
		subsets:     []Subset{SubsetChat, SubsetInfeas, SubsetBid, SubsetNav, SubsetTab},
		demoMode:    "",
		multiAction: true,
	}
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	var allow []glob.Glob
	for _, p := range cfg.allowPatterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid action pattern %q: %w", p, err)
		}
		allow = append(allow, g)
	}

	set := &ActionSet{
		byName:         make(map[string]*ActionSpec),
		demoMode:       cfg.demoMode,
		retryWithForce: cfg.retryWithForce,
		multiAction:    cfg.multiAction,
		strict:         cfg.strict,
	}
	for _, spec := range Catalog() {
		if !specInSubsets(spec, cfg.subsets) {
			continue
		}
		if allow != nil && !matchesAny(allow, spec.Name) {
			continue
		}
		set.specs = append(set.specs, spec)
		set.byName[spec.Name] = spec
	}
	if len(set.specs) == 0 {
		return nil, fmt.Errorf("action set is empty: no catalog action matches the given subsets and patterns")
	}
	return set, nil
}

// specInSubsets reports whether the spec belongs to the configured subsets.
// Subset-less actions (noop) belong to every set.
func specInSubsets(spec *ActionSpec, subsets []Subset) bool {
	if len(spec.Subsets) == 0 {
		return true
	}
	for _, s := range subsets {
		if spec.InSubset(s) {
			return true
		}
	}
	return false
}

func matchesAny(globs []glob.Glob, name string) bool {
	for _, g := range globs {
		if g.Match(name) {
			return true
		}
	}
	return false
}

// Actions returns the specs of this set in catalog order.
func (s *ActionSet) Actions() []*ActionSpec {
	out := make([]*ActionSpec, len(s.specs))
	copy(out, s.specs)
	return out
}

// Lookup returns the spec for an action name, if the set contains it.
func (s *ActionSet) Lookup(name string) (*ActionSpec, bool) {
	spec, ok := s.byName[name]
	return spec, ok
}

// Describe renders the agent-facing documentation of the set: one block per
// action with its signature, optionally its description and usage examples.
// The output is deterministic for a given set.
func (s *ActionSet) Describe(withLongDescription, withExamples bool) string {
	var sb strings.Builder
	for i, spec := range s.specs {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(spec.Signature)
		sb.WriteString("\n")
		if withLongDescription {
			sb.WriteString("    Description: ")
			sb.WriteString(spec.Description)
			sb.WriteString("\n")
		}
		if withExamples && len(spec.Examples) > 0 {
			sb.WriteString("    Examples:\n")
			for _, ex := range spec.Examples {
				sb.WriteString("        ")
				sb.WriteString(ex)
				sb.WriteString("\n")
			}
		}
	}
	return sb.String()
}

// ExampleAction returns a usage example drawn from the set's actions, for
// seeding prompts. With abstract set, it returns a placeholder form instead
// of a concrete example.
func (s *ActionSet) ExampleAction(abstract bool) string {
	if abstract {
		return "One single action to be executed. You can only use one action at a time."
	}
	var examples []string
	for _, spec := range s.specs {
		examples = append(examples, spec.Examples...)
	}
	if len(examples) == 0 {
		return ""
	}
	return examples[rand.Intn(len(examples))]
}

// PromptTokens reports how many tokens the set's rendered documentation
// occupies under the given tiktoken encoding (e.g. "cl100k_base"). Useful
// when budgeting a system prompt around the action space.
func (s *ActionSet) PromptTokens(encoding string, withLongDescription, withExamples bool) (int, error) {
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return 0, fmt.Errorf("failed to load encoding %q: %w", encoding, err)
	}
	return len(enc.Encode(s.Describe(withLongDescription, withExamples), nil, nil)), nil
}

// Names returns the sorted action names of the set.
func (s *ActionSet) Names() []string {
	names := make([]string, 0, len(s.byName))
	for name := range s.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ToCode renders a parsed call back to its canonical source form. Rendering
// then re-parsing yields an equivalent call.
func ToCode(call *Call) string {
	var sb strings.Builder
	sb.WriteString(call.Name)
	sb.WriteString("(")
	for i, arg := range call.Args {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(renderValue(arg))
	}
	kwargNames := make([]string, 0, len(call.Kwargs))
	for name := range call.Kwargs {
		kwargNames = append(kwargNames, name)
	}
	sort.Strings(kwargNames)
	for _, name := range kwargNames {
		if sb.Len() > len(call.Name)+1 {
			sb.WriteString(", ")
		}
		sb.WriteString(name)
		sb.WriteString("=")
		sb.WriteString(renderValue(call.Kwargs[name]))
	}
	sb.WriteString(")")
	return sb.String()
}

func renderValue(v any) string {
	switch v := v.(type) {
	case string:
		return renderString(v)
	case float64:
		return strconv64(v)
	case bool:
		if v {
			return "true"
		}
		return "false"
	case nil:
		return "none"
	case []any:
		var sb strings.Builder
		sb.WriteString("[")
		for i, item := range v {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(renderValue(item))
		}
		sb.WriteString("]")
		return sb.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

// renderString single-quotes a string with the escapes the parser accepts.
func renderString(s string) string {
	var sb strings.Builder
	sb.WriteByte('\'')
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\'':
			sb.WriteString(`\'`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		case '\r':
			sb.WriteString(`\r`)
		default:
			sb.WriteByte(c)
		}
	}
	sb.WriteByte('\'')
	return sb.String()
}

func strconv64(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%g", v)
}
