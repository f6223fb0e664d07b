// Package config loads the runtime configuration: which browser to launch,
// which slice of the action catalog to expose and the execution policy
// applied to submitted code.
package config

import (
	"fmt"
	"os"

	"github.com/entrhq/actionspace/pkg/actions"
	"github.com/entrhq/actionspace/pkg/browser/playwrightengine"
	"gopkg.in/yaml.v3"
)

// BrowserConfig controls the launched browser.
type BrowserConfig struct {
	Headless       bool `yaml:"headless"`
	SkipInstall    bool `yaml:"skip_install"`
	ViewportWidth  int  `yaml:"viewport_width"`
	ViewportHeight int  `yaml:"viewport_height"`
}

// ActionsConfig controls the exposed action space and execution policy.
type ActionsConfig struct {
	// Subsets of the catalog to expose. Defaults to chat, infeas, bid,
	// nav and tab.
	Subsets []string `yaml:"subsets"`

	// AllowedActions optionally restricts the set to matching names,
	// glob patterns allowed (e.g. "tab_*").
	AllowedActions []string `yaml:"allowed_actions"`

	// DemoMode is one of off, default, all_blue, only_visible_elements.
	DemoMode string `yaml:"demo_mode"`

	RetryWithForce bool `yaml:"retry_with_force"`
	MultiAction    bool `yaml:"multi_action"`
	Strict         bool `yaml:"strict"`
}

// Config is the root configuration.
type Config struct {
	Browser BrowserConfig `yaml:"browser"`
	Actions ActionsConfig `yaml:"actions"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Browser: BrowserConfig{
			Headless:       true,
			ViewportWidth:  playwrightengine.DefaultViewportWidth,
			ViewportHeight: playwrightengine.DefaultViewportHeight,
		},
		Actions: ActionsConfig{
			Subsets:     []string{"chat", "infeas", "bid", "nav", "tab"},
			DemoMode:    string(actions.DemoOff),
			MultiAction: true,
		},
	}
}

// Load reads a YAML configuration file over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks the configuration for values the runtime would reject.
func (c *Config) Validate() error {
	switch actions.DemoMode(c.Actions.DemoMode) {
	case actions.DemoOff, actions.DemoDefault, actions.DemoAllBlue, actions.DemoOnlyVisible:
	default:
		return fmt.Errorf("invalid demo_mode %q", c.Actions.DemoMode)
	}
	for _, s := range c.Actions.Subsets {
		switch actions.Subset(s) {
		case actions.SubsetChat, actions.SubsetInfeas, actions.SubsetBid,
			actions.SubsetCoord, actions.SubsetNav, actions.SubsetTab:
		default:
			return fmt.Errorf("invalid action subset %q", s)
		}
	}
	if c.Browser.ViewportWidth < 0 || c.Browser.ViewportHeight < 0 {
		return fmt.Errorf("viewport dimensions must be positive")
	}
	return nil
}

// ActionSetOptions translates the configuration into action-set options.
func (c *Config) ActionSetOptions() []actions.Option {
	var opts []actions.Option

	if len(c.Actions.Subsets) > 0 {
		subsets := make([]actions.Subset, len(c.Actions.Subsets))
		for i, s := range c.Actions.Subsets {
			subsets[i] = actions.Subset(s)
		}
		opts = append(opts, actions.WithSubsets(subsets...))
	}
	if len(c.Actions.AllowedActions) > 0 {
		opts = append(opts, actions.WithAllowedActions(c.Actions.AllowedActions...))
	}
	if c.Actions.DemoMode != "" && c.Actions.DemoMode != string(actions.DemoOff) {
		opts = append(opts, actions.WithDemoMode(actions.DemoMode(c.Actions.DemoMode)))
	}
	if c.Actions.RetryWithForce {
		opts = append(opts, actions.WithRetryWithForce())
	}
	if !c.Actions.MultiAction {
		opts = append(opts, actions.WithoutMultiAction())
	}
	if c.Actions.Strict {
		opts = append(opts, actions.WithStrict())
	}
	return opts
}

// EngineOptions translates the configuration into engine options.
func (c *Config) EngineOptions() playwrightengine.Options {
	return playwrightengine.Options{
		Headless:       c.Browser.Headless,
		SkipInstall:    c.Browser.SkipInstall,
		ViewportWidth:  c.Browser.ViewportWidth,
		ViewportHeight: c.Browser.ViewportHeight,
	}
}
