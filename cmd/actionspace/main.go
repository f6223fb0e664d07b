// Package main provides the actionspace runner: it exposes a configured
// browser action space, executes submitted action code against a live page
// and prints chat-level output to the terminal.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/entrhq/actionspace/pkg/actions"
	"github.com/entrhq/actionspace/pkg/browser/playwrightengine"
	"github.com/entrhq/actionspace/pkg/config"
	"github.com/entrhq/actionspace/pkg/logging"
)

const version = "0.1.0"

// CLIConfig holds command-line configuration.
type CLIConfig struct {
	ConfigFile  string
	ScriptFile  string
	URL         string
	Describe    bool
	Headless    bool
	DemoMode    string
	ShowVersion bool
}

func main() {
	cli := parseFlags()

	if cli.ShowVersion {
		fmt.Printf("actionspace v%s\n", version)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\nshutting down...")
		cancel()
	}()

	if err := run(ctx, cli); err != nil {
		cancel()
		fmt.Fprintf(os.Stderr, "actionspace: %v\n", err)
		os.Exit(1)
	}
	cancel()
}

func parseFlags() *CLIConfig {
	cli := &CLIConfig{}

	flag.StringVar(&cli.ConfigFile, "config", "", "Path to YAML configuration file")
	flag.StringVar(&cli.ScriptFile, "script", "", "Path to action script ('-' for stdin)")
	flag.StringVar(&cli.URL, "url", "", "URL to open before executing the script")
	flag.BoolVar(&cli.Describe, "describe", false, "Print the action space documentation and exit")
	flag.BoolVar(&cli.Headless, "headless", true, "Run the browser headless")
	flag.StringVar(&cli.DemoMode, "demo", "", "Demo mode: off, default, all_blue, only_visible_elements")
	flag.BoolVar(&cli.ShowVersion, "version", false, "Show version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "actionspace v%s - browser action space runner\n\n", version)
		fmt.Fprintf(os.Stderr, "Usage: %s [flags]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Examples:\n")
		fmt.Fprintf(os.Stderr, "  actionspace -describe\n")
		fmt.Fprintf(os.Stderr, "  actionspace -url https://example.com -script steps.txt\n")
		fmt.Fprintf(os.Stderr, "  echo \"click('a51')\" | actionspace -url https://example.com -script -\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}

	flag.Parse()
	return cli
}

func loadConfig(cli *CLIConfig) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if cli.ConfigFile != "" {
		loaded, err := config.Load(cli.ConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	// Flags override file values.
	cfg.Browser.Headless = cli.Headless
	if cli.DemoMode != "" {
		cfg.Actions.DemoMode = cli.DemoMode
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(ctx context.Context, cli *CLIConfig) error {
	cfg, err := loadConfig(cli)
	if err != nil {
		return err
	}

	set, err := actions.NewActionSet(cfg.ActionSetOptions()...)
	if err != nil {
		return err
	}

	if cli.Describe {
		fmt.Print(set.Describe(true, true))
		return nil
	}

	code, err := readScript(cli.ScriptFile)
	if err != nil {
		return err
	}

	log, err := logging.New("cli")
	if err == nil {
		defer log.Close()
		log.Infof("session log at %s", log.Path())
	}

	engine := playwrightengine.New(cfg.EngineOptions())
	if err := engine.Start(); err != nil {
		return err
	}
	defer engine.Stop()

	bctx, err := engine.NewContext()
	if err != nil {
		return err
	}
	page := bctx.Pages()[0]

	if cli.URL != "" {
		if err := page.Goto(ctx, cli.URL); err != nil {
			return err
		}
	}

	sendMessage := func(ctx context.Context, text string) error {
		fmt.Printf("message: %s\n", text)
		return nil
	}
	reportInfeasible := func(ctx context.Context, text string) error {
		fmt.Printf("infeasible: %s\n", text)
		return nil
	}

	if err := set.Execute(ctx, code, page, sendMessage, reportInfeasible); err != nil {
		return err
	}
	fmt.Fprintln(os.Stderr, "done")
	return nil
}

func readScript(path string) (string, error) {
	switch path {
	case "":
		return "", fmt.Errorf("a script is required (use -script, or -describe to inspect the action space)")
	case "-":
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read script from stdin: %w", err)
		}
		return string(data), nil
	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read script: %w", err)
		}
		return string(data), nil
	}
}
