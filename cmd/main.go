// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"pdf-extract/internal/config"
	"pdf-extract/internal/extractor"
	"pdf-extract/internal/help"
	"pdf-extract/internal/observability"
	"pdf-extract/internal/security"
	"pdf-extract/internal/version"

	"pdf-extract/internal/formatters"
	_ "pdf-extract/internal/formatters/json"
	_ "pdf-extract/internal/formatters/text"
	_ "pdf-extract/internal/formatters/yaml"

	metaextractpdflib "pdf-extract/internal/preprocessors/meta-extractors/meta-extract-pdflib"
	_ "pdf-extract/internal/preprocessors/text-extractors/text-extract-pdftextlib"
	_ "pdf-extract/internal/preprocessors/text-extractors/text-extract-rsclib"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Exit codes
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

// traceFormat streams the page trace instead of rendering a formatter
const traceFormat = "trace"

// cliFlags holds command line flag values
type cliFlags struct {
	inputFile    string
	configFile   string
	profileName  string
	listProfiles bool
	format       string
	engine       string
	layout       string
	password     string
	maxPages     int
	normalize    bool
	outputFile   string
	info         bool
	verbose      bool
	compact      bool
	noColor      bool
	quiet        bool
	debug        bool
	showVersion  bool
	showHelp     bool
}

// app carries the streams a run writes to
type app struct {
	stdout io.Writer
	stderr io.Writer
	fs     *flag.FlagSet
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	a := &app{stdout: stdout, stderr: stderr}

	flags, err := a.parseFlags(args)
	if err != nil {
		if err == flag.ErrHelp {
			return exitOK
		}
		return exitUsage
	}

	if flags.showVersion {
		fmt.Fprintln(stdout, version.Info())
		return exitOK
	}

	if flags.showHelp {
		h := help.NewSystem(stdout, flags.noColor || !isTerminal(stdout))
		if !h.ShowTopic(a.fs.Arg(0)) {
			fmt.Fprintf(stderr, "Unknown help topic '%s'. Try --help engines\n", a.fs.Arg(0))
			return exitUsage
		}
		return exitOK
	}

	cfg, ok := a.loadConfiguration(flags.configFile)
	if !ok {
		return exitUsage
	}

	if flags.listProfiles {
		a.printProfiles(cfg)
		return exitOK
	}

	var activeProfile *config.Profile
	if flags.profileName != "" {
		activeProfile = cfg.GetProfile(flags.profileName)
		if activeProfile == nil {
			fmt.Fprintf(stderr, "Error: profile '%s' not found in configuration. Use --list-profiles to see available profiles\n", flags.profileName)
			return exitUsage
		}
	}

	settings := a.resolveSettings(cfg, activeProfile, flags)
	if err := validateFormat(settings.Format); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}

	// Colors only make sense on a terminal
	color.NoColor = settings.NoColor || !isTerminal(stdout)

	observer := newObserver(settings.Debug, stderr)
	defer func() {
		_ = observer.Sync()
	}()

	password := security.NewSecret(settings.Password)
	defer password.Clear()

	if flags.info {
		return a.runInfo(settings, flags, observer, password)
	}

	engine, err := extractor.NewEngine(settings.Engine, extractor.EngineOptions{Layout: settings.Layout})
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := extractor.Options{
		Password:    password,
		MaxPages:    settings.MaxPages,
		Normalize:   settings.Normalize,
		Color:       !color.NoColor,
		Diagnostics: stdout,
		Observer:    observer,
	}
	if settings.Format == traceFormat && !settings.Quiet {
		opts.Trace = stdout
	}

	x := extractor.New(engine, opts)
	result, err := x.Extract(ctx, settings.Path)
	if err != nil {
		extractor.ReportError(stdout, err)
		return exitFailure
	}

	if settings.Format == traceFormat && flags.outputFile == "" {
		return exitOK
	}

	format := settings.Format
	if format == traceFormat {
		format = "text"
	}
	report := formatters.Report{Result: result}
	if err := a.writeReport(format, report, settings, flags); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailure
	}
	return exitOK
}

func (a *app) parseFlags(args []string) (*cliFlags, error) {
	f := &cliFlags{}
	fs := flag.NewFlagSet("pdf-extract", flag.ContinueOnError)
	fs.SetOutput(a.stderr)

	fs.StringVar(&f.inputFile, "file", "", "Path to the input PDF (a positional argument is also accepted)")
	fs.StringVar(&f.configFile, "config", "", "Path to configuration file (YAML)")
	fs.StringVar(&f.profileName, "profile", "", "Profile name to use from config file")
	fs.BoolVar(&f.listProfiles, "list-profiles", false, "List available profiles in config file")
	fs.StringVar(&f.format, "format", "", "Output format: trace, text, json, yaml (default: trace)")
	fs.StringVar(&f.engine, "engine", "", "Text extraction engine (default: "+extractor.DefaultEngine+")")
	fs.StringVar(&f.layout, "layout", "", "Text layout: plain or rows (default: plain)")
	fs.StringVar(&f.password, "password", "", "User password for encrypted documents")
	fs.IntVar(&f.maxPages, "max-pages", 0, "Stop after this many pages (0 = all)")
	fs.BoolVar(&f.normalize, "normalize", false, "Apply Unicode NFC normalization to extracted text")
	fs.StringVar(&f.outputFile, "output", "", "Path to output file (if not specified, output to stdout)")
	fs.BoolVar(&f.info, "info", false, "Print document metadata and exit")
	fs.BoolVar(&f.verbose, "verbose", false, "Include per-page detail and statistics in formatted output")
	fs.BoolVar(&f.compact, "compact", false, "Emit single-line JSON instead of indented output")
	fs.BoolVar(&f.noColor, "no-color", false, "Disable colored output")
	fs.BoolVar(&f.quiet, "quiet", false, "Suppress the per-page trace")
	fs.BoolVar(&f.debug, "debug", false, "Enable debug logging of extraction steps to stderr")
	fs.BoolVar(&f.showVersion, "version", false, "Show version information")
	fs.BoolVar(&f.showHelp, "help", false, "Show help information")

	fs.Usage = func() {
		help.NewSystem(a.stderr, true).ShowGeneralHelp()
	}

	a.fs = fs
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return f, nil
}

// loadConfiguration loads the configuration file or returns default config.
// A file named with --config must load; a discovered one only warns.
func (a *app) loadConfiguration(configFile string) (*config.Config, bool) {
	cfg, err := config.LoadConfigOrDefault(configFile)
	if err != nil {
		if configFile != "" {
			fmt.Fprintf(a.stderr, "Error: loading config file: %v\n", err)
			return nil, false
		}
		fmt.Fprintf(a.stderr, "Warning: Error loading config file: %v\n", err)
		fmt.Fprintf(a.stderr, "Using default configuration\n")
	}
	return cfg, true
}

func (a *app) printProfiles(cfg *config.Config) {
	profiles := cfg.ListProfiles()
	if len(profiles) == 0 {
		fmt.Fprintln(a.stdout, "No profiles defined in configuration file.")
		return
	}

	fmt.Fprintln(a.stdout, "Available profiles:")
	for _, name := range profiles {
		profile := cfg.GetProfile(name)
		if profile != nil && profile.Description != "" {
			fmt.Fprintf(a.stdout, "  - %s: %s\n", name, profile.Description)
		} else {
			fmt.Fprintf(a.stdout, "  - %s\n", name)
		}
	}
}

// resolveSettings layers the profile over the config defaults and explicit
// flags over both. The input path comes from --file, then the first
// positional argument, then configuration.
func (a *app) resolveSettings(cfg *config.Config, activeProfile *config.Profile, flags *cliFlags) config.Settings {
	settings := cfg.Defaults
	if activeProfile != nil {
		settings = activeProfile.Apply(settings)
	}

	a.fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "format":
			settings.Format = flags.format
		case "engine":
			settings.Engine = flags.engine
		case "layout":
			settings.Layout = flags.layout
		case "password":
			settings.Password = flags.password
		case "max-pages":
			settings.MaxPages = flags.maxPages
		case "normalize":
			settings.Normalize = flags.normalize
		case "compact":
			settings.Compact = flags.compact
		case "no-color":
			settings.NoColor = flags.noColor
		case "quiet":
			settings.Quiet = flags.quiet
		case "debug":
			settings.Debug = flags.debug
		}
	})

	switch {
	case flags.inputFile != "":
		settings.Path = flags.inputFile
	case a.fs.NArg() > 0:
		settings.Path = a.fs.Arg(0)
	case settings.Path == "":
		settings.Path = config.DefaultPath
	}
	return settings
}

// runInfo prints document metadata instead of extracting text
func (a *app) runInfo(settings config.Settings, flags *cliFlags, observer *observability.StandardObserver, password *security.Secret) int {
	inspector := metaextractpdflib.NewInspector().WithPassword(password)
	finish := observer.Track(inspector, "inspect", settings.Path)
	metadata, err := inspector.ExtractMetadata(settings.Path)
	finish(err == nil, nil)
	if err != nil {
		extractor.ReportError(a.stdout, err)
		return exitFailure
	}

	format := settings.Format
	if format == traceFormat {
		format = "text"
	}
	if err := a.writeReport(format, formatters.Report{Metadata: metadata}, settings, flags); err != nil {
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
		return exitFailure
	}
	return exitOK
}

// writeReport renders report and writes it to --output or stdout
func (a *app) writeReport(format string, report formatters.Report, settings config.Settings, flags *cliFlags) error {
	toFile := flags.outputFile != ""
	output, err := formatters.Export(format, report, formatters.FormatterOptions{
		NoColor: color.NoColor || toFile,
		Verbose: flags.verbose,
		Compact: settings.Compact,
	})
	if err != nil {
		return err
	}

	if !toFile {
		_, err := io.WriteString(a.stdout, output)
		return err
	}

	outputPath := filepath.Clean(flags.outputFile)
	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	if err := os.WriteFile(outputPath, []byte(output), 0600); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}
	fmt.Fprintf(a.stderr, "Results written to %s\n", outputPath)
	return nil
}

func validateFormat(format string) error {
	if format == traceFormat {
		return nil
	}
	if _, ok := formatters.Get(format); !ok {
		return fmt.Errorf("unsupported format '%s'. Use trace or one of %v", format, formatters.List())
	}
	return nil
}

// newObserver returns a debug observer writing to stderr when debug is
// enabled, and a silent one otherwise
func newObserver(debug bool, stderr io.Writer) *observability.StandardObserver {
	if debug {
		return observability.NewDebugObserver(stderr).StandardObserver
	}
	return observability.NewStandardObserver(observability.ObservabilityOff, nil)
}

// isTerminal reports whether w is a terminal
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
