// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package help

import (
	"fmt"
	"io"
	"text/tabwriter"

	"pdf-extract/internal/config"
	"pdf-extract/internal/extractor"
	"pdf-extract/internal/formatters"
	"pdf-extract/internal/paths"

	"github.com/fatih/color"
)

// System renders the command line help
type System struct {
	out     io.Writer
	noColor bool
	colors  map[string]*color.Color
}

// NewSystem creates a new help system writing to out
func NewSystem(out io.Writer, noColor bool) *System {
	return &System{
		out:     out,
		noColor: noColor,
		colors: map[string]*color.Color{
			"title":   color.New(color.FgWhite, color.Bold),
			"header":  color.New(color.FgBlue, color.Bold),
			"item":    color.New(color.FgCyan),
			"example": color.New(color.FgMagenta),
		},
	}
}

func (h *System) println(name, s string) {
	if h.noColor {
		fmt.Fprintln(h.out, s)
		return
	}
	h.colors[name].Fprintln(h.out, s)
}

// ShowGeneralHelp displays usage, options, examples and configuration locations
func (h *System) ShowGeneralHelp() {
	h.println("title", "pdf-extract - Page by page PDF text extraction")
	fmt.Fprintln(h.out, "==============================================")
	fmt.Fprintln(h.out)
	h.println("header", "USAGE:")
	fmt.Fprintln(h.out, "  pdf-extract [options] [path-to-pdf]")
	fmt.Fprintln(h.out)

	h.println("header", "OPTIONS:")

	w := tabwriter.NewWriter(h.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  --file\t<path>\tPDF to read (default: %s)\n", config.DefaultPath)
	fmt.Fprintln(w, "  --config\t<path>\tPath to configuration file (YAML)")
	fmt.Fprintln(w, "  --profile\t<name>\tProfile name to use from config file")
	fmt.Fprintln(w, "  --list-profiles\t\tList available profiles and exit")
	fmt.Fprintln(w, "  --format\t<format>\tOutput format: trace (default), text, json, yaml")
	fmt.Fprintln(w, "  --engine\t<name>\tText extraction engine (default: ledongthuc)")
	fmt.Fprintln(w, "  --layout\t<layout>\tText layout: plain (default) or rows")
	fmt.Fprintln(w, "  --password\t<password>\tUser password for encrypted documents")
	fmt.Fprintln(w, "  --max-pages\t<n>\tStop after n pages (default: 0, all pages)")
	fmt.Fprintln(w, "  --normalize\t\tApply Unicode NFC normalization to extracted text")
	fmt.Fprintln(w, "  --output\t<path>\tWrite formatted output to a file instead of stdout")
	fmt.Fprintln(w, "  --info\t\tPrint document metadata and exit")
	fmt.Fprintln(w, "  --verbose\t\tInclude pages and statistics in text, json and yaml output")
	fmt.Fprintln(w, "  --compact\t\tEmit single-line JSON")
	fmt.Fprintln(w, "  --no-color\t\tDisable colored output")
	fmt.Fprintln(w, "  --quiet\t\tSuppress the per-page trace")
	fmt.Fprintln(w, "  --debug\t\tLog extraction steps to stderr")
	fmt.Fprintln(w, "  --version\t\tShow version information")
	fmt.Fprintln(w, "  --help\t\tShow this help message")
	fmt.Fprintln(w, "  --help engines\t\tList extraction engines and output formats")
	w.Flush()

	fmt.Fprintln(h.out)
	h.println("header", "EXAMPLES:")
	h.println("example", "    pdf-extract")
	h.println("example", "    pdf-extract --file menu.pdf --layout rows")
	h.println("example", "    pdf-extract menu.pdf --format json --output menu.json")
	h.println("example", "    pdf-extract --info secured.pdf --password s3cret")
	h.println("example", "    pdf-extract --config pdf-extract.yaml --profile plain")

	fmt.Fprintln(h.out)
	h.println("header", "CONFIGURATION:")
	fmt.Fprintf(h.out, "  Default config: %s\n", paths.GetConfigFile())
	fmt.Fprintln(h.out, "  Project config: pdf-extract.yaml or .pdf-extract.yaml (in current directory)")
	fmt.Fprintf(h.out, "  Environment: %s - Override config directory\n", paths.ConfigDirEnv)
}

// ShowEnginesHelp lists the registered engines and formatters
func (h *System) ShowEnginesHelp() {
	h.println("header", "ENGINES:")
	for _, name := range extractor.Engines() {
		marker := ""
		if name == extractor.DefaultEngine {
			marker = " (default)"
		}
		h.println("item", "  "+name+marker)
	}

	fmt.Fprintln(h.out)
	h.println("header", "FORMATS:")
	w := tabwriter.NewWriter(h.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  trace\tStream page headers and text while extracting (default)")
	for _, info := range formatters.GetSupportedFormats() {
		fmt.Fprintf(w, "  %s\t%s\n", info.Name, info.Description)
	}
	w.Flush()
}

// ShowTopic renders help for a named topic, reporting false if unknown
func (h *System) ShowTopic(topic string) bool {
	switch topic {
	case "", "general":
		h.ShowGeneralHelp()
	case "engines", "formats":
		h.ShowEnginesHelp()
	default:
		return false
	}
	return true
}
