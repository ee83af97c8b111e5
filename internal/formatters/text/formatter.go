// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package text

import (
	"fmt"
	"strings"

	"pdf-extract/internal/extractor"
	"pdf-extract/internal/formatters"
	metaextractpdflib "pdf-extract/internal/preprocessors/meta-extractors/meta-extract-pdflib"

	"github.com/fatih/color"
)

// Formatter implements text-based output formatting
type Formatter struct {
	colors map[string]*color.Color
}

// NewFormatter creates a new text formatter
func NewFormatter() *Formatter {
	return &Formatter{
		colors: map[string]*color.Color{
			"yellow": color.New(color.FgYellow),
			"cyan":   color.New(color.FgCyan),
			"white":  color.New(color.FgWhite, color.Bold),
		},
	}
}

func (f *Formatter) Name() string {
	return "text"
}

func (f *Formatter) Description() string {
	return "Plain extracted text; verbose adds page headers and statistics"
}

func (f *Formatter) FileExtension() string {
	return ".txt"
}

// Format writes the accumulated text exactly as Extract returned it.
// Verbose output separates pages and appends a summary.
func (f *Formatter) Format(report formatters.Report, options formatters.FormatterOptions) (string, error) {
	var builder strings.Builder

	if report.Metadata != nil {
		f.appendMetadata(&builder, report.Metadata, options)
	}

	if r := report.Result; r != nil {
		if report.Metadata != nil {
			builder.WriteString("\n")
		}
		if !options.Verbose {
			builder.WriteString(r.Text)
			return builder.String(), nil
		}
		f.appendPages(&builder, r, options)
		f.appendSummary(&builder, r, options)
	}

	return builder.String(), nil
}

// appendPages writes each page under its header, marking pages with no text
func (f *Formatter) appendPages(builder *strings.Builder, r *extractor.Result, options formatters.FormatterOptions) {
	for _, page := range r.Pages {
		header := fmt.Sprintf("=== PAGE %d ===", page.Number)
		builder.WriteString(f.paint("white", header, options))
		builder.WriteString("\n")

		if page.Text == "" {
			builder.WriteString(f.paint("yellow", "(no text)", options))
			builder.WriteString("\n")
			continue
		}
		builder.WriteString(page.Text)
		builder.WriteString("\n")
	}
}

// appendSummary adds a one-line statistics footer
func (f *Formatter) appendSummary(builder *strings.Builder, r *extractor.Result, options formatters.FormatterOptions) {
	summary := fmt.Sprintf("%d pages (%d empty), %d words, %d characters",
		r.PageCount, r.EmptyPages, r.Stats.WordCount, r.Stats.CharCount)
	if r.Truncated {
		summary += fmt.Sprintf(", stopped after %d", len(r.Pages))
	}

	builder.WriteString("\n")
	builder.WriteString(f.paint("cyan", summary, options))
	builder.WriteString("\n")
}

// appendMetadata writes the document properties as aligned label/value lines
func (f *Formatter) appendMetadata(builder *strings.Builder, m *metaextractpdflib.Metadata, options formatters.FormatterOptions) {
	rows := [][2]string{
		{"File", m.Filename},
		{"Size", fmt.Sprintf("%d bytes", m.FileSize)},
		{"Version", m.Version},
		{"Pages", fmt.Sprintf("%d", m.PageCount)},
		{"Title", m.Title},
		{"Author", m.Author},
		{"Subject", m.Subject},
		{"Creator", m.Creator},
		{"Producer", m.Producer},
	}
	if m.CreatedDate != nil {
		rows = append(rows, [2]string{"Created", m.CreatedDate.Format("2006-01-02 15:04:05 -0700")})
	}
	rows = append(rows,
		[2]string{"Encrypted", yesNo(m.Encrypted)},
		[2]string{"Valid", yesNo(m.Valid)},
	)
	if m.Validation != "" {
		rows = append(rows, [2]string{"Validation", m.Validation})
	}

	for _, row := range rows {
		if row[1] == "" {
			continue
		}
		label := fmt.Sprintf("%-11s", row[0]+":")
		fmt.Fprintf(builder, "%s %s\n", f.paint("cyan", label, options), row[1])
	}
}

// paint colors s unless colors are disabled
func (f *Formatter) paint(name, s string, options formatters.FormatterOptions) string {
	if options.NoColor {
		return s
	}
	return f.colors[name].Sprint(s)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
