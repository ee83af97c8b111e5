// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package shared

import (
	"time"

	"pdf-extract/internal/extractor"
	"pdf-extract/internal/formatters"
	metaextractpdflib "pdf-extract/internal/preprocessors/meta-extractors/meta-extract-pdflib"
)

// Document is the top-level structure for JSON/YAML output
type Document struct {
	Path       string                      `json:"path,omitempty" yaml:"path,omitempty"`
	Engine     string                      `json:"engine,omitempty" yaml:"engine,omitempty"`
	PageCount  int                         `json:"page_count" yaml:"page_count"`
	Truncated  bool                        `json:"truncated,omitempty" yaml:"truncated,omitempty"`
	EmptyPages int                         `json:"empty_pages,omitempty" yaml:"empty_pages,omitempty"`
	Text       string                      `json:"text,omitempty" yaml:"text,omitempty"`
	Pages      []Page                      `json:"pages,omitempty" yaml:"pages,omitempty"`
	Stats      *extractor.Stats            `json:"stats,omitempty" yaml:"stats,omitempty"`
	Metadata   *metaextractpdflib.Metadata `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	Generated  string                      `json:"generated_at,omitempty" yaml:"generated_at,omitempty"`
}

// Page is one page in JSON/YAML format
type Page struct {
	Number int    `json:"number" yaml:"number"`
	Text   string `json:"text" yaml:"text"`
	Empty  bool   `json:"empty,omitempty" yaml:"empty,omitempty"`
}

// ConvertReport builds the shared JSON/YAML structure. Pages, stats and the
// generation time are included in verbose mode only.
func ConvertReport(report formatters.Report, options formatters.FormatterOptions) Document {
	var doc Document

	if r := report.Result; r != nil {
		doc.Path = r.Path
		doc.Engine = r.Engine
		doc.PageCount = r.PageCount
		doc.Truncated = r.Truncated
		doc.EmptyPages = r.EmptyPages
		doc.Text = r.Text

		if options.Verbose {
			doc.Pages = make([]Page, 0, len(r.Pages))
			for _, p := range r.Pages {
				doc.Pages = append(doc.Pages, Page{Number: p.Number, Text: p.Text, Empty: p.Text == ""})
			}
			stats := r.Stats
			doc.Stats = &stats
		}
	}

	if m := report.Metadata; m != nil {
		doc.Metadata = m
		if doc.Path == "" {
			doc.Path = m.Filename
		}
		if doc.PageCount == 0 {
			doc.PageCount = m.PageCount
		}
	}

	if options.Verbose {
		doc.Generated = time.Now().UTC().Format(time.RFC3339)
	}

	return doc
}
