// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package extractor

import (
	"strings"
	"unicode/utf8"
)

// Page is the text extracted from one page
type Page struct {
	Number int    `json:"number" yaml:"number"` // 1-based
	Text   string `json:"text" yaml:"text"`
}

// Stats summarizes the accumulated text
type Stats struct {
	WordCount int `json:"word_count" yaml:"word_count"`
	CharCount int `json:"char_count" yaml:"char_count"`
	LineCount int `json:"line_count" yaml:"line_count"`
}

// Result is the outcome of a successful Extract call
type Result struct {
	Path      string `json:"path" yaml:"path"`
	Engine    string `json:"engine" yaml:"engine"`
	PageCount int    `json:"page_count" yaml:"page_count"`
	Pages     []Page `json:"pages" yaml:"pages"`

	// Text is every non-empty page text followed by "\n", in page order
	Text string `json:"text" yaml:"text"`

	EmptyPages int   `json:"empty_pages" yaml:"empty_pages"`
	Truncated  bool  `json:"truncated,omitempty" yaml:"truncated,omitempty"`
	Stats      Stats `json:"stats" yaml:"stats"`
}

// PageTexts returns the per-page texts in page order
func (r *Result) PageTexts() []string {
	texts := make([]string, len(r.Pages))
	for i, p := range r.Pages {
		texts[i] = p.Text
	}
	return texts
}

func computeStats(text string) Stats {
	if text == "" {
		return Stats{}
	}
	return Stats{
		WordCount: len(strings.Fields(text)),
		CharCount: utf8.RuneCountInString(text),
		LineCount: strings.Count(text, "\n"),
	}
}
