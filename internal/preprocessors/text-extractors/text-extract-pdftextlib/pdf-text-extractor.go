// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package textextractpdftextlib

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"pdf-extract/internal/extractor"

	"github.com/ledongthuc/pdf"
)

// EngineName is the registry key of this engine
const EngineName = "ledongthuc"

// Layout selects how page text is assembled
type Layout string

const (
	// LayoutPlain uses the library's plain text extraction
	LayoutPlain Layout = "plain"
	// LayoutRows rebuilds the page row by row with gap-based spacing
	LayoutRows Layout = "rows"
)

func init() {
	extractor.RegisterEngine(EngineName, func(opts extractor.EngineOptions) (extractor.Engine, error) {
		return NewEngine(opts.Layout)
	})
}

// Engine extracts text using ledongthuc/pdf
type Engine struct {
	layout Layout
}

// NewEngine creates the engine for the given layout ("" means plain)
func NewEngine(layout string) (*Engine, error) {
	switch Layout(layout) {
	case "", LayoutPlain:
		return &Engine{layout: LayoutPlain}, nil
	case LayoutRows:
		return &Engine{layout: LayoutRows}, nil
	default:
		return nil, fmt.Errorf("unsupported layout '%s' for engine %s (use plain or rows)", layout, EngineName)
	}
}

// Name returns the registry key
func (e *Engine) Name() string {
	return EngineName
}

// Layout returns the configured layout
func (e *Engine) Layout() Layout {
	return e.layout
}

// Open parses the PDF read from r
func (e *Engine) Open(r io.ReaderAt, size int64, password string) (extractor.Document, error) {
	var (
		reader *pdf.Reader
		err    error
	)

	if password == "" {
		reader, err = pdf.NewReader(r, size)
	} else {
		tried := false
		reader, err = pdf.NewReaderEncrypted(r, size, func() string {
			if tried {
				return ""
			}
			tried = true
			return password
		})
	}
	if err != nil {
		if errors.Is(err, pdf.ErrInvalidPassword) {
			return nil, fmt.Errorf("%w: %v", extractor.ErrEncrypted, err)
		}
		return nil, fmt.Errorf("error opening PDF: %w", err)
	}

	return &document{reader: reader, layout: e.layout}, nil
}

type document struct {
	reader *pdf.Reader
	layout Layout
}

func (d *document) NumPages() int {
	return d.reader.NumPage()
}

func (d *document) PageText(n int) (string, error) {
	p := d.reader.Page(n)
	if p.V.IsNull() {
		return "", fmt.Errorf("page %d not found", n)
	}

	// Pages without a content stream (blank or purely annotated) have no text layer
	if p.V.Key("Contents").IsNull() {
		return "", nil
	}

	var (
		text string
		err  error
	)
	switch d.layout {
	case LayoutRows:
		text, err = extractTextWithProperSpacing(p)
	default:
		text, err = plainText(p)
	}
	if err != nil {
		return "", err
	}
	return text, nil
}

// plainText is GetPlainText without the line breaks the library emits
// around each text object. Other whitespace is page content and is kept.
func plainText(p pdf.Page) (string, error) {
	text, err := p.GetPlainText(nil)
	if err != nil {
		return "", err
	}
	return strings.Trim(text, "\r\n"), nil
}

func (d *document) Close() error {
	return nil
}

// extractTextWithProperSpacing extracts text using row-based positioning for better spacing
func extractTextWithProperSpacing(p pdf.Page) (string, error) {
	rows, err := p.GetTextByRow()
	if err != nil {
		// Fallback to simple text extraction if row-based fails
		return plainText(p)
	}

	sortedRows := make([]*pdf.Row, 0, len(rows))
	for _, row := range rows {
		if row != nil && len(row.Content) > 0 {
			sortedRows = append(sortedRows, row)
		}
	}

	// PDF Y grows upwards, so the highest row is read first
	sort.SliceStable(sortedRows, func(i, j int) bool {
		return getAverageY(sortedRows[i].Content) > getAverageY(sortedRows[j].Content)
	})

	lines := make([]string, 0, len(sortedRows))
	for _, row := range sortedRows {
		rowText := reconstructRowText(row.Content)
		if rowText != "" {
			lines = append(lines, rowText)
		}
	}

	return strings.Join(lines, "\n"), nil
}

// getAverageY calculates the average Y coordinate for text elements in a row
func getAverageY(textElements []pdf.Text) float64 {
	if len(textElements) == 0 {
		return 0
	}

	var totalY float64
	for _, element := range textElements {
		totalY += element.Y
	}

	return totalY / float64(len(textElements))
}

// reconstructRowText reconstructs text from a row with proper spacing based on coordinates
func reconstructRowText(textElements []pdf.Text) string {
	if len(textElements) == 0 {
		return ""
	}

	sortedElements := make([]pdf.Text, len(textElements))
	copy(sortedElements, textElements)

	sort.SliceStable(sortedElements, func(i, j int) bool {
		return sortedElements[i].X < sortedElements[j].X
	})

	var buf bytes.Buffer

	for i, element := range sortedElements {
		buf.WriteString(element.S)

		if i < len(sortedElements)-1 {
			next := sortedElements[i+1]
			if needsSpace(element.X+element.W, next.X, element.FontSize) && !strings.HasSuffix(element.S, " ") {
				buf.WriteString(" ")
			}
		}
	}

	return buf.String()
}

// needsSpace reports whether the gap between two runs is wider than 20% of the font size
func needsSpace(currentEnd, nextStart, fontSize float64) bool {
	if fontSize <= 0 {
		fontSize = 12
	}
	return nextStart-currentEnd > fontSize*0.2
}
