// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package textextractrsclib

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"pdf-extract/internal/extractor"

	"rsc.io/pdf"
)

// EngineName is the registry key of this engine
const EngineName = "rsc"

func init() {
	extractor.RegisterEngine(EngineName, func(opts extractor.EngineOptions) (extractor.Engine, error) {
		if opts.Layout != "" && opts.Layout != "plain" {
			return nil, fmt.Errorf("unsupported layout '%s' for engine %s (only plain)", opts.Layout, EngineName)
		}
		return NewEngine(), nil
	})
}

// Engine extracts text using rsc.io/pdf content interpretation
type Engine struct{}

// NewEngine creates the engine
func NewEngine() *Engine {
	return &Engine{}
}

// Name returns the registry key
func (e *Engine) Name() string {
	return EngineName
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

	return &document{reader: reader}, nil
}

type document struct {
	reader *pdf.Reader
}

func (d *document) NumPages() int {
	return d.reader.NumPage()
}

func (d *document) PageText(n int) (string, error) {
	p := d.reader.Page(n)
	if p.V.IsNull() {
		return "", fmt.Errorf("page %d not found", n)
	}
	if p.V.Key("Contents").IsNull() {
		return "", nil
	}

	return joinRuns(p.Content().Text), nil
}

func (d *document) Close() error {
	return nil
}

// joinRuns assembles glyph runs in content order. A vertical jump of more
// than half the font size starts a new line; a horizontal gap wider than
// 20% of the font size becomes a space.
func joinRuns(runs []pdf.Text) string {
	var b strings.Builder

	for i, run := range runs {
		if i > 0 {
			prev := runs[i-1]
			size := prev.FontSize
			if size <= 0 {
				size = 12
			}

			switch {
			case math.Abs(run.Y-prev.Y) > size/2:
				b.WriteByte('\n')
			case run.X-(prev.X+prev.W) > size*0.2 && !strings.HasSuffix(prev.S, " ") && run.S != " ":
				b.WriteByte(' ')
			}
		}
		b.WriteString(run.S)
	}

	return b.String()
}
