// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package extractor runs the page-by-page text extraction pipeline on top of
// a pluggable PDF Engine.
package extractor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"pdf-extract/internal/observability"
	"pdf-extract/internal/security"

	"github.com/fatih/color"
	"golang.org/x/text/unicode/norm"
)

// headerWindow is how far into the file the %PDF- marker may appear
const headerWindow = 1024

var headerPattern = regexp.MustCompile(`%PDF-(\d+\.\d+)`)

// Options configures an Extractor
type Options struct {
	// Password is tried when the document is encrypted; nil means none
	Password *security.Secret

	// MaxPages stops extraction after that many pages (0 = all)
	MaxPages int

	// Normalize applies Unicode NFC normalization to every page text
	Normalize bool

	// Trace receives the "=== PAGE n ===" progress trace; nil disables it
	Trace io.Writer

	// Color enables colored trace headers
	Color bool

	// Diagnostics receives the "Error reading PDF:" line written by
	// ExtractText; nil means os.Stdout
	Diagnostics io.Writer

	// Observer records timing and debug steps; nil disables it
	Observer *observability.StandardObserver
}

// Extractor extracts text from PDF files one page at a time
type Extractor struct {
	engine   Engine
	opts     Options
	header   *color.Color
	observer *observability.StandardObserver
}

// New creates an Extractor backed by engine
func New(engine Engine, opts Options) *Extractor {
	header := color.New(color.FgCyan, color.Bold)
	if opts.Color {
		header.EnableColor()
	} else {
		header.DisableColor()
	}

	observer := opts.Observer
	if observer == nil {
		observer = observability.NewStandardObserver(observability.ObservabilityOff, nil)
	}

	return &Extractor{
		engine:   engine,
		opts:     opts,
		header:   header,
		observer: observer,
	}
}

// GetComponentName returns the component identifier
func (x *Extractor) GetComponentName() string {
	return "extractor"
}

// Engine returns the engine the extractor was built with
func (x *Extractor) Engine() Engine {
	return x.engine
}

// Extract opens path, extracts every page in order and returns the result.
// All failures are returned as *Error.
func (x *Extractor) Extract(ctx context.Context, path string) (result *Result, err error) {
	finish := x.observer.Track(x, "extract", path)
	defer func() {
		meta := map[string]interface{}{}
		if result != nil {
			meta["pages"] = result.PageCount
			meta["empty_pages"] = result.EmptyPages
			meta["chars"] = result.Stats.CharCount
		}
		if err != nil {
			meta["error"] = err.Error()
		}
		finish(err == nil, meta)
	}()

	if x.engine == nil {
		return nil, newParseError(path, 0, "no engine configured", nil)
	}

	f, size, err := openRegular(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if _, err := HeaderVersion(f); err != nil {
		return nil, newParseError(path, 0, "", err)
	}

	doc, err := x.openDocument(f, size)
	if err != nil {
		return nil, newParseError(path, 0, "", err)
	}
	defer doc.Close()

	pageCount := doc.NumPages()
	result = &Result{
		Path:      path,
		Engine:    x.engine.Name(),
		PageCount: pageCount,
		Pages:     make([]Page, 0, pageCount),
	}

	limit := pageCount
	if x.opts.MaxPages > 0 && x.opts.MaxPages < pageCount {
		limit = x.opts.MaxPages
		result.Truncated = true
	}

	var text strings.Builder
	for n := 1; n <= limit; n++ {
		if err := ctx.Err(); err != nil {
			return nil, newCanceledError(path, n, err)
		}

		x.traceHeader(n)

		pageText, err := x.pageText(doc, path, n)
		if err != nil {
			return nil, err
		}

		result.Pages = append(result.Pages, Page{Number: n, Text: pageText})
		if pageText == "" {
			result.EmptyPages++
			continue
		}

		text.WriteString(pageText)
		text.WriteByte('\n')
		x.traceText(pageText)
	}

	result.Text = text.String()
	result.Stats = computeStats(result.Text)
	return result, nil
}

// ExtractText is the best-effort form of Extract: any failure is reported as
// "Error reading PDF: <details>" on the diagnostics writer and the absent
// result ("", false) is returned.
func (x *Extractor) ExtractText(ctx context.Context, path string) (string, bool) {
	result, err := x.Extract(ctx, path)
	if err != nil {
		ReportError(x.diagnostics(), err)
		return "", false
	}
	return result.Text, true
}

// ReportError writes the diagnostic line for a failed extraction
func ReportError(w io.Writer, err error) {
	fmt.Fprintf(w, "Error reading PDF: %v\n", err)
}

func (x *Extractor) openDocument(r io.ReaderAt, size int64) (doc Document, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			doc, err = nil, fmt.Errorf("engine %s panicked: %v", x.engine.Name(), rec)
		}
	}()
	doc, err = x.engine.Open(r, size, x.opts.Password.Reveal())
	if err != nil {
		if errors.Is(err, ErrEncrypted) {
			return nil, fmt.Errorf("cannot decrypt document: %w", err)
		}
		return nil, err
	}
	return doc, nil
}

func (x *Extractor) pageText(doc Document, path string, n int) (text string, err error) {
	if debug := x.observer.DebugObserver; debug != nil {
		done := debug.StartStep(x.GetComponentName(), fmt.Sprintf("page %d", n), path)
		defer func() {
			done(err == nil, fmt.Sprintf("%d chars", len(text)))
		}()
	}

	defer func() {
		if rec := recover(); rec != nil {
			text, err = "", newParseError(path, n, "text extraction panicked", fmt.Errorf("%v", rec))
		}
	}()

	text, err = doc.PageText(n)
	if err != nil {
		return "", newParseError(path, n, "text extraction failed", err)
	}
	if x.opts.Normalize {
		text = norm.NFC.String(text)
	}
	return text, nil
}

func (x *Extractor) traceHeader(n int) {
	if x.opts.Trace == nil {
		return
	}
	fmt.Fprintln(x.opts.Trace)
	x.header.Fprintf(x.opts.Trace, "=== PAGE %d ===", n)
	fmt.Fprintln(x.opts.Trace)
}

func (x *Extractor) traceText(text string) {
	if x.opts.Trace == nil {
		return
	}
	fmt.Fprintln(x.opts.Trace, text)
}

func (x *Extractor) diagnostics() io.Writer {
	if x.opts.Diagnostics != nil {
		return x.opts.Diagnostics
	}
	return os.Stdout
}

// openRegular opens path for reading and returns its size. Anything other
// than a readable regular file is an IOError.
func openRegular(path string) (*os.File, int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, 0, newIOError(path, "file does not exist", err)
		}
		return nil, 0, newIOError(path, "cannot stat file", err)
	}
	if !info.Mode().IsRegular() {
		return nil, 0, newIOError(path, "not a regular file", nil)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, 0, newIOError(path, "cannot open file", err)
	}
	return f, info.Size(), nil
}

// HeaderVersion returns the version from the %PDF-x.y header found in the
// first KiB of r, or ErrNotPDF.
func HeaderVersion(r io.ReaderAt) (string, error) {
	buf := make([]byte, headerWindow)
	n, err := r.ReadAt(buf, 0)
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading header: %w", err)
	}
	buf = buf[:n]

	if m := headerPattern.FindSubmatch(buf); len(m) >= 2 {
		return string(m[1]), nil
	}
	if bytes.Contains(buf, []byte("%PDF-")) {
		return "Unknown", nil
	}
	return "", ErrNotPDF
}
