// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package testutil builds small, well-formed PDF files for tests.
package testutil

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// PDFOptions controls BuildPDF
type PDFOptions struct {
	Title    string
	Producer string

	// Created is written verbatim as the Info CreationDate when set
	Created string

	// Encrypted adds a Standard security handler entry whose owner and user
	// keys match no password, so every reader rejects it.
	Encrypted bool
}

// ImageOnly marks a page that draws a filled shape and no text
const ImageOnly = "\x00image"

// BuildPDF returns a PDF with one page per entry of pages. An empty entry
// produces a page with an empty content stream; ImageOnly produces a page
// whose content stream paints a rectangle but shows no text.
func BuildPDF(opts PDFOptions, pages ...string) []byte {
	var objects []string

	// 1: catalog, 2: page tree, 3: font, 4: info, then page/content pairs
	pageObj := func(i int) int { return 5 + 2*i }

	kids := make([]string, len(pages))
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", pageObj(i))
	}

	objects = append(objects,
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages)),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
		infoDict(opts),
	)

	for i, text := range pages {
		var content string
		switch text {
		case "":
			content = ""
		case ImageOnly:
			content = "0.5 g 72 72 200 200 re f"
		default:
			var lines []string
			for j, line := range strings.Split(text, "\n") {
				lines = append(lines, fmt.Sprintf("BT /F1 12 Tf 72 %d Td (%s) Tj ET", 720-16*j, escape(line)))
			}
			content = strings.Join(lines, "\n")
		}

		objects = append(objects,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents %d 0 R /Resources << /Font << /F1 3 0 R >> >> >>", pageObj(i)+1),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
		)
	}

	encryptObj := 0
	if opts.Encrypted {
		objects = append(objects, fmt.Sprintf("<< /Filter /Standard /V 1 /R 2 /Length 40 /P -4 /O <%s> /U <%s> >>",
			strings.Repeat("ab", 32), strings.Repeat("cd", 32)))
		encryptObj = len(objects)
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n")

	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}

	trailer := fmt.Sprintf("/Size %d /Root 1 0 R /Info 4 0 R /ID [<%s> <%s>]",
		len(objects)+1, strings.Repeat("01", 16), strings.Repeat("01", 16))
	if encryptObj > 0 {
		trailer += fmt.Sprintf(" /Encrypt %d 0 R", encryptObj)
	}
	fmt.Fprintf(&buf, "trailer\n<< %s >>\nstartxref\n%d\n%%%%EOF\n", trailer, xref)

	return buf.Bytes()
}

// WritePDF writes BuildPDF output into a temp dir and returns its path
func WritePDF(t testing.TB, opts PDFOptions, pages ...string) string {
	t.Helper()
	return WriteFile(t, "doc.pdf", BuildPDF(opts, pages...))
}

// WriteFile writes data to name inside a fresh temp dir and returns its path
func WriteFile(t testing.TB, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func infoDict(opts PDFOptions) string {
	info := fmt.Sprintf("/Title (%s) /Producer (%s)", escape(opts.Title), escape(opts.Producer))
	if opts.Created != "" {
		info += fmt.Sprintf(" /CreationDate (%s)", escape(opts.Created))
	}
	return "<< " + info + " >>"
}

func escape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)
	return r.Replace(s)
}
