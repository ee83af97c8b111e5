// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package metaextractpdflib

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"pdf-extract/internal/extractor"
	"pdf-extract/internal/testutil"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractMetadata_GeneratedDocument(t *testing.T) {
	path := testutil.WritePDF(t, testutil.PDFOptions{Title: "Breakfast (Menu)", Producer: "menu-builder"}, "Eggs", "Toast")

	md, err := NewInspector().ExtractMetadata(path)
	require.NoError(t, err)

	assert.Equal(t, "doc.pdf", md.Filename)
	assert.Equal(t, "1.4", md.Version)
	assert.Equal(t, 2, md.PageCount)
	assert.Equal(t, "Breakfast (Menu)", md.Title)
	assert.Equal(t, "menu-builder", md.Producer)
	assert.False(t, md.Encrypted)
	assert.True(t, md.Valid, md.Validation)
	assert.Positive(t, md.FileSize)
	assert.Nil(t, md.CreatedDate)
}

func TestExtractMetadata_CreationDate(t *testing.T) {
	path := testutil.WritePDF(t, testutil.PDFOptions{Title: "Menu", Created: "D:20240102030405Z"}, "Eggs")

	md, err := NewInspector().ExtractMetadata(path)
	require.NoError(t, err)

	require.NotNil(t, md.CreatedDate)
	assert.Equal(t, 2024, md.CreatedDate.Year())
	assert.Equal(t, time.January, md.CreatedDate.Month())
	assert.NotEmpty(t, md.Properties["CreationDate"])
}

func TestMetadata_JSONOmitsMissingDate(t *testing.T) {
	data, err := json.Marshal(&Metadata{Filename: "menu.pdf"})
	require.NoError(t, err)
	assert.NotContains(t, string(data), "created_date")

	created := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	data, err = json.Marshal(&Metadata{Filename: "menu.pdf", CreatedDate: &created})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"created_date":"2024-01-02T00:00:00Z"`)
}

func TestApplyInfo(t *testing.T) {
	md := &Metadata{Properties: map[string]string{}}
	applyInfo(&pdfcpu.PDFInfo{
		PageCount:        4,
		Title:            "Lunch",
		Author:           "Kitchen",
		Subject:          "Menu",
		Creator:          "writer",
		Producer:         "pdfcpu",
		CreationDate:     "D:20230405060708+01'00'",
		ModificationDate: "D:20230406",
		Encrypted:        true,
	}, md)

	assert.Equal(t, 4, md.PageCount)
	assert.Equal(t, "Lunch", md.Title)
	assert.Equal(t, "Kitchen", md.Author)
	assert.Equal(t, "Menu", md.Subject)
	assert.Equal(t, "writer", md.Creator)
	assert.Equal(t, "pdfcpu", md.Producer)
	assert.True(t, md.Encrypted)
	require.NotNil(t, md.CreatedDate)
	assert.True(t, md.CreatedDate.Equal(time.Date(2023, 4, 5, 5, 7, 8, 0, time.UTC)))
	assert.Equal(t, "D:20230406", md.Properties["ModificationDate"])
}

func TestExtractFromRawBytes(t *testing.T) {
	data := testutil.BuildPDF(testutil.PDFOptions{Title: "Raw (Title)", Encrypted: true}, "one", "two")

	md := &Metadata{Properties: map[string]string{}}
	extractFromRawBytes(data, md)

	assert.True(t, md.Encrypted)
	assert.Equal(t, 2, md.PageCount)
	assert.Equal(t, "Raw (Title)", md.Title)
}

func TestExtractMetadata_Encrypted(t *testing.T) {
	path := testutil.WritePDF(t, testutil.PDFOptions{Encrypted: true}, "secret")

	md, err := NewInspector().ExtractMetadata(path)
	require.NoError(t, err)

	assert.True(t, md.Encrypted)
	assert.False(t, md.Valid)
	assert.NotEmpty(t, md.Validation)
	assert.Equal(t, 1, md.PageCount)
}

func TestExtractMetadata_Missing(t *testing.T) {
	_, err := NewInspector().ExtractMetadata(filepath.Join(t.TempDir(), "missing.pdf"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file error")
}

func TestExtractMetadata_NotPDF(t *testing.T) {
	path := testutil.WriteFile(t, "notes.txt", []byte("plain text"))

	_, err := NewInspector().ExtractMetadata(path)
	assert.ErrorIs(t, err, extractor.ErrNotPDF)
}

func TestExtractStringField(t *testing.T) {
	dict := `/Title (A \(nested\) title) /Author <4A6F65> /Creator (x)`
	assert.Equal(t, "A (nested) title", extractStringField(dict, "Title"))
	assert.Equal(t, "Joe", extractStringField(dict, "Author"))
	assert.Equal(t, "", extractStringField(dict, "Subject"))
}

func TestParseInfoDate(t *testing.T) {
	got, err := parseInfoDate("D:20240102")
	require.NoError(t, err)
	assert.Equal(t, 2, got.Day())

	got, err = parseInfoDate("20240102030405-05'00'")
	require.NoError(t, err)
	assert.Equal(t, 8, got.UTC().Hour())

	got, err = parseInfoDate("2024-01-02T03:04:05Z")
	require.NoError(t, err)
	assert.Equal(t, 3, got.Hour())

	got, err = parseInfoDate("2024-01-02 03:04:05 +02:00")
	require.NoError(t, err)
	assert.Equal(t, 1, got.UTC().Hour())

	_, err = parseInfoDate("yesterday")
	assert.Error(t, err)
}

func TestParsePDFDate(t *testing.T) {
	got, err := parsePDFDate("D:20240102030405+02'00'")
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2024, 1, 2, 1, 4, 5, 0, time.UTC)))

	got, err = parsePDFDate("D:2023")
	require.NoError(t, err)
	assert.Equal(t, 2023, got.Year())
	assert.Equal(t, time.January, got.Month())

	_, err = parsePDFDate("D:1")
	assert.Error(t, err)
}

func TestContainsNonPrintableChars(t *testing.T) {
	assert.False(t, containsNonPrintableChars(""))
	assert.False(t, containsNonPrintableChars("Menu"))
	assert.True(t, containsNonPrintableChars("\x01\x02\x03ab"))
}
