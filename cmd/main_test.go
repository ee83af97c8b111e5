// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pdf-extract/internal/config"
	"pdf-extract/internal/paths"
	"pdf-extract/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCLI runs the command in an isolated working and config directory
func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	t.Setenv(paths.ConfigDirEnv, t.TempDir())
	t.Chdir(t.TempDir())

	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_TraceDefault(t *testing.T) {
	path := testutil.WritePDF(t, testutil.PDFOptions{}, "Hello", "World", testutil.ImageOnly)

	code, stdout, _ := runCLI(t, path)
	require.Equal(t, exitOK, code)

	// Headers are uncolored off a terminal
	assert.Equal(t, "\n=== PAGE 1 ===\nHello\n\n=== PAGE 2 ===\nWorld\n\n=== PAGE 3 ===\n", stdout)
}

func TestRun_EnginesAgreeOnText(t *testing.T) {
	path := testutil.WritePDF(t, testutil.PDFOptions{}, "Hello", "World", testutil.ImageOnly)

	for _, args := range [][]string{
		{"-engine", "ledongthuc", "-layout", "plain"},
		{"-engine", "ledongthuc", "-layout", "rows"},
		{"-engine", "rsc"},
	} {
		code, stdout, _ := runCLI(t, append(args, "-format", "text", path)...)
		require.Equal(t, exitOK, code, args)
		assert.Equal(t, "Hello\nWorld\n", stdout, args)
	}
}

func TestRun_QuietTracePrintsNothing(t *testing.T) {
	path := testutil.WritePDF(t, testutil.PDFOptions{}, "Hello")

	code, stdout, _ := runCLI(t, "-quiet", "-file", path)
	assert.Equal(t, exitOK, code)
	assert.Empty(t, stdout)
}

func TestRun_MissingFileReportsAndFails(t *testing.T) {
	code, stdout, _ := runCLI(t, "-file", filepath.Join(t.TempDir(), "nope.pdf"))

	assert.Equal(t, exitFailure, code)
	assert.True(t, strings.HasPrefix(stdout, "Error reading PDF: IOError:"), stdout)
}

func TestRun_DefaultPathWhenNoneGiven(t *testing.T) {
	code, stdout, _ := runCLI(t)

	assert.Equal(t, exitFailure, code)
	assert.Contains(t, stdout, config.DefaultPath)
}

func TestRun_NotPDF(t *testing.T) {
	path := testutil.WriteFile(t, "notes.pdf", []byte("just some notes"))

	code, stdout, _ := runCLI(t, path)
	assert.Equal(t, exitFailure, code)
	assert.Contains(t, stdout, "Error reading PDF: ParseError:")
}

func TestRun_JSONFormat(t *testing.T) {
	path := testutil.WritePDF(t, testutil.PDFOptions{}, "Hello", "")

	code, stdout, _ := runCLI(t, "-format", "json", path)
	require.Equal(t, exitOK, code)
	assert.NotContains(t, stdout, "=== PAGE", "trace is off for formatted output")

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(stdout), &decoded))
	assert.EqualValues(t, 2, decoded["page_count"])
	assert.EqualValues(t, 1, decoded["empty_pages"])
	assert.Equal(t, "Hello\n", decoded["text"])
	assert.Contains(t, stdout, "\n  \"text\": ", "indented by default")
}

func TestRun_CompactJSON(t *testing.T) {
	path := testutil.WritePDF(t, testutil.PDFOptions{}, "Hello")

	code, stdout, _ := runCLI(t, "-format", "json", "-compact", path)
	require.Equal(t, exitOK, code)
	assert.Equal(t, 1, strings.Count(stdout, "\n"), "one line of JSON")
	assert.True(t, json.Valid([]byte(stdout)))

	// The config key does the same
	cfgPath := filepath.Join(t.TempDir(), "pdf-extract.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("defaults:\n  format: json\n  compact: true\n"), 0600))
	code, stdout, _ = runCLI(t, "-config", cfgPath, path)
	require.Equal(t, exitOK, code)
	assert.Equal(t, 1, strings.Count(stdout, "\n"))
}

func TestRun_OutputFile(t *testing.T) {
	path := testutil.WritePDF(t, testutil.PDFOptions{}, "Hello")
	out := filepath.Join(t.TempDir(), "out", "menu.txt")

	code, stdout, stderr := runCLI(t, "-format", "text", "-output", out, path)
	require.Equal(t, exitOK, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "Results written to")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Hello")
}

func TestRun_Info(t *testing.T) {
	path := testutil.WritePDF(t, testutil.PDFOptions{Title: "Breakfast"}, "Hello", "World")

	code, stdout, _ := runCLI(t, "-info", "-format", "yaml", path)
	require.Equal(t, exitOK, code)
	assert.Contains(t, stdout, "title: Breakfast")
	assert.Contains(t, stdout, "page_count: 2")
}

func TestRun_ProfileFromConfig(t *testing.T) {
	path := testutil.WritePDF(t, testutil.PDFOptions{}, "Hello")
	cfgPath := filepath.Join(t.TempDir(), "pdf-extract.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("profiles:\n  machine:\n    description: JSON\n    format: json\n    path: "+path+"\n"), 0600))

	code, stdout, _ := runCLI(t, "-config", cfgPath, "-profile", "machine")
	require.Equal(t, exitOK, code)
	assert.True(t, strings.HasPrefix(stdout, "{"))

	// Flags win over the profile
	code, stdout, _ = runCLI(t, "-config", cfgPath, "-profile", "machine", "-format", "text")
	require.Equal(t, exitOK, code)
	assert.Contains(t, stdout, "Hello")
	assert.False(t, strings.HasPrefix(stdout, "{"))
}

func TestRun_ListProfiles(t *testing.T) {
	code, stdout, _ := runCLI(t, "-list-profiles")
	assert.Equal(t, exitOK, code)
	assert.Contains(t, stdout, "  - plain: ")
}

func TestRun_UsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown flag", []string{"-bogus"}},
		{"unknown profile", []string{"-profile", "missing"}},
		{"unknown format", []string{"-format", "csv"}},
		{"unknown engine", []string{"-engine", "mupdf"}},
		{"unsupported layout", []string{"-engine", "rsc", "-layout", "rows"}},
		{"missing config", []string{"-config", "/nonexistent/pdf-extract.yaml"}},
		{"unknown help topic", []string{"-help", "checks"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, _ := runCLI(t, tt.args...)
			assert.Equal(t, exitUsage, code)
		})
	}
}

func TestRun_VersionAndHelp(t *testing.T) {
	code, stdout, _ := runCLI(t, "-version")
	assert.Equal(t, exitOK, code)
	assert.True(t, strings.HasPrefix(stdout, "pdf-extract "))

	code, stdout, _ = runCLI(t, "-help", "engines")
	assert.Equal(t, exitOK, code)
	assert.Contains(t, stdout, "ledongthuc (default)")
	assert.Contains(t, stdout, "rsc")
}

func TestRun_DebugWritesSteps(t *testing.T) {
	path := testutil.WritePDF(t, testutil.PDFOptions{}, "Hello")

	code, _, stderr := runCLI(t, "-debug", "-quiet", path)
	require.Equal(t, exitOK, code)
	assert.Contains(t, stderr, "extractor")
}
