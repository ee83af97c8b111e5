// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package help

import (
	"bytes"
	"testing"

	"pdf-extract/internal/extractor"
	_ "pdf-extract/internal/formatters/json"

	"github.com/stretchr/testify/assert"
)

func TestShowGeneralHelp(t *testing.T) {
	var buf bytes.Buffer
	NewSystem(&buf, true).ShowGeneralHelp()

	out := buf.String()
	assert.Contains(t, out, "USAGE:")
	assert.Contains(t, out, "--max-pages")
	assert.Contains(t, out, "assets/breakfast-menu.pdf")
	assert.Contains(t, out, "PDF_EXTRACT_CONFIG_DIR")
}

func TestShowEnginesHelp(t *testing.T) {
	extractor.RegisterEngine("help-test", func(extractor.EngineOptions) (extractor.Engine, error) {
		return nil, nil
	})

	var buf bytes.Buffer
	NewSystem(&buf, true).ShowEnginesHelp()

	out := buf.String()
	assert.Contains(t, out, "  help-test\n")
	assert.Contains(t, out, "trace")
	assert.Contains(t, out, "json")
}

func TestShowTopic(t *testing.T) {
	var buf bytes.Buffer
	h := NewSystem(&buf, true)

	assert.True(t, h.ShowTopic("formats"))
	assert.False(t, h.ShowTopic("checks"))
}
