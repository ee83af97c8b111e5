// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package json

import (
	"encoding/json"
	"fmt"

	"pdf-extract/internal/formatters"
	"pdf-extract/internal/formatters/shared"
)

// Formatter implements JSON output formatting
type Formatter struct{}

// NewFormatter creates a new JSON formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

func (f *Formatter) Name() string {
	return "json"
}

func (f *Formatter) Description() string {
	return "Structured JSON output for programmatic consumption"
}

func (f *Formatter) FileExtension() string {
	return ".json"
}

func (f *Formatter) Format(report formatters.Report, options formatters.FormatterOptions) (string, error) {
	doc := shared.ConvertReport(report, options)

	var jsonData []byte
	var err error

	if options.Compact {
		jsonData, err = json.Marshal(doc)
	} else {
		jsonData, err = json.MarshalIndent(doc, "", "  ")
	}
	if err != nil {
		return "", fmt.Errorf("error formatting JSON: %w", err)
	}

	return string(jsonData) + "\n", nil
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
