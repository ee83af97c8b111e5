// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package observability

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardObserver_OffWritesNothing(t *testing.T) {
	var buf bytes.Buffer
	obs := NewStandardObserver(ObservabilityOff, &buf)

	obs.StartTiming("extractor", "extract", "a.pdf")(true, nil)

	assert.Empty(t, buf.String())
}

func TestStandardObserver_NilWriter(t *testing.T) {
	obs := NewStandardObserver(ObservabilityDebug, nil)
	assert.NotPanics(t, func() {
		obs.StartTiming("extractor", "extract", "a.pdf")(true, nil)
	})
}

func TestStandardObserver_DebugRecord(t *testing.T) {
	var buf bytes.Buffer
	obs := NewStandardObserver(ObservabilityDebug, &buf)

	obs.StartTiming("extractor", "extract", "menu.pdf")(true, map[string]interface{}{"pages": 3})

	var record map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "extractor", record["component"])
	assert.Equal(t, "extract", record["operation"])
	assert.Equal(t, "menu.pdf", record["file_path"])
	assert.Equal(t, obs.RunID(), record["run_id"])
	assert.NotEmpty(t, record["request_id"])
	assert.Equal(t, true, record["success"])
}

func TestStandardObserver_MetricsSkipsDebugButKeepsFailures(t *testing.T) {
	var buf bytes.Buffer
	obs := NewStandardObserver(ObservabilityMetrics, &buf)

	obs.StartTiming("extractor", "extract", "ok.pdf")(true, nil)
	obs.StartTiming("extractor", "extract", "bad.pdf")(false, map[string]interface{}{"error": "ParseError"})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], `"error":"ParseError"`)
	assert.Contains(t, lines[1], `"level":"warn"`)
}

func TestDebugObserver_Steps(t *testing.T) {
	var buf bytes.Buffer
	d := NewDebugObserver(&buf)
	require.Same(t, d, d.StandardObserver.DebugObserver)

	done := d.StartStep("extractor", "page 1", "menu.pdf")
	d.LogDetail("extractor", "engine ledongthuc")
	d.LogMetric("extractor", "chars", 5)
	done(true, "5 chars")

	out := buf.String()
	assert.Contains(t, out, "> extractor: page 1 (menu.pdf)")
	assert.Contains(t, out, "    - extractor: engine ledongthuc")
	assert.Contains(t, out, "chars = 5")
	assert.Contains(t, out, "< extractor: page 1 completed")
}

type namedComponent string

func (n namedComponent) GetComponentName() string { return string(n) }

func TestStandardObserver_TrackUsesComponentName(t *testing.T) {
	var buf bytes.Buffer
	obs := NewStandardObserver(ObservabilityMetrics, &buf)

	obs.Track(namedComponent("inspector"), "inspect", "menu.pdf")(true, nil)

	var record map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &record))
	assert.Equal(t, "inspector", record["component"])
	assert.Equal(t, "inspect", record["operation"])
}
