// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package observability

import (
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// StandardObserver implements observability for all components
type StandardObserver struct {
	level         ObservabilityLevel
	writer        io.Writer
	logger        *zap.Logger
	runID         string
	DebugObserver *DebugObserver // Reference to debug observer when in debug mode
}

type ObservabilityLevel int

const (
	ObservabilityOff     ObservabilityLevel = 0
	ObservabilityMetrics ObservabilityLevel = 1
	ObservabilityDebug   ObservabilityLevel = 2
)

// NewStandardObserver creates observability component writing JSON records to writer
func NewStandardObserver(level ObservabilityLevel, writer io.Writer) *StandardObserver {
	if writer == nil {
		writer = io.Discard
	}

	return &StandardObserver{
		level:  level,
		writer: writer,
		logger: newLogger(level, writer),
		runID:  uuid.NewString(),
	}
}

func newLogger(level ObservabilityLevel, writer io.Writer) *zap.Logger {
	if level == ObservabilityOff {
		return zap.NewNop()
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	minLevel := zapcore.InfoLevel
	if level == ObservabilityDebug {
		minLevel = zapcore.DebugLevel
	}

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), zapcore.AddSync(writer), minLevel)
	return zap.New(core)
}

// Level returns the configured level
func (o *StandardObserver) Level() ObservabilityLevel {
	return o.level
}

// RunID identifies every record written by this observer
func (o *StandardObserver) RunID() string {
	return o.runID
}

// Logger returns the underlying structured logger
func (o *StandardObserver) Logger() *zap.Logger {
	return o.logger
}

// Track starts timing an operation of component
func (o *StandardObserver) Track(component Observable, operation, filePath string) func(success bool, metadata map[string]interface{}) {
	return o.StartTiming(component.GetComponentName(), operation, filePath)
}

// StartTiming returns a function to complete timing
func (o *StandardObserver) StartTiming(component, operation, filePath string) func(success bool, metadata map[string]interface{}) {
	start := time.Now()

	return func(success bool, metadata map[string]interface{}) {
		duration := time.Since(start)

		data := StandardObservabilityData{
			Component:  component,
			Operation:  operation,
			FilePath:   filePath,
			DurationMs: duration.Milliseconds(),
			Success:    success,
			Metadata:   metadata,
		}
		if msg, ok := metadata["error"].(string); ok {
			data.Error = msg
		}

		o.LogOperation(data)
	}
}

// LogOperation logs operation data
func (o *StandardObserver) LogOperation(data StandardObservabilityData) {
	if o.level == ObservabilityOff {
		return
	}

	data.RequestID = uuid.NewString()

	fields := []zap.Field{
		zap.String("run_id", o.runID),
		zap.String("request_id", data.RequestID),
		zap.String("component", data.Component),
		zap.String("operation", data.Operation),
		zap.Bool("success", data.Success),
		zap.Int64("duration_ms", data.DurationMs),
	}
	if data.FilePath != "" {
		fields = append(fields, zap.String("file_path", data.FilePath))
	}
	if data.Error != "" {
		fields = append(fields, zap.String("error", data.Error))
	}
	if len(data.Metadata) > 0 {
		fields = append(fields, zap.Any("metadata", data.Metadata))
	}

	switch {
	case !data.Success:
		o.logger.Warn("operation failed", fields...)
	case o.level == ObservabilityDebug:
		o.logger.Debug("operation", fields...)
	default:
		o.logger.Info("operation", fields...)
	}
}

// Sync flushes buffered records
func (o *StandardObserver) Sync() error {
	return o.logger.Sync()
}

// StandardObservabilityData for all components
type StandardObservabilityData struct {
	Component  string                 `json:"component"`
	Operation  string                 `json:"operation"`
	RequestID  string                 `json:"request_id"`
	FilePath   string                 `json:"file_path,omitempty"`
	DurationMs int64                  `json:"duration_ms,omitempty"`
	Success    bool                   `json:"success"`
	Error      string                 `json:"error,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
}
