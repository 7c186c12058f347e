package logging

import (
	"bytes"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogrusAdapter(t *testing.T) {
	tests := []struct {
		name        string
		level       string
		format      string
		expectLevel logrus.Level
	}{
		{
			name:        "debug level with text format",
			level:       "debug",
			format:      "text",
			expectLevel: logrus.DebugLevel,
		},
		{
			name:        "warn level with json format",
			level:       "warn",
			format:      "json",
			expectLevel: logrus.WarnLevel,
		},
		{
			name:        "invalid level defaults to info",
			level:       "invalid",
			format:      "text",
			expectLevel: logrus.InfoLevel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := NewLogrusAdapter(tt.level, tt.format)
			require.NotNil(t, logger)

			adapter, ok := logger.(*LogrusAdapter)
			require.True(t, ok, "logger should be a LogrusAdapter")
			assert.Equal(t, tt.expectLevel, adapter.logger.Level)
		})
	}
}

func TestLogrusAdapterFieldsAppearInOutput(t *testing.T) {
	var buf bytes.Buffer
	underlying := logrus.New()
	underlying.SetOutput(&buf)
	underlying.SetFormatter(&logrus.JSONFormatter{})

	logger := NewLogrusAdapterFromLogger(underlying)
	logger.Info("Normalized SMS alert",
		Field{Key: FieldAmount, Value: "500.00"},
		Field{Key: FieldCategory, Value: "Groceries"})

	out := buf.String()
	assert.Contains(t, out, `"amount":"500.00"`)
	assert.Contains(t, out, `"category":"Groceries"`)
	assert.Contains(t, out, "Normalized SMS alert")
}

func TestLogrusAdapterWithErrorAndField(t *testing.T) {
	var buf bytes.Buffer
	underlying := logrus.New()
	underlying.SetOutput(&buf)
	underlying.SetFormatter(&logrus.JSONFormatter{})

	logger := NewLogrusAdapterFromLogger(underlying).
		WithError(errors.New("boom")).
		WithField(FieldFile, "receipt.png")
	logger.Warn("Failed to load receipt image")

	out := buf.String()
	assert.Contains(t, out, `"error":"boom"`)
	assert.Contains(t, out, `"file_path":"receipt.png"`)
}

func TestMockLoggerRecords(t *testing.T) {
	mock := &MockLogger{}
	mock.Info("Processed inputs", Field{Key: FieldCount, Value: 3})
	assert.True(t, mock.HasEntry("INFO", "Processed inputs"))
	assert.False(t, mock.HasEntry("ERROR", "Processed inputs"))

	// Derived loggers record into their own entry list.
	derived, ok := mock.WithError(errors.New("x")).(*MockLogger)
	require.True(t, ok)
	derived.Warn("AI suggestion failed, keeping local result")
	assert.True(t, derived.HasEntry("WARN", "AI suggestion failed, keeping local result"))
	require.Len(t, derived.Entries, 2)
	assert.EqualError(t, derived.Entries[1].Error, "x")
}
