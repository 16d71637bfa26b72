package logging

import (
	"bytes"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferedLogger(level logrus.Level) (Logger, *bytes.Buffer) {
	logrusLogger := logrus.New()
	var buf bytes.Buffer
	logrusLogger.SetOutput(&buf)
	logrusLogger.SetLevel(level)
	logrusLogger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	return NewLogrusAdapterFromLogger(logrusLogger), &buf
}

func TestNewLogrusAdapter(t *testing.T) {
	tests := []struct {
		name        string
		level       string
		format      string
		expectLevel logrus.Level
		expectJSON  bool
	}{
		{name: "debug text", level: "debug", format: "text", expectLevel: logrus.DebugLevel},
		{name: "info json", level: "info", format: "json", expectLevel: logrus.InfoLevel, expectJSON: true},
		{name: "upper-case level", level: "WARN", format: "text", expectLevel: logrus.WarnLevel},
		{name: "invalid level defaults to info", level: "loud", format: "text", expectLevel: logrus.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := NewLogrusAdapter(tt.level, tt.format)
			adapter, ok := logger.(*LogrusAdapter)
			require.True(t, ok)
			assert.Equal(t, tt.expectLevel, adapter.logger.Level)

			_, isJSON := adapter.logger.Formatter.(*logrus.JSONFormatter)
			assert.Equal(t, tt.expectJSON, isJSON)
		})
	}
}

func TestLogrusAdapter_FieldsAndErrors(t *testing.T) {
	logger, buf := newBufferedLogger(logrus.DebugLevel)

	logger.
		WithField(FieldAccount, "Checking").
		WithError(errors.New("disk full")).
		Error("import failed", F(FieldCount, 3))

	output := buf.String()
	assert.Contains(t, output, "import failed")
	assert.Contains(t, output, "account=Checking")
	assert.Contains(t, output, "count=3")
	assert.Contains(t, output, "disk full")
}

func TestLogrusAdapter_LevelFiltering(t *testing.T) {
	logger, buf := newBufferedLogger(logrus.WarnLevel)

	logger.Info("hidden")
	logger.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestDiscardAndOrDiscard(t *testing.T) {
	assert.NotPanics(t, func() {
		Discard().Info("nothing")
		OrDiscard(nil).Warn("nothing")
	})

	mock := NewMockLogger()
	assert.Same(t, mock, OrDiscard(mock))
}

func TestMockLogger_SharedRecording(t *testing.T) {
	mock := NewMockLogger()
	child := mock.WithField(FieldBatchID, "b1").WithError(errors.New("boom"))

	mock.Info("parent entry")
	child.Warn("child entry", F(FieldRow, 4))

	entries := mock.Entries()
	require.Len(t, entries, 2)
	assert.True(t, mock.HasEntry("WARN", "child entry"))

	warn := mock.EntriesByLevel("WARN")
	require.Len(t, warn, 1)
	assert.EqualError(t, warn[0].Error, "boom")
	assert.Equal(t, []Field{{Key: FieldBatchID, Value: "b1"}, {Key: FieldRow, Value: 4}}, warn[0].Fields)
}

func TestConvertFields(t *testing.T) {
	fields := convertFields([]Field{F("a", 1), F("b", "two")})
	assert.Len(t, fields, 2)
	assert.Equal(t, 1, fields["a"])
	assert.Equal(t, "two", fields["b"])
	assert.Len(t, convertFields(nil), 0)
}

func TestInterfaces(t *testing.T) {
	var _ Logger = (*LogrusAdapter)(nil)
	var _ Logger = (*MockLogger)(nil)
}
