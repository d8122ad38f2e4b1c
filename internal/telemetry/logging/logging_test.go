package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewDefaultsToSlogDefault(t *testing.T) {
	l := New(nil)
	assert.NotNil(t, l)
}

func TestLoggerWritesStructuredLines(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewTextHandler(&buf, nil))
	l := New(base)

	l.InfoCtx(context.Background(), "hello", "key", "value")
	assert.Contains(t, buf.String(), "hello")
	assert.Contains(t, buf.String(), "key=value")
}

func TestLoggerOmitsCorrelationWithoutSpan(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewTextHandler(&buf, nil))
	l := New(base)

	l.WarnCtx(context.Background(), "no span here")
	assert.NotContains(t, buf.String(), "trace_id")
}
