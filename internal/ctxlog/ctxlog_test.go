package ctxlog

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromContext_ReturnsAttachedLogger(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(buf, nil))
	ctx := WithLogger(context.Background(), logger)

	got := FromContext(ctx)
	require.Same(t, logger, got)

	got.Info("hello", "k", "v")
	assert.Contains(t, buf.String(), "k=v")
}

func TestFromContext_MissingLoggerDiscards(t *testing.T) {
	t.Parallel()

	got := FromContext(context.Background())
	require.NotNil(t, got)
	assert.NotPanics(t, func() { got.Info("dropped") })
}

func TestWith_AddsAttributes(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	ctx := WithLogger(context.Background(), slog.New(slog.NewTextHandler(buf, nil)))
	ctx = With(ctx, "run_id", "abc")

	FromContext(ctx).Info("step")
	assert.Contains(t, buf.String(), "run_id=abc")
}
