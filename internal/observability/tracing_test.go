package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"

	"github.com/xxxsen/transcript-analytics/internal/config"
)

func TestInitTracingDisabled(t *testing.T) {
	shutdown, err := InitTracing(context.Background(), config.TracingConfig{}, "test")
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))

	ctx, span := StartSpan(context.Background(), "keywords", attribute.Int("words", 3))
	require.NotNil(t, ctx)
	span.End()
}

func TestInitTracingStdout(t *testing.T) {
	cfg := config.Default().Tracing
	cfg.Enabled = true
	shutdown, err := InitTracing(context.Background(), cfg, "test")
	require.NoError(t, err)
	_, span := StartSpan(context.Background(), "topics")
	span.End()
	require.NoError(t, shutdown(context.Background()))
}
