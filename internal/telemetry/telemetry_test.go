package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"github.com/mento-app/mento-server/internal/config"
)

func TestSetup_NoopWithoutEndpoint(t *testing.T) {
	before := otel.GetTracerProvider()

	shutdown, err := Setup(context.Background(), config.Telemetry{ServiceName: "mento-test"}, "dev")
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
	assert.Equal(t, before, otel.GetTracerProvider())
}

func TestSetup_RegistersProvider(t *testing.T) {
	// 192.0.2.0/24 is reserved for documentation; nothing is exported.
	shutdown, err := Setup(context.Background(), config.Telemetry{
		Endpoint:    "http://192.0.2.1:4318",
		ServiceName: "mento-test",
	}, "dev")
	require.NoError(t, err)

	_, span := otel.Tracer("telemetry-test").Start(context.Background(), "startup-check")
	assert.True(t, span.SpanContext().IsValid())
	span.End()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = shutdown(ctx)
}
