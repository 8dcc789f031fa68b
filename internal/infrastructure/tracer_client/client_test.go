package tracer_client

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracer_WithoutProvider(t *testing.T) {
	require.Nil(t, Provider())

	_, span := Tracer("frame_engine").Start(context.Background(), "frame")
	assert.False(t, span.SpanContext().IsSampled())
	span.End()

	assert.NoError(t, Shutdown(context.Background()))
}

func TestOptions(t *testing.T) {
	opt := defaultOptions()
	for _, fn := range []Option{
		WithEndpoint("otel:4317"),
		WithInsecure(true),
		WithServiceName("dash"),
		WithAgentID("car-7"),
		WithSampleRatio(0.1),
	} {
		fn(&opt)
	}

	assert.Equal(t, "otel:4317", opt.Endpoint)
	assert.True(t, opt.Insecure)
	assert.Equal(t, "dash", opt.ServiceName)
	assert.Equal(t, "car-7", opt.AgentID)
	assert.Equal(t, 0.1, opt.SampleRatio)
}
