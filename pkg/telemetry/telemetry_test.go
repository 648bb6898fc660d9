package telemetry

import (
	"context"
	"testing"

	"social-feed/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitTracer_NoEndpoint(t *testing.T) {
	shutdown, err := InitTracer(context.Background(), &config.Config{})
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))
}

func TestInitTracer_WithEndpoint(t *testing.T) {
	cfg := &config.Config{OTELEndpoint: "localhost:4318", OTELServiceName: "social-feed-test"}

	shutdown, err := InitTracer(context.Background(), cfg)
	require.NoError(t, err)
	require.NotNil(t, shutdown)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = shutdown(ctx)
}

func TestNewResource_CarriesServiceName(t *testing.T) {
	res, err := newResource(context.Background(), "social-feed-test")
	require.NoError(t, err)

	value, ok := res.Set().Value("service.name")
	require.True(t, ok)
	assert.Equal(t, "social-feed-test", value.AsString())

	_, ok = res.Set().Value("telemetry.sdk.name")
	assert.True(t, ok)
}
