package otel

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/trace"
)

func TestInit_Disabled(t *testing.T) {
	t.Setenv("OTEL_SDK_DISABLED", "true")

	shutdown, err := Init(context.Background(), "ldapsync")

	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestInit_UnsupportedProtocolDegrades(t *testing.T) {
	t.Setenv("OTEL_SDK_DISABLED", "false")
	t.Setenv("OTEL_EXPORTER_OTLP_PROTOCOL", "carrier-pigeon")

	shutdown, err := Init(context.Background(), "ldapsync")

	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestGetSampler(t *testing.T) {
	tests := []struct {
		sampler string
		arg     string
		want    string
	}{
		{"always_on", "", trace.AlwaysSample().Description()},
		{"always_off", "", trace.NeverSample().Description()},
		{"traceidratio", "0.25", trace.TraceIDRatioBased(0.25).Description()},
		{"traceidratio", "garbage", trace.TraceIDRatioBased(1).Description()},
		{"parentbased_traceidratio", "7", trace.ParentBased(trace.TraceIDRatioBased(1)).Description()},
		{"", "", trace.ParentBased(trace.AlwaysSample()).Description()},
	}

	for _, tt := range tests {
		t.Run(tt.sampler+"/"+tt.arg, func(t *testing.T) {
			t.Setenv("OTEL_TRACES_SAMPLER", tt.sampler)
			t.Setenv("OTEL_TRACES_SAMPLER_ARG", tt.arg)
			assert.Equal(t, tt.want, getSampler().Description())
		})
	}
}
