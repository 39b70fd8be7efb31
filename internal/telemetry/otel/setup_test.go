package otel

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel"
)

func TestNewProviders_EmptyEndpointIsNoop(t *testing.T) {
	ctx := context.Background()

	for _, endpoint := range []string{"", "   "} {
		p, err := NewProviders(ctx, endpoint, "test-service", false)
		if err != nil {
			t.Fatalf("NewProviders(%q): %v", endpoint, err)
		}
		if p.TracerProvider == nil || p.MeterProvider == nil || p.LoggerProvider == nil {
			t.Fatal("no-op providers should still be non-nil")
		}
		if err := p.Shutdown(ctx); err != nil {
			t.Errorf("no-op Shutdown: %v", err)
		}
	}
}

func TestSetGlobal_WiresTracerAndMeter(t *testing.T) {
	ctx := context.Background()

	prevTracer := otel.GetTracerProvider()
	prevMeter := otel.GetMeterProvider()
	defer func() {
		otel.SetTracerProvider(prevTracer)
		otel.SetMeterProvider(prevMeter)
	}()

	p, err := NewProviders(ctx, "", "test-service", false)
	if err != nil {
		t.Fatalf("NewProviders: %v", err)
	}
	p.SetGlobal()

	if otel.GetTracerProvider() != p.TracerProvider {
		t.Error("global TracerProvider should be the one from Providers")
	}
	if otel.GetMeterProvider() != p.MeterProvider {
		t.Error("global MeterProvider should be the one from Providers")
	}

	// Spans started through the global entry point must actually record,
	// or every instrumented call site is a no-op.
	_, span := otel.Tracer("test").Start(ctx, "op")
	defer span.End()
	if !span.IsRecording() {
		t.Error("span started via global tracer should be recording")
	}
	if !span.SpanContext().IsValid() {
		t.Error("span started via global tracer should have a valid context")
	}
}

func TestNewProviders_InvalidEndpoint(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name     string
		endpoint string
	}{
		{"scheme only", "http://"},
		{"unparseable", "http://[::1"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewProviders(ctx, tc.endpoint, "test-service", false); err == nil {
				t.Errorf("NewProviders(%q) should return error", tc.endpoint)
			}
		})
	}
}
