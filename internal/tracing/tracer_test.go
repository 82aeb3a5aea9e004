package tracing

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

func TestInit_StdoutExporter(t *testing.T) {
	shutdown, err := Init(context.Background(), "test-service", "1.0.0", "stdout", "", 1.0, false)
	if err != nil {
		t.Fatalf("Init with stdout exporter: %v", err)
	}
	defer shutdown(context.Background())

	if otel.GetTracerProvider() == nil {
		t.Fatal("expected non-nil TracerProvider")
	}
	if otel.GetTextMapPropagator() == nil {
		t.Fatal("expected non-nil TextMapPropagator")
	}
}

func TestInit_UnknownExporter(t *testing.T) {
	_, err := Init(context.Background(), "test", "1.0.0", "unknown", "", 1.0, false)
	if err == nil {
		t.Fatal("expected error for unknown exporter")
	}
}

func TestInit_Shutdown(t *testing.T) {
	shutdown, err := Init(context.Background(), "test-service", "1.0.0", "stdout", "", 0.5, false)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
}

func TestInit_SetsW3CPropagator(t *testing.T) {
	shutdown, err := Init(context.Background(), "test", "1.0.0", "stdout", "", 1.0, false)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer shutdown(context.Background())

	fields := otel.GetTextMapPropagator().Fields()
	foundTraceparent := false
	for _, f := range fields {
		if f == "traceparent" {
			foundTraceparent = true
		}
	}
	if !foundTraceparent {
		t.Errorf("expected 'traceparent' in propagator fields, got %v", fields)
	}
}

func TestNewExporter_OTLPVariants(t *testing.T) {
	// Exporter creation must succeed without a collector listening.
	for _, tc := range []struct {
		name     string
		endpoint string
	}{
		{"otlp-grpc", "localhost:4317"},
		{"otlp-http", "localhost:4318"},
	} {
		exp, err := newExporter(context.Background(), tc.name, tc.endpoint, true)
		if err != nil {
			t.Fatalf("newExporter %s: %v", tc.name, err)
		}
		if exp == nil {
			t.Fatalf("newExporter %s: nil exporter", tc.name)
		}
	}
}

// Ensure global state is clean for later tests by resetting to noop.
func TestInit_ResetGlobal(t *testing.T) {
	otel.SetTracerProvider(trace.NewNoopTracerProvider())
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator())
}
