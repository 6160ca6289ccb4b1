package observability

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/tbourn/go-eco-backend/internal/config"
)

func keepGlobals(t *testing.T) {
	t.Helper()
	tp, prop := otel.GetTracerProvider(), otel.GetTextMapPropagator()
	t.Cleanup(func() {
		otel.SetTracerProvider(tp)
		otel.SetTextMapPropagator(prop)
	})
}

func enabled(insecure bool) config.OTELConfig {
	return config.OTELConfig{
		Enabled:     true,
		Insecure:    insecure,
		Endpoint:    "localhost:4317",
		ServiceName: "go-eco-backend",
		SampleRatio: 1,
	}
}

func TestSetupOTel_DisabledIsNoop(t *testing.T) {
	keepGlobals(t)
	before := otel.GetTracerProvider()
	shutdown, err := SetupOTel(context.Background(), config.OTELConfig{}, "dev")
	if err != nil || shutdown == nil {
		t.Fatalf("err=%v shutdown nil=%v", err, shutdown == nil)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatal(err)
	}
	if otel.GetTracerProvider() != before {
		t.Fatal("provider replaced while disabled")
	}
}

func TestSetupOTel_InstallsProvider(t *testing.T) {
	for _, insecure := range []bool{true, false} {
		keepGlobals(t)
		shutdown, err := SetupOTel(context.Background(), enabled(insecure), "v1",
			attribute.String("eco.store.backend", "memory"))
		if err != nil {
			t.Fatalf("insecure=%v: %v", insecure, err)
		}
		if _, ok := otel.GetTracerProvider().(*sdktrace.TracerProvider); !ok {
			t.Fatalf("insecure=%v: provider not installed", insecure)
		}
		_, span := otel.Tracer("test").Start(context.Background(), "compute")
		span.End()
		_ = shutdown(context.Background())
	}
}

func TestSetupOTel_ResourceCarriesExtraAttributes(t *testing.T) {
	keepGlobals(t)
	orig := newResource
	t.Cleanup(func() { newResource = orig })

	var got []attribute.KeyValue
	newResource = func(ctx context.Context, attrs ...attribute.KeyValue) (*resource.Resource, error) {
		got = attrs
		return orig(ctx, attrs...)
	}
	shutdown, err := SetupOTel(context.Background(), enabled(true), "v2", attribute.String("eco.store.backend", "redis"))
	if err != nil {
		t.Fatal(err)
	}
	defer shutdown(context.Background())

	found := false
	for _, kv := range got {
		if kv.Key == "eco.store.backend" && kv.Value.AsString() == "redis" {
			found = true
		}
	}
	if !found {
		t.Fatalf("extra attribute missing: %v", got)
	}
}

func TestSetupOTel_ErrorsLeaveGlobals(t *testing.T) {
	keepGlobals(t)
	origExp, origRes := newExporter, newResource
	t.Cleanup(func() { newExporter, newResource = origExp, origRes })

	tp, prop := otel.GetTracerProvider(), otel.GetTextMapPropagator()

	newExporter = func(context.Context, ...otlptracegrpc.Option) (*otlptrace.Exporter, error) {
		return nil, errors.New("boom-exporter")
	}
	if _, err := SetupOTel(context.Background(), enabled(true), "v"); err == nil {
		t.Fatal("expected exporter error")
	}

	newExporter = origExp
	newResource = func(context.Context, ...attribute.KeyValue) (*resource.Resource, error) {
		return nil, errors.New("boom-resource")
	}
	if _, err := SetupOTel(context.Background(), enabled(true), "v"); err == nil {
		t.Fatal("expected resource error")
	}

	if otel.GetTracerProvider() != tp || otel.GetTextMapPropagator() != prop {
		t.Fatal("globals changed on failure")
	}
}

func TestClampRatio(t *testing.T) {
	if clampRatio(-1) != 0 || clampRatio(2) != 1 || clampRatio(0.25) != 0.25 {
		t.Fatal("clampRatio")
	}
}
