package instrumentation

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// newTestTracerProvider installs a recording tracer provider for the
// duration of the test so started spans carry valid ids.
func newTestTracerProvider(t *testing.T) {
	t.Helper()

	prev := otel.GetTracerProvider()
	tp := sdktrace.NewTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
		otel.SetTracerProvider(prev)
	})
}

func TestSpanAttributeBuilder(t *testing.T) {
	attrs := NewSpanAttributeBuilder().
		WithService(ServiceTasks, OperationList).
		WithAccount("work").
		WithReadOnly(true).
		Build()

	want := map[string]interface{}{
		SpanAttrService:   ServiceTasks,
		SpanAttrOperation: OperationList,
		SpanAttrAccount:   "work",
		SpanAttrReadOnly:  true,
	}

	if len(attrs) != len(want) {
		t.Fatalf("Build() returned %d attributes, want %d", len(attrs), len(want))
	}
	for _, kv := range attrs {
		wantVal, ok := want[string(kv.Key)]
		if !ok {
			t.Errorf("unexpected attribute %s", kv.Key)
			continue
		}
		if kv.Value.AsInterface() != wantVal {
			t.Errorf("attribute %s = %v, want %v", kv.Key, kv.Value.AsInterface(), wantVal)
		}
	}
}

func TestSpanAttributeBuilder_SkipsEmptyAccount(t *testing.T) {
	attrs := NewSpanAttributeBuilder().WithAccount("").Build()
	if len(attrs) != 0 {
		t.Errorf("Build() returned %d attributes, want 0", len(attrs))
	}
}

func TestStartToolSpan(t *testing.T) {
	newTestTracerProvider(t)

	ctx, span := StartToolSpan(context.Background(), "tasks_export_daily")
	defer span.End()

	if !span.SpanContext().IsValid() {
		t.Fatal("span context should be valid")
	}
	if GetTraceID(ctx) == "" || GetSpanID(ctx) == "" {
		t.Error("started span should be in the returned context")
	}
}

func TestStartGoogleAPISpan(t *testing.T) {
	newTestTracerProvider(t)

	ctx, span := StartGoogleAPISpan(context.Background(), ServiceCalendar, OperationList)
	defer span.End()

	if !span.SpanContext().IsValid() {
		t.Fatal("span context should be valid")
	}
	if trace.SpanFromContext(ctx) != span {
		t.Error("started span should be in the returned context")
	}
}

func TestSpanStatusHelpers(t *testing.T) {
	newTestTracerProvider(t)

	_, span := StartSpan(context.Background(), "test-span")
	defer span.End()

	// Must not panic; nil errors are ignored.
	SetSpanError(span, nil)
	SetSpanError(span, errors.New("test error"))
	SetSpanSuccess(span)
}

func TestSpanIDs_NoSpanInContext(t *testing.T) {
	ctx := context.Background()

	if got := GetTraceID(ctx); got != "" {
		t.Errorf("GetTraceID() = %q, want empty", got)
	}
	if got := GetSpanID(ctx); got != "" {
		t.Errorf("GetSpanID() = %q, want empty", got)
	}
}
