package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	appmw "github.com/s1natex/taskboard/internal/middleware"
)

func TestTracingMiddleware_RecordsRouteSpan(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	r := chi.NewRouter()
	r.Use(appmw.TracingMiddleware)
	r.Delete("/tasks/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/tasks/abc", nil))

	if rec.Header().Get("Trace-Id") == "" {
		t.Errorf("expected Trace-Id header")
	}

	spans := sr.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	span := spans[0]
	if span.Name() != "DELETE /tasks/{id}" {
		t.Errorf("unexpected span name %q", span.Name())
	}
	var gotRoute, gotStatus bool
	for _, kv := range span.Attributes() {
		switch kv.Key {
		case attribute.Key("http.route"):
			gotRoute = kv.Value.AsString() == "/tasks/{id}"
		case attribute.Key("http.response.status_code"):
			gotStatus = kv.Value.AsInt64() == http.StatusInternalServerError
		}
	}
	if !gotRoute || !gotStatus {
		t.Errorf("missing attributes: %v", span.Attributes())
	}
	if span.Status().Code.String() != "Error" {
		t.Errorf("expected error status, got %v", span.Status())
	}
}
