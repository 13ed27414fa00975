package observability

import (
	"testing"
	"time"

	otellog "go.opentelemetry.io/otel/log"
	"go.uber.org/zap/zapcore"
)

func TestShouldSkipLogEntry(t *testing.T) {
	if !shouldSkipLogEntry("http request", map[string]any{"path": "/healthz"}) {
		t.Fatalf("expected health check log to be skipped")
	}
	if shouldSkipLogEntry("http request", map[string]any{"path": "/v1/matches/m-1/result"}) {
		t.Fatalf("did not expect non-health log to be skipped")
	}
	if shouldSkipLogEntry("point sink publish request", map[string]any{"path": "/healthz"}) {
		t.Fatalf("did not expect non-request event to be skipped")
	}
}

func TestToOTelLogAttributes(t *testing.T) {
	attrs := toOTelLogAttributes(map[string]any{
		"attempt":     2,
		"category_id": "c-singles-open",
	})
	if len(attrs) != 2 {
		t.Fatalf("expected 2 attributes, got %d", len(attrs))
	}
	if attrs[0].Key != "attempt" || attrs[0].Value.AsInt64() != 2 {
		t.Fatalf("unexpected attempt attribute")
	}
	if attrs[1].Key != "category_id" || attrs[1].Value.AsString() != "c-singles-open" {
		t.Fatalf("unexpected category_id attribute")
	}
}

func TestToOTelLogValue_Shapes(t *testing.T) {
	v := toOTelLogValue(map[string]any{
		"games": []any{21, 19},
		"win":   true,
	})
	if v.Kind() != otellog.KindMap {
		t.Fatalf("expected map value, got %s", v.Kind())
	}
	if len(v.AsMap()) != 2 {
		t.Fatalf("expected 2 map items, got %d", len(v.AsMap()))
	}

	if got := toOTelLogValue(1500 * time.Millisecond); got.AsString() != "1.5s" {
		t.Fatalf("unexpected duration value: %s", got.AsString())
	}
}

func TestToOTelSeverity(t *testing.T) {
	if toOTelSeverity(zapcore.DebugLevel) != otellog.SeverityDebug {
		t.Fatalf("unexpected debug severity")
	}
	if toOTelSeverity(zapcore.WarnLevel) != otellog.SeverityWarn {
		t.Fatalf("unexpected warn severity")
	}
	if toOTelSeverity(zapcore.ErrorLevel) != otellog.SeverityError {
		t.Fatalf("unexpected error severity")
	}
}
