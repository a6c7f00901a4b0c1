package observability

import "testing"

func TestEnabled(t *testing.T) {
	cases := []struct {
		name string
		val  string
		want bool
	}{
		{"unset", "", false},
		{"true", "true", true},
		{"one", "1", true},
		{"yes_upper", "YES", true},
		{"on", "on", true},
		{"false", "false", false},
		{"garbage", "enable-me", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("OTEL_ENABLED", tc.val)
			if got := Enabled(); got != tc.want {
				t.Fatalf("Enabled() with %q = %v, want %v", tc.val, got, tc.want)
			}
		})
	}
}

func TestSampleRatio(t *testing.T) {
	cases := []struct {
		name string
		val  string
		want float64
	}{
		{"default", "", 0.1},
		{"explicit", "0.5", 0.5},
		{"clamped_low", "-2", 0},
		{"clamped_high", "7", 1},
		{"unparsable", "half", 0.1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("OTEL_SAMPLER_RATIO", tc.val)
			if got := sampleRatio(); got != tc.want {
				t.Fatalf("sampleRatio() with %q = %v, want %v", tc.val, got, tc.want)
			}
		})
	}
}

func TestExporterHeaders(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "x-api-key=abc, team=core ,malformed,=novalue,nokey=")
	got := exporterHeaders()
	if len(got) != 2 || got["x-api-key"] != "abc" || got["team"] != "core" {
		t.Fatalf("exporterHeaders() = %v", got)
	}

	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "")
	if got := exporterHeaders(); got != nil {
		t.Fatalf("empty env must yield nil, got %v", got)
	}
}

func TestInitOTelDisabledReturnsNil(t *testing.T) {
	t.Setenv("OTEL_ENABLED", "")
	if shutdown := InitOTel(t.Context(), nil, Config{}); shutdown != nil {
		t.Fatal("disabled tracing must return a nil shutdown func")
	}
}
