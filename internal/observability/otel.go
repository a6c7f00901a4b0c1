package observability

import (
	"context"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.27.0"

	"github.com/kaipinbao/kaipinbao-backend/internal/logger"
)

// ServiceName is the tracing identity of this backend, used for the
// resource attributes and the HTTP middleware span naming.
const ServiceName = "kaipinbao-backend"

type Config struct {
	Environment string
	Version     string
}

var (
	initOnce sync.Once
	shutdown func(context.Context) error
)

// Enabled reports whether tracing is switched on via OTEL_ENABLED.
// Everything is a no-op when it is off.
func Enabled() bool {
	switch strings.ToLower(envStr("OTEL_ENABLED")) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// InitOTel installs the global tracer provider and propagators. It is
// env-gated and idempotent; the returned shutdown func is nil when
// tracing is disabled. Exporter and resource failures degrade to a
// local tracer rather than failing startup.
func InitOTel(ctx context.Context, log *logger.Logger, cfg Config) func(context.Context) error {
	initOnce.Do(func() {
		if !Enabled() {
			return
		}

		res, err := resource.New(ctx, resource.WithAttributes(
			semconv.ServiceNameKey.String(ServiceName),
			semconv.ServiceVersionKey.String(strings.TrimSpace(cfg.Version)),
			attribute.String("deployment.environment", strings.TrimSpace(cfg.Environment)),
		))
		if err != nil && log != nil {
			log.Warn("OTel resource init failed, continuing", "error", err)
		}

		opts := []sdktrace.TracerProviderOption{
			sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(sampleRatio()))),
			sdktrace.WithResource(res),
		}
		exporter, expErr := newExporter(ctx, log)
		if expErr != nil {
			if log != nil {
				log.Warn("OTel exporter init failed, continuing without export", "error", expErr)
			}
		} else {
			opts = append(opts, sdktrace.WithBatcher(exporter, sdktrace.WithBatchTimeout(5*time.Second)))
		}

		tp := sdktrace.NewTracerProvider(opts...)
		otel.SetTracerProvider(tp)
		otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		))
		shutdown = tp.Shutdown

		if log != nil {
			log.Info("OTel tracing initialized", "service", ServiceName, "endpoint", envStr("OTEL_EXPORTER_OTLP_ENDPOINT"))
		}
	})
	return shutdown
}

// newExporter builds the OTLP/HTTP exporter when an endpoint is
// configured, falling back to a pretty-printed stdout exporter so a
// local run still shows spans.
func newExporter(ctx context.Context, log *logger.Logger) (sdktrace.SpanExporter, error) {
	endpoint := envStr("OTEL_EXPORTER_OTLP_ENDPOINT")
	if endpoint == "" {
		if log != nil {
			log.Warn("OTel using stdout exporter; no OTLP endpoint configured")
		}
		return stdouttrace.New(stdouttrace.WithPrettyPrint())
	}

	opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(endpoint)}
	switch strings.ToLower(envStr("OTEL_EXPORTER_OTLP_INSECURE")) {
	case "1", "true", "yes", "on":
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	if headers := exporterHeaders(); headers != nil {
		opts = append(opts, otlptracehttp.WithHeaders(headers))
	}
	return otlptracehttp.New(ctx, opts...)
}

// sampleRatio reads OTEL_SAMPLER_RATIO clamped to [0,1]; default 0.1.
func sampleRatio() float64 {
	raw := envStr("OTEL_SAMPLER_RATIO")
	if raw == "" {
		return 0.1
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0.1
	}
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// exporterHeaders parses OTEL_EXPORTER_OTLP_HEADERS as comma-separated
// key=value pairs, dropping anything malformed.
func exporterHeaders() map[string]string {
	raw := envStr("OTEL_EXPORTER_OTLP_HEADERS")
	if raw == "" {
		return nil
	}
	headers := map[string]string{}
	for _, part := range strings.Split(raw, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		key := strings.TrimSpace(kv[0])
		val := strings.TrimSpace(kv[1])
		if key == "" || val == "" {
			continue
		}
		headers[key] = val
	}
	if len(headers) == 0 {
		return nil
	}
	return headers
}

func envStr(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}
