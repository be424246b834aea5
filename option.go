package crystalrun

import (
	"github.com/hpckit/crystalrun/model/types"
	"github.com/hpckit/crystalrun/service/event"
	"github.com/hpckit/crystalrun/service/invoker"
	"github.com/hpckit/crystalrun/tracing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Option customises the service facade
type Option func(s *Service)

// WithConfig sets the configuration; defaults apply when omitted.
func WithConfig(config *Config) Option {
	return func(s *Service) {
		s.config = config
	}
}

// WithEventService sets the lifecycle event service
func WithEventService(service *event.Service) Option {
	return func(s *Service) {
		s.events = service
	}
}

// WithExtensionServices registers additional action services
func WithExtensionServices(services ...types.Service) Option {
	return func(s *Service) {
		s.extensionServices = services
	}
}

// WithInvokerOptions lets the caller supply additional options passed to
// invoker.New (e.g. a completion listener).
func WithInvokerOptions(opts ...invoker.Option) Option {
	return func(s *Service) {
		s.invokerOptions = append(s.invokerOptions, opts...)
	}
}

// WithTracing configures OpenTelemetry tracing. If outputFile is empty the
// stdout exporter is used; otherwise traces are written to the supplied file
// path. Safe to call multiple times; the first successful initialisation
// wins.
func WithTracing(serviceName, serviceVersion, outputFile string) Option {
	return func(s *Service) {
		_ = tracing.Init(serviceName, serviceVersion, outputFile)
	}
}

// WithTracingExporter configures OpenTelemetry tracing with a custom span
// exporter.
func WithTracingExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) Option {
	return func(s *Service) {
		_ = tracing.InitWithExporter(serviceName, serviceVersion, exporter)
	}
}
