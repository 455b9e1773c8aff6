package jobdesk

import (
	"net/http"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"

	"github.com/bigsources/jobdesk/policy"
	"github.com/bigsources/jobdesk/service/approval"
	"github.com/bigsources/jobdesk/service/messaging"
	"github.com/bigsources/jobdesk/service/tasks"
	"github.com/bigsources/jobdesk/session"
	"github.com/bigsources/jobdesk/tracing"
)

// Option configures the Service.
type Option func(s *Service)

// WithConfig sets the configuration; DefaultConfig is used otherwise.
func WithConfig(config *Config) Option {
	return func(s *Service) {
		if config != nil {
			s.config = config
		}
	}
}

// WithSession sets the acting admin. It takes precedence over the session
// section of the config.
func WithSession(sess *session.Session) Option {
	return func(s *Service) { s.session = sess }
}

// WithLogger sets the logger; by default one is built from Config.Log.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithHTTPClient sets the HTTP client used for every gateway call.
func WithHTTPClient(client *http.Client) Option {
	return func(s *Service) { s.httpClient = client }
}

// WithSource replaces the task source, e.g. with a tasks.FileSource.
func WithSource(source tasks.Source) Option {
	return func(s *Service) { s.source = source }
}

// WithEventQueue sets the queue decision events are published to.
func WithEventQueue(queue messaging.Queue[approval.Event]) Option {
	return func(s *Service) { s.events = queue }
}

// WithPolicy sets the decision policy, replacing the policy section of the
// config. Use it to attach an AskFunc.
func WithPolicy(p *policy.Policy) Option {
	return func(s *Service) { s.policy = p }
}

// WithTracing configures OpenTelemetry tracing with the stdout exporter. If
// outputFile is empty traces go to stdout. The first successful
// initialisation wins.
func WithTracing(serviceName, serviceVersion, outputFile string) Option {
	return func(s *Service) {
		s.tracingErr = tracing.Init(serviceName, serviceVersion, outputFile)
	}
}

// WithTracingExporter configures OpenTelemetry tracing using a custom
// SpanExporter such as OTLP.
func WithTracingExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) Option {
	return func(s *Service) {
		s.tracingErr = tracing.InitWithExporter(serviceName, serviceVersion, exporter)
	}
}
