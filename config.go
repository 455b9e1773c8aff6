package jobdesk

import (
	"context"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/viant/afs"
	"gopkg.in/yaml.v3"

	"github.com/bigsources/jobdesk/logger"
	"github.com/bigsources/jobdesk/policy"
	"github.com/bigsources/jobdesk/service/aggregator"
	"github.com/bigsources/jobdesk/service/gateway"
	qmem "github.com/bigsources/jobdesk/service/messaging/memory"
	"github.com/bigsources/jobdesk/session"
)

// Config is a serialisable representation of the client configuration. It
// is usually loaded from YAML with LoadConfig; ${env.KEY} expressions are
// expanded before decoding.
type Config struct {
	Gateway GatewayConfig   `json:"gateway" yaml:"gateway"`
	Tasks   TasksConfig     `json:"tasks" yaml:"tasks"`
	Review  ReviewConfig    `json:"review" yaml:"review"`
	Log     logger.Config   `json:"log" yaml:"log"`
	Tracing TracingConfig   `json:"tracing" yaml:"tracing"`
	Session session.Session `json:"session" yaml:"session"`
	Policy  policy.Config   `json:"policy" yaml:"policy"`
	Events  EventsConfig    `json:"events" yaml:"events"`
	Theme   string          `json:"theme,omitempty" yaml:"theme,omitempty"`
}

// GatewayConfig locates the backend functions.
type GatewayConfig struct {
	// BaseURL fills every endpoint not set explicitly.
	BaseURL   string            `json:"baseURL,omitempty" yaml:"baseURL,omitempty"`
	Endpoints gateway.Endpoints `json:"endpoints" yaml:"endpoints"`
	APIKey    gateway.APIKey    `json:"apiKey" yaml:"apiKey"`
	// TimeoutMs is the HTTP client timeout; zero keeps the client default.
	TimeoutMs int `json:"timeoutMs,omitempty" yaml:"timeoutMs,omitempty"`
}

// TasksConfig controls where tasks come from and how they are paged.
type TasksConfig struct {
	// SnapshotURL reads tasks from an afs URL instead of the gateway.
	SnapshotURL string `json:"snapshotURL,omitempty" yaml:"snapshotURL,omitempty"`
	PageSize    int    `json:"pageSize" yaml:"pageSize"`
}

// ReviewConfig tunes the review sub-flow.
type ReviewConfig struct {
	// CacheSize bounds the recruiter cache; zero is unbounded.
	CacheSize int `json:"cacheSize" yaml:"cacheSize"`
}

// EventsConfig sizes the decision event queue.
type EventsConfig struct {
	// Buffer is the number of events kept until they are flushed; further
	// events are dropped.
	Buffer int `json:"buffer" yaml:"buffer"`
	// MaxRetries bounds how often an event the consumer failed on is
	// redelivered.
	MaxRetries int `json:"maxRetries" yaml:"maxRetries"`
}

func (e EventsConfig) queueConfig() qmem.Config {
	return qmem.Config{QueueBuffer: e.Buffer, MaxRetries: e.MaxRetries}
}

// TracingConfig enables the stdout OpenTelemetry exporter.
type TracingConfig struct {
	Enabled        bool   `json:"enabled" yaml:"enabled"`
	ServiceName    string `json:"serviceName,omitempty" yaml:"serviceName,omitempty"`
	ServiceVersion string `json:"serviceVersion,omitempty" yaml:"serviceVersion,omitempty"`
	OutputFile     string `json:"outputFile,omitempty" yaml:"outputFile,omitempty"`
}

// DefaultConfig returns a Config with package defaults. Endpoints are left
// empty.
func DefaultConfig() *Config {
	return &Config{
		Tasks:   TasksConfig{PageSize: aggregator.DefaultPageSize},
		Events:  EventsConfig{Buffer: qmem.DefaultConfig().QueueBuffer},
		Log:     logger.DefaultConfig(),
		Tracing: TracingConfig{
			ServiceName:    "jobdesk",
			ServiceVersion: "0.1.0",
		},
		Theme: string(session.ThemeColor),
	}
}

// ResolvedEndpoints returns the configured endpoints with gaps filled from BaseURL.
func (g *GatewayConfig) ResolvedEndpoints() gateway.Endpoints {
	ret := g.Endpoints
	if strings.TrimSpace(g.BaseURL) == "" {
		return ret
	}
	defaults := gateway.NewEndpoints(g.BaseURL)
	fill := func(target *string, value string) {
		if *target == "" {
			*target = value
		}
	}
	fill(&ret.Tasks, defaults.Tasks)
	fill(&ret.ApproveNewJob, defaults.ApproveNewJob)
	fill(&ret.ApproveEditedJob, defaults.ApproveEditedJob)
	fill(&ret.ApproveJobClosing, defaults.ApproveJobClosing)
	fill(&ret.ApproveNewApplication, defaults.ApproveNewApplication)
	fill(&ret.ApproveApplicationStatus, defaults.ApproveApplicationStatus)
	fill(&ret.RejectNewJob, defaults.RejectNewJob)
	fill(&ret.Premium, defaults.Premium)
	fill(&ret.RecruiterJobs, defaults.RecruiterJobs)
	fill(&ret.Applicants, defaults.Applicants)
	fill(&ret.UpdateJob, defaults.UpdateJob)
	fill(&ret.Recruiter, defaults.Recruiter)
	return ret
}

// Timeout returns the HTTP client timeout.
func (g *GatewayConfig) Timeout() time.Duration {
	return time.Duration(g.TimeoutMs) * time.Millisecond
}

// Validate returns an error describing the first invalid setting, or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	if c.Tasks.SnapshotURL == "" {
		endpoints := c.Gateway.ResolvedEndpoints()
		if err := endpoints.Validate(); err != nil {
			return errors.WithHint(err, "set gateway.baseURL or every gateway.endpoints entry")
		}
	}
	if c.Gateway.TimeoutMs < 0 {
		return errors.New("gateway.timeoutMs must be >= 0")
	}
	if c.Tasks.PageSize < 0 {
		return errors.New("tasks.pageSize must be >= 0")
	}
	if c.Review.CacheSize < 0 {
		return errors.New("review.cacheSize must be >= 0")
	}
	if c.Events.Buffer < 0 || c.Events.MaxRetries < 0 {
		return errors.New("events.buffer and events.maxRetries must be >= 0")
	}
	if _, err := session.ParseTheme(c.Theme); err != nil {
		return err
	}
	if err := c.Policy.Validate(); err != nil {
		return err
	}
	return c.Log.Validate()
}

// LoadConfig reads a YAML config from any afs URL on top of DefaultConfig.
func LoadConfig(ctx context.Context, URL string) (*Config, error) {
	data, err := afs.New().DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read config %s", URL)
	}
	ret := DefaultConfig()
	if err = yaml.Unmarshal([]byte(expandEnv(string(data))), ret); err != nil {
		return nil, errors.Wrapf(err, "failed to decode config %s", URL)
	}
	if err = ret.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid config %s", URL)
	}
	return ret, nil
}
