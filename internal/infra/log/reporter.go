package logs

import (
	"context"
	"log/slog"
	"time"

	"accounts/config"

	"github.com/getsentry/sentry-go"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const sentryFlushTimeout = 2 * time.Second

// Reporter forwards unexpected failures to Sentry. Without a DSN it is a no-op.
type Reporter struct {
	enabled bool
	logger  *slog.Logger
}

// ReporterParams defines the parameters required for the reporter
type ReporterParams struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// NewReporter initialises the Sentry client when configured and flushes it on shutdown.
func NewReporter(params ReporterParams) (*Reporter, error) {
	cfg := params.Config.Sentry
	if cfg == nil || cfg.DSN == "" {
		return &Reporter{logger: params.Logger}, nil
	}

	env := cfg.Environment
	if env == "" {
		env = params.Config.Env.Env
	}
	sampleRate := cfg.SampleRate
	if sampleRate <= 0 {
		sampleRate = 1.0
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.DSN,
		Environment: env,
		SampleRate:  sampleRate,
		ServerName:  params.Config.Env.ServiceName,
	}); err != nil {
		return nil, errors.Wrap(err, "failed to initialise sentry")
	}

	params.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			sentry.Flush(sentryFlushTimeout)

			return nil
		},
	})

	return &Reporter{enabled: true, logger: params.Logger}, nil
}

// Report sends err to Sentry with the given tags attached.
func (r *Reporter) Report(ctx context.Context, err error, tags map[string]string) {
	if r == nil || !r.enabled || err == nil {
		return
	}

	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub().Clone()
	}

	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTags(tags)
		if eventID := hub.CaptureException(err); eventID != nil && r.logger != nil {
			r.logger.DebugContext(ctx, "Reported error to sentry", slog.String("event_id", string(*eventID)))
		}
	})
}
