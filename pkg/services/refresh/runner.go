package refresh

import (
	"context"
	"io"
	"time"

	"github.com/de-tools/account-ranking/pkg/services/ranking"
	"github.com/de-tools/account-ranking/pkg/store/sales"
	"github.com/rs/zerolog"
)

// Runner reloads the session from a record source on a fixed interval so
// a server backed by a warehouse picks up new sales without a push.
type Runner struct {
	source   sales.Source
	session  *ranking.Session
	done     chan struct{}
	progress chan RunnerProgress
	config   RunnerConfig
}

type RunnerConfig struct {
	Interval time.Duration
	// RetryInterval is used instead of Interval after a failed load.
	RetryInterval time.Duration
}

type RunnerProgress struct {
	Loads     int64
	Records   int
	LoadedAt  time.Time
	LastError error
}

func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		Interval:      5 * time.Minute,
		RetryInterval: 10 * time.Second,
	}
}

func NewRunner(source sales.Source, session *ranking.Session, config RunnerConfig) *Runner {
	return &Runner{
		source:   source,
		session:  session,
		done:     make(chan struct{}),
		progress: make(chan RunnerProgress, 100),
		config:   config,
	}
}

func (r *Runner) Done() <-chan struct{} {
	return r.done
}

func (r *Runner) Progress() <-chan RunnerProgress {
	return r.progress
}

// Run loads immediately and then once per interval until ctx is canceled.
// A failed load leaves the previous batch in place. The source is closed
// when Run returns if it holds resources.
func (r *Runner) Run(ctx context.Context) {
	logger := zerolog.Ctx(ctx).With().Str("source", r.source.Type()).Logger()
	defer close(r.done)
	defer close(r.progress)
	defer func() {
		if closer, ok := r.source.(io.Closer); ok {
			if err := closer.Close(); err != nil {
				logger.Warn().Err(err).Msg("failed to close record source")
			}
		}
	}()

	loads := int64(0)
	for {
		wait := r.config.Interval

		records, err := r.source.LoadRecords(ctx)
		if err != nil {
			if ctx.Err() != nil {
				logger.Info().Msg("refresh stopped")
				return
			}
			logger.Error().Err(err).Msg("failed to refresh sales records")
			wait = r.config.RetryInterval
			r.report(RunnerProgress{Loads: loads, LastError: err})
		} else {
			r.session.Load(records)
			loads++
			logger.Info().Int("records", len(records)).Msg("sales records refreshed")
			r.report(RunnerProgress{Loads: loads, Records: len(records), LoadedAt: time.Now()})
		}

		select {
		case <-ctx.Done():
			logger.Info().Msg("refresh stopped")
			return
		case <-time.After(wait):
		}
	}
}

// report never blocks the loop; progress is dropped when nobody reads it.
func (r *Runner) report(p RunnerProgress) {
	select {
	case r.progress <- p:
	default:
	}
}
