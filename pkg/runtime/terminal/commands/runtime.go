package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/de-tools/account-ranking/pkg/export"
	"github.com/de-tools/account-ranking/pkg/models/domain"
	"github.com/de-tools/account-ranking/pkg/services/appconfig"
	"github.com/de-tools/account-ranking/pkg/services/ranking"
	"github.com/de-tools/account-ranking/pkg/store/sales"
	"github.com/rs/zerolog"
)

// Runtime holds the global flags and builds what every command needs.
type Runtime struct {
	ConfigPath string
	SourceType string
	SourcePath string
	Sources    sales.Registry
}

// Config loads the application config and applies flag overrides.
func (rt *Runtime) Config() (*appconfig.Config, error) {
	cfg, err := appconfig.LoadConfig(rt.ConfigPath)
	if err != nil {
		return nil, err
	}
	if rt.SourceType != "" {
		cfg.Source.Type = rt.SourceType
	}
	if rt.SourcePath != "" {
		cfg.Source.Path = rt.SourcePath
	}
	return cfg, nil
}

// Session loads one batch from the configured source into a new session.
func (rt *Runtime) Session(ctx context.Context) (*ranking.Session, *appconfig.Config, error) {
	cfg, err := rt.Config()
	if err != nil {
		return nil, nil, err
	}

	source, err := rt.Sources.Create(cfg.Source)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create %s source: %w", cfg.Source.Type, err)
	}
	if closer, ok := source.(io.Closer); ok {
		defer func() {
			if err := closer.Close(); err != nil {
				zerolog.Ctx(ctx).Warn().Err(err).Msg("failed to close record source")
			}
		}()
	}

	records, err := source.LoadRecords(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load sales records: %w", err)
	}
	zerolog.Ctx(ctx).Debug().
		Str("source", source.Type()).
		Int("records", len(records)).
		Msg("sales records loaded")

	session := ranking.NewSession(ranking.NewAssembler(cfg.Ranking))
	session.Load(records)
	return session, cfg, nil
}

// applyView sets the user filter and replays the sort toggles in order.
func applyView(session *ranking.Session, user string, sorts []string) error {
	session.SetFilter(user)
	for _, column := range sorts {
		key, year, err := domain.ParseSortColumn(column)
		if err != nil {
			return err
		}
		session.ToggleSort(key, year)
	}
	return nil
}

func labelsFor(settings ranking.Settings) export.Labels {
	return export.NewLabels(settings.UpperThreshold, settings.LowerThreshold, settings.RankBasis)
}
