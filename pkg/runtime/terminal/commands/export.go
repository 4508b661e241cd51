package commands

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/de-tools/account-ranking/pkg/export"
	"github.com/de-tools/account-ranking/pkg/store/artifact"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type ExportCmd struct {
	runtime   *Runtime
	exporters export.Registry
	format    string
	outDir    string
	envelope  bool
	user      string
	sorts     []string
	now       func() time.Time
}

func NewExportCmd(runtime *Runtime, exporters export.Registry) *cobra.Command {
	ec := &ExportCmd{runtime: runtime, exporters: exporters, now: time.Now}
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the ranked account report",
		RunE:  ec.run,
	}

	cmd.Flags().StringVar(&ec.format, "format", "csv", fmt.Sprintf("Export format %v", exporters.Formats()))
	cmd.Flags().StringVar(&ec.outDir, "out", "", "Write into this directory instead of the configured sink")
	cmd.Flags().BoolVar(&ec.envelope, "envelope", false, "Print the host application JSON envelope instead of storing the file")
	cmd.Flags().StringVar(&ec.user, "user", "", "Only include sales made by this user")
	cmd.Flags().StringArrayVar(&ec.sorts, "sort", nil, "Sort column as key[:year]; repeat to toggle")

	return cmd
}

func (ec *ExportCmd) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	logger := zerolog.Ctx(ctx)

	exporter, err := ec.exporters.Get(ec.format)
	if err != nil {
		return err
	}

	session, cfg, err := ec.runtime.Session(ctx)
	if err != nil {
		return err
	}
	if err := applyView(session, ec.user, ec.sorts); err != nil {
		return err
	}

	snapshot, err := session.Build(ctx)
	if err != nil {
		return err
	}

	result, err := export.Render(exporter, export.View{
		Report:      snapshot.Report,
		Sort:        snapshot.Sort,
		FilterUser:  snapshot.FilterUser,
		GeneratedAt: ec.now(),
		Labels:      labelsFor(cfg.Ranking),
	})
	if err != nil {
		return err
	}

	if ec.envelope {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(result.HostPayload(true))
	}

	sinkCfg := cfg.Sink
	if ec.outDir != "" {
		sinkCfg = artifact.SinkConfig{Type: artifact.TypeLocal, Dir: ec.outDir}
	}
	sink, err := artifact.NewSink(ctx, sinkCfg)
	if err != nil {
		return err
	}

	location, err := sink.Put(ctx, result.Filename, result.ContentType, result.Data)
	if err != nil {
		return err
	}
	logger.Info().Str("location", location).Str("mode", result.Mode()).Msg("export written")

	_, err = fmt.Fprintln(cmd.OutOrStdout(), location)
	return err
}
