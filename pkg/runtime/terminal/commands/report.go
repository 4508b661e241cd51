package commands

import (
	"github.com/de-tools/account-ranking/pkg/export"
	"github.com/de-tools/account-ranking/pkg/services/ranking"
	"github.com/spf13/cobra"
)

// SnapshotHandler renders a built report.
type SnapshotHandler interface {
	Handle(snapshot ranking.Snapshot, labels export.Labels) error
}

type ReportCmd struct {
	runtime  *Runtime
	reporter SnapshotHandler
	user     string
	sorts    []string
}

func NewReportCmd(runtime *Runtime, reporter SnapshotHandler) *cobra.Command {
	rc := &ReportCmd{runtime: runtime, reporter: reporter}
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the ranked account report",
		RunE:  rc.run,
	}

	cmd.Flags().StringVar(&rc.user, "user", "", "Only include sales made by this user")
	cmd.Flags().StringArrayVar(&rc.sorts, "sort", nil,
		"Sort column as key[:year]; repeat to toggle (keys: name, totalSales, totalMargin, count)")

	return cmd
}

func (rc *ReportCmd) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	session, cfg, err := rc.runtime.Session(ctx)
	if err != nil {
		return err
	}
	if err := applyView(session, rc.user, rc.sorts); err != nil {
		return err
	}

	snapshot, err := session.Build(ctx)
	if err != nil {
		return err
	}
	return rc.reporter.Handle(snapshot, labelsFor(cfg.Ranking))
}
