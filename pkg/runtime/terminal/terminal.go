package terminal

import (
	"context"
	"io"
	"os"

	"github.com/de-tools/account-ranking/pkg/export"
	"github.com/de-tools/account-ranking/pkg/runtime/terminal/commands"
	"github.com/de-tools/account-ranking/pkg/store/sales"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// CLI represents the command-line interface
type CLI struct {
	runtime   *commands.Runtime
	exporters export.Registry
	reporter  *Reporter
	logger    zerolog.Logger
	rootCmd   *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	Sources   sales.Registry
	Exporters export.Registry
	Output    io.Writer
	Logger    *zerolog.Logger
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Sources == nil {
		opts.Sources = sales.DefaultRegistry()
	}
	if opts.Exporters == nil {
		opts.Exporters = export.DefaultRegistry()
	}
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	cli := &CLI{
		runtime:   &commands.Runtime{Sources: opts.Sources},
		exporters: opts.Exporters,
		reporter:  NewReporter(opts.Output),
		logger:    logger,
	}

	cli.rootCmd = cli.newRootCmd()
	cli.rootCmd.SetOut(opts.Output)
	return cli
}

func (cli *CLI) Execute() error {
	return cli.ExecuteContext(context.Background())
}

func (cli *CLI) ExecuteContext(ctx context.Context) error {
	return cli.rootCmd.ExecuteContext(cli.logger.WithContext(ctx))
}

// SetArgs overrides os.Args, mostly for tests.
func (cli *CLI) SetArgs(args []string) {
	cli.rootCmd.SetArgs(args)
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "ranking",
		Short:         "Customer ranking report tool",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&cli.runtime.ConfigPath, "config", "c", "", "Path to the application config file")
	flags.StringVar(&cli.runtime.SourceType, "source", "", "Record source type (overrides config)")
	flags.StringVarP(&cli.runtime.SourcePath, "input", "i", "", "Record source path, '-' for stdin (overrides config)")

	cmd.AddCommand(commands.NewReportCmd(cli.runtime, cli.reporter))
	cmd.AddCommand(commands.NewUsersCmd(cli.runtime))
	cmd.AddCommand(commands.NewExportCmd(cli.runtime, cli.exporters))

	return cmd
}
