package main

import (
	"fmt"
	"os"

	"github.com/de-tools/account-ranking/pkg/export"
	"github.com/de-tools/account-ranking/pkg/runtime/terminal"
	"github.com/de-tools/account-ranking/pkg/store/sales"
	"github.com/rs/zerolog"
)

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(zerolog.WarnLevel).
		With().Timestamp().Logger()
	if os.Getenv("RANKING_DEBUG") != "" {
		logger = logger.Level(zerolog.DebugLevel)
	}

	cli := terminal.NewCLI(terminal.Options{
		Sources:   sales.DefaultRegistry(),
		Exporters: export.DefaultRegistry(),
		Output:    os.Stdout,
		Logger:    &logger,
	})

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
