package main

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"time"

	"github.com/de-tools/account-ranking/pkg/export"
	"github.com/de-tools/account-ranking/pkg/server"
	"github.com/de-tools/account-ranking/pkg/services/appconfig"
	"github.com/de-tools/account-ranking/pkg/services/ranking"
	"github.com/de-tools/account-ranking/pkg/services/refresh"
	"github.com/de-tools/account-ranking/pkg/store/artifact"
	"github.com/de-tools/account-ranking/pkg/store/sales"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	cfgPath    string
	preloadSrc bool
	refreshInt time.Duration
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the web server for the customer ranking report",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "", "Path to the application config file")
	rootCmd.Flags().BoolVar(&preloadSrc, "preload", false,
		"Load the configured record source before serving (default is to wait for POST /api/v1/records)")
	rootCmd.Flags().DurationVar(&refreshInt, "refresh", 0,
		"Reload the configured record source on this interval, e.g. 5m (0 disables)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	cfg, err := appconfig.LoadConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()
	ctx, cancel := context.WithCancel(logger.WithContext(cmd.Context()))
	defer cancel()

	session := ranking.NewSession(ranking.NewAssembler(cfg.Ranking))
	switch {
	case refreshInt > 0:
		source, err := sales.DefaultRegistry().Create(cfg.Source)
		if err != nil {
			return fmt.Errorf("failed to create %s source: %w", cfg.Source.Type, err)
		}
		runnerCfg := refresh.DefaultRunnerConfig()
		runnerCfg.Interval = refreshInt
		runner := refresh.NewRunner(source, session, runnerCfg)
		go runner.Run(ctx)
		defer func() {
			cancel()
			<-runner.Done()
		}()
	case preloadSrc:
		source, err := sales.DefaultRegistry().Create(cfg.Source)
		if err != nil {
			return fmt.Errorf("failed to create %s source: %w", cfg.Source.Type, err)
		}
		records, err := source.LoadRecords(ctx)
		if closer, ok := source.(io.Closer); ok {
			_ = closer.Close()
		}
		if err != nil {
			return fmt.Errorf("failed to load sales records: %w", err)
		}
		session.Load(records)
		logger.Info().Str("source", source.Type()).Int("records", len(records)).Msg("sales records preloaded")
	}

	sink, err := artifact.NewSink(ctx, cfg.Sink)
	if err != nil {
		return fmt.Errorf("failed to create export sink: %w", err)
	}

	host := cfg.Server.Host
	if env := os.Getenv("SERVER_HOST"); env != "" {
		host = env
	}
	port := cfg.Server.Port
	if env := os.Getenv("SERVER_PORT"); env != "" {
		port = env
	}

	webAPI := server.NewWebAPI(server.Config{
		Addr: net.JoinHostPort(host, port),
		Dependencies: server.Dependencies{
			Session:   session,
			Exporters: export.DefaultRegistry(),
			Sink:      sink,
			Labels:    export.NewLabels(cfg.Ranking.UpperThreshold, cfg.Ranking.LowerThreshold, cfg.Ranking.RankBasis),
			Logger:    logger,
		},
	})

	return webAPI.Start()
}
