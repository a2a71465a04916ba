package main

import (
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/de-tools/sales-atlas/pkg/runtime/app"
	"github.com/de-tools/sales-atlas/pkg/server"
	"github.com/de-tools/sales-atlas/pkg/services/config"
	"github.com/de-tools/sales-atlas/pkg/services/digest"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var cfgPath string

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the web server for Sales Atlas",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "", "Path to the config file")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		return err
	}

	logger := zerolog.New(os.Stdout).
		Level(cfg.Logger.ZerologLevel()).
		With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &logger

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithContext(ctx)

	a, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer a.Close()

	if a.Digest != nil {
		runner := digest.NewRunner(a.Digest, cfg.Digest.Interval)
		go runner.Run(ctx)
		defer func() { <-runner.Done() }()
	} else {
		logger.Info().Msg("digest disabled, digest.api_key is not set")
	}

	if cfgPath != "" {
		logger.Info().Msgf("Configuration found at `%s` successfully loaded.", cfgPath)
	}

	web := server.NewWebAPI(server.Config{
		Addr:            net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		Dependencies: server.Dependencies{
			Controller:     a.Reports,
			Logger:         logger,
			AllowedOrigins: cfg.Server.AllowedOrigins,
		},
	})

	err = web.Run(ctx)
	stop()
	return err
}
