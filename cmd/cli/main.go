package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/de-tools/sales-atlas/pkg/runtime/app"
	"github.com/de-tools/sales-atlas/pkg/runtime/terminal"
	"github.com/de-tools/sales-atlas/pkg/runtime/terminal/commands"
	"github.com/de-tools/sales-atlas/pkg/services/config"
	"github.com/rs/zerolog"
)

func open(ctx context.Context, configPath string) (commands.Services, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(cfg.Logger.ZerologLevel()).
		With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &logger

	return app.New(logger.WithContext(ctx), cfg)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli := terminal.NewCLI(terminal.Options{
		Open:   open,
		Output: os.Stdout,
	})

	if err := cli.Execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
