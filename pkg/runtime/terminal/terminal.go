package terminal

import (
	"context"
	"io"
	"os"

	"github.com/de-tools/sales-atlas/pkg/runtime/terminal/commands"
	"github.com/de-tools/sales-atlas/pkg/runtime/terminal/export"
	"github.com/spf13/cobra"
)

// CLI represents the command-line interface
type CLI struct {
	open     commands.Opener
	reporter *export.Reporter
	rootCmd  *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	Open   commands.Opener
	Output io.Writer
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	cli := &CLI{
		open:     opts.Open,
		reporter: export.NewReporter(opts.Output),
	}

	cli.rootCmd = cli.newRootCmd()
	cli.rootCmd.SetOut(opts.Output)
	return cli
}

func (cli *CLI) Execute(ctx context.Context) error {
	return cli.rootCmd.ExecuteContext(ctx)
}

// SetArgs overrides os.Args, mainly for tests.
func (cli *CLI) SetArgs(args []string) {
	cli.rootCmd.SetArgs(args)
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "atlas",
		Short:         "Multi-channel sales comparison reports",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringP(commands.ConfigFlag, "c", "", "Path to the config file")

	cmd.AddCommand(commands.NewReportCmd(cli.open, cli.reporter))
	cmd.AddCommand(commands.NewReportsCmd(cli.open))
	cmd.AddCommand(commands.NewImportCmd(cli.open))
	cmd.AddCommand(commands.NewDigestCmd(cli.open))

	return cmd
}
