package commands

import (
	"fmt"

	"github.com/de-tools/sales-atlas/pkg/runtime/terminal/export"
	"github.com/spf13/cobra"
)

type ReportCmd struct {
	name     string
	date     string
	open     Opener
	reporter *export.Reporter
}

func NewReportCmd(open Opener, reporter *export.Reporter) *cobra.Command {
	rc := &ReportCmd{open: open, reporter: reporter}
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Build a period comparison report",
		RunE:  rc.run,
	}

	cmd.Flags().StringVar(&rc.name, "name", "", "Name of the report to build")
	cmd.Flags().StringVar(&rc.date, "date", "", "Current day as YYYY-MM-DD (default: latest day with data)")

	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func (rc *ReportCmd) run(cmd *cobra.Command, _ []string) error {
	anchor, err := parseDate(rc.date)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	svc, err := rc.open(ctx, configPath(cmd))
	if err != nil {
		return err
	}
	defer svc.Close()

	table, err := svc.Run(ctx, rc.name, anchor)
	if err != nil {
		return fmt.Errorf("failed to build report %s: %w", rc.name, err)
	}

	return rc.reporter.Handle(table)
}
