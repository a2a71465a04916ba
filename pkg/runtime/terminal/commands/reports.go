package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

type ReportsCmd struct {
	open Opener
}

func NewReportsCmd(open Opener) *cobra.Command {
	rc := &ReportsCmd{open: open}
	return &cobra.Command{
		Use:   "reports",
		Short: "List available reports",
		RunE:  rc.run,
	}
}

func (rc *ReportsCmd) run(cmd *cobra.Command, _ []string) error {
	svc, err := rc.open(cmd.Context(), configPath(cmd))
	if err != nil {
		return err
	}
	defer svc.Close()

	defs := svc.Definitions()
	if len(defs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No reports defined")
		return nil
	}

	for _, d := range defs {
		title := d.Title
		if title == "" {
			title = d.Name
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%-20s %-30s %s\n", d.Name, title, strings.Join(d.Sources, ", "))
	}
	return nil
}
