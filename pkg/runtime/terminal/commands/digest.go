package commands

import (
	"fmt"

	"github.com/de-tools/sales-atlas/pkg/adapters"
	"github.com/spf13/cobra"
)

type DigestCmd struct {
	date string
	open Opener
}

func NewDigestCmd(open Opener) *cobra.Command {
	dc := &DigestCmd{open: open}
	cmd := &cobra.Command{
		Use:   "digest",
		Short: "Send the channel snapshot e-mail",
		RunE:  dc.run,
	}

	cmd.Flags().StringVar(&dc.date, "date", "", "Day to report as YYYY-MM-DD (default: latest day with data)")

	return cmd
}

func (dc *DigestCmd) run(cmd *cobra.Command, _ []string) error {
	anchor, err := parseDate(dc.date)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	svc, err := dc.open(ctx, configPath(cmd))
	if err != nil {
		return err
	}
	defer svc.Close()

	run, err := svc.SendDigest(ctx, anchor)
	if err != nil {
		return fmt.Errorf("failed to send digest: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Sent %s digest for %s to %d recipients\n",
		run.Report, run.AnchorDate.Format(adapters.DateLayout), run.Recipients)
	return nil
}
