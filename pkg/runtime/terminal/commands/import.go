package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

type ImportCmd struct {
	sourceType string
	file       string
	sheet      string
	open       Opener
}

func NewImportCmd(open Opener) *cobra.Command {
	ic := &ImportCmd{open: open}
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a CSV or XLSX channel export",
		RunE:  ic.run,
	}

	cmd.Flags().StringVar(&ic.sourceType, "source", "", "Source type of the export (e.g., blinkit_sales)")
	cmd.Flags().StringVar(&ic.file, "file", "", "Path to the .csv or .xlsx file")
	cmd.Flags().StringVar(&ic.sheet, "sheet", "", "Sheet to read from a workbook (default: first sheet)")

	_ = cmd.MarkFlagRequired("source")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func (ic *ImportCmd) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	svc, err := ic.open(ctx, configPath(cmd))
	if err != nil {
		return err
	}
	defer svc.Close()

	batch, err := svc.Import(ctx, ic.sourceType, ic.file, ic.sheet)
	if err != nil {
		return fmt.Errorf("failed to import %s: %w", ic.file, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d rows of %s from %s (batch %s)\n",
		batch.Rows, batch.SourceType, batch.FileName, batch.ID)
	return nil
}
