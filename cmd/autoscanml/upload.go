package main

import (
	"fmt"

	"github.com/dmitrijs2005/autoscanml/internal/client/config"
	"github.com/dmitrijs2005/autoscanml/internal/client/models"
	"github.com/dmitrijs2005/autoscanml/internal/client/services"
	"github.com/spf13/cobra"
)

// NewUploadCmd creates the upload command.
func NewUploadCmd(flags *config.Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <model-file>",
		Short: "Upload a model file for scanning",
		Long: `Upload a model file and wait for the scan. The report link is printed on
success. Configured archive and notification targets are run afterwards.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := setup(cmd.Context(), flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer d.Close()

			w := services.NewUploadWorkflow(d.client, d.log, d.uploadOptions...)
			if err := w.SelectFile(models.LocalFile{Path: args[0]}); err != nil {
				return err
			}

			out, err := w.Submit(cmd.Context())
			if err != nil {
				return fmt.Errorf("%s: %w", out.Message, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), out.Message)
			fmt.Fprintf(cmd.OutOrStdout(), "Report: %s\n", w.Snapshot().ReportURL)
			return nil
		},
	}
}
