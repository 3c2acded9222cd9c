package main

import (
	"fmt"

	"github.com/dmitrijs2005/autoscanml/internal/client/config"
	"github.com/dmitrijs2005/autoscanml/internal/client/render"
	"github.com/dmitrijs2005/autoscanml/internal/client/services"
	"github.com/spf13/cobra"
)

// NewReportsCmd creates the reports command.
func NewReportsCmd(flags *config.Flags) *cobra.Command {
	var download int

	cmd := &cobra.Command{
		Use:   "reports",
		Short: "List scanned reports",
		Long:  `List every uploaded model with its scan date and report link. Use --download N to save report N.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := setup(cmd.Context(), flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer d.Close()

			svc := services.NewReportsService(d.client, d.log)
			items, listErr := svc.List(cmd.Context())
			if err := render.WriteReports(cmd.OutOrStdout(), items); err != nil {
				return err
			}
			if download == 0 {
				return listErr
			}
			if download < 0 || download > len(items) {
				return fmt.Errorf("no report #%d", download)
			}

			path, err := svc.Download(cmd.Context(), items[download-1].ReportURL, d.cfg.ReportsPath())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Report saved to %s\n", path)
			return nil
		},
	}

	cmd.Flags().IntVarP(&download, "download", "d", 0, "download report number N (1-based)")
	return cmd
}
