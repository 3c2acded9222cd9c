package main

import (
	"bytes"
	"fmt"
	"time"

	"github.com/dmitrijs2005/autoscanml/internal/client/config"
	"github.com/dmitrijs2005/autoscanml/internal/client/render"
	"github.com/dmitrijs2005/autoscanml/internal/client/services"
	"github.com/dmitrijs2005/autoscanml/internal/filex"
	"github.com/spf13/cobra"
)

// NewDashboardCmd creates the dashboard command.
func NewDashboardCmd(flags *config.Flags) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Print the scan dashboard as Markdown",
		Long: `Fetch models, vulnerabilities and high-risk models and print the summary:
counts, severity and type breakdowns and the most recent scans.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := setup(cmd.Context(), flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer d.Close()

			snap, loadErr := services.NewDashboardService(d.client, d.log).Load(cmd.Context())
			if loadErr != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning:", loadErr)
			}

			var buf bytes.Buffer
			if err := render.WriteDashboard(&buf, snap.Summary, time.Now()); err != nil {
				return err
			}
			if output == "" {
				_, err = cmd.OutOrStdout().Write(buf.Bytes())
				return err
			}
			if err := filex.WriteFileAtomic(output, buf.Bytes(), 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Dashboard written to %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "markdown", "m", "", "write the dashboard to this file instead of stdout")
	return cmd
}
