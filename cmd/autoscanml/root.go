package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/dmitrijs2005/autoscanml/internal/client/cli"
	"github.com/dmitrijs2005/autoscanml/internal/client/config"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command. Without a subcommand it starts the
// interactive session.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "autoscanml",
		Short: "Scan machine-learning models for vulnerabilities",
		Long: `AutoScanML uploads model files to the AutoScanML service, which scans them
for vulnerabilities and produces a PDF report per model.

Run without a subcommand for an interactive session with login, signup,
password reset, upload, dashboard and reports.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
	}

	flags := config.BindFlags(cmd.PersistentFlags())

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		d, err := setup(cmd.Context(), flags, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer d.Close()

		app := cli.NewApp(d.client, d.prefs, d.log, cmd.InOrStdin(), cmd.OutOrStdout(), cli.Options{
			ReportsDir:    d.cfg.ReportsPath(),
			UploadOptions: d.uploadOptions,
		})
		app.Run(cmd.Context())
		return nil
	}

	cmd.AddCommand(NewDashboardCmd(flags))
	cmd.AddCommand(NewReportsCmd(flags))
	cmd.AddCommand(NewUploadCmd(flags))
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command until it finishes or the process is
// interrupted.
func Execute() {
	config.LoadDotEnv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
