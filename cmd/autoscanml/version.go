package main

import (
	"fmt"
	"runtime/debug"

	"github.com/dmitrijs2005/autoscanml/internal/common"
	"github.com/spf13/cobra"
)

// Set at build time via -ldflags.
var (
	version = ""
	commit  = ""
	date    = ""
)

func getVersion() string {
	if version != "" {
		return version
	}
	if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" {
		return bi.Main.Version
	}
	return "(devel)"
}

func buildSetting(key, fallback string) string {
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			if s.Key == key {
				return s.Value
			}
		}
	}
	return fallback
}

func getCommit() string {
	if commit != "" {
		return commit
	}
	c := buildSetting("vcs.revision", "unknown")
	if len(c) > 7 {
		return c[:7]
	}
	return c
}

func getDate() string {
	if date != "" {
		return date
	}
	return buildSetting("vcs.time", "unknown")
}

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", common.AppName, getVersion())
			fmt.Fprintf(cmd.OutOrStdout(), "  commit: %s\n", getCommit())
			fmt.Fprintf(cmd.OutOrStdout(), "  built:  %s\n", getDate())
		},
	}
}
