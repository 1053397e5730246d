package main

import "github.com/spf13/cobra"

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "uts",
		Short:        "Upstream Tracking System dashboard service",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE:         runServe,
	}
	cmd.AddCommand(newServeCmd(), newDatasetsCmd(), newAddUserCmd(), newJobsCmd())
	return cmd
}
