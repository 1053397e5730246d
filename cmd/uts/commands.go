package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/petrocom/uts/cmd/uts/cli"
	"github.com/petrocom/uts/internal/app"
	"github.com/petrocom/uts/internal/datasets"
	"github.com/petrocom/uts/internal/platform/cache"
)

func newDatasetsCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "datasets",
		Short: "List the dashboard datasets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cli.DatasetsCommand(datasets.Default(), asJSON, cmd.OutOrStdout())
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")
	return cmd
}

func newAddUserCmd() *cobra.Command {
	var opts cli.AddUserOptions
	cmd := &cobra.Command{
		Use:   "add-user",
		Short: "Print an INSERT for a new account with a hashed password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.Stdout = cmd.OutOrStdout()
			return cli.AddUserCommand(opts)
		},
	}
	cmd.Flags().StringVar(&opts.Email, "email", "", "Account email (required)")
	cmd.Flags().StringVar(&opts.Password, "password", "", "Initial password (required)")
	cmd.Flags().StringVar(&opts.FirstName, "first-name", "", "First name")
	cmd.Flags().StringVar(&opts.LastName, "last-name", "", "Last name")
	cmd.Flags().StringVar(&opts.Role, "role", "", "Dashboard role, e.g. FINANCE_OFFICER (required)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	_ = cmd.MarkFlagRequired("role")
	return cmd
}

func newJobsCmd() *cobra.Command {
	var jobsCLI *cli.JobsCLI
	var cfg *app.Config
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "Inspect the job queue and trigger audit maintenance",
		PersistentPreRunE: func(*cobra.Command, []string) error {
			var err error
			cfg, err = app.LoadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			opts := cache.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB}
			jobsCLI = cli.NewJobsCLI(opts.AsynqOpt())
			return nil
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return jobsCLI.Close()
		},
	}

	stats := &cobra.Command{
		Use:   "stats",
		Short: "Print the default queue counters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := jobsCLI.InspectQueue()
			if err != nil {
				return fmt.Errorf("inspect queue: %w", err)
			}
			s.Print(cmd.OutOrStdout())
			return nil
		},
	}

	var days int
	prune := &cobra.Command{
		Use:   "prune",
		Short: "Enqueue an immediate audit prune",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			retention := cfg.AuditRetentionDays
			if cmd.Flags().Changed("days") {
				retention = days
			}
			info, err := jobsCLI.Prune(cmd.Context(), retention)
			if err != nil {
				return fmt.Errorf("enqueue prune: %w", err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "enqueued %s id=%s queue=%s\n", info.Type, info.ID, info.Queue)
			return err
		},
	}
	prune.Flags().IntVar(&days, "days", 0, "Retention in days (defaults to AUDIT_RETENTION_DAYS)")

	cmd.AddCommand(stats, prune)
	return cmd
}
