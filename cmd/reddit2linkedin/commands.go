package main

import (
	"github.com/spf13/cobra"
)

// newRootCmd builds the command tree. build runs once before the selected
// subcommand.
func newRootCmd(build func() (*app, error)) *cobra.Command {
	var a *app

	root := &cobra.Command{
		Use:           "reddit2linkedin",
		Short:         "Share the best recent r/technews posts on LinkedIn",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			a, err = build()
			return err
		},
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "fetch",
			Short: "Fetch recent subreddit posts into the collection file",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.fetch(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "post",
			Short: "Publish the top unposted item once",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.post(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "schedule",
			Short: "Publish now and then every POST_INTERVAL until interrupted",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.schedule(cmd.Context())
			},
		},
		authCmd(&a),
		&cobra.Command{
			Use:   "status",
			Short: "Show collection, history and token status",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, args []string) {
				a.status(cmd.OutOrStdout())
			},
		},
		nextCmd(&a),
		&cobra.Command{
			Use:   "reset",
			Short: "Delete the publish history (asks for confirmation)",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.reset(cmd.InOrStdin(), cmd.OutOrStdout())
			},
		},
		&cobra.Command{
			Use:   "dashboard",
			Short: "Serve charts and /metrics on DASHBOARD_PORT (default 8081)",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.dashboard(cmd.Context())
			},
		},
	)
	return root
}

func authCmd(a **app) *cobra.Command {
	var (
		code  string
		force bool
	)
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Run the LinkedIn OAuth flow and store the token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return (*a).auth(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), code, force)
		},
	}
	cmd.Flags().StringVar(&code, "code", "", "authorization code (or redirect URL) obtained beforehand")
	cmd.Flags().BoolVar(&force, "force", false, "re-authorize even if a token is cached")
	return cmd
}

func nextCmd(a **app) *cobra.Command {
	var n int
	cmd := &cobra.Command{
		Use:   "next",
		Short: "Preview the next posts to be shared",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			(*a).next(cmd.OutOrStdout(), n)
		},
	}
	cmd.Flags().IntVarP(&n, "count", "n", 5, "how many posts to show")
	return cmd
}
