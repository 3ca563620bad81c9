// Package service wires the blog API into a command line program.
package service

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is reported by the version command and --version.
const Version = "1.0.0"

// NewRootCmd builds the blogapi command tree.
func NewRootCmd() *cobra.Command {
	s := &settings{}

	rootCmd := &cobra.Command{
		Use:   "blogapi",
		Short: "Blog content API for posts and comments",
		Long: `blogapi serves a JSON API for blog posts and their comments.

Configuration is read from BLOG_* environment variables; the flags below
override them.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return s.load(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String("storage", "", "Storage backend: badger, sqlite, postgres or memory (BLOG_STORAGE)")
	flags.String("db-path", "", "Badger database directory (BLOG_DB_PATH)")
	flags.String("database-url", "", "sqlite or postgres DSN (BLOG_DATABASE_URL)")
	flags.String("log-level", "", "Log level: debug, info, warn or error (BLOG_LOG_LEVEL)")
	flags.String("log-format", "", "Log format: json or text (BLOG_LOG_FORMAT)")

	rootCmd.AddCommand(
		newServeCmd(s),
		newInitCmd(s),
		newCleanCmd(s),
		newBackupCmd(s),
		newRestoreCmd(s),
		newUserCmd(s),
		newVersionCmd(),
	)
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		// Skip configuration loading.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "blogapi version %s\n", Version)
		},
	}
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
