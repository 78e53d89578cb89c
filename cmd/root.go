// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/portfolio/internal/logging"
	"github.com/naka-gawa/portfolio/internal/site"
)

var rootCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "A personal portfolio site with GitHub and Steam dashboard cards.",
	Long: `portfolio serves a personal site: a home page, an experience timeline,
a password-protected CV download, markdown papers and two dashboard cards
built from the GitHub and Steam APIs.

The github and steam commands print the card data as JSON.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
// The context is cancelled on SIGINT or SIGTERM.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().String("log-file", "", "Also write logs to this file, rotated by size")
	rootCmd.PersistentFlags().StringP("config-dir", "c", "configs", "Directory holding nav.json, info.json, timeline.json and secrets.json")
}

// newLogger builds the logger from the persistent flags. With quiet set,
// stderr only receives records when --verbose is given.
func newLogger(cmd *cobra.Command, quiet bool) (*slog.Logger, func() error, error) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	level, _ := cmd.Flags().GetString("log-level")
	file, _ := cmd.Flags().GetString("log-file")
	if verbose {
		level = "debug"
	}
	return logging.Setup(logging.Options{
		Level: level,
		File:  file,
		Quiet: quiet && !verbose,
	})
}

// newStore opens the --config-dir directory.
func newStore(cmd *cobra.Command) *site.Store {
	dir, _ := cmd.Flags().GetString("config-dir")
	return site.NewStore(dir)
}
