package cmd

import (
	"github.com/spf13/cobra"
)

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   "adwatch",
		Short: "A classified-ads watcher with Telegram notifications",
		Long: `Adwatch periodically polls a set of classified-ad search pages,
extracts listing entries, and sends a Telegram notification for every
listing it has not seen before. Tracked search pages are managed with
the targets subcommands.`,
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.adwatch/adwatch.toml or ./adwatch.toml)")
}
