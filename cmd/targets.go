package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter" // Using a table library for nice output
	"github.com/spf13/cobra"

	"github.com/mkazlouski/adwatch/internal/config"
	"github.com/mkazlouski/adwatch/internal/logging"
	"github.com/mkazlouski/adwatch/internal/store"
)

// targetsCmd groups the tracked-search management subcommands.
var targetsCmd = &cobra.Command{
	Use:   "targets",
	Short: "Manage tracked search pages",
	Long: `Add, list, and remove the search-page URLs the watcher polls.
Changes take effect on the next poll cycle; the running watcher does not
need to be restarted.`,
}

var targetsAddCmd = &cobra.Command{
	Use:   "add <url>",
	Short: "Add a search page to the tracked set",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		st := openStore(cfgFile)
		defer st.Close()

		id, err := st.AddTarget(context.Background(), args[0])
		if err != nil {
			log.Fatalf("Error adding target: %v", err)
		}
		fmt.Printf("Added target %d: %s\n", id, args[0])
	},
}

var targetsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tracked search pages",
	Run: func(cmd *cobra.Command, args []string) {
		st := openStore(cfgFile)
		defer st.Close()

		targets, err := st.ListTargets(context.Background())
		if err != nil {
			log.Fatalf("Error listing targets: %v", err)
		}

		if len(targets) == 0 {
			fmt.Println("No targets configured.")
			return
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"ID", "URL"})
		table.SetBorder(false)

		for _, target := range targets {
			table.Append([]string{
				strconv.FormatInt(target.ID, 10),
				target.URL,
			})
		}
		table.Render()
	},
}

var targetsRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a tracked search page by id",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		// A non-numeric argument is an operator mistake, reported distinctly
		// from a valid id that doesn't exist.
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			log.Fatalf("Invalid target id %q: must be an integer", args[0])
		}

		st := openStore(cfgFile)
		defer st.Close()

		if err := st.RemoveTarget(context.Background(), id); err != nil {
			if errors.Is(err, store.ErrTargetNotFound) {
				log.Fatalf("No target with id %d", id)
			}
			log.Fatalf("Error removing target: %v", err)
		}
		fmt.Printf("Removed target %d\n", id)
	},
}

func init() {
	targetsCmd.AddCommand(targetsAddCmd)
	targetsCmd.AddCommand(targetsListCmd)
	targetsCmd.AddCommand(targetsRemoveCmd)
	rootCmd.AddCommand(targetsCmd)
}

// openStore loads the configuration and opens the shared SQL store. Exits
// the process on failure; these are interactive commands.
func openStore(configPath string) store.Store {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	logging.InitializeLogger(cfg)

	st, err := store.NewSQLStore(cfg.StoreDriver, cfg.StoreDSN)
	if err != nil {
		log.Fatalf("Error initializing store: %v", err)
	}
	return st
}
